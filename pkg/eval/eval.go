// Package eval runs a labeled dataset through a decision function and
// grades each answer by exact string comparison.
package eval

import (
	"context"
	"fmt"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/router"
)

// Result records the outcome for a single test case. Correct is derived
// once at creation time and never recomputed: it is exact, case-sensitive
// string equality between output and target. No normalization is applied,
// so results stay comparable across runs.
type Result struct {
	CaseID  string `json:"case_id,omitempty"`
	Message string `json:"message"`
	Target  string `json:"target"`
	Output  string `json:"output"`
	Correct bool   `json:"correct"`
}

// Summary aggregates the results of one run. Accuracy is defined as 0 for
// an empty dataset.
type Summary struct {
	Results      []Result `json:"results"`
	Accuracy     float64  `json:"accuracy"`
	CorrectCount int      `json:"correct_count"`
	TotalCount   int      `json:"total_count"`
}

// InvocationError reports that the decider failed for one test case. The
// run is aborted at that point rather than producing a partial summary: an
// accuracy figure with holes in it would be misleading.
type InvocationError struct {
	CaseIndex int
	Message   string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking decider for case %d (%q): %v", e.CaseIndex, e.Message, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ProgressFunc is called after each case completes. Index is 0-based,
// total is the number of cases.
type ProgressFunc func(index, total int, r Result)

// Evaluator grades datasets against a Decider.
type Evaluator struct {
	decider router.Decider
}

// New creates an Evaluator backed by the given decider.
func New(decider router.Decider) *Evaluator {
	return &Evaluator{decider: decider}
}

// Run iterates cases in order, asks the decider for each message, and
// compares its answer to the expected target. Evaluation is sequential:
// the model call dominates latency and case order must be preserved in
// the output. The first decider failure aborts the run with an
// *InvocationError; no partial summary is returned. The optional progress
// callback is invoked after each case.
func (e *Evaluator) Run(ctx context.Context, cases []dataset.Case, progress ProgressFunc) (*Summary, error) {
	results := make([]Result, 0, len(cases))

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, &InvocationError{CaseIndex: i, Message: c.Message, Err: err}
		}

		output, err := e.decider.Decide(ctx, c.Message)
		if err != nil {
			return nil, &InvocationError{CaseIndex: i, Message: c.Message, Err: err}
		}

		r := Result{
			CaseID:  c.ID,
			Message: c.Message,
			Target:  c.Target,
			Output:  output,
			Correct: output == c.Target,
		}
		results = append(results, r)

		if progress != nil {
			progress(i, len(cases), r)
		}
	}

	return Summarize(results), nil
}

// Summarize computes the aggregate counts and accuracy for a result
// sequence. The result slice is held, not copied.
func Summarize(results []Result) *Summary {
	s := &Summary{
		Results:    results,
		TotalCount: len(results),
	}
	for _, r := range results {
		if r.Correct {
			s.CorrectCount++
		}
	}
	if s.TotalCount > 0 {
		s.Accuracy = float64(s.CorrectCount) / float64(s.TotalCount)
	}
	return s
}
