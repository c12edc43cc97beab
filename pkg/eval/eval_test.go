package eval

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
)

// scriptedDecider returns outputs by message, or an error for messages in
// failOn.
type scriptedDecider struct {
	outputs map[string]string
	failOn  map[string]error
	calls   []string
}

func (d *scriptedDecider) Decide(ctx context.Context, message string) (string, error) {
	d.calls = append(d.calls, message)
	if err, ok := d.failOn[message]; ok {
		return "", err
	}
	return d.outputs[message], nil
}

func TestRun_MixedResults(t *testing.T) {
	cases := []dataset.Case{
		{Message: "I want a refund", Target: "BillingAgent"},
		{Message: "My account is locked", Target: "SupportAgent"},
	}
	d := &scriptedDecider{outputs: map[string]string{
		"I want a refund":      "BillingAgent",
		"My account is locked": "TechAgent",
	}}

	summary, err := New(d).Run(context.Background(), cases, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.TotalCount != 2 || summary.CorrectCount != 1 {
		t.Errorf("counts = %d/%d, want 1/2", summary.CorrectCount, summary.TotalCount)
	}
	if summary.Accuracy != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", summary.Accuracy)
	}

	want := []Result{
		{Message: "I want a refund", Target: "BillingAgent", Output: "BillingAgent", Correct: true},
		{Message: "My account is locked", Target: "SupportAgent", Output: "TechAgent", Correct: false},
	}
	if !reflect.DeepEqual(summary.Results, want) {
		t.Errorf("results = %+v, want %+v", summary.Results, want)
	}
}

func TestRun_ExactMatchIsCaseSensitive(t *testing.T) {
	cases := []dataset.Case{{Message: "refund please", Target: "BillingAgent"}}
	d := &scriptedDecider{outputs: map[string]string{"refund please": "billingagent"}}

	summary, err := New(d).Run(context.Background(), cases, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Results[0].Correct {
		t.Error("case-insensitive match marked correct; comparison must be exact")
	}
	if summary.CorrectCount != 0 {
		t.Errorf("CorrectCount = %d, want 0", summary.CorrectCount)
	}
}

func TestRun_EmptyDataset(t *testing.T) {
	summary, err := New(&scriptedDecider{}).Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", summary.TotalCount)
	}
	if summary.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0 for empty dataset", summary.Accuracy)
	}
	if len(summary.Results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(summary.Results))
	}
}

func TestRun_OrderPreserved(t *testing.T) {
	var cases []dataset.Case
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		cases = append(cases, dataset.Case{Message: m, Target: "X"})
	}
	d := &scriptedDecider{outputs: map[string]string{}}

	summary, err := New(d).Run(context.Background(), cases, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, c := range cases {
		if summary.Results[i].Message != c.Message {
			t.Errorf("results[%d].Message = %q, want %q", i, summary.Results[i].Message, c.Message)
		}
	}
	if !reflect.DeepEqual(d.calls, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("invocation order = %v", d.calls)
	}
}

func TestRun_FailFast(t *testing.T) {
	cases := []dataset.Case{
		{Message: "one", Target: "A"},
		{Message: "two", Target: "B"},
		{Message: "three", Target: "C"},
	}
	cause := errors.New("model unavailable")
	d := &scriptedDecider{
		outputs: map[string]string{"one": "A"},
		failOn:  map[string]error{"two": cause},
	}

	summary, err := New(d).Run(context.Background(), cases, nil)
	if summary != nil {
		t.Error("expected no partial summary on failure")
	}

	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *InvocationError", err)
	}
	if invErr.CaseIndex != 1 || invErr.Message != "two" {
		t.Errorf("InvocationError = %+v, want case 1 (%q)", invErr, "two")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error chain does not include cause: %v", err)
	}

	// The third case must never have been invoked.
	if len(d.calls) != 2 {
		t.Errorf("decider calls = %v, want evaluation to stop after the failure", d.calls)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []dataset.Case{{Message: "one", Target: "A"}}
	d := &scriptedDecider{outputs: map[string]string{"one": "A"}}

	_, err := New(d).Run(ctx, cases, nil)
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *InvocationError", err)
	}
	if len(d.calls) != 0 {
		t.Error("decider was invoked after cancellation")
	}
}

func TestRun_Idempotent(t *testing.T) {
	cases := []dataset.Case{
		{Message: "x", Target: "A"},
		{Message: "y", Target: "B"},
	}
	outputs := map[string]string{"x": "A", "y": "A"}

	first, err := New(&scriptedDecider{outputs: outputs}).Run(context.Background(), cases, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := New(&scriptedDecider{outputs: outputs}).Run(context.Background(), cases, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ: %+v vs %+v", first, second)
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	cases := []dataset.Case{
		{Message: "a", Target: "A"},
		{Message: "b", Target: "B"},
	}
	d := &scriptedDecider{outputs: map[string]string{"a": "A", "b": "B"}}

	var seen []int
	_, err := New(d).Run(context.Background(), cases, func(index, total int, r Result) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		seen = append(seen, index)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(seen, []int{0, 1}) {
		t.Errorf("progress indexes = %v, want [0 1]", seen)
	}
}

func TestSummarize_Invariants(t *testing.T) {
	results := []Result{
		{Correct: true},
		{Correct: false},
		{Correct: true},
		{Correct: true},
	}
	s := Summarize(results)

	if s.TotalCount != len(results) {
		t.Errorf("TotalCount = %d, want %d", s.TotalCount, len(results))
	}
	if s.CorrectCount != 3 {
		t.Errorf("CorrectCount = %d, want 3", s.CorrectCount)
	}
	if s.CorrectCount > s.TotalCount {
		t.Error("CorrectCount exceeds TotalCount")
	}
	if s.Accuracy < 0 || s.Accuracy > 1 {
		t.Errorf("accuracy = %v, out of [0,1]", s.Accuracy)
	}
	if want := float64(s.CorrectCount) / float64(s.TotalCount); s.Accuracy != want {
		t.Errorf("accuracy = %v, want %v", s.Accuracy, want)
	}
}
