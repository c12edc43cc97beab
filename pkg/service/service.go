// Package service composes the evaluation pipeline: load the dataset for
// a kind, grade it against the live router, persist the result file, and
// record the run in the history log. Both the CLI and the web server call
// this layer; neither carries evaluation logic of its own.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/jdgilhuly/agent_evals/pkg/agents"
	"github.com/jdgilhuly/agent_evals/pkg/config"
	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/eval"
	"github.com/jdgilhuly/agent_evals/pkg/provider"
	"github.com/jdgilhuly/agent_evals/pkg/results"
	"github.com/jdgilhuly/agent_evals/pkg/router"
)

// RunReport is the combined structure returned to callers after a run.
// Field names are part of the external contract (CLI JSON output and the
// HTTP response body).
type RunReport struct {
	RunID        string        `json:"run_id"`
	Kind         dataset.Kind  `json:"eval_type"`
	Model        string        `json:"model"`
	Accuracy     float64       `json:"accuracy"`
	CorrectCount int           `json:"correct_count"`
	TotalCount   int           `json:"total_count"`
	Results      []eval.Result `json:"results"`
	FilePath     string        `json:"file_path"`
}

// DeciderFactory builds the decision function for a dataset kind. The
// default factory wires live routers; tests substitute stubs.
type DeciderFactory func(kind dataset.Kind, model string) (router.Decider, error)

// Option configures a Runner.
type Option func(*Runner)

// WithDeciderFactory replaces the live decider construction (useful for
// testing the pipeline without a model).
func WithDeciderFactory(f DeciderFactory) Option {
	return func(r *Runner) { r.deciderFor = f }
}

// WithClock replaces the wall clock used for result file naming.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// Runner owns one evaluation pipeline. Runs are serialized: two triggers
// cannot interleave their writer output or history appends.
type Runner struct {
	cfg        *config.Config
	catalog    *agents.Catalog
	writer     *results.Writer
	history    *results.History
	deciderFor DeciderFactory
	now        func() time.Time

	mu sync.Mutex
}

// NewRunner builds a Runner from config and a model client.
func NewRunner(cfg *config.Config, client provider.Client, opts ...Option) *Runner {
	catalog := agents.Build()
	r := &Runner{
		cfg:     cfg,
		catalog: catalog,
		writer:  results.NewWriter(cfg.ResultsDir),
		history: results.NewHistory(cfg.ResultsDir),
		now:     time.Now,
	}
	r.deciderFor = func(kind dataset.Kind, model string) (router.Decider, error) {
		if kind == dataset.KindToolCall {
			return router.NewToolRouter(client, catalog, model)
		}
		return router.NewHandoffRouter(client, catalog, model)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one evaluation for the given kind. An empty model falls
// back to the configured default. On a persistence failure the in-memory
// report is still returned alongside the error, so callers can render
// results that could not be written to disk.
func (r *Runner) Run(ctx context.Context, kind dataset.Kind, model string, progress eval.ProgressFunc) (*RunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if model == "" {
		model = r.cfg.Provider.Model
	}

	cases, err := dataset.LoadKind(r.cfg.DataDir, kind)
	if err != nil {
		return nil, err
	}

	decider, err := r.deciderFor(kind, model)
	if err != nil {
		return nil, err
	}

	summary, err := eval.New(decider).Run(ctx, cases, progress)
	if err != nil {
		return nil, err
	}

	now := r.now()
	report := &RunReport{
		Kind:         kind,
		Model:        model,
		Accuracy:     summary.Accuracy,
		CorrectCount: summary.CorrectCount,
		TotalCount:   summary.TotalCount,
		Results:      summary.Results,
	}

	path, err := r.writer.Write(summary, kind, now)
	if err != nil {
		return report, err
	}
	report.FilePath = path

	entry := results.NewEntry(kind, model, summary.Accuracy, summary.CorrectCount, summary.TotalCount, path, now)
	report.RunID = entry.RunID
	if err := r.history.Append(entry); err != nil {
		return report, err
	}

	return report, nil
}

// Examples returns the dataset for a kind, for display purposes.
func (r *Runner) Examples(kind dataset.Kind) ([]dataset.Case, error) {
	return dataset.LoadKind(r.cfg.DataDir, kind)
}

// History returns recorded runs, newest first.
func (r *Runner) History() ([]results.HistoryEntry, error) {
	return r.history.LoadSorted()
}

// Catalog exposes the agent team under evaluation.
func (r *Runner) Catalog() *agents.Catalog {
	return r.catalog
}
