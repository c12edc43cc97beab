// Package report renders evaluation output for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jdgilhuly/agent_evals/pkg/eval"
	"github.com/jdgilhuly/agent_evals/pkg/results"
	"github.com/jdgilhuly/agent_evals/pkg/service"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

// StatusLabel returns a colored status string for one result row.
func StatusLabel(r eval.Result) string {
	if r.Correct {
		return colorGreen + "OK" + colorReset
	}
	return colorRed + "MISS" + colorReset
}

// StatusLabelPlain returns an uncolored status string.
func StatusLabelPlain(r eval.Result) string {
	if r.Correct {
		return "OK"
	}
	return "MISS"
}

// PrintProgress writes a single per-case line during a run.
func PrintProgress(w io.Writer, index, total int, r eval.Result, color bool) {
	status := StatusLabelPlain(r)
	if color {
		status = StatusLabel(r)
	}
	fmt.Fprintf(w, "  [%d/%d] %-4s  expected=%-20s actual=%-20s %s\n",
		index+1, total, status, r.Target, r.Output, truncate(r.Message, 48))
}

// PrintReport writes the full result table and accuracy footer for a run.
func PrintReport(w io.Writer, rep *service.RunReport, color bool) {
	sep := strings.Repeat("-", 100)
	fmt.Fprintf(w, "%s\n", sep)
	fmt.Fprintf(w, "  %-48s  %-20s  %-20s  %s\n", "MESSAGE", "EXPECTED", "ACTUAL", "STATUS")
	fmt.Fprintf(w, "%s\n", sep)

	for _, r := range rep.Results {
		var status string
		if color {
			status = StatusLabel(r)
		} else {
			status = StatusLabelPlain(r)
		}
		fmt.Fprintf(w, "  %-48s  %-20s  %-20s  %s\n",
			truncate(r.Message, 48), truncate(r.Target, 20), truncate(r.Output, 20), status)
	}

	fmt.Fprintf(w, "%s\n", sep)
	if color {
		fmt.Fprintf(w, "  %s%s eval%s: accuracy %s%d/%d = %.2f%%%s (model %s)\n",
			colorBold, rep.Kind, colorReset,
			colorBold, rep.CorrectCount, rep.TotalCount, rep.Accuracy*100, colorReset,
			rep.Model)
	} else {
		fmt.Fprintf(w, "  %s eval: accuracy %d/%d = %.2f%% (model %s)\n",
			rep.Kind, rep.CorrectCount, rep.TotalCount, rep.Accuracy*100, rep.Model)
	}
	if rep.FilePath != "" {
		fmt.Fprintf(w, "  results saved to %s\n", rep.FilePath)
	}
	fmt.Fprintf(w, "%s\n", sep)
}

// PrintHistory writes the run log as a table, newest first.
func PrintHistory(w io.Writer, entries []results.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}

	sep := strings.Repeat("-", 88)
	fmt.Fprintf(w, "%s\n", sep)
	fmt.Fprintf(w, "  %-20s  %-9s  %-16s  %8s  %7s  %s\n", "TIMESTAMP", "KIND", "MODEL", "ACCURACY", "CASES", "COMMIT")
	fmt.Fprintf(w, "%s\n", sep)

	for _, e := range entries {
		commit := e.GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		fmt.Fprintf(w, "  %-20s  %-9s  %-16s  %7.1f%%  %3d/%-3d  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, truncate(e.Model, 16),
			e.Accuracy*100, e.CorrectCount, e.TotalCount, commit)
	}
	fmt.Fprintf(w, "%s\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
