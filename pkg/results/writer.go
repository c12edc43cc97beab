// Package results persists evaluation output: one CSV file per run, plus
// an append-only history log for longitudinal comparison.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/eval"
)

// maxNameAttempts bounds the collision-suffix search when two runs start
// within the same second.
const maxNameAttempts = 100

// WriteError reports a failure to persist a run. The in-memory summary is
// still usable; callers should surface the error alongside the results
// rather than discarding them.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing results to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer persists result rows to timestamped CSV files in a fixed
// directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer targeting dir. The directory is created on
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the writer's target directory.
func (w *Writer) Dir() string { return w.dir }

// Write serializes the summary's result rows (not its aggregates) to a new
// file named {kind}_evals_{YYYYMMDD}_{HHMMSS}.csv and returns the file
// path. An existing file is never clobbered: on a same-second collision
// the name gets a numeric suffix.
func (w *Writer) Write(summary *eval.Summary, kind dataset.Kind, now time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &WriteError{Path: w.dir, Err: err}
	}

	base := fmt.Sprintf("%s_evals_%s", kind, now.Format("20060102_150405"))

	f, path, err := w.createUnique(base)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"message", "target", "output"}); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	for _, r := range summary.Results {
		if err := cw.Write([]string{r.Message, r.Target, r.Output}); err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	return path, nil
}

// createUnique opens a new file for the run, appending _1, _2, ... when
// the unsuffixed name is already taken.
func (w *Writer) createUnique(base string) (*os.File, string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := base + ".csv"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.csv", base, i)
		}
		path := filepath.Join(w.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", &WriteError{Path: path, Err: err}
		}
	}
	return nil, "", &WriteError{
		Path: filepath.Join(w.dir, base+".csv"),
		Err:  fmt.Errorf("could not find a free filename after %d attempts", maxNameAttempts),
	}
}
