package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
)

// historyFile is the run log filename inside the results directory.
const historyFile = "history.json"

// HistoryEntry is one line of the run log: enough metadata to compare runs
// over time without reopening their CSV files.
type HistoryEntry struct {
	RunID        string       `json:"run_id"`
	Timestamp    time.Time    `json:"timestamp"`
	Kind         dataset.Kind `json:"eval_type"`
	Model        string       `json:"model"`
	Accuracy     float64      `json:"accuracy"`
	CorrectCount int          `json:"correct_count"`
	TotalCount   int          `json:"total_count"`
	FilePath     string       `json:"file_path"`
	GitCommit    string       `json:"git_commit,omitempty"`
}

// History is an append-only JSON run log.
type History struct {
	path string
}

// NewHistory creates a History stored in dir alongside the result files.
func NewHistory(dir string) *History {
	return &History{path: filepath.Join(dir, historyFile)}
}

// NewEntry builds a HistoryEntry for a completed run, generating the run
// id and capturing the current git commit (best effort).
func NewEntry(kind dataset.Kind, model string, accuracy float64, correct, total int, filePath string, now time.Time) HistoryEntry {
	return HistoryEntry{
		RunID:        uuid.NewString(),
		Timestamp:    now,
		Kind:         kind,
		Model:        model,
		Accuracy:     accuracy,
		CorrectCount: correct,
		TotalCount:   total,
		FilePath:     filePath,
		GitCommit:    gitCommit(),
	}
}

// Load reads all recorded entries. A missing log is an empty history, not
// an error.
func (h *History) Load() ([]HistoryEntry, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &WriteError{Path: h.path, Err: err}
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &WriteError{Path: h.path, Err: fmt.Errorf("parsing history: %w", err)}
	}
	return entries, nil
}

// LoadSorted returns entries newest first.
func (h *History) LoadSorted() ([]HistoryEntry, error) {
	entries, err := h.Load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Append adds an entry to the log, creating the log and its directory if
// needed.
func (h *History) Append(entry HistoryEntry) error {
	entries, err := h.Load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return &WriteError{Path: h.path, Err: err}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &WriteError{Path: h.path, Err: err}
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return &WriteError{Path: h.path, Err: err}
	}
	return nil
}

// gitCommit returns the current HEAD commit hash, or "" when not in a git
// checkout.
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
