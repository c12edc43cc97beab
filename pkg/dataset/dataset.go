// Package dataset loads the labeled test cases that evaluation runs grade
// against. Datasets are plain CSV files with a header row; file order is
// the evaluation order.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind selects which dataset an evaluation run grades.
type Kind string

const (
	// KindHandoff grades orchestrator-to-specialist routing decisions.
	KindHandoff Kind = "handoff"
	// KindToolCall grades tool selection by the operational agent.
	KindToolCall Kind = "tool_call"
)

// Filenames of the backing CSV files inside the data directory.
const (
	handoffFile  = "routing_dataset.csv"
	toolCallFile = "tool_call_dataset.csv"
)

// Valid reports whether k names a known dataset kind.
func (k Kind) Valid() bool {
	return k == KindHandoff || k == KindToolCall
}

// Filename returns the CSV filename backing this kind.
func (k Kind) Filename() string {
	if k == KindToolCall {
		return toolCallFile
	}
	return handoffFile
}

// Case is a single labeled test case: a user message and the decision the
// router is expected to make for it (an agent name or a tool name,
// depending on the dataset kind).
type Case struct {
	ID      string `json:"case_id,omitempty"`
	Message string `json:"message"`
	Target  string `json:"target"`
}

// Error describes a dataset that could not be loaded. It is fatal to the
// run; no evaluation is attempted against a bad dataset.
type Error struct {
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadKind loads the dataset for the given kind from dir.
func LoadKind(dir string, kind Kind) ([]Case, error) {
	if !kind.Valid() {
		return nil, &Error{Path: dir, Reason: fmt.Sprintf("unknown dataset kind %q", kind)}
	}
	return Load(filepath.Join(dir, kind.Filename()))
}

// Load reads an ordered list of cases from the CSV file at path. The file
// must have a header row containing "message" and "target" columns; a
// leading "case_id" column is optional. Row order is preserved.
func Load(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Reason: "opening dataset file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &Error{Path: path, Reason: "dataset file is empty"}
	}
	if err != nil {
		return nil, &Error{Path: path, Reason: "reading header row", Err: err}
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, &Error{Path: path, Reason: err.Error()}
	}

	var cases []Case
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Error{Path: path, Reason: fmt.Sprintf("reading row %d", len(cases)+2), Err: err}
		}

		c := Case{
			Message: row[cols.message],
			Target:  row[cols.target],
		}
		if cols.caseID >= 0 {
			c.ID = row[cols.caseID]
		}
		if c.Message == "" || c.Target == "" {
			return nil, &Error{Path: path, Reason: fmt.Sprintf("row %d has an empty message or target", len(cases)+2)}
		}
		cases = append(cases, c)
	}

	if len(cases) == 0 {
		return nil, &Error{Path: path, Reason: "dataset has a header but no rows"}
	}

	return cases, nil
}

// columnIndexes records where the known columns sit in the header.
type columnIndexes struct {
	caseID  int
	message int
	target  int
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{caseID: -1, message: -1, target: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "case_id":
			cols.caseID = i
		case "message", "prompt":
			cols.message = i
		case "target", "expected_agent", "expected_tool":
			cols.target = i
		}
	}
	if cols.message < 0 {
		return cols, fmt.Errorf("header is missing a %q column", "message")
	}
	if cols.target < 0 {
		return cols, fmt.Errorf("header is missing a %q column", "target")
	}
	return cols, nil
}
