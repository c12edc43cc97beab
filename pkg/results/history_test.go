package results

import (
	"testing"
	"time"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
)

func TestHistory_AppendAndLoad(t *testing.T) {
	h := NewHistory(t.TempDir())

	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load() on missing log error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}

	e1 := NewEntry(dataset.KindHandoff, "gpt-4.1-mini", 0.75, 9, 12, "results/a.csv", testTime)
	e2 := NewEntry(dataset.KindToolCall, "gpt-4.1-mini", 0.9, 9, 10, "results/b.csv", testTime.Add(time.Hour))

	if err := h.Append(e1); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := h.Append(e2); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err = h.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].RunID != e1.RunID || entries[1].RunID != e2.RunID {
		t.Error("append order not preserved in the log")
	}
	if entries[0].Kind != dataset.KindHandoff || entries[0].Accuracy != 0.75 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestHistory_LoadSorted(t *testing.T) {
	h := NewHistory(t.TempDir())

	older := NewEntry(dataset.KindHandoff, "m", 0.5, 1, 2, "a.csv", testTime)
	newer := NewEntry(dataset.KindHandoff, "m", 1.0, 2, 2, "b.csv", testTime.Add(time.Minute))

	if err := h.Append(older); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := h.Append(newer); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := h.LoadSorted()
	if err != nil {
		t.Fatalf("LoadSorted() error = %v", err)
	}
	if entries[0].RunID != newer.RunID {
		t.Error("LoadSorted() did not return newest first")
	}
}

func TestNewEntry_UniqueRunIDs(t *testing.T) {
	a := NewEntry(dataset.KindHandoff, "m", 0, 0, 0, "", testTime)
	b := NewEntry(dataset.KindHandoff, "m", 0, 0, 0, "", testTime)
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("run ids not unique: %q vs %q", a.RunID, b.RunID)
	}
}
