package history

import (
	"sync"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
)

// snapshot returns distinct settings identified by n.
func snapshot(n int) pipeline.Settings {
	s := pipeline.DefaultSettings()
	s.Threshold = n
	return s
}

func TestNew(t *testing.T) {
	h := New(snapshot(1), 0)

	if h.Limit() != DefaultLimit {
		t.Errorf("Limit: got %d, want %d", h.Limit(), DefaultLimit)
	}
	if h.Len() != 1 || h.RedoLen() != 0 {
		t.Errorf("got len %d redo %d, want 1 and 0", h.Len(), h.RedoLen())
	}
	if got := h.Current(); got != snapshot(1) {
		t.Errorf("Current: got %+v", got)
	}
}

func TestHistory_Bounds(t *testing.T) {
	h := New(snapshot(0), 50)
	for i := 1; i < 60; i++ {
		h.Commit(snapshot(i))
	}

	if h.Len() != 50 {
		t.Fatalf("Len: got %d, want 50", h.Len())
	}

	var s pipeline.Settings
	for i := 0; i < 49; i++ {
		var ok bool
		s, ok = h.Undo()
		if !ok {
			t.Fatalf("undo %d reported no-op", i+1)
		}
	}
	// The first ten snapshots were evicted.
	if s.Threshold != 10 {
		t.Errorf("after 49 undos: got threshold %d, want 10", s.Threshold)
	}

	s, ok := h.Undo()
	if ok {
		t.Error("50th undo should be a no-op")
	}
	if s.Threshold != 10 || h.Current().Threshold != 10 {
		t.Errorf("50th undo changed current to %d", h.Current().Threshold)
	}
}

func TestHistory_UndoRedo(t *testing.T) {
	h := New(snapshot(1), 10)
	h.Commit(snapshot(2))
	h.Commit(snapshot(3))

	if s, _ := h.Undo(); s.Threshold != 2 {
		t.Errorf("undo: got %d, want 2", s.Threshold)
	}
	if s, _ := h.Undo(); s.Threshold != 1 {
		t.Errorf("undo: got %d, want 1", s.Threshold)
	}
	if h.RedoLen() != 2 {
		t.Errorf("RedoLen: got %d, want 2", h.RedoLen())
	}

	if s, ok := h.Redo(); !ok || s.Threshold != 2 {
		t.Errorf("redo: got %d ok=%v, want 2", s.Threshold, ok)
	}
	if s, ok := h.Redo(); !ok || s.Threshold != 3 {
		t.Errorf("redo: got %d ok=%v, want 3", s.Threshold, ok)
	}
	if s, ok := h.Redo(); ok || s.Threshold != 3 {
		t.Errorf("redo on empty: got %d ok=%v, want no-op at 3", s.Threshold, ok)
	}
}

func TestHistory_CommitClearsRedo(t *testing.T) {
	h := New(snapshot(1), 10)
	h.Commit(snapshot(2))
	h.Undo()

	h.Commit(snapshot(5))

	if h.RedoLen() != 0 {
		t.Errorf("RedoLen: got %d, want 0", h.RedoLen())
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo after commit should be a no-op")
	}
	if got := h.Current().Threshold; got != 5 {
		t.Errorf("Current: got %d, want 5", got)
	}
}

func TestHistory_UndoSingleSnapshot(t *testing.T) {
	h := New(snapshot(4), 10)

	s, ok := h.Undo()
	if ok || s.Threshold != 4 {
		t.Errorf("got %d ok=%v, want no-op at 4", s.Threshold, ok)
	}
	if h.RedoLen() != 0 {
		t.Error("no-op undo filled the redo stack")
	}
}

func TestHistory_SnapshotsAreValues(t *testing.T) {
	s := snapshot(1)
	h := New(s, 10)
	s.Threshold = 99

	if h.Current().Threshold != 1 {
		t.Error("changing the committed value changed the snapshot")
	}
}

func TestHistory_Reset(t *testing.T) {
	h := New(snapshot(1), 10)
	h.Commit(snapshot(2))
	h.Undo()

	h.Reset(snapshot(7))

	if h.Len() != 1 || h.RedoLen() != 0 || h.Current().Threshold != 7 {
		t.Errorf("after Reset: len %d redo %d current %d", h.Len(), h.RedoLen(), h.Current().Threshold)
	}
}

func TestHistory_Concurrent(t *testing.T) {
	h := New(snapshot(0), 20)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Commit(snapshot(n))
				h.Undo()
				h.Redo()
				_ = h.Current()
			}
		}(i)
	}
	wg.Wait()

	if h.Len() < 1 || h.Len() > 20 {
		t.Errorf("Len out of bounds: %d", h.Len())
	}
}
