// Package history keeps a bounded undo/redo record of pipeline settings.
package history

import (
	"sync"

	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
)

// DefaultLimit is the number of snapshots kept when New is given no limit.
const DefaultLimit = 50

// History is an undo stack of settings snapshots plus a redo stack.
//
// The undo stack always holds at least one snapshot, and its top is the
// current settings. It never exceeds the limit; on overflow the oldest
// snapshot is dropped. Committing clears the redo stack.
//
// Snapshots are stored by value, so callers cannot change them after the
// fact. History is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	limit int
	undo  []pipeline.Settings
	redo  []pipeline.Settings
}

// New creates a history holding initial as its only snapshot. A limit of
// zero or less selects DefaultLimit.
func New(initial pipeline.Settings, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		limit: limit,
		undo:  []pipeline.Settings{initial},
	}
}

// Commit makes s the current settings.
func (h *History) Commit(s pipeline.Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, s)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
	h.redo = h.redo[:0]
}

// Undo steps back one snapshot and returns the new current settings. With
// a single snapshot left it does nothing and reports false.
func (h *History) Undo() (pipeline.Settings, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.undo)
	if n <= 1 {
		return h.undo[n-1], false
	}
	h.redo = append(h.redo, h.undo[n-1])
	h.undo = h.undo[:n-1]
	return h.undo[n-2], true
}

// Redo reapplies the most recently undone snapshot and returns it. With
// nothing to redo it returns the current settings and reports false.
func (h *History) Redo() (pipeline.Settings, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.redo)
	if n == 0 {
		return h.undo[len(h.undo)-1], false
	}
	s := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, s)
	return s, true
}

// Current returns the current settings.
func (h *History) Current() pipeline.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undo[len(h.undo)-1]
}

// Len returns the number of snapshots on the undo stack, including the
// current one.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoLen returns the number of snapshots available to Redo.
func (h *History) RedoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Limit returns the maximum undo depth.
func (h *History) Limit() int {
	return h.limit
}

// Reset discards every snapshot and starts over from initial.
func (h *History) Reset(initial pipeline.Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = []pipeline.Settings{initial}
	h.redo = nil
}
