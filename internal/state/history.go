package state

// History is the ordered undo/redo log of drawing actions. The committed
// sequence is the picture: it is replayed onto a surface instead of being
// cached as a bitmap, so undo is simply a replay with one fewer entry.
//
// A Drawable lives in exactly one of the two sequences at a time.
type History struct {
	committed []Drawable
	redo      []Drawable
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Commit appends d and discards everything that could have been redone.
// History is linear: there is no branching.
func (h *History) Commit(d Drawable) {
	h.committed = append(h.committed, d)
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo moves the most recent committed action onto the redo stack.
// It reports false, and does nothing, when there is nothing to undo.
func (h *History) Undo() bool {
	n := len(h.committed)
	if n == 0 {
		return false
	}
	d := h.committed[n-1]
	h.committed[n-1] = nil
	h.committed = h.committed[:n-1]
	h.redo = append(h.redo, d)
	return true
}

// Redo moves the most recently undone action back into the committed log.
// It reports false, and does nothing, when the redo stack is empty.
func (h *History) Redo() bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	d := h.redo[n-1]
	h.redo[n-1] = nil
	h.redo = h.redo[:n-1]
	h.committed = append(h.committed, d)
	return true
}

// Replay clears s and renders every committed action in order, earliest
// first, so later actions paint on top.
func (h *History) Replay(s Surface) {
	s.Clear()
	for _, d := range h.committed {
		d.Render(s)
	}
}

// Len returns the number of committed actions.
func (h *History) Len() int { return len(h.committed) }

// RedoLen returns the number of actions available to redo.
func (h *History) RedoLen() int { return len(h.redo) }

func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Entries returns a copy of the committed log in render order.
func (h *History) Entries() []Drawable {
	out := make([]Drawable, len(h.committed))
	copy(out, h.committed)
	return out
}

// Last returns the most recent committed action, or nil.
func (h *History) Last() Drawable {
	if len(h.committed) == 0 {
		return nil
	}
	return h.committed[len(h.committed)-1]
}
