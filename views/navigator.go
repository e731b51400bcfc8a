package views

import (
	"context"
	"sync"
)

// Task is the handle of one in-flight render.
type Task struct {
	nav       *Navigator
	sessionID string
	seq       uint64
	State     State
	cancel    context.CancelFunc
}

// Navigator tracks the current render per session. Starting a new render cancels the
// previous one of the same session, and a superseded render must not be committed.
type Navigator struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]*Task
}

// NewNavigator returns an empty Navigator.
func NewNavigator() *Navigator {
	return &Navigator{current: map[string]*Task{}}
}

// Begin registers a render of state for the session and cancels its predecessor.
// The returned context must be used for every backend call of the render.
func (n *Navigator) Begin(ctx context.Context, sessionID string, state State) (context.Context, *Task) {
	ctx, cancel := context.WithCancel(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	if prev, ok := n.current[sessionID]; ok {
		prev.cancel()
	}
	t := &Task{nav: n, sessionID: sessionID, seq: n.seq, State: state, cancel: cancel}
	n.current[sessionID] = t
	return ctx, t
}

// Current reports whether no newer render has started for the task's session.
func (t *Task) Current() bool {
	t.nav.mu.Lock()
	defer t.nav.mu.Unlock()
	cur, ok := t.nav.current[t.sessionID]
	return ok && cur.seq == t.seq
}

// Done releases the task. It is safe to call more than once.
func (t *Task) Done() {
	t.cancel()
	t.nav.mu.Lock()
	defer t.nav.mu.Unlock()
	if cur, ok := t.nav.current[t.sessionID]; ok && cur.seq == t.seq {
		delete(t.nav.current, t.sessionID)
	}
}
