// Package event implements the no-payload change notification used by
// glyphs, characters and collections to tell their owners that something
// changed.
package event

import (
	"log/slog"
	"sync"
)

// MaxDepth is the maximum number of nested Emit calls on a single Emitter.
// Handlers that mutate the data they observe can otherwise recurse forever.
const MaxDepth = 16

type subscriber struct {
	id int
	fn func()
}

// Emitter is a list of subscribers. The zero value is ready to use.
type Emitter struct {
	mu     sync.Mutex
	subs   []subscriber
	nextID int
	depth  int
	batch  int
	dirty  bool
}

// Subscribe registers fn and returns a function that removes it. The
// returned function may be called more than once.
func (e *Emitter) Subscribe(fn func()) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Emitter) remove(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Emit calls every subscriber synchronously, in registration order. Inside
// a Batch the call is deferred until the outermost batch ends.
func (e *Emitter) Emit() {
	e.mu.Lock()
	if e.batch > 0 {
		e.dirty = true
		e.mu.Unlock()
		return
	}
	if e.depth >= MaxDepth {
		e.mu.Unlock()
		slog.Warn("dropping reentrant change notification", "depth", e.depth)
		return
	}
	e.depth++
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.depth--
		e.mu.Unlock()
	}()
	for _, s := range subs {
		s.fn()
	}
}

// Batch runs fn with notifications suspended, then emits once if anything
// was emitted while fn ran. The emit happens even if fn fails.
func (e *Emitter) Batch(fn func() error) error {
	e.mu.Lock()
	e.batch++
	e.mu.Unlock()

	err := fn()

	e.mu.Lock()
	e.batch--
	fire := e.batch == 0 && e.dirty
	if fire {
		e.dirty = false
	}
	e.mu.Unlock()

	if fire {
		e.Emit()
	}
	return err
}
