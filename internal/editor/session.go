// Package editor ties a glyph collection to persistent storage. A Session
// is the single writer for its collection: every read and mutation goes
// through it, and changes are saved automatically after a quiet period.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rusq/fonted"
	"github.com/rusq/fonted/internal/autosave"
	"github.com/rusq/fonted/internal/store"
)

// Session is an editing session over one stored collection.
type Session struct {
	st  store.Store
	key string

	mu sync.Mutex
	cc *fonted.Collection

	saver *autosave.Debouncer
	unsub func()
}

// Open loads the collection stored under key, or starts a blank ASCII
// collection if there is none. Changes are saved delay after the last
// modification.
func Open(ctx context.Context, st store.Store, key string, delay time.Duration) (*Session, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	cc := fonted.NewASCII()
	blob, err := st.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		slog.Debug("no saved font, starting blank", "key", key)
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", key, err)
	default:
		if err := cc.Deserialize(blob); err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		slog.Debug("loaded font", "key", key, "characters", cc.Len())
	}

	s := &Session{st: st, key: key, cc: cc}
	s.saver = autosave.New(delay, func() error {
		slog.Debug("saving to store", "key", key)
		return s.Save(context.Background())
	})
	s.unsub = cc.OnChange(s.saver.Trigger)
	return s, nil
}

// Do runs fn with exclusive access to the collection. fn must not call
// other Session methods.
func (s *Session) Do(fn func(cc *fonted.Collection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cc)
}

// Dirty reports whether there are changes waiting to be autosaved.
func (s *Session) Dirty() bool {
	return s.saver.Pending()
}

// Save writes the collection to the store now.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	blob, err := s.cc.Serialize()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.st.Put(ctx, s.key, blob); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Close writes any pending changes and detaches the session from its
// collection. The store is not closed.
func (s *Session) Close() error {
	s.unsub()
	return s.saver.Flush()
}

// ImportHex applies hex blobs pasted by the user. Line comments are
// stripped first, so a C array with per-character comments imports cleanly.
func (s *Session) ImportHex(text string) error {
	return s.Do(func(cc *fonted.Collection) error {
		return cc.ImportHex(fonted.StripLineComments(text))
	})
}

// Replace replaces the collection content with a serialized blob. Glyphs the
// blob does not mention are cleared. A blob that fails to decode leaves the
// collection unchanged.
func (s *Session) Replace(blob string) error {
	if err := fonted.NewASCII().Deserialize(blob); err != nil {
		return err
	}
	return s.Do(func(cc *fonted.Collection) error {
		return cc.Update(func() error {
			cc.Clear()
			return cc.Deserialize(blob)
		})
	})
}
