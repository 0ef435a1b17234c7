package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store keeps sessions in memory. Calls for the same chat are serialised;
// different chats proceed in parallel.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// WithSession runs fn with the chat's session locked, creating an idle
// session on first use.
func (st *Store) WithSession(ctx context.Context, chatID string, fn func(s *Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st.mu.Lock()
	e, ok := st.entries[chatID]
	if !ok {
		e = &entry{session: New(chatID, st.now())}
		st.entries[chatID] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Delete drops the chat's session.
func (st *Store) Delete(_ context.Context, chatID string) {
	st.mu.Lock()
	delete(st.entries, chatID)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// Prune removes sessions untouched for longer than idle and reports how many went.
// Sessions busy in WithSession are skipped.
func (st *Store) Prune(idle time.Duration) int {
	cutoff := st.now().Add(-idle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, e := range st.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.session.UpdatedAt.Before(cutoff) {
			delete(st.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// RunSweeper prunes idle sessions every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Session sweeper stopping")
			return
		case <-ticker.C:
			if n := st.Prune(idle); n > 0 {
				slog.InfoContext(ctx, "Pruned idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
