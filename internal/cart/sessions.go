package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
)

// Sessions keeps one Store per browser session. Every mutation is
// snapshotted to the cache. A store left unused for the idle timeout is
// dropped from memory, and a session missing from memory (after eviction
// or a restart) is restored from its snapshot.
type Sessions struct {
	mu        sync.Mutex
	sessions  map[string]*session
	cache     cache.Cache
	ttl       time.Duration
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// NewSessions keeps snapshots for ttl and in-memory stores for idle. An
// idle of zero keeps stores until the process exits.
func NewSessions(c cache.Cache, ttl, idle time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		cache:    c,
		ttl:      ttl,
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the store for session id, creating or restoring it.
func (s *Sessions) Get(ctx context.Context, id string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if sess, ok := s.sessions[id]; ok {
		sess.lastUsed = now
		return sess.store
	}

	st := NewStore(s.restore(ctx, id)...)
	key := s.cache.GenerateKey("cart", id)
	st.Subscribe(func(state State) {
		s.persist(key, state)
	})
	s.sessions[id] = &session{store: st, lastUsed: now}
	return st
}

// Len reports how many sessions are held in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked drops stores idle for longer than s.idle. It runs at most
// once per quarter of the idle timeout.
func (s *Sessions) sweepLocked(now time.Time) {
	if s.idle <= 0 || now.Sub(s.lastSweep) < s.idle/4 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.idle {
			delete(s.sessions, id)
		}
	}
}

func (s *Sessions) restore(ctx context.Context, id string) []Item {
	raw, err := s.cache.Get(ctx, s.cache.GenerateKey("cart", id))
	if err != nil {
		slog.WarnContext(ctx, "cart snapshot unavailable", "session", id, "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.WarnContext(ctx, "cart snapshot unreadable", "session", id, "error", err)
		return nil
	}
	return items
}

func (s *Sessions) persist(key string, state State) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if state.IsEmpty() {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "cart snapshot delete failed", "key", key, "error", err)
		}
		return
	}
	b, err := json.Marshal(state.Items)
	if err != nil {
		slog.ErrorContext(ctx, "cart snapshot encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
		slog.WarnContext(ctx, "cart snapshot write failed", "key", key, "error", err)
	}
}
