package store

import (
	"sync"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/idgen"
)

const (
	// DefaultSessionTTL is how long an untouched session is kept
	DefaultSessionTTL = 2 * time.Hour

	// DefaultCleanupInterval is how often idle sessions are swept
	DefaultCleanupInterval = time.Minute
)

type session struct {
	store    *CartStore
	lastSeen time.Time
}

// Sessions hands out one CartStore per session id and drops the ones nobody touched for ttl.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session

	ids  idgen.Generator
	ttl  time.Duration
	now  func() time.Time
	opts []Option

	stopCleanup chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewSessions starts the background sweep; call Close to stop it.
// All stores share ids so order ids stay unique across sessions.
func NewSessions(ids idgen.Generator, ttl, cleanupInterval time.Duration, opts ...Option) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &Sessions{
		sessions:    make(map[string]*session),
		ids:         ids,
		ttl:         ttl,
		now:         time.Now,
		opts:        opts,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get returns the store of sessionID, creating an empty one on first use
func (s *Sessions) Get(sessionID string) *CartStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = now
		return sess.store
	}

	sess := &session{
		store:    NewCartStore(s.ids, s.opts...),
		lastSeen: now,
	}
	s.sessions[sessionID] = sess
	return sess.store
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stopCleanup:
			return
		}
	}
}

// evictIdle drops sessions not seen within ttl and returns how many were dropped
func (s *Sessions) evictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Close stops the background cleanup and waits for it to finish
func (s *Sessions) Close() error {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
	s.wg.Wait()
	return nil
}
