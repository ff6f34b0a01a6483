package store

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/fjod/go_cart/pickup-service/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessions(t *testing.T, ttl time.Duration) *Sessions {
	sessions := NewSessions(&idgen.Sequence{}, ttl, time.Hour)
	t.Cleanup(func() { sessions.Close() })
	return sessions
}

func TestSessions_SameIDSameStore(t *testing.T) {
	sessions := setupSessions(t, time.Hour)

	first := sessions.Get("s1")
	first.AddItem(domain.Candidate{ID: "a", UnitPrice: 1})

	assert.Same(t, first, sessions.Get("s1"))
	assert.Len(t, sessions.Get("s1").Cart(), 1)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessions_DifferentIDsIsolated(t *testing.T) {
	sessions := setupSessions(t, time.Hour)

	sessions.Get("s1").AddItem(domain.Candidate{ID: "a", UnitPrice: 1})

	assert.Empty(t, sessions.Get("s2").Cart())
	assert.Equal(t, 2, sessions.Len())
}

func TestSessions_SharedGeneratorKeepsOrderIDsUnique(t *testing.T) {
	sessions := setupSessions(t, time.Hour)

	s1 := sessions.Get("s1")
	s2 := sessions.Get("s2")
	s1.AddItem(domain.Candidate{ID: "a", UnitPrice: 1})
	s2.AddItem(domain.Candidate{ID: "a", UnitPrice: 1})

	o1, err := s1.PlaceOrder(context.Background())
	require.NoError(t, err)
	o2, err := s2.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, o1.ID, o2.ID)
}

func TestSessions_EvictIdle(t *testing.T) {
	sessions := setupSessions(t, time.Minute)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	sessions.Get("old")
	now = now.Add(50 * time.Second)
	sessions.Get("fresh")
	now = now.Add(30 * time.Second)

	evicted := sessions.evictIdle()

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessions_AccessRefreshesTTL(t *testing.T) {
	sessions := setupSessions(t, time.Minute)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	store := sessions.Get("s1")
	store.AddItem(domain.Candidate{ID: "a", UnitPrice: 1})
	now = now.Add(45 * time.Second)
	sessions.Get("s1")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 0, sessions.evictIdle())
	assert.Len(t, sessions.Get("s1").Cart(), 1)
}

func TestSessions_CloseTwice(t *testing.T) {
	sessions := NewSessions(&idgen.Sequence{}, 0, 0)
	require.NoError(t, sessions.Close())
	require.NoError(t, sessions.Close())
}
