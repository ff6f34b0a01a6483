package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const Prefix = "ORD-"

// Generator returns order ids that are unique for the lifetime of the process.
type Generator interface {
	NewID() string
}

// Clock issues ids of the form ORD-<unix millis>. Two calls within the same
// millisecond still get distinct ids: the counter is bumped past the last one.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return fmt.Sprintf("%s%d", Prefix, ms)
}

// UUID issues random ids, used when several processes place orders into the same archive.
type UUID struct{}

func (UUID) NewID() string {
	return Prefix + uuid.NewString()
}

// Sequence issues ORD-1, ORD-2, ... and is meant for tests.
type Sequence struct {
	mu sync.Mutex
	n  int64
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", Prefix, s.n)
}

// New picks a generator by name: "clock" (default), "uuid" or "sequence".
func New(kind string) (Generator, error) {
	switch kind {
	case "", "clock":
		return NewClock(nil), nil
	case "uuid":
		return UUID{}, nil
	case "sequence":
		return &Sequence{}, nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}
