// Package clock supplies timestamps and identifiers for new identities,
// posts and comments.
package clock

import (
	"strconv"
	"sync"
	"time"
)

type Source interface {
	Now() time.Time
	// NewID returns an identifier that no earlier call on the same Source returned.
	NewID() string
}

// System derives ids from the wall clock in unix milliseconds. Two calls in the
// same millisecond still get distinct, increasing ids.
type System struct {
	mu   sync.Mutex
	last int64
}

func NewSystem() *System { return &System{} }

func (s *System) Now() time.Time { return time.Now() }

func (s *System) NewID() string {
	ms := time.Now().UnixMilli()
	s.mu.Lock()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	s.mu.Unlock()
	return strconv.FormatInt(ms, 10)
}

// Sequence is a deterministic Source: ids count up from 1 with an optional
// prefix and Now advances by Step on every call.
type Sequence struct {
	mu     sync.Mutex
	Prefix string
	At     time.Time
	Step   time.Duration
	seq    int64
}

func NewSequence(prefix string, start time.Time) *Sequence {
	return &Sequence{Prefix: prefix, At: start, Step: time.Second}
}

func (s *Sequence) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.At
	s.At = s.At.Add(s.Step)
	return now
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.Prefix + strconv.FormatInt(s.seq, 10)
}
