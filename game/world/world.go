package world

import (
	"errors"
	"sync"
)

// ErrNoSnapshot is returned by a Source that has nothing to offer this tick
// (not logged in, zoning, between frames).
var ErrNoSnapshot = errors.New("world: no snapshot available")

// Source is the host's read-only world view. It is polled once per tick and
// must not perform network or disk I/O.
type Source interface {
	Snapshot() (*Snapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*Snapshot, error)

func (f SourceFunc) Snapshot() (*Snapshot, error) { return f() }

// Static always returns the same snapshot.
type Static struct {
	snap *Snapshot
}

// NewStatic creates a Static source. A nil snapshot yields ErrNoSnapshot.
func NewStatic(s *Snapshot) *Static {
	return &Static{snap: s}
}

func (s *Static) Snapshot() (*Snapshot, error) {
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

// Sequence replays a fixed list of snapshots, one per call.
type Sequence struct {
	mu     sync.Mutex
	frames []*Snapshot
	next   int
	loop   bool
}

// NewSequence creates a Sequence. With loop set it wraps around at the end,
// otherwise it returns ErrNoSnapshot once exhausted.
func NewSequence(frames []*Snapshot, loop bool) *Sequence {
	return &Sequence{frames: frames, loop: loop}
}

func (s *Sequence) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, ErrNoSnapshot
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return nil, ErrNoSnapshot
		}
		s.next = 0
	}
	f := s.frames[s.next]
	s.next++
	if f == nil {
		return nil, ErrNoSnapshot
	}
	return f, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
