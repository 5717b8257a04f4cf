package history

import (
	"sync"
	"time"

	"github.com/kasuganosora/rotationsolver/game/world"
)

// Defaults used when the tracker is created with zero values.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultCapacity = 240
)

// Sample is the health ratio of every alive hostile at one instant.
// Health is never written after the sample is appended; readers must treat
// it as read-only.
type Sample struct {
	At     time.Time                  `json:"at"`
	Health map[world.EntityID]float64 `json:"health"`
}

// Tracker keeps a bounded, time-ordered queue of health samples. Only the
// tick loop calls Sample; any goroutine may call Snapshot or Len.
type Tracker struct {
	mu       sync.RWMutex
	interval time.Duration
	capacity int
	samples  []Sample
	last     time.Time
}

// NewTracker creates a Tracker. Non-positive arguments select the defaults.
func NewTracker(interval time.Duration, capacity int) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		interval: interval,
		capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

// Sample records the health of every alive hostile unless less than the
// sampling interval has elapsed since the previous sample. A now earlier
// than the previous sample restarts the history. It reports whether a
// sample was appended.
func (t *Tracker) Sample(now time.Time, hostiles []*world.Entity) bool {
	health := make(map[world.EntityID]float64, len(hostiles))
	for _, e := range hostiles {
		if e.IsAlive() {
			health[e.ID] = e.HealthRatio()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if now.Before(t.last) {
		// The clock moved backwards; older samples would break ordering.
		clear(t.samples)
		t.samples = t.samples[:0]
	} else if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.samples = append(t.samples, Sample{At: now, Health: health})
	if over := len(t.samples) - t.capacity; over > 0 {
		n := copy(t.samples, t.samples[over:])
		clear(t.samples[n:])
		t.samples = t.samples[:n]
	}
	t.last = now
	return true
}

// Len returns the number of stored samples.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}

// Capacity returns the maximum number of stored samples.
func (t *Tracker) Capacity() int { return t.capacity }

// Interval returns the minimum spacing between samples.
func (t *Tracker) Interval() time.Duration { return t.interval }

// Snapshot returns a copy of the stored samples, oldest first. Later calls
// to Sample do not affect the returned slice.
func (t *Tracker) Snapshot() []Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Reset drops every sample, e.g. when an encounter ends.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.samples)
	t.samples = t.samples[:0]
	t.last = time.Time{}
}
