package history

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/world"
)

// EstimateTimeToKill extrapolates the remaining lifetime of id from the
// decay of its health ratio between the oldest and newest samples that
// contain it. ok is false with fewer than two such samples or when the
// entity is not losing health.
func EstimateTimeToKill(samples []Sample, id world.EntityID, now time.Time) (ttk time.Duration, ok bool) {
	var (
		first, last Sample
		found       int
	)
	for _, s := range samples {
		if _, has := s.Health[id]; !has {
			continue
		}
		if found == 0 {
			first = s
		}
		last = s
		found++
	}
	if found < 2 {
		return 0, false
	}

	elapsed := last.At.Sub(first.At)
	lost := first.Health[id] - last.Health[id]
	if elapsed <= 0 || lost <= 0 {
		return 0, false
	}
	perSecond := lost / elapsed.Seconds()
	remaining := time.Duration(last.Health[id]/perSecond*float64(time.Second)) - now.Sub(last.At)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Estimates returns the time to kill of every entity in the newest sample
// that can be estimated.
func Estimates(samples []Sample, now time.Time) map[world.EntityID]time.Duration {
	out := make(map[world.EntityID]time.Duration)
	if len(samples) == 0 {
		return out
	}
	for id := range samples[len(samples)-1].Health {
		if ttk, ok := EstimateTimeToKill(samples, id, now); ok {
			out[id] = ttk
		}
	}
	return out
}
