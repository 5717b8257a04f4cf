// Package tick holds the per-tick context handed to the decision pipeline.
// A Frame is built by the tick loop, read by every layer, and dropped at
// the end of the tick; nothing keeps a reference to it afterwards.
package tick

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/history"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// Frame is the read-only view of one tick.
type Frame struct {
	Now      time.Time
	Snapshot *world.Snapshot
	Targets  *target.Targets
	Phases   encounter.PhaseSource
	History  []history.Sample
}

// New builds a frame, substituting empty values for missing parts.
func New(now time.Time, snap *world.Snapshot, targets *target.Targets, phases encounter.PhaseSource, samples []history.Sample) *Frame {
	if snap == nil {
		snap = &world.Snapshot{}
	}
	if targets == nil {
		targets = &target.Targets{}
	}
	if phases == nil {
		phases = encounter.None
	}
	return &Frame{Now: now, Snapshot: snap, Targets: targets, Phases: phases, History: samples}
}

// Player returns the player entity, possibly nil.
func (f *Frame) Player() *world.Entity { return f.Snapshot.Player }

// Hostiles returns the hostile set of this tick.
func (f *Frame) Hostiles() []*world.Entity { return f.Targets.Hostiles }

// Target returns the hostile the player has selected when it is in the
// hostile set, otherwise the first hostile.
func (f *Frame) Target() *world.Entity {
	hostiles := f.Targets.Hostiles
	if id := f.Snapshot.TargetID; id != 0 {
		for _, h := range hostiles {
			if h.ID == id {
				return h
			}
		}
	}
	if len(hostiles) > 0 {
		return hostiles[0]
	}
	return nil
}

// Phase returns the named phase of the tracked boss, or "".
func (f *Frame) Phase() string { return encounter.Phase(f.Phases) }

// PlayerHasStatus reports whether any of ids is on the player.
func (f *Frame) PlayerHasStatus(ids ...world.StatusID) bool {
	return f.Snapshot.Player.HasStatus(false, ids...)
}

// TimeToKill estimates how long e has left from the rolling history.
func (f *Frame) TimeToKill(e *world.Entity) (time.Duration, bool) {
	if e == nil {
		return 0, false
	}
	return history.EstimateTimeToKill(f.History, e.ID, f.Now)
}
