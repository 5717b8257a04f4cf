package rules

import (
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// Env is what a guard expression can see. Fields are filled once per
// evaluation; the methods read the tick frame directly.
type Env struct {
	HostileCount int
	PartyCount   int
	Moving       bool
	InCombat     bool
	PlayerHP     float64
	TargetHP     float64
	// TargetTTK is the estimated seconds to kill the current target, -1
	// when it cannot be estimated.
	TargetTTK float64
	Phase     string

	frame *tick.Frame
}

// NewEnv builds the guard environment of f.
func NewEnv(f *tick.Frame) Env {
	env := Env{
		HostileCount: len(f.Targets.Hostiles),
		PartyCount:   len(f.Targets.Party),
		Moving:       f.Snapshot.Moving,
		InCombat:     f.Snapshot.InCombat,
		PlayerHP:     f.Player().HealthRatio(),
		TargetTTK:    -1,
		Phase:        f.Phase(),
		frame:        f,
	}
	if t := f.Target(); t != nil {
		env.TargetHP = t.HealthRatio()
		if ttk, ok := f.TimeToKill(t); ok {
			env.TargetTTK = ttk.Seconds()
		}
	}
	return env
}

// Gauge returns a named job resource.
func (e Env) Gauge(name string) int {
	if e.frame == nil {
		return 0
	}
	return e.frame.Snapshot.GaugeValue(name)
}

// HasStatus reports whether the player carries status id.
func (e Env) HasStatus(id int) bool {
	if e.frame == nil {
		return false
	}
	return e.frame.PlayerHasStatus(world.StatusID(id))
}
