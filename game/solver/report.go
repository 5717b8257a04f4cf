package solver

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// SetSizes counts the members of each target set.
type SetSizes struct {
	All          int `json:"all"`
	FriendlyNPCs int `json:"friendly_npcs"`
	Alliance     int `json:"alliance"`
	Party        int `json:"party"`
	Hostiles     int `json:"hostiles"`
}

// Selections are the single-target picks of a tick; zero means none.
type Selections struct {
	Target    world.EntityID `json:"target"`
	Death     world.EntityID `json:"death"`
	Dispel    world.EntityID `json:"dispel"`
	Provoke   world.EntityID `json:"provoke"`
	Interrupt world.EntityID `json:"interrupt"`
}

// Report summarizes one tick for observers on other goroutines.
type Report struct {
	TraceID    string            `json:"trace_id"`
	Tick       uint64            `json:"tick"`
	At         time.Time         `json:"at"`
	Job        string            `json:"job"`
	Phase      string            `json:"phase,omitempty"`
	InCombat   bool              `json:"in_combat"`
	Sets       SetSizes          `json:"sets"`
	Selections Selections        `json:"selections"`
	Sampled    bool              `json:"sampled"`
	Decision   rotation.Decision `json:"decision"`
	Vetoed     bool              `json:"vetoed,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func sizesOf(s target.Sets) SetSizes {
	return SetSizes{
		All:          len(s.All),
		FriendlyNPCs: len(s.FriendlyNPCs),
		Alliance:     len(s.Alliance),
		Party:        len(s.Party),
		Hostiles:     len(s.Hostiles),
	}
}

func idOf(e *world.Entity) world.EntityID {
	if e == nil {
		return 0
	}
	return e.ID
}
