package world

import (
	"math"
	"strings"
	"time"
)

// StatusID identifies a status effect in the game data.
type StatusID uint32

// StatusKind separates beneficial from harmful statuses.
type StatusKind int

const (
	StatusBuff StatusKind = iota
	StatusDebuff
)

// StatusFlag classifies a status for target predicates.
type StatusFlag uint8

const (
	FlagDangerous StatusFlag = 1 << iota
	FlagDispellable
	FlagInvincible
)

// Status is one status effect attached to an entity.
type Status struct {
	ID         StatusID      `json:"id" yaml:"id"`
	Kind       StatusKind    `json:"kind" yaml:"kind"`
	Flags      StatusFlag    `json:"flags" yaml:"flags"`
	Positional Positional    `json:"positional" yaml:"positional"`
	Remaining  time.Duration `json:"remaining" yaml:"remaining"`
	FromSelf   bool          `json:"from_self" yaml:"from_self"`
}

// Has reports whether the status carries every bit of f.
func (s Status) Has(f StatusFlag) bool {
	return f != 0 && s.Flags&f == f
}

// CanDispel is a dispellable debuff.
func (s Status) CanDispel() bool {
	return s.Kind == StatusDebuff && s.Has(FlagDispellable)
}

// IsDangerous is flagged as urgent to clear.
func (s Status) IsDangerous() bool {
	return s.Has(FlagDangerous)
}

// IsInvincible grants immunity to damage.
func (s Status) IsInvincible() bool {
	return s.Has(FlagInvincible)
}

// Positional is the side of an enemy the player stands on.
type Positional int

const (
	PositionalNone Positional = iota
	PositionalFront
	PositionalFlank
	PositionalRear
)

func (p Positional) String() string {
	switch p {
	case PositionalFront:
		return "front"
	case PositionalFlank:
		return "flank"
	case PositionalRear:
		return "rear"
	default:
		return "none"
	}
}

// ParsePositional maps a name to a Positional; unknown names are PositionalNone.
func ParsePositional(s string) Positional {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return PositionalFront
	case "flank", "side":
		return PositionalFlank
	case "rear", "back":
		return PositionalRear
	default:
		return PositionalNone
	}
}

// PositionalOf returns where from stands relative to target's facing.
// Facing is measured in the X/Z plane; a 90 degree cone is front, the
// opposite 90 degree cone is rear and the rest is flank.
func PositionalOf(target *Entity, from Vec3) Positional {
	if target == nil {
		return PositionalNone
	}
	dx := from.X - target.Position.X
	dz := from.Z - target.Position.Z
	if dx == 0 && dz == 0 {
		return PositionalFront
	}
	facing := math.Atan2(math.Sin(target.Facing), math.Cos(target.Facing))
	diff := math.Abs(math.Atan2(dx, dz) - facing)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	switch {
	case diff <= math.Pi/4:
		return PositionalFront
	case diff >= 3*math.Pi/4:
		return PositionalRear
	default:
		return PositionalFlank
	}
}
