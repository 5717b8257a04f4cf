package world

import (
	"math"
	"strings"
	"time"
)

// EntityID is the stable object id of an actor in the world.
type EntityID uint64

// Kind is the object kind reported by the host.
type Kind int

const (
	KindOther Kind = iota
	KindPlayer
	KindBattleNPC
)

// Faction is an entity's relation to the player.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionFriendly
	FactionHostile
)

// Role is the job category of an entity.
type Role int

const (
	RoleNone Role = iota
	RoleTank
	RoleHealer
	RoleDamage
)

func (r Role) String() string {
	switch r {
	case RoleTank:
		return "tank"
	case RoleHealer:
		return "healer"
	case RoleDamage:
		return "damage"
	default:
		return "none"
	}
}

// ParseRole maps a role name to a Role; unknown names are RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tank":
		return RoleTank
	case "healer":
		return RoleHealer
	case "damage", "dps", "melee", "ranged", "caster":
		return RoleDamage
	default:
		return RoleNone
	}
}

// OnlineStatus is the host's online status icon id for a player.
type OnlineStatus uint8

// Statuses that take a player out of party and alliance consideration.
const (
	OnlineStatusUnavailable     OnlineStatus = 5
	OnlineStatusViewingCutscene OnlineStatus = 15
)

// Available reports whether a member with this status can be supported.
func (s OnlineStatus) Available() bool {
	return s != OnlineStatusUnavailable && s != OnlineStatusViewingCutscene
}

// Vec3 is a world position.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Len returns the euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Cast is a spell an entity is currently casting.
type Cast struct {
	ActionID      ActionID      `json:"action_id" yaml:"action_id"`
	Interruptible bool          `json:"interruptible" yaml:"interruptible"`
	Remaining     time.Duration `json:"remaining" yaml:"remaining"`
}

// Entity is a read-only view of one actor, valid for a single tick.
type Entity struct {
	ID          EntityID     `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Faction     Faction      `json:"faction" yaml:"faction"`
	Job         string       `json:"job" yaml:"job"`
	Role        Role         `json:"role" yaml:"role"`
	HP          uint32       `json:"hp" yaml:"hp"`
	MaxHP       uint32       `json:"max_hp" yaml:"max_hp"`
	Dead        bool         `json:"dead" yaml:"dead"`
	Targetable  bool         `json:"targetable" yaml:"targetable"`
	Dummy       bool         `json:"dummy" yaml:"dummy"`
	InParty     bool         `json:"in_party" yaml:"in_party"`
	InAlliance  bool         `json:"in_alliance" yaml:"in_alliance"`
	FriendlyNPC bool         `json:"friendly_npc" yaml:"friendly_npc"`
	Online      OnlineStatus `json:"online" yaml:"online"`
	Position    Vec3         `json:"position" yaml:"position"`
	Facing      float64      `json:"facing" yaml:"facing"` // radians
	Radius      float64      `json:"radius" yaml:"radius"` // hitbox
	Statuses    []Status     `json:"statuses" yaml:"statuses"`
	TargetID    EntityID     `json:"target_id" yaml:"target_id"`
	Cast        *Cast        `json:"cast,omitempty" yaml:"cast"`
}

// HealthRatio returns HP/MaxHP in [0,1]; 0 when MaxHP is unknown.
func (e *Entity) HealthRatio() float64 {
	if e == nil || e.MaxHP == 0 {
		return 0
	}
	r := float64(e.HP) / float64(e.MaxHP)
	if r > 1 {
		r = 1
	}
	return r
}

// IsDead reports whether the entity is dead.
func (e *Entity) IsDead() bool {
	return e != nil && (e.Dead || (e.MaxHP > 0 && e.HP == 0))
}

// IsAlive reports whether the entity is present and not dead.
func (e *Entity) IsAlive() bool {
	return e != nil && !e.IsDead()
}

// IsEnemy reports whether the entity belongs to the hostile faction.
func (e *Entity) IsEnemy() bool {
	return e != nil && e.Faction == FactionHostile
}

// HasStatus reports whether any of ids is on the entity. When fromSelf is
// set only statuses applied by the player count.
func (e *Entity) HasStatus(fromSelf bool, ids ...StatusID) bool {
	if e == nil {
		return false
	}
	for _, s := range e.Statuses {
		if fromSelf && !s.FromSelf {
			continue
		}
		for _, id := range ids {
			if s.ID == id {
				return true
			}
		}
	}
	return false
}

// HasStatusFlag reports whether any status on the entity carries f.
func (e *Entity) HasStatusFlag(f StatusFlag) bool {
	if e == nil {
		return false
	}
	for _, s := range e.Statuses {
		if s.Has(f) {
			return true
		}
	}
	return false
}

// ShieldPositional returns the positional required by a shield status on the
// entity, or PositionalNone.
func (e *Entity) ShieldPositional() Positional {
	if e == nil {
		return PositionalNone
	}
	for _, s := range e.Statuses {
		if s.Positional != PositionalNone {
			return s.Positional
		}
	}
	return PositionalNone
}

// DistanceTo returns the gap between the two hitboxes, never negative.
func (e *Entity) DistanceTo(o *Entity) float64 {
	if e == nil || o == nil {
		return math.MaxFloat64
	}
	d := o.Position.Sub(e.Position).Len() - e.Radius - o.Radius
	if d < 0 {
		return 0
	}
	return d
}
