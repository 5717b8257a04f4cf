package fixture

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/world"
)

// EntityOption customises an entity built by the helpers below.
type EntityOption func(*world.Entity)

// PartyMember builds an online, targetable player in the party.
func PartyMember(id world.EntityID, job string, role world.Role, opts ...EntityOption) *world.Entity {
	e := &world.Entity{
		ID: id, Name: job, Kind: world.KindPlayer, Faction: world.FactionFriendly,
		Job: job, Role: role, HP: 1000, MaxHP: 1000,
		Targetable: true, InParty: true, InAlliance: true,
	}
	return apply(e, opts)
}

// AllianceMember builds an online, targetable player outside the party.
func AllianceMember(id world.EntityID, job string, role world.Role, opts ...EntityOption) *world.Entity {
	e := PartyMember(id, job, role)
	e.InParty = false
	return apply(e, opts)
}

// Hostile builds a targetable enemy.
func Hostile(id world.EntityID, opts ...EntityOption) *world.Entity {
	e := &world.Entity{
		ID: id, Name: "enemy", Kind: world.KindBattleNPC, Faction: world.FactionHostile,
		HP: 10000, MaxHP: 10000, Targetable: true,
	}
	return apply(e, opts)
}

// FriendlyNPC builds a friendly battle NPC.
func FriendlyNPC(id world.EntityID, opts ...EntityOption) *world.Entity {
	e := &world.Entity{
		ID: id, Name: "npc", Kind: world.KindBattleNPC, Faction: world.FactionFriendly,
		HP: 1000, MaxHP: 1000, Targetable: true, FriendlyNPC: true,
	}
	return apply(e, opts)
}

// Dead marks the entity dead.
func Dead() EntityOption {
	return func(e *world.Entity) { e.HP = 0; e.Dead = true }
}

// At places the entity.
func At(x, z float64) EntityOption {
	return func(e *world.Entity) { e.Position = world.Vec3{X: x, Z: z} }
}

// HP sets current hit points.
func HP(hp uint32) EntityOption {
	return func(e *world.Entity) { e.HP = hp }
}

// WithStatus attaches a status.
func WithStatus(s world.Status) EntityOption {
	return func(e *world.Entity) { e.Statuses = append(e.Statuses, s) }
}

// Dispellable is a plain cleansable debuff.
func Dispellable(id world.StatusID) world.Status {
	return world.Status{ID: id, Kind: world.StatusDebuff, Flags: world.FlagDispellable}
}

// Dangerous is a cleansable debuff flagged as urgent.
func Dangerous(id world.StatusID) world.Status {
	return world.Status{ID: id, Kind: world.StatusDebuff, Flags: world.FlagDispellable | world.FlagDangerous}
}

// Invincible is a damage immunity buff.
func Invincible(id world.StatusID) world.Status {
	return world.Status{ID: id, Kind: world.StatusBuff, Flags: world.FlagInvincible}
}

// Online sets the online status icon.
func Online(s world.OnlineStatus) EntityOption {
	return func(e *world.Entity) { e.Online = s }
}

// Untargetable clears the targetable flag.
func Untargetable() EntityOption {
	return func(e *world.Entity) { e.Targetable = false }
}

// Targeting makes the entity attack id.
func Targeting(id world.EntityID) EntityOption {
	return func(e *world.Entity) { e.TargetID = id }
}

// Casting gives the entity a cast in progress.
func Casting(interruptible bool) EntityOption {
	return func(e *world.Entity) {
		e.Cast = &world.Cast{ActionID: 1, Interruptible: interruptible, Remaining: 2 * time.Second}
	}
}

// Snapshot builds a snapshot whose entity list is player followed by others.
func Snapshot(player *world.Entity, others ...*world.Entity) *world.Snapshot {
	s := &world.Snapshot{Player: player, InCombat: true}
	if player != nil {
		s.Entities = append(s.Entities, player)
	}
	s.Entities = append(s.Entities, others...)
	return s
}

func apply(e *world.Entity, opts []EntityOption) *world.Entity {
	for _, o := range opts {
		o(e)
	}
	return e
}
