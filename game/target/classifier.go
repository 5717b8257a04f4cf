package target

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/world"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sets are the named target collections rebuilt from scratch every tick.
// Party is drawn from Alliance and Alliance from All, so
// Party ⊆ Alliance ⊆ All always holds.
type Sets struct {
	All          []*world.Entity `json:"all"`
	FriendlyNPCs []*world.Entity `json:"friendly_npcs"`
	Alliance     []*world.Entity `json:"alliance"`
	Party        []*world.Entity `json:"party"`
	Hostiles     []*world.Entity `json:"hostiles"`
}

// Targets is the classification result of one tick: the sets plus the
// single-target selections derived from them.
type Targets struct {
	Sets
	Death     *world.Entity `json:"death"`
	Dispel    *world.Entity `json:"dispel"`
	Provoke   *world.Entity `json:"provoke"`
	Interrupt *world.Entity `json:"interrupt"`
}

// Predicate is a capability check applied to a hostile.
type Predicate func(*world.Entity) bool

// Classifier partitions a snapshot into target sets. It keeps no state
// between ticks other than its log throttle.
type Classifier struct {
	cfg    Config
	logger *zap.Logger
	warn   rate.Sometimes
}

// NewClassifier creates a Classifier.
func NewClassifier(cfg Config, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		cfg:    cfg,
		logger: logger,
		warn:   rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

// Config returns the classifier toggles.
func (c *Classifier) Config() Config { return c.cfg }

// Update classifies snap and derives every single-target selection. Each
// step is guarded: a step that fails leaves its result empty and the rest
// still run.
func (c *Classifier) Update(snap *world.Snapshot) *Targets {
	t := &Targets{}
	if snap == nil {
		c.degraded("snapshot", zap.String("reason", "nil snapshot"))
		return t
	}
	c.guard("all", func() { t.All = c.allTargets(snap) })
	c.guard("friendly_npcs", func() { t.FriendlyNPCs = c.friendlyNPCs(t.All) })
	c.guard("alliance", func() { t.Alliance = allianceMembers(t.All) })
	c.guard("party", func() { t.Party = partyMembers(t.Alliance) })
	c.guard("death", func() { t.Death = c.SelectDeathTarget(snap, t.Sets) })
	c.guard("dispel", func() { t.Dispel = c.SelectDispelTarget(snap, t.Sets) })
	c.guard("hostiles", func() { t.Hostiles = c.hostileTargets(snap, t.All) })
	c.guard("provoke", func() { t.Provoke = SelectFirstMatch(t.Hostiles, CanProvoke(snap)) })
	c.guard("interrupt", func() { t.Interrupt = SelectFirstMatch(t.Hostiles, CanInterrupt) })
	return t
}

// ClassifyAll builds the target sets for snap. Calling it twice on the same
// snapshot yields identical contents and ordering.
func (c *Classifier) ClassifyAll(snap *world.Snapshot) Sets {
	return c.Update(snap).Sets
}

func (c *Classifier) allTargets(snap *world.Snapshot) []*world.Entity {
	all := make([]*world.Entity, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		if e == nil {
			continue
		}
		if e.Dummy && c.cfg.DisableTargetDummies {
			continue
		}
		all = append(all, e)
	}
	return all
}

func (c *Classifier) friendlyNPCs(all []*world.Entity) []*world.Entity {
	if !c.cfg.FriendlyBattleNPCHeal && !c.cfg.FriendlyPartyNPCHealRaise {
		return nil
	}
	var npcs []*world.Entity
	for _, e := range all {
		if e.Kind == world.KindBattleNPC && e.FriendlyNPC && !e.IsEnemy() {
			npcs = append(npcs, e)
		}
	}
	return npcs
}

func supportable(e *world.Entity) bool {
	return e.Kind == world.KindPlayer && e.Online.Available() && e.Targetable
}

func allianceMembers(all []*world.Entity) []*world.Entity {
	var members []*world.Entity
	for _, e := range all {
		if (e.InAlliance || e.InParty) && supportable(e) {
			members = append(members, e)
		}
	}
	return members
}

func partyMembers(alliance []*world.Entity) []*world.Entity {
	var members []*world.Entity
	for _, e := range alliance {
		if e.InParty && supportable(e) {
			members = append(members, e)
		}
	}
	return members
}

func (c *Classifier) hostileTargets(snap *world.Snapshot, all []*world.Entity) []*world.Entity {
	respectInvincible := !snap.PvP || !c.cfg.IgnorePvPInvincibility
	var hostiles []*world.Entity
	for _, e := range all {
		if !e.IsEnemy() || !e.Targetable {
			continue
		}
		if respectInvincible && hasInvincible(e) {
			continue
		}
		if required := e.ShieldPositional(); required != world.PositionalNone {
			// Without a player position the angle cannot be confirmed.
			if snap.Player == nil || world.PositionalOf(e, snap.Player.Position) != required {
				continue
			}
		}
		hostiles = append(hostiles, e)
	}
	return hostiles
}

func hasInvincible(e *world.Entity) bool {
	for _, s := range e.Statuses {
		if s.IsInvincible() {
			return true
		}
	}
	return false
}

// SelectFirstMatch returns the first hostile satisfying pred, in set order.
func SelectFirstMatch(hostiles []*world.Entity, pred Predicate) *world.Entity {
	if pred == nil {
		return nil
	}
	for _, e := range hostiles {
		if pred(e) {
			return e
		}
	}
	return nil
}

// CanInterrupt matches a hostile in the middle of an interruptible cast.
func CanInterrupt(e *world.Entity) bool {
	return e != nil && e.Cast != nil && e.Cast.Interruptible && e.Cast.Remaining > 0
}

// CanProvoke matches a hostile attacking someone who is not a tank.
func CanProvoke(snap *world.Snapshot) Predicate {
	return func(e *world.Entity) bool {
		if e == nil || e.TargetID == 0 {
			return false
		}
		victim := snap.Entity(e.TargetID)
		return victim != nil && !victim.IsEnemy() && victim.Role != world.RoleTank
	}
}

// Nearest returns the entity of set closest to from; ties keep set order.
func Nearest(from *world.Entity, set []*world.Entity) *world.Entity {
	var best *world.Entity
	bestDist := 0.0
	for _, e := range set {
		d := from.DistanceTo(e)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func (c *Classifier) guard(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.degraded(step, zap.Any("recover", r))
		}
	}()
	fn()
}

func (c *Classifier) degraded(step string, fields ...zap.Field) {
	c.warn.Do(func() {
		c.logger.Warn("target classification degraded",
			append([]zap.Field{zap.String("step", step)}, fields...)...)
	})
}
