package action

import (
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// TargetMode selects who an action is aimed at.
type TargetMode int

const (
	TargetSelf TargetMode = iota
	TargetHostile
	TargetArea
	TargetDeath
	TargetDispel
	TargetProvoke
	TargetInterrupt
)

// Check is an extra usability test run after the built-in ones.
type Check func(f *tick.Frame, target *world.Entity) bool

// Base is a data-driven Candidate covering the common catalog rules:
// recast charges, gauge cost, statuses it would re-apply, range, minimum
// hostile count for area actions, combo requirements and consumable stock.
type Base struct {
	ActionID   world.ActionID
	ActionName string
	Kind       Kind
	Target     TargetMode
	// Range is the maximum distance to the target; 0 means unlimited. For
	// area actions it is the radius in which hostiles are counted.
	Range     float64
	GaugeName string
	GaugeCost int
	// Provides lists statuses the action applies to the player.
	Provides []world.StatusID
	// MinAoE is the minimum hostile count for area actions; at least 1.
	MinAoE int
	// ComboAfter restricts the action to follow one of these actions.
	ComboAfter []world.ActionID
	Item       world.ItemID
	Check      Check
}

func (b *Base) ID() world.ActionID { return b.ActionID }

func (b *Base) Name() string { return b.ActionName }

// CooldownState returns the recast state reported by the snapshot.
func (b *Base) CooldownState(f *tick.Frame) skill.Cooldown {
	return f.Snapshot.Cooldown(b.ActionID)
}

// TryUse runs every usability rule and returns the resulting Use.
func (b *Base) TryUse(f *tick.Frame, opts Options) (*Use, bool) {
	player := f.Player()
	if player == nil || player.IsDead() {
		return nil, false
	}
	if b.Kind == KindItem && f.Snapshot.ItemCount(b.Item) <= 0 {
		return nil, false
	}

	cd := b.CooldownState(f)
	if !cd.HasCharge() {
		return nil, false
	}
	if cd.MaxCharges > 1 && !opts.UsedUp && !cd.IsFull() {
		return nil, false
	}
	if b.GaugeCost > 0 && f.Snapshot.GaugeValue(b.GaugeName) < b.GaugeCost {
		return nil, false
	}
	if len(b.Provides) > 0 && !opts.SkipStatusProvide && player.HasStatus(true, b.Provides...) {
		return nil, false
	}
	if len(b.ComboAfter) > 0 && !containsAction(b.ComboAfter, f.Snapshot.LastCombo) {
		return nil, false
	}

	target := b.resolveTarget(f, player, opts)
	if target == nil {
		return nil, false
	}
	if b.Check != nil && !b.Check(f, target) {
		return nil, false
	}
	return &Use{
		ID:     b.ActionID,
		Name:   b.ActionName,
		Kind:   b.Kind,
		Item:   b.Item,
		Target: target.ID,
	}, true
}

func (b *Base) resolveTarget(f *tick.Frame, player *world.Entity, opts Options) *world.Entity {
	switch b.Target {
	case TargetSelf:
		return player
	case TargetHostile:
		return b.inRange(player, f.Target())
	case TargetArea:
		t := b.inRange(player, f.Target())
		if t == nil {
			return nil
		}
		need := b.MinAoE
		if need < 1 || opts.SkipAoECheck {
			need = 1
		}
		if b.hostilesInRange(player, f.Hostiles()) < need {
			return nil
		}
		return t
	case TargetDeath:
		return b.inRange(player, f.Targets.Death)
	case TargetDispel:
		return b.inRange(player, f.Targets.Dispel)
	case TargetProvoke:
		return b.inRange(player, f.Targets.Provoke)
	case TargetInterrupt:
		return b.inRange(player, f.Targets.Interrupt)
	default:
		return nil
	}
}

func (b *Base) inRange(player, t *world.Entity) *world.Entity {
	if t == nil {
		return nil
	}
	if b.Range > 0 && player.DistanceTo(t) > b.Range {
		return nil
	}
	return t
}

func (b *Base) hostilesInRange(player *world.Entity, hostiles []*world.Entity) int {
	n := 0
	for _, h := range hostiles {
		if b.Range <= 0 || player.DistanceTo(h) <= b.Range {
			n++
		}
	}
	return n
}

func containsAction(ids []world.ActionID, id world.ActionID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
