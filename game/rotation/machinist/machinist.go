// Package machinist is the representative job catalog: a Machinist
// rotation tuned for aligning its big hits with party burst windows.
package machinist

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/burst"
	"github.com/kasuganosora/rotationsolver/game/encounter"
	"github.com/kasuganosora/rotationsolver/game/rotation"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
	"go.uber.org/zap"
)

// Toggles are the behavioral settings of the rotation.
type Toggles struct {
	// Burst enables the burst-only parts: pre-pull medicine, burst
	// medicine and the attack layer hold.
	Burst               bool
	AdjustBurstTiming   bool
	HoldBigHitsForBuffs bool
	SaveTactician       bool
	BioMove             bool
	// Windows and Threshold configure the burst predictor; empty values
	// select its defaults.
	Windows   []skill.PartyBuffID
	Threshold time.Duration
}

// DefaultToggles enables everything.
func DefaultToggles() Toggles {
	return Toggles{
		Burst:               true,
		AdjustBurstTiming:   true,
		HoldBigHitsForBuffs: true,
		SaveTactician:       true,
		BioMove:             true,
	}
}

// Rotation is the Machinist decision hooks.
type Rotation struct {
	*rotation.Base
	toggles  Toggles
	deferral burst.Deferral
	act      *catalog
}

var _ rotation.Rotation = (*Rotation)(nil)

// New creates the rotation.
func New(t Toggles, guards *rules.Guards, logger *zap.Logger) *Rotation {
	act := newCatalog()
	base := rotation.NewBase(rotation.Catalog{
		Interrupt: []action.Candidate{act.headGraze},
		Fallback:  []action.Candidate{act.slugShot, act.splitShot},
	}, guards, logger)

	d := burst.Deferral{
		SelfBuff:  Reassembled,
		Protected: []world.ActionID{Drill, AirAnchor},
		Windows:   t.Windows,
		Threshold: t.Threshold,
	}
	return &Rotation{Base: base, toggles: t, deferral: d, act: act}
}

func (r *Rotation) Name() string { return "MCH FRU" }

func (r *Rotation) Job() string { return "MCH" }

// Toggles returns the settings in effect.
func (r *Rotation) Toggles() Toggles { return r.toggles }

// CountDownAction reassembles in the last five seconds and drinks the
// burst potion in the last second of a burst pull.
func (r *Rotation) CountDownAction(f *tick.Frame, remain time.Duration) rotation.Outcome {
	if remain < 5*time.Second {
		if u, ok := r.Use(f, r.act.reassemble, action.Options{}); ok {
			return rotation.Commit(u)
		}
	}
	if r.toggles.Burst && remain <= time.Second {
		if u, ok := r.Use(f, r.act.medicine, action.Options{}); ok {
			return rotation.Commit(u)
		}
	}
	return r.Base.CountDownAction(f, remain)
}

// EmergencyAbility uses burst medicine ahead of a party window.
func (r *Rotation) EmergencyAbility(f *tick.Frame, next *action.Use) rotation.Outcome {
	if r.toggles.Burst && r.toggles.AdjustBurstTiming {
		if u, ok := r.timeForBurstMeds(f); ok {
			return rotation.Commit(u)
		}
	}
	return r.Base.EmergencyAbility(f, next)
}

// DefenseAreaAbility saves Tactician for the raid-wide damage phase.
func (r *Rotation) DefenseAreaAbility(f *tick.Frame, next *action.Use) rotation.Outcome {
	if r.toggles.SaveTactician && highRaidDamagePhase(f) {
		if u, ok := r.Use(f, r.act.tactician, action.Options{}); ok {
			return rotation.Commit(u)
		}
	}
	return r.Base.DefenseAreaAbility(f, next)
}

// AttackAbility holds when the big hits wait for a window, otherwise
// reassembles for a tool action and spends overcapping charges.
func (r *Rotation) AttackAbility(f *tick.Frame, next *action.Use) rotation.Outcome {
	if r.toggles.Burst && r.toggles.HoldBigHitsForBuffs && r.shouldDelayBigHits(f, next) {
		return rotation.Hold("big hits held for burst window")
	}
	if next.Is(Drill, AirAnchor, ChainSaw) {
		if u, ok := r.Use(f, r.act.reassemble, action.Options{UsedUp: true}); ok {
			return rotation.Commit(u)
		}
	}
	if u, ok := r.First(f, action.Options{}, r.act.gaussRound, r.act.ricochet); ok {
		return rotation.Commit(u)
	}
	return r.Base.AttackAbility(f, next)
}

// GeneralGCD is the weaponskill priority list.
func (r *Rotation) GeneralGCD(f *tick.Frame) rotation.Outcome {
	if r.toggles.BioMove || !f.Snapshot.Moving {
		if u, ok := r.Use(f, r.act.bioblaster, action.Options{UsedUp: true}); ok {
			return rotation.Commit(u)
		}
	}

	if r.toggles.HoldBigHitsForBuffs && r.shouldDelayBigHits(f, nil) {
		return rotation.Hold("tool actions held for burst window")
	}

	if u, ok := r.Use(f, r.act.drill, action.Options{UsedUp: true}); ok {
		return rotation.Commit(u)
	}
	if u, ok := r.First(f, action.Options{}, r.act.airAnchor, r.act.chainSaw, r.act.spreadShot, r.act.cleanShot); ok {
		return rotation.Commit(u)
	}
	return r.Base.GeneralGCD(f)
}

func highRaidDamagePhase(f *tick.Frame) bool {
	return f.Phase() == encounter.PhaseEnrage
}

func (r *Rotation) shouldDelayBigHits(f *tick.Frame, next *action.Use) bool {
	return r.deferral.ShouldDefer(f.Player(), f.Snapshot.PartyBuffs, next)
}

func (r *Rotation) timeForBurstMeds(f *tick.Frame) (*action.Use, bool) {
	wildfire := r.act.wildfire.CooldownState(f)
	if !r.deferral.MedsDue(f.Snapshot.PartyBuffs, wildfire, f.Snapshot.GCDLength()) {
		return nil, false
	}
	return r.Use(f, r.act.medicine, action.Options{})
}
