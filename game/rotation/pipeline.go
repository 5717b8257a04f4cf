package rotation

import (
	"fmt"
	"time"

	"github.com/kasuganosora/rotationsolver/game/tick"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Pipeline evaluates a Rotation's layers in priority order.
type Pipeline struct {
	rotation Rotation
	logger   *zap.Logger
	warn     rate.Sometimes
}

// NewPipeline creates a Pipeline for r.
func NewPipeline(r Rotation, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		rotation: r,
		logger:   logger.With(zap.String("rotation", r.Name())),
		warn:     rate.Sometimes{First: 3, Interval: 5 * time.Second},
	}
}

// Rotation returns the rotation being evaluated.
func (p *Pipeline) Rotation() Rotation { return p.rotation }

// Decide picks exactly one action, or none, for f.
//
// During a countdown only the countdown layer runs. Otherwise the general
// layer is evaluated first as the speculative next action, then emergency,
// defense area, defense single and attack run in that order, and the
// general choice is used only when none of them commit or hold.
func (p *Pipeline) Decide(f *tick.Frame) Decision {
	snap := f.Snapshot
	if snap.Countdown.Active {
		out := p.call(LayerCountdown, func() Outcome {
			return p.rotation.CountDownAction(f, snap.Countdown.Remaining)
		})
		return p.decision(LayerCountdown, out)
	}
	if player := f.Player(); player == nil || player.IsDead() {
		return p.decision(LayerNone, Outcome{Reason: "no living player"})
	}

	next := p.call(LayerGeneral, func() Outcome { return p.rotation.GeneralGCD(f) })

	layers := []struct {
		layer Layer
		hook  func() Outcome
	}{
		{LayerEmergency, func() Outcome { return p.rotation.EmergencyAbility(f, next.Use) }},
		{LayerDefenseArea, func() Outcome { return p.rotation.DefenseAreaAbility(f, next.Use) }},
		{LayerDefenseSingle, func() Outcome { return p.rotation.DefenseSingleAbility(f, next.Use) }},
		{LayerAttack, func() Outcome { return p.rotation.AttackAbility(f, next.Use) }},
	}
	for _, l := range layers {
		out := p.call(l.layer, l.hook)
		if out.Hold || out.Committed() {
			return p.decision(l.layer, out)
		}
	}
	if next.Hold || next.Committed() {
		return p.decision(LayerGeneral, next)
	}
	return p.decision(LayerNone, Pass())
}

func (p *Pipeline) decision(layer Layer, out Outcome) Decision {
	return Decision{
		Use:      out.Use,
		Layer:    layer,
		Held:     out.Hold,
		Reason:   out.Reason,
		Rotation: p.rotation.Name(),
	}
}

// call runs one hook. A panicking hook passes.
func (p *Pipeline) call(layer Layer, hook func() Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.warn.Do(func() {
				p.logger.Error("rotation hook panicked",
					zap.Stringer("layer", layer), zap.String("recover", fmt.Sprint(r)))
			})
			out = Pass()
		}
	}()
	return hook()
}
