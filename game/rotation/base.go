package rotation

import (
	"fmt"
	"time"

	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Catalog is the shared part of a job's action list used by the default
// hooks.
type Catalog struct {
	Interrupt []action.Candidate
	Provoke   []action.Candidate
	Raise     []action.Candidate
	Dispel    []action.Candidate
	// Fallback is tried by the general layer after the job's own list.
	Fallback []action.Candidate
}

// Base implements the default hooks. Jobs embed *Base and override the
// hooks they care about, calling back into Base for the defaults.
type Base struct {
	Catalog Catalog
	Guards  *rules.Guards
	logger  *zap.Logger
	warn    rate.Sometimes
}

// NewBase creates a Base.
func NewBase(cat Catalog, guards *rules.Guards, logger *zap.Logger) *Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Base{
		Catalog: cat,
		Guards:  guards,
		logger:  logger,
		warn:    rate.Sometimes{First: 3, Interval: 5 * time.Second},
	}
}

// Use tries one candidate. The candidate is skipped when its guard denies
// it or when its usability check panics.
func (b *Base) Use(f *tick.Frame, c action.Candidate, opts action.Options) (use *action.Use, ok bool) {
	if c == nil {
		return nil, false
	}
	if !b.Guards.Allow(c.Name(), f) {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			b.warn.Do(func() {
				b.logger.Warn("candidate check panicked",
					zap.String("action", c.Name()), zap.String("recover", fmt.Sprint(r)))
			})
			use, ok = nil, false
		}
	}()
	return c.TryUse(f, opts)
}

// First returns the first usable candidate in order.
func (b *Base) First(f *tick.Frame, opts action.Options, cands ...action.Candidate) (*action.Use, bool) {
	for _, c := range cands {
		if use, ok := b.Use(f, c, opts); ok {
			return use, true
		}
	}
	return nil, false
}

func (b *Base) first(f *tick.Frame, cands []action.Candidate) Outcome {
	if use, ok := b.First(f, action.Options{}, cands...); ok {
		return Commit(use)
	}
	return Pass()
}

// CountDownAction does nothing by default.
func (b *Base) CountDownAction(*tick.Frame, time.Duration) Outcome { return Pass() }

// EmergencyAbility interrupts the interrupt target, then provokes the
// provoke target.
func (b *Base) EmergencyAbility(f *tick.Frame, _ *action.Use) Outcome {
	if out := b.first(f, b.Catalog.Interrupt); out.Committed() {
		return out
	}
	return b.first(f, b.Catalog.Provoke)
}

// DefenseAreaAbility does nothing by default.
func (b *Base) DefenseAreaAbility(*tick.Frame, *action.Use) Outcome { return Pass() }

// DefenseSingleAbility does nothing by default.
func (b *Base) DefenseSingleAbility(*tick.Frame, *action.Use) Outcome { return Pass() }

// AttackAbility does nothing by default.
func (b *Base) AttackAbility(*tick.Frame, *action.Use) Outcome { return Pass() }

// GeneralGCD revives the death target, cleanses the dispel target, then
// falls back to the catalog's fallback list.
func (b *Base) GeneralGCD(f *tick.Frame) Outcome {
	for _, list := range [][]action.Candidate{b.Catalog.Raise, b.Catalog.Dispel, b.Catalog.Fallback} {
		if out := b.first(f, list); out.Committed() {
			return out
		}
	}
	return Pass()
}
