// Package burst predicts party damage-buff windows and decides when a
// high-value action should be held so it lands inside one.
package burst

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// DefaultThreshold is how far ahead a window counts as opening soon.
const DefaultThreshold = 5 * time.Second

// DefaultWindows are the party buffs watched when nothing is configured.
var DefaultWindows = []skill.PartyBuffID{
	skill.ChainStratagem,
	skill.BattleLitany,
	skill.TechnicalStep,
}

// WindowSoon reports whether any tracked party buff opens within threshold.
func WindowSoon(buffs skill.PartyBuffs, tracked []skill.PartyBuffID, threshold time.Duration) bool {
	for _, id := range tracked {
		if buffs.OpensWithin(id, threshold) {
			return true
		}
	}
	return false
}

// Deferral holds protected actions back until a burst window opens.
type Deferral struct {
	// SelfBuff is the status that, when present, releases the hold.
	SelfBuff world.StatusID
	// Protected are the actions worth aligning with the window.
	Protected []world.ActionID
	Windows   []skill.PartyBuffID
	Threshold time.Duration
}

// ShouldDefer reports whether to hold: the self buff is absent, the next
// action is protected (an undecided next action counts as protected), and
// a window opens soon. All three must hold.
func (d Deferral) ShouldDefer(player *world.Entity, buffs skill.PartyBuffs, next *action.Use) bool {
	if player.HasStatus(true, d.SelfBuff) {
		return false
	}
	if next != nil && !next.Is(d.Protected...) {
		return false
	}
	return d.WindowSoon(buffs)
}

// WindowSoon reports whether one of d's windows opens within d's threshold.
func (d Deferral) WindowSoon(buffs skill.PartyBuffs) bool {
	return WindowSoon(buffs, d.windows(), d.threshold())
}

// MedsDue is BurstMedsDue over d's windows and threshold.
func (d Deferral) MedsDue(buffs skill.PartyBuffs, primary skill.Cooldown, gcd time.Duration) bool {
	return BurstMedsDue(buffs, d.windows(), d.threshold(), primary, gcd)
}

func (d Deferral) windows() []skill.PartyBuffID {
	if len(d.Windows) == 0 {
		return DefaultWindows
	}
	return d.Windows
}

func (d Deferral) threshold() time.Duration {
	if d.Threshold <= 0 {
		return DefaultThreshold
	}
	return d.Threshold
}

// BurstMedsDue reports whether a burst consumable should be used now: a
// window opens within threshold and the primary cooldown will have a charge
// within one global cooldown.
func BurstMedsDue(buffs skill.PartyBuffs, tracked []skill.PartyBuffID, threshold time.Duration, primary skill.Cooldown, gcd time.Duration) bool {
	return WindowSoon(buffs, tracked, threshold) && primary.WillHaveOneChargeGCD(1, gcd)
}
