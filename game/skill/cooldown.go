package skill

import "time"

// Cooldown is the recast state of one of the player's own actions.
// Remaining is the time until the next charge is restored; it is zero when
// all charges are available.
type Cooldown struct {
	Charges    int           `json:"charges" yaml:"charges"`
	MaxCharges int           `json:"max_charges" yaml:"max_charges"`
	Recast     time.Duration `json:"recast" yaml:"recast"`
	Remaining  time.Duration `json:"remaining" yaml:"remaining"`
}

// Ready is a single-charge cooldown with its charge available.
func Ready() Cooldown {
	return Cooldown{Charges: 1, MaxCharges: 1}
}

// HasCharge reports whether at least one use is available now.
func (c Cooldown) HasCharge() bool {
	return c.Charges > 0
}

// IsFull reports whether every charge is available.
func (c Cooldown) IsFull() bool {
	limit := c.MaxCharges
	if limit < 1 {
		limit = 1
	}
	return c.Charges >= limit
}

// IsCoolingDown reports whether a charge is being restored.
func (c Cooldown) IsCoolingDown() bool {
	return !c.IsFull() && c.Remaining > 0
}

// WillHaveOneCharge reports whether a charge is available now or will be
// within d.
func (c Cooldown) WillHaveOneCharge(d time.Duration) bool {
	if c.HasCharge() {
		return true
	}
	return c.Remaining <= d
}

// WillHaveOneChargeGCD is WillHaveOneCharge measured in global cooldowns.
func (c Cooldown) WillHaveOneChargeGCD(gcds int, gcd time.Duration) bool {
	if gcds < 0 {
		gcds = 0
	}
	return c.WillHaveOneCharge(time.Duration(gcds) * gcd)
}
