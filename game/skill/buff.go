package skill

import "time"

// PartyBuffID names a party-wide damage buff that the burst predictor tracks.
type PartyBuffID string

// Party damage buffs tracked by default.
const (
	ChainStratagem PartyBuffID = "chain_stratagem"
	BattleLitany   PartyBuffID = "battle_litany"
	TechnicalStep  PartyBuffID = "technical_step"
	Divination     PartyBuffID = "divination"
	Brotherhood    PartyBuffID = "brotherhood"
	SearingLight   PartyBuffID = "searing_light"
)

// PartyBuff is the timer state of one party member's damage buff.
// Until is how long until the buff lands; Remaining is how long an active
// buff still lasts.
type PartyBuff struct {
	ID        PartyBuffID   `json:"id" yaml:"id"`
	Active    bool          `json:"active" yaml:"active"`
	Until     time.Duration `json:"until" yaml:"until"`
	Remaining time.Duration `json:"remaining" yaml:"remaining"`
}

// OpensWithin reports whether the buff is not active yet and lands in (0, d].
func (b PartyBuff) OpensWithin(d time.Duration) bool {
	return !b.Active && b.Until > 0 && b.Until <= d
}

// PartyBuffs is the set of party buff timers captured with a snapshot.
type PartyBuffs []PartyBuff

// Get returns the timer for id.
func (bs PartyBuffs) Get(id PartyBuffID) (PartyBuff, bool) {
	for _, b := range bs {
		if b.ID == id {
			return b, true
		}
	}
	return PartyBuff{}, false
}

// OpensWithin reports whether the buff id lands within d. Untracked buffs
// never open.
func (bs PartyBuffs) OpensWithin(id PartyBuffID, d time.Duration) bool {
	b, ok := bs.Get(id)
	return ok && b.OpensWithin(d)
}

// IsActive reports whether buff id is running right now.
func (bs PartyBuffs) IsActive(id PartyBuffID) bool {
	b, ok := bs.Get(id)
	return ok && b.Active && b.Remaining > 0
}
