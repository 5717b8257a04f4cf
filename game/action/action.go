package action

import (
	"fmt"

	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// Kind is the slot an action occupies.
type Kind int

const (
	KindGCD Kind = iota
	KindAbility
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindGCD:
		return "gcd"
	case KindAbility:
		return "ability"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "gcd":
		*k = KindGCD
	case "ability":
		*k = KindAbility
	case "item":
		*k = KindItem
	default:
		return fmt.Errorf("action: unknown kind %q", b)
	}
	return nil
}

// Use is a committed choice: which action to issue and at whom.
type Use struct {
	ID     world.ActionID `json:"id"`
	Name   string         `json:"name"`
	Kind   Kind           `json:"kind"`
	Item   world.ItemID   `json:"item,omitempty"`
	Target world.EntityID `json:"target"`
}

// Is reports whether u is one of ids. A nil Use matches nothing.
func (u *Use) Is(ids ...world.ActionID) bool {
	if u == nil {
		return false
	}
	for _, id := range ids {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Options relax the default usability rules of a candidate.
type Options struct {
	// UsedUp allows a multi-charge action to spend charges before it is full.
	UsedUp bool
	// SkipStatusProvide allows the action even if the status it applies is
	// already on the player.
	SkipStatusProvide bool
	// SkipAoECheck drops the minimum hostile count of area actions.
	SkipAoECheck bool
}

// Candidate is one entry of a job's action catalog. The pipeline knows
// candidates only through this interface.
type Candidate interface {
	ID() world.ActionID
	Name() string
	TryUse(f *tick.Frame, opts Options) (*Use, bool)
	CooldownState(f *tick.Frame) skill.Cooldown
}
