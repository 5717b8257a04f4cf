package rotation

import (
	"fmt"
	"time"

	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/tick"
)

// Layer identifies which stage of the pipeline produced a decision.
type Layer int

const (
	LayerNone Layer = iota
	LayerCountdown
	LayerEmergency
	LayerDefenseArea
	LayerDefenseSingle
	LayerAttack
	LayerGeneral
)

var layerNames = map[Layer]string{
	LayerNone:          "none",
	LayerCountdown:     "countdown",
	LayerEmergency:     "emergency",
	LayerDefenseArea:   "defense_area",
	LayerDefenseSingle: "defense_single",
	LayerAttack:        "attack",
	LayerGeneral:       "general",
}

func (l Layer) String() string {
	if s, ok := layerNames[l]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the layer by name in JSON and logs.
func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText parses a layer name.
func (l *Layer) UnmarshalText(b []byte) error {
	for k, name := range layerNames {
		if name == string(b) {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("rotation: unknown layer %q", b)
}

// Outcome is a hook's answer for its layer: Commit an action, Hold (take
// no action this tick on purpose), or Pass to the next layer.
type Outcome struct {
	Use    *action.Use
	Hold   bool
	Reason string
}

// Pass defers to the next layer.
func Pass() Outcome { return Outcome{} }

// Commit chooses u. A nil u is the same as Pass.
func Commit(u *action.Use) Outcome { return Outcome{Use: u} }

// Hold stops the pipeline with no action.
func Hold(reason string) Outcome { return Outcome{Hold: true, Reason: reason} }

// Committed reports whether the outcome carries an action.
func (o Outcome) Committed() bool { return o.Use != nil }

// Rotation is the set of decision hooks of one job. Each hook is re-run
// from scratch every tick. next is the general layer's speculative choice
// for this tick and may be nil.
type Rotation interface {
	Name() string
	Job() string
	CountDownAction(f *tick.Frame, remain time.Duration) Outcome
	EmergencyAbility(f *tick.Frame, next *action.Use) Outcome
	DefenseAreaAbility(f *tick.Frame, next *action.Use) Outcome
	DefenseSingleAbility(f *tick.Frame, next *action.Use) Outcome
	AttackAbility(f *tick.Frame, next *action.Use) Outcome
	GeneralGCD(f *tick.Frame) Outcome
}

// Decision is the single output of a tick.
type Decision struct {
	Use      *action.Use `json:"use,omitempty"`
	Layer    Layer       `json:"layer"`
	Held     bool        `json:"held,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Rotation string      `json:"rotation"`
}

// NoAction reports whether the decision is the explicit no-action.
func (d Decision) NoAction() bool { return d.Use == nil }
