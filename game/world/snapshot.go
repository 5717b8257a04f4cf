package world

import (
	"time"

	"github.com/kasuganosora/rotationsolver/game/skill"
)

// ActionID identifies one of the player's actions in the game data.
type ActionID uint32

// ItemID identifies a consumable item.
type ItemID uint32

// Countdown is the pre-pull countdown state.
type Countdown struct {
	Active    bool          `json:"active" yaml:"active"`
	Remaining time.Duration `json:"remaining" yaml:"remaining"`
}

// Snapshot is everything the engine reads for one tick. It is captured once
// by the Source and never mutated afterwards.
type Snapshot struct {
	Tick       uint64                      `json:"tick" yaml:"tick"`
	Taken      time.Time                   `json:"taken" yaml:"taken"`
	Player     *Entity                     `json:"player" yaml:"player"`
	Entities   []*Entity                   `json:"entities" yaml:"entities"`
	PvP        bool                        `json:"pvp" yaml:"pvp"`
	InCombat   bool                        `json:"in_combat" yaml:"in_combat"`
	Moving     bool                        `json:"moving" yaml:"moving"`
	Countdown  Countdown                   `json:"countdown" yaml:"countdown"`
	PartyBuffs skill.PartyBuffs            `json:"party_buffs" yaml:"party_buffs"`
	Cooldowns  map[ActionID]skill.Cooldown `json:"cooldowns" yaml:"cooldowns"`
	Gauge      map[string]int              `json:"gauge" yaml:"gauge"`
	Items      map[ItemID]int              `json:"items" yaml:"items"`
	GCD        time.Duration               `json:"gcd" yaml:"gcd"`
	TargetID   EntityID                    `json:"target_id" yaml:"target_id"`
	LastCombo  ActionID                    `json:"last_combo" yaml:"last_combo"`
}

// DefaultGCD is used when the host does not report the recast length.
const DefaultGCD = 2500 * time.Millisecond

// GCDLength returns the global cooldown length for this tick.
func (s *Snapshot) GCDLength() time.Duration {
	if s == nil || s.GCD <= 0 {
		return DefaultGCD
	}
	return s.GCD
}

// Job returns the player's job, or "" without a player.
func (s *Snapshot) Job() string {
	if s == nil || s.Player == nil {
		return ""
	}
	return s.Player.Job
}

// Cooldown returns the recast state of one of the player's actions.
// Actions the host did not report are treated as ready.
func (s *Snapshot) Cooldown(id ActionID) skill.Cooldown {
	if s != nil {
		if cd, ok := s.Cooldowns[id]; ok {
			return cd
		}
	}
	return skill.Ready()
}

// GaugeValue returns a named job resource, 0 when absent.
func (s *Snapshot) GaugeValue(name string) int {
	if s == nil {
		return 0
	}
	return s.Gauge[name]
}

// ItemCount returns how many of item the player carries.
func (s *Snapshot) ItemCount(id ItemID) int {
	if s == nil {
		return 0
	}
	return s.Items[id]
}

// Entity looks an entity up by id.
func (s *Snapshot) Entity(id EntityID) *Entity {
	if s == nil || id == 0 {
		return nil
	}
	if s.Player != nil && s.Player.ID == id {
		return s.Player
	}
	for _, e := range s.Entities {
		if e != nil && e.ID == id {
			return e
		}
	}
	return nil
}

// Target returns the player's current hard target, or nil.
func (s *Snapshot) Target() *Entity {
	if s == nil {
		return nil
	}
	return s.Entity(s.TargetID)
}
