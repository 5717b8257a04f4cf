package resource

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/world"
	"gopkg.in/yaml.v3"
)

// DefaultStep is the spacing of frame timestamps when a scenario sets none.
const DefaultStep = 50 * time.Millisecond

// Scenario is a recorded or hand-written fight, one snapshot per frame.
type Scenario struct {
	Name   string
	Frames []*world.Snapshot
}

type scenarioFile struct {
	Name   string        `yaml:"name"`
	Start  time.Time     `yaml:"start"`
	Step   time.Duration `yaml:"step"`
	Frames []frameFile   `yaml:"frames"`
}

type frameFile struct {
	Repeat     int                               `yaml:"repeat"`
	PvP        bool                              `yaml:"pvp"`
	InCombat   bool                              `yaml:"in_combat"`
	Moving     bool                              `yaml:"moving"`
	Countdown  world.Countdown                   `yaml:"countdown"`
	Player     *entityFile                       `yaml:"player"`
	Entities   []entityFile                      `yaml:"entities"`
	PartyBuffs skill.PartyBuffs                  `yaml:"party_buffs"`
	Cooldowns  map[world.ActionID]skill.Cooldown `yaml:"cooldowns"`
	Gauge      map[string]int                    `yaml:"gauge"`
	Items      map[world.ItemID]int              `yaml:"items"`
	GCD        time.Duration                     `yaml:"gcd"`
	TargetID   world.EntityID                    `yaml:"target_id"`
	LastCombo  world.ActionID                    `yaml:"last_combo"`
}

type entityFile struct {
	ID          world.EntityID `yaml:"id"`
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Faction     string         `yaml:"faction"`
	Job         string         `yaml:"job"`
	Role        string         `yaml:"role"`
	HP          *uint32        `yaml:"hp"`
	MaxHP       uint32         `yaml:"max_hp"`
	Dead        bool           `yaml:"dead"`
	Targetable  *bool          `yaml:"targetable"`
	Dummy       bool           `yaml:"dummy"`
	InParty     bool           `yaml:"in_party"`
	InAlliance  bool           `yaml:"in_alliance"`
	FriendlyNPC bool           `yaml:"friendly_npc"`
	Online      uint8          `yaml:"online"`
	Position    world.Vec3     `yaml:"position"`
	Facing      float64        `yaml:"facing"`
	Radius      float64        `yaml:"radius"`
	Statuses    []statusFile   `yaml:"statuses"`
	TargetID    world.EntityID `yaml:"target_id"`
	Cast        *world.Cast    `yaml:"cast"`
}

type statusFile struct {
	ID        world.StatusID `yaml:"id"`
	Remaining time.Duration  `yaml:"remaining"`
	FromSelf  bool           `yaml:"from_self"`
}

// LoadScenario reads a scenario file and resolves statuses and roles
// against tables.
func LoadScenario(path string, tables *Tables) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	sc, err := ParseScenario(data, tables)
	if err != nil {
		return nil, fmt.Errorf("resource: %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes scenario YAML. A nil tables uses Defaults.
func ParseScenario(data []byte, tables *Tables) (*Scenario, error) {
	if tables == nil {
		tables = Defaults()
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(f.Frames) == 0 {
		return nil, ErrEmpty
	}
	step := f.Step
	if step <= 0 {
		step = DefaultStep
	}
	// A zero start would read as "never sampled" to the history tracker.
	if f.Start.IsZero() {
		f.Start = time.Unix(0, 0).UTC()
	}

	sc := &Scenario{Name: f.Name}
	var tick uint64
	for i, fr := range f.Frames {
		n := max(fr.Repeat, 1)
		for range n {
			snap, err := fr.snapshot(tables)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			snap.Tick = tick
			snap.Taken = f.Start.Add(time.Duration(tick) * step)
			sc.Frames = append(sc.Frames, snap)
			tick++
		}
	}
	return sc, nil
}

// Source replays the scenario, optionally looping.
func (s *Scenario) Source(loop bool) *world.Sequence {
	return world.NewSequence(s.Frames, loop)
}

// snapshot builds a fresh snapshot so repeated frames never share entities.
func (fr frameFile) snapshot(t *Tables) (*world.Snapshot, error) {
	snap := &world.Snapshot{
		PvP:        fr.PvP,
		InCombat:   fr.InCombat,
		Moving:     fr.Moving,
		Countdown:  fr.Countdown,
		PartyBuffs: fr.PartyBuffs,
		Cooldowns:  fr.Cooldowns,
		Gauge:      fr.Gauge,
		Items:      fr.Items,
		GCD:        fr.GCD,
		TargetID:   fr.TargetID,
		LastCombo:  fr.LastCombo,
	}
	if fr.Player != nil {
		p, err := fr.Player.entity(t, true)
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		snap.Player = p
		snap.Entities = append(snap.Entities, p)
	}
	for i := range fr.Entities {
		e, err := fr.Entities[i].entity(t, false)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", fr.Entities[i].ID, err)
		}
		snap.Entities = append(snap.Entities, e)
	}
	return snap, nil
}

func (ef *entityFile) entity(t *Tables, player bool) (*world.Entity, error) {
	kind, err := parseKind(ef.Kind, player)
	if err != nil {
		return nil, err
	}
	faction, err := parseFaction(ef.Faction, kind)
	if err != nil {
		return nil, err
	}
	e := &world.Entity{
		ID:          ef.ID,
		Name:        ef.Name,
		Kind:        kind,
		Faction:     faction,
		Job:         strings.ToUpper(strings.TrimSpace(ef.Job)),
		MaxHP:       ef.MaxHP,
		Dead:        ef.Dead,
		Targetable:  true,
		Dummy:       ef.Dummy,
		InParty:     ef.InParty || player,
		InAlliance:  ef.InAlliance,
		FriendlyNPC: ef.FriendlyNPC,
		Online:      world.OnlineStatus(ef.Online),
		Position:    ef.Position,
		Facing:      ef.Facing,
		Radius:      ef.Radius,
		TargetID:    ef.TargetID,
	}
	e.InAlliance = e.InAlliance || e.InParty
	if ef.Targetable != nil {
		e.Targetable = *ef.Targetable
	}
	switch {
	case ef.HP != nil:
		e.HP = *ef.HP
	case !ef.Dead:
		e.HP = ef.MaxHP
	}
	if ef.Role != "" {
		e.Role = world.ParseRole(ef.Role)
	} else {
		e.Role = t.RoleOf(e.Job)
	}
	if ef.Cast != nil {
		c := *ef.Cast
		e.Cast = &c
	}
	for _, sf := range ef.Statuses {
		s := world.Status{ID: sf.ID, Kind: world.StatusDebuff, Remaining: sf.Remaining, FromSelf: sf.FromSelf}
		e.Statuses = append(e.Statuses, t.Classify(s))
	}
	return e, nil
}

func parseKind(s string, player bool) (world.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if player {
			return world.KindPlayer, nil
		}
		return world.KindBattleNPC, nil
	case "player":
		return world.KindPlayer, nil
	case "battle_npc", "npc", "enemy":
		return world.KindBattleNPC, nil
	case "other":
		return world.KindOther, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

func parseFaction(s string, kind world.Kind) (world.Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if kind == world.KindBattleNPC {
			return world.FactionHostile, nil
		}
		return world.FactionFriendly, nil
	case "friendly", "ally":
		return world.FactionFriendly, nil
	case "hostile", "enemy":
		return world.FactionHostile, nil
	case "neutral":
		return world.FactionNeutral, nil
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}
