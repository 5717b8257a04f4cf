package world

import (
	"math"
	"testing"
	"time"

	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Entity ----

func TestEntity_HealthRatio(t *testing.T) {
	e := &Entity{HP: 50, MaxHP: 200}
	assert.InDelta(t, 0.25, e.HealthRatio(), 1e-9)
	assert.Equal(t, 0.0, (&Entity{HP: 10}).HealthRatio())
	var nilEntity *Entity
	assert.Equal(t, 0.0, nilEntity.HealthRatio())
}

func TestEntity_IsDead(t *testing.T) {
	assert.True(t, (&Entity{Dead: true, HP: 10, MaxHP: 10}).IsDead())
	assert.True(t, (&Entity{HP: 0, MaxHP: 10}).IsDead())
	assert.False(t, (&Entity{HP: 1, MaxHP: 10}).IsDead())
	var nilEntity *Entity
	assert.False(t, nilEntity.IsDead())
	assert.False(t, nilEntity.IsAlive())
}

func TestEntity_HasStatus_FromSelf(t *testing.T) {
	e := &Entity{Statuses: []Status{{ID: 851, FromSelf: false}, {ID: 1946, FromSelf: true}}}
	assert.True(t, e.HasStatus(false, 851))
	assert.False(t, e.HasStatus(true, 851))
	assert.True(t, e.HasStatus(true, 999, 1946))
}

func TestEntity_HasStatusFlag(t *testing.T) {
	e := &Entity{Statuses: []Status{{ID: 1, Kind: StatusDebuff, Flags: FlagDispellable | FlagDangerous}}}
	assert.True(t, e.HasStatusFlag(FlagDispellable))
	assert.True(t, e.HasStatusFlag(FlagDangerous))
	assert.False(t, e.HasStatusFlag(FlagInvincible))
}

func TestEntity_DistanceTo(t *testing.T) {
	a := &Entity{Position: Vec3{X: 0}, Radius: 0.5}
	b := &Entity{Position: Vec3{X: 10}, Radius: 1.5}
	assert.InDelta(t, 8.0, a.DistanceTo(b), 1e-9)

	c := &Entity{Position: Vec3{X: 1}, Radius: 2}
	assert.Equal(t, 0.0, a.DistanceTo(c))
	assert.Equal(t, math.MaxFloat64, a.DistanceTo(nil))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleTank, ParseRole("Tank"))
	assert.Equal(t, RoleHealer, ParseRole(" healer "))
	assert.Equal(t, RoleDamage, ParseRole("ranged"))
	assert.Equal(t, RoleNone, ParseRole("chef"))
}

func TestOnlineStatus_Available(t *testing.T) {
	assert.True(t, OnlineStatus(0).Available())
	assert.False(t, OnlineStatusUnavailable.Available())
	assert.False(t, OnlineStatusViewingCutscene.Available())
}

// ---- Status ----

func TestStatus_Classification(t *testing.T) {
	doom := Status{Kind: StatusDebuff, Flags: FlagDispellable | FlagDangerous}
	assert.True(t, doom.CanDispel())
	assert.True(t, doom.IsDangerous())

	buff := Status{Kind: StatusBuff, Flags: FlagDispellable}
	assert.False(t, buff.CanDispel())

	hallowed := Status{Kind: StatusBuff, Flags: FlagInvincible}
	assert.True(t, hallowed.IsInvincible())
	assert.False(t, Status{}.Has(0))
}

func TestPositionalOf(t *testing.T) {
	// Facing 0 looks down +Z.
	boss := &Entity{Position: Vec3{}, Facing: 0}
	assert.Equal(t, PositionalFront, PositionalOf(boss, Vec3{Z: 5}))
	assert.Equal(t, PositionalRear, PositionalOf(boss, Vec3{Z: -5}))
	assert.Equal(t, PositionalFlank, PositionalOf(boss, Vec3{X: 5}))
	assert.Equal(t, PositionalFlank, PositionalOf(boss, Vec3{X: -5}))

	// Turned around, the sides swap.
	turned := &Entity{Facing: math.Pi}
	assert.Equal(t, PositionalRear, PositionalOf(turned, Vec3{Z: 5}))
	assert.Equal(t, PositionalNone, PositionalOf(nil, Vec3{}))
}

func TestParsePositional(t *testing.T) {
	assert.Equal(t, PositionalFront, ParsePositional("front"))
	assert.Equal(t, PositionalFlank, ParsePositional("side"))
	assert.Equal(t, PositionalRear, ParsePositional("Rear"))
	assert.Equal(t, PositionalNone, ParsePositional(""))
}

// ---- Snapshot ----

func TestSnapshot_Lookups(t *testing.T) {
	player := &Entity{ID: 1, Job: "MCH"}
	boss := &Entity{ID: 2}
	s := &Snapshot{
		Player:    player,
		Entities:  []*Entity{nil, boss},
		TargetID:  2,
		Cooldowns: map[ActionID]skill.Cooldown{7: {Charges: 0, MaxCharges: 1, Remaining: time.Second}},
		Gauge:     map[string]int{"heat": 50},
		Items:     map[ItemID]int{3: 2},
	}
	assert.Equal(t, "MCH", s.Job())
	assert.Same(t, player, s.Entity(1))
	assert.Same(t, boss, s.Target())
	assert.Nil(t, s.Entity(0))
	assert.False(t, s.Cooldown(7).HasCharge())
	assert.True(t, s.Cooldown(8).HasCharge())
	assert.Equal(t, 50, s.GaugeValue("heat"))
	assert.Equal(t, 2, s.ItemCount(3))
	assert.Equal(t, DefaultGCD, s.GCDLength())

	var nilSnap *Snapshot
	assert.Equal(t, "", nilSnap.Job())
	assert.Equal(t, 0, nilSnap.GaugeValue("heat"))
}

// ---- Sources ----

func TestStatic_Nil(t *testing.T) {
	_, err := NewStatic(nil).Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSequence_Loop(t *testing.T) {
	a, b := &Snapshot{Tick: 1}, &Snapshot{Tick: 2}
	seq := NewSequence([]*Snapshot{a, b}, true)
	for _, want := range []uint64{1, 2, 1} {
		s, err := seq.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, want, s.Tick)
	}
}

func TestSequence_Exhausted(t *testing.T) {
	seq := NewSequence([]*Snapshot{{Tick: 1}}, false)
	_, err := seq.Snapshot()
	require.NoError(t, err)
	_, err = seq.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func() (*Snapshot, error) { return &Snapshot{Tick: 9}, nil })
	s, err := src.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.Tick)
}
