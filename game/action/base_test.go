package action

import (
	"testing"
	"time"

	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"github.com/kasuganosora/rotationsolver/game/world"
	fx "github.com/kasuganosora/rotationsolver/testutil/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shot    world.ActionID = 1
	charged world.ActionID = 2
	buff    world.ActionID = 3
	finish  world.ActionID = 4
	potion  world.ActionID = 5
)

func frame(snap *world.Snapshot) *tick.Frame {
	c := target.NewClassifier(target.DefaultConfig(), nil)
	return tick.New(time.Now(), snap, c.Update(snap), nil, nil)
}

func player(opts ...fx.EntityOption) *world.Entity {
	return fx.PartyMember(1, "MCH", world.RoleDamage, opts...)
}

func TestUse_Is(t *testing.T) {
	u := &Use{ID: shot}
	assert.True(t, u.Is(charged, shot))
	assert.False(t, u.Is(charged))
	var none *Use
	assert.False(t, none.Is(shot))
}

func TestBase_TryUse_Hostile(t *testing.T) {
	b := &Base{ActionID: shot, ActionName: "Shot", Target: TargetHostile, Range: 25}
	f := frame(fx.Snapshot(player(), fx.Hostile(10, fx.At(0, 10))))

	use, ok := b.TryUse(f, Options{})
	require.True(t, ok)
	assert.Equal(t, &Use{ID: shot, Name: "Shot", Kind: KindGCD, Target: 10}, use)
}

func TestBase_TryUse_OutOfRange(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetHostile, Range: 25}
	f := frame(fx.Snapshot(player(), fx.Hostile(10, fx.At(0, 30))))
	_, ok := b.TryUse(f, Options{})
	assert.False(t, ok)
}

func TestBase_TryUse_NoPlayer(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetSelf}
	_, ok := b.TryUse(frame(fx.Snapshot(nil)), Options{})
	assert.False(t, ok)

	_, ok = b.TryUse(frame(fx.Snapshot(player(fx.Dead()))), Options{})
	assert.False(t, ok)
}

func TestBase_TryUse_CoolingDown(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetSelf}
	snap := fx.Snapshot(player())
	snap.Cooldowns = map[world.ActionID]skill.Cooldown{
		shot: {Charges: 0, MaxCharges: 1, Recast: time.Minute, Remaining: 10 * time.Second},
	}
	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok)
}

func TestBase_TryUse_MultiChargeNeedsFullUnlessUsedUp(t *testing.T) {
	b := &Base{ActionID: charged, Target: TargetSelf}
	snap := fx.Snapshot(player())
	snap.Cooldowns = map[world.ActionID]skill.Cooldown{
		charged: {Charges: 1, MaxCharges: 2, Recast: 20 * time.Second, Remaining: 5 * time.Second},
	}

	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok, "one of two charges held back")

	_, ok = b.TryUse(frame(snap), Options{UsedUp: true})
	assert.True(t, ok)

	snap.Cooldowns[charged] = skill.Cooldown{Charges: 2, MaxCharges: 2, Recast: 20 * time.Second}
	_, ok = b.TryUse(frame(snap), Options{})
	assert.True(t, ok)
}

func TestBase_TryUse_Gauge(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetSelf, GaugeName: "heat", GaugeCost: 50}
	snap := fx.Snapshot(player())
	snap.Gauge = map[string]int{"heat": 40}
	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok)

	snap.Gauge["heat"] = 50
	_, ok = b.TryUse(frame(snap), Options{})
	assert.True(t, ok)
}

func TestBase_TryUse_ProvidedStatus(t *testing.T) {
	const reassembled world.StatusID = 851
	b := &Base{ActionID: buff, Kind: KindAbility, Target: TargetSelf, Provides: []world.StatusID{reassembled}}
	snap := fx.Snapshot(player(fx.WithStatus(world.Status{ID: reassembled, FromSelf: true})))

	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok)

	_, ok = b.TryUse(frame(snap), Options{SkipStatusProvide: true})
	assert.True(t, ok)
}

func TestBase_TryUse_AreaMinimum(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetArea, Range: 12, MinAoE: 3}
	snap := fx.Snapshot(player(),
		fx.Hostile(10, fx.At(0, 5)),
		fx.Hostile(11, fx.At(5, 0)),
		fx.Hostile(12, fx.At(0, 40)),
	)

	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok, "only two hostiles in range")

	_, ok = b.TryUse(frame(snap), Options{SkipAoECheck: true})
	assert.True(t, ok)

	snap.Entities = append(snap.Entities, fx.Hostile(13, fx.At(-5, 0)))
	use, ok := b.TryUse(frame(snap), Options{})
	require.True(t, ok)
	assert.Equal(t, world.EntityID(10), use.Target)
}

func TestBase_TryUse_Combo(t *testing.T) {
	b := &Base{ActionID: finish, Target: TargetHostile, ComboAfter: []world.ActionID{shot}}
	snap := fx.Snapshot(player(), fx.Hostile(10))

	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok)

	snap.LastCombo = shot
	_, ok = b.TryUse(frame(snap), Options{})
	assert.True(t, ok)
}

func TestBase_TryUse_Item(t *testing.T) {
	b := &Base{ActionID: potion, ActionName: "Gemdraught", Kind: KindItem, Target: TargetSelf, Item: 44163}
	snap := fx.Snapshot(player())

	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok, "none in inventory")

	snap.Items = map[world.ItemID]int{44163: 3}
	use, ok := b.TryUse(frame(snap), Options{})
	require.True(t, ok)
	assert.Equal(t, world.ItemID(44163), use.Item)
	assert.Equal(t, KindItem, use.Kind)
}

func TestBase_TryUse_SelectionTargets(t *testing.T) {
	healer := fx.PartyMember(1, "WHM", world.RoleHealer)
	snap := fx.Snapshot(healer,
		fx.PartyMember(2, "WAR", world.RoleTank, fx.Dead()),
		fx.Hostile(10, fx.Casting(true), fx.Targeting(1)),
	)
	f := frame(snap)

	cases := []struct {
		mode TargetMode
		want world.EntityID
	}{
		{TargetDeath, 2},
		{TargetInterrupt, 10},
		{TargetProvoke, 10},
	}
	for _, tc := range cases {
		use, ok := (&Base{ActionID: shot, Target: tc.mode}).TryUse(f, Options{})
		require.True(t, ok, "mode %d", tc.mode)
		assert.Equal(t, tc.want, use.Target)
	}

	_, ok := (&Base{ActionID: shot, Target: TargetDispel}).TryUse(f, Options{})
	assert.False(t, ok, "nobody to cleanse")
}

func TestBase_TryUse_Check(t *testing.T) {
	b := &Base{ActionID: shot, Target: TargetSelf, Check: func(f *tick.Frame, _ *world.Entity) bool {
		return !f.Snapshot.Moving
	}}
	snap := fx.Snapshot(player())
	snap.Moving = true
	_, ok := b.TryUse(frame(snap), Options{})
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "gcd", KindGCD.String())
	assert.Equal(t, "ability", KindAbility.String())
	assert.Equal(t, "item", KindItem.String())
}
