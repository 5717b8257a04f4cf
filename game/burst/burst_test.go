package burst

import (
	"testing"
	"time"

	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/world"
	fx "github.com/kasuganosora/rotationsolver/testutil/fixture"
	"github.com/stretchr/testify/assert"
)

const (
	reassembled world.StatusID = 851
	drill       world.ActionID = 16498
	airAnchor   world.ActionID = 16500
	cleanShot   world.ActionID = 2873
)

func litanyIn(d time.Duration) skill.PartyBuffs {
	return skill.PartyBuffs{{ID: skill.BattleLitany, Until: d}}
}

func deferral() Deferral {
	return Deferral{SelfBuff: reassembled, Protected: []world.ActionID{drill, airAnchor}}
}

func TestWindowSoon(t *testing.T) {
	assert.True(t, WindowSoon(litanyIn(4*time.Second), DefaultWindows, DefaultThreshold))
	assert.True(t, WindowSoon(litanyIn(5*time.Second), DefaultWindows, DefaultThreshold), "threshold inclusive")
	assert.False(t, WindowSoon(litanyIn(6*time.Second), DefaultWindows, DefaultThreshold))
	assert.False(t, WindowSoon(nil, DefaultWindows, DefaultThreshold))

	untracked := skill.PartyBuffs{{ID: skill.Divination, Until: time.Second}}
	assert.False(t, WindowSoon(untracked, DefaultWindows, DefaultThreshold))

	active := skill.PartyBuffs{{ID: skill.ChainStratagem, Active: true, Remaining: 10 * time.Second}}
	assert.False(t, WindowSoon(active, DefaultWindows, DefaultThreshold), "already open is not opening")
}

func TestDeferral_ShouldDefer_AllThreeHold(t *testing.T) {
	player := fx.PartyMember(1, "MCH", world.RoleDamage)
	assert.True(t, deferral().ShouldDefer(player, litanyIn(4*time.Second), &action.Use{ID: drill}))
	assert.True(t, deferral().ShouldDefer(player, litanyIn(4*time.Second), nil), "undecided next counts as protected")
}

func TestDeferral_ShouldDefer_SelfBuffReleases(t *testing.T) {
	player := fx.PartyMember(1, "MCH", world.RoleDamage,
		fx.WithStatus(world.Status{ID: reassembled, FromSelf: true}))
	assert.False(t, deferral().ShouldDefer(player, litanyIn(4*time.Second), &action.Use{ID: drill}))
}

func TestDeferral_ShouldDefer_UnprotectedNext(t *testing.T) {
	player := fx.PartyMember(1, "MCH", world.RoleDamage)
	assert.False(t, deferral().ShouldDefer(player, litanyIn(4*time.Second), &action.Use{ID: cleanShot}))
}

func TestDeferral_ShouldDefer_NoWindow(t *testing.T) {
	player := fx.PartyMember(1, "MCH", world.RoleDamage)
	assert.False(t, deferral().ShouldDefer(player, litanyIn(20*time.Second), &action.Use{ID: airAnchor}))
}

func TestDeferral_CustomThreshold(t *testing.T) {
	d := deferral()
	d.Threshold = 10 * time.Second
	d.Windows = []skill.PartyBuffID{skill.Divination}
	buffs := skill.PartyBuffs{{ID: skill.Divination, Until: 8 * time.Second}}
	assert.True(t, d.ShouldDefer(fx.PartyMember(1, "MCH", world.RoleDamage), buffs, nil))
}

func TestBurstMedsDue(t *testing.T) {
	gcd := 2500 * time.Millisecond
	oneUseAway := skill.Cooldown{Charges: 0, MaxCharges: 1, Recast: 2 * time.Minute, Remaining: 2 * time.Second}
	farAway := skill.Cooldown{Charges: 0, MaxCharges: 1, Recast: 2 * time.Minute, Remaining: time.Minute}

	assert.True(t, BurstMedsDue(litanyIn(3*time.Second), DefaultWindows, DefaultThreshold, oneUseAway, gcd))
	assert.True(t, BurstMedsDue(litanyIn(3*time.Second), DefaultWindows, DefaultThreshold, skill.Ready(), gcd))
	assert.False(t, BurstMedsDue(litanyIn(3*time.Second), DefaultWindows, DefaultThreshold, farAway, gcd))
	assert.False(t, BurstMedsDue(litanyIn(30*time.Second), DefaultWindows, DefaultThreshold, oneUseAway, gcd))
}
