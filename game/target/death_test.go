package target

import (
	"testing"

	"github.com/kasuganosora/rotationsolver/game/world"
	fx "github.com/kasuganosora/rotationsolver/testutil/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- PriorityDeathTarget ----

func TestPriorityDeathTarget_Empty(t *testing.T) {
	assert.Nil(t, PriorityDeathTarget(nil, RaisePartyOnly))
}

func TestPriorityDeathTarget_TwoTanksBeatHealer(t *testing.T) {
	list := []*world.Entity{
		fx.PartyMember(1, "SCH", world.RoleHealer, fx.Dead()),
		fx.PartyMember(2, "WAR", world.RoleTank, fx.Dead()),
		fx.PartyMember(3, "GNB", world.RoleTank, fx.Dead()),
	}
	assert.Equal(t, world.EntityID(2), PriorityDeathTarget(list, RaisePartyOnly).ID)
}

func TestPriorityDeathTarget_OneTankLosesToHealer(t *testing.T) {
	list := []*world.Entity{
		fx.PartyMember(1, "WAR", world.RoleTank, fx.Dead()),
		fx.PartyMember(2, "SCH", world.RoleHealer, fx.Dead()),
	}
	assert.Equal(t, world.EntityID(2), PriorityDeathTarget(list, RaisePartyOnly).ID)
}

func TestPriorityDeathTarget_TankBeforeDamage(t *testing.T) {
	list := []*world.Entity{
		fx.PartyMember(1, "DRG", world.RoleDamage, fx.Dead()),
		fx.PartyMember(2, "WAR", world.RoleTank, fx.Dead()),
	}
	assert.Equal(t, world.EntityID(2), PriorityDeathTarget(list, RaisePartyOnly).ID)
}

func TestPriorityDeathTarget_FirstByOrder(t *testing.T) {
	list := []*world.Entity{
		fx.PartyMember(7, "DRG", world.RoleDamage, fx.Dead()),
		fx.PartyMember(8, "NIN", world.RoleDamage, fx.Dead()),
	}
	assert.Equal(t, world.EntityID(7), PriorityDeathTarget(list, RaisePartyOnly).ID)
}

func TestPriorityDeathTarget_AllianceHealersPolicy(t *testing.T) {
	list := []*world.Entity{
		fx.PartyMember(1, "WAR", world.RoleTank, fx.Dead()),
		fx.PartyMember(2, "GNB", world.RoleTank, fx.Dead()),
		fx.PartyMember(3, "AST", world.RoleHealer, fx.Dead()),
	}
	assert.Equal(t, world.EntityID(3), PriorityDeathTarget(list, RaisePartyAndAllianceHealers).ID)
	assert.Equal(t, world.EntityID(1), PriorityDeathTarget(list, RaisePartyOnly).ID)
}

// ---- SelectDeathTarget ----

func TestSelectDeathTarget_NonRaiserGetsNothing(t *testing.T) {
	player := fx.PartyMember(1, "MCH", world.RoleDamage)
	snap := fx.Snapshot(player, fx.PartyMember(2, "WAR", world.RoleTank, fx.Dead()))
	assert.Nil(t, newClassifier().Update(snap).Death)
}

func TestSelectDeathTarget_PartyBeforeAlliance(t *testing.T) {
	player := fx.PartyMember(1, "WHM", world.RoleHealer)
	snap := fx.Snapshot(player,
		fx.AllianceMember(2, "AST", world.RoleHealer, fx.Dead()),
		fx.PartyMember(3, "DRG", world.RoleDamage, fx.Dead()),
	)
	death := newClassifier().Update(snap).Death
	require.NotNil(t, death)
	assert.Equal(t, world.EntityID(3), death.ID)
}

func TestSelectDeathTarget_AllianceWhenPartyAlive(t *testing.T) {
	player := fx.PartyMember(1, "WHM", world.RoleHealer)
	snap := fx.Snapshot(player,
		fx.PartyMember(2, "DRG", world.RoleDamage),
		fx.AllianceMember(3, "DRG", world.RoleDamage, fx.Dead()),
		fx.AllianceMember(4, "SGE", world.RoleHealer, fx.Dead()),
	)
	death := newClassifier().Update(snap).Death
	require.NotNil(t, death)
	assert.Equal(t, world.EntityID(4), death.ID)
}

func TestSelectDeathTarget_FriendlyNPCNeedsToggle(t *testing.T) {
	player := fx.PartyMember(1, "WHM", world.RoleHealer)
	snap := fx.Snapshot(player, fx.FriendlyNPC(20, fx.Dead()))

	c := newClassifier(func(cfg *Config) { cfg.FriendlyBattleNPCHeal = true })
	assert.Nil(t, c.Update(snap).Death)

	c = newClassifier(func(cfg *Config) { cfg.FriendlyPartyNPCHealRaise = true })
	death := c.Update(snap).Death
	require.NotNil(t, death)
	assert.Equal(t, world.EntityID(20), death.ID)
}

func TestSelectDeathTarget_NeverAliveNeverOutsideSets(t *testing.T) {
	player := fx.PartyMember(1, "SGE", world.RoleHealer)
	snaps := []*world.Snapshot{
		mixedSnapshot(),
		fx.Snapshot(player, fx.Hostile(10, fx.Dead()), fx.PartyMember(2, "WAR", world.RoleTank)),
		fx.Snapshot(player, fx.PartyMember(3, "WAR", world.RoleTank, fx.Dead(), fx.Untargetable())),
		fx.Snapshot(player, fx.FriendlyNPC(4, fx.Dead())),
	}
	c := newClassifier(func(cfg *Config) { cfg.FriendlyBattleNPCHeal = true })
	for i, snap := range snaps {
		targets := c.Update(snap)
		if targets.Death == nil {
			continue
		}
		assert.True(t, targets.Death.IsDead(), "snapshot %d", i)
		pool := append(append(ids(targets.Party), ids(targets.Alliance)...), ids(targets.FriendlyNPCs)...)
		assert.Contains(t, pool, targets.Death.ID, "snapshot %d", i)
	}
}

func TestSelectDeathTarget_PartyBySetOrder(t *testing.T) {
	player := fx.PartyMember(1, "RDM", world.RoleDamage)
	snap := fx.Snapshot(player,
		fx.PartyMember(2, "DRG", world.RoleDamage, fx.Dead()),
		fx.PartyMember(3, "WAR", world.RoleTank, fx.Dead()),
		fx.PartyMember(4, "GNB", world.RoleTank, fx.Dead()),
	)
	death := newClassifier().Update(snap).Death
	require.NotNil(t, death)
	assert.Equal(t, world.EntityID(2), death.ID)
}
