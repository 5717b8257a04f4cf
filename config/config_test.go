package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kasuganosora/rotationsolver/game/rules"
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 50*time.Millisecond, cfg.Tick.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.History.Interval)
	assert.Equal(t, 240, cfg.History.Capacity)
	assert.Equal(t, "none", cfg.Database.Mode)
	assert.Equal(t, "rotation:decision", cfg.Cache.DecisionChannel)
	assert.Equal(t, "MCH", cfg.Rotation.Job)
	assert.True(t, cfg.Rotation.Burst)
	assert.True(t, cfg.Target.DisableTargetDummies)
	assert.Equal(t, 5*time.Second, cfg.Rotation.Machinist.BurstThreshold)
	assert.Equal(t, []string{"127.0.0.1", "::1"}, cfg.Server.DebugAllow)
	assert.Equal(t, 20.0, cfg.Server.DebugRPS)
	assert.Equal(t, 40, cfg.Server.DebugBurst)
	assert.Empty(t, cfg.Target.RaiseJobs)
}

func TestLoad_OverridesAndGuards(t *testing.T) {
	path := writeConfig(t, `
tick:
  interval: 100ms
target:
  raise_type: party_and_alliance_healers
  friendly_battle_npc_heal: true
rotation:
  burst: false
  guards:
    Drill: "TargetTTK < 0 || TargetTTK > 10"
  machinist:
    bio_move: false
    burst_windows: [Battle_Litany, " divination "]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Tick.Interval)
	assert.Equal(t, 240, cfg.History.Capacity, "unset keys keep defaults")

	tc := cfg.Target.Classifier()
	assert.Equal(t, target.RaisePartyAndAllianceHealers, tc.RaiseType)
	assert.True(t, tc.FriendlyBattleNPCHeal)
	assert.Equal(t, target.DefaultRaiseJobs, tc.RaiseJobs)

	// viper lower-cases map keys
	assert.Equal(t, "TargetTTK < 0 || TargetTTK > 10", cfg.Rotation.Guards["drill"])

	mt := cfg.Rotation.MachinistToggles()
	assert.False(t, mt.Burst)
	assert.False(t, mt.BioMove)
	assert.True(t, mt.HoldBigHitsForBuffs)
	assert.Equal(t, []skill.PartyBuffID{skill.BattleLitany, skill.Divination}, mt.Windows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ROTATION_TICK_INTERVAL", "20ms")
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Tick.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsNonPositiveTick(t *testing.T) {
	tests := []struct {
		env, value, key string
	}{
		{"ROTATION_TICK_ENCOUNTER_POLL", "0s", "tick.encounter_poll"},
		{"ROTATION_TICK_INTERVAL", "-50ms", "tick.interval"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load("config.example.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Mode)
	assert.Equal(t, "./data/jobs.yaml", cfg.Resource.JobTable)
	assert.Equal(t, []skill.PartyBuffID{skill.BattleLitany, skill.Divination}, cfg.Rotation.MachinistToggles().Windows)

	guards, err := rules.Compile(cfg.Rotation.Guards, nil)
	require.NoError(t, err)
	assert.Len(t, guards.List(), 1)
}
