package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/game/rotation/machinist"
	"github.com/kasuganosora/rotationsolver/game/skill"
	"github.com/kasuganosora/rotationsolver/game/target"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    cache.Config   `mapstructure:"cache"`
	Tick     TickConfig     `mapstructure:"tick"`
	History  HistoryConfig  `mapstructure:"history"`
	Target   TargetConfig   `mapstructure:"target"`
	Rotation RotationConfig `mapstructure:"rotation"`
	Resource ResourceConfig `mapstructure:"resource"`
}

type ServerConfig struct {
	Debug      bool     `mapstructure:"debug"`
	DebugAddr  string   `mapstructure:"debug_addr"` // empty disables the debug API
	AdminKey   string   `mapstructure:"admin_key"`
	DebugAllow []string `mapstructure:"debug_allow"` // IPs or CIDRs; empty allows all
	DebugRPS   float64  `mapstructure:"debug_rps"`   // per client; 0 disables limiting
	DebugBurst int      `mapstructure:"debug_burst"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // console | json
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // none | sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type TickConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	EncounterPoll time.Duration `mapstructure:"encounter_poll"`
}

type HistoryConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Capacity int           `mapstructure:"capacity"`
}

type TargetConfig struct {
	DisableTargetDummies      bool     `mapstructure:"disable_target_dummies"`
	FriendlyBattleNPCHeal     bool     `mapstructure:"friendly_battle_npc_heal"`
	FriendlyPartyNPCHealRaise bool     `mapstructure:"friendly_party_npc_heal_raise"`
	IgnorePvPInvincibility    bool     `mapstructure:"ignore_pvp_invincibility"`
	RaiseType                 string   `mapstructure:"raise_type"`
	RaiseJobs                 []string `mapstructure:"raise_jobs"`
	DispelJobs                []string `mapstructure:"dispel_jobs"`
}

type RotationConfig struct {
	Job   string `mapstructure:"job"`
	Burst bool   `mapstructure:"burst"`
	// Guards maps an action name to a boolean expression; see game/rules.
	Guards    map[string]string `mapstructure:"guards"`
	Machinist MachinistConfig   `mapstructure:"machinist"`
}

type MachinistConfig struct {
	AdjustBurstTiming   bool          `mapstructure:"adjust_burst_timing"`
	HoldBigHitsForBuffs bool          `mapstructure:"hold_big_hits_for_buffs"`
	SaveTactician       bool          `mapstructure:"save_tactician"`
	BioMove             bool          `mapstructure:"bio_move"`
	BurstWindows        []string      `mapstructure:"burst_windows"`
	BurstThreshold      time.Duration `mapstructure:"burst_threshold"`
}

type ResourceConfig struct {
	StatusTable string `mapstructure:"status_table"`
	JobTable    string `mapstructure:"job_table"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.debug", false)
	v.SetDefault("server.debug_addr", "127.0.0.1:8099")
	v.SetDefault("server.debug_allow", []string{"127.0.0.1", "::1"})
	v.SetDefault("server.debug_rps", 20)
	v.SetDefault("server.debug_burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.mode", "none")
	v.SetDefault("database.sqlite_path", "./data/decisions.db")
	v.SetDefault("database.mysql_max_open", 10)
	v.SetDefault("database.mysql_max_idle", 5)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("cache.decision_channel", "rotation:decision")
	v.SetDefault("cache.encounter_key", "rotation:encounter")
	v.SetDefault("tick.interval", "50ms")
	v.SetDefault("tick.encounter_poll", "1s")
	v.SetDefault("history.interval", "500ms")
	v.SetDefault("history.capacity", 240)
	v.SetDefault("target.disable_target_dummies", true)
	v.SetDefault("target.raise_type", "party_only")
	v.SetDefault("rotation.job", "MCH")
	v.SetDefault("rotation.burst", true)
	v.SetDefault("rotation.machinist.adjust_burst_timing", true)
	v.SetDefault("rotation.machinist.hold_big_hits_for_buffs", true)
	v.SetDefault("rotation.machinist.save_tactician", true)
	v.SetDefault("rotation.machinist.bio_move", true)
	v.SetDefault("rotation.machinist.burst_threshold", "5s")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for key, d := range map[string]time.Duration{
		"tick.interval":       c.Tick.Interval,
		"tick.encounter_poll": c.Tick.EncounterPoll,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", key, d)
		}
	}
	return nil
}

// Load reads config from the given YAML file path. Keys may be overridden
// by ROTATION_* environment variables, e.g. ROTATION_TICK_INTERVAL.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("rotation")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		panic("config: defaults do not decode: " + err.Error())
	}
	return cfg
}

// Classifier converts the target section into classifier toggles. Empty
// job lists keep the built-in ones; main fills them from the job table
// when one is configured.
func (c TargetConfig) Classifier() target.Config {
	out := target.DefaultConfig()
	out.DisableTargetDummies = c.DisableTargetDummies
	out.FriendlyBattleNPCHeal = c.FriendlyBattleNPCHeal
	out.FriendlyPartyNPCHealRaise = c.FriendlyPartyNPCHealRaise
	out.IgnorePvPInvincibility = c.IgnorePvPInvincibility
	out.RaiseType = target.ParseRaiseType(c.RaiseType)
	if len(c.RaiseJobs) > 0 {
		out.RaiseJobs = c.RaiseJobs
	}
	if len(c.DispelJobs) > 0 {
		out.DispelJobs = c.DispelJobs
	}
	return out
}

// MachinistToggles converts the rotation section into machinist toggles.
func (c RotationConfig) MachinistToggles() machinist.Toggles {
	m := c.Machinist
	t := machinist.Toggles{
		Burst:               c.Burst,
		AdjustBurstTiming:   m.AdjustBurstTiming,
		HoldBigHitsForBuffs: m.HoldBigHitsForBuffs,
		SaveTactician:       m.SaveTactician,
		BioMove:             m.BioMove,
		Threshold:           m.BurstThreshold,
	}
	for _, w := range m.BurstWindows {
		t.Windows = append(t.Windows, skill.PartyBuffID(strings.ToLower(strings.TrimSpace(w))))
	}
	return t
}
