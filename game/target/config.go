package target

import "strings"

// RaiseType decides whether alliance healers are revived ahead of the
// normal alliance priority.
type RaiseType int

const (
	RaisePartyOnly RaiseType = iota
	RaisePartyAndAllianceHealers
)

// ParseRaiseType maps a config value to a RaiseType; unknown values fall
// back to RaisePartyOnly.
func ParseRaiseType(s string) RaiseType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "party_and_alliance_healers", "alliance_healers":
		return RaisePartyAndAllianceHealers
	default:
		return RaisePartyOnly
	}
}

func (r RaiseType) String() string {
	if r == RaisePartyAndAllianceHealers {
		return "party_and_alliance_healers"
	}
	return "party_only"
}

// Config holds the classification toggles.
type Config struct {
	DisableTargetDummies      bool
	FriendlyBattleNPCHeal     bool
	FriendlyPartyNPCHealRaise bool
	IgnorePvPInvincibility    bool
	RaiseType                 RaiseType
	RaiseJobs                 []string
	DispelJobs                []string
}

// Jobs able to revive and to remove debuffs.
var (
	DefaultRaiseJobs  = []string{"WHM", "SCH", "AST", "SGE", "SMN", "RDM"}
	DefaultDispelJobs = []string{"WHM", "SCH", "AST", "SGE", "BRD"}
)

// DefaultConfig returns the toggles used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DisableTargetDummies: true,
		RaiseType:            RaisePartyOnly,
		RaiseJobs:            DefaultRaiseJobs,
		DispelJobs:           DefaultDispelJobs,
	}
}

func (c Config) canRaise(job string) bool { return hasJob(c.RaiseJobs, job) }
func (c Config) canDispel(job string) bool { return hasJob(c.DispelJobs, job) }

func hasJob(jobs []string, job string) bool {
	for _, j := range jobs {
		if strings.EqualFold(j, job) {
			return true
		}
	}
	return false
}
