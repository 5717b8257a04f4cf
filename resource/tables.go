package resource

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/kasuganosora/rotationsolver/game/world"
	"gopkg.in/yaml.v3"
)

// StatusInfo is one row of the status table.
type StatusInfo struct {
	ID          world.StatusID `yaml:"id"`
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"` // buff or debuff
	Dangerous   bool           `yaml:"dangerous"`
	Dispellable bool           `yaml:"dispellable"`
	Invincible  bool           `yaml:"invincible"`
	Positional  string         `yaml:"positional"`
}

// Flags returns the classifier flags carried by the row.
func (s StatusInfo) Flags() world.StatusFlag {
	var f world.StatusFlag
	if s.Dangerous {
		f |= world.FlagDangerous
	}
	if s.Dispellable {
		f |= world.FlagDispellable
	}
	if s.Invincible {
		f |= world.FlagInvincible
	}
	return f
}

// StatusKind parses Kind; anything but "buff" is a debuff.
func (s StatusInfo) StatusKind() world.StatusKind {
	if strings.EqualFold(strings.TrimSpace(s.Kind), "buff") {
		return world.StatusBuff
	}
	return world.StatusDebuff
}

// JobInfo is one row of the job table.
type JobInfo struct {
	Job       string `yaml:"job"`
	Role      string `yaml:"role"`
	CanRaise  bool   `yaml:"can_raise"`
	CanDispel bool   `yaml:"can_dispel"`
}

// Tables holds the status and job lookups. It is built once at startup and
// read-only afterwards.
type Tables struct {
	statuses map[world.StatusID]StatusInfo
	jobs     map[string]JobInfo
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		statuses: make(map[world.StatusID]StatusInfo),
		jobs:     make(map[string]JobInfo),
	}
}

// Load reads the status and job tables on top of the built-in defaults.
// An empty path keeps the defaults for that table.
func Load(statusPath, jobPath string) (*Tables, error) {
	t := Defaults()
	if statusPath != "" {
		if err := t.LoadStatuses(statusPath); err != nil {
			return nil, err
		}
	}
	if jobPath != "" {
		if err := t.LoadJobs(jobPath); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadStatuses merges a YAML status list into t. Rows with the same id
// replace earlier ones.
func (t *Tables) LoadStatuses(path string) error {
	rows, err := loadYAMLList[StatusInfo](path)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if r.ID == 0 {
			return fmt.Errorf("resource: %s: status #%d has no id", path, i)
		}
		t.AddStatus(r)
	}
	return nil
}

// LoadJobs merges a YAML job list into t.
func (t *Tables) LoadJobs(path string) error {
	rows, err := loadYAMLList[JobInfo](path)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if strings.TrimSpace(r.Job) == "" {
			return fmt.Errorf("resource: %s: job #%d has no name", path, i)
		}
		t.AddJob(r)
	}
	return nil
}

// AddStatus inserts or replaces a status row.
func (t *Tables) AddStatus(s StatusInfo) {
	t.statuses[s.ID] = s
}

// AddJob inserts or replaces a job row. Job names are matched upper-case.
func (t *Tables) AddJob(j JobInfo) {
	j.Job = strings.ToUpper(strings.TrimSpace(j.Job))
	t.jobs[j.Job] = j
}

// StatusByID looks up a status row.
func (t *Tables) StatusByID(id world.StatusID) (StatusInfo, bool) {
	s, ok := t.statuses[id]
	return s, ok
}

// Classify fills kind, flags and positional of s from the table. Statuses
// the table does not know are returned unchanged.
func (t *Tables) Classify(s world.Status) world.Status {
	info, ok := t.statuses[s.ID]
	if !ok {
		return s
	}
	s.Kind = info.StatusKind()
	s.Flags |= info.Flags()
	if p := world.ParsePositional(info.Positional); p != world.PositionalNone {
		s.Positional = p
	}
	return s
}

// RoleOf returns the role of a job, RoleNone when unknown.
func (t *Tables) RoleOf(job string) world.Role {
	j, ok := t.jobs[strings.ToUpper(strings.TrimSpace(job))]
	if !ok {
		return world.RoleNone
	}
	return world.ParseRole(j.Role)
}

// RaiseJobs lists jobs flagged can_raise, sorted.
func (t *Tables) RaiseJobs() []string {
	return t.jobsWhere(func(j JobInfo) bool { return j.CanRaise })
}

// DispelJobs lists jobs flagged can_dispel, sorted.
func (t *Tables) DispelJobs() []string {
	return t.jobsWhere(func(j JobInfo) bool { return j.CanDispel })
}

// Len returns the number of status and job rows.
func (t *Tables) Len() (statuses, jobs int) {
	return len(t.statuses), len(t.jobs)
}

func (t *Tables) jobsWhere(keep func(JobInfo) bool) []string {
	var out []string
	for name, j := range t.jobs {
		if keep(j) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func loadYAMLList[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	var rows []T
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("resource: parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("resource: %s: %w", path, ErrEmpty)
	}
	return rows, nil
}

// ErrEmpty is returned for a table or scenario file without rows.
var ErrEmpty = errors.New("no entries")
