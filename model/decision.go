package model

import (
	"time"

	"gorm.io/datatypes"
)

// DecisionLog is one journaled tick decision.
type DecisionLog struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID  string `gorm:"uniqueIndex:idx_decision_trace;size:36;not null" json:"trace_id"`
	Tick     uint64 `gorm:"index:idx_decision_tick" json:"tick"`
	Rotation string `gorm:"size:64" json:"rotation"`
	Job      string `gorm:"size:8" json:"job"`
	Layer    string `gorm:"size:16;not null" json:"layer"`
	ActionID uint32 `json:"action_id"`
	Action   string `gorm:"size:64" json:"action"`
	TargetID uint64 `json:"target_id"`
	Held     bool   `json:"held"`
	Reason   string `gorm:"size:255" json:"reason"`
	Phase    string `gorm:"size:32" json:"phase"`
	// Targets holds the set sizes and single-target selections of the tick.
	Targets   datatypes.JSON `json:"targets"`
	Error     string         `gorm:"type:text" json:"error"`
	DecidedAt time.Time      `gorm:"index:idx_decision_at" json:"decided_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime:milli" json:"created_at"`
}
