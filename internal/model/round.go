package model

import (
	"time"

	"gorm.io/gorm"
)

// Round statuses. A round is created in progress, becomes evaluated once
// the answers are scored (reward pending, not yet in the ledger), and
// claimed when the student banks the XP.
const (
	RoundInProgress = "in_progress"
	RoundEvaluated  = "evaluated"
	RoundClaimed    = "claimed"
)

type Round struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	StudentID   uint            `json:"student_id" gorm:"not null;index"`
	Topic       string          `json:"topic" gorm:"not null"`
	Difficulty  string          `json:"difficulty" gorm:"not null"`
	TargetLevel int             `json:"target_level" gorm:"not null"`
	Content     string          `json:"content" gorm:"type:text;not null"`
	Questions   []RoundQuestion `json:"questions,omitempty" gorm:"foreignKey:RoundID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Status      string          `json:"status" gorm:"not null;default:'in_progress'"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`

	// Pending results, filled when the round reaches evaluated. The XP
	// stays here until the explicit claim writes the ledger entry.
	Accuracy       *int  `json:"accuracy,omitempty"`
	ElapsedSeconds *int  `json:"elapsed_seconds,omitempty"`
	XPPending      *int  `json:"xp_pending,omitempty"`
	LevelBefore    *int  `json:"level_before,omitempty"`
	LevelAfter     *int  `json:"level_after,omitempty"`
	RangeChanged   *bool `json:"range_changed,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
