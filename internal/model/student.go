package model

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	PublicID     string `json:"public_id" gorm:"type:uuid;uniqueIndex;not null"`
	StudentID    string `json:"student_id" gorm:"uniqueIndex;not null"` // login handle chosen at registration
	PasswordHash string `json:"-" gorm:"not null"`
	Name         string `json:"name" gorm:"not null"`
	Age          int    `json:"age" gorm:"not null"`

	LexileLevel int `json:"lexile_level" gorm:"not null"`
	// Cached leaderboard bounds, rewritten whenever LexileLevel changes so
	// they never drift from the live estimate.
	RangeFloor   int `json:"range_floor" gorm:"not null"`
	RangeCeiling int `json:"range_ceiling" gorm:"not null"`

	// XPBalance is the spendable counter consumed 100-at-a-time into level
	// increases on claim. The append-only ledger keeps the lifetime total.
	XPBalance int `json:"xp_balance" gorm:"not null;default:0"`

	Streak           int            `json:"streak" gorm:"not null;default:0"`
	LastActivityDate *time.Time     `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
