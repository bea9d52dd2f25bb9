package model

import (
	"time"

	"gorm.io/gorm"
)

// XP entry kinds.
const (
	XPKindClaim   = "claim"   // student claimed a round's pending reward
	XPKindMastery = "mastery" // a factor score crossed into 100
)

// XPEntry is one append-only line of the XP ledger. A student's total XP
// is the sum of their entries; nothing ever updates an entry in place.
type XPEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StudentID uint           `json:"student_id" gorm:"not null;index"`
	Amount    int            `json:"amount" gorm:"not null"`
	Kind      string         `json:"kind" gorm:"not null"`
	RoundID   *uint          `json:"round_id,omitempty" gorm:"index"`
	Factor    *string        `json:"factor,omitempty"` // set for mastery entries
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
