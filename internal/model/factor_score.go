package model

import (
	"time"

	"gorm.io/gorm"
)

// FactorScore is one student's score on one of the ten reading skills,
// clamped to [0,100]. All ten rows are seeded at 0 when the student
// registers.
type FactorScore struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StudentID uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_student_factor"`
	Factor    string         `json:"factor" gorm:"not null;uniqueIndex:idx_student_factor"`
	Score     int            `json:"score" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
