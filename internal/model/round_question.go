package model

import (
	"time"

	"gorm.io/gorm"
)

type RoundQuestion struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	RoundID      uint   `json:"round_id" gorm:"not null;index"`
	OrderInRound int    `json:"order_in_round" gorm:"not null"` // 1..5
	Text         string `json:"text" gorm:"type:text;not null"`
	OptionA      string `json:"option_a" gorm:"not null"`
	OptionB      string `json:"option_b" gorm:"not null"`
	OptionC      string `json:"option_c" gorm:"not null"`
	OptionD      string `json:"option_d" gorm:"not null"`
	// CorrectOption is omitted from JSON so in-progress rounds do not leak
	// answers; controllers reveal correctness per question once answered.
	CorrectOption string `json:"-" gorm:"not null"`
	Factor        string `json:"factor" gorm:"not null"`

	// Incremental mode: once a choice is recorded the question is locked
	// and its correctness revealed.
	ChosenOption *string `json:"chosen_option,omitempty"`
	Correct      *bool   `json:"correct,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Options returns the four options in letter order.
func (q *RoundQuestion) Options() []string {
	return []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}
