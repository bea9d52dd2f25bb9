package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// StudentResponse is the public view of a student record.
type StudentResponse struct {
	PublicID    string `json:"public_id"`
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	LexileLevel int    `json:"lexile_level"`
	Streak      int    `json:"streak"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Student StudentResponse `json:"student"`
}

// QuestionResponse shows one round question to the student. The correct
// option is never included; correctness is revealed per answered question
// via the Correct field.
type QuestionResponse struct {
	ID           uint     `json:"id"`
	OrderInRound int      `json:"order_in_round"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	Factor       string   `json:"factor"`
	ChosenOption *string  `json:"chosen_option,omitempty"`
	Correct      *bool    `json:"correct,omitempty"`
}

type RoundResponse struct {
	ID          uint               `json:"id"`
	Topic       string             `json:"topic"`
	Difficulty  string             `json:"difficulty"`
	TargetLevel int                `json:"target_level"`
	Content     string             `json:"content"`
	Status      string             `json:"status"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
	Accuracy    *int               `json:"accuracy,omitempty"`
	XPPending   *int               `json:"xp_pending,omitempty"`
}

// CatalogResponse lists the fixed enumerations a client needs to start a
// round.
type CatalogResponse struct {
	Topics       []string `json:"topics"`
	Difficulties []string `json:"difficulties"`
	Factors      []string `json:"factors"`
}
