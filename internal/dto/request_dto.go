package dto

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	StudentID       string `json:"student_id" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Age             int    `json:"age" binding:"required,min=1"`
}

type LoginRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// StartRoundRequest selects content for a new round.
type StartRoundRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}

// AnswerRequest locks in one question's choice (incremental mode).
type AnswerRequest struct {
	OrderInRound int    `json:"order_in_round" binding:"required,min=1,max=5"`
	Option       string `json:"option" binding:"required,oneof=A B C D"`
}

// SubmitRequest completes a round. Answers may be empty when every
// question was already answered incrementally; when present it must list
// one letter per question in order.
type SubmitRequest struct {
	Answers []string `json:"answers" binding:"omitempty,max=5,dive,oneof=A B C D"`
}
