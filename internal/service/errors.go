package service

import "errors"

var (
	// ErrStudentExists is returned when registering a taken student ID.
	ErrStudentExists = errors.New("student ID already exists")
	// ErrInvalidCredentials covers both unknown IDs and bad passwords.
	ErrInvalidCredentials = errors.New("invalid student ID or password")
	// ErrContentGeneration means the provider could not produce a valid
	// passage and question set within its retry budget. Retryable.
	ErrContentGeneration = errors.New("content generation failed")
	// ErrRoundNotFound indicates an unknown or foreign round ID.
	ErrRoundNotFound = errors.New("round not found")
	// ErrRoundState means the requested operation is not valid in the
	// round's current status (e.g. submitting a claimed round).
	ErrRoundState = errors.New("operation not valid in current round state")
	// ErrAlreadyClaimed signals a duplicate claim attempt for a round.
	ErrAlreadyClaimed = errors.New("round XP already claimed")
	// ErrQuestionLocked means the question was already answered in
	// incremental mode.
	ErrQuestionLocked = errors.New("question already answered")
)
