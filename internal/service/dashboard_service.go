package service

import (
	"fmt"
	"time"

	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/repository"
)

// Dashboard is the student's own overview: identity, lexile position,
// total XP, streak and per-factor scores.
type Dashboard struct {
	Name             string         `json:"name"`
	StudentID        string         `json:"student_id"`
	LexileLevel      int            `json:"lexile_level"`
	LexileScale      string         `json:"lexile_scale"`
	RangeFloor       int            `json:"range_floor"`
	RangeCeiling     int            `json:"range_ceiling"`
	TotalXP          int            `json:"total_xp"`
	XPBalance        int            `json:"xp_balance"`
	Streak           int            `json:"streak"`
	LastActivityDate *time.Time     `json:"last_activity_date,omitempty"`
	FactorScores     map[string]int `json:"factor_scores"`
}

type DashboardService interface {
	For(studentID uint) (*Dashboard, error)
}

type dashboardService struct {
	students repository.StudentRepository
	factors  repository.FactorScoreRepository
	ledger   repository.XPRepository
}

func NewDashboardService(
	students repository.StudentRepository,
	factors repository.FactorScoreRepository,
	ledger repository.XPRepository,
) DashboardService {
	return &dashboardService{students: students, factors: factors, ledger: ledger}
}

func (s *dashboardService) For(studentID uint) (*Dashboard, error) {
	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student: %w", err)
	}

	total, err := s.ledger.TotalFor(studentID)
	if err != nil {
		return nil, fmt.Errorf("summing XP: %w", err)
	}

	stored, err := s.factors.ScoresFor(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading factor scores: %w", err)
	}
	// Every factor shows up, absent rows as 0.
	scores := make(map[string]int, len(lexile.Factors))
	for _, f := range lexile.Factors {
		scores[f] = stored[f]
	}

	return &Dashboard{
		Name:             student.Name,
		StudentID:        student.StudentID,
		LexileLevel:      student.LexileLevel,
		LexileScale:      lexile.ScaleDisplay(student.LexileLevel),
		RangeFloor:       student.RangeFloor,
		RangeCeiling:     student.RangeCeiling,
		TotalXP:          total,
		XPBalance:        student.XPBalance,
		Streak:           student.Streak,
		LastActivityDate: student.LastActivityDate,
		FactorScores:     scores,
	}, nil
}
