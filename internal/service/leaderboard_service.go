package service

import (
	"fmt"
	"sort"

	"github.com/lshigami/Quokkas/internal/repository"
)

// LeaderboardEntry is one ranked row of a cohort leaderboard.
type LeaderboardEntry struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	XP   int    `json:"xp"`
	// Me marks the querying student's own row.
	Me bool `json:"me,omitempty"`
}

// Leaderboard is the cohort view for one student: everyone whose current
// lexile level falls in the same 100-point range, ranked by total XP.
type Leaderboard struct {
	RangeFloor   int                `json:"range_floor"`
	RangeCeiling int                `json:"range_ceiling"`
	Entries      []LeaderboardEntry `json:"entries"`
}

const leaderboardSize = 10

type LeaderboardService interface {
	For(studentID uint) (*Leaderboard, error)
}

type leaderboardService struct {
	students repository.StudentRepository
	ledger   repository.XPRepository
}

func NewLeaderboardService(students repository.StudentRepository, ledger repository.XPRepository) LeaderboardService {
	return &leaderboardService{students: students, ledger: ledger}
}

func (s *leaderboardService) For(studentID uint) (*Leaderboard, error) {
	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student: %w", err)
	}

	cohort, err := s.students.FindByLevelRange(student.RangeFloor, student.RangeCeiling)
	if err != nil {
		return nil, fmt.Errorf("loading cohort: %w", err)
	}

	ids := make([]uint, 0, len(cohort))
	for _, c := range cohort {
		ids = append(ids, c.ID)
	}
	sums, err := s.ledger.SumByStudents(ids)
	if err != nil {
		return nil, fmt.Errorf("summing XP: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(cohort))
	for _, c := range cohort {
		entries = append(entries, LeaderboardEntry{
			Name: c.Name,
			XP:   sums[c.ID],
			Me:   c.ID == studentID,
		})
	}
	// XP descending; ties keep the stable query order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].XP > entries[j].XP
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &Leaderboard{
		RangeFloor:   student.RangeFloor,
		RangeCeiling: student.RangeCeiling,
		Entries:      entries,
	}, nil
}
