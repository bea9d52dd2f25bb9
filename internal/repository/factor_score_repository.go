package repository

import (
	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FactorScoreRepository interface {
	// ScoresFor returns the student's scores keyed by factor. Factors
	// absent from storage simply do not appear; callers treat them as 0.
	ScoresFor(studentID uint) (map[string]int, error)
	// ApplyDelta adds delta to one factor score under a row lock, clamping
	// the result to [0,100]. crossedMastery is true when this update moved
	// the score from below 100 to exactly 100.
	ApplyDelta(studentID uint, factor string, delta int) (newScore int, crossedMastery bool, err error)
}

type factorScoreRepository struct {
	db *gorm.DB
}

func NewFactorScoreRepository(db *gorm.DB) FactorScoreRepository {
	return &factorScoreRepository{db: db}
}

func (r *factorScoreRepository) ScoresFor(studentID uint) (map[string]int, error) {
	var rows []model.FactorScore
	if err := r.db.Where("student_id = ?", studentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(rows))
	for _, row := range rows {
		scores[row.Factor] = row.Score
	}
	return scores, nil
}

func (r *factorScoreRepository) ApplyDelta(studentID uint, factor string, delta int) (int, bool, error) {
	var newScore int
	var crossed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var row model.FactorScore
		// Row lock makes concurrent rounds for the same student serialize
		// per (student, factor) instead of losing updates.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND factor = ?", studentID, factor).
			First(&row).Error; err != nil {
			return err
		}

		newScore = row.Score + delta
		if newScore > 100 {
			newScore = 100
		}
		if newScore < 0 {
			newScore = 0
		}
		crossed = row.Score < 100 && newScore == 100

		return tx.Model(&model.FactorScore{}).Where("id = ?", row.ID).
			Update("score", newScore).Error
	})
	if err != nil {
		return 0, false, err
	}
	return newScore, crossed, nil
}
