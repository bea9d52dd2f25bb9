package repository

import (
	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
)

type RoundRepository interface {
	// Create persists the round and its questions in one go (GORM creates
	// the association rows from Round.Questions).
	Create(round *model.Round) error
	FindByIDWithQuestions(id uint) (*model.Round, error)
	// RecordAnswer locks one question's choice and correctness. Fails
	// closed (no rows affected) when the question was already answered.
	RecordAnswer(questionID uint, chosen string, correct bool) (bool, error)
	// MarkEvaluated moves the round to evaluated with its pending results,
	// only from in_progress.
	MarkEvaluated(round *model.Round) error
	// Claim flips evaluated -> claimed and appends the ledger entry in one
	// transaction. Returns false (and writes nothing) when the round was
	// not in evaluated state (already claimed, or not yet submitted);
	// this conditional update is the claim idempotency guard.
	Claim(roundID uint, entry *model.XPEntry) (bool, error)
}

type roundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *model.Round) error {
	return r.db.Create(round).Error
}

func (r *roundRepository) FindByIDWithQuestions(id uint) (*model.Round, error) {
	var round model.Round
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("round_questions.order_in_round ASC")
	}).First(&round, id).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) RecordAnswer(questionID uint, chosen string, correct bool) (bool, error) {
	res := r.db.Model(&model.RoundQuestion{}).
		Where("id = ? AND chosen_option IS NULL", questionID).
		Updates(map[string]interface{}{
			"chosen_option": chosen,
			"correct":       correct,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *roundRepository) MarkEvaluated(round *model.Round) error {
	return r.db.Model(&model.Round{}).
		Where("id = ? AND status = ?", round.ID, model.RoundInProgress).
		Updates(map[string]interface{}{
			"status":          model.RoundEvaluated,
			"accuracy":        round.Accuracy,
			"elapsed_seconds": round.ElapsedSeconds,
			"xp_pending":      round.XPPending,
			"level_before":    round.LevelBefore,
			"level_after":     round.LevelAfter,
			"range_changed":   round.RangeChanged,
		}).Error
}

func (r *roundRepository) Claim(roundID uint, entry *model.XPEntry) (bool, error) {
	claimed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Round{}).
			Where("id = ? AND status = ?", roundID, model.RoundEvaluated).
			Update("status", model.RoundClaimed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already claimed or not yet evaluated; write nothing
		}
		claimed = true
		return tx.Create(entry).Error
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}
