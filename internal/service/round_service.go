package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/rs/zerolog/log"
)

const questionsPerRound = 5

// masteryBonusXP is the one-time ledger bonus for pushing a factor score
// to 100. Clamping keeps a capped factor at 100, so each factor can fire
// this at most once.
const masteryBonusXP = 5

// RoundResult is what the student sees after submitting: everything is
// computed and held pending; no XP has been banked yet.
type RoundResult struct {
	RoundID      uint `json:"round_id"`
	Accuracy     int  `json:"accuracy"`
	ElapsedSecs  int  `json:"elapsed_seconds"`
	XPPending    int  `json:"xp_pending"`
	LevelBefore  int  `json:"level_before"`
	LevelAfter   int  `json:"level_after"`
	RangeChanged bool `json:"range_changed"`
	RangeFloor   int  `json:"range_floor"`
	RangeCeiling int  `json:"range_ceiling"`
	Streak       int  `json:"streak"`
}

// ClaimResult reports the outcome of banking a round's pending XP.
type ClaimResult struct {
	RoundID       uint `json:"round_id"`
	XPClaimed     int  `json:"xp_claimed"`
	TotalXP       int  `json:"total_xp"`
	XPBalance     int  `json:"xp_balance"`
	LevelIncrease int  `json:"level_increase"`
	NewLevel      int  `json:"new_level"`
	RangeChanged  bool `json:"range_changed"`
}

// AnswerOutcome reveals one question's correctness in incremental mode.
type AnswerOutcome struct {
	QuestionID    uint   `json:"question_id"`
	OrderInRound  int    `json:"order_in_round"`
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
}

// RoundService drives a round through its lifecycle: start (content
// generation + durable creation), answer (incremental), submit
// (evaluation, level adjustment, pending reward), claim (ledger commit).
type RoundService interface {
	Start(ctx context.Context, studentID uint, topic, difficulty string) (*model.Round, error)
	Get(studentID, roundID uint) (*model.Round, error)
	Answer(studentID, roundID uint, orderInRound int, option string) (*AnswerOutcome, error)
	Submit(studentID, roundID uint, answers []string) (*RoundResult, error)
	Claim(studentID, roundID uint) (*ClaimResult, error)
}

type roundService struct {
	rounds   repository.RoundRepository
	students repository.StudentRepository
	factors  repository.FactorScoreRepository
	ledger   repository.XPRepository
	content  ContentService
	now      func() time.Time
}

func NewRoundService(
	rounds repository.RoundRepository,
	students repository.StudentRepository,
	factors repository.FactorScoreRepository,
	ledger repository.XPRepository,
	content ContentService,
) RoundService {
	return &roundService{
		rounds:   rounds,
		students: students,
		factors:  factors,
		ledger:   ledger,
		content:  content,
		now:      time.Now,
	}
}

func (s *roundService) Start(ctx context.Context, studentID uint, topic, difficulty string) (*model.Round, error) {
	target, ok := lexile.TargetLevel(difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student: %w", err)
	}

	scores, err := s.factors.ScoresFor(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading factor scores: %w", err)
	}

	// The provider call holds no locks and retries internally; any failure
	// surfaces as a retryable ErrContentGeneration and the student stays
	// out of a round.
	content, generated, err := s.content.Generate(ctx, student.Age, topic, target, scores)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Str("difficulty", difficulty).Msg("Start round: content generation failed")
		return nil, err
	}
	if len(generated) != questionsPerRound {
		return nil, fmt.Errorf("%w: got %d questions", ErrContentGeneration, len(generated))
	}

	started := s.now()
	round := &model.Round{
		StudentID:   studentID,
		Topic:       topic,
		Difficulty:  difficulty,
		TargetLevel: target,
		Content:     content,
		Status:      model.RoundInProgress,
		StartedAt:   &started,
	}
	for i, q := range generated {
		round.Questions = append(round.Questions, model.RoundQuestion{
			OrderInRound:  i + 1,
			Text:          q.Text,
			OptionA:       q.Options[0],
			OptionB:       q.Options[1],
			OptionC:       q.Options[2],
			OptionD:       q.Options[3],
			CorrectOption: q.CorrectOption,
			Factor:        q.Factor,
		})
	}

	if err := s.rounds.Create(round); err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Msg("Start round: failed to persist round")
		return nil, fmt.Errorf("creating round: %w", err)
	}

	log.Info().Uint("roundID", round.ID).Uint("studentID", studentID).Int("targetLevel", target).Msg("Round started")
	return round, nil
}

func (s *roundService) Get(studentID, roundID uint) (*model.Round, error) {
	return s.ownedRound(studentID, roundID)
}

func (s *roundService) Answer(studentID, roundID uint, orderInRound int, option string) (*AnswerOutcome, error) {
	round, err := s.ownedRound(studentID, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != model.RoundInProgress {
		return nil, ErrRoundState
	}
	if option < "A" || option > "D" || len(option) != 1 {
		return nil, fmt.Errorf("option must be a letter A-D")
	}

	var question *model.RoundQuestion
	for i := range round.Questions {
		if round.Questions[i].OrderInRound == orderInRound {
			question = &round.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, fmt.Errorf("no question %d in round %d", orderInRound, roundID)
	}
	if question.ChosenOption != nil {
		return nil, ErrQuestionLocked
	}

	correct := option == question.CorrectOption
	locked, err := s.rounds.RecordAnswer(question.ID, option, correct)
	if err != nil {
		return nil, fmt.Errorf("recording answer: %w", err)
	}
	if !locked {
		return nil, ErrQuestionLocked
	}

	return &AnswerOutcome{
		QuestionID:    question.ID,
		OrderInRound:  orderInRound,
		Correct:       correct,
		CorrectOption: question.CorrectOption,
	}, nil
}

func (s *roundService) Submit(studentID, roundID uint, answers []string) (*RoundResult, error) {
	round, err := s.ownedRound(studentID, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != model.RoundInProgress {
		return nil, ErrRoundState
	}
	if len(answers) > 0 && len(answers) != len(round.Questions) {
		return nil, lexile.ErrLengthMismatch
	}

	now := s.now()
	elapsed := 0
	if round.StartedAt != nil {
		elapsed = int(now.Sub(*round.StartedAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
	}

	// One ordered answer list regardless of interaction shape: batch
	// answers fill unanswered questions, incremental choices stand.
	final := make([]string, len(round.Questions))
	evalQuestions := make([]lexile.EvalQuestion, len(round.Questions))
	for i, q := range round.Questions {
		evalQuestions[i] = lexile.EvalQuestion{Factor: q.Factor, CorrectOption: q.CorrectOption}
		switch {
		case q.ChosenOption != nil:
			final[i] = *q.ChosenOption
		case len(answers) > 0:
			final[i] = answers[i]
			correct := answers[i] == q.CorrectOption
			if _, err := s.rounds.RecordAnswer(q.ID, answers[i], correct); err != nil {
				return nil, fmt.Errorf("recording answer: %w", err)
			}
		}
	}

	evaluation, err := lexile.Evaluate(evalQuestions, final)
	if err != nil {
		return nil, err
	}

	for factor, delta := range evaluation.FactorDeltas {
		if delta == 0 {
			continue
		}
		_, crossed, err := s.factors.ApplyDelta(studentID, factor, delta)
		if err != nil {
			return nil, fmt.Errorf("applying factor delta: %w", err)
		}
		if crossed {
			f := factor
			entry := &model.XPEntry{
				StudentID: studentID,
				Amount:    masteryBonusXP,
				Kind:      model.XPKindMastery,
				RoundID:   &round.ID,
				Factor:    &f,
			}
			if err := s.ledger.Append(entry); err != nil {
				return nil, fmt.Errorf("appending mastery bonus: %w", err)
			}
			log.Info().Uint("studentID", studentID).Str("factor", factor).Msg("Factor mastered, bonus XP awarded")
		}
	}

	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student: %w", err)
	}

	levelBefore := student.LexileLevel
	levelAfter := lexile.Adjust(levelBefore, evaluation.Accuracy)
	floor, ceiling := lexile.RangeOf(levelAfter)
	rangeChanged := floor != student.RangeFloor || ceiling != student.RangeCeiling
	if err := s.students.UpdateLevelAndRange(studentID, levelAfter, floor, ceiling); err != nil {
		return nil, fmt.Errorf("updating level: %w", err)
	}

	xp := lexile.XPReward(evaluation.Accuracy, elapsed, len(round.Questions))

	streak := lexile.NextStreak(student.Streak, student.LastActivityDate, now)
	if err := s.students.UpdateStreak(studentID, streak, now); err != nil {
		return nil, fmt.Errorf("updating streak: %w", err)
	}

	round.Accuracy = &evaluation.Accuracy
	round.ElapsedSeconds = &elapsed
	round.XPPending = &xp
	round.LevelBefore = &levelBefore
	round.LevelAfter = &levelAfter
	round.RangeChanged = &rangeChanged
	if err := s.rounds.MarkEvaluated(round); err != nil {
		return nil, fmt.Errorf("marking round evaluated: %w", err)
	}

	log.Info().
		Uint("roundID", round.ID).
		Int("accuracy", evaluation.Accuracy).
		Int("xpPending", xp).
		Bool("rangeChanged", rangeChanged).
		Msg("Round evaluated")

	return &RoundResult{
		RoundID:      round.ID,
		Accuracy:     evaluation.Accuracy,
		ElapsedSecs:  elapsed,
		XPPending:    xp,
		LevelBefore:  levelBefore,
		LevelAfter:   levelAfter,
		RangeChanged: rangeChanged,
		RangeFloor:   floor,
		RangeCeiling: ceiling,
		Streak:       streak,
	}, nil
}

func (s *roundService) Claim(studentID, roundID uint) (*ClaimResult, error) {
	round, err := s.ownedRound(studentID, roundID)
	if err != nil {
		return nil, err
	}
	switch round.Status {
	case model.RoundEvaluated:
	case model.RoundClaimed:
		return nil, ErrAlreadyClaimed
	default:
		return nil, ErrRoundState
	}
	if round.XPPending == nil {
		return nil, ErrRoundState
	}

	entry := &model.XPEntry{
		StudentID: studentID,
		Amount:    *round.XPPending,
		Kind:      model.XPKindClaim,
		RoundID:   &round.ID,
	}
	claimed, err := s.rounds.Claim(round.ID, entry)
	if err != nil {
		// Round stays evaluated; the claim can be retried.
		return nil, fmt.Errorf("claiming round: %w", err)
	}
	if !claimed {
		return nil, ErrAlreadyClaimed
	}

	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student: %w", err)
	}

	// Every full 100 XP in the spendable balance converts to +1 level,
	// keeping the remainder.
	balance := student.XPBalance + *round.XPPending
	levelIncrease := balance / 100
	newLevel := student.LexileLevel
	rangeChanged := false
	if levelIncrease > 0 {
		newLevel += levelIncrease
		balance %= 100
		floor, ceiling := lexile.RangeOf(newLevel)
		rangeChanged = floor != student.RangeFloor || ceiling != student.RangeCeiling
		if err := s.students.UpdateLevelAndRange(studentID, newLevel, floor, ceiling); err != nil {
			return nil, fmt.Errorf("updating level after conversion: %w", err)
		}
	}
	if err := s.students.UpdateXPBalance(studentID, balance); err != nil {
		return nil, fmt.Errorf("updating XP balance: %w", err)
	}

	total, err := s.ledger.TotalFor(studentID)
	if err != nil {
		return nil, fmt.Errorf("summing ledger: %w", err)
	}

	log.Info().Uint("roundID", round.ID).Int("xp", *round.XPPending).Int("levelIncrease", levelIncrease).Msg("Round XP claimed")

	return &ClaimResult{
		RoundID:       round.ID,
		XPClaimed:     *round.XPPending,
		TotalXP:       total,
		XPBalance:     balance,
		LevelIncrease: levelIncrease,
		NewLevel:      newLevel,
		RangeChanged:  rangeChanged,
	}, nil
}

func (s *roundService) ownedRound(studentID, roundID uint) (*model.Round, error) {
	round, err := s.rounds.FindByIDWithQuestions(roundID)
	if err != nil {
		return nil, ErrRoundNotFound
	}
	if round.StudentID != studentID {
		return nil, ErrRoundNotFound
	}
	return round, nil
}
