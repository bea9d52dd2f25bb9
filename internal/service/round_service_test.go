package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type roundFixture struct {
	students *fakeStudentRepo
	factors  *fakeFactorRepo
	rounds   *fakeRoundRepo
	ledger   *fakeXPRepo
	content  *stubContentService
	svc      *roundService
	student  *model.Student
}

// newRoundFixture wires the orchestrator against in-memory repositories
// and a stub generator whose five questions all have correct answer A.
func newRoundFixture(t *testing.T) *roundFixture {
	t.Helper()

	students := newFakeStudentRepo()
	factors := newFakeFactorRepo()
	students.factors = factors
	ledger := newFakeXPRepo()
	rounds := newFakeRoundRepo(ledger)

	student := &model.Student{
		PublicID:     "pid-1",
		StudentID:    "sam",
		PasswordHash: "x",
		Name:         "Sam",
		Age:          10,
		LexileLevel:  700,
		RangeFloor:   700,
		RangeCeiling: 800,
	}
	seed := make([]model.FactorScore, 0, len(lexile.Factors))
	for _, f := range lexile.Factors {
		seed = append(seed, model.FactorScore{Factor: f})
	}
	require.NoError(t, students.Create(student, seed))

	questions := make([]GeneratedQuestion, 0, 5)
	for i := 0; i < 5; i++ {
		questions = append(questions, GeneratedQuestion{
			Text:          "question",
			Options:       [4]string{"right", "wrong", "wrong", "wrong"},
			CorrectOption: "A",
			Factor:        lexile.Factors[i],
		})
	}
	content := &stubContentService{content: "A short passage.", questions: questions}

	svc := &roundService{
		rounds:   rounds,
		students: students,
		factors:  factors,
		ledger:   ledger,
		content:  content,
		now:      func() time.Time { return testTime },
	}

	return &roundFixture{
		students: students,
		factors:  factors,
		rounds:   rounds,
		ledger:   ledger,
		content:  content,
		svc:      svc,
		student:  student,
	}
}

func (f *roundFixture) startRound(t *testing.T) *model.Round {
	t.Helper()
	round, err := f.svc.Start(context.Background(), f.student.ID, "Animals and Wildlife", "Medium")
	require.NoError(t, err)
	return round
}

func TestStartRoundCreatesQuestions(t *testing.T) {
	f := newRoundFixture(t)

	round := f.startRound(t)

	assert.Equal(t, model.RoundInProgress, round.Status)
	assert.Equal(t, 800, round.TargetLevel)
	assert.Equal(t, "A short passage.", round.Content)
	require.Len(t, round.Questions, 5)
	for i, q := range round.Questions {
		assert.Equal(t, i+1, q.OrderInRound)
		assert.Equal(t, lexile.Factors[i], q.Factor)
	}
	require.NotNil(t, round.StartedAt)
	assert.True(t, round.StartedAt.Equal(testTime))
}

func TestStartRoundUnknownDifficulty(t *testing.T) {
	f := newRoundFixture(t)

	_, err := f.svc.Start(context.Background(), f.student.ID, "Animals and Wildlife", "Brutal")
	assert.Error(t, err)
}

func TestStartRoundContentFailure(t *testing.T) {
	f := newRoundFixture(t)
	f.content.err = ErrContentGeneration

	_, err := f.svc.Start(context.Background(), f.student.ID, "Animals and Wildlife", "Easy")
	assert.ErrorIs(t, err, ErrContentGeneration)
	assert.Equal(t, 1, f.content.calls, "the provider does its own retries; the orchestrator calls once")
}

func TestStartRoundRejectsWrongQuestionCount(t *testing.T) {
	f := newRoundFixture(t)
	f.content.questions = f.content.questions[:3]

	_, err := f.svc.Start(context.Background(), f.student.ID, "Animals and Wildlife", "Easy")
	assert.ErrorIs(t, err, ErrContentGeneration)
}

func TestSubmitPerfectRound(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	assert.Equal(t, 100, result.Accuracy)
	assert.Equal(t, 0, result.ElapsedSecs)
	assert.Equal(t, lexile.XPReward(100, 0, 5), result.XPPending)
	assert.Equal(t, 700, result.LevelBefore)
	assert.Equal(t, 710, result.LevelAfter)
	assert.False(t, result.RangeChanged)
	assert.Equal(t, 1, result.Streak)

	stored, err := f.rounds.FindByIDWithQuestions(round.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoundEvaluated, stored.Status)
	require.NotNil(t, stored.XPPending)
	assert.Equal(t, result.XPPending, *stored.XPPending)

	// Pending XP must not touch the ledger until the claim.
	total, err := f.ledger.TotalFor(f.student.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	scores, err := f.factors.ScoresFor(f.student.ID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, scores[lexile.Factors[i]])
	}
}

func TestSubmitAnswerCountMismatch(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	_, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "B"})
	assert.ErrorIs(t, err, lexile.ErrLengthMismatch)
}

func TestSubmitTwice(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	_, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	_, err = f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	assert.ErrorIs(t, err, ErrRoundState)
}

func TestSubmitKeepsIncrementalChoices(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	// Question 1 answered wrong in incremental mode; a later batch submit
	// with "all A" must not overwrite the locked choice.
	outcome, err := f.svc.Answer(f.student.ID, round.ID, 1, "B")
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.Equal(t, "A", outcome.CorrectOption)

	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	assert.Equal(t, 80, result.Accuracy)
	assert.Equal(t, lexile.XPReward(80, 0, 5), result.XPPending)

	scores, err := f.factors.ScoresFor(f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, scores[lexile.Factors[0]], "wrong answer clamps at the 0 floor")
	assert.Equal(t, 1, scores[lexile.Factors[1]])
}

func TestAnswerLocksQuestion(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	_, err := f.svc.Answer(f.student.ID, round.ID, 3, "A")
	require.NoError(t, err)

	_, err = f.svc.Answer(f.student.ID, round.ID, 3, "B")
	assert.ErrorIs(t, err, ErrQuestionLocked)
}

func TestAnswerRejectsBadOption(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	_, err := f.svc.Answer(f.student.ID, round.ID, 1, "E")
	assert.Error(t, err)
}

func TestClaimBanksXPOnce(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)
	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	claim, err := f.svc.Claim(f.student.ID, round.ID)
	require.NoError(t, err)
	assert.Equal(t, result.XPPending, claim.XPClaimed)
	assert.Equal(t, result.XPPending, claim.TotalXP)
	assert.Equal(t, result.XPPending, claim.XPBalance)
	assert.Zero(t, claim.LevelIncrease)

	_, err = f.svc.Claim(f.student.ID, round.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	assert.Len(t, f.ledger.entriesOfKind(model.XPKindClaim), 1)
}

func TestClaimBeforeSubmit(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)

	_, err := f.svc.Claim(f.student.ID, round.ID)
	assert.ErrorIs(t, err, ErrRoundState)
}

func TestClaimConvertsBalanceToLevel(t *testing.T) {
	f := newRoundFixture(t)
	round := f.startRound(t)
	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)
	require.Equal(t, 32, result.XPPending)

	// 90 banked + 32 claimed = 122: one full hundred converts to a level.
	require.NoError(t, f.students.UpdateXPBalance(f.student.ID, 90))

	claim, err := f.svc.Claim(f.student.ID, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, claim.LevelIncrease)
	assert.Equal(t, 22, claim.XPBalance)
	assert.Equal(t, result.LevelAfter+1, claim.NewLevel)

	stored, err := f.students.FindByID(f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.NewLevel, stored.LexileLevel)
	assert.Equal(t, 22, stored.XPBalance)
}

func TestSubmitMasteryBonus(t *testing.T) {
	f := newRoundFixture(t)
	f.factors.set(f.student.ID, lexile.Factors[0], 99)
	round := f.startRound(t)

	_, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	scores, err := f.factors.ScoresFor(f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, scores[lexile.Factors[0]])

	mastery := f.ledger.entriesOfKind(model.XPKindMastery)
	require.Len(t, mastery, 1)
	assert.Equal(t, masteryBonusXP, mastery[0].Amount)
	require.NotNil(t, mastery[0].Factor)
	assert.Equal(t, lexile.Factors[0], *mastery[0].Factor)
}

func TestSubmitRangeTransition(t *testing.T) {
	f := newRoundFixture(t)
	require.NoError(t, f.students.UpdateLevelAndRange(f.student.ID, 795, 700, 800))
	round := f.startRound(t)

	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "A", "A", "A", "A"})
	require.NoError(t, err)

	assert.Equal(t, 805, result.LevelAfter)
	assert.True(t, result.RangeChanged)
	assert.Equal(t, 800, result.RangeFloor)
	assert.Equal(t, 900, result.RangeCeiling)
}

func TestSubmitExtendsStreak(t *testing.T) {
	f := newRoundFixture(t)
	yesterday := testTime.Add(-24 * time.Hour)
	require.NoError(t, f.students.UpdateStreak(f.student.ID, 3, yesterday))
	round := f.startRound(t)

	result, err := f.svc.Submit(f.student.ID, round.ID, []string{"A", "B", "B", "B", "B"})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Streak)
}

func TestRoundsAreOwnerScoped(t *testing.T) {
	f := newRoundFixture(t)
	other := &model.Student{PublicID: "pid-2", StudentID: "kim", PasswordHash: "x", Name: "Kim", Age: 10, LexileLevel: 700, RangeFloor: 700, RangeCeiling: 800}
	require.NoError(t, f.students.Create(other, nil))
	round := f.startRound(t)

	_, err := f.svc.Get(other.ID, round.ID)
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = f.svc.Submit(other.ID, round.ID, nil)
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = f.svc.Claim(other.ID, round.ID)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}
