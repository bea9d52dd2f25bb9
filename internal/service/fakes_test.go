package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the conditional-update semantics
// of the real implementations (answer locking, status guards, the claim
// transaction) so the orchestrator tests exercise the same state machine.

type fakeStudentRepo struct {
	students map[uint]*model.Student
	nextID   uint
	factors  *fakeFactorRepo // seeded rows land here when set
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uint]*model.Student), nextID: 1}
}

func (f *fakeStudentRepo) Create(student *model.Student, factors []model.FactorScore) error {
	for _, s := range f.students {
		if s.StudentID == student.StudentID {
			return fmt.Errorf("duplicate student_id %q", student.StudentID)
		}
	}
	student.ID = f.nextID
	f.nextID++
	cp := *student
	f.students[student.ID] = &cp
	if f.factors != nil {
		for _, fs := range factors {
			f.factors.set(student.ID, fs.Factor, fs.Score)
		}
	}
	return nil
}

func (f *fakeStudentRepo) FindByID(id uint) (*model.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentRepo) FindByStudentID(studentID string) (*model.Student, error) {
	for _, s := range f.students {
		if s.StudentID == studentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) UpdateLevelAndRange(id uint, level, floor, ceiling int) error {
	s, ok := f.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.LexileLevel = level
	s.RangeFloor = floor
	s.RangeCeiling = ceiling
	return nil
}

func (f *fakeStudentRepo) UpdateStreak(id uint, streak int, lastActivity time.Time) error {
	s, ok := f.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Streak = streak
	la := lastActivity
	s.LastActivityDate = &la
	return nil
}

func (f *fakeStudentRepo) UpdateXPBalance(id uint, balance int) error {
	s, ok := f.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.XPBalance = balance
	return nil
}

func (f *fakeStudentRepo) FindByLevelRange(floor, ceiling int) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.students {
		if s.LexileLevel >= floor && s.LexileLevel < ceiling {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeFactorRepo struct {
	scores map[uint]map[string]int
}

func newFakeFactorRepo() *fakeFactorRepo {
	return &fakeFactorRepo{scores: make(map[uint]map[string]int)}
}

func (f *fakeFactorRepo) set(studentID uint, factor string, score int) {
	if f.scores[studentID] == nil {
		f.scores[studentID] = make(map[string]int)
	}
	f.scores[studentID][factor] = score
}

func (f *fakeFactorRepo) ScoresFor(studentID uint) (map[string]int, error) {
	out := make(map[string]int, len(f.scores[studentID]))
	for k, v := range f.scores[studentID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeFactorRepo) ApplyDelta(studentID uint, factor string, delta int) (int, bool, error) {
	rows, ok := f.scores[studentID]
	if !ok {
		return 0, false, gorm.ErrRecordNotFound
	}
	old, ok := rows[factor]
	if !ok {
		return 0, false, gorm.ErrRecordNotFound
	}
	score := old + delta
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	rows[factor] = score
	return score, old < 100 && score == 100, nil
}

type fakeXPRepo struct {
	entries []model.XPEntry
	nextID  uint
}

func newFakeXPRepo() *fakeXPRepo {
	return &fakeXPRepo{nextID: 1}
}

func (f *fakeXPRepo) Append(entry *model.XPEntry) error {
	entry.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeXPRepo) TotalFor(studentID uint) (int, error) {
	total := 0
	for _, e := range f.entries {
		if e.StudentID == studentID {
			total += e.Amount
		}
	}
	return total, nil
}

func (f *fakeXPRepo) SumByStudents(studentIDs []uint) (map[uint]int, error) {
	want := make(map[uint]bool, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = true
	}
	sums := make(map[uint]int)
	for _, e := range f.entries {
		if want[e.StudentID] {
			sums[e.StudentID] += e.Amount
		}
	}
	return sums, nil
}

func (f *fakeXPRepo) entriesOfKind(kind string) []model.XPEntry {
	var out []model.XPEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type fakeRoundRepo struct {
	rounds    map[uint]*model.Round
	nextRound uint
	nextQ     uint
	ledger    *fakeXPRepo
}

func newFakeRoundRepo(ledger *fakeXPRepo) *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[uint]*model.Round), nextRound: 1, nextQ: 1, ledger: ledger}
}

func copyRound(r *model.Round) *model.Round {
	cp := *r
	cp.Questions = make([]model.RoundQuestion, len(r.Questions))
	copy(cp.Questions, r.Questions)
	return &cp
}

func (f *fakeRoundRepo) Create(round *model.Round) error {
	round.ID = f.nextRound
	f.nextRound++
	for i := range round.Questions {
		round.Questions[i].ID = f.nextQ
		round.Questions[i].RoundID = round.ID
		f.nextQ++
	}
	f.rounds[round.ID] = copyRound(round)
	return nil
}

func (f *fakeRoundRepo) FindByIDWithQuestions(id uint) (*model.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := copyRound(r)
	sort.Slice(cp.Questions, func(i, j int) bool {
		return cp.Questions[i].OrderInRound < cp.Questions[j].OrderInRound
	})
	return cp, nil
}

func (f *fakeRoundRepo) RecordAnswer(questionID uint, chosen string, correct bool) (bool, error) {
	for _, r := range f.rounds {
		for i := range r.Questions {
			q := &r.Questions[i]
			if q.ID != questionID {
				continue
			}
			if q.ChosenOption != nil {
				return false, nil
			}
			c, ok := chosen, correct
			q.ChosenOption = &c
			q.Correct = &ok
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoundRepo) MarkEvaluated(round *model.Round) error {
	stored, ok := f.rounds[round.ID]
	if !ok || stored.Status != model.RoundInProgress {
		return nil
	}
	stored.Status = model.RoundEvaluated
	stored.Accuracy = round.Accuracy
	stored.ElapsedSeconds = round.ElapsedSeconds
	stored.XPPending = round.XPPending
	stored.LevelBefore = round.LevelBefore
	stored.LevelAfter = round.LevelAfter
	stored.RangeChanged = round.RangeChanged
	return nil
}

func (f *fakeRoundRepo) Claim(roundID uint, entry *model.XPEntry) (bool, error) {
	stored, ok := f.rounds[roundID]
	if !ok || stored.Status != model.RoundEvaluated {
		return false, nil
	}
	stored.Status = model.RoundClaimed
	return true, f.ledger.Append(entry)
}

type stubContentService struct {
	content   string
	questions []GeneratedQuestion
	err       error
	calls     int
}

func (s *stubContentService) Generate(ctx context.Context, age int, topic string, targetLevel int, factorScores map[string]int) (string, []GeneratedQuestion, error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	return s.content, s.questions, nil
}
