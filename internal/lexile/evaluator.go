package lexile

import "errors"

// ErrLengthMismatch means the answer list does not line up with the
// question list. The orchestrator's own state machine should make this
// impossible; the evaluator guards it anyway.
var ErrLengthMismatch = errors.New("answer count does not match question count")

// EvalQuestion is the evaluator's view of one round question.
type EvalQuestion struct {
	Factor        string // label as generated, resolved via MatchFactor
	CorrectOption string // "A".."D"
}

// Evaluation is the outcome of scoring one full round.
type Evaluation struct {
	FactorDeltas map[string]int // per-factor ±1 sums, not yet clamped
	CorrectCount int
	Total        int // questions that resolved to a known factor
	Accuracy     int // percentage, 0 when Total is 0
}

// Evaluate scores a completed round. Each answered question moves its
// factor's delta by +1 (correct) or -1 (wrong). Questions whose factor
// label matches nothing in the vocabulary are skipped entirely: they count
// toward neither the correct count nor the total, so a fully mislabeled
// round evaluates to 0% rather than failing.
func Evaluate(questions []EvalQuestion, answers []string) (Evaluation, error) {
	if len(questions) != len(answers) {
		return Evaluation{}, ErrLengthMismatch
	}

	ev := Evaluation{FactorDeltas: make(map[string]int, len(Factors))}
	for _, f := range Factors {
		ev.FactorDeltas[f] = 0
	}

	for i, q := range questions {
		factor, ok := MatchFactor(q.Factor)
		if !ok {
			continue
		}
		ev.Total++
		if answers[i] == q.CorrectOption {
			ev.FactorDeltas[factor]++
			ev.CorrectCount++
		} else {
			ev.FactorDeltas[factor]--
		}
	}

	if ev.Total > 0 {
		ev.Accuracy = ev.CorrectCount * 100 / ev.Total
	}
	return ev, nil
}
