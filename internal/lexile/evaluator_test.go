package lexile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveQuestions() []EvalQuestion {
	return []EvalQuestion{
		{Factor: "Vocabulary", CorrectOption: "A"},
		{Factor: "Inference Skills", CorrectOption: "B"},
		{Factor: "Main Idea Identification", CorrectOption: "C"},
		{Factor: "Context Clues", CorrectOption: "D"},
		{Factor: "Summarization", CorrectOption: "A"},
	}
}

func TestEvaluateAllCorrect(t *testing.T) {
	ev, err := Evaluate(fiveQuestions(), []string{"A", "B", "C", "D", "A"})
	require.NoError(t, err)
	assert.Equal(t, 100, ev.Accuracy)
	assert.Equal(t, 5, ev.CorrectCount)
	assert.Equal(t, 5, ev.Total)
	assert.Equal(t, 1, ev.FactorDeltas["Vocabulary"])
	assert.Equal(t, 1, ev.FactorDeltas["Summarization"])
	assert.Equal(t, 0, ev.FactorDeltas["Text Structure"])
}

func TestEvaluateMixed(t *testing.T) {
	ev, err := Evaluate(fiveQuestions(), []string{"A", "C", "C", "A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, ev.CorrectCount)
	assert.Equal(t, 40, ev.Accuracy)
	assert.Equal(t, 1, ev.FactorDeltas["Vocabulary"])
	assert.Equal(t, -1, ev.FactorDeltas["Inference Skills"])
	assert.Equal(t, -1, ev.FactorDeltas["Context Clues"])
}

func TestEvaluateNumberedAndFuzzyLabels(t *testing.T) {
	questions := []EvalQuestion{
		{Factor: "3. Vocabulary", CorrectOption: "A"},
		{Factor: "  making predictions ", CorrectOption: "B"},
		{Factor: "Detail Identification skills", CorrectOption: "C"},
	}
	ev, err := Evaluate(questions, []string{"A", "B", "D"})
	require.NoError(t, err)
	assert.Equal(t, 3, ev.Total)
	assert.Equal(t, 2, ev.CorrectCount)
	assert.Equal(t, 1, ev.FactorDeltas["Vocabulary"])
	assert.Equal(t, 1, ev.FactorDeltas["Making Predictions"])
	assert.Equal(t, -1, ev.FactorDeltas["Detail Identification"])
}

func TestEvaluateSkipsUnknownFactors(t *testing.T) {
	questions := []EvalQuestion{
		{Factor: "Vocabulary", CorrectOption: "A"},
		{Factor: "Quantum Mechanics", CorrectOption: "B"},
	}
	ev, err := Evaluate(questions, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Total)
	assert.Equal(t, 1, ev.CorrectCount)
	assert.Equal(t, 100, ev.Accuracy)
}

func TestEvaluateEmptyIsZeroNotError(t *testing.T) {
	ev, err := Evaluate(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Accuracy)
	assert.Equal(t, 0, ev.Total)
}

func TestEvaluateLengthMismatch(t *testing.T) {
	_, err := Evaluate(fiveQuestions(), []string{"A", "B"})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
