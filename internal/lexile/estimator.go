package lexile

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrNoBandMatch is returned when an age falls outside every supported
// band. Callers must reject the input; defaulting silently would corrupt
// leaderboard bucketing.
var ErrNoBandMatch = errors.New("age outside all supported lexile bands")

type ageBand struct {
	minAge, maxAge int // half-open [minAge, maxAge)
	low, high      int
}

var ageBands = []ageBand{
	{5, 8, 200, 500},
	{8, 10, 400, 700},
	{10, 12, 600, 900},
	{12, 14, 800, 1100},
	{14, 16, 1000, 1300},
	{16, 19, 1200, 1600},
}

// InitialLevel picks a starting lexile level for a new student: uniform
// random within the band matching the age.
func InitialLevel(age int) (int, error) {
	for _, b := range ageBands {
		if age >= b.minAge && age < b.maxAge {
			return b.low + rand.Intn(b.high-b.low+1), nil
		}
	}
	return 0, ErrNoBandMatch
}

// Adjust moves a lexile estimate after a round. Deliberately coarse:
// >=70% correct steps up by 10, <=30% steps down by 10 (never below 0),
// anything in between leaves the estimate unchanged.
func Adjust(current, percentageCorrect int) int {
	switch {
	case percentageCorrect >= 70:
		return current + 10
	case percentageCorrect <= 30:
		if current < 10 {
			return 0
		}
		return current - 10
	default:
		return current
	}
}

// ScaleDisplay renders a textual scale around the current level, the
// current position bracketed: "100L 150L [200L] 250L".
func ScaleDisplay(current int) string {
	start := current - 500
	if start < 0 {
		start = 0
	}
	var parts []string
	for level := start; level <= current; level += 50 {
		if level == current {
			parts = append(parts, fmt.Sprintf("[%dL]", level))
		} else {
			parts = append(parts, fmt.Sprintf("%dL", level))
		}
	}
	return strings.Join(parts, " ")
}
