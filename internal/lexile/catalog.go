package lexile

import "strings"

// Factors is the fixed set of reading sub-skills tracked per student.
// Every generated question is tagged with exactly one of these.
var Factors = []string{
	"Reading Comprehension",
	"Vocabulary",
	"Inference Skills",
	"Main Idea Identification",
	"Detail Identification",
	"Text Structure",
	"Context Clues",
	"Summarization",
	"Analyzing Arguments",
	"Making Predictions",
}

// Topics available for passage generation.
var Topics = []string{
	"Science and Technology", "History and Culture", "Nature and Environment",
	"Sports and Fitness", "Arts and Literature", "Space and Astronomy",
	"Animals and Wildlife", "World Geography", "Famous People and Biographies",
	"Mythology and Folklore", "Inventions and Discoveries", "Music and Entertainment",
	"Food and Nutrition", "Human Body and Health", "Computers and Coding",
}

// Difficulties a student can pick when starting a round.
var Difficulties = []string{"Easy", "Medium", "Hard"}

var difficultyRanges = map[string][2]int{
	"Easy":   {200, 600},
	"Medium": {600, 1000},
	"Hard":   {1000, 1600},
}

// DifficultyRange returns the lexile range for a difficulty name, or
// ok=false for an unknown difficulty.
func DifficultyRange(difficulty string) (low, high int, ok bool) {
	r, ok := difficultyRanges[difficulty]
	if !ok {
		return 0, 0, false
	}
	return r[0], r[1], true
}

// TargetLevel is the content level a round aims at: the midpoint of the
// difficulty's lexile range.
func TargetLevel(difficulty string) (int, bool) {
	low, high, ok := DifficultyRange(difficulty)
	if !ok {
		return 0, false
	}
	return (low + high) / 2, true
}

// MatchFactor resolves a factor label against the fixed vocabulary.
// Generated content sometimes carries numbering ("3. Vocabulary") or stray
// whitespace, so after stripping those an exact match is tried first, then
// case-insensitive substring containment. ok=false means the label matches
// nothing and the question must be skipped.
func MatchFactor(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if i := strings.Index(label, ". "); i >= 0 {
		label = label[i+2:]
	}
	for _, f := range Factors {
		if f == label {
			return f, true
		}
	}
	lower := strings.ToLower(label)
	for _, f := range Factors {
		if strings.Contains(lower, strings.ToLower(f)) {
			return f, true
		}
	}
	return "", false
}
