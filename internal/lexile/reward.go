package lexile

// XP amounts and pacing constants for the reward calculation.
const (
	perfectBonusXP        = 10
	maxTimeBonusXP        = 10
	avgSecondsPerQuestion = 5
)

// XPReward computes the XP for a round from accuracy (0-100), elapsed
// seconds and the number of questions. Pure; never fails. Base XP is
// tiered by accuracy, a perfect round adds a flat bonus, and finishing
// under the expected pace (5s per question) earns up to 10 more.
func XPReward(accuracy, elapsedSeconds, questionCount int) int {
	var xp int
	switch {
	case accuracy < 20:
		xp = 0
	case accuracy < 40:
		xp = 5
	case accuracy < 60:
		xp = 10
	case accuracy < 80:
		xp = 15
	default:
		xp = 20
	}

	if accuracy == 100 {
		xp += perfectBonusXP
	}

	expected := avgSecondsPerQuestion * questionCount
	if elapsedSeconds < expected {
		bonus := (expected - elapsedSeconds) / 10
		if bonus > maxTimeBonusXP {
			bonus = maxTimeBonusXP
		}
		xp += bonus
	}
	return xp
}
