package lexile

import "time"

// NextStreak computes the new consecutive-day streak given the previous
// streak and last-activity date. Same calendar day leaves the streak
// untouched (a second round today is a no-op), exactly one day later
// extends it, any larger gap or no prior activity restarts at 1.
func NextStreak(current int, lastActivity *time.Time, today time.Time) int {
	if lastActivity == nil {
		return 1
	}
	last := dateOnly(*lastActivity)
	day := dateOnly(today)
	switch {
	case last.Equal(day):
		return current
	case last.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
