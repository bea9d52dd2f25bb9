package lexile

// RangeWidth is the size of one leaderboard cohort bucket.
const RangeWidth = 100

// RangeOf maps a lexile level to its leaderboard bucket
// [floor, floor+100). Total over any non-negative level.
func RangeOf(level int) (floor, ceiling int) {
	floor = (level / RangeWidth) * RangeWidth
	return floor, floor + RangeWidth
}
