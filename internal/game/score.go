package game

// DefaultAggregationDuration is assumed when an answer event carries a
// missing or invalid timer duration.
const DefaultAggregationDuration = 20

// TimeBonus is the score fraction proportional to remaining time, clamped to
// [0, 1]. A non-positive duration yields no bonus.
func TimeBonus(secondsRemaining, duration int) float64 {
	if duration <= 0 {
		return 0
	}
	bonus := float64(secondsRemaining) / float64(duration)
	if bonus < 0 {
		return 0
	}
	if bonus > 1 {
		return 1
	}
	return bonus
}

// PointsEarned applies the scoring rule for a single answer: a correct answer
// is worth 1 plus the time bonus, a wrong one is worth nothing. The result is
// always in [0, 2].
func PointsEarned(correct bool, secondsRemaining, duration int) float64 {
	if !correct {
		return 0
	}
	return 1 + TimeBonus(secondsRemaining, duration)
}
