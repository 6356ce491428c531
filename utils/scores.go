package utils

// CompetitionRanks returns standard competition ranks ("1224") for scores already sorted
// in descending order: equal scores share a rank and the next rank skips ahead.
func CompetitionRanks(sorted []float64) []int {
	ranks := make([]int, len(sorted))
	for i, score := range sorted {
		if i > 0 && score == sorted[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
