package resolve

// Ratio returns the normalized Indel similarity of a and b in the range 0–100.
// The Indel distance counts insertions and deletions only, so the score is
// 200 * LCS(a, b) / (len(a) + len(b)) measured in runes.
//
// Postcondition: Ratio(a, a) == 100; Ratio(a, "") == 0 for non-empty a.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(ra, rb)) / float64(total)
}

// lcsLength computes the longest common subsequence length using two rows.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[i] = prev[i-1] + 1
			case prev[i] >= curr[i-1]:
				curr[i] = prev[i]
			default:
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
