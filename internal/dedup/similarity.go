package dedup

// longestCommonRun returns the length, in runes, of the longest common
// contiguous run shared by a and b.
func longestCommonRun(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	best := 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] != rb[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > best {
				best = curr[j]
			}
		}
		prev, curr = curr, prev
	}
	return best
}

// alignmentRatio scores whole-string similarity as twice the longest common
// subsequence over the combined length, the classic sequence-alignment
// ratio. 1 means identical, 0 means nothing shared.
func alignmentRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case curr[j-1] >= prev[j]:
				curr[j] = curr[j-1]
			default:
				curr[j] = prev[j]
			}
		}
		copy(prev, curr)
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}
