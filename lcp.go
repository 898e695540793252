package suffixindex

// buildLCP builds the LCP array for data under sa using Kasai's algorithm
// in O(n) time. lcp[i] is the length of the longest common prefix of the
// suffixes at slots i and i+1.
func buildLCP(sa []int32, data []byte) []int {
	rank := make([]int, len(sa))
	for i := range sa {
		rank[sa[i]] = i
	}

	lcp := make([]int, len(sa)-1)
	l := 0
	for i := range sa {
		if rank[i]+1 == len(sa) {
			l = 0
			continue
		}
		j := int(sa[rank[i]+1])
		for i+l < len(data) && j+l < len(data) && data[i+l] == data[j+l] {
			l++
		}
		lcp[rank[i]] = l
		if l > 0 {
			l--
		}
	}

	return lcp
}
