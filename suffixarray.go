package suffixindex

import (
	"errors"
	"math"
	"sort"
)

var ErrTooLarge = errors.New("suffixindex: data does not fit in 32-bit positions")

// BuildSuffixArray is the default BuildFunc. It sorts suffixes by prefix
// doubling: ranks over prefixes of length k are combined pairwise into
// ranks over length 2k until all suffixes are distinguished, O(n log^2 n)
// overall. For very large buffers plug in a linear-time SA-IS builder via
// IndexBuilder.SuffixArrayFunc instead.
func BuildSuffixArray(data []byte) ([]int32, error) {
	n := len(data)
	if n > math.MaxInt32 {
		return nil, ErrTooLarge
	}

	sa := make([]int, n)
	rank := make([]int, n)
	next := make([]int, n)
	for i := 0; i < n; i++ {
		sa[i] = i
		rank[i] = int(data[i])
	}

	for k := 1; k < n; k *= 2 {
		// Rank of the suffix k bytes further in, with suffixes shorter
		// than k sorting first.
		rankAt := func(i int) int {
			if i < n {
				return rank[i]
			}
			return -1
		}
		sort.Slice(sa, func(a, b int) bool {
			x, y := sa[a], sa[b]
			if rank[x] != rank[y] {
				return rank[x] < rank[y]
			}
			return rankAt(x+k) < rankAt(y+k)
		})

		next[sa[0]] = 0
		for i := 1; i < n; i++ {
			x, y := sa[i-1], sa[i]
			next[y] = next[x]
			if rank[x] != rank[y] || rankAt(x+k) != rankAt(y+k) {
				next[y]++
			}
		}
		copy(rank, next)
		if rank[sa[n-1]] == n-1 {
			break
		}
	}

	out := make([]int32, n)
	for i, p := range sa {
		out[i] = int32(p)
	}
	return out, nil
}
