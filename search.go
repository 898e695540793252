package suffixindex

import (
	"bytes"
	"sort"
)

// compareSuffix ranks the suffix of data starting at pos against needle.
// Only the first len(needle) bytes of the suffix matter: a longer suffix
// whose prefix equals needle ranks equal. A suffix that runs out of bytes
// before needle does ranks less, which keeps the run of matching slots
// contiguous in the suffix array.
func compareSuffix(data []byte, pos int, needle []byte) int {
	suf := data[pos:]
	m := min(len(suf), len(needle))
	if c := bytes.Compare(suf[:m], needle); c != 0 {
		return c
	}
	if len(suf) < len(needle) {
		return -1
	}
	return 0
}

// bounds returns the half-open run [lo, hi) of suffix-array slots whose
// suffixes start with needle. lo == hi means no occurrence.
func (s *Index) bounds(needle []byte) (int, int) {
	if s.lcp != nil {
		return s.lcpBounds(needle)
	}
	n := len(s.sa)
	lo := sort.Search(n, func(i int) bool {
		return compareSuffix(s.data, int(s.sa[i]), needle) >= 0
	})
	hi := lo + sort.Search(n-lo, func(i int) bool {
		return compareSuffix(s.data, int(s.sa[lo+i]), needle) > 0
	})
	return lo, hi
}

// lcpBounds is bounds with the matched prefix length carried across binary
// search probes. A range-minimum query over the LCP array tells how many
// leading bytes a new probe shares with the previous one, so each byte of
// needle is compared at most once per direction.
func (s *Index) lcpBounds(needle []byte) (int, int) {
	n := len(s.sa)
	prev, matched := -1, 0

	// Reports whether needle <= the suffix at slot i, extending the match
	// from the matched bytes already verified against slot prev.
	extend := func(i int) bool {
		pos := int(s.sa[i])
		for matched < len(needle) && pos+matched < len(s.data) && needle[matched] == s.data[pos+matched] {
			matched++
		}
		prev = i
		if matched == len(needle) {
			return true
		}
		if pos+matched == len(s.data) {
			return false
		}
		return needle[matched] < s.data[pos+matched]
	}

	lo := sort.Search(n, func(i int) bool {
		if prev == -1 {
			return extend(i)
		}
		common := s.lcp[s.lcpRMQ.Query(min(prev, i), max(prev, i)-1)]
		if common < matched {
			// Slot i diverges from needle before the verified prefix ends,
			// on the side of prev it sits on.
			return i > prev
		}
		return extend(i)
	})
	if lo == n || matched < len(needle) {
		return lo, lo
	}

	// Slot lo starts with needle; the run ends at the first slot whose
	// common prefix with lo drops below len(needle).
	hi := lo + sort.Search(n-lo, func(i int) bool {
		if i == 0 {
			return false
		}
		return s.lcp[s.lcpRMQ.Query(lo, lo+i-1)] < len(needle)
	})
	return lo, hi
}

// Count returns the number of occurrences of needle in the indexed buffer.
// An empty needle counts zero occurrences.
func (s *Index) Count(needle []byte) (int, error) {
	if s == nil || s.closed {
		return 0, ErrClosed
	}
	if len(needle) == 0 {
		return 0, nil
	}
	lo, hi := s.bounds(needle)
	return hi - lo, nil
}

// Find returns the start offset of every occurrence of needle.
//
// Offsets are ordered by suffix-array rank (lexicographic order of the
// matched suffixes), not by position. Sort the result if you need
// ascending positions.
func (s *Index) Find(needle []byte) ([]int, error) {
	return s.FindRange(needle, 0, -1, 0)
}

// FindRange returns the start offsets of occurrences of needle whose span
// lies entirely inside the byte window [start, end), at most max of them.
// end values below 0 or past the buffer mean the buffer end; max <= 0
// means no cap. An inverted window or an empty needle yields an empty
// result without error.
//
// Offsets are ordered by suffix-array rank, as with Find.
func (s *Index) FindRange(needle []byte, start, end, max int) ([]int, error) {
	if s == nil || s.closed {
		return nil, ErrClosed
	}
	if len(needle) == 0 {
		return nil, nil
	}
	if end < 0 || end > len(s.data) {
		end = len(s.data)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil, nil
	}

	lo, hi := s.bounds(needle)
	if lo == hi {
		return nil, nil
	}
	limit := hi - lo
	if max > 0 && max < limit {
		limit = max
	}

	out := make([]int, 0, limit)
	for i := lo; i < hi && len(out) < limit; i++ {
		pos := int(s.sa[i])
		if pos >= start && pos+len(needle) <= end {
			out = append(out, pos)
		}
	}
	return out, nil
}
