package suffixindex

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildVariants builds the index once per configuration so every query test
// runs against both the accelerated and the plain boundary search.
func buildVariants(t *testing.T, data []byte) map[string]*Index {
	t.Helper()
	full, err := New(data)
	require.NoError(t, err)
	noLCP, err := NewBuilder(data).SkipLCP().Build()
	require.NoError(t, err)
	return map[string]*Index{"full": full, "no_lcp": noLCP}
}

func naiveFind(data, needle []byte, start, end int) []int {
	if end < 0 || end > len(data) {
		end = len(data)
	}
	if start < 0 {
		start = 0
	}
	var res []int
	if len(needle) == 0 {
		return res
	}
	for p := start; p+len(needle) <= end; p++ {
		if bytes.Equal(data[p:p+len(needle)], needle) {
			res = append(res, p)
		}
	}
	return res
}

func TestCountAndFind(t *testing.T) {
	tests := map[string]struct {
		data, needle string
		count        int
		positions    []int // ascending
	}{
		"banana an": {
			data: "banana", needle: "an",
			count: 2, positions: []int{1, 3},
		},
		"aaaa aa": {
			data: "aaaa", needle: "aa",
			count: 3, positions: []int{0, 1, 2},
		},
		"no occurrence": {
			data: "hello", needle: "xyz",
			count: 0,
		},
		"single byte data": {
			data: "a", needle: "a",
			count: 1, positions: []int{0},
		},
		"needle equals data": {
			data: "banana", needle: "banana",
			count: 1, positions: []int{0},
		},
		"needle longer than data": {
			data: "ab", needle: "abc",
			count: 0,
		},
		"empty needle": {
			data: "banana", needle: "",
			count: 0,
		},
		"overlapping occurrences": {
			data: "abababa", needle: "aba",
			count: 3, positions: []int{0, 2, 4},
		},
		"occurrence at end": {
			data: "abcabc", needle: "bc",
			count: 2, positions: []int{1, 4},
		},
		"binary bytes": {
			data: "\x00\xff\x00\xff", needle: "\x00\xff",
			count: 2, positions: []int{0, 2},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for vname, idx := range buildVariants(t, []byte(tc.data)) {
				count, err := idx.Count([]byte(tc.needle))
				require.NoError(t, err)
				assert.Equal(t, tc.count, count, "%s: count", vname)

				got, err := idx.Find([]byte(tc.needle))
				require.NoError(t, err)
				assert.Len(t, got, tc.count, "%s: result size", vname)
				sort.Ints(got)
				assert.Equal(t, tc.positions, got, "%s: positions", vname)
			}
		})
	}
}

// Find returns offsets in suffix-array rank order, not positional order.
// For "banana" the matching suffixes sort "ana" (3) before "anana" (1),
// so the result is [3, 1]. This ordering is part of the contract.
func TestFindRankOrder(t *testing.T) {
	for vname, idx := range buildVariants(t, []byte("banana")) {
		got, err := idx.Find([]byte("an"))
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, got, vname)
	}

	for vname, idx := range buildVariants(t, []byte("aaaa")) {
		got, err := idx.Find([]byte("aa"))
		require.NoError(t, err)
		// "aa" < "aaa" < "aaaa", so later positions rank first.
		assert.Equal(t, []int{2, 1, 0}, got, vname)
	}
}

func TestFindRange(t *testing.T) {
	tests := map[string]struct {
		data, needle    string
		start, end, max int
		positions       []int // ascending
	}{
		"window excludes first occurrence": {
			data: "abcabcabc", needle: "abc",
			start: 3, end: 9,
			positions: []int{3, 6},
		},
		"window must cover whole span": {
			data: "abcabcabc", needle: "abc",
			start: 0, end: 5,
			positions: []int{0},
		},
		"negative markers mean full window": {
			data: "abcabcabc", needle: "abc",
			start: -1, end: -1,
			positions: []int{0, 3, 6},
		},
		"end past buffer clamps": {
			data: "abcabc", needle: "abc",
			start: 0, end: 100,
			positions: []int{0, 3},
		},
		"inverted window": {
			data: "banana", needle: "an",
			start: 4, end: 2,
		},
		"empty window": {
			data: "banana", needle: "an",
			start: 3, end: 3,
		},
		"limited": {
			data: "abcabcabc", needle: "abc",
			start: 0, end: 9, max: 2,
			positions: []int{3, 6}, // rank order: suffix at 6 < 3 < 0
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for vname, idx := range buildVariants(t, []byte(tc.data)) {
				got, err := idx.FindRange([]byte(tc.needle), tc.start, tc.end, tc.max)
				require.NoError(t, err)
				sort.Ints(got)
				assert.Equal(t, tc.positions, got, vname)
			}
		})
	}
}

func TestFindRangeLimit(t *testing.T) {
	for vname, idx := range buildVariants(t, []byte("aaa")) {
		got, err := idx.FindRange([]byte("a"), 0, -1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1, vname)
		assert.Contains(t, []int{0, 1, 2}, got[0], vname)
	}
}

func TestQueryProperties(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	data := genRandData(r, 2000, 4)

	for vname, idx := range buildVariants(t, data) {
		for trial := 0; trial < 200; trial++ {
			nlen := 1 + r.Intn(6)
			var needle []byte
			if trial%2 == 0 && nlen <= len(data) {
				// Sample from the buffer so matches are common.
				at := r.Intn(len(data) - nlen + 1)
				needle = data[at : at+nlen]
			} else {
				needle = genRandData(r, nlen, 4)
			}
			want := naiveFind(data, needle, 0, len(data))

			count, err := idx.Count(needle)
			require.NoError(t, err)
			assert.Equal(t, len(want), count, "%s: count vs naive", vname)

			got, err := idx.Find(needle)
			require.NoError(t, err)
			sort.Ints(got)
			assert.Equal(t, want, got, "%s: occurrences vs naive", vname)

			start := r.Intn(len(data)+2) - 1
			end := r.Intn(len(data)+4) - 2
			ranged, err := idx.FindRange(needle, start, end, 0)
			require.NoError(t, err)
			sort.Ints(ranged)
			assert.Equal(t, naiveFind(data, needle, start, end), ranged,
				"%s: ranged occurrences vs naive", vname)
		}
	}
}

func FuzzFindRange(f *testing.F) {
	f.Add([]byte("banana"), []byte("an"), 0, 6, 0)
	f.Add([]byte("abcabcabc"), []byte("abc"), 3, 9, 2)
	f.Add([]byte("aaaa"), []byte("aa"), -1, -1, 1)

	f.Fuzz(func(t *testing.T, data, needle []byte, start, end, max int) {
		if len(data) == 0 || len(data) > 1<<12 || len(needle) > 1<<8 {
			return
		}
		idx, err := New(data)
		if err != nil {
			t.Fatal(err)
		}

		got, err := idx.FindRange(needle, start, end, max)
		if err != nil {
			t.Fatal(err)
		}
		want := naiveFind(data, needle, start, end)

		if max <= 0 {
			sorted := append([]int{}, got...)
			sort.Ints(sorted)
			if !assert.Equal(t, want, sorted) {
				return
			}
		} else {
			wantLen := min(max, len(want))
			if len(got) != wantLen {
				t.Fatalf("got %d results, want %d", len(got), wantLen)
			}
			valid := make(map[int]bool, len(want))
			for _, p := range want {
				valid[p] = true
			}
			seen := make(map[int]bool, len(got))
			for _, p := range got {
				if seen[p] {
					t.Fatalf("duplicate offset %d", p)
				}
				seen[p] = true
				if !valid[p] {
					t.Fatalf("offset %d is not an in-range occurrence", p)
				}
			}
		}

		count, err := idx.Count(needle)
		if err != nil {
			t.Fatal(err)
		}
		if full := naiveFind(data, needle, 0, len(data)); count != len(full) {
			t.Fatalf("count %d, naive %d", count, len(full))
		}
	})
}
