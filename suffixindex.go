package suffixindex

import (
	"errors"
	"fmt"

	"github.com/viniciusth/rmq"
)

var (
	ErrEmptyData      = errors.New("suffixindex: empty data buffer")
	ErrClosed         = errors.New("suffixindex: index is closed")
	ErrBadSuffixArray = errors.New("suffixindex: suffix array length does not match data length")
)

// BuildFunc constructs the suffix array for data. The result must be a
// permutation of [0, len(data)) ordering the suffixes of data ascending
// lexicographically, with a shorter suffix sorting before any longer suffix
// it is a prefix of. Any error aborts index construction.
type BuildFunc func(data []byte) ([]int32, error)

type IndexBuilder struct {
	data   []byte
	useLCP bool
	build  BuildFunc
}

func NewBuilder(data []byte) *IndexBuilder {
	return &IndexBuilder{
		data:   data,
		useLCP: true,
		build:  BuildSuffixArray,
	}
}

// Skips the LCP array construction, this makes boundary search
// O(|needle| * log(n)) instead of O(|needle| + log(n)).
// Saves O(n) memory: doesn't build the LCP array and its RMQ structure.
// Trade-off: queries are slower, but you spend less memory.
func (b *IndexBuilder) SkipLCP() *IndexBuilder {
	b.useLCP = false
	return b
}

// SuffixArrayFunc replaces the default suffix-array construction with fn.
// Use this to plug in an SA-IS or libsais-backed builder for large buffers.
func (b *IndexBuilder) SuffixArrayFunc(fn BuildFunc) *IndexBuilder {
	b.build = fn
	return b
}

// Build copies the buffer, constructs the suffix array and, unless skipped,
// the LCP structures. It either returns a fully usable index or an error;
// no partially built index is ever returned.
func (b *IndexBuilder) Build() (*Index, error) {
	if len(b.data) == 0 {
		return nil, ErrEmptyData
	}

	// Own a copy so later caller mutation cannot corrupt the index.
	data := make([]byte, len(b.data))
	copy(data, b.data)

	sa, err := b.build(data)
	if err != nil {
		return nil, fmt.Errorf("suffixindex: build suffix array: %w", err)
	}
	if len(sa) != len(data) {
		return nil, ErrBadSuffixArray
	}

	var lcp []int
	var lcpRMQ *rmq.RMQHybridNaive[int]
	if b.useLCP && len(sa) > 1 {
		lcp = buildLCP(sa, data)
		lcpRMQ = rmq.NewRMQHybridNaive(lcp)
	}

	return &Index{
		data:   data,
		sa:     sa,
		lcp:    lcp,
		lcpRMQ: lcpRMQ,
	}, nil
}

// New builds an index over data with the default options.
func New(data []byte) (*Index, error) {
	return NewBuilder(data).Build()
}

// Index is an immutable substring index over a byte buffer. All query
// methods are safe for concurrent use; Close must not be called while a
// query is in flight.
type Index struct {
	data   []byte
	sa     []int32
	lcp    []int
	lcpRMQ *rmq.RMQHybridNaive[int]
	closed bool
}

// Len returns the length of the indexed buffer, or 0 for a nil or closed
// index.
func (s *Index) Len() int {
	if s == nil || s.closed {
		return 0
	}
	return len(s.data)
}

// Close releases the buffer, the suffix array and the LCP structures.
// It is idempotent. Every query after Close fails with ErrClosed.
func (s *Index) Close() {
	if s == nil {
		return
	}
	s.data = nil
	s.sa = nil
	s.lcp = nil
	s.lcpRMQ = nil
	s.closed = true
}
