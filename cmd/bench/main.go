package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/caioav/suffixindex"
)

type variant struct {
	name   string
	config func(*suffixindex.IndexBuilder) *suffixindex.IndexBuilder
}

var variants = map[string]variant{
	"full": {name: "full", config: func(b *suffixindex.IndexBuilder) *suffixindex.IndexBuilder { return b }},
	"no_lcp": {name: "no_lcp", config: func(b *suffixindex.IndexBuilder) *suffixindex.IndexBuilder {
		return b.SkipLCP()
	}},
}

type densityType string

const (
	densityLow  densityType = "low"
	densityHigh densityType = "high"
)

type memMonitor struct {
	maxAlloc uint64
	stop     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{})}
	go func() {
		for {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Alloc > mm.maxAlloc {
				mm.maxAlloc = m.Alloc
			}
			select {
			case <-mm.stop:
				return
			default:
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()
	return mm
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	return mm.maxAlloc
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func measureBuild(data []byte, config func(*suffixindex.IndexBuilder) *suffixindex.IndexBuilder) (time.Duration, uint64, uint64, *suffixindex.Index) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	builder := config(suffixindex.NewBuilder(data))
	idx, err := builder.Build()
	if err != nil {
		panic(err)
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc, idx
}

func measureQuery(idx *suffixindex.Index, needles [][]byte, k int) (time.Duration, uint64, uint64) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	for _, needle := range needles {
		if _, err := idx.FindRange(needle, 0, -1, k); err != nil {
			panic(err)
		}
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc
}

// makeBuffer generates an n-byte lowercase buffer plus a needle of length p.
// High density plants the needle at regular intervals so queries hit many
// occurrences; low density leaves the buffer random, so most needles occur
// only where they were sampled.
func makeBuffer(r *rand.Rand, n, p int, density densityType) ([]byte, []byte) {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(r.Intn(26) + 'a')
	}
	needle := make([]byte, p)
	for i := range needle {
		needle[i] = byte(r.Intn(26) + 'a')
	}
	if density == densityHigh {
		for pos := 0; pos+p <= n; pos += p * 16 {
			copy(data[pos:], needle)
		}
	}
	return data, needle
}

func runBenchmark(v variant, n, p, k, q, runs int, density densityType) {
	for run := 0; run < runs; run++ {
		r := rand.New(rand.NewSource(int64(run)))
		data, planted := makeBuffer(r, n, p, density)

		bt, bp, ba, idx := measureBuild(data, v.config)

		needles := make([][]byte, q)
		for i := range needles {
			if density == densityHigh {
				needles[i] = planted
			} else {
				start := r.Intn(n - p + 1)
				needles[i] = data[start : start+p]
			}
		}
		qt, qp, qa := measureQuery(idx, needles, k)
		idx.Close()

		fmt.Printf("%s,%d,%d,%d,%d,%s,%.0f,%d,%d,%.0f,%d,%d\n",
			v.name, n, p, k, q, density,
			float64(bt.Nanoseconds()), bp, ba,
			float64(qt.Nanoseconds()), qp, qa)
	}
}

func runFile(v variant, path string, p, k, q, runs int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read input: %v\n", err)
		os.Exit(1)
	}
	if p > len(data) {
		fmt.Fprintln(os.Stderr, "needle length exceeds input length")
		os.Exit(1)
	}
	for run := 0; run < runs; run++ {
		r := rand.New(rand.NewSource(int64(run)))
		bt, bp, ba, idx := measureBuild(data, v.config)
		needles := make([][]byte, q)
		for i := range needles {
			start := r.Intn(len(data) - p + 1)
			needles[i] = data[start : start+p]
		}
		qt, qp, qa := measureQuery(idx, needles, k)
		idx.Close()
		fmt.Printf("%s,%d,%d,%d,%d,file,%.0f,%d,%d,%.0f,%d,%d\n",
			v.name, len(data), p, k, q,
			float64(bt.Nanoseconds()), bp, ba,
			float64(qt.Nanoseconds()), qp, qa)
	}
}

func main() {
	variantName := flag.String("variant", "", "Variant to benchmark")
	n := flag.Int("n", 0, "Buffer length N")
	p := flag.Int("p", 0, "Needle length P")
	k := flag.Int("k", 0, "Max matches per query K (0 for unbounded)")
	q := flag.Int("q", 0, "Number of queries Q")
	runs := flag.Int("runs", 3, "Number of runs for averaging")
	d := flag.String("d", "low", "Density: low or high")
	input := flag.String("input", "", "Index this file instead of a generated buffer")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *variantName == "" || *p <= 0 || *q <= 0 || (*input == "" && (*n <= 0 || *p > *n)) {
		fmt.Println("Usage: go run main.go -variant=<variant> -n=<N> -p=<P> -k=<K> -q=<Q> -d=<density> [-runs=<runs>] [-input=<file>]")
		fmt.Println("Available variants:", variants)
		os.Exit(1)
	}

	v, ok := variants[*variantName]
	if !ok {
		fmt.Println("Invalid variant:", *variantName)
		os.Exit(1)
	}

	if *input != "" {
		runFile(v, *input, *p, *k, *q, *runs)
		return
	}
	runBenchmark(v, *n, *p, *k, *q, *runs, densityType(*d))
}
