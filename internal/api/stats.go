package api

import (
	"slices"
	"sync"
	"time"
)

// Operation names reported by /api/stats.
const (
	opRender = "render"
	opImport = "import"
)

// defaultWindow is how many recent samples each operation keeps.
const defaultWindow = 512

// OperationSnapshot summarizes one operation. Totals count every call since
// start; the latency figures cover only the most recent window of calls.
type OperationSnapshot struct {
	Total  int64   `json:"total"`
	Failed int64   `json:"failed"`
	Window int     `json:"window"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// OperationStats keeps call counts and a fixed-size ring of recent latencies
// per operation.
type OperationStats struct {
	mu   sync.Mutex
	size int
	ops  map[string]*ring
}

type ring struct {
	samples []time.Duration
	next    int
	total   int64
	failed  int64
}

func NewOperationStats(window int) *OperationStats {
	if window <= 0 {
		window = defaultWindow
	}
	return &OperationStats{size: window, ops: make(map[string]*ring)}
}

// Observe records one call of op that took d. A non-nil err counts as a failure.
func (s *OperationStats) Observe(op string, d time.Duration, err error) {
	d = max(d, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.ops[op]
	if !ok {
		r = &ring{samples: make([]time.Duration, 0, s.size)}
		s.ops[op] = r
	}
	r.total++
	if err != nil {
		r.failed++
	}
	if len(r.samples) < s.size {
		r.samples = append(r.samples, d)
		return
	}
	r.samples[r.next] = d
	r.next = (r.next + 1) % s.size
}

// Since observes op as having started at start.
func (s *OperationStats) Since(op string, start time.Time, err error) {
	s.Observe(op, time.Since(start), err)
}

// Snapshot returns a summary for every operation observed so far.
func (s *OperationStats) Snapshot() map[string]OperationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]OperationSnapshot, len(s.ops))
	for op, r := range s.ops {
		out[op] = r.snapshot()
	}
	return out
}

func (r *ring) snapshot() OperationSnapshot {
	snap := OperationSnapshot{Total: r.total, Failed: r.failed, Window: len(r.samples)}
	if len(r.samples) == 0 {
		return snap
	}
	sorted := slices.Clone(r.samples)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	snap.MeanMs = ms(sum / time.Duration(len(sorted)))
	snap.P50Ms = ms(nearestRank(sorted, 0.50))
	snap.P95Ms = ms(nearestRank(sorted, 0.95))
	snap.MaxMs = ms(sorted[len(sorted)-1])
	return snap
}

// nearestRank returns the smallest sample with at least q of the samples at or below it.
func nearestRank(sorted []time.Duration, q float64) time.Duration {
	rank := int(q*float64(len(sorted))+0.999999) - 1
	return sorted[min(max(rank, 0), len(sorted)-1)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
