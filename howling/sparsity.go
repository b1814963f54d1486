package howling

import (
	"math"
	"sync"
)

// SparsityScorer implements the NINOS²-style howling detection function.
//
// For every bin it accumulates, over the T frames in the history,
//
//	s2 = Σ v², s4 = Σ v⁴, L2 = √s2, L4 = s4^¼
//	sparsity = (L2/L4 − 1) / (T^¼ − 1)
//	score    = max(0, sparsity · L2)
//
// L2/L4 equals T^¼ when a bin holds the same amplitude in every frame and
// falls towards 1 as energy concentrates into fewer frames, so a steady
// narrowband tone scores sparsity 1 and its score grows with its level.
// Bins with no energy in the window are skipped.
type SparsityScorer struct {
	workers int
	s2      []float64
	s4      []float64
}

// NewSparsityScorer creates a scorer. workers > 1 splits the bin range
// across that many goroutines.
func NewSparsityScorer(workers int) *SparsityScorer {
	return &SparsityScorer{workers: workers}
}

type binPick struct {
	bin   int
	score float64
}

// Score returns the bin with the highest score, lowest index on ties.
// ok is false when the history holds fewer than two frames or when every
// bin is silent across the window.
func (ss *SparsityScorer) Score(h *History) (bin int, score float64, ok bool) {
	T := h.Len()
	if T < 2 {
		return -1, 0, false
	}

	ss.accumulate(h)
	denom := math.Pow(float64(T), 0.25) - 1

	n := len(ss.s2)
	workers := ss.effectiveWorkers(n)
	if workers <= 1 {
		pick := pickBest(ss.s2, ss.s4, denom, 0, n)
		return pick.bin, pick.score, pick.bin >= 0
	}

	picks := make([]binPick, workers)
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			picks[w] = pickBest(ss.s2, ss.s4, denom, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	// Chunks are in bin order, so keeping only strict improvements
	// preserves the lowest-bin tie rule of the serial scan.
	best := binPick{bin: -1, score: -1}
	for _, p := range picks {
		if p.bin >= 0 && p.score > best.score {
			best = p
		}
	}
	if best.bin < 0 {
		return -1, 0, false
	}
	return best.bin, best.score, true
}

// Scores returns the per-bin score vector; skipped bins read 0. It returns
// nil when the history holds fewer than two frames.
func (ss *SparsityScorer) Scores(h *History) []float64 {
	T := h.Len()
	if T < 2 {
		return nil
	}

	ss.accumulate(h)
	denom := math.Pow(float64(T), 0.25) - 1

	out := make([]float64, len(ss.s2))
	for b := range out {
		if score, ok := binScore(ss.s2[b], ss.s4[b], denom); ok {
			out[b] = score
		}
	}
	return out
}

// accumulate fills s2/s4 walking frames in the outer loop so each frame is
// read sequentially.
func (ss *SparsityScorer) accumulate(h *History) {
	n := h.BinCount()
	if cap(ss.s2) < n {
		ss.s2 = make([]float64, n)
		ss.s4 = make([]float64, n)
	}
	ss.s2 = ss.s2[:n]
	ss.s4 = ss.s4[:n]
	clear(ss.s2)
	clear(ss.s4)

	for t := range h.Len() {
		frame := h.FrameAt(t)
		for b, v := range frame {
			v2 := v * v
			ss.s2[b] += v2
			ss.s4[b] += v2 * v2
		}
	}
}

func (ss *SparsityScorer) effectiveWorkers(n int) int {
	if ss.workers <= 1 || n < 2 {
		return 1
	}
	return min(ss.workers, n)
}

func pickBest(s2, s4 []float64, denom float64, lo, hi int) binPick {
	best := binPick{bin: -1, score: -1}
	for b := lo; b < hi; b++ {
		score, ok := binScore(s2[b], s4[b], denom)
		if ok && score > best.score {
			best = binPick{bin: b, score: score}
		}
	}
	return best
}

// binScore evaluates one bin. It reports false for bins that cannot be
// evaluated: no energy, a fourth-power sum that underflowed to zero, a zero
// normaliser, or any non-finite intermediate.
func binScore(s2, s4, denom float64) (float64, bool) {
	if s2 == 0 || denom <= 0 {
		return 0, false
	}

	l2 := math.Sqrt(s2)
	l4 := math.Sqrt(math.Sqrt(s4))
	if l4 == 0 {
		return 0, false
	}

	sparsity := (l2/l4 - 1) / denom
	score := math.Max(0, sparsity*l2)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}
