package logits

import (
	"math"
	"sort"
)

// NegInf is the filter sentinel. An entry set to NegInf carries zero
// probability after softmax and can never be sampled.
var NegInf = float32(math.Inf(-1))

// FilterConfig configures TopKTopP. The zero value disables both filters but
// leaves FilterValue at 0, which is almost never what a caller wants; use
// NewFilterConfig unless a custom sentinel is required.
type FilterConfig struct {
	TopK        int
	TopP        float32
	FilterValue float32
}

// NewFilterConfig returns a FilterConfig with the NegInf sentinel.
func NewFilterConfig(topK int, topP float32) FilterConfig {
	return FilterConfig{TopK: topK, TopP: topP, FilterValue: NegInf}
}

// TopKTopP restricts a logit vector to a candidate set using top-k and
// nucleus (top-p) filtering. Entries outside the retained set are replaced
// by cfg.FilterValue; retained entries are unchanged. The vector is mutated
// in place and returned.
//
//  1. TopK is clamped to the vocabulary size; an oversized k never fails.
//  2. If TopK > 0, entries strictly below the k-th largest value are
//     dropped. Ties at the threshold survive, so more than k entries may
//     remain.
//  3. If TopP > 0, entries are ranked by descending value and the smallest
//     prefix whose softmax mass exceeds TopP is retained; everything after
//     the entry that crosses the threshold is dropped. The top-ranked entry
//     always survives, so the nucleus is never empty.
//  4. When both are active, top-k runs first and top-p operates on the
//     already-filtered vector. The order is part of the contract: swapping
//     it changes which entries survive.
//
// TopK == 0 and TopP == 0 disable the respective filter; with both zero the
// vector is returned untouched. TopP >= 1 retains everything.
func TopKTopP(logits []float32, cfg FilterConfig) []float32 {
	if k := min(cfg.TopK, len(logits)); k > 0 {
		thr := kthLargest(logits, k)
		for i, v := range logits {
			if v < thr {
				logits[i] = cfg.FilterValue
			}
		}
	}
	if cfg.TopP > 0 {
		filterNucleus(logits, cfg.TopP, cfg.FilterValue)
	}
	return logits
}

// kthLargest returns the value of the k-th largest element of x. O(V*K)
// insertion scan; k must be in [1, len(x)].
func kthLargest(x []float32, k int) float32 {
	top := make([]float32, 0, k+1)
	for _, v := range x {
		pos := len(top)
		for pos > 0 && top[pos-1] < v {
			pos--
		}
		if pos >= k {
			continue
		}
		top = append(top, 0)
		copy(top[pos+1:], top[pos:])
		top[pos] = v
		if len(top) > k {
			top = top[:k]
		}
	}
	return top[len(top)-1]
}

// filterNucleus drops every entry ranked after the one whose cumulative
// softmax probability first exceeds p. The crossing entry itself is kept,
// which guarantees at least one survivor even when the top-ranked entry
// alone carries more than p.
func filterNucleus(logits []float32, p float32, filterValue float32) {
	n := len(logits)
	if n == 0 {
		return
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return logits[idx[a]] > logits[idx[b]] })

	maxv := float64(logits[idx[0]])
	if math.IsInf(maxv, -1) {
		// every entry is already the sentinel; nothing left to rank
		return
	}
	probs := make([]float64, n)
	var sum float64
	for i, id := range idx {
		e := math.Exp(float64(logits[id]) - maxv)
		probs[i] = e
		sum += e
	}

	// Cumulative mass is nondecreasing, so the removal set is the suffix
	// starting one past the first rank whose running total exceeds p.
	cut := n
	var cum float64
	for i := 0; i < n; i++ {
		cum += probs[i] / sum
		if float32(cum) > p {
			cut = i + 1
			break
		}
	}
	for _, id := range idx[cut:] {
		logits[id] = filterValue
	}
}
