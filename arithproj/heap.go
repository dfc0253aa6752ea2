package arithproj

import "math/big"

// candidate is one virtual-substitution test point for the variable
// currently being eliminated.
type candidate struct {
	term  *linExpr
	slack *big.Rat
	index int
}

// candidateHeap is a binary max-heap over candidates, ordered by largest
// slack first and earliest insertion index second. A fresh heap is built
// per eliminated variable since candidate sets differ.
type candidateHeap struct {
	items []candidate
}

func newCandidateHeap() *candidateHeap {
	return &candidateHeap{}
}

func (h *candidateHeap) less(i, j int) bool {
	if c := h.items[i].slack.Cmp(h.items[j].slack); c != 0 {
		return c > 0
	}
	return h.items[i].index < h.items[j].index
}

func (h *candidateHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *candidateHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *candidateHeap) down(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		best := i
		if left < n && h.less(left, best) {
			best = left
		}
		if right < n && h.less(right, best) {
			best = right
		}
		if best == i {
			return
		}
		h.swap(i, best)
		i = best
	}
}

func (h *candidateHeap) push(c candidate) {
	h.items = append(h.items, c)
	h.up(len(h.items) - 1)
}

// pop removes and returns the winning candidate (largest slack, earliest
// index). The caller must not call pop on an empty heap.
func (h *candidateHeap) pop() candidate {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.down(0)
	}
	return top
}

