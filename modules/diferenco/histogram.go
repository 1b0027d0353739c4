package diferenco

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/sirupsen/logrus"
)

// defaultMaxChainLength bounds how many times an element may recur in a
// region before its occurrence chain is considered too dense to search
// and the region is handed to the fallback algorithm instead.
const defaultMaxChainLength = 64

// Packed record layout: a histogram record is a single uint64 holding
// three fields, low bits first: an 8-bit saturating occurrence count, a
// 28-bit pointer to the element's earliest occurrence offset within the
// region, and a 28-bit index of the next record in the same hash-table
// slot's collision chain. 28 bits supports regions up to 2^28-1
// elements; index 0 in both the table and a record's chain pointer is
// the sentinel for "no record"/"chain ends here".
const (
	recCountBits = 8
	recPtrBits   = 28
	recPtrMax    = 1<<recPtrBits - 1
	recCountMax  = 1<<recCountBits - 1
)

func recCreate(nextIdx, ptr uint32, count uint8) uint64 {
	return uint64(nextIdx)<<(recCountBits+recPtrBits) | uint64(ptr)<<recCountBits | uint64(count)
}

func recNext(r uint64) uint32 { return uint32(r >> (recCountBits + recPtrBits)) }
func recPtr(r uint64) uint32  { return uint32(r>>recCountBits) & recPtrMax }
func recCount(r uint64) uint8 { return uint8(r & recCountMax) }

func recWithPtrAndCount(r uint64, ptr uint32, count uint8) uint64 {
	return recCreate(recNext(r), ptr, count)
}

func recIncCount(c uint8) uint8 {
	if c < recCountMax {
		return c + 1
	}
	return c
}

func fibTableBits(n int) uint {
	if n < 1 {
		n = 1
	}
	bits := uint(0)
	for (1 << bits) < n {
		bits++
	}
	return bits
}

// fibSlot maps a hash to a table slot via Fibonacci (multiplicative)
// hashing: the top tableBits bits of hash*0x9E3779B1 are well mixed
// regardless of the hash function's own distribution.
func fibSlot(h uint32, tableBits uint) uint32 {
	if tableBits == 0 {
		return 0
	}
	return (h * 0x9E3779B1) >> (32 - tableBits)
}

// histogramIndex is the element-occurrence index over an A region
// [bA,eA), built by scanning backwards so each record's pointer field
// ends up at the earliest occurrence once the scan completes.
type histogramIndex[S Sequence] struct {
	cmp         Comparator[S]
	a           S
	bA, eA      int
	tableBits   uint
	table       []uint32
	recs        []uint64 // recs[0] is the unused sentinel
	next        []int32  // 1-based: 0 means no later occurrence
	recIdx      []uint32 // per A-offset: owning record index
	maxChainLen int
}

func newHistogramIndex[S Sequence](cmp Comparator[S], a S, bA, eA, maxChainLen int) (*histogramIndex[S], error) {
	n := eA - bA
	if n > recPtrMax {
		return nil, fmt.Errorf("%w: region of %d elements exceeds packed pointer width", ErrSequenceTooLarge, n)
	}
	bits := fibTableBits(n)
	return &histogramIndex[S]{
		cmp:         cmp,
		a:           a,
		bA:          bA,
		eA:          eA,
		tableBits:   bits,
		table:       make([]uint32, 1<<bits),
		recs:        make([]uint64, 1, n+2),
		next:        make([]int32, n),
		recIdx:      make([]uint32, n),
		maxChainLen: maxChainLen,
	}, nil
}

// populate scans A backwards, returning false if some element's
// occurrence chain reaches maxChainLen before the scan completes.
func (h *histogramIndex[S]) populate() bool {
	for p := h.eA - 1; p >= h.bA; p-- {
		if !h.insert(p) {
			return false
		}
	}
	return true
}

func (h *histogramIndex[S]) insert(pos int) bool {
	hv := h.cmp.Hash(h.a, pos)
	slot := fibSlot(hv, h.tableBits)
	idx := h.table[slot]
	for idx != 0 {
		r := h.recs[idx]
		fp := recPtr(r)
		if h.cmp.Eq(h.a, h.bA+int(fp), h.a, pos) {
			if int(recCount(r)) >= h.maxChainLen {
				return false
			}
			h.next[pos-h.bA] = int32(fp) + 1
			h.recs[idx] = recWithPtrAndCount(r, uint32(pos-h.bA), recIncCount(recCount(r)))
			h.recIdx[pos-h.bA] = idx
			return true
		}
		idx = recNext(r)
	}
	newIdx := uint32(len(h.recs))
	h.recs = append(h.recs, recCreate(h.table[slot], uint32(pos-h.bA), 1))
	h.table[slot] = newIdx
	h.next[pos-h.bA] = 0
	h.recIdx[pos-h.bA] = newIdx
	return true
}

func (h *histogramIndex[S]) countOf(pos int) int {
	return int(recCount(h.recs[h.recIdx[pos-h.bA]]))
}

func (h *histogramIndex[S]) nextOccurrence(pos int) int {
	v := h.next[pos-h.bA]
	if v == 0 {
		return -1
	}
	return h.bA + int(v-1)
}

func (h *histogramIndex[S]) findRecordForB(b S, bp int) (uint64, bool) {
	hv := h.cmp.Hash(b, bp)
	slot := fibSlot(hv, h.tableBits)
	idx := h.table[slot]
	for idx != 0 {
		r := h.recs[idx]
		if h.cmp.Eq(h.a, h.bA+int(recPtr(r)), b, bp) {
			return r, true
		}
		idx = recNext(r)
	}
	return 0, false
}

type lcsSpan struct {
	beginA, beginB, length int
}

// findLCS scans B's region looking for the longest, least-common run
// shared with A, preferring rarer anchors when lengths tie. hasCommon
// distinguishes "nothing in B hashed into A at all" from "some element
// matched but every candidate's occurrence chain was too dense to
// trust", which the caller uses to decide between emitting a whole-
// region REPLACE and falling back to another algorithm.
func (h *histogramIndex[S]) findLCS(a, b S, bB, eB int) (lcsSpan, bool, bool) {
	var best lcsSpan
	cnt := h.maxChainLen + 1
	hasCommon := false
	for bp := bB; bp < eB; {
		r, found := h.findRecordForB(b, bp)
		if !found {
			bp++
			continue
		}
		hasCommon = true
		if int(recCount(r)) > cnt {
			bp++
			continue
		}
		bp = h.extendFromAnchor(a, b, bB, eB, bp, h.bA+int(recPtr(r)), &best, &cnt)
	}
	ok := !hasCommon || cnt <= h.maxChainLen
	return best, hasCommon, ok
}

// extendFromAnchor tries every occurrence of the element anchoring B's
// position bp, walking each one's surrounding snake outward in both
// directions and tracking the minimum occurrence count crossed so a run
// through a rare element is preferred over a longer run through only
// common ones. It returns how far bp can safely advance.
func (h *histogramIndex[S]) extendFromAnchor(a, b S, bB, eB, bp, firstA int, best *lcsSpan, cnt *int) int {
	nextBp := bp + 1
	for as := firstA; as >= 0; {
		occ := h.countOf(as)
		s1, s2 := as, bp
		for s1 > h.bA && s2 > bB && h.cmp.Eq(a, s1-1, b, s2-1) {
			s1--
			s2--
			occ = min(occ, h.countOf(s1))
		}
		e1, e2 := as+1, bp+1
		for e1 < h.eA && e2 < eB && h.cmp.Eq(a, e1, b, e2) {
			occ = min(occ, h.countOf(e1))
			e1++
			e2++
		}
		if nextBp < e2 {
			nextBp = e2
		}
		length := e2 - s2
		if best.length < length || *cnt > occ {
			*cnt = occ
			*best = lcsSpan{beginA: s1, beginB: s2, length: length}
		}

		next := -1
		for candidate := h.nextOccurrence(as); candidate >= 0; candidate = h.nextOccurrence(candidate) {
			if candidate > e1 {
				next = candidate
				break
			}
		}
		as = next
	}
	return nextBp
}

type histogramRegion struct{ bA, eA, bB, eB int }

// HistogramAlgorithm is the extended Patience/Histogram diff: it anchors
// recursion on the lowest-occurrence common element in each region
// (Patience/Histogram anchoring) instead of computing a full edit graph,
// which tends to produce more human-readable diffs around repeated
// delimiters (braces, blank lines) than Myers alone. Regions whose
// element occurs too often to search confidently are delegated to
// Fallback.
type HistogramAlgorithm[S Sequence] struct {
	// MaxChainLength bounds occurrence-chain density; zero selects the
	// default of 64.
	MaxChainLength int
	// Fallback handles regions the index finds too dense to search. It
	// operates over a zero-based Subsequence window rather than S
	// directly, since a region is, in general, a strict sub-range of
	// the sequences Diff was originally called with. A nil Fallback
	// defaults to MyersAlgorithm[Subsequence[S]].
	Fallback DiffAlgorithm[Subsequence[S]]
}

// DiffNonCommon implements DiffAlgorithm[S].
func (h HistogramAlgorithm[S]) DiffNonCommon(ctx context.Context, cmp Comparator[S], a, b S, result *EditList) error {
	maxChain := h.MaxChainLength
	if maxChain <= 0 {
		maxChain = defaultMaxChainLength
	}
	fallback := h.Fallback
	if fallback == nil {
		fallback = MyersAlgorithm[Subsequence[S]]{}
	}

	stack := linkedliststack.New()
	stack.Push(histogramRegion{0, a.Len(), 0, b.Len()})
	for !stack.Empty() {
		select {
		case <-ctx.Done():
			logrus.Debugf("diferenco: histogram interrupted with %d region(s) pending", stack.Size())
			return ErrInterrupted
		default:
		}
		v, _ := stack.Pop()
		reg := v.(histogramRegion)
		n, m := reg.eA-reg.bA, reg.eB-reg.bB

		switch {
		case n == 0 && m == 0:
			continue
		case n == 0 || m == 0:
			*result = append(*result, Edit{reg.bA, reg.eA, reg.bB, reg.eB})
			continue
		case n == 1 && m == 1:
			*result = append(*result, Edit{reg.bA, reg.eA, reg.bB, reg.eB})
			continue
		}

		idx, err := newHistogramIndex(cmp, a, reg.bA, reg.eA, maxChain)
		if err != nil {
			return err
		}
		if !idx.populate() {
			logrus.Debugf("diferenco: histogram chain too dense in (%d,%d), falling back", reg.bA, reg.eA)
			if err := h.delegateRegion(ctx, cmp, fallback, a, b, reg, result); err != nil {
				return err
			}
			continue
		}

		best, hasCommon, ok := idx.findLCS(a, b, reg.bB, reg.eB)
		if !ok {
			logrus.Debugf("diferenco: histogram search too dense in (%d,%d), falling back", reg.bA, reg.eA)
			if err := h.delegateRegion(ctx, cmp, fallback, a, b, reg, result); err != nil {
				return err
			}
			continue
		}
		if !hasCommon || best.length == 0 {
			*result = append(*result, Edit{reg.bA, reg.eA, reg.bB, reg.eB})
			continue
		}

		after := histogramRegion{best.beginA + best.length, reg.eA, best.beginB + best.length, reg.eB}
		before := histogramRegion{reg.bA, best.beginA, reg.bB, best.beginB}
		stack.Push(after)
		stack.Push(before)
	}
	return nil
}

func (h HistogramAlgorithm[S]) delegateRegion(ctx context.Context, cmp Comparator[S], fallback DiffAlgorithm[Subsequence[S]], a, b S, reg histogramRegion, result *EditList) error {
	subA := NewSubsequence(a, reg.bA, reg.eA)
	subB := NewSubsequence(b, reg.bB, reg.eB)
	subCmp := SubsequenceComparator[S]{Base: cmp}
	var sub EditList
	if err := fallback.DiffNonCommon(ctx, subCmp, subA, subB, &sub); err != nil {
		return err
	}
	for _, e := range sub {
		*result = append(*result, translateEdit(e, subA, subB))
	}
	return nil
}
