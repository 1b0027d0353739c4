package diferenco

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Algorithm selects which core algorithm a Diff call uses to resolve the
// non-common middle of two sequences. There is no third public value: the
// O(NP) implementation in onp.go is never a top-level choice, only the
// fallback diffNonCommon wires into HistogramAlgorithm.Fallback for
// regions its occurrence index finds too dense to search directly.
type Algorithm int8

const (
	// Myers selects MyersAlgorithm: bidirectional D-path bisection,
	// linear space, always the shortest edit script.
	Myers Algorithm = iota
	// Histogram selects HistogramAlgorithm: occurrence-histogram LCS
	// anchoring, generally more readable around repeated delimiters.
	Histogram
)

func (a Algorithm) String() string {
	switch a {
	case Myers:
		return "myers"
	case Histogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// Diff computes the edit list turning A into B under the chosen algorithm.
// It trims common leading/trailing elements first, short-circuits the
// EMPTY/INSERT/DELETE/single-element-REPLACE cases without invoking the
// algorithm at all, and otherwise hands the remaining region to the
// algorithm over hashed subsequences before translating and normalizing
// the result.
func Diff[S Sequence](ctx context.Context, algo Algorithm, cmp Comparator[S], a, b S) (EditList, error) {
	e := Edit{0, a.Len(), 0, b.Len()}
	reduceCommonStartEnd(cmp, a, b, &e)

	switch e.Type() {
	case EditEmpty:
		return nil, nil
	case EditInsert, EditDelete:
		return EditList{e}, nil
	case EditReplace:
		if e.LengthA() == 1 && e.LengthB() == 1 {
			return EditList{e}, nil
		}
	}

	var result EditList
	if err := diffNonCommon(ctx, algo, cmp, a, b, e, &result); err != nil {
		return nil, err
	}
	normalize(cmp, a, b, result)
	return result, nil
}

// diffNonCommon runs the chosen algorithm over e's region, wrapped in
// Subsequence and HashedSequence so the algorithm's own hash shortcuts
// apply, then translates the resulting edits back to base coordinates.
func diffNonCommon[S Sequence](ctx context.Context, algo Algorithm, cmp Comparator[S], a, b S, e Edit, result *EditList) error {
	logrus.Debugf("diferenco: dispatching %s over region (%d,%d)x(%d,%d)", algo, e.BeginA, e.EndA, e.BeginB, e.EndB)

	subA := NewSubsequence(a, e.BeginA, e.EndA)
	subB := NewSubsequence(b, e.BeginB, e.EndB)
	subCmp := SubsequenceComparator[S]{Base: cmp}

	hashedA := NewHashedSequence[Subsequence[S]](subCmp, subA)
	hashedB := NewHashedSequence[Subsequence[S]](subCmp, subB)
	hashedCmp := HashedSequenceComparator[Subsequence[S]]{Base: subCmp}

	var alg DiffAlgorithm[HashedSequence[Subsequence[S]]]
	switch algo {
	case Histogram:
		// Regions too dense for the occurrence index to search
		// confidently fall back to the O(NP) algorithm rather than
		// Myers, matching the teacher's own histogram-falls-back
		// structure: onp.go exists specifically to be this slot.
		alg = HistogramAlgorithm[HashedSequence[Subsequence[S]]]{
			Fallback: onpAlgorithm[Subsequence[HashedSequence[Subsequence[S]]]]{},
		}
	default:
		alg = MyersAlgorithm[HashedSequence[Subsequence[S]]]{}
	}

	var sub EditList
	if err := alg.DiffNonCommon(ctx, hashedCmp, hashedA, hashedB, &sub); err != nil {
		return err
	}
	for _, se := range sub {
		*result = append(*result, translateEdit(se, subA, subB))
	}
	return nil
}

// normalize right-shifts ambiguous pure INSERT/DELETE edits to their
// latest valid position, scanning in reverse so each edit's shift bound is
// computed against the (already normalized) edit after it. An INSERT can
// be shifted forward whenever the element leaving its front is equal to
// the element it would gain at its back, since either placement produces
// the same B content; DELETE is the A-side mirror.
func normalize[S Sequence](cmp Comparator[S], a, b S, edits EditList) {
	maxA, maxB := a.Len(), b.Len()
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		if i+1 < len(edits) {
			maxA = edits[i+1].BeginA
			maxB = edits[i+1].BeginB
		} else {
			maxA, maxB = a.Len(), b.Len()
		}
		switch e.Type() {
		case EditInsert:
			for e.EndA < maxA && e.EndB < maxB && cmp.Eq(b, e.BeginB, b, e.EndB) {
				e = e.Shift(1)
			}
		case EditDelete:
			for e.EndA < maxA && e.EndB < maxB && cmp.Eq(a, e.BeginA, a, e.EndA) {
				e = e.Shift(1)
			}
		}
		edits[i] = e
	}
}
