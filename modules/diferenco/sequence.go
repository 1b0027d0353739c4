package diferenco

import "context"

// Sequence is an opaque producer of a length. Elements are never
// materialized through this interface; all element access goes through a
// Comparator, which knows how to compare and hash positions within a
// concrete sequence type.
type Sequence interface {
	Len() int
}

// Comparator provides equality and hashing over positions of sequence S.
// Eq must be symmetric: Eq(a, i, b, j) == Eq(b, j, a, i). Hash must be
// consistent with Eq: Eq(a, i, b, j) implies Hash(a, i) == Hash(b, j).
type Comparator[S Sequence] interface {
	Eq(a S, i int, b S, j int) bool
	Hash(s S, i int) uint32
}

// Reducer is an optional capability a Comparator may implement to shrink
// an Edit's common leading/trailing run faster than the generic
// element-by-element scan (for example, LineComparator compares raw line
// bytes directly instead of going through the Comparator interface).
type Reducer[S Sequence] interface {
	ReduceCommonStartEnd(a, b S, e *Edit)
}

// reduceCommonStartEnd shrinks e in place: it advances BeginA/BeginB
// while the leading elements are equal, then retreats EndA/EndB while
// the trailing elements are equal. If cmp implements Reducer, that
// specialization is used instead of the generic element-by-element scan.
func reduceCommonStartEnd[S Sequence](cmp Comparator[S], a, b S, e *Edit) {
	if r, ok := cmp.(Reducer[S]); ok {
		r.ReduceCommonStartEnd(a, b, e)
		return
	}
	for e.BeginA < e.EndA && e.BeginB < e.EndB && cmp.Eq(a, e.BeginA, b, e.BeginB) {
		e.BeginA++
		e.BeginB++
	}
	for e.BeginA < e.EndA && e.BeginB < e.EndB && cmp.Eq(a, e.EndA-1, b, e.EndB-1) {
		e.EndA--
		e.EndB--
	}
}

// DiffAlgorithm computes the edits covering a region of A and B that is
// already known to have no common leading or trailing elements (the
// caller trims those via reduceCommonStartEnd before dispatching). It
// appends its edits, in A order, to result.
type DiffAlgorithm[S Sequence] interface {
	DiffNonCommon(ctx context.Context, cmp Comparator[S], a, b S, result *EditList) error
}
