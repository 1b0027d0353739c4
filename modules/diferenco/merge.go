package diferenco

import "context"

// SequenceIndex names which of the three merge inputs a MergeChunk's range
// belongs to.
type SequenceIndex int8

const (
	SeqBase SequenceIndex = iota
	SeqOurs
	SeqTheirs
)

func (s SequenceIndex) String() string {
	switch s {
	case SeqBase:
		return "base"
	case SeqOurs:
		return "ours"
	case SeqTheirs:
		return "theirs"
	default:
		return "unknown"
	}
}

// ConflictState tags a MergeChunk's role within (or outside) a conflict.
type ConflictState int8

const (
	// NoConflict chunks concatenate directly into the merged output.
	NoConflict ConflictState = iota
	// FirstConflictingRange is the ours-side interior of a conflict.
	FirstConflictingRange
	// BaseConflictingRange is the base-side interior, present only in
	// diff3-style output.
	BaseConflictingRange
	// NextConflictingRange is the theirs-side interior of a conflict.
	NextConflictingRange
)

func (c ConflictState) String() string {
	switch c {
	case NoConflict:
		return "no-conflict"
	case FirstConflictingRange:
		return "first"
	case BaseConflictingRange:
		return "base"
	case NextConflictingRange:
		return "next"
	default:
		return "unknown"
	}
}

// MergeChunk is a contiguous range from one of base/ours/theirs, tagged
// with its conflict role. Chunks concatenate, in order, to the merge's
// output under the conflict-resolution strategy that produced them.
type MergeChunk struct {
	Sequence SequenceIndex
	Begin    int
	End      int
	Conflict ConflictState
}

// MergeResult holds the three inputs to a merge alongside the chunk list
// describing how to assemble the output, and whether any conflict was
// left unresolved.
type MergeResult[S Sequence] struct {
	Base, Ours, Theirs S
	Chunks             []MergeChunk
	ContainsConflicts  bool
}

// ContentMergeStrategy picks how a merge resolves a region both ours and
// theirs modified relative to base.
type ContentMergeStrategy int8

const (
	// StrategyOurs silently prefers ours in every conflicting region.
	StrategyOurs ContentMergeStrategy = iota
	// StrategyTheirs silently prefers theirs in every conflicting region.
	StrategyTheirs
	// StrategyConflict emits conflict-marker chunks for every
	// conflicting region and sets ContainsConflicts.
	StrategyConflict
)

// Merge computes a three-way merge of ours and theirs against base: it
// diffs base against each side with algo, then walks the two edit lists
// in lock-step, combining overlapping edits into conflict regions that
// are resolved per strategy. Output is fully determined by (base, ours,
// theirs, cmp, algo, strategy).
func Merge[S Sequence](ctx context.Context, algo Algorithm, strategy ContentMergeStrategy, cmp Comparator[S], base, ours, theirs S) (*MergeResult[S], error) {
	res := &MergeResult[S]{Base: base, Ours: ours, Theirs: theirs}

	if ours.Len() == 0 && theirs.Len() == 0 {
		res.Chunks = []MergeChunk{{SeqOurs, 0, 0, NoConflict}}
		return res, nil
	}

	oursEdits, err := Diff(ctx, algo, cmp, base, ours)
	if err != nil {
		return nil, err
	}
	theirsEdits, err := Diff(ctx, algo, cmp, base, theirs)
	if err != nil {
		return nil, err
	}

	if ours.Len() == 0 && len(theirsEdits) > 0 {
		return emptySideResult(res, strategy, SeqOurs, ours.Len(), theirs.Len(), base.Len()), nil
	}
	if theirs.Len() == 0 && len(oursEdits) > 0 {
		return emptySideResult(res, strategy, SeqTheirs, ours.Len(), theirs.Len(), base.Len()), nil
	}

	w := &mergeWalk[S]{
		cmp: cmp, base: base, ours: ours, theirs: theirs,
		oursEdits: oursEdits, theirsEdits: theirsEdits,
		strategy: strategy, result: res,
	}
	w.run()
	return res, nil
}

// emptySideResult handles the degenerate cases where one side is entirely
// empty but the other genuinely diverged from base: emptySide names which
// of ours/theirs is the zero-length one.
func emptySideResult[S Sequence](res *MergeResult[S], strategy ContentMergeStrategy, emptySide SequenceIndex, oursLen, theirsLen, baseLen int) *MergeResult[S] {
	oursEnd, theirsEnd := oursLen, theirsLen
	if emptySide == SeqOurs {
		oursEnd = 0
	} else {
		theirsEnd = 0
	}
	switch strategy {
	case StrategyOurs:
		res.Chunks = []MergeChunk{{SeqOurs, 0, oursEnd, NoConflict}}
	case StrategyTheirs:
		res.Chunks = []MergeChunk{{SeqTheirs, 0, theirsEnd, NoConflict}}
	default: // StrategyConflict
		res.Chunks = []MergeChunk{
			{SeqOurs, 0, oursEnd, FirstConflictingRange},
			{SeqBase, 0, baseLen, BaseConflictingRange},
			{SeqTheirs, 0, theirsEnd, NextConflictingRange},
		}
		res.ContainsConflicts = true
	}
	return res
}

// mergeWalk holds the cursor state for the main lock-step pass over
// oursEdits and theirsEdits.
type mergeWalk[S Sequence] struct {
	cmp                Comparator[S]
	base, ours, theirs S
	oursEdits          EditList
	theirsEdits        EditList
	strategy           ContentMergeStrategy
	result             *MergeResult[S]
	i, j               int
	current            int
}

// emit appends a chunk. A NoConflict chunk is dropped when empty, since
// empty non-conflicting spans carry no information and would just be
// concatenation no-ops. A conflict-state chunk (FirstConflictingRange/
// BaseConflictingRange/NextConflictingRange) is never dropped for being
// empty: a conflict can have a genuinely zero-length interior on one
// side (pure insert vs pure delete), and FirstConflictingRange must
// still be emitted so it can pair with its NextConflictingRange —
// formatter.go's opening "<<<<<<<" marker is keyed on that chunk
// existing at all, not on its length.
func (w *mergeWalk[S]) emit(seq SequenceIndex, begin, end int, state ConflictState) {
	if state == NoConflict && begin >= end {
		return
	}
	w.result.Chunks = append(w.result.Chunks, MergeChunk{seq, begin, end, state})
}

func (w *mergeWalk[S]) flushBase(end int) {
	w.emit(SeqBase, w.current, end, NoConflict)
	w.current = end
}

func (w *mergeWalk[S]) run() {
	for w.i < len(w.oursEdits) || w.j < len(w.theirsEdits) {
		hasO := w.i < len(w.oursEdits)
		hasT := w.j < len(w.theirsEdits)

		var oe, te Edit
		if hasO {
			oe = w.oursEdits[w.i]
		}
		if hasT {
			te = w.theirsEdits[w.j]
		}

		switch {
		case hasO && (!hasT || oe.EndA < te.BeginA):
			w.flushBase(oe.BeginA)
			w.emit(SeqOurs, oe.BeginB, oe.EndB, NoConflict)
			w.current = oe.EndA
			w.i++
		case hasT && (!hasO || te.EndA < oe.BeginA):
			w.flushBase(te.BeginA)
			w.emit(SeqTheirs, te.BeginB, te.EndB, NoConflict)
			w.current = te.EndA
			w.j++
		default:
			w.flushBase(min(oe.BeginA, te.BeginA))
			w.processOverlap()
		}
	}
	w.flushBase(w.base.Len())
}

// processOverlap resolves one conflict region, consuming every ours/
// theirs edit that cascades into it, and advances current past the
// combined region.
func (w *mergeWalk[S]) processOverlap() {
	oe := w.oursEdits[w.i]
	te := w.theirsEdits[w.j]

	// Align begins by back-dating whichever side starts later: the
	// begin moves back to match, the end is untouched.
	if oe.BeginA < te.BeginA {
		gap := te.BeginA - oe.BeginA
		te = Edit{te.BeginA - gap, te.EndA, te.BeginB - gap, te.EndB}
	} else if te.BeginA < oe.BeginA {
		gap := oe.BeginA - te.BeginA
		oe = Edit{oe.BeginA - gap, oe.EndA, oe.BeginB - gap, oe.EndB}
	}

	// Combine cascading overlaps: keep swallowing the next edit on
	// either side while it starts inside the other side's current span.
	for {
		advanced := false
		if w.i+1 < len(w.oursEdits) && w.oursEdits[w.i+1].BeginA < te.EndA {
			w.i++
			oe.EndA, oe.EndB = w.oursEdits[w.i].EndA, w.oursEdits[w.i].EndB
			advanced = true
		}
		if w.j+1 < len(w.theirsEdits) && w.theirsEdits[w.j+1].BeginA < oe.EndA {
			w.j++
			te.EndA, te.EndB = w.theirsEdits[w.j].EndA, w.theirsEdits[w.j].EndB
			advanced = true
		}
		if !advanced {
			break
		}
	}

	// Align ends by forward-dating whichever side ends earlier.
	if oe.EndA < te.EndA {
		gap := te.EndA - oe.EndA
		oe = Edit{oe.BeginA, oe.EndA + gap, oe.BeginB, oe.EndB + gap}
	} else if te.EndA < oe.EndA {
		gap := oe.EndA - te.EndA
		te = Edit{te.BeginA, te.EndA + gap, te.BeginB, te.EndB + gap}
	}

	oB0, oB1 := oe.BeginB, oe.EndB
	tB0, tB1 := te.BeginB, te.EndB
	oLen, tLen := oB1-oB0, tB1-tB0
	bound := min(oLen, tLen)

	commonPrefix := 0
	for commonPrefix < bound && w.cmp.Eq(w.ours, oB0+commonPrefix, w.theirs, tB0+commonPrefix) {
		commonPrefix++
	}
	commonSuffix := 0
	maxSuffix := bound - commonPrefix
	for commonSuffix < maxSuffix && w.cmp.Eq(w.ours, oB1-1-commonSuffix, w.theirs, tB1-1-commonSuffix) {
		commonSuffix++
	}

	w.emit(SeqOurs, oB0, oB0+commonPrefix, NoConflict)

	if oLen-commonPrefix-commonSuffix > 0 || oLen != tLen {
		oursBegin, oursEnd := oB0+commonPrefix, oB1-commonSuffix
		theirsBegin, theirsEnd := tB0+commonPrefix, tB1-commonSuffix
		baseBegin := min(oe.BeginA, te.BeginA) + commonPrefix
		baseEnd := min(w.base.Len(), max(oe.EndA, te.EndA)) - commonSuffix

		switch w.strategy {
		case StrategyOurs:
			w.emit(SeqOurs, oursBegin, oursEnd, NoConflict)
		case StrategyTheirs:
			w.emit(SeqTheirs, theirsBegin, theirsEnd, NoConflict)
		default: // StrategyConflict
			w.emit(SeqOurs, oursBegin, oursEnd, FirstConflictingRange)
			w.emit(SeqBase, baseBegin, baseEnd, BaseConflictingRange)
			w.emit(SeqTheirs, theirsBegin, theirsEnd, NextConflictingRange)
			w.result.ContainsConflicts = true
		}
	}

	w.emit(SeqOurs, oB1-commonSuffix, oB1, NoConflict)

	w.current = max(oe.EndA, te.EndA)
	w.i++
	w.j++
}
