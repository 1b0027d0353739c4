package diferenco

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// render concatenates a MergeResult's chunks into the sequence each would
// produce in a text rendering, used to assert merge outcomes without a
// formatter.
func render(res *MergeResult[wordSeq]) wordSeq {
	var out wordSeq
	for _, c := range res.Chunks {
		var src wordSeq
		switch c.Sequence {
		case SeqBase:
			src = res.Base
		case SeqOurs:
			src = res.Ours
		case SeqTheirs:
			src = res.Theirs
		}
		out = append(out, src[c.Begin:c.End]...)
	}
	return out
}

func runMerge(t *testing.T, strategy ContentMergeStrategy, base, ours, theirs wordSeq) *MergeResult[wordSeq] {
	t.Helper()
	res, err := Merge[wordSeq](context.Background(), Myers, strategy, wordComparator{}, base, ours, theirs)
	require.NoError(t, err)
	return res
}

// TestMergeScenarioD reproduces the clean three-way merge: non-overlapping
// single-word edits on each side combine without conflict.
func TestMergeScenarioD(t *testing.T) {
	base := words("1 2 3 4 5")
	ours := words("1 2a 3 4 5")
	theirs := words("1 2 3 4a 5")
	res := runMerge(t, StrategyConflict, base, ours, theirs)
	require.False(t, res.ContainsConflicts)
	require.Equal(t, words("1 2a 3 4a 5"), render(res))
}

// TestMergeScenarioE reproduces the conflict-with-common-context case: a
// common prefix/suffix word survives outside the conflict markers, and
// the two interiors plus the base interior are tagged FIRST/BASE/NEXT.
func TestMergeScenarioE(t *testing.T) {
	base := words("x A B C y")
	ours := words("x A P C y")
	theirs := words("x A Q C y")
	res := runMerge(t, StrategyConflict, base, ours, theirs)
	require.True(t, res.ContainsConflicts)

	var first, baseChunk, next *MergeChunk
	for i := range res.Chunks {
		switch res.Chunks[i].Conflict {
		case FirstConflictingRange:
			first = &res.Chunks[i]
		case BaseConflictingRange:
			baseChunk = &res.Chunks[i]
		case NextConflictingRange:
			next = &res.Chunks[i]
		}
	}
	require.NotNil(t, first)
	require.NotNil(t, baseChunk)
	require.NotNil(t, next)
	require.Equal(t, wordSeq{"P"}, ours[first.Begin:first.End])
	require.Equal(t, wordSeq{"B"}, base[baseChunk.Begin:baseChunk.End])
	require.Equal(t, wordSeq{"Q"}, theirs[next.Begin:next.End])
}

// TestMergeScenarioF reproduces delete-vs-modify under all three
// strategies.
func TestMergeScenarioF(t *testing.T) {
	base := words("a b c")
	ours := wordSeq{}
	theirs := words("a B c")

	conflict := runMerge(t, StrategyConflict, base, ours, theirs)
	require.True(t, conflict.ContainsConflicts)
	require.Equal(t, []MergeChunk{
		{SeqOurs, 0, 0, FirstConflictingRange},
		{SeqBase, 0, 3, BaseConflictingRange},
		{SeqTheirs, 0, 3, NextConflictingRange},
	}, conflict.Chunks)

	oursResult := runMerge(t, StrategyOurs, base, ours, theirs)
	require.False(t, oursResult.ContainsConflicts)
	require.Empty(t, render(oursResult))

	theirsResult := runMerge(t, StrategyTheirs, base, ours, theirs)
	require.False(t, theirsResult.ContainsConflicts)
	require.Equal(t, theirs, render(theirsResult))
}

// TestMergeIdempotence checks invariant 4: merging X against itself on
// both sides yields one NO_CONFLICT chunk covering all of X.
func TestMergeIdempotence(t *testing.T) {
	x := words("the quick brown fox jumps over")
	res := runMerge(t, StrategyConflict, x, x, x)
	require.False(t, res.ContainsConflicts)
	require.Equal(t, x, render(res))
	for _, c := range res.Chunks {
		require.Equal(t, NoConflict, c.Conflict)
	}
}

func TestMergeBothEmpty(t *testing.T) {
	res := runMerge(t, StrategyConflict, wordSeq{}, wordSeq{}, wordSeq{})
	require.False(t, res.ContainsConflicts)
	require.Empty(t, render(res))
}

// TestMergeSymmetry checks invariant 5: swapping ours and theirs mirrors
// the chunk list, with FIRST/NEXT conflict labels swapped. A conflict is
// always emitted FIRST, BASE, NEXT, so the mirror of a FIRST chunk is the
// NEXT chunk two places later, and the other way round.
func TestMergeSymmetry(t *testing.T) {
	base := words("x A B C y")
	ours := words("x A P C y")
	theirs := words("x A Q C y")

	forward := runMerge(t, StrategyConflict, base, ours, theirs)
	backward := runMerge(t, StrategyConflict, base, theirs, ours)

	require.Equal(t, len(forward.Chunks), len(backward.Chunks))
	for i := range forward.Chunks {
		mi := i
		switch forward.Chunks[i].Conflict {
		case FirstConflictingRange:
			mi = i + 2
		case NextConflictingRange:
			mi = i - 2
		}
		f, b := forward.Chunks[i], backward.Chunks[mi]
		require.Equal(t, f.Begin, b.Begin)
		require.Equal(t, f.End, b.End)
		switch f.Conflict {
		case FirstConflictingRange:
			require.Equal(t, NextConflictingRange, b.Conflict)
			require.Equal(t, SeqOurs, f.Sequence)
			require.Equal(t, SeqTheirs, b.Sequence)
		case NextConflictingRange:
			require.Equal(t, FirstConflictingRange, b.Conflict)
			require.Equal(t, SeqTheirs, f.Sequence)
			require.Equal(t, SeqOurs, b.Sequence)
		case BaseConflictingRange:
			require.Equal(t, BaseConflictingRange, b.Conflict)
		default:
			require.Equal(t, f.Conflict, b.Conflict)
			require.Equal(t, f.Sequence, b.Sequence)
		}
	}
}

// TestMergeScenarioDeleteVsAdjacentInsert reproduces a conflict whose ours
// interior is genuinely zero-length: ours deletes a word theirs left in
// place while inserting right after it. The FirstConflictingRange chunk
// must still appear (empty) so it pairs with its NextConflictingRange,
// rather than being dropped the way an empty NoConflict chunk would be.
func TestMergeScenarioDeleteVsAdjacentInsert(t *testing.T) {
	base := words("1 2 3")
	ours := words("1 3")
	theirs := words("1 2 X 3")

	res := runMerge(t, StrategyConflict, base, ours, theirs)
	require.True(t, res.ContainsConflicts)
	require.Equal(t, []MergeChunk{
		{SeqBase, 0, 1, NoConflict},
		{SeqOurs, 1, 1, FirstConflictingRange},
		{SeqBase, 1, 2, BaseConflictingRange},
		{SeqTheirs, 1, 3, NextConflictingRange},
		{SeqBase, 2, 3, NoConflict},
	}, res.Chunks)
}

func TestMergeNonOverlappingCascade(t *testing.T) {
	base := words("a b c d e f g")
	ours := words("a X c Y e f g")
	theirs := words("a b c d e Z g")
	res := runMerge(t, StrategyConflict, base, ours, theirs)
	require.False(t, res.ContainsConflicts)
	require.Equal(t, words("a X c Y e Z g"), render(res))
}
