package diferenco

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// runeSeq is a minimal Sequence over a rune slice, used to exercise the
// algorithms directly without going through LineSequence.
type runeSeq []rune

func (s runeSeq) Len() int { return len(s) }

type runeComparator struct{}

func (runeComparator) Eq(a runeSeq, i int, b runeSeq, j int) bool { return a[i] == b[j] }
func (runeComparator) Hash(s runeSeq, i int) uint32               { return uint32(s[i]) }

// applyEdits reconstructs b from a and the edits, for a round-trip check.
func applyEdits(a, b runeSeq, edits EditList) runeSeq {
	out := make(runeSeq, 0, len(b))
	prevA := 0
	for _, e := range edits {
		out = append(out, a[prevA:e.BeginA]...)
		out = append(out, b[e.BeginB:e.EndB]...)
		prevA = e.EndA
	}
	out = append(out, a[prevA:]...)
	return out
}

func runMyers(t *testing.T, a, b runeSeq) EditList {
	t.Helper()
	var out EditList
	err := MyersAlgorithm[runeSeq]{}.DiffNonCommon(context.Background(), runeComparator{}, a, b, &out)
	require.NoError(t, err)
	require.NoError(t, out.Validate(a.Len(), b.Len()))
	require.Equal(t, b, applyEdits(a, b, out))
	return out
}

func TestMyersEmptyBoth(t *testing.T) {
	out := runMyers(t, runeSeq{}, runeSeq{})
	require.Empty(t, out)
}

func TestMyersPureInsert(t *testing.T) {
	out := runMyers(t, runeSeq{}, runeSeq("abc"))
	require.Equal(t, EditList{{0, 0, 0, 3}}, out)
}

func TestMyersPureDelete(t *testing.T) {
	out := runMyers(t, runeSeq("abc"), runeSeq{})
	require.Equal(t, EditList{{0, 3, 0, 0}}, out)
}

func TestMyersSingleReplace(t *testing.T) {
	out := runMyers(t, runeSeq("a"), runeSeq("b"))
	require.Equal(t, EditList{{0, 1, 0, 1}}, out)
}

func TestMyersMiddleReplace(t *testing.T) {
	// "abc" vs "aXYc": common prefix "a", common suffix "c", middle "b"
	// replaced by "XY".
	out := runMyers(t, runeSeq("abc"), runeSeq("aXYc"))
	require.Len(t, out, 1)
	e := out[0]
	require.Equal(t, EditReplace, e.Type())
	require.Equal(t, 1, e.BeginA)
	require.Equal(t, 2, e.EndA)
	require.Equal(t, 1, e.BeginB)
	require.Equal(t, 3, e.EndB)
}

func TestMyersInterleavedCommonRuns(t *testing.T) {
	out := runMyers(t, runeSeq("abcabba"), runeSeq("cbabac"))
	for i := 1; i < len(out); i++ {
		require.Less(t, out[i-1].EndA, out[i].BeginA+1)
	}
}

func TestMyersNoCommonElements(t *testing.T) {
	out := runMyers(t, runeSeq("aaaa"), runeSeq("bbbb"))
	require.Equal(t, EditList{{0, 4, 0, 4}}, out)
}

func TestMyersIdentical(t *testing.T) {
	out := runMyers(t, runeSeq("abcdef"), runeSeq("abcdef"))
	require.Empty(t, out)
}

func TestMyersInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out EditList
	err := MyersAlgorithm[runeSeq]{}.DiffNonCommon(ctx, runeComparator{}, runeSeq("abcdef"), runeSeq("ghijkl"), &out)
	require.ErrorIs(t, err, ErrInterrupted)
}

// TestMyersRoundTrip checks the round-trip and ordering invariants hold
// across a spread of small inputs; optimality of the edit script is not
// asserted, only that applying it reproduces b exactly.
func TestMyersRoundTrip(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", ""},
		{"x", ""},
		{"", "x"},
		{"abcdefg", "abXdeYg"},
		{"abcdefg", "gfedcba"},
		{"aaaaaaaa", "aaaaaaaa"},
		{"banana", "ananab"},
		{"kitten", "sitting"},
	}
	for _, c := range cases {
		runMyers(t, runeSeq(c.a), runeSeq(c.b))
	}
}
