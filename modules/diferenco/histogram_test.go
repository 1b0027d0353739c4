package diferenco

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func runHistogram(t *testing.T, a, b runeSeq) EditList {
	t.Helper()
	var out EditList
	err := HistogramAlgorithm[runeSeq]{}.DiffNonCommon(context.Background(), runeComparator{}, a, b, &out)
	require.NoError(t, err)
	require.NoError(t, out.Validate(a.Len(), b.Len()))
	require.Equal(t, b, applyEdits(a, b, out))
	return out
}

func TestHistogramEmptyBoth(t *testing.T) {
	require.Empty(t, runHistogram(t, runeSeq{}, runeSeq{}))
}

func TestHistogramPureInsertDelete(t *testing.T) {
	require.Equal(t, EditList{{0, 0, 0, 3}}, runHistogram(t, runeSeq{}, runeSeq("abc")))
	require.Equal(t, EditList{{0, 3, 0, 0}}, runHistogram(t, runeSeq("abc"), runeSeq{}))
}

func TestHistogramIdentical(t *testing.T) {
	require.Empty(t, runHistogram(t, runeSeq("abcdefgh"), runeSeq("abcdefgh")))
}

func TestHistogramSingleReplace(t *testing.T) {
	require.Equal(t, EditList{{0, 1, 0, 1}}, runHistogram(t, runeSeq("a"), runeSeq("b")))
}

func TestHistogramAnchorsOnRareElement(t *testing.T) {
	// "x" occurs once in both, flanked by repeated "a": Histogram should
	// anchor on it and isolate the differing runs either side.
	out := runHistogram(t, runeSeq("aaaxaaa"), runeSeq("bbbxccc"))
	require.NotEmpty(t, out)
	for i := 1; i < len(out); i++ {
		require.Less(t, out[i-1].EndA, out[i].BeginA+1)
	}
}

func TestHistogramNoCommonElements(t *testing.T) {
	require.Equal(t, EditList{{0, 4, 0, 4}}, runHistogram(t, runeSeq("aaaa"), runeSeq("bbbb")))
}

// TestHistogramMatchesMyersRoundTrip cross-checks Histogram against
// Myers on the same inputs: both must reconstruct b from a even though
// the two algorithms may choose different edit scripts to do it.
func TestHistogramMatchesMyersRoundTrip(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", ""},
		{"abcdefg", "abXdeYg"},
		{"banana", "ananab"},
		{"the quick brown fox", "the slow brown dog"},
		{"{{{{{{", "}}}}}}"},
	}
	for _, c := range cases {
		a, b := runeSeq(c.a), runeSeq(c.b)
		myers := runMyers(t, a, b)
		hist := runHistogram(t, a, b)
		require.Equal(t, b, applyEdits(a, b, myers))
		require.Equal(t, b, applyEdits(a, b, hist))
	}
}

func TestHistogramDenseChainFallsBack(t *testing.T) {
	// Every element is the same rune, forcing the occurrence chain past
	// any reasonable density threshold; the low MaxChainLength here
	// exercises the fallback path on a region that would otherwise
	// require a much bigger input to trigger the default of 64.
	a := make(runeSeq, 50)
	b := make(runeSeq, 60)
	for i := range a {
		a[i] = 'x'
	}
	for i := range b {
		b[i] = 'x'
	}
	b[59] = 'y'
	var out EditList
	err := HistogramAlgorithm[runeSeq]{MaxChainLength: 4}.DiffNonCommon(context.Background(), runeComparator{}, a, b, &out)
	require.NoError(t, err)
	require.NoError(t, out.Validate(a.Len(), b.Len()))
	require.Equal(t, b, applyEdits(a, b, out))
}

func TestHistogramInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out EditList
	err := HistogramAlgorithm[runeSeq]{}.DiffNonCommon(ctx, runeComparator{}, runeSeq("abcdef"), runeSeq("ghijkl"), &out)
	require.ErrorIs(t, err, ErrInterrupted)
}
