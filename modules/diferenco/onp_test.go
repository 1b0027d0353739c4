package diferenco

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func runONP(t *testing.T, a, b runeSeq) EditList {
	t.Helper()
	var out EditList
	err := onpAlgorithm[runeSeq]{}.DiffNonCommon(context.Background(), runeComparator{}, a, b, &out)
	require.NoError(t, err)
	require.NoError(t, out.Validate(a.Len(), b.Len()))
	require.Equal(t, b, applyEdits(a, b, out))
	return out
}

func TestONPEmptyBoth(t *testing.T) {
	require.Empty(t, runONP(t, runeSeq{}, runeSeq{}))
}

func TestONPIdentical(t *testing.T) {
	require.Empty(t, runONP(t, runeSeq("abcdef"), runeSeq("abcdef")))
}

func TestONPPureInsertDelete(t *testing.T) {
	require.Equal(t, EditList{{0, 0, 0, 3}}, runONP(t, runeSeq{}, runeSeq("abc")))
	require.Equal(t, EditList{{0, 3, 0, 0}}, runONP(t, runeSeq("abc"), runeSeq{}))
}

func TestONPRoundTrip(t *testing.T) {
	cases := []struct{ a, b string }{
		{"abcdefg", "abXdeYg"},
		{"kitten", "sitting"},
		{"banana", "ananab"},
		{"short", "a much longer replacement string"},
		{"a much longer original string", "short"},
	}
	for _, c := range cases {
		runONP(t, runeSeq(c.a), runeSeq(c.b))
	}
}

func TestONPInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out EditList
	err := onpAlgorithm[runeSeq]{}.DiffNonCommon(ctx, runeComparator{}, runeSeq("abcdef"), runeSeq("ghijkl"), &out)
	require.ErrorIs(t, err, ErrInterrupted)
}
