// Package diferenco computes textual diffs between two versions of a
// sequence and performs three-way merges on the resulting edit lists.
//
// The package never materializes the elements it compares: a Sequence is
// only a length, and all equality/hash decisions are delegated to a
// Comparator. This lets the same Myers and Histogram implementations run
// over lines, runes, or any other element domain a caller wraps in a
// Sequence, and lets HashedSequence and Subsequence wrap any base
// sequence without copying it.
package diferenco
