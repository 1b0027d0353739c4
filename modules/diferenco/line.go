package diferenco

import (
	"bytes"
	"io"
)

const minBinaryScanHead = 8 << 10 // 8 KiB, the floor spec.md requires for the head scan

// LineMap holds a line-start table over a shared byte buffer: lines[0] is
// an unused sentinel, lines[k] is the offset of line k-1 for k in
// [1,N], and lines[N+1] is the end of the scanned range. Lines are split
// on 0x0A; the final line may lack a trailing LF.
type LineMap struct {
	lines []int
}

func newLineMap(buf []byte, p, e int) LineMap {
	lm := LineMap{lines: make([]int, 1, 2+(e-p)/36)}
	lm.lines[0] = -1 // sentinel, never read
	lm.lines = append(lm.lines, p)
	for i := p; i < e; i++ {
		if buf[i] == '\n' {
			lm.lines = append(lm.lines, i+1)
		}
	}
	// A buffer ending exactly on a LF already has an entry equal to e
	// from the loop above; only append it if that's not the case,
	// otherwise a trailing empty line would be counted that doesn't
	// exist in the source.
	if lm.lines[len(lm.lines)-1] != e {
		lm.lines = append(lm.lines, e)
	}
	return lm
}

// newLineMapBinarySafe behaves like newLineMap but fails fast with
// ErrBinaryBlob when it encounters a NUL byte or a CR that is not
// immediately followed by LF; buf is always the complete content (never
// a truncated prefix), so any lone CR is conclusive.
func newLineMapBinarySafe(buf []byte, p, e int) (LineMap, error) {
	lm := LineMap{lines: make([]int, 1, 2+(e-p)/36)}
	lm.lines[0] = -1
	lm.lines = append(lm.lines, p)
	for i := p; i < e; i++ {
		switch buf[i] {
		case 0:
			return LineMap{}, ErrBinaryBlob
		case '\r':
			if i+1 >= e || buf[i+1] != '\n' {
				return LineMap{}, ErrBinaryBlob
			}
		case '\n':
			lm.lines = append(lm.lines, i+1)
		}
	}
	if lm.lines[len(lm.lines)-1] != e {
		lm.lines = append(lm.lines, e)
	}
	return lm, nil
}

// Len returns the number of lines.
func (lm LineMap) Len() int { return len(lm.lines) - 2 }

// Range returns the half-open byte range [start,end) of line i.
func (lm LineMap) Range(i int) (int, int) { return lm.lines[i+1], lm.lines[i+2] }

// LineSequence is a Sequence over the lines of a shared, read-only byte
// buffer.
type LineSequence struct {
	Buf []byte
	lm  LineMap
}

// BuildLineSequence indexes buf's lines without copying it.
func BuildLineSequence(buf []byte) *LineSequence {
	return &LineSequence{Buf: buf, lm: newLineMap(buf, 0, len(buf))}
}

// BuildLineSequenceBinarySafe is like BuildLineSequence but returns
// ErrBinaryBlob instead of indexing content that looks binary.
func BuildLineSequenceBinarySafe(buf []byte) (*LineSequence, error) {
	lm, err := newLineMapBinarySafe(buf, 0, len(buf))
	if err != nil {
		return nil, err
	}
	return &LineSequence{Buf: buf, lm: lm}, nil
}

// Len implements Sequence.
func (s *LineSequence) Len() int { return s.lm.Len() }

// LineBytes returns line i's bytes, delimiter included if present.
func (s *LineSequence) LineBytes(i int) []byte {
	start, end := s.lm.Range(i)
	return s.Buf[start:end]
}

// HasTrailingNewline reports whether line i ends in LF.
func (s *LineSequence) HasTrailingNewline(i int) bool {
	b := s.LineBytes(i)
	return len(b) > 0 && b[len(b)-1] == '\n'
}

// WriteLine writes line i with any trailing LF stripped; it never
// synthesizes a delimiter the source line didn't have.
func (s *LineSequence) WriteLine(w io.Writer, i int) (int, error) {
	b := bytes.TrimSuffix(s.LineBytes(i), []byte{'\n'})
	return w.Write(b)
}

func djb2(b []byte) uint32 {
	var h uint32 = 5381
	for _, c := range b {
		h = ((h << 5) + h) + uint32(c)
	}
	return h
}

func scanMarkers(buf []byte) (hasNul, hasLoneCR, hasCRLF bool) {
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case 0:
			hasNul = true
		case '\r':
			if i+1 < len(buf) && buf[i+1] == '\n' {
				hasCRLF = true
				i++
			} else {
				hasLoneCR = true
			}
		}
	}
	return
}

// IsBinary reports whether buf looks like binary content: a NUL byte or
// a CR not immediately followed by LF anywhere in its first 8 KiB (or
// headSize bytes, whichever is larger) marks it binary.
func IsBinary(buf []byte, headSize int) bool {
	if headSize < minBinaryScanHead {
		headSize = minBinaryScanHead
	}
	if headSize > len(buf) {
		headSize = len(buf)
	}
	hasNul, hasLoneCR, _ := scanMarkers(buf[:headSize])
	return hasNul || hasLoneCR
}

// IsCrLfText reports whether buf contains at least one CRLF pair and no
// binary marker, within the same head-scan window as IsBinary.
func IsCrLfText(buf []byte, headSize int) bool {
	if headSize < minBinaryScanHead {
		headSize = minBinaryScanHead
	}
	if headSize > len(buf) {
		headSize = len(buf)
	}
	hasNul, hasLoneCR, hasCRLF := scanMarkers(buf[:headSize])
	return hasCRLF && !hasNul && !hasLoneCR
}

// LineComparator compares lines as raw byte ranges, delimiter included.
type LineComparator struct{}

// Eq implements Comparator[*LineSequence].
func (LineComparator) Eq(a *LineSequence, i int, b *LineSequence, j int) bool {
	return bytes.Equal(a.LineBytes(i), b.LineBytes(j))
}

// Hash implements Comparator[*LineSequence].
func (LineComparator) Hash(s *LineSequence, i int) uint32 {
	return djb2(s.LineBytes(i))
}

// ReduceCommonStartEnd specializes the generic scan to compare raw line
// bytes directly instead of going through the Comparator interface; it
// only ever advances by whole lines, so the result already sits on line
// boundaries.
func (LineComparator) ReduceCommonStartEnd(a, b *LineSequence, e *Edit) {
	for e.BeginA < e.EndA && e.BeginB < e.EndB && bytes.Equal(a.LineBytes(e.BeginA), b.LineBytes(e.BeginB)) {
		e.BeginA++
		e.BeginB++
	}
	for e.BeginA < e.EndA && e.BeginB < e.EndB && bytes.Equal(a.LineBytes(e.EndA-1), b.LineBytes(e.EndB-1)) {
		e.EndA--
		e.EndB--
	}
}

func splitContentDelim(b []byte) (content, delim []byte) {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		if n > 1 && b[n-2] == '\r' {
			return b[:n-2], b[n-2:]
		}
		return b[:n-1], b[n-1:]
	}
	return b, nil
}

type spaceMode int8

const (
	spaceIgnoreAll spaceMode = iota
	spaceIgnoreLeading
	spaceIgnoreTrailing
	spaceIgnoreChange
)

// whitespaceLineComparator backs the four optional ignore-space
// comparators: same contract as LineComparator, compared and hashed
// after a whitespace normalization pass over each line's content (the
// delimiter itself is always compared exactly).
type whitespaceLineComparator struct{ mode spaceMode }

func (c whitespaceLineComparator) normalize(b []byte) []byte {
	switch c.mode {
	case spaceIgnoreAll:
		out := make([]byte, 0, len(b))
		for _, ch := range b {
			if ch == ' ' || ch == '\t' {
				continue
			}
			out = append(out, ch)
		}
		return out
	case spaceIgnoreLeading:
		return bytes.TrimLeft(b, " \t")
	case spaceIgnoreTrailing:
		return bytes.TrimRight(b, " \t")
	default: // spaceIgnoreChange
		b = bytes.TrimLeft(b, " \t")
		b = bytes.TrimRight(b, " \t")
		out := make([]byte, 0, len(b))
		lastSpace := false
		for _, ch := range b {
			if ch == ' ' || ch == '\t' {
				if lastSpace {
					continue
				}
				lastSpace = true
				out = append(out, ' ')
				continue
			}
			lastSpace = false
			out = append(out, ch)
		}
		return out
	}
}

// Eq implements Comparator[*LineSequence].
func (c whitespaceLineComparator) Eq(a *LineSequence, i int, b *LineSequence, j int) bool {
	ca, da := splitContentDelim(a.LineBytes(i))
	cb, db := splitContentDelim(b.LineBytes(j))
	return bytes.Equal(c.normalize(ca), c.normalize(cb)) && bytes.Equal(da, db)
}

// Hash implements Comparator[*LineSequence].
func (c whitespaceLineComparator) Hash(s *LineSequence, i int) uint32 {
	content, delim := splitContentDelim(s.LineBytes(i))
	h := djb2(c.normalize(content))
	for _, d := range delim {
		h = ((h << 5) + h) + uint32(d)
	}
	return h
}

var (
	// IgnoreAllSpaceComparator ignores every space and tab in a line's
	// content when comparing and hashing.
	IgnoreAllSpaceComparator Comparator[*LineSequence] = whitespaceLineComparator{mode: spaceIgnoreAll}
	// IgnoreLeadingSpaceComparator ignores leading space/tab runs.
	IgnoreLeadingSpaceComparator Comparator[*LineSequence] = whitespaceLineComparator{mode: spaceIgnoreLeading}
	// IgnoreTrailingSpaceComparator ignores trailing space/tab runs.
	IgnoreTrailingSpaceComparator Comparator[*LineSequence] = whitespaceLineComparator{mode: spaceIgnoreTrailing}
	// IgnoreChangeSpaceComparator ignores leading/trailing space/tab and
	// collapses internal runs to a single space.
	IgnoreChangeSpaceComparator Comparator[*LineSequence] = whitespaceLineComparator{mode: spaceIgnoreChange}
)
