package diferenco

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText renders buf as text for marker/label output: valid UTF-8 is
// returned unchanged, anything else falls back to Latin-1 (ISO-8859-1),
// which decodes every byte value and therefore never fails. This is the
// full extent of charset awareness the core takes on; broader
// autodetection belongs to a surrounding system, not this package.
func decodeText(buf []byte) string {
	if utf8.Valid(buf) {
		return string(buf)
	}
	s, err := charmap.ISO8859_1.NewDecoder().String(string(buf))
	if err != nil {
		// charmap.ISO8859_1 is a single-byte, total mapping; the decoder
		// cannot fail, but keep a safe fallback rather than panic.
		return string(buf)
	}
	return s
}
