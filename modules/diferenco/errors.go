package diferenco

import "errors"

// Sentinel errors returned by diff and merge operations. Callers should
// compare with errors.Is, since call sites wrap these with additional
// context via fmt.Errorf("...: %w", ...).
var (
	// ErrInterrupted is returned when a caller-supplied context is
	// cancelled mid-algorithm. No partial output is produced.
	ErrInterrupted = errors.New("diferenco: interrupted")

	// ErrBinaryBlob is returned by binary-safe line indexing when the
	// buffer contains a NUL byte or a lone CR outside a CRLF pair.
	ErrBinaryBlob = errors.New("diferenco: binary content")

	// ErrSequenceTooLarge is returned by Histogram when a region's
	// element positions would overflow the packed record's pointer
	// field.
	ErrSequenceTooLarge = errors.New("diferenco: sequence too large")

	// ErrInvalidInput is returned when an Edit or region fails its
	// basic bounds invariants.
	ErrInvalidInput = errors.New("diferenco: invalid edit")
)
