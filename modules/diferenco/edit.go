package diferenco

import "fmt"

// EditType classifies an Edit by which side of the rectangle is non-empty.
type EditType int8

const (
	// EditEmpty means both sides are empty; never produced by a diff,
	// only used transiently while trimming common ends.
	EditEmpty EditType = iota
	// EditInsert means lengthA == 0, lengthB > 0.
	EditInsert
	// EditDelete means lengthA > 0, lengthB == 0.
	EditDelete
	// EditReplace means both lengths are > 0.
	EditReplace
)

func (t EditType) String() string {
	switch t {
	case EditEmpty:
		return "EMPTY"
	case EditInsert:
		return "INSERT"
	case EditDelete:
		return "DELETE"
	case EditReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Edit is a half-open rectangle [BeginA, EndA) x [BeginB, EndB) describing
// how a region of B replaces a region of A.
type Edit struct {
	BeginA, EndA int
	BeginB, EndB int
}

// NewEdit returns the Edit covering [beginA,endA) x [beginB,endB).
func NewEdit(beginA, endA, beginB, endB int) Edit {
	return Edit{BeginA: beginA, EndA: endA, BeginB: beginB, EndB: endB}
}

// LengthA returns EndA - BeginA.
func (e Edit) LengthA() int { return e.EndA - e.BeginA }

// LengthB returns EndB - BeginB.
func (e Edit) LengthB() int { return e.EndB - e.BeginB }

// Type classifies the edit per the EMPTY/INSERT/DELETE/REPLACE rule.
func (e Edit) Type() EditType {
	la, lb := e.LengthA(), e.LengthB()
	switch {
	case la == 0 && lb == 0:
		return EditEmpty
	case la == 0:
		return EditInsert
	case lb == 0:
		return EditDelete
	default:
		return EditReplace
	}
}

// Valid reports whether the edit satisfies the basic bounds invariant:
// non-negative, ordered bounds.
func (e Edit) Valid() bool {
	return e.BeginA >= 0 && e.BeginA <= e.EndA && e.BeginB >= 0 && e.BeginB <= e.EndB
}

// Shift translates all four bounds by k.
func (e Edit) Shift(k int) Edit {
	return Edit{e.BeginA + k, e.EndA + k, e.BeginB + k, e.EndB + k}
}

// Before returns the portion of e preceding cut, an absolute A index with
// BeginA <= cut <= EndA. The B side is cut on the diagonal: it ends
// cut-BeginA elements after BeginB, so it is not scaled to e's B extent.
func (e Edit) Before(cut int) Edit {
	delta := cut - e.BeginA
	return Edit{e.BeginA, cut, e.BeginB, e.BeginB + delta}
}

// After returns the portion of e following cut, symmetric to Before.
func (e Edit) After(cut int) Edit {
	delta := e.EndA - cut
	return Edit{cut, e.EndA, e.EndB - delta, e.EndB}
}

func (e Edit) String() string {
	return fmt.Sprintf("%s(%d-%d,%d-%d)", e.Type(), e.BeginA, e.EndA, e.BeginB, e.EndB)
}

// EditList is an ordered, non-overlapping list of edits sorted by BeginA.
type EditList []Edit

// Validate checks the cross-edit invariants: bounds inside [0,maxA) x
// [0,maxB), no two edits overlapping on the A or B axis, sorted by
// BeginA.
func (l EditList) Validate(maxA, maxB int) error {
	prevA, prevB := 0, 0
	for _, e := range l {
		if !e.Valid() || e.EndA > maxA || e.EndB > maxB {
			return fmt.Errorf("%w: %s out of [0,%d)x[0,%d)", ErrInvalidInput, e, maxA, maxB)
		}
		if e.BeginA < prevA || e.BeginB < prevB {
			return fmt.Errorf("%w: %s overlaps or is out of order", ErrInvalidInput, e)
		}
		prevA, prevB = e.EndA, e.EndB
	}
	return nil
}
