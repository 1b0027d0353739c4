package diferenco

import (
	"context"

	"github.com/sirupsen/logrus"
)

// MyersAlgorithm is Eugene W. Myers' "An O(ND) Difference Algorithm and
// Its Variations" (1986), run bidirectionally: a forward D-path grown
// from (bA,bB) and a backward D-path grown from (eA,eB) are advanced one
// depth at a time until they cross, giving a split point in O(ND) time
// and O(N+M) space without ever materializing a full edit graph. Each
// side of the crossing point is then solved independently the same way,
// recursing to a depth of O(log(N+M)).
type MyersAlgorithm[S Sequence] struct{}

// DiffNonCommon implements DiffAlgorithm[S].
func (MyersAlgorithm[S]) DiffNonCommon(ctx context.Context, cmp Comparator[S], a, b S, result *EditList) error {
	r := &myersRun[S]{ctx: ctx, cmp: cmp, a: a, b: b}
	return r.bisect(0, a.Len(), 0, b.Len(), result)
}

// myersRun owns the scratch state for one top-level Diff call: the two
// V arrays are reused, grown on demand, across every recursive
// bisection this call makes.
type myersRun[S Sequence] struct {
	ctx    context.Context
	cmp    Comparator[S]
	a, b   S
	vf, vb []int
}

func (r *myersRun[S]) ensureCapacity(n int) {
	if cap(r.vf) < n {
		r.vf = make([]int, n)
	} else {
		r.vf = r.vf[:n]
	}
	if cap(r.vb) < n {
		r.vb = make([]int, n)
	} else {
		r.vb = r.vb[:n]
	}
}

// bisect emits the edits covering [bA,eA) x [bB,eB). It first trims the
// region's common leading and trailing elements, since a split point at
// the end of a snake leaves a common run at the edge of a sub-region,
// and emits the whole region as one edit when it has nothing in common.
func (r *myersRun[S]) bisect(bA, eA, bB, eB int, out *EditList) error {
	select {
	case <-r.ctx.Done():
		logrus.Debugf("diferenco: myers interrupted in region (%d,%d)x(%d,%d)", bA, eA, bB, eB)
		return ErrInterrupted
	default:
	}

	for bA < eA && bB < eB && r.cmp.Eq(r.a, bA, r.b, bB) {
		bA++
		bB++
	}
	for bA < eA && bB < eB && r.cmp.Eq(r.a, eA-1, r.b, eB-1) {
		eA--
		eB--
	}

	n, m := eA-bA, eB-bB
	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0 || m == 0:
		*out = append(*out, Edit{bA, eA, bB, eB})
		return nil
	case n == 1 && m == 1:
		*out = append(*out, Edit{bA, eA, bB, eB})
		return nil
	}

	mx, my, err := r.middle(bA, eA, bB, eB)
	if err != nil {
		return err
	}
	if mx == eA && my == eB { // no crossing: nothing in common
		*out = append(*out, Edit{bA, eA, bB, eB})
		return nil
	}
	if bA < mx || bB < my {
		if err := r.bisect(bA, mx, bB, my, out); err != nil {
			return err
		}
	}
	if mx < eA || my < eB {
		if err := r.bisect(mx, eA, my, eB, out); err != nil {
			return err
		}
	}
	return nil
}

// middle finds the point, in global coordinates, where a forward D-path
// grown from (bA,bB) and a backward D-path grown from (eA,eB) cross.
// Both paths are stored on diagonal k = y - x, offset by vOffset so
// negative diagonals are representable; vf is indexed relative to the
// forward origin, vb relative to the backward origin, and
// delta = n - m relates a forward diagonal kf to the backward diagonal
// sharing its global diagonal, kb = delta - kf.
//
// When the region shares at least one element, a crossing shows up
// before d reaches ceil((n+m)/2); which half of the loop it shows up in
// for a given d depends on the parity of delta.
func (r *myersRun[S]) middle(bA, eA, bB, eB int) (int, int, error) {
	n, m := eA-bA, eB-bB
	maxD := (n + m + 1) / 2
	vOffset := maxD
	vLen := 2 * maxD
	r.ensureCapacity(vLen)
	vf, vb := r.vf, r.vb
	for i := 0; i < vLen; i++ {
		vf[i] = -1
		vb[i] = -1
	}
	vf[vOffset+1] = 0
	vb[vOffset+1] = 0

	delta := n - m
	checkOnForward := delta%2 != 0

	kfStart, kfEnd := 0, 0
	kbStart, kbEnd := 0, 0
	for d := 0; d < maxD; d++ {
		select {
		case <-r.ctx.Done():
			return 0, 0, ErrInterrupted
		default:
		}

		for kf := -d + kfStart; kf <= d-kfEnd; kf += 2 {
			off := vOffset + kf
			var x int
			if kf == -d || (kf != d && vf[off-1] < vf[off+1]) {
				x = vf[off+1]
			} else {
				x = vf[off-1] + 1
			}
			y := x - kf
			for x < n && y < m && r.cmp.Eq(r.a, bA+x, r.b, bB+y) {
				x++
				y++
			}
			vf[off] = x
			switch {
			case x > n:
				kfEnd += 2
			case y > m:
				kfStart += 2
			case checkOnForward:
				bOff := vOffset + delta - kf
				if bOff >= 0 && bOff < vLen && vb[bOff] != -1 {
					if bx := n - vb[bOff]; x >= bx {
						return bA + x, bB + y, nil
					}
				}
			}
		}

		for kb := -d + kbStart; kb <= d-kbEnd; kb += 2 {
			off := vOffset + kb
			var x int
			if kb == -d || (kb != d && vb[off-1] < vb[off+1]) {
				x = vb[off+1]
			} else {
				x = vb[off-1] + 1
			}
			y := x - kb
			for x < n && y < m && r.cmp.Eq(r.a, bA+(n-x-1), r.b, bB+(m-y-1)) {
				x++
				y++
			}
			vb[off] = x
			switch {
			case x > n:
				kbEnd += 2
			case y > m:
				kbStart += 2
			case !checkOnForward:
				fOff := vOffset + delta - kb
				if fOff >= 0 && fOff < vLen && vf[fOff] != -1 {
					fx := vf[fOff]
					bx, by := n-x, m-y
					if fx >= bx {
						return bA + bx, bB + by, nil
					}
				}
			}
		}
	}
	// Reached only when the region has no element in common. The region's
	// end point is returned, which bisect turns into one whole-region edit.
	return bA + n, bB + m, nil
}
