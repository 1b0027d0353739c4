//	Copyright (c) 2014-2021 Akinori Hattori <hattya@gmail.com>
//
//	SPDX-License-Identifier: MIT
//
//	SOURCE: https://github.com/hattya/go.diff
//
// onpAlgorithm implements S. Wu, U. Manber, G. Myers, and W. Miller,
// "An O(NP) Sequence Comparison Algorithm" (August 1989). It is not
// exposed through the public Algorithm enum; it exists as a lighter-
// weight DiffAlgorithm implementation that HistogramAlgorithm (or a
// caller building its own algorithm selection) can plug in as Fallback
// in place of the default MyersAlgorithm.
package diferenco

import (
	"context"
)

// onpAlgorithm is unexported: it is a fallback slot, not part of the
// diff(algorithm, ...) surface, which only ever names Myers or
// Histogram.
type onpAlgorithm[S Sequence] struct{}

// DiffNonCommon implements DiffAlgorithm[S].
func (onpAlgorithm[S]) DiffNonCommon(ctx context.Context, cmp Comparator[S], a, b S, result *EditList) error {
	c := &onpCtx[S]{ctx: ctx, cmp: cmp, a: a, b: b}
	m, n := a.Len(), b.Len()
	if n >= m {
		c.M, c.N = m, n
	} else {
		c.M, c.N = n, m
		c.xchg = true
	}
	c.delta = c.N - c.M
	return c.compare(result)
}

type onpCtx[S Sequence] struct {
	ctx    context.Context
	cmp    Comparator[S]
	a, b   S
	M, N   int
	delta  int
	fp     []onpPoint
	xchg   bool
}

func (c *onpCtx[S]) compare(result *EditList) error {
	c.fp = make([]onpPoint, (c.M+1)+(c.N+1)+1)
	for i := range c.fp {
		c.fp[i].y = -1
	}

	offset := c.delta + (c.M + 1)
	for p := 0; c.fp[offset].y != c.N; p++ {
		select {
		case <-c.ctx.Done():
			return ErrInterrupted
		default:
		}
		for k := -p; k < c.delta; k++ {
			c.snake(k)
		}
		for k := c.delta + p; k > c.delta; k-- {
			c.snake(k)
		}
		c.snake(c.delta)
	}

	run, _ := c.reverse(c.fp[offset].run)
	var x, y int
	for ; run != nil; run = run.next {
		if x < run.x || y < run.y {
			c.emit(result, x, y, run.x, run.y)
		}
		x = run.x + run.n
		y = run.y + run.n
	}
	if x < c.M || y < c.N {
		c.emit(result, x, y, c.M, c.N)
	}
	return nil
}

// emit appends the edit for the gap [x,ex) x [y,ey) in (M,N) space,
// undoing the M/N swap onpCtx performs when B is shorter than A.
func (c *onpCtx[S]) emit(result *EditList, x, y, ex, ey int) {
	if !c.xchg {
		*result = append(*result, Edit{x, ex, y, ey})
	} else {
		*result = append(*result, Edit{y, ey, x, ex})
	}
}

func (c *onpCtx[S]) snake(k int) {
	var y int
	var prev *onpRun
	kk := k + (c.M + 1)

	h := &c.fp[kk-1]
	v := &c.fp[kk+1]
	if h.y+1 >= v.y {
		y = h.y + 1
		prev = h.run
	} else {
		y = v.y
		prev = v.run
	}

	x := y - k
	n := 0
	for x < c.M && y < c.N {
		var eq bool
		if !c.xchg {
			eq = c.cmp.Eq(c.a, x, c.b, y)
		} else {
			eq = c.cmp.Eq(c.a, y, c.b, x)
		}
		if !eq {
			break
		}
		x++
		y++
		n++
	}

	p := &c.fp[kk]
	p.y = y
	if n == 0 {
		p.run = prev
	} else {
		p.run = &onpRun{x: x - n, y: y - n, n: n, next: prev}
	}
}

func (c *onpCtx[S]) reverse(curr *onpRun) (next *onpRun, n int) {
	for ; curr != nil; n++ {
		curr.next, next, curr = next, curr, curr.next
	}
	return
}

type onpPoint struct {
	y   int
	run *onpRun
}

// onpRun is a maximal diagonal run (a snake) found during the search,
// linked into the common subsequence the chosen furthest-reaching path
// passed through.
type onpRun struct {
	x, y int
	n    int
	next *onpRun
}
