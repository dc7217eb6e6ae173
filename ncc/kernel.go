// Copyright 2025 wncc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ncc

import (
	"fmt"
	"math"

	"github.com/wncc-go/wncc/integral"
	"github.com/wncc-go/wncc/lanes"
)

// evaluate returns the correlation and texture of a window with sums s over
// n pixels. The vector kernel performs the same operations in the same order.
func evaluate(s integral.Sums, n float64) (corr, tex float64) {
	inv := 1 / n
	num := s.AB - inv*s.A*s.B
	vara := s.A2 - inv*s.A*s.A
	varb := s.B2 - inv*s.B*s.B
	sa := math.Sqrt(max(0, vara))
	sb := math.Sqrt(max(0, varb))
	if f := sa * sb; f > 1 {
		corr = num / f
	}
	return corr, (sa + sb) * math.Sqrt(inv)
}

// rowSums returns the sums of columns [x1, x2) between table rows up and down.
func rowSums(up, down integral.RowView, x1, x2 int) integral.Sums {
	return integral.Sums{
		A:  up.A[x1] - up.A[x2] - down.A[x1] + down.A[x2],
		A2: up.A2[x1] - up.A2[x2] - down.A2[x1] + down.A2[x2],
		B:  up.B[x1] - up.B[x2] - down.B[x1] + down.B[x2],
		B2: up.B2[x1] - up.B2[x2] - down.B2[x1] + down.B2[x2],
		AB: up.AB[x1] - up.AB[x2] - down.AB[x1] + down.AB[x2],
	}
}

func (e *Engine) plainRow(y, w2 int, dst, tex []float32, cache []integral.Sums) {
	width := e.Width()
	_, y1, _, y2 := integral.Window(0, y, w2, width, e.Height())
	up, down := e.table.Row(y1), e.table.Row(y2)
	h := y2 - y1

	pixel := func(x int) {
		x1, x2 := max(0, x-w2-1), min(width, x+w2)
		s := rowSums(up, down, x1, x2)
		cache[x] = s
		c, t := evaluate(s, float64(max((x2-x1)*h, 1)))
		if dst != nil {
			dst[x] = float32(c)
		}
		if tex != nil {
			tex[x] = float32(t)
		}
	}

	x := 0
	if x0, x1 := integral.Interior(w2, width); !e.cfg.scalar && x0 < x1 {
		for ; x < x0; x++ {
			pixel(x)
		}
		x = interiorRow(x0, x1, w2, float64(max((2*w2+1)*h, 1)), up, down, dst, tex, cache)
	}
	for ; x < width; x++ {
		pixel(x)
	}
}

// interiorRow evaluates columns [x0, x1) a full vector at a time and returns
// the first column it did not process.
func interiorRow(x0, x1, w2 int, n float64, up, down integral.RowView, dst, tex []float32, cache []integral.Sums) int {
	step := lanes.MaxLanes[float64]()
	inv := lanes.Set(1 / n)
	sqrtInv := lanes.Set(math.Sqrt(1 / n))
	zero := lanes.Zero[float64]()
	one := lanes.Set(1.0)

	x := x0
	for ; x+step <= x1; x += step {
		l, r := x-w2-1, x+w2
		a := windowLanes(up.A, down.A, l, r)
		a2 := windowLanes(up.A2, down.A2, l, r)
		b := windowLanes(up.B, down.B, l, r)
		b2 := windowLanes(up.B2, down.B2, l, r)
		ab := windowLanes(up.AB, down.AB, l, r)

		num := lanes.Sub(ab, lanes.Mul(lanes.Mul(inv, a), b))
		vara := lanes.Sub(a2, lanes.Mul(lanes.Mul(inv, a), a))
		varb := lanes.Sub(b2, lanes.Mul(lanes.Mul(inv, b), b))
		sa := lanes.Sqrt(lanes.Max(zero, vara))
		sb := lanes.Sqrt(lanes.Max(zero, varb))
		f := lanes.Mul(sa, sb)
		corr := lanes.IfThenElseZero(lanes.GreaterThan(f, one), lanes.Div(num, f))
		texture := lanes.Mul(lanes.Add(sa, sb), sqrtInv)

		for i := range step {
			cache[x+i] = integral.Sums{A: a.Lane(i), A2: a2.Lane(i), B: b.Lane(i), B2: b2.Lane(i), AB: ab.Lane(i)}
		}
		if dst != nil {
			for i := range step {
				dst[x+i] = float32(corr.Lane(i))
			}
		}
		if tex != nil {
			for i := range step {
				tex[x+i] = float32(texture.Lane(i))
			}
		}
	}
	return x
}

// windowLanes loads the window sums of consecutive centres whose first window
// spans table columns [l, r).
func windowLanes(up, down []float64, l, r int) lanes.Vec[float64] {
	return lanes.Add(lanes.Sub(lanes.Sub(lanes.Load(up[l:]), lanes.Load(up[r:])), lanes.Load(down[l:])), lanes.Load(down[r:]))
}

func (e *Engine) maskedRow(y, w2 int, dst, tex []float32, cache []integral.Sums) error {
	width, height := e.Width(), e.Height()
	m := e.mask.RowSlice(y)
	for x := range width {
		if m[x] == 0 {
			if dst != nil {
				dst[x] = 0
			}
			if tex != nil {
				tex[x] = 0
			}
			cache[x] = integral.Sums{}
			continue
		}
		x1, y1, x2, y2 := integral.Window(x, y, w2, width, height)
		n := e.counts.Rect(x1, y1, x2, y2)
		if n <= 0 {
			return fmt.Errorf("ncc: pixel (%d,%d) window %d: %w", x, y, 2*w2+1, ErrEmptyWindow)
		}
		s := e.table.Rect(x1, y1, x2, y2)
		cache[x] = s
		c, t := evaluate(s, float64(n))
		if dst != nil {
			dst[x] = float32(c)
		}
		if tex != nil {
			tex[x] = float32(t)
		}
	}
	return nil
}
