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

package integral

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wncc-go/wncc/plane"
)

func randomPlane(r *rand.Rand, w, h int) *plane.Plane[uint8] {
	p := plane.New[uint8](w, h)
	for y := range h {
		for x := range w {
			p.Set(x, y, uint8(r.IntN(256)))
		}
	}
	return p
}

// naive returns the direct sums over [x1,x2)×[y1,y2).
func naive(a, b, mask *plane.Plane[uint8], x1, y1, x2, y2 int) Sums {
	var s Sums
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			va, vb := float64(a.At(x, y)), float64(b.At(x, y))
			if mask != nil && mask.At(x, y) == 0 {
				va, vb = 0, 0
			}
			s.A += va
			s.A2 += va * va
			s.B += vb
			s.B2 += vb * vb
			s.AB += va * vb
		}
	}
	return s
}

func TestTableFullRectMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, dims := range [][2]int{{1, 1}, {5, 5}, {17, 9}, {64, 3}} {
		w, h := dims[0], dims[1]
		a, b := randomPlane(r, w, h), randomPlane(r, w, h)
		tab := NewTable(w, h)
		tab.BuildModel(b, nil)
		tab.BuildFrame(a, b, nil)

		got := tab.Rect(0, 0, w, h)
		want := naive(a, b, nil, 0, 0, w, h)
		require.Equal(t, want, got, "full rect %dx%d", w, h)
	}
}

func TestTableSubRects(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	w, h := 13, 11
	a, b := randomPlane(r, w, h), randomPlane(r, w, h)
	tab := NewTable(w, h)
	tab.BuildModel(b, nil)
	tab.BuildFrame(a, b, nil)

	for range 50 {
		x1, x2 := r.IntN(w+1), r.IntN(w+1)
		y1, y2 := r.IntN(h+1), r.IntN(h+1)
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		require.Equal(t, naive(a, b, nil, x1, y1, x2, y2), tab.Rect(x1, y1, x2, y2),
			"rect [%d,%d)x[%d,%d)", x1, x2, y1, y2)
	}
}

func TestTableBorderIsZero(t *testing.T) {
	tab, counts := Build(plane.New[uint8](4, 3), nil)
	assert.Nil(t, counts)
	row0 := tab.Row(0)
	for x := range 5 {
		assert.Zero(t, row0.B[x])
		assert.Zero(t, tab.Row(x%4).B2[0])
	}
}

func TestTableMasked(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	w, h := 9, 7
	a, b := randomPlane(r, w, h), randomPlane(r, w, h)
	mask := plane.New[uint8](w, h)
	valid := int32(0)
	for y := range h {
		for x := range w {
			if (x+y)%3 != 0 {
				mask.Set(x, y, 255)
				valid++
			}
		}
	}
	tab, counts := Build(b, mask)
	require.NotNil(t, counts)
	tab.BuildFrame(a, b, mask)

	require.Equal(t, naive(a, b, mask, 0, 0, w, h), tab.Rect(0, 0, w, h))
	require.Equal(t, valid, counts.Rect(0, 0, w, h))
	require.Equal(t, int32(0), counts.Rect(0, 0, 1, 1), "pixel (0,0) is masked")
	require.Equal(t, int32(1), counts.Rect(1, 0, 2, 1))
}

func TestTableHalvesIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	w, h := 6, 6
	a1, a2, b := randomPlane(r, w, h), randomPlane(r, w, h), randomPlane(r, w, h)
	tab := NewTable(w, h)
	tab.BuildModel(b, nil)
	tab.BuildFrame(a1, b, nil)
	before := tab.Rect(0, 0, w, h)
	tab.BuildFrame(a2, b, nil)
	after := tab.Rect(0, 0, w, h)

	assert.Equal(t, before.B, after.B)
	assert.Equal(t, before.B2, after.B2)
	assert.Equal(t, naive(a2, b, nil, 0, 0, w, h), after)
}

func TestTableSizeMismatchPanics(t *testing.T) {
	tab := NewTable(4, 4)
	assert.Panics(t, func() { tab.BuildModel(plane.New[uint8](3, 4), nil) })
	assert.Panics(t, func() { tab.BuildModel(plane.New[uint8](4, 4), plane.New[uint8](4, 5)) })
}

func TestWindow(t *testing.T) {
	tests := []struct {
		x, y, w2, width, height int
		want                    [4]int
	}{
		{2, 2, 1, 5, 5, [4]int{0, 0, 3, 3}},
		{0, 0, 1, 5, 5, [4]int{0, 0, 1, 1}},
		{4, 4, 1, 5, 5, [4]int{2, 2, 5, 5}},
		{0, 0, 4, 1, 1, [4]int{0, 0, 1, 1}},
		{3, 1, 0, 5, 5, [4]int{2, 0, 3, 1}},
	}
	for _, tt := range tests {
		x1, y1, x2, y2 := Window(tt.x, tt.y, tt.w2, tt.width, tt.height)
		assert.Equal(t, tt.want, [4]int{x1, y1, x2, y2}, "Window(%d,%d,w2=%d)", tt.x, tt.y, tt.w2)
	}
	x0, x1 := Interior(1, 5)
	assert.Equal(t, [2]int{2, 4}, [2]int{x0, x1})
}

func TestSumsArithmetic(t *testing.T) {
	s := Sums{A: 1, A2: 2, B: 3, B2: 4, AB: 5}
	assert.Equal(t, s, s.Add(s).Sub(s))

	var w WSums
	w[SumW] = 2
	w[SumAB] = 3
	assert.Equal(t, 4.0, w.Add(w)[SumW])
	assert.Equal(t, WSums{}, w.Sub(w))
}
