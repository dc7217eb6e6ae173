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
	"github.com/wncc-go/wncc/lanes"
	"github.com/wncc-go/wncc/plane"
)

// WeightedTable is the eleven-sum integral table of a weighted image pair.
type WeightedTable struct {
	width, height int
	p             [NumWeighted]*plane.Plane[float64]
}

// NewWeightedTable allocates a zeroed table for a width×height image pair.
func NewWeightedTable(width, height int) *WeightedTable {
	t := &WeightedTable{width: width, height: height}
	for i := range t.p {
		t.p[i] = plane.New[float64](width+1, height+1)
	}
	return t
}

// Width returns the source image width.
func (t *WeightedTable) Width() int {
	return t.width
}

// Height returns the source image height.
func (t *WeightedTable) Height() int {
	return t.height
}

// Build rebuilds every sum from candidate a, reference b and weight map w.
// A nil w weights every pixel 1. It panics on size mismatch.
func (t *WeightedTable) Build(a, b *plane.Plane[uint8], w *plane.Plane[float32]) {
	if !plane.SameSize(a, b) || a.Width() != t.width || a.Height() != t.height {
		panic("integral: image size does not match weighted table")
	}
	if w != nil && !plane.SameSize(w, a) {
		panic("integral: weight map size does not match weighted table")
	}

	var rows [NumWeighted][]float64
	n := t.width + 1
	for y := range t.height {
		for i, p := range t.p {
			rows[i] = p.Row(y + 1)
		}
		la, lb := a.RowSlice(y), b.RowSlice(y)
		var lw []float32
		if w != nil {
			lw = w.RowSlice(y)
		}

		var run WSums
		for x := range la {
			va, vb := float64(la[x]), float64(lb[x])
			vw := 1.0
			if lw != nil {
				vw = float64(lw[x])
			}
			run[SumA] += va
			run[SumB] += vb
			run[SumW] += vw
			run[SumWA] += va * vw
			run[SumWB] += vb * vw
			run[SumWAB] += va * vb * vw
			run[SumWA2] += va * va * vw
			run[SumWB2] += vb * vb * vw
			run[SumA2] += va * va
			run[SumB2] += vb * vb
			run[SumAB] += va * vb
			for i := range run {
				rows[i][x+1] = run[i]
			}
		}
		for i, p := range t.p {
			lanes.AddTo(rows[i][1:n], p.Row(y)[1:n])
		}
	}
}

// Rect returns the sums over [x1,x2)×[y1,y2).
func (t *WeightedTable) Rect(x1, y1, x2, y2 int) WSums {
	var s WSums
	for i, p := range t.p {
		s[i] = rect(p, x1, y1, x2, y2)
	}
	return s
}
