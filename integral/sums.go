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

// Package integral builds summed-area tables over 8-bit image pairs and
// recovers the sums of any axis-aligned rectangle in O(1).
//
// A table for a W×H image has (W+1)×(H+1) cells. Row 0 and column 0 are
// zero, so cell (x, y) holds the sum over the source rectangle [0,x)×[0,y)
// and a rectangle [x1,x2)×[y1,y2) is recovered from four lookups:
//
//	t[y1][x1] - t[y1][x2] - t[y2][x1] + t[y2][x2]
//
// Three table kinds are provided:
//
//   - Table: Σa, Σa², Σb, Σb², Σab for plain and masked NCC. The b-half is
//     built from the reference image, the a-half from the candidate.
//   - Counts: number of valid mask pixels, for masked NCC.
//   - WeightedTable: eleven plain and weight-premultiplied sums for the
//     two-population weighted NCC.
//
// Tables store one plane per sum so the vertical accumulation pass and the
// row kernels in package ncc run on contiguous float64 rows.
package integral

// Sums holds the five running sums of a plain NCC window.
type Sums struct {
	A, A2 float64
	B, B2 float64
	AB    float64
}

// Add returns s + o field by field.
func (s Sums) Add(o Sums) Sums {
	return Sums{
		A:  s.A + o.A,
		A2: s.A2 + o.A2,
		B:  s.B + o.B,
		B2: s.B2 + o.B2,
		AB: s.AB + o.AB,
	}
}

// Sub returns s - o field by field.
func (s Sums) Sub(o Sums) Sums {
	return Sums{
		A:  s.A - o.A,
		A2: s.A2 - o.A2,
		B:  s.B - o.B,
		B2: s.B2 - o.B2,
		AB: s.AB - o.AB,
	}
}

// Indices into WSums.
const (
	SumA = iota
	SumB
	SumW
	SumWA
	SumWB
	SumWAB
	SumWA2
	SumWB2
	SumA2
	SumB2
	SumAB
	NumWeighted
)

// WSums holds the eleven running sums of a weighted NCC window.
type WSums [NumWeighted]float64

// Add returns s + o element-wise.
func (s WSums) Add(o WSums) WSums {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Sub returns s - o element-wise.
func (s WSums) Sub(o WSums) WSums {
	for i := range s {
		s[i] -= o[i]
	}
	return s
}

// Window returns the table-coordinate rectangle of the window centred on
// source pixel (x, y) with half-size w2, clipped to a width×height image:
// [x-w2-1, x+w2)×[y-w2-1, y+w2). The window spans 2*w2+1 samples per axis
// when unclipped.
func Window(x, y, w2, width, height int) (x1, y1, x2, y2 int) {
	return max(0, x-w2-1), max(0, y-w2-1), min(width, x+w2), min(height, y+w2)
}

// Interior returns the half-open column range [x0, x1) whose windows need no
// horizontal clipping. The range is empty (x0 >= x1) for narrow images.
func Interior(w2, width int) (x0, x1 int) {
	return w2 + 1, width - w2
}
