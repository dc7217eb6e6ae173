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

// Table is the five-sum integral table of an image pair.
//
// The b-half (B, B2) depends only on the reference image and is rebuilt by
// BuildModel; the a-half (A, A2, AB) depends on both images and is rebuilt
// by BuildFrame. Rebuilding one half leaves the other untouched.
type Table struct {
	width, height int
	a, a2, ab     *plane.Plane[float64]
	b, b2         *plane.Plane[float64]
}

// NewTable allocates a zeroed table for a width×height source image.
func NewTable(width, height int) *Table {
	w, h := width+1, height+1
	return &Table{
		width:  width,
		height: height,
		a:      plane.New[float64](w, h),
		a2:     plane.New[float64](w, h),
		ab:     plane.New[float64](w, h),
		b:      plane.New[float64](w, h),
		b2:     plane.New[float64](w, h),
	}
}

// Build returns a table whose b-half holds the sums of img, with pixels where
// mask is zero counted as 0, plus the mask coverage table (nil without mask).
func Build(img, mask *plane.Plane[uint8]) (*Table, *Counts) {
	t := NewTable(img.Width(), img.Height())
	t.BuildModel(img, mask)
	if mask == nil {
		return t, nil
	}
	c := NewCounts(mask.Width(), mask.Height())
	c.Build(mask)
	return t, c
}

// Width returns the source image width.
func (t *Table) Width() int {
	return t.width
}

// Height returns the source image height.
func (t *Table) Height() int {
	return t.height
}

// BuildModel rebuilds the b-half from the reference image. Pixels where mask
// is zero contribute 0; a nil mask keeps every pixel. It panics on size
// mismatch.
func (t *Table) BuildModel(b, mask *plane.Plane[uint8]) {
	t.checkSize(b, mask)
	for y := range t.height {
		src := b.RowSlice(y)
		var m []uint8
		if mask != nil {
			m = mask.RowSlice(y)
		}
		rowB, rowB2 := t.b.Row(y+1), t.b2.Row(y+1)
		var sum, sum2 float64
		for x, px := range src {
			v := float64(px)
			if m != nil && m[x] == 0 {
				v = 0
			}
			sum += v
			sum2 += v * v
			rowB[x+1] = sum
			rowB2[x+1] = sum2
		}
		n := t.width + 1
		lanes.AddTo(rowB[1:n], t.b.Row(y)[1:n])
		lanes.AddTo(rowB2[1:n], t.b2.Row(y)[1:n])
	}
}

// BuildFrame rebuilds the a-half from the candidate image a and reference b.
// Pixels of a where mask is zero contribute 0, which also zeroes their Σab
// term. It panics on size mismatch.
func (t *Table) BuildFrame(a, b, mask *plane.Plane[uint8]) {
	t.checkSize(a, mask)
	t.checkSize(b, nil)
	for y := range t.height {
		srcA, srcB := a.RowSlice(y), b.RowSlice(y)
		var m []uint8
		if mask != nil {
			m = mask.RowSlice(y)
		}
		rowA, rowA2, rowAB := t.a.Row(y+1), t.a2.Row(y+1), t.ab.Row(y+1)
		var sum, sum2, sumAB float64
		for x, px := range srcA {
			v := float64(px)
			if m != nil && m[x] == 0 {
				v = 0
			}
			sum += v
			sum2 += v * v
			sumAB += v * float64(srcB[x])
			rowA[x+1] = sum
			rowA2[x+1] = sum2
			rowAB[x+1] = sumAB
		}
		n := t.width + 1
		lanes.AddTo(rowA[1:n], t.a.Row(y)[1:n])
		lanes.AddTo(rowA2[1:n], t.a2.Row(y)[1:n])
		lanes.AddTo(rowAB[1:n], t.ab.Row(y)[1:n])
	}
}

func (t *Table) checkSize(img, mask *plane.Plane[uint8]) {
	if img.Width() != t.width || img.Height() != t.height {
		panic("integral: image size does not match table")
	}
	if mask != nil && (mask.Width() != t.width || mask.Height() != t.height) {
		panic("integral: mask size does not match table")
	}
}

// Rect returns the sums over the source rectangle [x1,x2)×[y1,y2). Corners
// must lie within [0,Width]×[0,Height]; nothing is clipped here.
func (t *Table) Rect(x1, y1, x2, y2 int) Sums {
	return Sums{
		A:  rect(t.a, x1, y1, x2, y2),
		A2: rect(t.a2, x1, y1, x2, y2),
		B:  rect(t.b, x1, y1, x2, y2),
		B2: rect(t.b2, x1, y1, x2, y2),
		AB: rect(t.ab, x1, y1, x2, y2),
	}
}

func rect(p *plane.Plane[float64], x1, y1, x2, y2 int) float64 {
	up, down := p.Row(y1), p.Row(y2)
	return up[x1] - up[x2] - down[x1] + down[x2]
}

// RowView exposes one table row per sum for the vectorized row kernels.
type RowView struct {
	A, A2, B, B2, AB []float64
}

// Row returns table row y, 0 <= y <= Height, including padding.
func (t *Table) Row(y int) RowView {
	return RowView{
		A:  t.a.Row(y),
		A2: t.a2.Row(y),
		B:  t.b.Row(y),
		B2: t.b2.Row(y),
		AB: t.ab.Row(y),
	}
}
