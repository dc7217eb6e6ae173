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

// Package plane provides owned single-channel 2D arrays with an explicit row
// stride, used for input images, masks, weight maps, integral tables and
// output correlation maps.
//
// Rows are padded to the vector width reported by the lanes package, so a
// row kernel may load a full vector at the last valid column without
// running off the allocation.
//
//	p := plane.New[float32](640, 480)
//	for y := range p.Height() {
//	    row := p.RowSlice(y)
//	    // process row
//	}
//
// Callers that already own a buffer wrap it with Wrap instead of copying.
package plane

import (
	"unsafe"

	"github.com/wncc-go/wncc/lanes"
)

// Elem is the set of sample types a Plane can hold.
type Elem interface {
	~uint8 | ~int32 | ~float32 | ~float64
}

// Plane is a single-channel 2D array stored row-major with an explicit stride.
type Plane[T Elem] struct {
	data   []T
	width  int
	height int
	stride int // elements per row, padding included
}

// New creates a zeroed plane. Non-positive dimensions yield an empty plane.
func New[T Elem](width, height int) *Plane[T] {
	if width <= 0 || height <= 0 {
		return &Plane[T]{}
	}
	stride := alignedStride[T](width)
	return &Plane[T]{
		data:   make([]T, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// Wrap returns a plane backed by data without copying. It panics if data is
// too short for the given geometry or stride < width.
func Wrap[T Elem](data []T, width, height, stride int) *Plane[T] {
	if width <= 0 || height <= 0 {
		return &Plane[T]{}
	}
	if stride < width {
		panic("plane: stride smaller than width")
	}
	if len(data) < (height-1)*stride+width {
		panic("plane: data slice too short")
	}
	return &Plane[T]{data: data, width: width, height: height, stride: stride}
}

func alignedStride[T Elem](width int) int {
	var zero T
	per := lanes.CurrentWidth() / int(unsafe.Sizeof(zero))
	if per <= 1 {
		return width
	}
	return ((width + per - 1) / per) * per
}

// Width returns the width in samples, or 0 for a nil plane.
func (p *Plane[T]) Width() int {
	if p == nil {
		return 0
	}
	return p.width
}

// Height returns the height in rows, or 0 for a nil plane.
func (p *Plane[T]) Height() int {
	if p == nil {
		return 0
	}
	return p.height
}

// Stride returns the number of elements per row, padding included.
func (p *Plane[T]) Stride() int {
	return p.stride
}

// Empty reports whether the plane has no samples.
func (p *Plane[T]) Empty() bool {
	return p == nil || p.width == 0 || p.height == 0
}

// Row returns row y including padding, or nil when y is out of range.
// Wrapped planes may have a shorter last row.
func (p *Plane[T]) Row(y int) []T {
	if y < 0 || y >= p.height {
		return nil
	}
	start := y * p.stride
	end := min(start+p.stride, len(p.data))
	return p.data[start:end]
}

// RowSlice returns row y limited to the plane width, or nil when out of range.
func (p *Plane[T]) RowSlice(y int) []T {
	if y < 0 || y >= p.height {
		return nil
	}
	start := y * p.stride
	return p.data[start : start+p.width]
}

// At returns the sample at (x, y), or zero outside the plane.
func (p *Plane[T]) At(x, y int) T {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		var zero T
		return zero
	}
	return p.data[y*p.stride+x]
}

// Set stores value at (x, y). Out-of-range writes are ignored.
func (p *Plane[T]) Set(x, y int, value T) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.data[y*p.stride+x] = value
}

// Fill sets every sample, padding included, to value.
func (p *Plane[T]) Fill(value T) {
	for i := range p.data {
		p.data[i] = value
	}
}

// Clear sets every sample to zero.
func (p *Plane[T]) Clear() {
	clear(p.data)
}

// Clone returns a deep copy with the same stride.
func (p *Plane[T]) Clone() *Plane[T] {
	c := &Plane[T]{
		data:   make([]T, len(p.data)),
		width:  p.width,
		height: p.height,
		stride: p.stride,
	}
	copy(c.data, p.data)
	return c
}

// Bounds returns the plane rectangle.
func (p *Plane[T]) Bounds() Rect {
	return Rect{X1: p.width, Y1: p.height}
}

// SameSize reports whether both planes have the same dimensions.
func SameSize[T, U Elem](a *Plane[T], b *Plane[U]) bool {
	return a.Width() == b.Width() && a.Height() == b.Height()
}

// Covers reports whether dst is at least as large as src in both dimensions.
func Covers[T, U Elem](dst *Plane[T], src *Plane[U]) bool {
	return dst.Width() >= src.Width() && dst.Height() >= src.Height()
}

// Rect is a half-open rectangle [X0,X1)×[Y0,Y1).
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.X1 - r.X0
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Y1 - r.Y0
}

// Area returns the number of samples covered, or 0 for empty rectangles.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty reports whether the rectangle covers no samples.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersect returns the intersection of two rectangles.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		X0: max(r.X0, other.X0),
		Y0: max(r.Y0, other.Y0),
		X1: min(r.X1, other.X1),
		Y1: min(r.Y1, other.Y1),
	}
}
