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

package plane

// MaxChannels is the largest channel count Planes supports.
const MaxChannels = 3

// Planes bundles same-sized planes, one per colour channel.
type Planes[T Elem] []*Plane[T]

// NewPlanes allocates channels planes of the given size.
func NewPlanes[T Elem](width, height, channels int) Planes[T] {
	ps := make(Planes[T], channels)
	for i := range ps {
		ps[i] = New[T](width, height)
	}
	return ps
}

// Channels returns the number of planes.
func (ps Planes[T]) Channels() int {
	return len(ps)
}

// Width returns the width of the first plane, or 0.
func (ps Planes[T]) Width() int {
	if len(ps) == 0 {
		return 0
	}
	return ps[0].Width()
}

// Height returns the height of the first plane, or 0.
func (ps Planes[T]) Height() int {
	if len(ps) == 0 {
		return 0
	}
	return ps[0].Height()
}

// Uniform reports whether all planes are non-nil and share one size.
func (ps Planes[T]) Uniform() bool {
	for _, p := range ps {
		if p == nil || !SameSize(p, ps[0]) {
			return false
		}
	}
	return true
}

// Split de-interleaves a packed buffer (channels samples per pixel, stride
// elements per row) into separate planes. It panics if pix is too short.
func Split[T Elem](pix []T, width, height, stride, channels int) Planes[T] {
	if channels <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	if len(pix) < (height-1)*stride+width*channels {
		panic("plane: pix slice too short")
	}
	ps := NewPlanes[T](width, height, channels)
	for y := range height {
		src := pix[y*stride:]
		for c, p := range ps {
			row := p.RowSlice(y)
			for x := range row {
				row[x] = src[x*channels+c]
			}
		}
	}
	return ps
}

// Interleave packs planes into dst with stride elements per row. It panics if
// dst is too short.
func Interleave[T Elem](ps Planes[T], dst []T, stride int) {
	channels, width, height := len(ps), ps.Width(), ps.Height()
	if channels == 0 || width == 0 || height == 0 {
		return
	}
	if len(dst) < (height-1)*stride+width*channels {
		panic("plane: dst slice too short")
	}
	for y := range height {
		out := dst[y*stride:]
		for c, p := range ps {
			row := p.RowSlice(y)
			for x, v := range row {
				out[x*channels+c] = v
			}
		}
	}
}
