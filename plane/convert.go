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

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// FromImage converts img into 8-bit planes: one plane for *image.Gray, three
// (R, G, B) for anything else. Alpha is dropped.
func FromImage(img image.Image) Planes[uint8] {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok {
		return Planes[uint8]{grayPlane(g)}
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	}
	ps := Split(rgba.Pix, b.Dx(), b.Dy(), rgba.Stride, 4)
	return ps[:3]
}

// GrayFromImage converts img into one 8-bit luminance plane.
func GrayFromImage(img image.Image) *Plane[uint8] {
	if g, ok := img.(*image.Gray); ok {
		return grayPlane(g)
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(g, image.Point{}, img, b, draw.Src, nil)
	return grayPlane(g)
}

func grayPlane(g *image.Gray) *Plane[uint8] {
	b := g.Bounds()
	p := New[uint8](b.Dx(), b.Dy())
	for y := range p.Height() {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(p.RowSlice(y), g.Pix[off:off+p.Width()])
	}
	return p
}

// ToGray16 renders p as a 16-bit image, mapping value*scale from [0,1] to
// [0,65535] and clamping outside that range. NaN renders as 0.
func ToGray16(p *Plane[float32], scale float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, p.Width(), p.Height()))
	for y := range p.Height() {
		off := img.PixOffset(0, y)
		for x, v := range p.RowSlice(y) {
			q := quantize16(v, scale)
			img.Pix[off+2*x] = uint8(q >> 8)
			img.Pix[off+2*x+1] = uint8(q)
		}
	}
	return img
}

// ToNRGBA64 renders up to three planes as the R, G and B channels of an
// opaque 16-bit image, with the same mapping as ToGray16. Missing channels
// are 0.
func ToNRGBA64(ps Planes[float32], scale float64) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, ps.Width(), ps.Height()))
	for y := range ps.Height() {
		off := img.PixOffset(0, y)
		for x := range ps.Width() {
			px := img.Pix[off+8*x : off+8*x+8]
			for c, p := range ps[:min(len(ps), MaxChannels)] {
				q := quantize16(p.At(x, y), scale)
				px[2*c] = uint8(q >> 8)
				px[2*c+1] = uint8(q)
			}
			px[6], px[7] = 0xff, 0xff
		}
	}
	return img
}

func quantize16(v float32, scale float64) uint16 {
	f := float64(v) * scale
	switch {
	case !(f > 0):
		return 0
	case f >= 1:
		return math.MaxUint16
	default:
		return uint16(math.Round(f * math.MaxUint16))
	}
}

// ToFloat converts an 8-bit plane to float32, dividing by scale. Used for
// weight maps stored as images.
func ToFloat(p *Plane[uint8], scale float32) *Plane[float32] {
	out := New[float32](p.Width(), p.Height())
	for y := range p.Height() {
		dst := out.RowSlice(y)
		for x, v := range p.RowSlice(y) {
			dst[x] = float32(v) / scale
		}
	}
	return out
}
