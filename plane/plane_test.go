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
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wncc-go/wncc/lanes"
)

func TestNew(t *testing.T) {
	p := New[float32](100, 50)
	if p.Width() != 100 {
		t.Errorf("Width: got %d, want 100", p.Width())
	}
	if p.Height() != 50 {
		t.Errorf("Height: got %d, want 50", p.Height())
	}
	per := lanes.CurrentWidth() / 4
	if p.Stride() < 100 || p.Stride()%per != 0 {
		t.Errorf("Stride: got %d, want >= 100 and multiple of %d", p.Stride(), per)
	}
}

func TestNew_ZeroDimensions(t *testing.T) {
	for _, p := range []*Plane[uint8]{New[uint8](0, 0), New[uint8](-1, 10)} {
		if !p.Empty() {
			t.Errorf("got %dx%d, want empty", p.Width(), p.Height())
		}
	}
}

func TestRowAccess(t *testing.T) {
	p := New[int32](10, 5)
	row0 := p.RowSlice(0)
	for i := range row0 {
		row0[i] = int32(i)
	}
	p.RowSlice(1)[0] = 999
	if row0[0] == 999 {
		t.Error("rows should be independent")
	}
	if p.At(3, 0) != 3 {
		t.Errorf("At(3,0): got %d, want 3", p.At(3, 0))
	}
	if p.Row(-1) != nil || p.Row(5) != nil {
		t.Error("out-of-range Row should return nil")
	}
	if p.At(10, 0) != 0 {
		t.Error("out-of-range At should return zero")
	}
	p.Set(-1, 0, 5) // ignored
}

func TestWrap(t *testing.T) {
	data := []uint8{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9,
	}
	p := Wrap(data, 3, 3, 4)
	if got := p.RowSlice(2); !cmp.Equal(got, []uint8{7, 8, 9}) {
		t.Errorf("RowSlice(2): %s", cmp.Diff([]uint8{7, 8, 9}, got))
	}
	p.Set(1, 1, 50)
	if data[5] != 50 {
		t.Error("Wrap should alias the caller buffer")
	}
}

func TestWrapShortPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Wrap with short data should panic")
		}
	}()
	Wrap(make([]float32, 5), 3, 2, 3)
}

func TestCloneIndependent(t *testing.T) {
	p := New[float64](4, 4)
	p.Fill(2)
	c := p.Clone()
	c.Set(0, 0, 9)
	if p.At(0, 0) != 2 {
		t.Error("Clone should not alias the source")
	}
	if !SameSize(p, c) {
		t.Error("Clone should keep dimensions")
	}
}

func TestRect(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}.Intersect(Rect{X0: 5, Y0: -3, X1: 20, Y1: 4})
	want := Rect{X0: 5, Y0: 0, X1: 10, Y1: 4}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Intersect mismatch (-want +got):\n%s", diff)
	}
	if r.Area() != 20 {
		t.Errorf("Area: got %d, want 20", r.Area())
	}
	if (Rect{X0: 3, X1: 3, Y1: 1}).Area() != 0 {
		t.Error("empty rect should have zero area")
	}
}

func TestSplitInterleave(t *testing.T) {
	pix := []uint8{
		1, 10, 100, 2, 20, 200,
		3, 30, 130, 4, 40, 140,
	}
	ps := Split(pix, 2, 2, 6, 3)
	if ps.Channels() != 3 || !ps.Uniform() {
		t.Fatalf("Split: got %d channels", ps.Channels())
	}
	if diff := cmp.Diff([]uint8{10, 20}, ps[1].RowSlice(0)); diff != "" {
		t.Errorf("channel 1 row 0 (-want +got):\n%s", diff)
	}
	out := make([]uint8, len(pix))
	Interleave(ps, out, 6)
	if diff := cmp.Diff(pix, out); diff != "" {
		t.Errorf("Interleave round trip (-want +got):\n%s", diff)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	ps := FromImage(img)
	if ps.Channels() != 3 {
		t.Fatalf("channels: got %d, want 3", ps.Channels())
	}
	if got := []uint8{ps[0].At(1, 1), ps[1].At(1, 1), ps[2].At(1, 1)}; !cmp.Equal(got, []uint8{10, 20, 30}) {
		t.Errorf("pixel (1,1): got %v", got)
	}

	g := image.NewGray(image.Rect(0, 0, 2, 2))
	g.SetGray(1, 0, color.Gray{Y: 77})
	gp := FromImage(g)
	if gp.Channels() != 1 || gp[0].At(1, 0) != 77 {
		t.Errorf("gray FromImage: got %d channels, value %d", gp.Channels(), gp[0].At(1, 0))
	}
}

func TestToGray16(t *testing.T) {
	p := New[float32](3, 1)
	p.Set(0, 0, -0.5)
	p.Set(1, 0, 0.5)
	p.Set(2, 0, 2)
	img := ToGray16(p, 1)
	got := []uint16{img.Gray16At(0, 0).Y, img.Gray16At(1, 0).Y, img.Gray16At(2, 0).Y}
	want := []uint16{0, 32768, 65535}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToGray16 (-want +got):\n%s", diff)
	}
}

func TestToNRGBA64(t *testing.T) {
	ps := NewPlanes[float32](2, 1, 2)
	ps[0].Set(0, 0, 1)
	ps[1].Set(1, 0, 0.25)
	img := ToNRGBA64(ps, 1)
	got := []color.NRGBA64{img.NRGBA64At(0, 0), img.NRGBA64At(1, 0)}
	want := []color.NRGBA64{
		{R: 65535, A: 65535},
		{G: 16384, A: 65535},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToNRGBA64 (-want +got):\n%s", diff)
	}
}
