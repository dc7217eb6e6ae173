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
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wncc-go/wncc/integral"
	"github.com/wncc-go/wncc/plane"
)

func randomWeights(r *rand.Rand, w, h int, levels ...float32) *plane.Plane[float32] {
	p := plane.New[float32](w, h)
	for y := range h {
		for x := range w {
			p.Set(x, y, levels[r.IntN(len(levels))])
		}
	}
	return p
}

func computeWeighted(t *testing.T, a, b *plane.Plane[uint8], w *plane.Plane[float32], windowSize int) *plane.Plane[float32] {
	t.Helper()
	e := NewWeighted()
	require.NoError(t, e.Prepare(a, b, w))
	corr := plane.New[float32](a.Width(), a.Height())
	require.NoError(t, e.Compute(windowSize, corr))
	return corr
}

func TestWeightedNonNegative(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 22))
	w, h := 27, 19
	a, b := randomPlane(r, w, h), randomPlane(r, w, h)
	wm := randomWeights(r, w, h, 0, 0.2, 0.5, 0.9, 1)
	for _, win := range []int{1, 3, 7, 30} {
		corr := computeWeighted(t, a, b, wm, win)
		for y := range h {
			for x := range w {
				require.GreaterOrEqual(t, corr.At(x, y), float32(0), "window %d at (%d,%d)", win, x, y)
			}
		}
	}
}

func TestWeightedZeroWeightsMatchPlain(t *testing.T) {
	r := rand.New(rand.NewPCG(23, 24))
	w, h, win := 22, 15, 5
	a, b := randomPlane(r, w, h), randomPlane(r, w, h)
	zero := plane.New[float32](w, h)

	got := computeWeighted(t, a, b, zero, win)
	plain, err := Correlate(a, b, nil, win)
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			want := max(plain.At(x, y), 0)
			assert.InDelta(t, want, got.At(x, y), 1e-5, "(%d,%d)", x, y)
		}
	}
}

func TestWeightedUnitWeightsIdentical(t *testing.T) {
	r := rand.New(rand.NewPCG(25, 26))
	w, h, win := 20, 14, 5
	a := randomPlane(r, w, h)
	corr := computeWeighted(t, a, a.Clone(), nil, win)
	x0, x1 := integral.Interior(win/2, w)
	y0, y1 := integral.Interior(win/2, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			assert.InDelta(t, 1.0, corr.At(x, y), 1e-5, "(%d,%d)", x, y)
		}
	}
}

func TestWeightedAffine(t *testing.T) {
	r := rand.New(rand.NewPCG(27, 28))
	w, h, win := 18, 12, 5
	a := plane.New[uint8](w, h)
	for y := range h {
		for x := range w {
			a.Set(x, y, uint8(r.IntN(100)))
		}
	}
	wm := randomWeights(r, w, h, 0.25, 0.5, 0.75)
	x0, x1 := integral.Interior(win/2, w)
	y0, y1 := integral.Interior(win/2, h)

	up := computeWeighted(t, a, mapPlane(a, func(v uint8) uint8 { return 2*v + 10 }), wm, win)
	down := computeWeighted(t, a, mapPlane(a, func(v uint8) uint8 { return 200 - v }), wm, win)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			assert.InDelta(t, 1.0, up.At(x, y), 1e-5, "k>0 at (%d,%d)", x, y)
			assert.Zero(t, down.At(x, y), "k<0 is clamped at (%d,%d)", x, y)
		}
	}
}

func TestWeightedSelectsPopulation(t *testing.T) {
	r := rand.New(rand.NewPCG(29, 30))
	w, h, win := 20, 9, 5
	a := randomPlane(r, w, h)
	b := a.Clone()
	wm := plane.New[float32](w, h)
	for y := range h {
		for x := range w {
			if x < 10 {
				wm.Set(x, y, 1)
			} else {
				b.Set(x, y, uint8(r.IntN(256)))
			}
		}
	}
	got := computeWeighted(t, a, b, wm, win)
	plain, err := Correlate(a, b, nil, win)
	require.NoError(t, err)

	for y := 3; y < 7; y++ {
		// Windows inside the weighted half see only the weighted population.
		for x := 3; x <= 8; x++ {
			assert.InDelta(t, 1.0, got.At(x, y), 1e-5, "weighted side (%d,%d)", x, y)
		}
		// Windows inside the unweighted half fall back to the complement.
		for x := 13; x <= 18; x++ {
			assert.InDelta(t, max(plain.At(x, y), 0), got.At(x, y), 1e-5, "complement side (%d,%d)", x, y)
		}
	}
}

func TestWeightedBalancedPopulations(t *testing.T) {
	// With half weights both populations correlate alike, so either choice
	// gives the plain correlation.
	r := rand.New(rand.NewPCG(31, 32))
	a := randomPlane(r, 9, 9)
	b := mapPlane(a, func(v uint8) uint8 { return v/2 + 3 })
	half := plane.New[float32](9, 9)
	half.Fill(0.5)
	got := computeWeighted(t, a, b, half, 5)
	plain, err := Correlate(a, b, nil, 5)
	require.NoError(t, err)
	for y := range 9 {
		for x := range 9 {
			assert.InDelta(t, max(plain.At(x, y), 0), got.At(x, y), 1e-5, "(%d,%d)", x, y)
		}
	}
}

// populations returns the correlation of the weighted samples and of their
// complement, both centred on the means of the whole window of the given area.
func populations(va, vb, vw []float64, area float64) (cw, cx float64) {
	var sa, sb float64
	for i := range va {
		sa += va[i]
		sb += vb[i]
	}
	avgA, avgB := sa/area, sb/area
	var num, varA, varB, numX, varXA, varXB float64
	for i := range va {
		da, db := va[i]-avgA, vb[i]-avgB
		num += vw[i] * da * db
		varA += vw[i] * da * da
		varB += vw[i] * db * db
		numX += (1 - vw[i]) * da * db
		varXA += (1 - vw[i]) * da * da
		varXB += (1 - vw[i]) * db * db
	}
	if v := varA * varB; v > 0 {
		cw = num / math.Sqrt(v)
	}
	if v := varXA * varXB; v > 0 {
		cx = numX / math.Sqrt(v)
	}
	return cw, cx
}

// naiveWeighted evaluates one pixel by direct summation over its window. pick
// is 'w' or 'x' when both populations were compared, 0 otherwise. The pixel
// must lie inside its own window.
func naiveWeighted(a, b *plane.Plane[uint8], w *plane.Plane[float32], x, y, windowSize int) (corr, cw, cx float64, pick byte) {
	x1, y1, x2, y2 := integral.Window(x, y, windowSize/2, a.Width(), a.Height())
	var va, vb, vw []float64
	centre := -1
	for yy := y1; yy < y2; yy++ {
		for xx := x1; xx < x2; xx++ {
			if xx == x && yy == y {
				centre = len(va)
			}
			va = append(va, float64(a.At(xx, yy)))
			vb = append(vb, float64(b.At(xx, yy)))
			vw = append(vw, float64(w.At(xx, yy)))
		}
	}
	area := float64(len(va))
	cw, cx = populations(va, vb, vw, area)

	// Without the centre: it leaves the weighted sums but still counts toward
	// the complement with zero samples.
	va[centre], vb[centre], vw[centre] = 0, 0, 0
	var sw float64
	for _, v := range vw {
		sw += v
	}
	sx := area - sw
	r := cx
	switch {
	case sw > area/3 && sx > area/3:
		cew, cex := populations(va, vb, vw, area)
		if sw*math.Abs(cw-cew) < sx*math.Abs(cx-cex) {
			r, pick = cw, 'w'
		} else {
			pick = 'x'
		}
	case sw > sx:
		r = cw
	}
	return max(r, 0), cw, cx, pick
}

func TestWeightedMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewPCG(33, 34))
	w, h, win := 40, 30, 5
	a := randomPlane(r, w, h)
	wm := randomWeights(r, w, h, 0, 1)
	b := plane.New[uint8](w, h)
	for y := range h {
		for x := range w {
			if wm.At(x, y) == 1 {
				b.Set(x, y, a.At(x, y)/2+uint8(r.IntN(40)))
			} else {
				b.Set(x, y, uint8(r.IntN(256)))
			}
		}
	}
	got := computeWeighted(t, a, b, wm, win)

	// Count compared pixels where the choice changes the output.
	picks := map[byte]int{}
	for y := range h {
		for x := range w {
			want, cw, cx, pick := naiveWeighted(a, b, wm, x, y, win)
			require.InDelta(t, want, got.At(x, y), 1e-5, "(%d,%d)", x, y)
			if pick != 0 && math.Abs(max(cw, 0)-max(cx, 0)) > 0.1 {
				picks[pick]++
			}
		}
	}
	assert.Positive(t, picks['w'], "pixels decided for the weighted population")
	assert.Positive(t, picks['x'], "pixels decided for the complement")
}

func TestWeightedPopulationThreshold(t *testing.T) {
	// A 3×3 image and window: pixel (2,2) sees the whole image with itself in
	// the bottom-right corner, so area is 9 and the threshold is 3.
	a := plane.New[uint8](3, 3)
	b := plane.New[uint8](3, 3)
	for i, v := range []uint8{10, 200, 40, 90, 160, 30, 220, 70, 120} {
		a.Set(i%3, i/3, v)
	}
	for i, v := range []uint8{30, 180, 90, 60, 170, 20, 200, 110, 100} {
		b.Set(i%3, i/3, v)
	}
	weights := func(vs ...float32) *plane.Plane[float32] {
		p := plane.New[float32](3, 3)
		for i, v := range vs {
			p.Set(i%3, i/3, v)
		}
		return p
	}
	tests := []struct {
		name string
		w    *plane.Plane[float32]
		want float32
	}{
		// Three weighted neighbours: not more than area/3, the complement wins
		// (comparing would have picked cw = 0.9119).
		{"weighted at threshold", weights(1, 0, 1, 0, 0, 1, 0, 0, 1), 0.935025},
		// Three complement neighbours: the weighted population alone.
		{"complement at threshold", weights(1, 1, 1, 1, 0, 0, 1, 1, 0), 0.926198},
		// Four and five: compared, cw is steadier without the centre
		// (cx = 0.9429).
		{"compared", weights(1, 1, 0, 1, 0, 0, 0, 1, 1), 0.902281},
	}
	for _, tt := range tests {
		got := computeWeighted(t, a, b, tt.w, 3)
		assert.InDelta(t, tt.want, got.At(2, 2), 1e-5, tt.name)
		want, _, _, _ := naiveWeighted(a, b, tt.w, 2, 2, 3)
		assert.InDelta(t, want, got.At(2, 2), 1e-5, tt.name)
	}
}

func TestCorrelateDegenerate(t *testing.T) {
	var s integral.WSums
	cw, cx := correlate(0, s, true, true)
	assert.Zero(t, cw)
	assert.Zero(t, cx)

	// A flat window has no variance in either population.
	s[integral.SumA], s[integral.SumA2] = 9*4, 9*16
	s[integral.SumB], s[integral.SumB2] = 9*4, 9*16
	s[integral.SumAB] = 9 * 16
	cw, cx = correlate(9, s, true, true)
	assert.Zero(t, cw)
	assert.Zero(t, cx)
}

func TestWeightedErrors(t *testing.T) {
	img := plane.New[uint8](4, 4)
	out := plane.New[float32](4, 4)
	e := NewWeighted()

	assert.ErrorIs(t, e.Compute(3, out), ErrNotReady)
	assert.ErrorIs(t, e.Prepare(nil, img, nil), ErrSize)
	assert.ErrorIs(t, e.Prepare(img, plane.New[uint8](4, 3), nil), ErrSize)
	assert.ErrorIs(t, e.Prepare(img, img, plane.New[float32](3, 4)), ErrSize)

	require.NoError(t, e.Prepare(img, img, nil))
	assert.Equal(t, 4, e.Width())
	assert.ErrorIs(t, e.Compute(0, out), ErrWindow)
	assert.ErrorIs(t, e.Compute(3, nil), ErrSize)
	assert.ErrorIs(t, e.Compute(3, plane.New[float32](4, 3)), ErrSize)
	assert.NoError(t, e.Compute(3, out))
}

func BenchmarkWeightedCompute(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 1))
	img, model := randomPlane(r, 320, 240), randomPlane(r, 320, 240)
	wm := randomWeights(r, 320, 240, 0, 0.5, 1)
	corr := plane.New[float32](320, 240)
	e := NewWeighted()
	if err := e.Prepare(img, model, wm); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for range b.N {
		if err := e.Compute(15, corr); err != nil {
			b.Fatal(err)
		}
	}
}
