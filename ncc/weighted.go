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
	"github.com/wncc-go/wncc/plane"
)

// Weighted computes weighted NCC maps. Each window is split into the
// population weighted by the weight map and its complement; the output is
// the correlation of whichever population is less dominated by the centre
// pixel. Negative correlations are reported as 0.
type Weighted struct {
	cfg   config
	table *integral.WeightedTable
	ready bool
}

// NewWeighted returns an engine with no tables built.
func NewWeighted(opts ...Option) *Weighted {
	return &Weighted{cfg: newConfig(opts)}
}

// Width returns the width of the prepared images, or 0.
func (e *Weighted) Width() int {
	if e.table == nil {
		return 0
	}
	return e.table.Width()
}

// Height returns the height of the prepared images, or 0.
func (e *Weighted) Height() int {
	if e.table == nil {
		return 0
	}
	return e.table.Height()
}

// Prepare builds the tables for candidate a, reference b and weight map w.
// A nil w weights every pixel 1, which leaves the complementary population
// empty.
func (e *Weighted) Prepare(a, b *plane.Plane[uint8], w *plane.Plane[float32]) error {
	if a.Empty() || b.Empty() || !plane.SameSize(a, b) {
		return fmt.Errorf("ncc: weighted candidate %dx%d, reference %dx%d: %w",
			a.Width(), a.Height(), b.Width(), b.Height(), ErrSize)
	}
	if w != nil && !plane.SameSize(w, a) {
		return fmt.Errorf("ncc: weight map is %dx%d but images are %dx%d: %w",
			w.Width(), w.Height(), a.Width(), a.Height(), ErrSize)
	}
	width, height := a.Width(), a.Height()
	if e.table == nil || e.table.Width() != width || e.table.Height() != height {
		e.cfg.log.Debug().Int("width", width).Int("height", height).Msg("ncc: allocating weighted tables")
		e.table = integral.NewWeightedTable(width, height)
	}
	e.table.Build(a, b, w)
	e.ready = true
	return nil
}

// Compute writes the weighted correlation of every pixel into corr, which
// must cover the prepared images.
func (e *Weighted) Compute(windowSize int, corr *plane.Plane[float32]) error {
	if windowSize < 1 {
		return fmt.Errorf("ncc: window size %d: %w", windowSize, ErrWindow)
	}
	if !e.ready {
		return fmt.Errorf("ncc: weighted Compute before Prepare: %w", ErrNotReady)
	}
	width, height := e.Width(), e.Height()
	if corr == nil || corr.Width() < width || corr.Height() < height {
		return fmt.Errorf("ncc: correlation map does not cover %dx%d: %w", width, height, ErrSize)
	}
	w2 := windowSize / 2
	e.cfg.pool.ParallelForBatched(height, e.cfg.rowBatch, func(start, end int) {
		for y := start; y < end; y++ {
			dst := corr.Row(y)
			for x := range width {
				dst[x] = float32(e.pixel(x, y, w2))
			}
		}
	})
	return nil
}

func (e *Weighted) pixel(x, y, w2 int) float64 {
	x1, y1, x2, y2 := integral.Window(x, y, w2, e.Width(), e.Height())
	area := float64(plane.Rect{X0: x1, Y0: y1, X1: x2, Y1: y2}.Area())
	s := e.table.Rect(x1, y1, x2, y2)
	se := s.Sub(e.table.Rect(x, y, x+1, y+1))

	sw := se[integral.SumW]
	sx := area - sw
	var r float64
	switch {
	case sw > area/3 && sx > area/3:
		cw, cx := correlate(area, s, true, true)
		cew, cex := correlate(area, se, true, true)
		dw := sw * math.Abs(cw-cew)
		dx := sx * math.Abs(cx-cex)
		if dw < dx {
			r = cw
		} else {
			r = cx
		}
	case sw > sx:
		r, _ = correlate(area, s, true, false)
	default:
		_, r = correlate(area, s, false, true)
	}
	if !(r > 0) {
		return 0
	}
	return r
}

// correlate returns the correlation of the weighted population (cw) and of
// the complementary population (cx) of a window of the given area. Both use
// the means of the whole window. Unrequested values are left 0.
func correlate(area float64, s integral.WSums, wantW, wantX bool) (cw, cx float64) {
	norm := 1 / area
	avgA := norm * s[integral.SumA]
	avgB := norm * s[integral.SumB]

	if wantW {
		num := s[integral.SumWAB] - avgB*s[integral.SumWA] - avgA*s[integral.SumWB] + avgA*avgB*s[integral.SumW]
		twa := s[integral.SumWA2] - 2*avgA*s[integral.SumWA] + avgA*avgA*s[integral.SumW]
		twb := s[integral.SumWB2] - 2*avgB*s[integral.SumWB] + avgB*avgB*s[integral.SumW]
		cw = ratio(num, twa*twb)
	}
	if wantX {
		xab := s[integral.SumAB] - s[integral.SumWAB]
		xa := s[integral.SumA] - s[integral.SumWA]
		xb := s[integral.SumB] - s[integral.SumWB]
		n := area - s[integral.SumW]
		xa2 := s[integral.SumA2] - s[integral.SumWA2]
		xb2 := s[integral.SumB2] - s[integral.SumWB2]
		txa := xa2 - 2*avgA*xa + avgA*avgA*n
		txb := xb2 - 2*avgB*xb + avgB*avgB*n
		cx = ratio(xab-avgB*xa-avgA*xb+avgA*avgB*n, txa*txb)
	}
	return cw, cx
}

// ratio returns num/sqrt(v), or 0 when v is not positive.
func ratio(num, v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return num / math.Sqrt(v)
}
