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

	"github.com/wncc-go/wncc/integral"
	"github.com/wncc-go/wncc/plane"
)

// Engine computes plain or masked NCC maps of candidate images against one
// reference image.
type Engine struct {
	cfg config

	model  *plane.Plane[uint8]
	mask   *plane.Plane[uint8]
	table  *integral.Table
	counts *integral.Counts
	frame  bool

	// window holds the last computed window sums, one per table cell.
	window []integral.Sums
}

// NewEngine returns an engine with no reference installed.
func NewEngine(opts ...Option) *Engine {
	return &Engine{cfg: newConfig(opts)}
}

// Width returns the width of the installed reference, or 0.
func (e *Engine) Width() int {
	if e.table == nil {
		return 0
	}
	return e.table.Width()
}

// Height returns the height of the installed reference, or 0.
func (e *Engine) Height() int {
	if e.table == nil {
		return 0
	}
	return e.table.Height()
}

// Masked reports whether the installed reference carries a mask.
func (e *Engine) Masked() bool {
	return e.mask != nil
}

// SetModel installs reference image b and an optional mask of the same size.
// Pixels where the mask is zero are excluded from every window and produce 0
// in the output maps. The reference and mask are copied; the caller keeps
// ownership of both.
//
// Any previously installed candidate is discarded.
func (e *Engine) SetModel(b, mask *plane.Plane[uint8]) error {
	if b.Empty() {
		return fmt.Errorf("ncc: empty reference image: %w", ErrSize)
	}
	if mask != nil && !plane.SameSize(b, mask) {
		return fmt.Errorf("ncc: reference is %dx%d but mask is %dx%d: %w",
			b.Width(), b.Height(), mask.Width(), mask.Height(), ErrSize)
	}

	w, h := b.Width(), b.Height()
	if e.table == nil || e.table.Width() != w || e.table.Height() != h {
		e.cfg.log.Debug().Int("width", w).Int("height", h).Msg("ncc: allocating integral tables")
		e.table = integral.NewTable(w, h)
		e.window = make([]integral.Sums, (w+1)*(h+1))
	}
	e.model = b.Clone()
	e.table.BuildModel(e.model, mask)
	if mask != nil {
		e.mask = mask.Clone()
		if e.counts == nil || e.counts.Width() != w || e.counts.Height() != h {
			e.counts = integral.NewCounts(w, h)
		}
		e.counts.Build(e.mask)
	} else {
		e.mask = nil
	}
	e.frame = false
	e.cfg.log.Debug().Int("width", w).Int("height", h).Bool("masked", mask != nil).Msg("ncc: reference installed")
	return nil
}

// SetImage installs candidate image a, which must match the reference size.
func (e *Engine) SetImage(a *plane.Plane[uint8]) error {
	if e.table == nil {
		return fmt.Errorf("ncc: SetImage before SetModel: %w", ErrNotReady)
	}
	if a.Empty() || !plane.SameSize(a, e.model) {
		return fmt.Errorf("ncc: candidate is %dx%d but reference is %dx%d: %w",
			a.Width(), a.Height(), e.model.Width(), e.model.Height(), ErrSize)
	}
	e.table.BuildFrame(a, e.model, e.mask)
	e.frame = true
	return nil
}

// Compute writes the correlation of every pixel over the windowSize×windowSize
// window centred on it into corr, and the local texture into texture. Either
// map may be nil. Maps must cover the image; extra area is left untouched.
//
// Even sizes behave as the next odd size, since the window extends
// windowSize/2 pixels on each side of the centre.
func (e *Engine) Compute(windowSize int, corr, texture *plane.Plane[float32]) error {
	if err := e.check(windowSize, corr, texture); err != nil {
		return err
	}
	var failure firstError
	e.cfg.pool.ParallelForBatched(e.Height(), e.cfg.rowBatch, func(start, end int) {
		for y := start; y < end; y++ {
			if err := e.row(y, windowSize/2, corr, texture); err != nil {
				failure.set(err)
				return
			}
		}
	})
	return failure.get()
}

// WindowSums returns the sums of the window centred on pixel (x, y) during
// the last Compute. Masked-out pixels, pixels outside the reference and
// every pixel of an engine without a reference report zero sums.
func (e *Engine) WindowSums(x, y int) integral.Sums {
	if x < 0 || y < 0 || x >= e.Width() || y >= e.Height() {
		return integral.Sums{}
	}
	return e.window[y*(e.Width()+1)+x]
}

func (e *Engine) check(windowSize int, corr, texture *plane.Plane[float32]) error {
	if windowSize < 1 {
		return fmt.Errorf("ncc: window size %d: %w", windowSize, ErrWindow)
	}
	if e.table == nil || !e.frame {
		return fmt.Errorf("ncc: Compute before SetModel and SetImage: %w", ErrNotReady)
	}
	if corr != nil && !plane.Covers(corr, e.model) {
		return fmt.Errorf("ncc: correlation map does not cover %dx%d: %w", e.Width(), e.Height(), ErrSize)
	}
	if texture != nil && !plane.Covers(texture, e.model) {
		return fmt.Errorf("ncc: texture map does not cover %dx%d: %w", e.Width(), e.Height(), ErrSize)
	}
	return nil
}

func (e *Engine) row(y, w2 int, corr, texture *plane.Plane[float32]) error {
	var dst, tex []float32
	if corr != nil {
		dst = corr.Row(y)
	}
	if texture != nil {
		tex = texture.Row(y)
	}
	cache := e.window[y*(e.Width()+1):]
	if e.mask != nil {
		return e.maskedRow(y, w2, dst, tex, cache)
	}
	e.plainRow(y, w2, dst, tex, cache)
	return nil
}

// Correlate is a one-shot helper computing the NCC map of a against b with
// an optional mask. It returns the correlation map only.
func Correlate(a, b, mask *plane.Plane[uint8], windowSize int, opts ...Option) (*plane.Plane[float32], error) {
	e := NewEngine(opts...)
	if err := e.SetModel(b, mask); err != nil {
		return nil, err
	}
	if err := e.SetImage(a); err != nil {
		return nil, err
	}
	corr := plane.New[float32](a.Width(), a.Height())
	if err := e.Compute(windowSize, corr, nil); err != nil {
		return nil, err
	}
	return corr, nil
}
