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

	"github.com/wncc-go/wncc/lanes"
	"github.com/wncc-go/wncc/plane"
	"golang.org/x/sync/errgroup"
)

// MultiChannel runs an independent Engine on each channel of a 1 to 3
// channel image.
type MultiChannel struct {
	opts    []Option
	engines []*Engine

	// Per-channel scratch maps for ComputeMono.
	corr, texture plane.Planes[float32]
}

// NewMultiChannel returns an adapter with no reference installed. The options
// are applied to every per-channel engine.
func NewMultiChannel(opts ...Option) *MultiChannel {
	return &MultiChannel{opts: opts}
}

// Channels returns the channel count of the installed reference, or 0.
func (m *MultiChannel) Channels() int {
	return len(m.engines)
}

// Engine returns the engine of channel c.
func (m *MultiChannel) Engine(c int) *Engine {
	return m.engines[c]
}

// SetModel installs a reference image. The mask, if any, applies to every
// channel.
func (m *MultiChannel) SetModel(im plane.Planes[uint8], mask *plane.Plane[uint8]) error {
	n := im.Channels()
	if n < 1 || n > plane.MaxChannels {
		return fmt.Errorf("ncc: reference has %d channels: %w", n, ErrChannels)
	}
	if !im.Uniform() {
		return fmt.Errorf("ncc: reference channels differ in size: %w", ErrSize)
	}
	if im[0].Empty() {
		return fmt.Errorf("ncc: empty reference image: %w", ErrSize)
	}
	if mask != nil && !plane.SameSize(im[0], mask) {
		return fmt.Errorf("ncc: reference is %dx%d but mask is %dx%d: %w",
			im.Width(), im.Height(), mask.Width(), mask.Height(), ErrSize)
	}
	for len(m.engines) < n {
		m.engines = append(m.engines, NewEngine(m.opts...))
	}
	m.engines = m.engines[:n]

	var g errgroup.Group
	for c, e := range m.engines {
		g.Go(func() error {
			if err := e.SetModel(im[c], mask); err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// SetImage installs a candidate image with the same channel count and size as
// the reference.
func (m *MultiChannel) SetImage(im plane.Planes[uint8]) error {
	if len(m.engines) == 0 {
		return fmt.Errorf("ncc: SetImage before SetModel: %w", ErrNotReady)
	}
	if im.Channels() != len(m.engines) {
		return fmt.Errorf("ncc: candidate has %d channels, reference %d: %w",
			im.Channels(), len(m.engines), ErrChannels)
	}
	var g errgroup.Group
	for c, e := range m.engines {
		g.Go(func() error {
			if err := e.SetImage(im[c]); err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ComputeColor writes the maps of each channel into the matching plane of
// corr and of texture. Either may be nil.
func (m *MultiChannel) ComputeColor(windowSize int, corr, texture plane.Planes[float32]) error {
	n := len(m.engines)
	if n == 0 {
		return fmt.Errorf("ncc: Compute before SetModel: %w", ErrNotReady)
	}
	if (corr != nil && corr.Channels() != n) || (texture != nil && texture.Channels() != n) {
		return fmt.Errorf("ncc: destination channels do not match %d reference channels: %w", n, ErrChannels)
	}
	var g errgroup.Group
	for c, e := range m.engines {
		g.Go(func() error {
			var cp, tp *plane.Plane[float32]
			if corr != nil {
				cp = corr[c]
			}
			if texture != nil {
				tp = texture[c]
			}
			if err := e.Compute(windowSize, cp, tp); err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ComputeMono writes the mean over channels of the correlation into corr and
// of the texture into texture. Either may be nil.
func (m *MultiChannel) ComputeMono(windowSize int, corr, texture *plane.Plane[float32]) error {
	n := len(m.engines)
	if n == 0 {
		return fmt.Errorf("ncc: Compute before SetModel: %w", ErrNotReady)
	}
	if n == 1 {
		return m.engines[0].Compute(windowSize, corr, texture)
	}

	w, h := m.engines[0].Width(), m.engines[0].Height()
	if corr != nil && (corr.Width() < w || corr.Height() < h) {
		return fmt.Errorf("ncc: correlation map does not cover %dx%d: %w", w, h, ErrSize)
	}
	if texture != nil && (texture.Width() < w || texture.Height() < h) {
		return fmt.Errorf("ncc: texture map does not cover %dx%d: %w", w, h, ErrSize)
	}
	var cs, ts plane.Planes[float32]
	if corr != nil {
		m.corr = scratch(m.corr, w, h, n)
		cs = m.corr
	}
	if texture != nil {
		m.texture = scratch(m.texture, w, h, n)
		ts = m.texture
	}
	if err := m.ComputeColor(windowSize, cs, ts); err != nil {
		return err
	}
	if corr != nil {
		mean(corr, m.corr)
	}
	if texture != nil {
		mean(texture, m.texture)
	}
	return nil
}

func scratch(ps plane.Planes[float32], w, h, n int) plane.Planes[float32] {
	if ps.Channels() == n && ps.Width() == w && ps.Height() == h {
		return ps
	}
	return plane.NewPlanes[float32](w, h, n)
}

// mean writes the per-pixel arithmetic mean of src into dst.
func mean(dst *plane.Plane[float32], src plane.Planes[float32]) {
	scale := 1 / float32(len(src))
	s := lanes.Set(scale)
	for y := range src.Height() {
		row := dst.Row(y)[:src.Width()]
		copy(row, src[0].RowSlice(y))
		for _, p := range src[1:] {
			lanes.AddTo(row, p.RowSlice(y))
		}
		lanes.ProcessWithTail[float32](len(row),
			func(off int) {
				lanes.Store(lanes.Mul(lanes.Load(row[off:]), s), row[off:])
			},
			func(off, count int) {
				for x := off; x < off+count; x++ {
					row[x] *= scale
				}
			})
	}
}
