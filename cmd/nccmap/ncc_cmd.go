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

package main

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wncc-go/wncc/ncc"
	"github.com/wncc-go/wncc/plane"
)

type nccFlags struct {
	model, frame, mask string
	out, texture       string
	window             int
	mono               bool
	scalar             bool
	textureScale       float64
}

func newNCCCmd(a *app) *cobra.Command {
	var f nccFlags
	defaults := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "ncc",
		Short: "Plain or masked NCC map, per channel or averaged",
		Long: `Computes the plain NCC map of --frame against --model. With --mask, pixels
where the mask image is black are excluded from every window and written as 0.
Colour inputs are processed per channel; --mono averages the channel maps.
Correlations are written clamped to [0,1]; negative values render black.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runNCC(cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.model, "model", "", "reference image")
	fs.StringVar(&f.frame, "frame", "", "candidate image")
	fs.StringVar(&f.mask, "mask", "", "optional validity mask image (nonzero = valid)")
	fs.StringVarP(&f.out, "out", "o", "", "output correlation map (.png)")
	fs.StringVar(&f.texture, "texture", "", "optional output texture map (.png)")
	fs.IntVarP(&f.window, "window", "w", defaults.Window, "window size in pixels")
	fs.BoolVar(&f.mono, "mono", defaults.Mono, "average channel maps into one grayscale map")
	fs.BoolVar(&f.scalar, "scalar", defaults.Scalar, "disable vector kernels")
	fs.Float64Var(&f.textureScale, "texture-scale", defaults.TextureScale, "factor applied to texture values before writing")
	for _, name := range []string{"model", "frame", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runNCC(cmd *cobra.Command, f nccFlags) error {
	if f.window < 1 {
		return fmt.Errorf("--window must be at least 1, got %d", f.window)
	}
	imgs, err := openImages(cmd.Context(), f.model, f.frame, f.mask)
	if err != nil {
		return err
	}
	modelImg, frameImg, maskImg := imgs[0], imgs[1], imgs[2]
	bounds := modelImg.Bounds()
	if err := checkBounds("frame", frameImg, bounds); err != nil {
		return err
	}
	var mask *plane.Plane[uint8]
	if maskImg != nil {
		if err := checkBounds("mask", maskImg, bounds); err != nil {
			return err
		}
		mask = plane.GrayFromImage(maskImg)
	}
	model, frame := samePlanes(modelImg, frameImg)

	start := time.Now()
	m := ncc.NewMultiChannel(a.engineOptions(f.scalar)...)
	if err := m.SetModel(model, mask); err != nil {
		return err
	}
	if err := m.SetImage(frame); err != nil {
		return err
	}

	var corrImg, texImg image.Image
	w, h := bounds.Dx(), bounds.Dy()
	if f.mono || m.Channels() == 1 {
		corr := plane.New[float32](w, h)
		var tex *plane.Plane[float32]
		if f.texture != "" {
			tex = plane.New[float32](w, h)
		}
		if err := m.ComputeMono(f.window, corr, tex); err != nil {
			return describe(err)
		}
		corrImg = plane.ToGray16(corr, 1)
		if tex != nil {
			texImg = plane.ToGray16(tex, f.textureScale)
		}
	} else {
		corr := plane.NewPlanes[float32](w, h, m.Channels())
		var tex plane.Planes[float32]
		if f.texture != "" {
			tex = plane.NewPlanes[float32](w, h, m.Channels())
		}
		if err := m.ComputeColor(f.window, corr, tex); err != nil {
			return describe(err)
		}
		corrImg = plane.ToNRGBA64(corr, 1)
		if tex != nil {
			texImg = plane.ToNRGBA64(tex, f.textureScale)
		}
	}
	a.log.Info().
		Int("channels", m.Channels()).
		Bool("masked", mask != nil).
		Int("window", f.window).
		Str("pixels", humanize.Comma(int64(w*h))).
		Dur("elapsed", time.Since(start)).
		Msg("ncc computed")

	if err := saveImage(a.log, f.out, corrImg); err != nil {
		return err
	}
	if texImg != nil {
		return saveImage(a.log, f.texture, texImg)
	}
	return nil
}

// describe adds a user-facing hint to engine errors a caller can fix.
func describe(err error) error {
	if errors.Is(err, ncc.ErrEmptyWindow) {
		return fmt.Errorf("%w (enlarge --window or the valid area of --mask)", err)
	}
	return err
}
