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
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wncc-go/wncc/ncc"
	"github.com/wncc-go/wncc/plane"
)

type weightedFlags struct {
	model, frame, weights string
	out                   string
	window                int
}

func newWeightedCmd(a *app) *cobra.Command {
	var f weightedFlags
	cmd := &cobra.Command{
		Use:   "weighted",
		Short: "Weighted two-population NCC map on grayscale images",
		Long: `Computes the weighted NCC map of --frame against --model. The --weights image
is read as grayscale and divided by 255, so white pixels belong fully to the
weighted population and black pixels fully to its complement. Without
--weights every pixel has weight 1.

The weighted kernel has no vector path, so the scalar setting of the config
file does not apply to this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWeighted(cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.model, "model", "", "reference image")
	fs.StringVar(&f.frame, "frame", "", "candidate image")
	fs.StringVar(&f.weights, "weights", "", "optional weight map image")
	fs.StringVarP(&f.out, "out", "o", "", "output correlation map (.png)")
	fs.IntVarP(&f.window, "window", "w", DefaultConfig().Window, "window size in pixels")
	for _, name := range []string{"model", "frame", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runWeighted(cmd *cobra.Command, f weightedFlags) error {
	if f.window < 1 {
		return fmt.Errorf("--window must be at least 1, got %d", f.window)
	}
	imgs, err := openImages(cmd.Context(), f.model, f.frame, f.weights)
	if err != nil {
		return err
	}
	bounds := imgs[0].Bounds()
	if err := checkBounds("frame", imgs[1], bounds); err != nil {
		return err
	}
	var weights *plane.Plane[float32]
	if imgs[2] != nil {
		if err := checkBounds("weights", imgs[2], bounds); err != nil {
			return err
		}
		weights = plane.ToFloat(plane.GrayFromImage(imgs[2]), 255)
	}
	model, frame := plane.GrayFromImage(imgs[0]), plane.GrayFromImage(imgs[1])

	start := time.Now()
	e := ncc.NewWeighted(a.engineOptions(false)...)
	if err := e.Prepare(frame, model, weights); err != nil {
		return err
	}
	corr := plane.New[float32](model.Width(), model.Height())
	if err := e.Compute(f.window, corr); err != nil {
		return err
	}
	a.log.Info().
		Bool("weights", weights != nil).
		Int("window", f.window).
		Str("pixels", humanize.Comma(int64(model.Width()*model.Height()))).
		Dur("elapsed", time.Since(start)).
		Msg("weighted ncc computed")
	return saveImage(a.log, f.out, plane.ToGray16(corr, 1))
}
