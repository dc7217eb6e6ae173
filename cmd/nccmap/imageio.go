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
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/wncc-go/wncc/plane"
	"golang.org/x/sync/errgroup"

	// Extra input formats beyond those imaging registers.
	_ "golang.org/x/image/webp"
)

// openImages decodes paths concurrently. Empty paths yield nil images.
func openImages(ctx context.Context, paths ...string) ([]image.Image, error) {
	imgs := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		if path == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(path, imaging.AutoOrientation(true))
			if err != nil {
				return fmt.Errorf("open %q: %w", path, err)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}

// samePlanes converts model and frame to planes with a common channel count:
// both colour when both are colour, otherwise both grayscale.
func samePlanes(model, frame image.Image) (plane.Planes[uint8], plane.Planes[uint8]) {
	m, f := plane.FromImage(model), plane.FromImage(frame)
	if m.Channels() != f.Channels() {
		return plane.Planes[uint8]{plane.GrayFromImage(model)}, plane.Planes[uint8]{plane.GrayFromImage(frame)}
	}
	return m, f
}

func checkBounds(name string, img image.Image, want image.Rectangle) error {
	if got := img.Bounds(); got.Dx() != want.Dx() || got.Dy() != want.Dy() {
		return fmt.Errorf("%s is %dx%d, reference is %dx%d", name, got.Dx(), got.Dy(), want.Dx(), want.Dy())
	}
	return nil
}

// saveImage writes img to path in the format implied by its extension and
// logs the result.
func saveImage(log zerolog.Logger, path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	ev := log.Info().Str("path", path).Str("dimensions", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	if st, err := os.Stat(path); err == nil {
		ev = ev.Str("size", humanize.Bytes(uint64(st.Size())))
	}
	ev.Msg("map written")
	return nil
}
