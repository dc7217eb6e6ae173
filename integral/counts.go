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

package integral

import "github.com/wncc-go/wncc/plane"

// Counts is the integral table of valid (nonzero) mask pixels.
type Counts struct {
	width, height int
	c             *plane.Plane[int32]
}

// NewCounts allocates a zeroed coverage table for a width×height mask.
func NewCounts(width, height int) *Counts {
	return &Counts{
		width:  width,
		height: height,
		c:      plane.New[int32](width+1, height+1),
	}
}

// Width returns the mask width.
func (c *Counts) Width() int {
	return c.width
}

// Height returns the mask height.
func (c *Counts) Height() int {
	return c.height
}

// Build rebuilds the table from mask. It panics on size mismatch.
func (c *Counts) Build(mask *plane.Plane[uint8]) {
	if mask.Width() != c.width || mask.Height() != c.height {
		panic("integral: mask size does not match coverage table")
	}
	for y := range c.height {
		row, up := c.c.Row(y+1), c.c.Row(y)
		var run int32
		for x, m := range mask.RowSlice(y) {
			if m != 0 {
				run++
			}
			row[x+1] = up[x+1] + run
		}
	}
}

// Rect returns the number of valid pixels in [x1,x2)×[y1,y2).
func (c *Counts) Rect(x1, y1, x2, y2 int) int32 {
	up, down := c.c.Row(y1), c.c.Row(y2)
	return up[x1] - up[x2] - down[x1] + down[x2]
}
