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

// Package ncc computes windowed normalized cross-correlation maps between a
// reference image B and a candidate image A of the same size.
//
// For every pixel the engines evaluate the correlation of the two images over
// a square window centred on it, using the summed-area tables of package
// integral so each window costs O(1) regardless of its size.
//
// # Engines
//
// Engine computes the plain and masked variants. A reference is installed
// once with SetModel; candidates are installed with SetImage and evaluated
// with Compute, so a fixed reference can be compared with a stream of frames
// without rebuilding its half of the tables:
//
//	e := ncc.NewEngine()
//	if err := e.SetModel(model, nil); err != nil { ... }
//	for frame := range frames {
//		if err := e.SetImage(frame); err != nil { ... }
//		if err := e.Compute(9, corr, texture); err != nil { ... }
//	}
//
// Plain correlations lie in [-1, 1]. A window whose standard deviation
// product is at most 1 (flat in at least one image) yields 0. The optional
// texture map holds (σa + σb)/√n, a measure of local contrast.
//
// Weighted splits every window into a weighted and a complementary
// population using a per-pixel weight map, correlates each, and keeps the
// population whose correlation depends least on the centre pixel. Negative
// results are reported as 0.
//
// MultiChannel runs one Engine per channel of a 1 to 3 channel image and
// either keeps the per-channel maps or averages them into one.
//
// # Concurrency
//
// Rows are spread over a workerpool.Pool (the shared default unless WithPool
// is given). An engine must not be used by several goroutines at once;
// separate engines may share a pool.
//
// # Vector kernels
//
// The interior columns of every row, where windows need no clipping, are
// evaluated lanes.MaxLanes at a time. Set NCC_NO_SIMD=1 or pass
// WithScalar(true) to force the scalar kernel.
package ncc
