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

// Package lanes provides fixed-width vector operations for the correlation
// kernels, sized at startup to the host's SIMD register width.
//
// A Vec holds MaxLanes[T]() elements and every operation works on all of
// them at once. The kernels are written as straight-line lane blocks that
// the compiler keeps in registers; the block width follows the detected
// instruction set so the same code walks 2 float64 lanes on NEON, 4 on
// AVX2 and 8 on AVX-512.
//
// Basic usage:
//
//	a := lanes.Load(row[x:])
//	b := lanes.Load(up[x:])
//	lanes.Store(lanes.Add(a, b), row[x:])
//
// Setting NCC_NO_SIMD=1 disables the vector paths; callers check Enabled
// and fall back to their scalar loops.
package lanes

// Floats is a constraint for floating-point lane types.
type Floats interface {
	~float32 | ~float64
}

// maxVecLanes bounds the lane count of any Vec: 64-byte vectors of float32.
const maxVecLanes = 16

// Vec is a portable vector value. It is copied by value and never allocates.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Floats] struct {
	data [maxVecLanes]T
	n    int
}

// NumLanes returns the number of active lanes in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Lane returns lane i. It is meant for tests and for scattering results into
// array-of-struct destinations.
func (v Vec[T]) Lane(i int) T {
	return v.data[i]
}

// Mask is the result of a lane-wise comparison.
type Mask[T Floats] struct {
	bits [maxVecLanes]bool
	n    int
}

// Get reports whether lane i is set.
func (m Mask[T]) Get(i int) bool {
	return m.bits[i]
}
