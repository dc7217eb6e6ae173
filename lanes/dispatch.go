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

package lanes

import (
	"os"
	"strconv"
	"unsafe"
)

// Level identifies the instruction set the lane width was derived from.
type Level int

const (
	// LevelScalar disables vector kernels.
	LevelScalar Level = iota

	// LevelSSE2 is the x86-64 baseline (128-bit).
	LevelSSE2

	// LevelAVX2 is 256-bit x86.
	LevelAVX2

	// LevelAVX512 is 512-bit x86.
	LevelAVX512

	// LevelNEON is 128-bit ARM ASIMD.
	LevelNEON
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Set by init() in dispatch_*.go files.
var (
	currentLevel Level
	currentWidth int
)

// CurrentLevel returns the detected level.
func CurrentLevel() Level {
	return currentLevel
}

// CurrentWidth returns the vector width in bytes, e.g. 16 for SSE2/NEON, 32
// for AVX2 and 64 for AVX-512. Scalar mode still reports 16 so that row
// strides stay aligned the same way.
func CurrentWidth() int {
	return currentWidth
}

// Enabled reports whether vector kernels should be used.
func Enabled() bool {
	return currentLevel != LevelScalar
}

// NoSimdEnv checks the NCC_NO_SIMD environment variable. Any non-empty value
// that does not parse as false disables the vector kernels.
func NoSimdEnv() bool {
	val := os.Getenv("NCC_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// MaxLanes returns the number of lanes of type T per vector at the current
// width, e.g. 4 float64 lanes with AVX2.
func MaxLanes[T Floats]() int {
	var dummy T
	n := currentWidth / int(unsafe.Sizeof(dummy))
	return min(max(n, 1), maxVecLanes)
}

func setScalarMode() {
	currentLevel = LevelScalar
	currentWidth = 16
}
