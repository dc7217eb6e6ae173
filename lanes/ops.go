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

import "math"

// Load creates a vector from the first MaxLanes[T]() elements of src.
// If src is shorter, the missing lanes are zero and NumLanes reports the
// loaded count.
func Load[T Floats](src []T) Vec[T] {
	n := min(len(src), MaxLanes[T]())
	var v Vec[T]
	copy(v.data[:n], src[:n])
	v.n = n
	return v
}

// Store writes the vector's lanes to dst, truncated to len(dst).
func Store[T Floats](v Vec[T], dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.data[:n])
}

// Set creates a vector with all lanes set to value.
func Set[T Floats](value T) Vec[T] {
	v := Vec[T]{n: MaxLanes[T]()}
	for i := range v.n {
		v.data[i] = value
	}
	return v
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Floats]() Vec[T] {
	return Vec[T]{n: MaxLanes[T]()}
}

// Add performs element-wise addition.
func Add[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] + b.data[i]
	}
	return r
}

// Sub performs element-wise subtraction.
func Sub[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] - b.data[i]
	}
	return r
}

// Mul performs element-wise multiplication.
func Mul[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] * b.data[i]
	}
	return r
}

// Div performs element-wise division.
func Div[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] / b.data[i]
	}
	return r
}

// Max returns the element-wise maximum.
func Max[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		if a.data[i] > b.data[i] {
			r.data[i] = a.data[i]
		} else {
			r.data[i] = b.data[i]
		}
	}
	return r
}

// Sqrt computes the element-wise square root.
func Sqrt[T Floats](v Vec[T]) Vec[T] {
	r := Vec[T]{n: v.n}
	for i := range r.n {
		r.data[i] = T(math.Sqrt(float64(v.data[i])))
	}
	return r
}

// GreaterThan returns a mask of lanes where a > b.
func GreaterThan[T Floats](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: min(a.n, b.n)}
	for i := range m.n {
		m.bits[i] = a.data[i] > b.data[i]
	}
	return m
}

// IfThenElseZero returns a where mask is set and zero elsewhere.
func IfThenElseZero[T Floats](mask Mask[T], a Vec[T]) Vec[T] {
	r := Vec[T]{n: min(mask.n, a.n)}
	for i := range r.n {
		if mask.bits[i] {
			r.data[i] = a.data[i]
		}
	}
	return r
}

// AddTo adds src into dst element-wise (dst[i] += src[i]) over
// min(len(dst), len(src)) elements, a full vector at a time with a scalar tail.
func AddTo[T Floats](dst, src []T) {
	n := min(len(dst), len(src))
	lanes := MaxLanes[T]()
	i := 0
	if Enabled() {
		for ; i+lanes <= n; i += lanes {
			Store(Add(Load(dst[i:]), Load(src[i:])), dst[i:])
		}
	}
	for ; i < n; i++ {
		dst[i] += src[i]
	}
}

// ProcessWithTail calls fullFn(offset) for every full vector in [0, size) and
// tailFn(offset, count) once for the remainder, if any.
func ProcessWithTail[T Floats](size int, fullFn func(offset int), tailFn func(offset, count int)) {
	lanes := MaxLanes[T]()
	full := size / lanes
	for i := range full {
		fullFn(i * lanes)
	}
	if rem := size - full*lanes; rem > 0 {
		tailFn(full*lanes, rem)
	}
}
