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
	"errors"
	"sync"
)

// Errors returned by the engines. They are wrapped with call context; test
// them with errors.Is.
var (
	// ErrSize reports an empty input or mismatched dimensions between the
	// reference, candidate, mask, weight map or output maps.
	ErrSize = errors.New("size mismatch")

	// ErrChannels reports a channel count outside 1..3 or a candidate whose
	// channel count differs from the reference.
	ErrChannels = errors.New("unsupported channel count")

	// ErrWindow reports a window size below 1.
	ErrWindow = errors.New("window size must be at least 1")

	// ErrNotReady reports a call made before the tables it needs were built.
	ErrNotReady = errors.New("integral tables not built")

	// ErrEmptyWindow reports a masked window with no valid pixel around a
	// valid centre pixel. The mask violates the caller contract that every
	// valid pixel has a valid neighbourhood at the requested window size.
	ErrEmptyWindow = errors.New("window has no valid mask pixels")
)

// firstError keeps the first error reported by concurrent row workers.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
