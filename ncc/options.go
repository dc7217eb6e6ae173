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
	"github.com/rs/zerolog"
	"github.com/wncc-go/wncc/lanes"
	"github.com/wncc-go/wncc/workerpool"
)

// Option configures an engine.
type Option func(*config)

type config struct {
	pool     *workerpool.Pool
	log      zerolog.Logger
	scalar   bool
	rowBatch int
}

func newConfig(opts []Option) config {
	c := config{
		log:      zerolog.Nop(),
		scalar:   !lanes.Enabled(),
		rowBatch: 8,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.pool == nil {
		c.pool = workerpool.Default()
	}
	return c
}

// WithPool runs row kernels on pool instead of the shared default pool.
func WithPool(pool *workerpool.Pool) Option {
	return func(c *config) { c.pool = pool }
}

// WithLogger sets the logger used for table rebuild events (Debug level).
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithScalar forces the scalar row kernel even when vector lanes are
// available. Results are the same up to floating-point rounding.
func WithScalar(scalar bool) Option {
	return func(c *config) { c.scalar = scalar || !lanes.Enabled() }
}

// WithRowBatch sets how many rows a worker claims at a time.
func WithRowBatch(rows int) Option {
	return func(c *config) { c.rowBatch = max(rows, 1) }
}
