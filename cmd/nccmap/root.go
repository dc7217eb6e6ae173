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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wncc-go/wncc/ncc"
	"github.com/wncc-go/wncc/workerpool"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	workers    int

	log     zerolog.Logger
	pool    *workerpool.Pool
	ownPool bool
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	defaults := DefaultConfig()

	root := &cobra.Command{
		Use:   "nccmap",
		Short: "Compute windowed normalized cross-correlation maps between images",
		Long: `nccmap compares a reference image with a candidate image and writes, for
every pixel, the normalized cross-correlation of the two over a square window
centred on that pixel. Maps are written as 16-bit PNG images.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML file with flag defaults")
	pf.StringVar(&a.logLevel, "log-level", defaults.LogLevel, "log level (trace, debug, info, warn, error)")
	pf.IntVar(&a.workers, "workers", defaults.Workers, "row workers; 0 uses GOMAXPROCS")

	root.AddCommand(newNCCCmd(a), newWeightedCmd(a), newInfoCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		cfg, err := LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		if err := cfg.apply(cmd.Flags()); err != nil {
			return err
		}
	}

	level, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("parse --log-level: %w", err)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	if a.workers < 0 {
		return fmt.Errorf("--workers must not be negative, got %d", a.workers)
	}
	if a.workers > 0 {
		a.pool = workerpool.New(a.workers)
		a.ownPool = true
	} else {
		a.pool = workerpool.Default()
	}
	a.log.Debug().Str("command", cmd.Name()).Int("workers", a.pool.NumWorkers()).Msg("starting")
	return nil
}

func (a *app) close() {
	if a.ownPool {
		a.pool.Close()
	}
}

// engineOptions returns the options shared by every engine of a run.
func (a *app) engineOptions(scalar bool) []ncc.Option {
	return []ncc.Option{
		ncc.WithPool(a.pool),
		ncc.WithLogger(a.log),
		ncc.WithScalar(scalar),
	}
}
