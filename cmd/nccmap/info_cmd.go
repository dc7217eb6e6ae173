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

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wncc-go/wncc/lanes"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print vector dispatch level and worker count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "dispatch level:  %s\n", lanes.CurrentLevel())
			fmt.Fprintf(w, "vector width:    %s\n", humanize.IBytes(uint64(lanes.CurrentWidth())))
			fmt.Fprintf(w, "float32 lanes:   %d\n", lanes.MaxLanes[float32]())
			fmt.Fprintf(w, "float64 lanes:   %d\n", lanes.MaxLanes[float64]())
			fmt.Fprintf(w, "vector kernels:  %t\n", lanes.Enabled())
			fmt.Fprintf(w, "NCC_NO_SIMD set: %t\n", lanes.NoSimdEnv())
			fmt.Fprintf(w, "row workers:     %d\n", a.pool.NumWorkers())
			return nil
		},
	}
}
