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

// Command nccmap writes windowed NCC maps between a reference and a
// candidate image.
//
// Usage:
//
//	nccmap ncc --model ref.png --frame cur.png --window 9 --out corr.png
//	nccmap ncc --model ref.png --frame cur.png --mask valid.png --mono --out corr.png --texture tex.png
//	nccmap weighted --model ref.png --frame cur.png --weights w.png --out corr.png
//	nccmap info
//
// Every flag default may also be set in a YAML file passed with --config:
//
//	window: 15
//	mono: true
//	texture_scale: 0.01
//	workers: 4
//	log_level: debug
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
