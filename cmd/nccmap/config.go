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
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds flag defaults that may be supplied by a YAML file.
// Explicit command-line flags always win.
type Config struct {
	Window       int     `yaml:"window"`
	Mono         bool    `yaml:"mono"`
	TextureScale float64 `yaml:"texture_scale"`
	Workers      int     `yaml:"workers"`
	Scalar       bool    `yaml:"scalar"`
	LogLevel     string  `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Window:       9,
		TextureScale: 1.0 / 255,
		LogLevel:     "info",
	}
}

// LoadConfig reads path and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if !(c.TextureScale > 0) {
		return fmt.Errorf("texture_scale must be positive, got %v", c.TextureScale)
	}
	return nil
}

// apply copies config values into the flags of fs the user did not set.
// Flags absent from fs are skipped.
func (c Config) apply(fs *pflag.FlagSet) error {
	values := map[string]string{
		"window":        strconv.Itoa(c.Window),
		"mono":          strconv.FormatBool(c.Mono),
		"texture-scale": strconv.FormatFloat(c.TextureScale, 'g', -1, 64),
		"workers":       strconv.Itoa(c.Workers),
		"scalar":        strconv.FormatBool(c.Scalar),
		"log-level":     c.LogLevel,
	}
	for name, v := range values {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("config value for --%s: %w", name, err)
		}
	}
	return nil
}
