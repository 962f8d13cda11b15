/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/etx/apis"
)

const (
	// DefaultShallow represents the default for Shallow.
	// Decomposition is recursive unless asked otherwise.
	DefaultShallow = false
	// DefaultDecomposeSequences represents the default for DecomposeSequences.
	// When true, slices and arrays decompose through the reflective fallback.
	DefaultDecomposeSequences = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure a usable logger.
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Shallow:            DefaultShallow,
		DecomposeSequences: DefaultDecomposeSequences,
		Logger:             zap.NewNop(),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithShallow sets the Shallow option.
func WithShallow(shallow bool) Option {
	return func(c *apis.Config) {
		c.Shallow = shallow
	}
}

// WithDecomposeSequences sets the DecomposeSequences option.
func WithDecomposeSequences(enabled bool) Option {
	return func(c *apis.Config) {
		c.DecomposeSequences = enabled
	}
}

// WithLogger sets the Logger option.
// A nil logger resets to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		if l == nil {
			c.Logger = zap.NewNop()
			return
		}
		c.Logger = l
	}
}
