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

package apis

import "go.uber.org/zap"

// Config carries read-only decomposition knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Shallow makes Etuplize decompose only the top-level object by default.
	Shallow bool

	// DecomposeSequences enables the reflective fallback for slices and
	// arrays that have no Term implementation or registered Decomposer.
	DecomposeSequences bool

	// Logger receives debug traces of dispatch decisions. Nil is treated
	// as a no-op logger.
	Logger *zap.Logger
}

// Log returns cfg.Logger, or a no-op logger when it is nil.
func (cfg Config) Log() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}
