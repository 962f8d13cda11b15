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

package strategy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/config"
	"dirpx.dev/etx/strategy"
)

func add(a, b int) int { return a + b }

// sum is a host node that describes itself.
type sum struct {
	a, b   int
	opErr  error
	argErr error
}

func (s sum) Operator() (any, error) {
	if s.opErr != nil {
		return nil, s.opErr
	}
	return add, nil
}

func (s sum) Arguments() ([]any, error) {
	if s.argErr != nil {
		return nil, s.argErr
	}
	return []any{s.a, s.b}, nil
}

func TestTermStrategy_Handles(t *testing.T) {
	st := strategy.NewTermStrategy()

	op, args, handled, err := st.TryDecompose(sum{a: 1, b: 2}, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, handled)
	assert.NotNil(t, op)
	assert.Equal(t, []any{1, 2}, args)
}

func TestTermStrategy_SkipsOtherValues(t *testing.T) {
	st := strategy.NewTermStrategy()
	for _, x := range []any{nil, 1, []any{add, 1}} {
		_, _, handled, err := st.TryDecompose(x, config.DefaultConfig())
		assert.NoError(t, err)
		assert.False(t, handled)
	}
}

func TestTermStrategy_Errors(t *testing.T) {
	st := strategy.NewTermStrategy()
	boom := errors.New("boom")

	_, _, handled, err := st.TryDecompose(sum{opErr: apis.ErrEmpty}, config.DefaultConfig())
	assert.True(t, handled)
	assert.ErrorIs(t, err, apis.ErrEmpty)

	_, _, handled, err = st.TryDecompose(sum{argErr: boom}, config.DefaultConfig())
	assert.True(t, handled)
	assert.ErrorIs(t, err, boom)
}
