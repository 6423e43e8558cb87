// Copyright 2025 recsys Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"sync/atomic"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	var count int64
	err := Parallel(100, 4, func(i int) error {
		atomic.AddInt64(&count, int64(i))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4950), count)
	// single job covers all tasks
	count = 0
	err = Parallel(10, 1, func(i int) error {
		count++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), count)
}

func TestParallelFail(t *testing.T) {
	expected := errors.New("boom")
	err := Parallel(100, 4, func(i int) error {
		if i == 50 {
			return expected
		}
		return nil
	})
	assert.ErrorIs(t, err, expected)
}

func TestParallelSum(t *testing.T) {
	sum := ParallelSum(100, 4, func(i int) float64 {
		return float64(i)
	})
	assert.Equal(t, 4950.0, sum)
}
