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

package sizeof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCyclic(t *testing.T) {
	type V struct {
		Z int
		E *V
	}

	v := &V{Z: 25}
	want := DeepSize(v)
	v.E = v // induce a cycle
	got := DeepSize(v)
	assert.Equal(t, want, got)
}

func TestDeepSize(t *testing.T) {
	// slices
	g := []int64{1, 2, 3, 4}
	assert.Equal(t, 24+4*8, DeepSize(g))
	h := []int32{1, 2, 3, 4}
	assert.Equal(t, 24+4*4, DeepSize(h))

	// matrix
	a := [][]int64{{1}, {2}, {3}, {4}}
	assert.Equal(t, 5*24+4*8, DeepSize(a))

	// strings
	e := []string{"abc", "de", "f"}
	assert.Equal(t, 24+16*3+6, DeepSize(e))

	// shared slices are counted once
	shared := []float64{1, 2, 3}
	assert.Equal(t, 3*24+3*8, DeepSize([][]float64{shared, shared}))
}
