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

package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsys-io/neighbor/dataset"
	"github.com/recsys-io/neighbor/matrix"
)

func newTestTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable([]dataset.Rating{
		{UserId: 1, ItemId: 10, Rating: 5},
		{UserId: 1, ItemId: 20, Rating: 3},
		{UserId: 2, ItemId: 10, Rating: 4},
		{UserId: 2, ItemId: 20, Rating: 4},
		{UserId: 3, ItemId: 10, Rating: 1},
	})
	require.NoError(t, table.Reindex())
	require.NoError(t, table.Center())
	return table
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(Dim(42), Cosine)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = NewEngine(DimUser, Metric(42))
	assert.ErrorIs(t, err, ErrInvalidMetric)
	engine, err := NewEngine(DimItem, Pearson, WithJobs(4), WithPearsonScope(ScopeCommonOnly))
	assert.NoError(t, err)
	assert.Equal(t, DimItem, engine.Dim())
	assert.Equal(t, Pearson, engine.Metric())
	assert.Equal(t, ScopeCommonOnly, engine.Scope())
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Dim{"user": DimUser, "u": DimUser, "Item": DimItem, "i": DimItem} {
		dim, err := ParseDim(name)
		assert.NoError(t, err)
		assert.Equal(t, want, dim)
	}
	_, err := ParseDim("row")
	assert.ErrorIs(t, err, ErrInvalidDimension)
	for name, want := range map[string]Metric{"cosine": Cosine, "c": Cosine, "Adjusted Cosine": AdjustedCosine, "pearson": Pearson} {
		metric, err := ParseMetric(name)
		assert.NoError(t, err)
		assert.Equal(t, want, metric)
	}
	_, err = ParseMetric("euclidean")
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestCosineUserSimilarity(t *testing.T) {
	engine, err := NewEngine(DimUser, Cosine)
	require.NoError(t, err)
	s, err := engine.Compute(newTestTable(t))
	require.NoError(t, err)
	csr := s.ToCSR()
	// users [5,3] and [4,4]
	assert.InDelta(t, 32/(math.Sqrt(34)*math.Sqrt(32)), csr.At(0, 1), 1e-9)
	assert.InDelta(t, 0.9847, csr.At(0, 1), 1e-4)
	// users [5,3] and [1,0]
	assert.InDelta(t, 5/math.Sqrt(34), csr.At(0, 2), 1e-9)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, csr.At(i, i), 1e-9)
	}
}

func TestCosineItemSimilarity(t *testing.T) {
	engine, err := NewEngine(DimItem, Cosine, WithJobs(2))
	require.NoError(t, err)
	s, err := engine.Compute(newTestTable(t))
	require.NoError(t, err)
	csr := s.ToCSR()
	assert.Equal(t, 2, s.Rows())
	// items [5,4,1] and [3,4,0]
	assert.InDelta(t, 31/(math.Sqrt(42)*5), csr.At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, csr.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, csr.At(1, 1), 1e-9)
}

func TestPearsonZeroNormRows(t *testing.T) {
	engine, err := NewEngine(DimUser, Pearson)
	require.NoError(t, err)
	s, err := engine.Compute(newTestTable(t))
	require.NoError(t, err)
	csr := s.ToCSR()
	// user 2 rates everything 4: zero centered norm, similarity 0 everywhere
	for j := 0; j < 3; j++ {
		assert.Equal(t, 0.0, csr.At(1, j))
		assert.Equal(t, 0.0, csr.At(j, 1))
	}
	// user 3 has a single rating, centered to zero
	assert.Equal(t, 0.0, csr.At(2, 2))
	// user 1 still correlates perfectly with itself
	assert.InDelta(t, 1.0, csr.At(0, 0), 1e-9)
}

func TestAdjustedCosine(t *testing.T) {
	engine, err := NewEngine(DimUser, AdjustedCosine)
	require.NoError(t, err)
	s, err := engine.Compute(newTestTable(t))
	require.NoError(t, err)
	// centered by item means 10/3 and 3.5:
	// u0 = [5/3, -1/2], u1 = [2/3, 1/2], u2 = [-7/3]
	u0 := []float64{5.0 / 3, -0.5}
	u1 := []float64{2.0 / 3, 0.5}
	want := (u0[0]*u1[0] + u0[1]*u1[1]) /
		(math.Hypot(u0[0], u0[1]) * math.Hypot(u1[0], u1[1]))
	assert.InDelta(t, want, s.ToCSR().At(0, 1), 1e-9)
}

func TestSimilarityProperties(t *testing.T) {
	table := dataset.NewTable([]dataset.Rating{
		{UserId: 1, ItemId: 10, Rating: 5}, {UserId: 1, ItemId: 20, Rating: 3},
		{UserId: 1, ItemId: 30, Rating: 1}, {UserId: 2, ItemId: 10, Rating: 4},
		{UserId: 2, ItemId: 20, Rating: 4}, {UserId: 3, ItemId: 10, Rating: 1},
		{UserId: 3, ItemId: 30, Rating: 5}, {UserId: 4, ItemId: 20, Rating: 2},
		{UserId: 4, ItemId: 30, Rating: 2},
	})
	require.NoError(t, table.Reindex())
	require.NoError(t, table.Center())
	for _, metric := range []Metric{Cosine, AdjustedCosine, Pearson} {
		for _, dim := range []Dim{DimUser, DimItem} {
			engine, err := NewEngine(dim, metric)
			require.NoError(t, err)
			s, err := engine.Compute(table)
			require.NoError(t, err)
			csr := s.ToCSR()
			n := s.Rows()
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					// symmetry and bounded range
					assert.InDelta(t, csr.At(i, j), csr.At(j, i), 1e-9)
					assert.LessOrEqual(t, math.Abs(csr.At(i, j)), 1.0001)
				}
			}
		}
	}
}

func TestJobsIndependence(t *testing.T) {
	table := newTestTable(t)
	sequential, err := NewEngine(DimUser, Cosine, WithJobs(1))
	require.NoError(t, err)
	parallel, err := NewEngine(DimUser, Cosine, WithJobs(8))
	require.NoError(t, err)
	a, err := sequential.Compute(table)
	require.NoError(t, err)
	b, err := parallel.Compute(table)
	require.NoError(t, err)
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			assert.InDelta(t, a.ToCSR().At(i, j), b.ToCSR().At(i, j), 1e-12)
		}
	}
}

func TestPearsonScopes(t *testing.T) {
	// u1 rates items {10,20,30} as [2,4,6], u2 rates {10,20} as [1,3]
	table := dataset.NewTable([]dataset.Rating{
		{UserId: 1, ItemId: 10, Rating: 2},
		{UserId: 1, ItemId: 20, Rating: 4},
		{UserId: 1, ItemId: 30, Rating: 6},
		{UserId: 2, ItemId: 10, Rating: 1},
		{UserId: 2, ItemId: 20, Rating: 3},
	})
	require.NoError(t, table.Reindex())
	require.NoError(t, table.Center())

	full, err := NewEngine(DimUser, Pearson)
	require.NoError(t, err)
	s, err := full.Compute(table)
	require.NoError(t, err)
	// centered: u1 = [-2,0,2], u2 = [-1,1]; full-vector product = 0.5
	assert.InDelta(t, 0.5, s.ToCSR().At(0, 1), 1e-9)

	common, err := NewEngine(DimUser, Pearson, WithPearsonScope(ScopeCommonOnly))
	require.NoError(t, err)
	s, err = common.Compute(table)
	require.NoError(t, err)
	// restricted to common items {10,20}: [-2,0]·[-1,1] / (2·sqrt(2))
	assert.InDelta(t, 2/(2*math.Sqrt(2)), s.ToCSR().At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, s.ToCSR().At(0, 0), 1e-9)
	// symmetry holds for the mirrored triangle
	assert.InDelta(t, s.ToCSR().At(0, 1), s.ToCSR().At(1, 0), 1e-12)
}

func TestComputeRequiresCenteredTable(t *testing.T) {
	table := dataset.NewTable([]dataset.Rating{
		{UserId: 1, ItemId: 10, Rating: 5},
		{UserId: 2, ItemId: 10, Rating: 3},
	})
	require.NoError(t, table.Reindex())
	engine, err := NewEngine(DimUser, Pearson)
	require.NoError(t, err)
	// centering is the caller's move; the engine never mutates the table
	_, err = engine.Compute(table)
	assert.ErrorIs(t, err, matrix.ErrNotCentered)
	assert.False(t, table.Centered())
	require.NoError(t, table.Center())
	_, err = engine.Compute(table)
	assert.NoError(t, err)

	// cosine reads raw ratings and needs no centering
	raw, err := NewEngine(DimUser, Cosine)
	require.NoError(t, err)
	uncentered := dataset.NewTable([]dataset.Rating{{UserId: 1, ItemId: 10, Rating: 5}})
	require.NoError(t, uncentered.Reindex())
	_, err = raw.Compute(uncentered)
	assert.NoError(t, err)
}

func TestComputeNotIndexed(t *testing.T) {
	engine, err := NewEngine(DimUser, Cosine)
	require.NoError(t, err)
	_, err = engine.Compute(dataset.NewTable([]dataset.Rating{{UserId: 1, ItemId: 10, Rating: 5}}))
	assert.ErrorIs(t, err, dataset.ErrNotIndexed)
}

func TestDuplicatePolicyOption(t *testing.T) {
	table := dataset.NewTable([]dataset.Rating{
		{UserId: 1, ItemId: 10, Rating: 2},
		{UserId: 1, ItemId: 10, Rating: 3},
	})
	require.NoError(t, table.Reindex())
	engine, err := NewEngine(DimUser, Cosine, WithDuplicatePolicy(matrix.DuplicateReject))
	require.NoError(t, err)
	_, err = engine.Compute(table)
	assert.ErrorIs(t, err, matrix.ErrDuplicateEntry)
}
