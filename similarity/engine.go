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

// Package similarity computes pairwise similarity matrices between the users
// or items of a ratings table.
package similarity

import (
	"math"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/recsys-io/neighbor/base"
	"github.com/recsys-io/neighbor/base/log"
	"github.com/recsys-io/neighbor/dataset"
	"github.com/recsys-io/neighbor/matrix"
)

// Engine computes an n by n similarity matrix along a fixed dimension and
// metric. Configuration is validated at construction; Compute never starts on
// an invalid engine.
type Engine struct {
	dim        Dim
	metric     Metric
	scope      Scope
	jobs       int
	duplicates matrix.DuplicatePolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithJobs sets the number of parallel jobs. Rows are independent, so any job
// count yields the same matrix.
func WithJobs(jobs int) Option {
	return func(e *Engine) {
		e.jobs = jobs
	}
}

// WithPearsonScope selects the Pearson denominator scope. Ignored by the
// other metrics.
func WithPearsonScope(scope Scope) Option {
	return func(e *Engine) {
		e.scope = scope
	}
}

// WithDuplicatePolicy sets how duplicate ratings combine when building the
// underlying matrix.
func WithDuplicatePolicy(policy matrix.DuplicatePolicy) Option {
	return func(e *Engine) {
		e.duplicates = policy
	}
}

// NewEngine creates an Engine for a dimension and metric.
func NewEngine(dim Dim, metric Metric, opts ...Option) (*Engine, error) {
	if dim != DimUser && dim != DimItem {
		return nil, errors.Annotatef(ErrInvalidDimension, "%d", dim)
	}
	if metric != Cosine && metric != AdjustedCosine && metric != Pearson {
		return nil, errors.Annotatef(ErrInvalidMetric, "%d", metric)
	}
	e := &Engine{dim: dim, metric: metric, jobs: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Dim returns the comparison dimension.
func (e *Engine) Dim() Dim { return e.dim }

// Metric returns the similarity metric.
func (e *Engine) Metric() Metric { return e.metric }

// Scope returns the Pearson scope.
func (e *Engine) Scope() Scope { return e.scope }

// Compute returns the full symmetric similarity matrix of the table along the
// engine's dimension. The table must be indexed, and centered beforehand for
// metrics that center ratings; Compute never mutates it.
func (e *Engine) Compute(table *dataset.Table) (*matrix.COO, error) {
	if !table.Indexed() {
		return nil, errors.Trace(dataset.ErrNotIndexed)
	}
	centeredBy := e.metric.centerDim(e.dim)
	if centeredBy != matrix.CenterNone && !table.Centered() {
		return nil, errors.Trace(matrix.ErrNotCentered)
	}
	started := time.Now()
	m, err := matrix.Build(table, matrix.BuildOptions{
		CenteredBy: centeredBy,
		Duplicates: e.duplicates,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if e.dim == DimItem {
		m = m.Transpose()
	}
	log.Logger().Debug("built interaction matrix",
		zap.Stringer("dim", e.dim),
		zap.Stringer("metric", e.metric),
		zap.Int("rows", m.Rows()),
		zap.Int("nnz", m.NNZ()),
		zap.Duration("elapsed", time.Since(started)))
	var result *matrix.COO
	if e.metric == Pearson && e.scope == ScopeCommonOnly {
		result = e.computeCommonOnly(m)
	} else {
		result, err = e.computeFull(m)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	log.Logger().Debug("computed similarity matrix",
		zap.Stringer("dim", e.dim),
		zap.Stringer("metric", e.metric),
		zap.Int("nnz", result.NNZ()),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// computeFull is the vectorized path: L2-normalize the rows of a copy, then
// take the product with the transpose. Zero-norm rows scale to zero, so their
// similarity to every row is zero rather than NaN.
func (e *Engine) computeFull(m *matrix.COO) (*matrix.COO, error) {
	normalized, err := matrix.Normalize(m, matrix.RowNorms(m))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return matrix.MulTranspose(normalized, e.jobs), nil
}

// computeCommonOnly is the per-pair path: for every pair of rows, both the
// inner product and the norms range over the co-rated positions only.
func (e *Engine) computeCommonOnly(m *matrix.COO) *matrix.COO {
	csr := m.ToCSR()
	n := m.Rows()
	resCols := make([][]int32, n)
	resVals := make([][]float64, n)
	_ = base.Parallel(n, e.jobs, func(i int) error {
		iCols, iValues := csr.Row(i)
		for j := 0; j <= i; j++ {
			jCols, jValues := csr.Row(j)
			if v := commonCosine(iCols, iValues, jCols, jValues); v != 0 {
				resCols[i] = append(resCols[i], int32(j))
				resVals[i] = append(resVals[i], v)
			}
		}
		return nil
	})
	// mirror the lower triangle
	rowIds := make([]int32, 0)
	colIds := make([]int32, 0)
	values := make([]float64, 0)
	for i := range resCols {
		for k, j := range resCols[i] {
			rowIds = append(rowIds, int32(i))
			colIds = append(colIds, j)
			values = append(values, resVals[i][k])
			if int32(i) != j {
				rowIds = append(rowIds, j)
				colIds = append(colIds, int32(i))
				values = append(values, resVals[i][k])
			}
		}
	}
	result, _ := matrix.NewCOO(n, n, rowIds, colIds, values)
	return result
}

// commonCosine computes the cosine of two sparse rows restricted to their
// common indices. Rows without common support, or with zero variance on it,
// score zero.
func commonCosine(aCols []int32, aValues []float64, bCols []int32, bValues []float64) float64 {
	var m, n, l float64
	i, j := 0, 0
	for i < len(aCols) && j < len(bCols) {
		switch {
		case aCols[i] == bCols[j]:
			m += aValues[i] * aValues[i]
			n += bValues[j] * bValues[j]
			l += aValues[i] * bValues[j]
			i++
			j++
		case aCols[i] < bCols[j]:
			i++
		default:
			j++
		}
	}
	if m == 0 || n == 0 {
		return 0
	}
	return l / (math.Sqrt(m) * math.Sqrt(n))
}
