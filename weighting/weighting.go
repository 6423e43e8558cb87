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

// Package weighting post-processes similarity matrices. Both transforms are
// pure functions of their inputs: significance weighting saturates on the
// co-rating count of each pair, frequency weighting is an inverse document
// frequency over entity popularity.
package weighting

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/matrix"
	"github.com/recsys-io/neighbor/similarity"
)

// DefaultGamma is the saturation threshold of significance weighting.
const DefaultGamma = 30.0

// ErrInvalidGamma reports a non-positive saturation threshold.
var ErrInvalidGamma = errors.ConstError("gamma must be positive")

// Significance down-weights similarity scores computed from few shared
// ratings:
//
//	W[i,j] = min(C[i,j], gamma) / gamma
//
// where C counts co-ratings between entity pairs. The result is the
// element-wise product W ⊙ S; no magnitude ever increases. The interaction
// matrix is the raw users-by-items matrix for either dimension.
func Significance(interaction, sim *matrix.COO, dim similarity.Dim, gamma float64, jobs int) (*matrix.COO, error) {
	if gamma <= 0 {
		return nil, errors.Annotatef(ErrInvalidGamma, "%v", gamma)
	}
	oriented := interaction
	switch dim {
	case similarity.DimUser:
	case similarity.DimItem:
		oriented = interaction.Transpose()
	default:
		return nil, errors.Annotatef(similarity.ErrInvalidDimension, "%d", dim)
	}
	if oriented.Rows() != sim.Rows() || sim.Rows() != sim.Cols() {
		return nil, errors.Annotatef(matrix.ErrShapeMismatch,
			"%d %ss against %dx%d similarity", oriented.Rows(), dim, sim.Rows(), sim.Cols())
	}
	// collapse duplicates, then count co-occurrences of observed pairs
	binary := oriented.ToCSR().ToCOO().Map(func(float64) float64 { return 1 })
	counts := matrix.MulTranspose(binary, jobs)
	weights := counts.Map(func(c float64) float64 {
		return math.Min(c, gamma) / gamma
	})
	weighted, err := matrix.Multiply(weights, sim)
	return weighted, errors.Trace(err)
}

// Frequency computes inverse-document-frequency weights over entity
// popularity:
//
//	weight(i) = log(total / raters(i))
//
// For items, total is the number of users and raters(i) the users that rated
// item i; for users the roles swap. An entity rated by everyone weighs zero;
// an entity with zero raters also weighs zero instead of +Inf.
func Frequency(interaction *matrix.COO, dim similarity.Dim) ([]float32, error) {
	var total, n int
	var countAt func(i int) int
	switch dim {
	case similarity.DimItem:
		total, n = interaction.Rows(), interaction.Cols()
		csc := interaction.ToCSC()
		countAt = func(i int) int {
			rowIds, _ := csc.Col(i)
			return len(rowIds)
		}
	case similarity.DimUser:
		total, n = interaction.Cols(), interaction.Rows()
		csr := interaction.ToCSR()
		countAt = func(i int) int {
			colIds, _ := csr.Row(i)
			return len(colIds)
		}
	default:
		return nil, errors.Annotatef(similarity.ErrInvalidDimension, "%d", dim)
	}
	weights := make([]float32, n)
	for i := range weights {
		if count := countAt(i); count > 0 {
			weights[i] = math32.Log(float32(total) / float32(count))
		}
	}
	return weights, nil
}
