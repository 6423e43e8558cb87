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

package matrix

import (
	"math"
	"sort"
	"sync"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/recsys-io/neighbor/base"
)

// RowNorms returns the L2 norm of every row.
func RowNorms(m *COO) []float64 {
	csr := m.ToCSR()
	norms := make([]float64, m.Rows())
	for i := range norms {
		_, values := csr.Row(i)
		norms[i] = math.Sqrt(floats.Dot(values, values))
	}
	return norms
}

// Normalize returns a copy of m with every entry of row i divided by norms[i].
// Rows with a zero norm scale to zero instead of NaN. The input is never
// mutated.
func Normalize(m *COO, norms []float64) (*COO, error) {
	if len(norms) != m.Rows() {
		return nil, errors.Annotatef(ErrShapeMismatch, "%d norms for %d rows", len(norms), m.Rows())
	}
	values := make([]float64, len(m.values))
	for k, v := range m.values {
		if norm := norms[m.rowIds[k]]; norm != 0 {
			values[k] = v / norm
		}
	}
	return &COO{rows: m.rows, cols: m.cols, rowIds: m.rowIds, colIds: m.colIds, values: values}, nil
}

// scratch is the per-job accumulator of MulTranspose.
type scratch struct {
	acc     []float64
	marked  []bool
	touched []int32
}

// MulTranspose computes S = M·Mᵀ, the matrix of inner products between every
// pair of rows. Rows are independent, so the computation is sliced over jobs
// and partial results combine without ordering dependency.
func MulTranspose(m *COO, jobs int) *COO {
	csr, csc := m.ToCSR(), m.ToCSC()
	n := m.Rows()
	resCols := make([][]int32, n)
	resVals := make([][]float64, n)
	pool := sync.Pool{New: func() any {
		return &scratch{acc: make([]float64, n), marked: make([]bool, n)}
	}}
	_ = base.Parallel(n, jobs, func(i int) error {
		s := pool.Get().(*scratch)
		defer pool.Put(s)
		cols, values := csr.Row(i)
		for k, col := range cols {
			rowIds, colValues := csc.Col(int(col))
			for t, j := range rowIds {
				if !s.marked[j] {
					s.marked[j] = true
					s.touched = append(s.touched, j)
				}
				s.acc[j] += values[k] * colValues[t]
			}
		}
		sort.Slice(s.touched, func(a, b int) bool { return s.touched[a] < s.touched[b] })
		for _, j := range s.touched {
			if s.acc[j] != 0 {
				resCols[i] = append(resCols[i], j)
				resVals[i] = append(resVals[i], s.acc[j])
			}
			s.acc[j] = 0
			s.marked[j] = false
		}
		s.touched = s.touched[:0]
		return nil
	})
	nnz := 0
	for i := range resCols {
		nnz += len(resCols[i])
	}
	rowIds := make([]int32, 0, nnz)
	colIds := make([]int32, 0, nnz)
	values := make([]float64, 0, nnz)
	for i := range resCols {
		for range resCols[i] {
			rowIds = append(rowIds, int32(i))
		}
		colIds = append(colIds, resCols[i]...)
		values = append(values, resVals[i]...)
	}
	return &COO{rows: n, cols: n, rowIds: rowIds, colIds: colIds, values: values}
}

// Multiply returns the element-wise product of two matrices of equal shape.
// Only coordinates stored in both matrices survive.
func Multiply(a, b *COO) (*COO, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return nil, errors.Annotatef(ErrShapeMismatch, "%dx%d and %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	left, right := a.ToCSR(), b.ToCSR()
	rowIds := make([]int32, 0)
	colIds := make([]int32, 0)
	values := make([]float64, 0)
	for i := 0; i < a.Rows(); i++ {
		leftCols, leftValues := left.Row(i)
		rightCols, rightValues := right.Row(i)
		// sorted-merge intersection of the two rows
		k, l := 0, 0
		for k < len(leftCols) && l < len(rightCols) {
			switch {
			case leftCols[k] == rightCols[l]:
				if v := leftValues[k] * rightValues[l]; v != 0 {
					rowIds = append(rowIds, int32(i))
					colIds = append(colIds, leftCols[k])
					values = append(values, v)
				}
				k++
				l++
			case leftCols[k] < rightCols[l]:
				k++
			default:
				l++
			}
		}
	}
	return &COO{rows: a.rows, cols: a.cols, rowIds: rowIds, colIds: colIds, values: values}, nil
}
