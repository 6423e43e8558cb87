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

// Package matrix implements compressed sparse matrices over float64 values.
// Matrices are immutable once returned; format conversions are cached per
// instance and every transform returns a new matrix instead of mutating its
// input.
package matrix

import (
	"sort"

	"github.com/juju/errors"
)

var (
	// ErrShapeMismatch reports two matrices whose dimensions disagree.
	ErrShapeMismatch = errors.ConstError("matrix shapes do not match")
	// ErrIndexOutOfRange reports a coordinate outside the matrix shape.
	ErrIndexOutOfRange = errors.ConstError("index out of range")
)

// COO is a sparse matrix in coordinate layout. Entries with equal coordinates
// sum when converted to a compressed layout.
type COO struct {
	rows, cols int
	rowIds     []int32
	colIds     []int32
	values     []float64
	csr        *CSR
	csc        *CSC
}

// CSR is a sparse matrix in row-compressed layout. Column indices are sorted
// within each row.
type CSR struct {
	rows, cols int
	rowPtr     []int32
	colIds     []int32
	values     []float64
}

// CSC is a sparse matrix in column-compressed layout. Row indices are sorted
// within each column.
type CSC struct {
	rows, cols int
	colPtr     []int32
	rowIds     []int32
	values     []float64
}

// NewCOO creates a coordinate matrix from parallel index and value slices.
func NewCOO(rows, cols int, rowIds, colIds []int32, values []float64) (*COO, error) {
	if len(rowIds) != len(values) || len(colIds) != len(values) {
		return nil, errors.Trace(ErrShapeMismatch)
	}
	for i := range values {
		if int(rowIds[i]) < 0 || int(rowIds[i]) >= rows || int(colIds[i]) < 0 || int(colIds[i]) >= cols {
			return nil, errors.Annotatef(ErrIndexOutOfRange, "(%d,%d) outside %dx%d", rowIds[i], colIds[i], rows, cols)
		}
	}
	return &COO{rows: rows, cols: cols, rowIds: rowIds, colIds: colIds, values: values}, nil
}

// Rows returns the number of rows.
func (m *COO) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *COO) Cols() int { return m.cols }

// Size returns rows times columns.
func (m *COO) Size() int { return m.rows * m.cols }

// NNZ returns the number of stored entries.
func (m *COO) NNZ() int { return len(m.values) }

// ForEach iterates the stored entries.
func (m *COO) ForEach(f func(i, j int, v float64)) {
	for k := range m.values {
		f(int(m.rowIds[k]), int(m.colIds[k]), m.values[k])
	}
}

// Map returns a new matrix with f applied to every stored entry.
func (m *COO) Map(f func(v float64) float64) *COO {
	values := make([]float64, len(m.values))
	for k, v := range m.values {
		values[k] = f(v)
	}
	return &COO{rows: m.rows, cols: m.cols, rowIds: m.rowIds, colIds: m.colIds, values: values}
}

// Transpose returns the transposed matrix. Index slices are shared with the
// receiver since both matrices are immutable.
func (m *COO) Transpose() *COO {
	return &COO{rows: m.cols, cols: m.rows, rowIds: m.colIds, colIds: m.rowIds, values: m.values}
}

// ToCSR converts to row-compressed layout, summing duplicate coordinates. The
// result is cached.
func (m *COO) ToCSR() *CSR {
	if m.csr == nil {
		rowPtr, colIds, values := compress(m.rows, m.rowIds, m.colIds, m.values)
		m.csr = &CSR{rows: m.rows, cols: m.cols, rowPtr: rowPtr, colIds: colIds, values: values}
	}
	return m.csr
}

// ToCSC converts to column-compressed layout, summing duplicate coordinates.
// The result is cached.
func (m *COO) ToCSC() *CSC {
	if m.csc == nil {
		colPtr, rowIds, values := compress(m.cols, m.colIds, m.rowIds, m.values)
		m.csc = &CSC{rows: m.rows, cols: m.cols, colPtr: colPtr, rowIds: rowIds, values: values}
	}
	return m.csc
}

// compress sorts entries by (major, minor), merges equal coordinates by
// summation and builds the compressed pointer array.
func compress(major int, majorIds, minorIds []int32, values []float64) ([]int32, []int32, []float64) {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		x, y := order[a], order[b]
		if majorIds[x] != majorIds[y] {
			return majorIds[x] < majorIds[y]
		}
		return minorIds[x] < minorIds[y]
	})
	ptr := make([]int32, major+1)
	outMinor := make([]int32, 0, len(values))
	outValues := make([]float64, 0, len(values))
	lastMajor, lastMinor := int32(-1), int32(-1)
	for _, k := range order {
		if len(outMinor) > 0 && majorIds[k] == lastMajor && minorIds[k] == lastMinor {
			outValues[len(outValues)-1] += values[k]
			continue
		}
		outMinor = append(outMinor, minorIds[k])
		outValues = append(outValues, values[k])
		ptr[majorIds[k]+1]++
		lastMajor, lastMinor = majorIds[k], minorIds[k]
	}
	for i := 0; i < major; i++ {
		ptr[i+1] += ptr[i]
	}
	return ptr, outMinor, outValues
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.cols }

// Size returns rows times columns.
func (m *CSR) Size() int { return m.rows * m.cols }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.values) }

// Row returns the sorted column indices and values of one row. The slices
// alias the matrix and must not be modified.
func (m *CSR) Row(i int) ([]int32, []float64) {
	return m.colIds[m.rowPtr[i]:m.rowPtr[i+1]], m.values[m.rowPtr[i]:m.rowPtr[i+1]]
}

// At returns the entry at (i,j), zero if not stored.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0
	}
	cols, values := m.Row(i)
	k := sort.Search(len(cols), func(k int) bool { return cols[k] >= int32(j) })
	if k < len(cols) && cols[k] == int32(j) {
		return values[k]
	}
	return 0
}

// ToCOO converts back to coordinate layout.
func (m *CSR) ToCOO() *COO {
	rowIds := make([]int32, 0, len(m.values))
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			rowIds = append(rowIds, int32(i))
		}
	}
	return &COO{rows: m.rows, cols: m.cols, rowIds: rowIds, colIds: m.colIds, values: m.values, csr: m}
}

// Rows returns the number of rows.
func (m *CSC) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *CSC) Cols() int { return m.cols }

// Size returns rows times columns.
func (m *CSC) Size() int { return m.rows * m.cols }

// NNZ returns the number of stored entries.
func (m *CSC) NNZ() int { return len(m.values) }

// Col returns the sorted row indices and values of one column. The slices
// alias the matrix and must not be modified.
func (m *CSC) Col(j int) ([]int32, []float64) {
	return m.rowIds[m.colPtr[j]:m.colPtr[j+1]], m.values[m.colPtr[j]:m.colPtr[j+1]]
}

// ToCOO converts back to coordinate layout.
func (m *CSC) ToCOO() *COO {
	colIds := make([]int32, 0, len(m.values))
	for j := 0; j < m.cols; j++ {
		for k := m.colPtr[j]; k < m.colPtr[j+1]; k++ {
			colIds = append(colIds, int32(j))
		}
	}
	return &COO{rows: m.rows, cols: m.cols, rowIds: m.rowIds, colIds: colIds, values: m.values, csc: m}
}
