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
	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/dataset"
)

var (
	// ErrNotCentered reports a centered build over a table without centered
	// rating columns.
	ErrNotCentered = errors.ConstError("table is not centered")
	// ErrDuplicateEntry reports a duplicate (user,item) pair under
	// DuplicateReject.
	ErrDuplicateEntry = errors.ConstError("duplicate rating")
)

// CenterDim selects which centered rating column feeds the matrix.
type CenterDim int

const (
	CenterNone CenterDim = iota
	CenterUser
	CenterItem
)

// DuplicatePolicy decides how duplicate (user,item) ratings combine. Sum is
// the default and matches coordinate-matrix summation semantics; summing
// duplicate ratings changes downstream similarity values, which is why the
// choice is explicit. Duplicates merge into a single stored entry, so the
// built matrix never stores more entries than it has cells.
type DuplicatePolicy int

const (
	DuplicateSum DuplicatePolicy = iota
	DuplicateLastWins
	DuplicateReject
)

// BuildOptions configures the interaction matrix builder.
type BuildOptions struct {
	// Binary maps every observed pair to 1 instead of its rating.
	Binary bool
	// CenteredBy selects a mean-centered rating column. Ignored when Binary.
	CenteredBy CenterDim
	// Duplicates decides how duplicate (user,item) pairs combine.
	Duplicates DuplicatePolicy
}

// Build constructs the n_users by n_items interaction matrix of an indexed
// table. Rows are user indices and columns are item indices. An empty table
// yields an all-zero matrix without error.
func Build(table *dataset.Table, opts BuildOptions) (*COO, error) {
	if !table.Indexed() {
		return nil, errors.Trace(dataset.ErrNotIndexed)
	}
	if !opts.Binary && opts.CenteredBy != CenterNone && !table.Centered() {
		return nil, errors.Trace(ErrNotCentered)
	}
	rows := table.Rows()
	rowIds := make([]int32, 0, len(rows))
	colIds := make([]int32, 0, len(rows))
	values := make([]float64, 0, len(rows))
	type pair struct{ u, i int32 }
	seen := make(map[pair]int, len(rows))
	for _, row := range rows {
		var value float64
		switch {
		case opts.Binary:
			value = 1
		case opts.CenteredBy == CenterUser:
			value = row.CenteredByUser
		case opts.CenteredBy == CenterItem:
			value = row.CenteredByItem
		default:
			value = row.Rating.Rating
		}
		u, i := int32(row.UserIndex), int32(row.ItemIndex)
		if k, exist := seen[pair{u, i}]; exist {
			switch opts.Duplicates {
			case DuplicateReject:
				return nil, errors.Annotatef(ErrDuplicateEntry, "user %d item %d", row.UserId, row.ItemId)
			case DuplicateLastWins:
				values[k] = value
			default:
				values[k] += value
			}
			continue
		}
		seen[pair{u, i}] = len(values)
		rowIds = append(rowIds, u)
		colIds = append(colIds, i)
		values = append(values, value)
	}
	return NewCOO(table.NumUsers(), table.NumItems(), rowIds, colIds, values)
}
