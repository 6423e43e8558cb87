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

// Package dataset holds the ratings table: raw rating rows plus the derived
// dense indices and mean-centered rating columns that the matrix builders
// consume.
package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/recsys-io/neighbor/base/log"
)

var (
	// ErrAlreadyIndexed reports a Reindex call on a table that already carries
	// index columns. Reindex logs and ignores it; Indexed is the explicit check.
	ErrAlreadyIndexed = errors.ConstError("table is already indexed")
	// ErrNotIndexed reports an operation that requires index columns.
	ErrNotIndexed = errors.ConstError("table is not indexed")
)

// Rating is one raw row of the ratings table.
type Rating struct {
	UserId    int
	ItemId    int
	Rating    float64
	Timestamp int64
}

// Row is a rating row with its derived columns.
type Row struct {
	Rating
	UserIndex      int
	ItemIndex      int
	CenteredByUser float64
	CenteredByItem float64
}

// Table is an ordered sequence of rating rows. Derived columns are attached by
// Reindex and Center; the table is read-only afterwards.
type Table struct {
	rows     []Row
	users    *Dict
	items    *Dict
	userRows [][]int32 // user index -> row ids
	itemRows [][]int32 // item index -> row ids
	centered bool
}

// Summary holds the shape statistics of a ratings table.
type Summary struct {
	NUsers     int
	NItems     int
	NRows      int
	MatrixSize int
	Sparsity   float64
	Density    float64
}

// NewTable wraps raw rating rows. Call Reindex before anything that needs
// dense indices.
func NewTable(ratings []Rating) *Table {
	rows := lo.Map(ratings, func(r Rating, _ int) Row {
		return Row{Rating: r, UserIndex: NotId, ItemIndex: NotId}
	})
	return &Table{rows: rows}
}

// Len returns the number of rating rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rating rows. The slice is shared and must not be modified.
func (t *Table) Rows() []Row {
	return t.rows
}

// NumUsers returns the number of distinct users in an indexed table.
func (t *Table) NumUsers() int {
	return t.users.Count()
}

// NumItems returns the number of distinct items in an indexed table.
func (t *Table) NumItems() int {
	return t.items.Count()
}

// Users returns the user dictionary.
func (t *Table) Users() *Dict {
	return t.users
}

// Items returns the item dictionary.
func (t *Table) Items() *Dict {
	return t.items
}

// Indexed reports whether index columns exist.
func (t *Table) Indexed() bool {
	return t.users != nil
}

// Centered reports whether centered rating columns exist.
func (t *Table) Centered() bool {
	return t.centered
}

// Reindex assigns dense user and item indices by sorting distinct raw IDs
// ascending and enumerating from zero. Reindexing an indexed table is a no-op
// logged as a warning.
func (t *Table) Reindex() error {
	if t.Indexed() {
		log.Logger().Warn("reindex skipped", zap.Error(ErrAlreadyIndexed))
		return nil
	}
	t.users = NewDict(lo.Map(t.rows, func(r Row, _ int) int { return r.UserId }))
	t.items = NewDict(lo.Map(t.rows, func(r Row, _ int) int { return r.ItemId }))
	t.userRows = make([][]int32, t.users.Count())
	t.itemRows = make([][]int32, t.items.Count())
	for i := range t.rows {
		row := &t.rows[i]
		row.UserIndex = t.users.ToIndex(row.UserId)
		row.ItemIndex = t.items.ToIndex(row.ItemId)
		t.userRows[row.UserIndex] = append(t.userRows[row.UserIndex], int32(i))
		t.itemRows[row.ItemIndex] = append(t.itemRows[row.ItemIndex], int32(i))
	}
	return nil
}

// Center attaches group-mean-centered rating columns for both dimensions. The
// table must be indexed first. Centering a centered table is a no-op logged as
// a warning.
func (t *Table) Center() error {
	if !t.Indexed() {
		return errors.Trace(ErrNotIndexed)
	}
	if t.centered {
		log.Logger().Warn("center skipped, table is already centered")
		return nil
	}
	userMeans := t.groupMeans(t.userRows)
	itemMeans := t.groupMeans(t.itemRows)
	for i := range t.rows {
		row := &t.rows[i]
		row.CenteredByUser = row.Rating.Rating - userMeans[row.UserIndex]
		row.CenteredByItem = row.Rating.Rating - itemMeans[row.ItemIndex]
	}
	t.centered = true
	return nil
}

func (t *Table) groupMeans(groups [][]int32) []float64 {
	means := make([]float64, len(groups))
	for g, rowIds := range groups {
		values := lo.Map(rowIds, func(i int32, _ int) float64 {
			return t.rows[i].Rating.Rating
		})
		means[g] = stat.Mean(values, nil)
	}
	return means
}

// UserRatings returns the rows rated by a user index. An index with no ratings
// yields an empty slice, not an error.
func (t *Table) UserRatings(userIndex int) []Row {
	if userIndex < 0 || userIndex >= len(t.userRows) {
		return nil
	}
	return lo.Map(t.userRows[userIndex], func(i int32, _ int) Row {
		return t.rows[i]
	})
}

// ItemRatings returns the rows rating an item index. An index with no ratings
// yields an empty slice, not an error.
func (t *Table) ItemRatings(itemIndex int) []Row {
	if itemIndex < 0 || itemIndex >= len(t.itemRows) {
		return nil
	}
	return lo.Map(t.itemRows[itemIndex], func(i int32, _ int) Row {
		return t.rows[i]
	})
}

// Checksum digests the raw rating rows. Two tables carry the same checksum
// exactly when they hold the same rows in the same order; derived columns do
// not contribute.
func (t *Table) Checksum() string {
	digest := sha256.New()
	var buffer [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buffer[:], v)
		digest.Write(buffer[:])
	}
	for _, row := range t.rows {
		write(uint64(row.UserId))
		write(uint64(row.ItemId))
		write(math.Float64bits(row.Rating.Rating))
		write(uint64(row.Timestamp))
	}
	return hex.EncodeToString(digest.Sum(nil))
}

// Summarize returns the shape statistics of an indexed table. Sparsity and
// density are percentages and sum to exactly 100.
func (t *Table) Summarize() (Summary, error) {
	if !t.Indexed() {
		return Summary{}, errors.Trace(ErrNotIndexed)
	}
	s := Summary{
		NUsers:     t.users.Count(),
		NItems:     t.items.Count(),
		NRows:      len(t.rows),
		MatrixSize: t.users.Count() * t.items.Count(),
	}
	if s.MatrixSize > 0 {
		s.Sparsity = float64(s.NRows) / float64(s.MatrixSize) * 100
	}
	s.Density = 100 - s.Sparsity
	return s, nil
}
