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

// Package artifact wraps a computed matrix or vector for persistence. An
// artifact is never mutated after creation; recomputation replaces it.
package artifact

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"github.com/recsys-io/neighbor/base/sizeof"
	"github.com/recsys-io/neighbor/matrix"
)

// DefaultDatasource tags artifacts built from the MovieLens 25M ratings.
const DefaultDatasource = "movielens25m"

// Artifact is a named, persisted wrapper around a sparse matrix or a dense
// vector. Exactly one of Matrix and Vector is set.
type Artifact struct {
	Name        string
	Description string
	Datasource  string
	Matrix      *matrix.COO
	Vector      []float32
}

// NewMatrix wraps a sparse matrix. An empty datasource falls back to
// DefaultDatasource.
func NewMatrix(name, description, datasource string, data *matrix.COO) *Artifact {
	if datasource == "" {
		datasource = DefaultDatasource
	}
	return &Artifact{Name: name, Description: description, Datasource: datasource, Matrix: data}
}

// NewVector wraps a dense vector. An empty datasource falls back to
// DefaultDatasource.
func NewVector(name, description, datasource string, data []float32) *Artifact {
	if datasource == "" {
		datasource = DefaultDatasource
	}
	return &Artifact{Name: name, Description: description, Datasource: datasource, Vector: data}
}

// Shape returns (rows, cols) for a matrix and (len, 1) for a vector.
func (a *Artifact) Shape() (int, int) {
	if a.Matrix != nil {
		return a.Matrix.Rows(), a.Matrix.Cols()
	}
	return len(a.Vector), 1
}

// Size returns the number of cells of the wrapped data.
func (a *Artifact) Size() int {
	rows, cols := a.Shape()
	return rows * cols
}

// NNZ returns the number of stored entries.
func (a *Artifact) NNZ() int {
	if a.Matrix != nil {
		return a.Matrix.NNZ()
	}
	nnz := 0
	for _, v := range a.Vector {
		if v != 0 {
			nnz++
		}
	}
	return nnz
}

// Memory returns the in-memory footprint of the artifact in bytes.
func (a *Artifact) Memory() int {
	return sizeof.DeepSize(a)
}

// Checksum digests the wrapped data. Name, description and datasource are
// metadata and do not contribute: two artifacts carry the same checksum
// exactly when they wrap the same matrix or vector content.
func (a *Artifact) Checksum() string {
	digest := sha256.New()
	var buffer [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buffer[:], v)
		digest.Write(buffer[:])
	}
	if a.Matrix != nil {
		write(uint64(a.Matrix.Rows()))
		write(uint64(a.Matrix.Cols()))
		a.Matrix.ForEach(func(i, j int, v float64) {
			write(uint64(i))
			write(uint64(j))
			write(math.Float64bits(v))
		})
	}
	for _, v := range a.Vector {
		write(uint64(math.Float32bits(v)))
	}
	return hex.EncodeToString(digest.Sum(nil))
}

// Fingerprint derives a store key from the parameters that produced an
// artifact. Keying by parameters instead of a human-chosen name means a
// skipped recomputation can only ever return an artifact built from identical
// parameters.
func Fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
