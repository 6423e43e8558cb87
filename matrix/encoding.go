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
	"bytes"
	"encoding/gob"

	"github.com/juju/errors"
)

// cooWire is the serialized form of a coordinate matrix. Cached compressed
// layouts are rebuilt on demand after decoding.
type cooWire struct {
	Rows, Cols int
	RowIds     []int32
	ColIds     []int32
	Values     []float64
}

// GobEncode implements gob.GobEncoder.
func (m *COO) GobEncode() ([]byte, error) {
	var buffer bytes.Buffer
	err := gob.NewEncoder(&buffer).Encode(cooWire{
		Rows:   m.rows,
		Cols:   m.cols,
		RowIds: m.rowIds,
		ColIds: m.colIds,
		Values: m.values,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return buffer.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *COO) GobDecode(data []byte) error {
	var wire cooWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return errors.Trace(err)
	}
	m.rows, m.cols = wire.Rows, wire.Cols
	m.rowIds, m.colIds, m.values = wire.RowIds, wire.ColIds, wire.Values
	m.csr, m.csc = nil, nil
	return nil
}
