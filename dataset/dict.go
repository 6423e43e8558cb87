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

package dataset

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// NotId represents an ID that doesn't exist.
const NotId = -1

// Dict manages the map between raw IDs and dense indices. The raw ID is the ID
// found in the ratings file. The dense index is the internal user or item index
// optimized for faster access and less memory usage. Indices are assigned by
// sorting distinct raw IDs ascending and enumerating from zero.
type Dict struct {
	ri  map[int]int // raw ID -> dense index
	ir  []int       // dense index -> raw ID
	cnt []int
}

// NewDict creates a Dict from a sequence of raw IDs. Duplicates collapse to a
// single entry; each occurrence counts towards the entry's frequency.
func NewDict(rawIds []int) *Dict {
	distinct := mapset.NewSetWithSize[int](len(rawIds))
	for _, id := range rawIds {
		distinct.Add(id)
	}
	ir := distinct.ToSlice()
	sort.Ints(ir)
	d := &Dict{
		ri:  make(map[int]int, len(ir)),
		ir:  ir,
		cnt: make([]int, len(ir)),
	}
	for index, id := range ir {
		d.ri[id] = index
	}
	for _, id := range rawIds {
		d.cnt[d.ri[id]]++
	}
	return d
}

// Count returns the number of distinct IDs.
func (d *Dict) Count() int {
	return len(d.ir)
}

// ToIndex converts a raw ID to a dense index.
func (d *Dict) ToIndex(rawId int) int {
	if d == nil {
		return NotId
	}
	if index, exist := d.ri[rawId]; exist {
		return index
	}
	return NotId
}

// ToRaw converts a dense index to a raw ID.
func (d *Dict) ToRaw(index int) int {
	if index < 0 || index >= len(d.ir) {
		return NotId
	}
	return d.ir[index]
}

// Freq returns the number of occurrences of the ID at a dense index.
func (d *Dict) Freq(index int) int {
	if index < 0 || index >= len(d.cnt) {
		return 0
	}
	return d.cnt[index]
}
