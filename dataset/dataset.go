// Copyright 2026 gorse Project Authors
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
	"github.com/samber/lo"
)

// Entry is a rating of a minor id.
type Entry = lo.Tuple2[int32, float32]

// MajorIndexedData groups entries by dense major key. Keys are kept in first-seen order.
type MajorIndexedData struct {
	keys    []int32
	entries [][]Entry
	count   int
}

func NewMajorIndexedData(numKeys int) *MajorIndexedData {
	return &MajorIndexedData{
		keys:    make([]int32, 0, numKeys),
		entries: make([][]Entry, numKeys),
	}
}

func (d *MajorIndexedData) Add(key, minor int32, rating float32) {
	for int(key) >= len(d.entries) {
		d.entries = append(d.entries, nil)
	}
	if d.entries[key] == nil {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = append(d.entries[key], lo.Tuple2[int32, float32]{A: minor, B: rating})
	d.count++
}

// Keys returns present keys in first-seen order.
func (d *MajorIndexedData) Keys() []int32 {
	return d.keys
}

func (d *MajorIndexedData) Get(key int32) ([]Entry, bool) {
	if key < 0 || int(key) >= len(d.entries) || d.entries[key] == nil {
		return nil, false
	}
	return d.entries[key], true
}

// Len returns the number of present keys.
func (d *MajorIndexedData) Len() int {
	return len(d.keys)
}

// Count returns the number of entries.
func (d *MajorIndexedData) Count() int {
	return d.count
}
