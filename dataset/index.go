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
	"io"
	"slices"

	"github.com/gorse-io/recdata/common/util"
	"github.com/juju/errors"
)

// NotId is the dense id of raw ids that were never added.
const NotId = int32(-1)

// IdMap assigns dense ids to raw ids in first-seen order.
type IdMap struct {
	dense map[int64]int32 // raw id -> dense id
	raw   []int64         // dense id -> raw id
}

func NewIdMap() *IdMap {
	return &IdMap{
		dense: make(map[int64]int32),
		raw:   make([]int64, 0),
	}
}

func (m *IdMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.raw)
}

// Add returns the dense id of a raw id, assigning the next one on first sighting.
func (m *IdMap) Add(raw int64) int32 {
	if dense, exist := m.dense[raw]; exist {
		return dense
	}
	dense := int32(len(m.raw))
	m.dense[raw] = dense
	m.raw = append(m.raw, raw)
	return dense
}

func (m *IdMap) ToDense(raw int64) int32 {
	if m == nil {
		return NotId
	}
	if dense, exist := m.dense[raw]; exist {
		return dense
	}
	return NotId
}

func (m *IdMap) ToRaw(dense int32) int64 {
	return m.raw[dense]
}

// RawIds returns raw ids ordered by dense id.
func (m *IdMap) RawIds() []int64 {
	return slices.Clone(m.raw)
}

// Marshal writes "raw\tdense" lines ordered by dense id.
func (m *IdMap) Marshal(w io.Writer) error {
	bw := newLineWriter(w)
	for dense, raw := range m.raw {
		bw.writeInt(raw)
		bw.writeTab()
		bw.writeInt(int64(dense))
		bw.writeNewline()
	}
	return errors.Trace(bw.Flush())
}

// UnmarshalIdMap reads lines written by Marshal. Dense ids must be sequential from 0.
func UnmarshalIdMap(r io.Reader, name string) (*IdMap, error) {
	m := NewIdMap()
	err := ReadLines(r, "\t", 0, func(lineNo int, line string, fields []string) error {
		if len(fields) < 2 {
			return malformed(name, lineNo, line, wrongFields(2, len(fields)))
		}
		raw, err := util.ParseInt[int64](fields[0])
		if err != nil {
			return malformed(name, lineNo, line, err)
		}
		dense, err := util.ParseInt[int32](fields[1])
		if err != nil {
			return malformed(name, lineNo, line, err)
		}
		if int(dense) != m.Len() {
			return errors.NotValidf("%s:%d dense id %d (expect %d)", name, lineNo, dense, m.Len())
		}
		if m.ToDense(raw) != NotId {
			return errors.NotValidf("%s:%d duplicate raw id %d", name, lineNo, raw)
		}
		m.Add(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
