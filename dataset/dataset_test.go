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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajorIndexedData(t *testing.T) {
	data := NewMajorIndexedData(2)
	data.Add(1, 10, 5)
	data.Add(0, 11, 4)
	data.Add(1, 12, 3)
	data.Add(3, 10, 2)
	assert.Equal(t, []int32{1, 0, 3}, data.Keys())
	assert.Equal(t, 3, data.Len())
	assert.Equal(t, 4, data.Count())

	entries, exist := data.Get(1)
	assert.True(t, exist)
	assert.Equal(t, []Entry{{A: 10, B: 5}, {A: 12, B: 3}}, entries)
	_, exist = data.Get(2)
	assert.False(t, exist)
	_, exist = data.Get(4)
	assert.False(t, exist)
	_, exist = data.Get(-1)
	assert.False(t, exist)
}
