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

func TestSparseBatch(t *testing.T) {
	batch := NewSparseBatch(2, 3)
	batch.Keys = append(batch.Keys, 7, 9)
	batch.Add(0, 2, 5)
	batch.Add(1, 0, 3)
	batch.Add(1, 1, 1.5)
	batch.Add(1, 1, 1)
	assert.Equal(t, 4, batch.Nnz())
	assert.Equal(t, []float32{
		0, 0, 5,
		3, 2.5, 0,
	}, batch.Dense())

	empty := NewSparseBatch(1, 2)
	assert.Zero(t, empty.Nnz())
	assert.Equal(t, []float32{0, 0}, empty.Dense())
}
