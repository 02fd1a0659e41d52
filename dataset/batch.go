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

// SparseBatch is a Rows x Cols matrix in coordinate format. Row i holds the ratings of Keys[i].
type SparseBatch struct {
	Rows       int
	Cols       int
	RowIndices []int32
	ColIndices []int32
	Values     []float32
	Keys       []int32
}

func NewSparseBatch(rows, cols int) *SparseBatch {
	return &SparseBatch{
		Rows: rows,
		Cols: cols,
		Keys: make([]int32, 0, rows),
	}
}

func (b *SparseBatch) Add(row, col int32, value float32) {
	b.RowIndices = append(b.RowIndices, row)
	b.ColIndices = append(b.ColIndices, col)
	b.Values = append(b.Values, value)
}

// Nnz returns the number of stored values.
func (b *SparseBatch) Nnz() int {
	return len(b.Values)
}

// Dense returns the matrix in row-major order. Duplicated coordinates are summed.
func (b *SparseBatch) Dense() []float32 {
	dense := make([]float32, b.Rows*b.Cols)
	for i, value := range b.Values {
		dense[int(b.RowIndices[i])*b.Cols+int(b.ColIndices[i])] += value
	}
	return dense
}

// EvalBatch pairs a single-row batch with the companion data of the same key.
type EvalBatch struct {
	Key    int32
	RawKey int64
	Input  *SparseBatch
	Source *SparseBatch
}
