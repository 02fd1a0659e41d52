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
	"iter"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
)

var _ train.Dataset = (*GoMLXDataset)(nil)

// GoMLXDataset feeds epochs of a provider to a gomlx training loop. Each batch is yielded as a dense
// [batch_size, vector_dim] float32 tensor, used both as input and label.
type GoMLXDataset struct {
	name     string
	provider *Provider
	next     func() (*SparseBatch, bool)
	stop     func()
}

func NewGoMLXDataset(provider *Provider, name string) *GoMLXDataset {
	ds := &GoMLXDataset{name: name, provider: provider}
	ds.Reset()
	return ds
}

func (ds *GoMLXDataset) Name() string {
	return ds.name
}

// Reset starts a new epoch with reshuffled keys.
func (ds *GoMLXDataset) Reset() {
	if ds.stop != nil {
		ds.stop()
	}
	ds.next, ds.stop = iter.Pull(ds.provider.Epoch())
}

// Yield returns the next batch of the epoch, or io.EOF once the epoch is exhausted.
func (ds *GoMLXDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	batch, ok := ds.next()
	if !ok {
		return nil, nil, nil, io.EOF
	}
	tensor := tensors.FromFlatDataAndDimensions(batch.Dense(), batch.Rows, batch.Cols)
	inputs = []*tensors.Tensor{tensor}
	labels = []*tensors.Tensor{tensor}
	return ds, inputs, labels, nil
}

// Close releases the running epoch.
func (ds *GoMLXDataset) Close() {
	if ds.stop != nil {
		ds.stop()
		ds.stop = nil
	}
}
