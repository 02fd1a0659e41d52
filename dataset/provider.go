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
	"iter"
	"strings"

	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/common/util"
	"github.com/gorse-io/recdata/config"
	"github.com/gorse-io/recdata/storage/blob"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Provider loads rating files into sparse mini-batches. Each row of a batch is a major key
// (user or item) and each column is a minor id.
type Provider struct {
	config  config.ProviderConfig
	userMap *IdMap
	itemMap *IdMap
	data    *MajorIndexedData
	rng     util.RandomGenerator
}

type ProviderOption func(p *Provider)

// WithIdMaps loads data through existing id maps instead of building them from the files.
func WithIdMaps(userMap, itemMap *IdMap) ProviderOption {
	return func(p *Provider) {
		p.userMap = userMap
		p.itemMap = itemMap
	}
}

// WithRandomGenerator sets the random generator used to shuffle keys per epoch.
func WithRandomGenerator(rng util.RandomGenerator) ProviderOption {
	return func(p *Provider) {
		p.rng = rng
	}
}

// NewProvider reads the files from the store. Id maps are built from the files unless both are
// given by WithIdMaps.
func NewProvider(store blob.Store, files []string, cfg config.ProviderConfig, opts ...ProviderOption) (*Provider, error) {
	if cfg.Major != config.MajorUsers && cfg.Major != config.MajorItems {
		return nil, errors.NotValidf("major %q (must be %q or %q)", cfg.Major, config.MajorUsers, config.MajorItems)
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.NotValidf("batch size %d", cfg.BatchSize)
	}
	p := &Provider{config: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng.Rand == nil {
		p.rng = util.NewRandomGenerator(cfg.Seed)
	}
	if p.userMap == nil || p.itemMap == nil {
		p.userMap, p.itemMap = NewIdMap(), NewIdMap()
		if err := p.scanFiles(store, files, p.buildMaps); err != nil {
			return nil, errors.Trace(err)
		}
	}
	p.data = NewMajorIndexedData(p.majorMap().Len())
	if err := p.scanFiles(store, files, p.load); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load rating files",
		zap.Strings("files", files),
		zap.String("major", cfg.Major),
		zap.Int("n_keys", p.data.Len()),
		zap.Int("n_ratings", p.data.Count()),
		zap.Int("vector_dim", p.VectorDim()),
		zap.Int("n_users", p.userMap.Len()),
		zap.Int("n_items", p.itemMap.Len()))
	return p, nil
}

func (p *Provider) scanFiles(store blob.Store, files []string, handle func(name string, lineNo int, line string, rating RawRating) error) error {
	for _, name := range files {
		r, err := store.Open(name)
		if err != nil {
			return errors.Trace(err)
		}
		err = ReadLines(r, p.config.Delimiter, p.config.Header, func(lineNo int, line string, fields []string) error {
			rating, err := p.parse(fields)
			if err != nil {
				return malformed(name, lineNo, line, err)
			}
			return handle(name, lineNo, line, rating)
		})
		closeQuietly(r)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) parse(fields []string) (RawRating, error) {
	var (
		rating RawRating
		err    error
	)
	if need := max(p.config.UserIdInd, p.config.ItemIdInd, p.config.RatingInd, 2) + 1; len(fields) < need {
		return RawRating{}, wrongFields(need, len(fields))
	}
	if rating.User, err = util.ParseInt[int64](strings.TrimSpace(fields[p.config.UserIdInd])); err != nil {
		return RawRating{}, errors.Annotate(err, "user id")
	}
	if rating.Item, err = util.ParseInt[int64](strings.TrimSpace(fields[p.config.ItemIdInd])); err != nil {
		return RawRating{}, errors.Annotate(err, "item id")
	}
	if rating.Rating, err = util.ParseFloat[float32](strings.TrimSpace(fields[p.config.RatingInd])); err != nil {
		return RawRating{}, errors.Annotate(err, "rating")
	}
	return rating, nil
}

func (p *Provider) buildMaps(_ string, _ int, _ string, rating RawRating) error {
	p.userMap.Add(rating.User)
	p.itemMap.Add(rating.Item)
	return nil
}

func (p *Provider) load(name string, lineNo int, _ string, rating RawRating) error {
	user := p.userMap.ToDense(rating.User)
	if user == NotId {
		return errors.NotFoundf("user %d at %s:%d in user map", rating.User, name, lineNo)
	}
	item := p.itemMap.ToDense(rating.Item)
	if item == NotId {
		return errors.NotFoundf("item %d at %s:%d in item map", rating.Item, name, lineNo)
	}
	if p.config.Major == config.MajorUsers {
		p.data.Add(user, item, rating.Rating)
	} else {
		p.data.Add(item, user, rating.Rating)
	}
	return nil
}

func (p *Provider) majorMap() *IdMap {
	if p.config.Major == config.MajorUsers {
		return p.userMap
	}
	return p.itemMap
}

func (p *Provider) minorMap() *IdMap {
	if p.config.Major == config.MajorUsers {
		return p.itemMap
	}
	return p.userMap
}

// VectorDim is the size of the minor id space.
func (p *Provider) VectorDim() int {
	return p.minorMap().Len()
}

func (p *Provider) UserMap() *IdMap {
	return p.userMap
}

func (p *Provider) ItemMap() *IdMap {
	return p.itemMap
}

func (p *Provider) Data() *MajorIndexedData {
	return p.data
}

func (p *Provider) Major() string {
	return p.config.Major
}

func (p *Provider) BatchSize() int {
	return p.config.BatchSize
}

// NumBatches is the number of batches in an epoch. Trailing keys that do not fill a batch are skipped.
func (p *Provider) NumBatches() int {
	return p.data.Len() / p.config.BatchSize
}

// Epoch shuffles keys and returns their batches. Batches are built while iterating.
func (p *Provider) Epoch() iter.Seq[*SparseBatch] {
	keys := p.rng.ShuffleInt32(p.data.Keys())
	batchSize := p.config.BatchSize
	return func(yield func(*SparseBatch) bool) {
		for end := batchSize; end <= len(keys); end += batchSize {
			if !yield(p.batch(p.data, keys[end-batchSize:end])) {
				return
			}
		}
	}
}

func (p *Provider) batch(data *MajorIndexedData, keys []int32) *SparseBatch {
	batch := NewSparseBatch(len(keys), p.VectorDim())
	for row, key := range keys {
		batch.Keys = append(batch.Keys, key)
		entries, _ := data.Get(key)
		for _, entry := range entries {
			batch.Add(int32(row), entry.A, entry.B)
		}
	}
	return batch
}

// EvalBatches returns a single-row batch per key in first-seen order, paired with the data of the
// same key in source. It fails before yielding anything if a key is missing from source.
func (p *Provider) EvalBatches(source *MajorIndexedData) (iter.Seq[*EvalBatch], error) {
	majorMap := p.majorMap()
	for _, key := range p.data.Keys() {
		if source == nil {
			return nil, missingCompanion(p.config.Major, key, majorMap.ToRaw(key))
		}
		if _, exist := source.Get(key); !exist {
			return nil, missingCompanion(p.config.Major, key, majorMap.ToRaw(key))
		}
	}
	return func(yield func(*EvalBatch) bool) {
		for _, key := range p.data.Keys() {
			keys := []int32{key}
			batch := &EvalBatch{
				Key:    key,
				RawKey: majorMap.ToRaw(key),
				Input:  p.batch(p.data, keys),
				Source: p.batch(source, keys),
			}
			if !yield(batch) {
				return
			}
		}
	}, nil
}
