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
	"context"
	"io"
	"slices"
	"strings"

	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/common/parallel"
	"github.com/gorse-io/recdata/config"
	"github.com/gorse-io/recdata/storage/blob"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	UserMapSuffix = ".user_map"
	ItemMapSuffix = ".item_map"
)

// SourceFiles returns the named file, or every file in the store with the extension sorted by name
// if the name is empty.
func SourceFiles(store blob.Store, name, extension string) ([]string, error) {
	if name != "" {
		return []string{name}, nil
	}
	names, err := store.List()
	if err != nil {
		return nil, errors.Trace(err)
	}
	files := lo.Filter(names, func(name string, _ int) bool {
		return strings.HasSuffix(name, extension)
	})
	slices.Sort(files)
	return files, nil
}

func saveFile(store blob.Store, name string, marshal func(w io.Writer) error) error {
	w, done, err := store.Create(name)
	if err != nil {
		return errors.Trace(err)
	}
	if err = marshal(w); err != nil {
		_ = w.Close()
		<-done
		return errors.Trace(err)
	}
	if err = w.Close(); err != nil {
		return errors.Trace(err)
	}
	<-done
	return nil
}

// SaveSplits writes <prefix>.train, <prefix>.valid and <prefix>.test concurrently. Id maps are written to
// <prefix>.user_map and <prefix>.item_map if saveMaps is set.
func SaveSplits(ctx context.Context, store blob.Store, prefix string, result *SplitResult, saveMaps bool) error {
	var files []lo.Tuple2[string, func(w io.Writer) error]
	for _, split := range result.Splits() {
		files = append(files, lo.Tuple2[string, func(w io.Writer) error]{A: prefix + "." + split.Name, B: split.Marshal})
	}
	if saveMaps {
		files = append(files,
			lo.Tuple2[string, func(w io.Writer) error]{A: prefix + UserMapSuffix, B: result.UserMap.Marshal},
			lo.Tuple2[string, func(w io.Writer) error]{A: prefix + ItemMapSuffix, B: result.ItemMap.Marshal})
	}
	return parallel.Parallel(ctx, len(files), len(files), func(_, jobId int) error {
		name, marshal := files[jobId].Unpack()
		if err := saveFile(store, name, marshal); err != nil {
			return errors.Annotatef(err, "save %s", name)
		}
		log.Logger().Info("save file", zap.String("name", name))
		return nil
	})
}

// SaveIdMaps writes <prefix>.user_map and <prefix>.item_map.
func SaveIdMaps(store blob.Store, prefix string, userMap, itemMap *IdMap) error {
	if err := saveFile(store, prefix+UserMapSuffix, userMap.Marshal); err != nil {
		return errors.Annotatef(err, "save %s", prefix+UserMapSuffix)
	}
	if err := saveFile(store, prefix+ItemMapSuffix, itemMap.Marshal); err != nil {
		return errors.Annotatef(err, "save %s", prefix+ItemMapSuffix)
	}
	return nil
}

// LoadIdMap reads an id map written by SaveIdMaps.
func LoadIdMap(store blob.Store, name string) (*IdMap, error) {
	r, err := store.Open(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer closeQuietly(r)
	return UnmarshalIdMap(r, name)
}

func loadIdMapAt(location string, cfg *config.Config) (*IdMap, error) {
	store, name, err := blob.OpenLocation(location, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if name == "" {
		return nil, errors.NotValidf("id map location %s", log.RedactURL(location))
	}
	return LoadIdMap(store, name)
}

// LoadProvider creates a provider over the data location of the configuration. Id maps are loaded
// if both map locations are set.
func LoadProvider(cfg *config.Config, opts ...ProviderOption) (*Provider, error) {
	if cfg.Provider.DataDir == "" {
		return nil, errors.NotValidf("empty data location")
	}
	store, name, err := blob.OpenLocation(cfg.Provider.DataDir, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	files, err := SourceFiles(store, name, cfg.Provider.Extension)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(files) == 0 {
		return nil, errors.NotFoundf("%s files in %s", cfg.Provider.Extension, log.RedactURL(cfg.Provider.DataDir))
	}
	if cfg.Provider.UserMap != "" && cfg.Provider.ItemMap != "" {
		userMap, err := loadIdMapAt(cfg.Provider.UserMap, cfg)
		if err != nil {
			return nil, errors.Trace(err)
		}
		itemMap, err := loadIdMapAt(cfg.Provider.ItemMap, cfg)
		if err != nil {
			return nil, errors.Trace(err)
		}
		opts = append([]ProviderOption{WithIdMaps(userMap, itemMap)}, opts...)
	}
	return NewProvider(store, files, cfg.Provider, opts...)
}
