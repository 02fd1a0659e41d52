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

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/config"
	"github.com/gorse-io/recdata/dataset"
	"github.com/gorse-io/recdata/storage/blob"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect",
	Short: "Load rating files into mini-batches and report what a training job would see",
	Example: `  recdata inspect --data ml-1m/ml.train --batch-size 128
  recdata inspect --data ml-1m/ml.train --batch-size 128 --eval ml-1m/ml.valid --save-maps ml-1m/ml`,
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := loadConfig(cmd, map[string]string{
			"provider.data_dir":    "data",
			"provider.extension":   "extension",
			"provider.major":       "major",
			"provider.batch_size":  "batch-size",
			"provider.delimiter":   "delimiter",
			"provider.header":      "header",
			"provider.item_id_ind": "item-id-ind",
			"provider.user_id_ind": "user-id-ind",
			"provider.rating_ind":  "rating-ind",
			"provider.user_map":    "user-map",
			"provider.item_map":    "item-map",
			"provider.seed":        "seed",
		})
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		var opts inspectOptions
		opts.Epochs, _ = cmd.Flags().GetInt("epochs")
		opts.Eval, _ = cmd.Flags().GetString("eval")
		opts.SaveMaps, _ = cmd.Flags().GetString("save-maps")
		opts.Tensors, _ = cmd.Flags().GetBool("tensors")
		if err = runInspect(conf, opts, cmd.OutOrStdout()); err != nil {
			log.Logger().Fatal("failed to inspect ratings", zap.Error(err))
		}
	},
}

func init() {
	inspectCommand.Flags().String("data", "", "location of a rating file or a directory of rating files")
	inspectCommand.Flags().String("extension", ".txt", "extension of rating files in a directory")
	inspectCommand.Flags().String("major", config.MajorItems, "rows of mini-batches (users or items)")
	inspectCommand.Flags().Int("batch-size", 0, "number of rows in each mini-batch")
	inspectCommand.Flags().String("delimiter", "\t", "delimiter of input fields")
	inspectCommand.Flags().Int("header", 0, "number of header lines to skip in each file")
	inspectCommand.Flags().Int("item-id-ind", 0, "column of item ids")
	inspectCommand.Flags().Int("user-id-ind", 1, "column of user ids")
	inspectCommand.Flags().Int("rating-ind", 2, "column of ratings")
	inspectCommand.Flags().String("user-map", "", "location of a saved user id map")
	inspectCommand.Flags().String("item-map", "", "location of a saved item id map")
	inspectCommand.Flags().Int64("seed", 0, "random seed for shuffling (0 seeds from the clock)")
	inspectCommand.Flags().Int("epochs", 1, "number of epochs to iterate")
	inspectCommand.Flags().String("eval", "", "location of evaluation ratings paired with the data by key")
	inspectCommand.Flags().String("save-maps", "", "location prefix to save id maps")
	inspectCommand.Flags().Bool("tensors", false, "iterate epochs as dense gomlx tensors")
}

type inspectOptions struct {
	Epochs   int
	Eval     string
	SaveMaps string
	Tensors  bool
}

func runInspect(conf *config.Config, opts inspectOptions, out io.Writer) error {
	provider, err := dataset.LoadProvider(conf)
	if err != nil {
		return errors.Trace(err)
	}
	rows := [][]string{
		{"data", log.RedactURL(conf.Provider.DataDir)},
		{"major", provider.Major()},
		{"keys", fmt.Sprint(provider.Data().Len())},
		{"ratings", fmt.Sprint(provider.Data().Count())},
		{"users", fmt.Sprint(provider.UserMap().Len())},
		{"items", fmt.Sprint(provider.ItemMap().Len())},
		{"vector dim", fmt.Sprint(provider.VectorDim())},
		{"batch size", fmt.Sprint(provider.BatchSize())},
		{"batches per epoch", fmt.Sprint(provider.NumBatches())},
	}

	// iterate epochs
	var ds *dataset.GoMLXDataset
	if opts.Tensors {
		ds = dataset.NewGoMLXDataset(provider, conf.Provider.DataDir)
		defer ds.Close()
	}
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		start := time.Now()
		var numBatches, numValues int
		if ds != nil {
			if epoch > 1 {
				ds.Reset()
			}
			for {
				_, inputs, _, err := ds.Yield()
				if errors.Is(err, io.EOF) {
					break
				} else if err != nil {
					return errors.Trace(err)
				}
				numBatches++
				numValues += inputs[0].Shape().Size()
			}
		} else {
			for batch := range provider.Epoch() {
				numBatches++
				numValues += batch.Nnz()
			}
		}
		log.Logger().Info("complete epoch",
			zap.Int("epoch", epoch),
			zap.Int("n_batches", numBatches),
			zap.Int("n_values", numValues),
			zap.Duration("elapsed", time.Since(start)))
		rows = append(rows, []string{fmt.Sprintf("epoch %d", epoch),
			fmt.Sprintf("%d batches, %d values", numBatches, numValues)})
	}

	// pair evaluation ratings with the data
	if opts.Eval != "" {
		evalConf := *conf
		evalConf.Provider.DataDir = opts.Eval
		evalConf.Provider.UserMap, evalConf.Provider.ItemMap = "", ""
		evalProvider, err := dataset.LoadProvider(&evalConf, dataset.WithIdMaps(provider.UserMap(), provider.ItemMap()))
		if err != nil {
			return errors.Annotatef(err, "load evaluation ratings")
		}
		batches, err := evalProvider.EvalBatches(provider.Data())
		if err != nil {
			return errors.Trace(err)
		}
		var numBatches, numInputs, numSources int
		for batch := range batches {
			numBatches++
			numInputs += batch.Input.Nnz()
			numSources += batch.Source.Nnz()
		}
		rows = append(rows, []string{"eval", fmt.Sprintf("%d batches, %d values, %d source values", numBatches, numInputs, numSources)})
	}

	if opts.SaveMaps != "" {
		store, prefix, err := blob.OpenLocation(opts.SaveMaps, conf)
		if err != nil {
			return errors.Trace(err)
		}
		if prefix == "" {
			return errors.NotValidf("id map location %s (expect a file prefix)", log.RedactURL(opts.SaveMaps))
		}
		if err = dataset.SaveIdMaps(store, prefix, provider.UserMap(), provider.ItemMap()); err != nil {
			return errors.Trace(err)
		}
		rows = append(rows, []string{"id maps", log.RedactURL(opts.SaveMaps) + ".{user_map,item_map}"})
	}
	return renderTable(out, []string{"Property", "Value"}, rows)
}
