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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/common/util"
	"github.com/gorse-io/recdata/config"
	"github.com/gorse-io/recdata/dataset"
	"github.com/gorse-io/recdata/storage/blob"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var splitCommand = &cobra.Command{
	Use:   "split",
	Short: "Split ratings per user by time into train, validation and test files",
	Example: `  recdata split -i ml-latest-small/ratings.csv -o ml-latest-small/ml --header 1
  recdata split -i s3://datasets/ml-1m/ratings.dat -o s3://datasets/ml-1m/ml -d :: --save-maps`,
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := loadConfig(cmd, map[string]string{
			"split.delimiter":   "delimiter",
			"split.header":      "header",
			"split.train_ratio": "train-ratio",
			"split.valid_prob":  "valid-prob",
			"split.min_ratings": "min-ratings",
			"split.seed":        "seed",
			"split.save_maps":   "save-maps",
		})
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		if err = runSplit(cmd.Context(), conf, input, output, cmd.OutOrStdout()); err != nil {
			log.Logger().Fatal("failed to split ratings", zap.Error(err))
		}
	},
}

func init() {
	splitCommand.Flags().StringP("input", "i", "", "location of the ratings file")
	splitCommand.Flags().StringP("output", "o", "", "location prefix of output files")
	splitCommand.Flags().StringP("delimiter", "d", ",", "delimiter of input fields")
	splitCommand.Flags().Int("header", 0, "number of header lines to skip")
	splitCommand.Flags().Float64("train-ratio", 0.7, "ratio of ratings per user used for training")
	splitCommand.Flags().Float64("valid-prob", 0.5, "probability to send a user to validation instead of test")
	splitCommand.Flags().Int("min-ratings", 2, "minimum number of ratings per user")
	splitCommand.Flags().Int64("seed", 0, "random seed (0 seeds from the clock)")
	splitCommand.Flags().Bool("save-maps", false, "save id maps next to output files")
	_ = splitCommand.MarkFlagRequired("input")
	_ = splitCommand.MarkFlagRequired("output")
}

// inputSize returns the size of a local file, or -1 if unknown.
func inputSize(location string) int64 {
	if strings.Contains(location, "://") {
		return -1
	}
	info, err := os.Stat(location)
	if err != nil {
		return -1
	}
	return info.Size()
}

func runSplit(ctx context.Context, conf *config.Config, input, output string, out io.Writer) error {
	inputStore, inputName, err := blob.OpenLocation(input, conf)
	if err != nil {
		return errors.Trace(err)
	}
	if inputName == "" {
		return errors.NotValidf("input %s (expect a file)", log.RedactURL(input))
	}
	outputStore, prefix, err := blob.OpenLocation(output, conf)
	if err != nil {
		return errors.Trace(err)
	}
	if prefix == "" {
		return errors.NotValidf("output %s (expect a file prefix)", log.RedactURL(output))
	}

	r, err := inputStore.Open(inputName)
	if err != nil {
		return errors.Trace(err)
	}
	defer r.Close()
	pbReader := progressbar.NewReader(r, progressbar.DefaultBytes(inputSize(input), "Reading "+inputName))
	start := time.Now()
	splitter := dataset.NewSplitter(conf.Split, util.NewRandomGenerator(conf.Split.Seed))
	result, err := splitter.Split(&pbReader, inputName)
	if err != nil {
		return errors.Trace(err)
	}
	logSplitStats(input, result)
	if err = dataset.SaveSplits(ctx, outputStore, prefix, result, conf.Split.SaveMaps); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("complete splitting ratings",
		zap.String("input", log.RedactURL(input)),
		zap.String("output", log.RedactURL(output)),
		zap.Duration("elapsed", time.Since(start)))
	return renderSplitStats(out, result)
}

func logSplitStats(input string, result *dataset.SplitResult) {
	result.Stats.Log(log.RedactURL(input))
	for _, split := range result.Splits() {
		split.Stats().Log(split.Name)
	}
}

func renderSplitStats(w io.Writer, result *dataset.SplitResult) error {
	rows := [][]string{statsRow("all", result.Stats)}
	for _, split := range result.Splits() {
		rows = append(rows, statsRow(split.Name, split.Stats()))
	}
	return renderTable(w, []string{"Name", "Ratings", "Users", "Items", "Min Time", "Max Time", "Mean", "Std"}, rows)
}

func statsRow(name string, stats dataset.Stats) []string {
	return []string{
		name,
		fmt.Sprint(stats.Ratings),
		fmt.Sprint(stats.Users),
		fmt.Sprint(stats.Items),
		stats.MinTime(),
		stats.MaxTime(),
		fmt.Sprintf("%.4f", stats.MeanRating),
		fmt.Sprintf("%.4f", stats.StdRating),
	}
}
