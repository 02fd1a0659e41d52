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
	"time"

	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/recdata/common/log"
	"go.uber.org/zap"
)

// Stats summarizes a set of ratings.
type Stats struct {
	Ratings      int
	Users        int
	Items        int
	MinTimestamp int64
	MaxTimestamp int64
	MeanRating   float32
	StdRating    float32
}

func newStats(users int, ratings iter.Seq2[int32, Rating]) Stats {
	stats := Stats{Users: users}
	items := mapset.NewThreadUnsafeSet[int32]()
	var sum, sumSquare float32
	for _, rating := range ratings {
		if stats.Ratings == 0 || rating.Timestamp < stats.MinTimestamp {
			stats.MinTimestamp = rating.Timestamp
		}
		if stats.Ratings == 0 || rating.Timestamp > stats.MaxTimestamp {
			stats.MaxTimestamp = rating.Timestamp
		}
		stats.Ratings++
		items.Add(rating.Item)
		sum += rating.Rating
		sumSquare += rating.Rating * rating.Rating
	}
	stats.Items = items.Cardinality()
	if stats.Ratings > 0 {
		n := float32(stats.Ratings)
		stats.MeanRating = sum / n
		stats.StdRating = math32.Sqrt(max(sumSquare/n-stats.MeanRating*stats.MeanRating, 0))
	}
	return stats
}

// MinTime returns the earliest timestamp as a UTC date.
func (s Stats) MinTime() string {
	return time.Unix(s.MinTimestamp, 0).UTC().Format(time.DateOnly)
}

// MaxTime returns the latest timestamp as a UTC date.
func (s Stats) MaxTime() string {
	return time.Unix(s.MaxTimestamp, 0).UTC().Format(time.DateOnly)
}

func (s Stats) Log(name string) {
	log.Logger().Info("dataset statistics",
		zap.String("name", name),
		zap.Int("n_ratings", s.Ratings),
		zap.Int("n_users", s.Users),
		zap.Int("n_items", s.Items),
		zap.Int64("min_timestamp", s.MinTimestamp),
		zap.String("min_time", s.MinTime()),
		zap.Int64("max_timestamp", s.MaxTimestamp),
		zap.String("max_time", s.MaxTime()),
		zap.Float32("mean_rating", s.MeanRating),
		zap.Float32("std_rating", s.StdRating))
}
