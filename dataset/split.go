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
	"cmp"
	"io"
	"iter"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/common/util"
	"github.com/gorse-io/recdata/config"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	TrainSplit = "train"
	ValidSplit = "valid"
	TestSplit  = "test"
)

// Rating is a rating of a dense item id.
type Rating struct {
	Item      int32
	Rating    float32
	Timestamp int64
}

// Split is a named subset of ratings grouped by dense user id in ascending order.
type Split struct {
	Name    string
	Users   []int32
	Ratings [][]Rating
}

func NewSplit(name string) *Split {
	return &Split{Name: name}
}

func (s *Split) add(user int32, ratings []Rating) {
	s.Users = append(s.Users, user)
	s.Ratings = append(s.Ratings, ratings)
}

// Count returns the number of ratings.
func (s *Split) Count() int {
	return lo.SumBy(s.Ratings, func(ratings []Rating) int {
		return len(ratings)
	})
}

// All iterates over ratings in output order.
func (s *Split) All() iter.Seq2[int32, Rating] {
	return func(yield func(int32, Rating) bool) {
		for i, user := range s.Users {
			for _, rating := range s.Ratings[i] {
				if !yield(user, rating) {
					return
				}
			}
		}
	}
}

func (s *Split) Stats() Stats {
	return newStats(len(s.Users), s.All())
}

// retainItems removes ratings whose items are not in the set. Users left without ratings stay in the split.
func (s *Split) retainItems(items *bitset.BitSet) {
	for i, ratings := range s.Ratings {
		s.Ratings[i] = lo.Filter(ratings, func(rating Rating, _ int) bool {
			return items.Test(uint(rating.Item))
		})
	}
}

// Marshal writes "user\titem\trating" lines with dense ids.
func (s *Split) Marshal(w io.Writer) error {
	bw := newLineWriter(w)
	for user, rating := range s.All() {
		bw.writeInt(int64(user))
		bw.writeTab()
		bw.writeInt(int64(rating.Item))
		bw.writeTab()
		bw.writeFloat(rating.Rating)
		bw.writeNewline()
	}
	return errors.Trace(bw.Flush())
}

// SplitResult is the outcome of splitting a ratings file.
type SplitResult struct {
	UserMap *IdMap
	ItemMap *IdMap
	// Stats covers every parsed rating, including users dropped by the minimum.
	Stats Stats
	Train *Split
	Valid *Split
	Test  *Split
}

func (r *SplitResult) Splits() []*Split {
	return []*Split{r.Train, r.Valid, r.Test}
}

// Splitter splits ratings per user by time into train, validation and test sets.
type Splitter struct {
	config config.SplitConfig
	rng    util.RandomGenerator
}

func NewSplitter(cfg config.SplitConfig, rng util.RandomGenerator) *Splitter {
	return &Splitter{config: cfg, rng: rng}
}

// Split reads ratings from r. The name only labels errors.
func (s *Splitter) Split(r io.Reader, name string) (*SplitResult, error) {
	result := &SplitResult{
		UserMap: NewIdMap(),
		ItemMap: NewIdMap(),
		Train:   NewSplit(TrainSplit),
		Valid:   NewSplit(ValidSplit),
		Test:    NewSplit(TestSplit),
	}

	// group ratings by user
	var histories [][]Rating
	err := ReadLines(r, s.config.Delimiter, s.config.Header, func(lineNo int, line string, fields []string) error {
		raw, err := ParseRawRating(fields)
		if err != nil {
			return malformed(name, lineNo, line, err)
		}
		user := result.UserMap.Add(raw.User)
		item := result.ItemMap.Add(raw.Item)
		if int(user) == len(histories) {
			histories = append(histories, nil)
		}
		histories[user] = append(histories[user], Rating{Item: item, Rating: raw.Rating, Timestamp: raw.Timestamp})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	result.Stats = newStats(result.UserMap.Len(), func(yield func(int32, Rating) bool) {
		for user, history := range histories {
			for _, rating := range history {
				if !yield(int32(user), rating) {
					return
				}
			}
		}
	})

	// split ratings of each user by time
	trainItems := bitset.New(uint(result.ItemMap.Len()))
	dropped := 0
	for user, history := range histories {
		if len(history) < s.config.MinRatings {
			dropped++
			continue
		}
		slices.SortStableFunc(history, func(a, b Rating) int {
			return cmp.Compare(a.Timestamp, b.Timestamp)
		})
		splitIndex := int(math.Floor(s.config.TrainRatio * float64(len(history))))
		result.Train.add(int32(user), history[:splitIndex])
		for _, rating := range history[:splitIndex] {
			trainItems.Set(uint(rating.Item))
		}
		if s.rng.Float64() <= s.config.ValidProb {
			result.Valid.add(int32(user), history[splitIndex:])
		} else {
			result.Test.add(int32(user), history[splitIndex:])
		}
	}

	// remove items not seen in training set
	result.Valid.retainItems(trainItems)
	result.Test.retainItems(trainItems)
	if dropped > 0 {
		log.Logger().Info("drop users with too few ratings",
			zap.String("input", name),
			zap.Int("n_dropped", dropped),
			zap.Int("min_ratings", s.config.MinRatings))
	}
	return result, nil
}
