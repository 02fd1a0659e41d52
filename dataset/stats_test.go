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

func TestStats(t *testing.T) {
	split := NewSplit(ValidSplit)
	split.add(3, []Rating{{Item: 1, Rating: 2, Timestamp: 978307200}, {Item: 2, Rating: 4, Timestamp: 1260759144}})
	split.add(5, []Rating{{Item: 1, Rating: 3, Timestamp: 1000000000}})
	split.add(7, nil)
	stats := split.Stats()
	assert.Equal(t, 3, stats.Ratings)
	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, 2, stats.Items)
	assert.Equal(t, int64(978307200), stats.MinTimestamp)
	assert.Equal(t, int64(1260759144), stats.MaxTimestamp)
	assert.Equal(t, "2001-01-01", stats.MinTime())
	assert.Equal(t, "2009-12-14", stats.MaxTime())
	assert.InDelta(t, 3, stats.MeanRating, 1e-6)
	assert.InDelta(t, 0.8164966, stats.StdRating, 1e-5)
	stats.Log(split.Name)

	empty := NewSplit(TestSplit).Stats()
	assert.Zero(t, empty.Ratings)
	assert.Zero(t, empty.MeanRating)
	assert.Equal(t, "1970-01-01", empty.MinTime())
}
