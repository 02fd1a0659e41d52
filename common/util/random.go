// Copyright 2020 gorse Project Authors
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

package util

import (
	"math/rand"
	"time"
)

// RandomGenerator is the random source injected into splitters and providers.
// It is not safe for concurrent use.
type RandomGenerator struct {
	*rand.Rand
}

// NewRandomGenerator creates a generator. A zero seed is replaced by the clock.
func NewRandomGenerator(seed int64) RandomGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return RandomGenerator{rand.New(rand.NewSource(seed))}
}

// ShuffleInt32 returns a shuffled copy of s.
func (rng RandomGenerator) ShuffleInt32(s []int32) []int32 {
	shuffled := make([]int32, len(s))
	copy(shuffled, s)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
