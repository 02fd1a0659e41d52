// Copyright 2024 gorse Project Authors
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
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

func ParseFloat[T constraints.Float](s string) (T, error) {
	v, err := strconv.ParseFloat(s, 64)
	return T(v), err
}

// ParseInt fails with strconv.ErrRange if the value overflows T.
func ParseInt[T constraints.Signed](s string) (T, error) {
	var zero T
	v, err := strconv.ParseInt(s, 10, int(unsafe.Sizeof(zero))*8)
	return T(v), err
}

// FormatFloat prints the shortest decimal that parses back to v.
func FormatFloat[T constraints.Float](v T) string {
	switch any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	}
}
