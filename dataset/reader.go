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
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/recdata/common/util"
	"github.com/juju/errors"
)

const maxLineSize = 16 * 1024 * 1024

// ReadLines reads delimited lines from r and calls handler for each content line. The first header lines
// and blank lines are skipped. The handler receives the 1-based line number, the trimmed line and its fields.
// Reading stops at the first error returned by the handler.
func ReadLines(r io.Reader, sep string, header int, handler func(lineNo int, line string, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= header {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := handler(lineNo, line, strings.Split(line, sep)); err != nil {
			return err
		}
	}
	return errors.Trace(sc.Err())
}

// RawRating is a rating with ids as they appear in the source file.
type RawRating struct {
	User      int64
	Item      int64
	Rating    float32
	Timestamp int64
}

// ParseRawRating parses "user, item, rating[, timestamp]". A missing timestamp is 0.
func ParseRawRating(fields []string) (RawRating, error) {
	if len(fields) < 3 {
		return RawRating{}, wrongFields(3, len(fields))
	}
	var (
		rating RawRating
		err    error
	)
	if rating.User, err = util.ParseInt[int64](strings.TrimSpace(fields[0])); err != nil {
		return RawRating{}, errors.Annotate(err, "user id")
	}
	if rating.Item, err = util.ParseInt[int64](strings.TrimSpace(fields[1])); err != nil {
		return RawRating{}, errors.Annotate(err, "item id")
	}
	if rating.Rating, err = util.ParseFloat[float32](strings.TrimSpace(fields[2])); err != nil {
		return RawRating{}, errors.Annotate(err, "rating")
	}
	if len(fields) > 3 {
		if rating.Timestamp, err = ParseTimestamp(fields[3]); err != nil {
			return RawRating{}, errors.Annotate(err, "timestamp")
		}
	}
	return rating, nil
}

// ParseTimestamp parses Unix seconds, or a calendar date in any format dateparse understands.
// Dates without a zone are read as UTC. An empty field is 0.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ts, err := util.ParseInt[int64](s); err == nil {
		return ts, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return t.Unix(), nil
}
