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
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"
)

const (
	// ErrMalformedRecord is returned for content lines that cannot be parsed into a rating.
	ErrMalformedRecord = errors.ConstError("malformed record")
	// ErrMissingCompanion is returned if an evaluation key has no data in the companion dataset.
	ErrMissingCompanion = errors.ConstError("missing companion data")
)

func malformed(name string, lineNo int, line string, cause error) error {
	if cause != nil {
		return errors.Annotatef(ErrMalformedRecord, "%s:%d %q: %v", name, lineNo, line, cause)
	}
	return errors.Annotatef(ErrMalformedRecord, "%s:%d %q", name, lineNo, line)
}

func missingCompanion(major string, key int32, raw int64) error {
	return errors.NewNotFound(ErrMissingCompanion, fmt.Sprintf("%s %d (raw id %d)", strings.TrimSuffix(major, "s"), key, raw))
}

// wrongFields is the cause of a line with too few fields.
func wrongFields(expect, actual int) error {
	return fmt.Errorf("expect at least %d fields, got %d", expect, actual)
}

// closeQuietly closes readers opened only for reading.
func closeQuietly(c io.Closer) {
	_ = c.Close()
}
