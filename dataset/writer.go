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
	"strconv"

	"github.com/gorse-io/recdata/common/util"
)

// lineWriter writes tab separated records without allocating per field.
type lineWriter struct {
	*bufio.Writer
	buf []byte
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{Writer: bufio.NewWriter(w), buf: make([]byte, 0, 32)}
}

func (w *lineWriter) writeInt(v int64) {
	w.buf = strconv.AppendInt(w.buf[:0], v, 10)
	_, _ = w.Write(w.buf)
}

func (w *lineWriter) writeFloat(v float32) {
	_, _ = w.WriteString(util.FormatFloat(v))
}

func (w *lineWriter) writeTab() {
	_ = w.WriteByte('\t')
}

func (w *lineWriter) writeNewline() {
	_ = w.WriteByte('\n')
}
