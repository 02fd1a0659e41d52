// Copyright 2022 gorse Project Authors
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

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recdata.log")
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	assert.NoError(t, flagSet.Parse([]string{"--log-path", path}))

	SetLogger(flagSet, false)
	Logger().Info("hello")
	_ = Logger().Sync()
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "\"msg\":\"hello\"")

	SetLogger(flagSet, true)
	Logger().Debug("debug")
	_ = Logger().Sync()
	content, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "debug")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "s3://xxx:xxxxxx@bucket/ml-1m", RedactURL("s3://key:secret@bucket/ml-1m"))
	assert.Equal(t, "gs://bucket/ml-1m/ratings.csv", RedactURL("gs://bucket/ml-1m/ratings.csv"))
	assert.Equal(t, "/data/ml-1m/ratings.csv", RedactURL("/data/ml-1m/ratings.csv"))
}

func TestReplaceLogger(t *testing.T) {
	prev := Logger()
	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	Logger().Info("hello", zap.String("name", "ml-1m"))
	restore()
	assert.Same(t, prev, Logger())
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "hello", logs.All()[0].Message)
		assert.Equal(t, "ml-1m", logs.All()[0].ContextMap()["name"])
	}
}
