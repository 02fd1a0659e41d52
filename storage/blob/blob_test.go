// Copyright 2025 gorse Project Authors
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

package blob

import (
	"io"
	"os"
	"path"
	"testing"

	"github.com/gorse-io/recdata/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpenLocation(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(path.Join(dir, "ratings.csv"), []byte("1,10,4.0\n"), 0644))

	// local file
	store, name, err := OpenLocation(path.Join(dir, "ratings.csv"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "ratings.csv", name)
	assert.Equal(t, dir, store.(*POSIX).dir)

	// local directory
	store, name, err = OpenLocation(dir, nil)
	assert.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, dir, store.(*POSIX).dir)

	// local prefix that does not exist yet
	store, name, err = OpenLocation(path.Join(dir, "out", "ml"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "ml", name)
	assert.Equal(t, path.Join(dir, "out"), store.(*POSIX).dir)

	// s3 with credentials in the location
	cfg := config.GetDefaultConfig()
	cfg.S3.Endpoint = "localhost:9000"
	store, name, err = OpenLocation("s3://key:secret@recdata/ml-1m/ml.train", cfg)
	assert.NoError(t, err)
	assert.Equal(t, "ml.train", name)
	assert.Equal(t, "recdata", store.(*S3).bucket)
	assert.Equal(t, "ml-1m", store.(*S3).prefix)

	// s3 directory
	store, name, err = OpenLocation("s3://recdata/ml-1m/", cfg)
	assert.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, "ml-1m", store.(*S3).prefix)

	// azure with a connection string
	cfg.Azure.ConnectionString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
		"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
		"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"
	store, name, err = OpenLocation("azblob://recdata/ml", cfg)
	assert.NoError(t, err)
	assert.Equal(t, "ml", name)
	assert.Equal(t, "recdata", store.(*AzureBlob).container)
	assert.Empty(t, store.(*AzureBlob).prefix)

	// missing bucket
	_, _, err = OpenLocation("s3:///ml-1m", cfg)
	assert.Error(t, err)
}

func TestSplitRemotePath(t *testing.T) {
	cases := []struct {
		path string
		dir  string
		name string
	}{
		{"", "", ""},
		{"/", "", ""},
		{"/ml.train", "", "ml.train"},
		{"/ml-1m/ml.train", "ml-1m", "ml.train"},
		{"/a/b/", "a/b", ""},
	}
	for _, c := range cases {
		dir, name := splitRemotePath(c.path)
		assert.Equal(t, c.dir, dir, c.path)
		assert.Equal(t, c.name, name, c.path)
	}
}

func readAll(t *testing.T, store Store, name string) string {
	r, err := store.Open(name)
	assert.NoError(t, err)
	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
	return string(data)
}

func writeAll(t *testing.T, store Store, name, content string) {
	w, done, err := store.Create(name)
	assert.NoError(t, err)
	_, err = w.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	<-done
}

func TestOpenLocationRedacted(t *testing.T) {
	_, _, err := OpenLocation("s3://key:secret@/ml-1m/ratings.csv", nil)
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "s3://xxx:xxxxxx@/ml-1m/ratings.csv")
}

func TestPipeWriter(t *testing.T) {
	// consumer succeeds
	var received []byte
	w := newPipeWriter(func(r io.Reader) error {
		var err error
		received, err = io.ReadAll(r)
		return err
	})
	_, err := w.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.Equal(t, "hello world", string(received))

	// consumer fails halfway, the writer and Close both report it
	diskFull := errors.New("disk full")
	w = newPipeWriter(func(r io.Reader) error {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		return diskFull
	})
	_, err = w.Write([]byte("hello world"))
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, w.Close(), diskFull)
	_, ok := <-w.done
	assert.False(t, ok)

	// consumer fails after reading everything
	w = newPipeWriter(func(r io.Reader) error {
		if _, err := io.ReadAll(r); err != nil {
			return err
		}
		return diskFull
	})
	_, err = w.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.ErrorIs(t, w.Close(), diskFull)
}
