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
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorse-io/recdata/common/log"
	"github.com/gorse-io/recdata/config"
	"github.com/juju/errors"
)

const (
	S3Prefix    = "s3://"
	GCSPrefix   = "gs://"
	AzurePrefix = "azblob://"
)

// Store is a flat namespace of files rooted at a directory, bucket prefix or container prefix.
type Store interface {
	Open(name string) (io.ReadCloser, error)
	// Create returns a writer and a channel closed once the data is persisted.
	// Callers must close the writer and then wait on the channel.
	Create(name string) (io.WriteCloser, chan struct{}, error)
	List() ([]string, error)
	Remove(name string) error
}

// OpenLocation resolves a location into a store rooted at its directory and the base name inside
// that store. The base name is empty if the location is a directory: a local directory, or a remote
// location ending with "/".
//
//	/data/ml-1m/ratings.dat          -> POSIX(/data/ml-1m), "ratings.dat"
//	s3://bucket/ml-1m/ml.train       -> S3(bucket, ml-1m), "ml.train"
//	gs://bucket/ml-1m/               -> GCS(bucket, ml-1m), ""
//	azblob://container/ml-1m/ml      -> AzureBlob(container, ml-1m), "ml"
func OpenLocation(location string, cfg *config.Config) (Store, string, error) {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	switch {
	case strings.HasPrefix(location, S3Prefix),
		strings.HasPrefix(location, GCSPrefix),
		strings.HasPrefix(location, AzurePrefix):
		parsed, err := url.Parse(location)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		if parsed.Host == "" {
			return nil, "", errors.NotValidf("bucket of %s", log.RedactURL(location))
		}
		dir, name := splitRemotePath(parsed.Path)
		switch parsed.Scheme {
		case "s3":
			s3Config := cfg.S3
			if parsed.User != nil {
				s3Config.AccessKeyID = parsed.User.Username()
				s3Config.SecretAccessKey, _ = parsed.User.Password()
			}
			store, err := NewS3(s3Config, parsed.Host, dir)
			return store, name, errors.Trace(err)
		case "gs":
			store, err := NewGCS(cfg.GCS, parsed.Host, dir)
			return store, name, errors.Trace(err)
		default:
			store, err := NewAzureBlob(cfg.Azure, parsed.Host, dir)
			return store, name, errors.Trace(err)
		}
	default:
		info, err := os.Stat(location)
		if err == nil && info.IsDir() {
			return NewPOSIX(location), "", nil
		}
		return NewPOSIX(filepath.Dir(location)), filepath.Base(location), nil
	}
}

func splitRemotePath(p string) (dir, name string) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", ""
	}
	if strings.HasSuffix(p, "/") {
		return strings.TrimSuffix(p, "/"), ""
	}
	dir, name = path.Split(p)
	return strings.TrimSuffix(dir, "/"), name
}

// pipeWriter feeds writes to a consumer running in its own goroutine. Close waits for the consumer
// and returns its error.
type pipeWriter struct {
	*io.PipeWriter
	done chan struct{}
	err  error
}

func newPipeWriter(consume func(r io.Reader) error) *pipeWriter {
	pr, pw := io.Pipe()
	w := &pipeWriter{PipeWriter: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		if err := consume(pr); err != nil {
			w.err = err
			_ = pr.CloseWithError(err)
			return
		}
		_ = pr.Close()
	}()
	return w
}

func (w *pipeWriter) Close() error {
	if err := w.PipeWriter.Close(); err != nil {
		return err
	}
	<-w.done
	return w.err
}
