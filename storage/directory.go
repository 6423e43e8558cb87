// Copyright 2025 recsys Project Authors
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

package storage

import (
	"encoding/gob"
	"os"
	"path"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/recsys-io/neighbor/artifact"
	"github.com/recsys-io/neighbor/base/log"
)

// Directory stores each artifact as one gob file per key under a root
// directory.
type Directory struct {
	dir string
}

// NewDirectory creates a directory-backed store rooted at dir.
func NewDirectory(dir string) (*Directory, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Trace(err)
	}
	return &Directory{dir: dir}, nil
}

func (d *Directory) path(key string) string {
	return path.Join(d.dir, key+".gob")
}

// Exists reports whether a key is materialized.
func (d *Directory) Exists(key string) (bool, error) {
	_, err := os.Stat(d.path(key))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

// Read returns the artifact stored under a key.
func (d *Directory) Read(key string) (*artifact.Artifact, error) {
	file, err := os.Open(d.path(key))
	if os.IsNotExist(err) {
		return nil, errors.Annotatef(ErrNotFound, "%q", key)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	var a artifact.Artifact
	if err := gob.NewDecoder(file).Decode(&a); err != nil {
		return nil, errors.Annotatef(err, "decode %q", key)
	}
	return &a, nil
}

// Write stores an artifact under a key, replacing any previous value.
func (d *Directory) Write(key string, a *artifact.Artifact) error {
	file, err := os.Create(d.path(key))
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if err := gob.NewEncoder(file).Encode(a); err != nil {
		return errors.Annotatef(err, "encode %q", key)
	}
	log.Logger().Debug("wrote artifact",
		zap.String("key", key),
		zap.String("name", a.Name),
		zap.Int("bytes", a.Memory()))
	return nil
}
