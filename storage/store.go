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

// Package storage is the key-addressed persistence collaborator of the
// factories. The core treats it as an opaque store; failures propagate
// unchanged and nothing is retried.
package storage

import (
	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/artifact"
)

// ErrNotFound reports a read of a missing key.
var ErrNotFound = errors.ConstError("artifact not found")

// Store persists artifacts under opaque keys.
type Store interface {
	// Exists reports whether a key is materialized.
	Exists(key string) (bool, error)
	// Read returns the artifact stored under a key, ErrNotFound if missing.
	Read(key string) (*artifact.Artifact, error)
	// Write stores an artifact under a key, replacing any previous value.
	Write(key string, a *artifact.Artifact) error
}
