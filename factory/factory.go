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

// Package factory produces persisted matrix artifacts. Every factory follows
// the same state machine: PENDING → SKIPPED when the destination is already
// materialized and recomputation is not forced, otherwise PENDING → COMPUTED →
// PERSISTED. Destinations are keyed by a fingerprint of the parameters and
// the checksum of the input data, so a skip can never return an artifact
// computed from different parameters or from a different source.
package factory

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/recsys-io/neighbor/artifact"
	"github.com/recsys-io/neighbor/base/log"
	"github.com/recsys-io/neighbor/storage"
)

// State is a factory run outcome.
type State int

const (
	StatePending State = iota
	StateSkipped
	StateComputed
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSkipped:
		return "skipped"
	case StateComputed:
		return "computed"
	case StatePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Result is the outcome of a factory run: the artifact, the store key it
// lives under, and whether it was freshly persisted or skipped.
type Result struct {
	State    State
	Key      string
	Artifact *artifact.Artifact
}

// skip returns the stored artifact when the destination exists and force is
// unset, nil otherwise. A forced run never probes the store.
func skip(store storage.Store, key string, force bool) (*Result, error) {
	if force {
		return nil, nil
	}
	exists, err := store.Exists(key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exists {
		return nil, nil
	}
	a, err := store.Read(key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("destination already materialized, skipped",
		zap.String("key", key),
		zap.String("name", a.Name))
	return &Result{State: StateSkipped, Key: key, Artifact: a}, nil
}

// persist writes the artifact and completes the run.
func persist(store storage.Store, key string, a *artifact.Artifact) (*Result, error) {
	if err := store.Write(key, a); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("persisted artifact",
		zap.String("key", key),
		zap.String("name", a.Name))
	return &Result{State: StatePersisted, Key: key, Artifact: a}, nil
}
