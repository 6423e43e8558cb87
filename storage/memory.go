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
	"sync"

	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/artifact"
)

// Memory is an in-process store used by tests and experiments.
type Memory struct {
	mutex     sync.RWMutex
	artifacts map[string]*artifact.Artifact
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{artifacts: make(map[string]*artifact.Artifact)}
}

// Exists reports whether a key is materialized.
func (m *Memory) Exists(key string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, exist := m.artifacts[key]
	return exist, nil
}

// Read returns the artifact stored under a key.
func (m *Memory) Read(key string) (*artifact.Artifact, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if a, exist := m.artifacts[key]; exist {
		return a, nil
	}
	return nil, errors.Annotatef(ErrNotFound, "%q", key)
}

// Write stores an artifact under a key, replacing any previous value.
func (m *Memory) Write(key string, a *artifact.Artifact) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.artifacts[key] = a
	return nil
}
