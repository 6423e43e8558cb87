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

package factory

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/artifact"
	"github.com/recsys-io/neighbor/dataset"
	"github.com/recsys-io/neighbor/matrix"
	"github.com/recsys-io/neighbor/storage"
)

// InteractionConfig configures an interaction matrix factory.
type InteractionConfig struct {
	Name        string
	Description string
	Datasource  string
	Binary      bool
	CenteredBy  matrix.CenterDim
	Duplicates  matrix.DuplicatePolicy
	Force       bool
}

// Interaction builds and persists the users-by-items interaction matrix.
type Interaction struct {
	store  storage.Store
	config InteractionConfig
}

// NewInteraction creates an interaction matrix factory.
func NewInteraction(store storage.Store, config InteractionConfig) *Interaction {
	if config.Datasource == "" {
		config.Datasource = artifact.DefaultDatasource
	}
	return &Interaction{store: store, config: config}
}

// Run builds the interaction matrix of the table, or returns the stored
// artifact when the destination is already materialized.
func (f *Interaction) Run(table *dataset.Table) (*Result, error) {
	key := artifact.Fingerprint("interaction",
		f.config.Datasource,
		table.Checksum(),
		fmt.Sprintf("binary=%v", f.config.Binary),
		fmt.Sprintf("centered_by=%d", f.config.CenteredBy),
		fmt.Sprintf("duplicates=%d", f.config.Duplicates))
	if result, err := skip(f.store, key, f.config.Force); result != nil || err != nil {
		return result, errors.Trace(err)
	}
	m, err := matrix.Build(table, matrix.BuildOptions{
		Binary:     f.config.Binary,
		CenteredBy: f.config.CenteredBy,
		Duplicates: f.config.Duplicates,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	a := artifact.NewMatrix(f.config.Name, f.config.Description, f.config.Datasource, m)
	return persist(f.store, key, a)
}
