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
	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/artifact"
	"github.com/recsys-io/neighbor/similarity"
	"github.com/recsys-io/neighbor/storage"
	"github.com/recsys-io/neighbor/weighting"
)

// FrequencyConfig configures a frequency weight vector factory.
type FrequencyConfig struct {
	Name        string
	Description string
	Datasource  string
	Dim         similarity.Dim
	Force       bool
}

// Frequency computes the inverse-document-frequency weight vector of an
// interaction matrix and persists it.
type Frequency struct {
	store  storage.Store
	config FrequencyConfig
}

// NewFrequency creates a frequency weighting factory. The dimension is
// validated here, before any computation starts.
func NewFrequency(store storage.Store, config FrequencyConfig) (*Frequency, error) {
	if config.Datasource == "" {
		config.Datasource = artifact.DefaultDatasource
	}
	if config.Dim != similarity.DimUser && config.Dim != similarity.DimItem {
		return nil, errors.Annotatef(similarity.ErrInvalidDimension, "%d", config.Dim)
	}
	return &Frequency{store: store, config: config}, nil
}

// Run computes the frequency weight vector of the interaction artifact, or
// returns the stored artifact when the destination is already materialized.
func (f *Frequency) Run(interaction *artifact.Artifact) (*Result, error) {
	if interaction.Matrix == nil {
		return nil, errors.NotValidf("frequency weighting of a non-matrix artifact")
	}
	key := artifact.Fingerprint("frequency",
		f.config.Datasource,
		f.config.Dim.String(),
		interaction.Checksum())
	if result, err := skip(f.store, key, f.config.Force); result != nil || err != nil {
		return result, errors.Trace(err)
	}
	weights, err := weighting.Frequency(interaction.Matrix, f.config.Dim)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a := artifact.NewVector(f.config.Name, f.config.Description, f.config.Datasource, weights)
	return persist(f.store, key, a)
}
