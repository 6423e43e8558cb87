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
	"github.com/recsys-io/neighbor/similarity"
	"github.com/recsys-io/neighbor/storage"
	"github.com/recsys-io/neighbor/weighting"
)

// SignificanceConfig configures a significance-weighted similarity factory.
type SignificanceConfig struct {
	Name        string
	Description string
	Datasource  string
	Dim         similarity.Dim
	Gamma       float64 // saturation threshold, weighting.DefaultGamma if zero
	Jobs        int
	Force       bool
}

// Significance applies significance weighting to a similarity matrix and
// persists the result.
type Significance struct {
	store  storage.Store
	config SignificanceConfig
}

// NewSignificance creates a significance weighting factory. Dimension and
// gamma are validated here, before any computation starts.
func NewSignificance(store storage.Store, config SignificanceConfig) (*Significance, error) {
	if config.Datasource == "" {
		config.Datasource = artifact.DefaultDatasource
	}
	if config.Dim != similarity.DimUser && config.Dim != similarity.DimItem {
		return nil, errors.Annotatef(similarity.ErrInvalidDimension, "%d", config.Dim)
	}
	if config.Gamma == 0 {
		config.Gamma = weighting.DefaultGamma
	} else if config.Gamma < 0 {
		return nil, errors.Annotatef(weighting.ErrInvalidGamma, "%v", config.Gamma)
	}
	return &Significance{store: store, config: config}, nil
}

// Run weights the similarity artifact by the co-rating counts of the
// interaction artifact, or returns the stored artifact when the destination
// is already materialized.
func (f *Significance) Run(interaction, sim *artifact.Artifact) (*Result, error) {
	if interaction.Matrix == nil || sim.Matrix == nil {
		return nil, errors.NotValidf("significance weighting of non-matrix artifacts")
	}
	key := artifact.Fingerprint("significance",
		f.config.Datasource,
		f.config.Dim.String(),
		fmt.Sprintf("gamma=%v", f.config.Gamma),
		interaction.Checksum(),
		sim.Checksum())
	if result, err := skip(f.store, key, f.config.Force); result != nil || err != nil {
		return result, errors.Trace(err)
	}
	weighted, err := weighting.Significance(interaction.Matrix, sim.Matrix, f.config.Dim, f.config.Gamma, f.config.Jobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a := artifact.NewMatrix(f.config.Name, f.config.Description, f.config.Datasource, weighted)
	return persist(f.store, key, a)
}
