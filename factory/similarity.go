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
	"github.com/recsys-io/neighbor/similarity"
	"github.com/recsys-io/neighbor/storage"
)

// SimilarityConfig configures a similarity matrix factory.
type SimilarityConfig struct {
	Name        string
	Description string
	Datasource  string
	Dim         similarity.Dim
	Metric      similarity.Metric
	Scope       similarity.Scope
	Jobs        int
	Duplicates  matrix.DuplicatePolicy
	Force       bool
}

// Similarity computes and persists a pairwise similarity matrix.
type Similarity struct {
	store  storage.Store
	config SimilarityConfig
	engine *similarity.Engine
}

// NewSimilarity creates a similarity matrix factory. Dimension and metric are
// validated here, before any computation starts.
func NewSimilarity(store storage.Store, config SimilarityConfig) (*Similarity, error) {
	if config.Datasource == "" {
		config.Datasource = artifact.DefaultDatasource
	}
	engine, err := similarity.NewEngine(config.Dim, config.Metric,
		similarity.WithJobs(config.Jobs),
		similarity.WithPearsonScope(config.Scope),
		similarity.WithDuplicatePolicy(config.Duplicates))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Similarity{store: store, config: config, engine: engine}, nil
}

// Run computes the similarity matrix of the table, or returns the stored
// artifact when the destination is already materialized.
func (f *Similarity) Run(table *dataset.Table) (*Result, error) {
	key := artifact.Fingerprint("similarity",
		f.config.Datasource,
		table.Checksum(),
		f.config.Dim.String(),
		f.config.Metric.String(),
		fmt.Sprintf("scope=%d", f.config.Scope),
		fmt.Sprintf("duplicates=%d", f.config.Duplicates))
	if result, err := skip(f.store, key, f.config.Force); result != nil || err != nil {
		return result, errors.Trace(err)
	}
	s, err := f.engine.Compute(table)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a := artifact.NewMatrix(f.config.Name, f.config.Description, f.config.Datasource, s)
	return persist(f.store, key, a)
}
