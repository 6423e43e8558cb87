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

package similarity

import (
	"strings"

	"github.com/juju/errors"

	"github.com/recsys-io/neighbor/matrix"
)

var (
	// ErrInvalidDimension reports an unknown comparison dimension.
	ErrInvalidDimension = errors.ConstError("invalid dimension")
	// ErrInvalidMetric reports an unknown similarity metric.
	ErrInvalidMetric = errors.ConstError("invalid metric")
)

// Dim selects the entities being compared: matrix rows are users or items.
type Dim int

const (
	DimUser Dim = iota + 1
	DimItem
)

func (d Dim) String() string {
	switch d {
	case DimUser:
		return "user"
	case DimItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseDim resolves a dimension name. Like the metric names, only the first
// letter decides.
func ParseDim(s string) (Dim, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(s), "u"):
		return DimUser, nil
	case strings.HasPrefix(strings.ToLower(s), "i"):
		return DimItem, nil
	default:
		return 0, errors.Annotatef(ErrInvalidDimension, "%q", s)
	}
}

// Metric is a similarity measure between two rating vectors.
type Metric int

const (
	Cosine Metric = iota + 1
	AdjustedCosine
	Pearson
)

func (m Metric) String() string {
	switch m {
	case Cosine:
		return "cosine"
	case AdjustedCosine:
		return "adjusted_cosine"
	case Pearson:
		return "pearson"
	default:
		return "unknown"
	}
}

// ParseMetric resolves a metric name. Only the first letter decides, so
// "cosine" and "c" are equivalent.
func ParseMetric(s string) (Metric, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(s), "c"):
		return Cosine, nil
	case strings.HasPrefix(strings.ToLower(s), "a"):
		return AdjustedCosine, nil
	case strings.HasPrefix(strings.ToLower(s), "p"):
		return Pearson, nil
	default:
		return 0, errors.Annotatef(ErrInvalidMetric, "%q", s)
	}
}

// centerDim returns the rating column a metric centers by when comparing
// along dim. Cosine uses raw ratings, adjusted cosine centers by the opposite
// dimension, Pearson centers by the same dimension.
func (m Metric) centerDim(dim Dim) matrix.CenterDim {
	switch m {
	case Cosine:
		return matrix.CenterNone
	case AdjustedCosine:
		if dim == DimUser {
			return matrix.CenterItem
		}
		return matrix.CenterUser
	case Pearson:
		if dim == DimUser {
			return matrix.CenterUser
		}
		return matrix.CenterItem
	default:
		return matrix.CenterNone
	}
}

// Scope selects the Pearson denominator: the full mean-centered vectors, or
// only the co-rated positions of each pair. Both are valid Pearson-like
// correlations; they diverge when a pair shares few co-ratings.
type Scope int

const (
	ScopeFull Scope = iota
	ScopeCommonOnly
)
