// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributions

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
)

// Distribution maps raw network outputs (the distribution parameters)
// to action samples.  All methods take a batched parameter tensor with
// the batch along the leading dimension.
type Distribution interface {
	components.Component

	// SampleDeterministic returns the mode of the distribution for
	// each row of params.
	SampleDeterministic(params *etensor.Float32) (*etensor.Float32, error)

	// SampleStochastic draws one sample per row of params.
	SampleStochastic(params *etensor.Float32) (*etensor.Float32, error)

	// LogProb returns the per-row log probability (or density) of the
	// given values under params.
	LogProb(params, values *etensor.Float32) (*etensor.Float32, error)

	// Entropy returns the per-row entropy of the distribution.
	Entropy(params *etensor.Float32) (*etensor.Float32, error)
}

// StdRegistry holds the built-in distribution types.
var StdRegistry = components.NewRegistry()

func init() {
	StdRegistry.Register(newCategorical, "categorical")
	StdRegistry.Register(newGaussian, "gaussian", "normal")
}

// NewDistribution constructs a registered distribution type.
func NewDistribution(typeName, scope string, spec components.Spec) (Distribution, error) {
	c, err := StdRegistry.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	d, ok := c.(Distribution)
	if !ok {
		return nil, fmt.Errorf("component type %q is not a distribution", typeName)
	}
	return d, nil
}

// batchRows checks that params is at least rank 2 and returns the batch
// size and per-row flat length.
func batchRows(params *etensor.Float32, scope string) (int, int, error) {
	if params.NumDims() < 2 {
		return 0, 0, fmt.Errorf("%s: params must have a leading batch dimension, got shape %v", scope, params.Shp)
	}
	b := params.Dim(0)
	n := 1
	for i := 1; i < params.NumDims(); i++ {
		n *= params.Dim(i)
	}
	return b, n, nil
}
