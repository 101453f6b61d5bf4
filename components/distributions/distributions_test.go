// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributions

import (
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tsr(shape []int, vals ...float32) *etensor.Float32 {
	out := etensor.NewFloat32(shape, nil, nil)
	copy(out.Values, vals)
	return out
}

func TestCategoricalDeterministic(t *testing.T) {
	ct := NewCategorical("cat")
	params := tsr([]int{2, 3},
		0.1, 2.0, 0.3,
		5.0, 1.0, 1.0)
	out, err := ct.SampleDeterministic(params)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, out.Shp)
	assert.Equal(t, float32(1), out.Values[0])
	assert.Equal(t, float32(0), out.Values[1])
}

func TestCategoricalStochastic(t *testing.T) {
	ct := NewCategorical("cat")
	// extreme logits make sampling effectively deterministic
	params := tsr([]int{1, 3}, -100, 100, -100)
	for i := 0; i < 10; i++ {
		out, err := ct.SampleStochastic(params)
		require.NoError(t, err)
		assert.Equal(t, float32(1), out.Values[0])
	}
}

func TestCategoricalLogProbEntropy(t *testing.T) {
	ct := NewCategorical("cat")
	// uniform logits: p = 1/4 each
	params := tsr([]int{1, 4}, 1, 1, 1, 1)

	lp, err := ct.LogProb(params, tsr([]int{1, 1}, 2))
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.25), float64(lp.Values[0]), 1e-5)

	ent, err := ct.Entropy(params)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(4), float64(ent.Values[0]), 1e-5)
}

func TestGaussianDeterministic(t *testing.T) {
	gs := NewGaussian("gauss", 1)
	// means [1, 2], log-stddevs [0, 0]
	params := tsr([]int{1, 4}, 1, 2, 0, 0)
	out, err := gs.SampleDeterministic(params)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out.Shp)
	assert.Equal(t, float32(1), out.Values[0])
	assert.Equal(t, float32(2), out.Values[1])
}

func TestGaussianStochastic(t *testing.T) {
	gs := NewGaussian("gauss", 1)
	// tiny stddev keeps samples near the mean
	params := tsr([]int{1, 2}, 3, -10)
	for i := 0; i < 10; i++ {
		out, err := gs.SampleStochastic(params)
		require.NoError(t, err)
		assert.InDelta(t, 3, out.Values[0], 0.01)
	}
}

func TestGaussianLogProb(t *testing.T) {
	gs := NewGaussian("gauss", 1)
	// standard normal at x=0: log(1/sqrt(2*pi))
	params := tsr([]int{1, 2}, 0, 0)
	lp, err := gs.LogProb(params, tsr([]int{1, 1}, 0))
	require.NoError(t, err)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), float64(lp.Values[0]), 1e-5)
}

func TestGaussianRejectsOddParams(t *testing.T) {
	gs := NewGaussian("gauss", 1)
	_, err := gs.SampleDeterministic(tsr([]int{1, 3}, 1, 2, 3))
	assert.Error(t, err)
}

func TestDistributionRegistry(t *testing.T) {
	d, err := NewDistribution("categorical", "c", components.Spec{})
	require.NoError(t, err)
	assert.Equal(t, "Categorical", d.TypeName())

	d, err = NewDistribution("normal", "n", components.Spec{})
	require.NoError(t, err)
	assert.Equal(t, "Gaussian", d.TypeName())
}
