// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explorations

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/spaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantSchedule(t *testing.T) {
	cd := NewConstant("eps", 0.3)
	assert.Equal(t, float32(0.3), cd.Value(0))
	assert.Equal(t, float32(0.3), cd.Value(100000))
}

func TestLinearDecay(t *testing.T) {
	ld := NewLinearDecay("eps", 1, 0, 100, 1000)
	assert.Equal(t, float32(1), ld.Value(0))
	assert.Equal(t, float32(1), ld.Value(100))
	assert.InDelta(t, 0.5, ld.Value(600), 1e-6)
	assert.Equal(t, float32(0), ld.Value(1100))
	assert.Equal(t, float32(0), ld.Value(99999))
}

func TestExponentialDecay(t *testing.T) {
	ed := NewExponentialDecay("eps", 1, 0.01, 0, 1000)
	assert.InDelta(t, 1, ed.Value(0), 1e-6)
	// halfway: 1 * (0.01)^0.5 = 0.1
	assert.InDelta(t, 0.1, ed.Value(500), 1e-5)
	assert.InDelta(t, 0.01, ed.Value(1000), 1e-6)
	assert.InDelta(t, 0.01, ed.Value(5000), 1e-6)
}

func TestDecayRegistry(t *testing.T) {
	ds, err := NewDecaySchedule("linear-decay", "eps", components.Spec{
		"from": 0.8, "to": 0.2, "num_timesteps": 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ds.Value(5), 1e-6)

	_, err = NewDecaySchedule("warp", "w", components.Spec{})
	assert.Error(t, err)
}

func TestConstantNoise(t *testing.T) {
	cn := NewConstantNoise("noise", 0.5)
	assert.Equal(t, float32(0.5), cn.Sample())
	cn.Reset()
	assert.Equal(t, float32(0.5), cn.Sample())
}

func TestOUNoiseMeanReversion(t *testing.T) {
	// zero sigma makes the process deterministic
	ou := NewOUNoise("noise", 1, 0.5, 0)
	ou.state = 0
	v1 := ou.Sample()
	assert.InDelta(t, 0.5, v1, 1e-6)
	v2 := ou.Sample()
	assert.InDelta(t, 0.75, v2, 1e-6)
	ou.Reset()
	assert.InDelta(t, 1, ou.Sample(), 1e-6) // back at mu
}

func TestExplorationEpsilonGreedy(t *testing.T) {
	ex, err := NewExploration("explore", components.Spec{
		"epsilon": map[string]interface{}{"type": "constant", "constant_value": 0.0},
	})
	require.NoError(t, err)

	space := spaces.NewDiscrete(4)
	act := etensor.NewFloat32([]int{1, 1}, nil, nil)
	act.Values[0] = 2

	// epsilon 0: action passes through
	out, err := ex.Apply(act, space, 0, false)
	require.NoError(t, err)
	assert.Equal(t, float32(2), out.Values[0])

	// deterministic mode always passes through
	out, err = ex.Apply(act, space, 0, true)
	require.NoError(t, err)
	assert.Equal(t, float32(2), out.Values[0])
}

func TestExplorationFullEpsilonRandomizes(t *testing.T) {
	ex, err := NewExploration("explore", components.Spec{
		"epsilon": map[string]interface{}{"type": "constant", "constant_value": 1.0},
	})
	require.NoError(t, err)

	space := spaces.NewDiscrete(4)
	seen := make(map[float32]bool)
	for i := 0; i < 100; i++ {
		act := etensor.NewFloat32([]int{1, 1}, nil, nil)
		out, err := ex.Apply(act, space, 0, false)
		require.NoError(t, err)
		v := out.Values[0]
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(4))
		seen[v] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestExplorationNoiseClipsToSpace(t *testing.T) {
	ex, err := NewExploration("explore", components.Spec{
		"noise": map[string]interface{}{"type": "constant-noise", "value": 10.0},
	})
	require.NoError(t, err)

	space := spaces.NewFloatBox(-1, 1, 2)
	act := etensor.NewFloat32([]int{1, 2}, nil, nil)
	out, err := ex.Apply(act, space, 0, false)
	require.NoError(t, err)
	assert.Equal(t, float32(1), out.Values[0])
	assert.Equal(t, float32(1), out.Values[1])
}
