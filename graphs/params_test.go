// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphs

import (
	"math"
	"testing"

	"github.com/emer/emergent/params"
	"github.com/pascalwhoop/yarl/components/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyParamsByName(t *testing.T) {
	nt, err := BuildNetwork(chainSpec(), map[string][]int{"states": {3}})
	require.NoError(t, err)

	sheet := params.Sheet{
		{Sel: "#fc1", Desc: "wider weight init on the first layer",
			Params: params.Params{
				"Dense.WtInit.Var": "0.5",
			}},
	}
	applied, err := nt.ApplyParams(&sheet, false)
	require.NoError(t, err)
	assert.True(t, applied)

	fc1 := nt.LayerByScope("fc1").(*layers.Dense)
	assert.InDelta(t, 0.5, fc1.WtInit.Var, 1e-6)
	fc2 := nt.LayerByScope("fc2").(*layers.Dense)
	assert.Greater(t, math.Abs(float64(fc2.WtInit.Var)-0.5), 1e-6)
}

func TestApplyParamsByType(t *testing.T) {
	nt, err := BuildNetwork(chainSpec(), map[string][]int{"states": {3}})
	require.NoError(t, err)

	sheet := params.Sheet{
		{Sel: "Dense", Desc: "all dense layers",
			Params: params.Params{
				"Dense.WtInit.Mean": "0.1",
			}},
	}
	applied, err := nt.ApplyParams(&sheet, false)
	require.NoError(t, err)
	assert.True(t, applied)

	for _, scope := range []string{"fc1", "fc2"} {
		dl := nt.LayerByScope(scope).(*layers.Dense)
		assert.InDelta(t, 0.1, dl.WtInit.Mean, 1e-6)
	}
}
