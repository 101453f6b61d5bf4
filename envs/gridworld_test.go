// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envs

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/spaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func action(a int) *etensor.Float32 {
	tsr := etensor.NewFloat32([]int{1}, nil, nil)
	tsr.Values[0] = float32(a)
	return tsr
}

func TestGridWorldSpaces(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	assert.Equal(t, 16, gw.StateSpace().FlatDim())
	assert.Equal(t, []int{1}, gw.ActionSpace().Shape())
}

func TestGridWorldResetState(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	st := gw.Reset()
	require.Equal(t, []int{16}, st.Shp)
	// one-hot at the start cell (0, 0)
	assert.Equal(t, float32(1), st.Values[0])
	var sum float32
	for _, v := range st.Values {
		sum += v
	}
	assert.Equal(t, float32(1), sum)
}

func TestGridWorldStepReward(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()

	st, r, done, err := gw.Step(action(ActionRight))
	require.NoError(t, err)
	assert.Equal(t, StepReward, r)
	assert.False(t, done)
	assert.Equal(t, float32(1), st.Values[1])
}

func TestGridWorldWallsKeepAgentInPlace(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()

	st, r, done, err := gw.Step(action(ActionUp))
	require.NoError(t, err)
	assert.Equal(t, StepReward, r)
	assert.False(t, done)
	assert.Equal(t, float32(1), st.Values[0]) // still at start
}

func TestGridWorldHoleTerminates(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()

	gw.Step(action(ActionRight)) // (1, 0)
	_, r, done, err := gw.Step(action(ActionDown)) // (1, 1) = H
	require.NoError(t, err)
	assert.Equal(t, HoleReward, r)
	assert.True(t, done)
}

func TestGridWorldFireDoesNotTerminate(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()

	gw.Step(action(ActionRight))
	gw.Step(action(ActionRight))
	gw.Step(action(ActionRight)) // (3, 0)
	_, r, done, err := gw.Step(action(ActionDown)) // (3, 1) = F
	require.NoError(t, err)
	assert.Equal(t, FireReward, r)
	assert.False(t, done)
}

func TestGridWorldGoal(t *testing.T) {
	gw, err := NewGridWorld([]string{
		"S.G",
	}, false)
	require.NoError(t, err)
	gw.Reset()

	gw.Step(action(ActionRight))
	_, r, done, err := gw.Step(action(ActionRight))
	require.NoError(t, err)
	assert.Equal(t, GoalReward, r)
	assert.True(t, done)
}

func TestGridWorldSaveMode(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, true)
	require.NoError(t, err)
	gw.Reset()

	gw.Step(action(ActionRight))
	_, r, done, err := gw.Step(action(ActionDown)) // hole cell, save mode
	require.NoError(t, err)
	assert.Equal(t, FireReward, r)
	assert.False(t, done)
}

func TestGridWorldInvalidAction(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()
	_, _, _, err = gw.Step(action(9))
	assert.Error(t, err)
}

func TestGridWorldValidation(t *testing.T) {
	_, err := NewGridWorld([]string{}, false)
	assert.Error(t, err)

	_, err = NewGridWorld([]string{"S.", "..."}, false)
	assert.Error(t, err) // ragged rows

	_, err = NewGridWorld([]string{"..", ".."}, false)
	assert.Error(t, err) // no start

	_, err = NewGridWorld([]string{"SS"}, false)
	assert.Error(t, err) // two starts

	_, err = NewGridWorld([]string{"SZ"}, false)
	assert.Error(t, err) // unknown cell
}

func TestGridWorldCounters(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()
	gw.Step(action(ActionRight))
	gw.Step(action(ActionRight))
	assert.Equal(t, 2, gw.Tick.Cur)
	gw.Reset()
	assert.Equal(t, 0, gw.Tick.Cur)
}

func TestGridWorldString(t *testing.T) {
	gw, err := NewGridWorld(DefaultMap, false)
	require.NoError(t, err)
	gw.Reset()
	s := gw.String()
	assert.Contains(t, s, "X")
	assert.Contains(t, s, "G")
}

func TestRandomEnvDeterministic(t *testing.T) {
	re := NewRandomEnv(spaces.NewFloatBox(0, 1, 4), spaces.NewDiscrete(2), true)
	st1 := re.Reset()
	st2 := re.Reset()
	assert.Equal(t, st1.Values, st2.Values)

	_, r, done, err := re.Step(action(0))
	require.NoError(t, err)
	assert.Equal(t, float32(1), r)
	assert.False(t, done)
}

func TestRandomEnvSeeded(t *testing.T) {
	re := NewRandomEnv(spaces.NewFloatBox(0, 1, 4), spaces.NewDiscrete(2), false)
	re.Seed(7)
	st1, r1, _, _ := re.Step(action(0))
	re.Seed(7)
	st2, r2, _, _ := re.Step(action(0))
	assert.Equal(t, st1.Values, st2.Values)
	assert.Equal(t, r1, r2)
}
