// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agents

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/graphs"
	"github.com/pascalwhoop/yarl/spaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qNetSpec(outUnits int) *graphs.NetworkSpec {
	return &graphs.NetworkSpec{
		Scope:   "q-net",
		Inputs:  []string{"states"},
		Outputs: []string{"q"},
		SubComponents: []components.Spec{
			{"scope": "hidden", "type": "dense", "units": 8, "activation": "relu"},
			{"scope": "head", "type": "dense", "units": outUnits, "activation": "linear"},
		},
		Connections: []graphs.Connection{
			{From: graphs.Endpoint{Socket: "states"}, To: graphs.Endpoint{Scope: "hidden", Socket: "in"}},
			{From: graphs.Endpoint{Scope: "hidden", Socket: "out"}, To: graphs.Endpoint{Scope: "head", Socket: "in"}},
			{From: graphs.Endpoint{Scope: "head", Socket: "out"}, To: graphs.Endpoint{Socket: "q"}},
		},
	}
}

func testConfig(outUnits int) *DQNConfig {
	return &DQNConfig{
		Network:      qNetSpec(outUnits),
		Memory:       components.Spec{"type": "replay", "capacity": 64},
		Exploration:  components.Spec{"epsilon": map[string]interface{}{"type": "constant", "constant_value": 0.0}},
		BatchSize:    4,
		SyncInterval: 2,
		Discount:     0.9,
	}
}

func state(v float32) *etensor.Float32 {
	st := etensor.NewFloat32([]int{3}, nil, nil)
	st.Values[0] = v
	return st
}

func fillMemory(ag *DQNAgent, n int) {
	for i := 0; i < n; i++ {
		act := etensor.NewFloat32([]int{1}, nil, nil)
		act.Values[0] = float32(i % 2)
		ag.Observe(state(float32(i)), act, 1, state(float32(i+1)), i%5 == 0)
	}
}

func TestNewDQNAgent(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), testConfig(2))
	require.NoError(t, err)
	assert.Equal(t, "dqn", ag.Name())
	assert.NotNil(t, ag.Target)

	// target starts as an exact copy of the online net
	op := ag.Online.Params()
	tp := ag.Target.Params()
	require.Equal(t, len(op), len(tp))
	for i := range op {
		assert.Equal(t, op[i].Values, tp[i].Values)
	}
}

func TestDQNAgentValidation(t *testing.T) {
	// continuous action space
	_, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewFloatBox(-1, 1), testConfig(2))
	assert.Error(t, err)

	// output units do not match action count
	_, err = NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(4), testConfig(2))
	assert.Error(t, err)

	// missing network
	_, err = NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), &DQNConfig{})
	assert.Error(t, err)
}

func TestDQNGetAction(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), testConfig(2))
	require.NoError(t, err)

	act, err := ag.GetAction(state(1), 0, true)
	require.NoError(t, err)
	v := act.Values[0]
	assert.GreaterOrEqual(t, v, float32(0))
	assert.Less(t, v, float32(2))
	assert.Equal(t, v, float32(int(v)))
}

func TestDQNGreedyAction(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(3), testConfig(3))
	require.NoError(t, err)

	// zero the net and bias the head toward action 2, so the greedy
	// pick is known regardless of random init
	ps := ag.Online.Params()
	for _, wt := range ps {
		for i := range wt.Values {
			wt.Values[i] = 0
		}
	}
	headBias := ps[len(ps)-1]
	require.Equal(t, 3, headBias.Len())
	headBias.Values[2] = 1

	act, err := ag.GetAction(state(1), 0, true)
	require.NoError(t, err)
	assert.Equal(t, float32(2), act.Values[0])

	// constant epsilon 0: the stochastic path is greedy too
	act, err = ag.GetAction(state(1), 0, false)
	require.NoError(t, err)
	assert.Equal(t, float32(2), act.Values[0])
}

func TestDQNUpdateBelowBatchIsNoop(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), testConfig(2))
	require.NoError(t, err)

	loss, err := ag.Update()
	require.NoError(t, err)
	assert.Equal(t, float32(0), loss)
}

func TestDQNUpdateLearns(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), testConfig(2))
	require.NoError(t, err)
	fillMemory(ag, 16)

	var before []float32
	for _, wt := range ag.Online.Params() {
		before = append(before, wt.Values...)
	}
	_, err = ag.Update()
	require.NoError(t, err)
	var after []float32
	for _, wt := range ag.Online.Params() {
		after = append(after, wt.Values...)
	}

	changed := false
	for i := range before {
		if before[i] != after[i] {
			changed = true
			break
		}
	}
	assert.True(t, changed, "update should modify online weights")
}

func TestDQNTargetSync(t *testing.T) {
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), testConfig(2))
	require.NoError(t, err)
	fillMemory(ag, 16)

	// sync interval is 2: after two updates target matches online again
	_, err = ag.Update()
	require.NoError(t, err)
	_, err = ag.Update()
	require.NoError(t, err)

	op := ag.Online.Params()
	tp := ag.Target.Params()
	for i := range op {
		assert.Equal(t, op[i].Values, tp[i].Values)
	}
}

func TestDQNDoubleQ(t *testing.T) {
	cfg := testConfig(2)
	cfg.DoubleQ = true
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), cfg)
	require.NoError(t, err)
	fillMemory(ag, 16)
	_, err = ag.Update()
	require.NoError(t, err)
}

func TestDQNDueling(t *testing.T) {
	cfg := testConfig(3) // 2 actions + 1 value unit
	cfg.DuelingQ = true
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), cfg)
	require.NoError(t, err)
	fillMemory(ag, 16)
	_, err = ag.Update()
	require.NoError(t, err)

	_, err = ag.GetAction(state(1), 0, true)
	require.NoError(t, err)
}

func TestDQNPrioritized(t *testing.T) {
	cfg := testConfig(2)
	cfg.Memory = components.Spec{"type": "prioritized", "capacity": 64, "alpha": 0.6, "beta": 0.4}
	ag, err := NewDQNAgent("dqn", spaces.NewFloatBox(0, 1, 3), spaces.NewDiscrete(2), cfg)
	require.NoError(t, err)
	fillMemory(ag, 16)
	_, err = ag.Update()
	require.NoError(t, err)
}

func TestRandomAgent(t *testing.T) {
	ra := NewRandomAgent("rand", spaces.NewDiscrete(3))
	act, err := ra.GetAction(state(0), 0, false)
	require.NoError(t, err)
	v := act.Values[0]
	assert.GreaterOrEqual(t, v, float32(0))
	assert.Less(t, v, float32(3))

	loss, err := ra.Update()
	require.NoError(t, err)
	assert.Equal(t, float32(0), loss)
}

func TestParseDQNConfigJSON(t *testing.T) {
	cfg, err := ParseDQNConfigJSON([]byte(`{
		"discount": 0.95,
		"batch_size": 8,
		"double_q": true,
		"memory": {"type": "prioritized", "capacity": 100},
		"network": {
			"scope": "n",
			"inputs": ["states"],
			"outputs": ["q"],
			"sub_components": [{"scope": "fc", "type": "dense", "units": 4}],
			"connections": [["states", ["fc", "in"]], [["fc", "out"], "q"]]
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, float32(0.95), cfg.Discount)
	assert.Equal(t, 8, cfg.BatchSize)
	assert.True(t, cfg.DoubleQ)
	assert.Equal(t, "prioritized", cfg.Memory.Type())
	require.NotNil(t, cfg.Network)
	assert.Equal(t, "n", cfg.Network.Scope)
	// defaults fill the rest
	assert.Equal(t, 100, cfg.SyncInterval)
	assert.NotNil(t, cfg.Optimizer)
}

func TestParseDQNConfigYAML(t *testing.T) {
	cfg, err := ParseDQNConfigYAML([]byte(`
discount: 0.9
dueling_q: true
optimizer:
  type: sgd
  learning_rate: 0.01
network:
  scope: n
  inputs: [states]
  outputs: [q]
  sub_components:
    - {scope: fc, type: dense, units: 5}
  connections:
    - [states, [fc, in]]
    - [[fc, out], q]
`))
	require.NoError(t, err)
	assert.True(t, cfg.DuelingQ)
	assert.Equal(t, "sgd", cfg.Optimizer.Type())
	assert.InDelta(t, 0.01, cfg.Optimizer.Float("learning_rate", 0), 1e-6)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, 5, cfg.Network.SubComponents[0].Int("units", 0))
}
