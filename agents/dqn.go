// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agents

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/components/distributions"
	"github.com/pascalwhoop/yarl/components/explorations"
	"github.com/pascalwhoop/yarl/components/layers"
	"github.com/pascalwhoop/yarl/components/memories"
	"github.com/pascalwhoop/yarl/components/optimizers"
	"github.com/pascalwhoop/yarl/graphs"
	"github.com/pascalwhoop/yarl/spaces"
)

// DQNAgent implements deep Q-learning with a separate target network.
// Options cover double-Q estimation (online-net argmax evaluated on
// the target net), a dueling value/advantage head, and prioritized
// replay with importance-weighted updates.
type DQNAgent struct {
	components.Base

	StateSp  spaces.Primitive
	ActionSp *spaces.IntBox

	Online *graphs.Network
	Target *graphs.Network

	Memory  memories.Memory
	Explore *explorations.Exploration
	Opt     optimizers.Optimizer

	// Policy treats the Q-values as logits; greedy actions come from
	// its deterministic sample
	Policy *distributions.Categorical

	Discount     float32
	BatchSize    int
	SyncInterval int
	DoubleQ      bool

	// dueling head applied to the network output, nil when disabled
	duel *layers.Dueling

	inSocket  string
	outSocket string
	updates   int
}

// NewDQNAgent builds a DQN agent over the given state and action
// spaces.  The action space must be a scalar IntBox; the config's
// network must have one input and one output socket, producing
// numActions values (numActions+1 with the dueling head enabled).
func NewDQNAgent(scope string, state spaces.Primitive, action spaces.Primitive, cfg *DQNConfig) (*DQNAgent, error) {
	ac, ok := action.(*spaces.IntBox)
	if !ok {
		return nil, fmt.Errorf("dqn %s: requires a discrete (IntBox) action space, got %s", scope, action.String())
	}
	if ac.FlatDim() != 1 {
		return nil, fmt.Errorf("dqn %s: requires a scalar action space, got %s", scope, action.String())
	}
	if cfg == nil || cfg.Network == nil {
		return nil, fmt.Errorf("dqn %s: config must include a network spec", scope)
	}
	cfg.Defaults()

	if len(cfg.Network.Inputs) != 1 || len(cfg.Network.Outputs) != 1 {
		return nil, fmt.Errorf("dqn %s: network must have exactly one input and one output socket", scope)
	}
	ag := &DQNAgent{
		StateSp:      state,
		ActionSp:     ac,
		Discount:     cfg.Discount,
		BatchSize:    cfg.BatchSize,
		SyncInterval: cfg.SyncInterval,
		DoubleQ:      cfg.DoubleQ,
		inSocket:     cfg.Network.Inputs[0],
		outSocket:    cfg.Network.Outputs[0],
	}
	ag.SetName(scope)
	ag.Policy = distributions.NewCategorical(scope + "/policy")

	inShapes := map[string][]int{ag.inSocket: state.Shape()}
	online, err := graphs.BuildNetwork(cfg.Network, inShapes)
	if err != nil {
		return nil, fmt.Errorf("dqn %s: %w", scope, err)
	}
	target, err := graphs.BuildNetwork(cfg.Network, inShapes)
	if err != nil {
		return nil, fmt.Errorf("dqn %s: %w", scope, err)
	}
	if err := target.SynchronizeFrom(online); err != nil {
		return nil, err
	}
	ag.Online = online
	ag.Target = target

	numActions := ac.NumCategories()
	outShp, err := online.OutShape(ag.outSocket)
	if err != nil {
		return nil, err
	}
	want := numActions
	if cfg.DuelingQ {
		want = numActions + 1
	}
	if len(outShp) != 1 || outShp[0] != want {
		return nil, fmt.Errorf("dqn %s: network output shape %v, want [%d] for %d actions", scope, outShp, want, numActions)
	}
	if cfg.DuelingQ {
		du := &layers.Dueling{}
		du.SetName(scope + "/dueling")
		if err := du.Build([][]int{outShp}); err != nil {
			return nil, err
		}
		ag.duel = du
	}

	mem, err := memories.NewMemory(cfg.Memory.Type(), scope+"/memory", cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("dqn %s: %w", scope, err)
	}
	ag.Memory = mem

	exp, err := explorations.NewExploration(scope+"/exploration", cfg.Exploration)
	if err != nil {
		return nil, fmt.Errorf("dqn %s: %w", scope, err)
	}
	ag.Explore = exp

	opt, err := optimizers.NewOptimizer(cfg.Optimizer.Type(), scope+"/optimizer", cfg.Optimizer)
	if err != nil {
		return nil, fmt.Errorf("dqn %s: %w", scope, err)
	}
	ag.Opt = opt
	return ag, nil
}

func (ag *DQNAgent) TypeName() string { return "DQNAgent" }

// batchOne wraps a single state in a batch-1 tensor.
func batchOne(state *etensor.Float32) *etensor.Float32 {
	shp := append([]int{1}, state.Shp...)
	bt := etensor.NewFloat32(shp, nil, nil)
	copy(bt.Values, state.Values)
	return bt
}

// qValues runs states through net and the optional dueling head,
// returning [batch, numActions] action values.
func (ag *DQNAgent) qValues(net *graphs.Network, states *etensor.Float32) (*etensor.Float32, error) {
	out, err := net.Forward(map[string]*etensor.Float32{ag.inSocket: states})
	if err != nil {
		return nil, err
	}
	q := out[ag.outSocket]
	if ag.duel != nil {
		return ag.duel.Forward([]*etensor.Float32{q})
	}
	return q, nil
}

func (ag *DQNAgent) GetAction(state *etensor.Float32, timeStep int, deterministic bool) (*etensor.Float32, error) {
	q, err := ag.qValues(ag.Online, batchOne(state))
	if err != nil {
		return nil, err
	}
	pick, err := ag.Policy.SampleDeterministic(q)
	if err != nil {
		return nil, err
	}
	action := etensor.NewFloat32([]int{1, 1}, nil, nil)
	action.Values[0] = float32(ag.ActionSp.Low) + pick.Values[0]
	return ag.Explore.Apply(action, ag.ActionSp, timeStep, deterministic)
}

func (ag *DQNAgent) Observe(state, action *etensor.Float32, reward float32, nextState *etensor.Float32, terminal bool) {
	rec := memories.Record{
		"states":      state,
		"actions":     action,
		"rewards":     scalarTensor(reward),
		"next_states": nextState,
		"terminals":   scalarTensor(boolToFloat(terminal)),
	}
	ag.Memory.Insert([]memories.Record{rec})
}

// Update performs one batch of Q-learning, returning the mean squared
// TD error.  A no-op until the memory holds a full batch.
func (ag *DQNAgent) Update() (float32, error) {
	if ag.Memory.Size() < ag.BatchSize {
		return 0, nil
	}
	var (
		batch   memories.Batch
		indices []int
		weights []float32
		err     error
	)
	if pr, ok := ag.Memory.(*memories.PrioritizedReplay); ok {
		batch, indices, weights, err = pr.GetWithWeights(ag.BatchSize)
	} else {
		batch, indices, err = ag.Memory.Get(ag.BatchSize)
	}
	if err != nil {
		return 0, err
	}

	states := batch["states"]
	actions := batch["actions"]
	rewards := batch["rewards"]
	nextStates := batch["next_states"]
	terminals := batch["terminals"]
	n := ag.BatchSize
	na := ag.ActionSp.NumCategories()

	qt, err := ag.qValues(ag.Target, nextStates)
	if err != nil {
		return 0, err
	}
	nextQ := make([]float32, n)
	if ag.DoubleQ {
		qo, err := ag.qValues(ag.Online, nextStates)
		if err != nil {
			return 0, err
		}
		for bi := 0; bi < n; bi++ {
			best := 0
			for i := 1; i < na; i++ {
				if qo.Values[bi*na+i] > qo.Values[bi*na+best] {
					best = i
				}
			}
			nextQ[bi] = qt.Values[bi*na+best]
		}
	} else {
		for bi := 0; bi < n; bi++ {
			mx := qt.Values[bi*na]
			for i := 1; i < na; i++ {
				if qt.Values[bi*na+i] > mx {
					mx = qt.Values[bi*na+i]
				}
			}
			nextQ[bi] = mx
		}
	}

	q, err := ag.qValues(ag.Online, states)
	if err != nil {
		return 0, err
	}

	var loss float32
	tds := make([]float32, n)
	qGrad := etensor.NewFloat32(q.Shp, nil, nil)
	for bi := 0; bi < n; bi++ {
		act := int(actions.Values[bi]) - ag.ActionSp.Low
		target := rewards.Values[bi]
		if terminals.Values[bi] == 0 {
			target += ag.Discount * nextQ[bi]
		}
		td := q.Values[bi*na+act] - target
		tds[bi] = td
		w := float32(1)
		if weights != nil {
			w = weights[bi]
		}
		loss += 0.5 * w * td * td
		qGrad.Values[bi*na+act] = w * td / float32(n)
	}
	loss /= float32(n)

	grad := qGrad
	if ag.duel != nil {
		dg, err := ag.duel.Backward(qGrad)
		if err != nil {
			return 0, err
		}
		grad = dg[0]
	}
	if _, err := ag.Online.Backward(map[string]*etensor.Float32{ag.outSocket: grad}); err != nil {
		return 0, err
	}
	ag.Opt.Step(ag.Online.Params())

	if pr, ok := ag.Memory.(*memories.PrioritizedReplay); ok {
		prios := make([]float32, n)
		for bi, td := range tds {
			prios[bi] = abs32(td)
		}
		if err := pr.UpdatePriorities(indices, prios); err != nil {
			return 0, err
		}
	}

	ag.updates++
	if ag.SyncInterval > 0 && ag.updates%ag.SyncInterval == 0 {
		if err := ag.Target.SynchronizeFrom(ag.Online); err != nil {
			return 0, err
		}
	}
	return loss, nil
}

func (ag *DQNAgent) Reset() {
	ag.Explore.Reset()
}

// Params returns the online network's trainable weights, e.g. for
// cross-rank averaging in distributed execution.
func (ag *DQNAgent) Params() []*components.Weights {
	return ag.Online.Params()
}

func scalarTensor(v float32) *etensor.Float32 {
	tsr := etensor.NewFloat32([]int{1}, nil, nil)
	tsr.Values[0] = v
	return tsr
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
