// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envs

import (
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/spaces"
)

// RandomEnv emits random states and rewards regardless of the actions
// it receives.  In deterministic mode states cycle through fixed
// values and rewards are constant, which makes agent plumbing tests
// reproducible without controlling the random source.
type RandomEnv struct {
	Nm       string
	StateSp  spaces.Primitive
	ActionSp spaces.Primitive

	// Deterministic switches to cycling fixed states and rewards.
	Deterministic bool

	// TerminalProb is the per-step termination probability in random
	// mode (never terminal in deterministic mode).
	TerminalProb float32

	rnd  *rand.Rand
	step int
}

// NewRandomEnv returns a random environment over the given spaces.
func NewRandomEnv(state, action spaces.Primitive, deterministic bool) *RandomEnv {
	return &RandomEnv{
		Nm:            "RandomEnv",
		StateSp:       state,
		ActionSp:      action,
		Deterministic: deterministic,
		TerminalProb:  0.1,
		rnd:           rand.New(rand.NewSource(1)),
	}
}

func (ev *RandomEnv) Name() string { return ev.Nm }
func (ev *RandomEnv) StateSpace() spaces.Primitive { return ev.StateSp }
func (ev *RandomEnv) ActionSpace() spaces.Primitive { return ev.ActionSp }

func (ev *RandomEnv) Seed(seed int64) {
	ev.rnd = rand.New(rand.NewSource(seed))
}

func (ev *RandomEnv) state() *etensor.Float32 {
	if !ev.Deterministic {
		return ev.StateSp.Sample(ev.rnd)
	}
	st := ev.StateSp.Zeros()
	for i := range st.Values {
		st.Values[i] = float32((ev.step + i) % 2)
	}
	return st
}

func (ev *RandomEnv) Reset() *etensor.Float32 {
	ev.step = 0
	return ev.state()
}

func (ev *RandomEnv) Step(action *etensor.Float32) (*etensor.Float32, float32, bool, error) {
	ev.step++
	if ev.Deterministic {
		return ev.state(), 1, false, nil
	}
	reward := ev.rnd.Float32()
	terminal := ev.rnd.Float32() < ev.TerminalProb
	return ev.state(), reward, terminal, nil
}

func (ev *RandomEnv) Close() error { return nil }
