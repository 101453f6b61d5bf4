// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agents

import (
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/spaces"
)

// RandomAgent samples uniformly from its action space and never
// learns.  Useful as a baseline and for exercising worker plumbing.
type RandomAgent struct {
	Nm       string
	ActionSp spaces.Primitive

	rnd *rand.Rand
}

// NewRandomAgent returns a random agent over the given action space.
func NewRandomAgent(name string, action spaces.Primitive) *RandomAgent {
	return &RandomAgent{Nm: name, ActionSp: action, rnd: rand.New(rand.NewSource(1))}
}

func (ra *RandomAgent) Name() string { return ra.Nm }

// Seed reseeds the action sampling source.
func (ra *RandomAgent) Seed(seed int64) {
	ra.rnd = rand.New(rand.NewSource(seed))
}

func (ra *RandomAgent) GetAction(state *etensor.Float32, timeStep int, deterministic bool) (*etensor.Float32, error) {
	return ra.ActionSp.Sample(ra.rnd), nil
}

func (ra *RandomAgent) Observe(state, action *etensor.Float32, reward float32, nextState *etensor.Float32, terminal bool) {
}

func (ra *RandomAgent) Update() (float32, error) { return 0, nil }

func (ra *RandomAgent) Reset() {}
