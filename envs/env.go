// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envs

import (
	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/spaces"
)

// Env is a sequential decision environment.  States and actions are
// single samples (no batch dimension); the worker adds batching where
// the agent needs it.
type Env interface {
	// Name returns the environment's descriptive name.
	Name() string

	// StateSpace describes the observations Reset and Step return.
	StateSpace() spaces.Primitive

	// ActionSpace describes the actions Step accepts.
	ActionSpace() spaces.Primitive

	// Seed reseeds the environment's random source.
	Seed(seed int64)

	// Reset starts a new episode and returns the initial state.
	Reset() *etensor.Float32

	// Step executes one action and returns the next state, the reward,
	// and whether the episode terminated.
	Step(action *etensor.Float32) (*etensor.Float32, float32, bool, error)

	// Close releases any resources held by the environment.
	Close() error
}
