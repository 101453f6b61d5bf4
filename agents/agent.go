// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agents

import (
	"github.com/emer/etable/etensor"
)

// Agent maps states to actions and learns from observed transitions.
type Agent interface {
	// Name returns the agent's scope name.
	Name() string

	// GetAction returns the action for a single (unbatched) state.
	// timeStep drives exploration schedules; deterministic disables
	// exploration entirely.
	GetAction(state *etensor.Float32, timeStep int, deterministic bool) (*etensor.Float32, error)

	// Observe records one transition for later learning.
	Observe(state, action *etensor.Float32, reward float32, nextState *etensor.Float32, terminal bool)

	// Update performs one learning step and returns the loss.  Agents
	// that have not yet collected enough experience return 0 and no
	// error.
	Update() (float32, error)

	// Reset marks an episode boundary (resets stateful exploration).
	Reset()
}
