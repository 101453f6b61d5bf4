// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package agents ties networks, memories, exploration and optimizers
together into reinforcement learning agents.  The DQN agent implements
deep Q-learning with target networks, double-Q estimation, dueling
heads and prioritized replay, configured from a JSON or YAML document.
*/
package agents
