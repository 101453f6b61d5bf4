// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package yarl is the overall repository for a component-based deep
reinforcement-learning framework implemented in the Go language (golang).

Network topologies and agents are declared as structured specifications
(JSON or YAML documents naming sub-components and the connections between
their sockets), which the framework assembles into executable computation
graphs and trains against environments.

This top-level package only carries the version -- everything functional
is organized into the following sub-packages:

* spaces: state-, action- and reward-space classification (boxes and
container spaces), sampling and tensor allocation.

* components: the Component base type, spec parsing and the type registry
from which sub-components are instantiated by name.

* components/layers: network layers (dense, conv2d, concat, flatten,
nonlinearity, normalize, dueling) with forward and backward passes.

* components/memories: replay memories (uniform, ring buffer, prioritized
with segment trees).

* components/distributions, components/explorations,
components/optimizers: action distributions, exploration policies with
decay schedules and noise processes, and gradient-applying optimizers.

* graphs: the network-spec codec and graph builder producing a Network
that executes, differentiates, synchronizes and persists the graph.

* agents: the Agent interface plus RandomAgent and DQNAgent.

* envs: the Environment interface plus RandomEnv and GridWorld.

* execution: workers driving agent-environment interaction loops,
including an MPI data-parallel worker.

* examples: runnable programs, e.g. examples/dqngrid trains a DQN agent
on the GridWorld environment.
*/
package yarl
