// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package explorations perturbs greedy actions during training.  Discrete
actions get epsilon-greedy exploration driven by a decay schedule;
continuous actions get additive noise (constant, gaussian, or
Ornstein-Uhlenbeck).  The Exploration component picks the right
mechanism from the agent's action space.
*/
package explorations
