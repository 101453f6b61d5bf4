// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package envs defines the environment interface agents act in, plus two
built-in environments: RandomEnv for plumbing tests and GridWorld, a
small textual navigation task with holes, fire and a goal.
*/
package envs
