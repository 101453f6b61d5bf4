// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package memories implements experience replay memories: ReplayMemory
(uniform random sampling over a ring), RingBuffer (FIFO retrieval of the
most recent records) and PrioritizedReplay (proportional prioritization
backed by sum and min segment trees, with importance-sampling weights).

Records are maps from flattened space keys (e.g. "states", "actions",
"reward", "terminals", "next_states") to per-sample tensors; sampled
batches stack each key into one tensor with a leading batch rank.
*/
package memories
