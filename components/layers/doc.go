// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package layers implements the network layer components that graph specs
assemble: Dense, Conv2D, Flatten, Concat, NonLinearity, Normalize and
Dueling.

Layers operate on batched float32 tensors (leading batch rank) and
implement both the forward pass and the backward pass: Backward
propagates an output gradient to input gradients and accumulates weight
gradients into the layer's Weights blocks, which optimizers then apply.
Shapes used in Build and OutShape are per-sample shapes without the
batch rank.
*/
package layers
