// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package distributions provides parameterized probability distributions
over action spaces.  A Distribution turns the raw output of a network
(logits or moment parameters) into samples, deterministic maxima, log
probabilities and entropies.
*/
package distributions
