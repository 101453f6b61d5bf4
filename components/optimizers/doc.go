// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package optimizers applies accumulated gradients to network weights.
All optimizers share the Step(params) entry point: they consume the
Grad buffer of each Weights record, update Values, and zero the
gradients afterwards.  Per-parameter state (momentum, moment estimates)
is keyed by the Weights pointer so one optimizer can drive several
networks without cross-talk.
*/
package optimizers
