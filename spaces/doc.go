// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spaces provides a classification for state-, action- and
reward-spaces, compatible in spirit with the openAI Gym space types.

Primitive spaces are boxes in R^n (FloatBox), bounded integer boxes
(IntBox, which double as discrete category spaces) and boolean boxes
(BoolBox).  Container spaces (Dict, Tuple) nest arbitrary sub-spaces and
can be flattened into an ordered list of scoped primitive spaces, with
auto-generated keys: dict entries join their key with "/", tuple entries
use the _T<n>_ convention.

All tensor values are float32 (etensor.Float32), matching the rest of
the framework; integer and boolean samples are stored as float32.
*/
package spaces
