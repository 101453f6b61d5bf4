// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import "fmt"

// Weights is one named block of trainable parameters with its accumulated
// gradient.  Layers own Weights; optimizers update Values from Grad and
// zero the gradient afterwards.
type Weights struct {

	// name within the owning component, e.g. "Wts" or "Bias"
	Nm string

	// tensor shape of Values
	Shp []int

	Values []float32

	// accumulated gradient, same length as Values
	Grad []float32
}

// NewWeights allocates a zeroed Weights block of the given shape.
func NewWeights(name string, shape []int) *Weights {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Weights{
		Nm:     name,
		Shp:    shape,
		Values: make([]float32, n),
		Grad:   make([]float32, n),
	}
}

func (wt *Weights) Len() int { return len(wt.Values) }

// ZeroGrad clears the accumulated gradient.
func (wt *Weights) ZeroGrad() {
	for i := range wt.Grad {
		wt.Grad[i] = 0
	}
}

// CopyFrom copies parameter values (not gradients) from another block of
// the same size, e.g. when synchronizing a target network.
func (wt *Weights) CopyFrom(src *Weights) error {
	if len(src.Values) != len(wt.Values) {
		return fmt.Errorf("components: weights %s: size mismatch %d != %d", wt.Nm, len(wt.Values), len(src.Values))
	}
	copy(wt.Values, src.Values)
	return nil
}
