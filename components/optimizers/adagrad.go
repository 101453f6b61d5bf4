// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimizers

import (
	"github.com/goki/mat32"

	"github.com/pascalwhoop/yarl/components"
)

// Adagrad scales the learning rate of each weight by the inverse root
// of its accumulated squared gradients.
type Adagrad struct {
	components.Base

	Lrate float32
	Eps   float32

	acc map[*components.Weights][]float32
}

// NewAdagrad returns an Adagrad optimizer.
func NewAdagrad(scope string, lrate float32) *Adagrad {
	ag := &Adagrad{Lrate: lrate, Eps: 1e-8, acc: make(map[*components.Weights][]float32)}
	ag.SetName(scope)
	return ag
}

func newAdagrad(scope string, spec components.Spec) (components.Component, error) {
	return NewAdagrad(scope, spec.Float("learning_rate", 0.001)), nil
}

func (ag *Adagrad) TypeName() string { return "Adagrad" }

func (ag *Adagrad) Step(params []*components.Weights) {
	for _, wt := range params {
		acc := ag.acc[wt]
		if acc == nil {
			acc = make([]float32, wt.Len())
			ag.acc[wt] = acc
		}
		for i := range wt.Values {
			g := wt.Grad[i]
			acc[i] += g * g
			wt.Values[i] -= ag.Lrate * g / (mat32.Sqrt(acc[i]) + ag.Eps)
		}
		wt.ZeroGrad()
	}
}

func (ag *Adagrad) Reset() {
	ag.acc = make(map[*components.Weights][]float32)
}
