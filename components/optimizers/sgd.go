// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimizers

import (
	"github.com/pascalwhoop/yarl/components"
)

// SGD is plain gradient descent with optional momentum.
type SGD struct {
	components.Base

	Lrate    float32
	Momentum float32

	vel map[*components.Weights][]float32
}

// NewSGD returns a gradient descent optimizer.
func NewSGD(scope string, lrate, momentum float32) *SGD {
	sg := &SGD{Lrate: lrate, Momentum: momentum, vel: make(map[*components.Weights][]float32)}
	sg.SetName(scope)
	return sg
}

func newSGD(scope string, spec components.Spec) (components.Component, error) {
	return NewSGD(scope, spec.Float("learning_rate", 0.001), spec.Float("momentum", 0)), nil
}

func (sg *SGD) TypeName() string { return "GradientDescent" }

func (sg *SGD) Step(params []*components.Weights) {
	for _, wt := range params {
		if sg.Momentum > 0 {
			v := sg.vel[wt]
			if v == nil {
				v = make([]float32, wt.Len())
				sg.vel[wt] = v
			}
			for i := range wt.Values {
				v[i] = sg.Momentum*v[i] + wt.Grad[i]
				wt.Values[i] -= sg.Lrate * v[i]
			}
		} else {
			for i := range wt.Values {
				wt.Values[i] -= sg.Lrate * wt.Grad[i]
			}
		}
		wt.ZeroGrad()
	}
}

func (sg *SGD) Reset() {
	sg.vel = make(map[*components.Weights][]float32)
}
