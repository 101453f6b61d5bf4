// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimizers

import (
	"github.com/goki/mat32"

	"github.com/pascalwhoop/yarl/components"
)

// Adam maintains bias-corrected first and second moment estimates of
// the gradients.
type Adam struct {
	components.Base

	Lrate float32
	Beta1 float32
	Beta2 float32
	Eps   float32

	m map[*components.Weights][]float32
	v map[*components.Weights][]float32
	t int
}

// NewAdam returns an Adam optimizer with the given learning rate and
// moment decay rates.
func NewAdam(scope string, lrate, beta1, beta2 float32) *Adam {
	ad := &Adam{
		Lrate: lrate, Beta1: beta1, Beta2: beta2, Eps: 1e-8,
		m: make(map[*components.Weights][]float32),
		v: make(map[*components.Weights][]float32),
	}
	ad.SetName(scope)
	return ad
}

func newAdam(scope string, spec components.Spec) (components.Component, error) {
	return NewAdam(scope,
		spec.Float("learning_rate", 0.001),
		spec.Float("beta1", 0.9),
		spec.Float("beta2", 0.999)), nil
}

func (ad *Adam) TypeName() string { return "Adam" }

func (ad *Adam) Step(params []*components.Weights) {
	ad.t++
	c1 := 1 - mat32.Pow(ad.Beta1, float32(ad.t))
	c2 := 1 - mat32.Pow(ad.Beta2, float32(ad.t))
	for _, wt := range params {
		m := ad.m[wt]
		if m == nil {
			m = make([]float32, wt.Len())
			ad.m[wt] = m
		}
		v := ad.v[wt]
		if v == nil {
			v = make([]float32, wt.Len())
			ad.v[wt] = v
		}
		for i := range wt.Values {
			g := wt.Grad[i]
			m[i] = ad.Beta1*m[i] + (1-ad.Beta1)*g
			v[i] = ad.Beta2*v[i] + (1-ad.Beta2)*g*g
			mh := m[i] / c1
			vh := v[i] / c2
			wt.Values[i] -= ad.Lrate * mh / (mat32.Sqrt(vh) + ad.Eps)
		}
		wt.ZeroGrad()
	}
}

func (ad *Adam) Reset() {
	ad.m = make(map[*components.Weights][]float32)
	ad.v = make(map[*components.Weights][]float32)
	ad.t = 0
}
