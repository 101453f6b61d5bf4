// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimizers

import (
	"github.com/goki/mat32"

	"github.com/pascalwhoop/yarl/components"
)

// Adadelta adapts learning rates from running averages of squared
// gradients and squared updates; it needs no explicit learning rate
// but accepts one as a global scale.
type Adadelta struct {
	components.Base

	Lrate float32
	Rho   float32
	Eps   float32

	accG map[*components.Weights][]float32
	accD map[*components.Weights][]float32
}

// NewAdadelta returns an Adadelta optimizer with decay rho.
func NewAdadelta(scope string, lrate, rho float32) *Adadelta {
	ad := &Adadelta{
		Lrate: lrate, Rho: rho, Eps: 1e-6,
		accG: make(map[*components.Weights][]float32),
		accD: make(map[*components.Weights][]float32),
	}
	ad.SetName(scope)
	return ad
}

func newAdadelta(scope string, spec components.Spec) (components.Component, error) {
	return NewAdadelta(scope, spec.Float("learning_rate", 1), spec.Float("rho", 0.95)), nil
}

func (ad *Adadelta) TypeName() string { return "Adadelta" }

func (ad *Adadelta) Step(params []*components.Weights) {
	for _, wt := range params {
		accG := ad.accG[wt]
		if accG == nil {
			accG = make([]float32, wt.Len())
			ad.accG[wt] = accG
		}
		accD := ad.accD[wt]
		if accD == nil {
			accD = make([]float32, wt.Len())
			ad.accD[wt] = accD
		}
		for i := range wt.Values {
			g := wt.Grad[i]
			accG[i] = ad.Rho*accG[i] + (1-ad.Rho)*g*g
			d := mat32.Sqrt(accD[i]+ad.Eps) / mat32.Sqrt(accG[i]+ad.Eps) * g
			accD[i] = ad.Rho*accD[i] + (1-ad.Rho)*d*d
			wt.Values[i] -= ad.Lrate * d
		}
		wt.ZeroGrad()
	}
}

func (ad *Adadelta) Reset() {
	ad.accG = make(map[*components.Weights][]float32)
	ad.accD = make(map[*components.Weights][]float32)
}
