// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributions

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is a diagonal normal distribution over d-dimensional
// continuous actions.  Its parameter tensor is [batch, 2*d]: the first
// d values per row are the means, the remaining d the log standard
// deviations.  Samples come out as [batch, d].
type Gaussian struct {
	components.Base

	src xrand.Source
}

// NewGaussian returns a diagonal gaussian distribution component.
func NewGaussian(scope string, seed uint64) *Gaussian {
	gs := &Gaussian{src: xrand.NewSource(seed)}
	gs.SetName(scope)
	return gs
}

func newGaussian(scope string, spec components.Spec) (components.Component, error) {
	return NewGaussian(scope, uint64(spec.Int("seed", 1))), nil
}

func (gs *Gaussian) TypeName() string { return "Gaussian" }

// Seed re-seeds the sampling source.
func (gs *Gaussian) Seed(seed uint64) {
	gs.src = xrand.NewSource(seed)
}

// splitMoments checks the parameter layout and returns batch size and
// action dimensionality.
func (gs *Gaussian) splitMoments(params *etensor.Float32) (int, int, error) {
	b, n, err := batchRows(params, gs.Name())
	if err != nil {
		return 0, 0, err
	}
	if n%2 != 0 {
		return 0, 0, fmt.Errorf("%s: gaussian params must hold mean and log-stddev pairs, got row length %d", gs.Name(), n)
	}
	return b, n / 2, nil
}

func (gs *Gaussian) SampleDeterministic(params *etensor.Float32) (*etensor.Float32, error) {
	b, d, err := gs.splitMoments(params)
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, d}, nil, nil)
	for bi := 0; bi < b; bi++ {
		copy(out.Values[bi*d:(bi+1)*d], params.Values[bi*2*d:bi*2*d+d])
	}
	return out, nil
}

func (gs *Gaussian) SampleStochastic(params *etensor.Float32) (*etensor.Float32, error) {
	b, d, err := gs.splitMoments(params)
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, d}, nil, nil)
	for bi := 0; bi < b; bi++ {
		off := bi * 2 * d
		for i := 0; i < d; i++ {
			nrm := distuv.Normal{
				Mu:    float64(params.Values[off+i]),
				Sigma: math.Exp(float64(params.Values[off+d+i])),
				Src:   gs.src,
			}
			out.Values[bi*d+i] = float32(nrm.Rand())
		}
	}
	return out, nil
}

func (gs *Gaussian) LogProb(params, values *etensor.Float32) (*etensor.Float32, error) {
	b, d, err := gs.splitMoments(params)
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	for bi := 0; bi < b; bi++ {
		off := bi * 2 * d
		var lp float64
		for i := 0; i < d; i++ {
			nrm := distuv.Normal{
				Mu:    float64(params.Values[off+i]),
				Sigma: math.Exp(float64(params.Values[off+d+i])),
			}
			lp += nrm.LogProb(float64(values.Values[bi*d+i]))
		}
		out.Values[bi] = float32(lp)
	}
	return out, nil
}

func (gs *Gaussian) Entropy(params *etensor.Float32) (*etensor.Float32, error) {
	b, d, err := gs.splitMoments(params)
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	for bi := 0; bi < b; bi++ {
		off := bi * 2 * d
		var h float64
		for i := 0; i < d; i++ {
			nrm := distuv.Normal{
				Mu:    float64(params.Values[off+i]),
				Sigma: math.Exp(float64(params.Values[off+d+i])),
			}
			h += nrm.Entropy()
		}
		out.Values[bi] = float32(h)
	}
	return out, nil
}
