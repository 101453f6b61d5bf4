// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributions

import (
	"math"
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
)

// Categorical is a distribution over n discrete categories,
// parameterized by a [batch, n] tensor of unnormalized logits.
// Samples come out as a [batch, 1] tensor of category indices.
type Categorical struct {
	components.Base
}

// NewCategorical returns a categorical distribution component.
func NewCategorical(scope string) *Categorical {
	ct := &Categorical{}
	ct.SetName(scope)
	return ct
}

func newCategorical(scope string, spec components.Spec) (components.Component, error) {
	return NewCategorical(scope), nil
}

func (ct *Categorical) TypeName() string { return "Categorical" }

// softmaxRow writes the softmax of logits[off:off+n] into probs, which
// must have length n.  Max-subtraction keeps the exponentials bounded.
func softmaxRow(logits []float32, off, n int, probs []float32) {
	mx := logits[off]
	for i := 1; i < n; i++ {
		if logits[off+i] > mx {
			mx = logits[off+i]
		}
	}
	var sum float32
	for i := 0; i < n; i++ {
		e := float32(math.Exp(float64(logits[off+i] - mx)))
		probs[i] = e
		sum += e
	}
	for i := 0; i < n; i++ {
		probs[i] /= sum
	}
}

func (ct *Categorical) SampleDeterministic(params *etensor.Float32) (*etensor.Float32, error) {
	b, n, err := batchRows(params, ct.Name())
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	for bi := 0; bi < b; bi++ {
		off := bi * n
		best := 0
		for i := 1; i < n; i++ {
			if params.Values[off+i] > params.Values[off+best] {
				best = i
			}
		}
		out.Values[bi] = float32(best)
	}
	return out, nil
}

func (ct *Categorical) SampleStochastic(params *etensor.Float32) (*etensor.Float32, error) {
	b, n, err := batchRows(params, ct.Name())
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	probs := make([]float32, n)
	for bi := 0; bi < b; bi++ {
		softmaxRow(params.Values, bi*n, n, probs)
		r := rand.Float32()
		var cum float32
		pick := n - 1
		for i := 0; i < n; i++ {
			cum += probs[i]
			if r < cum {
				pick = i
				break
			}
		}
		out.Values[bi] = float32(pick)
	}
	return out, nil
}

func (ct *Categorical) LogProb(params, values *etensor.Float32) (*etensor.Float32, error) {
	b, n, err := batchRows(params, ct.Name())
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	probs := make([]float32, n)
	for bi := 0; bi < b; bi++ {
		softmaxRow(params.Values, bi*n, n, probs)
		idx := int(values.Values[bi])
		if idx < 0 {
			idx = 0
		} else if idx >= n {
			idx = n - 1
		}
		out.Values[bi] = float32(math.Log(float64(probs[idx])))
	}
	return out, nil
}

func (ct *Categorical) Entropy(params *etensor.Float32) (*etensor.Float32, error) {
	b, n, err := batchRows(params, ct.Name())
	if err != nil {
		return nil, err
	}
	out := etensor.NewFloat32([]int{b, 1}, nil, nil)
	probs := make([]float32, n)
	for bi := 0; bi < b; bi++ {
		softmaxRow(params.Values, bi*n, n, probs)
		var h float64
		for i := 0; i < n; i++ {
			if probs[i] > 0 {
				h -= float64(probs[i]) * math.Log(float64(probs[i]))
			}
		}
		out.Values[bi] = float32(h)
	}
	return out, nil
}
