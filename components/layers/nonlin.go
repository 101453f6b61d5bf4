// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"

	"github.com/pascalwhoop/yarl/components"
)

// NonLinearity applies an activation function as a standalone layer.
// All activations are elementwise except softmax, which normalizes
// over the whole per-sample row.
type NonLinearity struct {
	Base

	Act ActFunc

	out *etensor.Float32
}

func newNonLinearity(scope string, spec components.Spec) (components.Component, error) {
	act, err := ActFuncFromString(spec.Str("activation", ""))
	if err != nil {
		return nil, fmt.Errorf("nonlinearity %s: %w", scope, err)
	}
	if act == Linear {
		return nil, fmt.Errorf("nonlinearity %s: needs a non-linear \"activation\"", scope)
	}
	nl := &NonLinearity{Act: act}
	nl.SetName(scope)
	return nl, nil
}

func (nl *NonLinearity) TypeName() string { return "NonLinearity" }

func (nl *NonLinearity) Build(inShapes [][]int) error {
	in, err := nl.oneInput(inShapes)
	if err != nil {
		return err
	}
	nl.OutShp = in
	return nil
}

func (nl *NonLinearity) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, nl.InShapes[0], nl.Name())
	if err != nil {
		return nil, err
	}
	out := batchTensor(b, nl.OutShp)
	if nl.Act == Softmax {
		n := shapeLen(nl.InShapes[0])
		for bi := 0; bi < b; bi++ {
			softmaxRow(in.Values, out.Values, bi*n, n)
		}
	} else {
		for i, v := range in.Values {
			out.Values[i] = nl.Act.Eval(v)
		}
	}
	nl.out = out
	return out, nil
}

// softmaxRow writes the softmax of in[off:off+n] into out[off:off+n],
// subtracting the row max to keep the exponentials bounded.
func softmaxRow(in, out []float32, off, n int) {
	mx := in[off]
	for i := 1; i < n; i++ {
		if in[off+i] > mx {
			mx = in[off+i]
		}
	}
	var sum float32
	for i := 0; i < n; i++ {
		e := mat32.FastExp(in[off+i] - mx)
		out[off+i] = e
		sum += e
	}
	for i := 0; i < n; i++ {
		out[off+i] /= sum
	}
}

func (nl *NonLinearity) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if nl.out == nil {
		return nil, fmt.Errorf("nonlinearity %s: Backward called before Forward", nl.Name())
	}
	b := grad.Dim(0)
	din := batchTensor(b, nl.InShapes[0])
	if nl.Act == Softmax {
		// Jacobian-vector product: din_i = y_i * (g_i - sum_j g_j y_j)
		n := shapeLen(nl.InShapes[0])
		for bi := 0; bi < b; bi++ {
			off := bi * n
			var dot float32
			for i := 0; i < n; i++ {
				dot += grad.Values[off+i] * nl.out.Values[off+i]
			}
			for i := 0; i < n; i++ {
				din.Values[off+i] = nl.out.Values[off+i] * (grad.Values[off+i] - dot)
			}
		}
		return []*etensor.Float32{din}, nil
	}
	for i, g := range grad.Values {
		din.Values[i] = g * nl.Act.Deriv(nl.out.Values[i])
	}
	return []*etensor.Float32{din}, nil
}

// Normalize linearly rescales inputs from [Low, High] to [0, 1].  It is
// a preprocessing layer: it has no weights and its gradient is the
// constant 1/(High-Low).
type Normalize struct {
	Base

	Low  float32
	High float32
}

func newNormalize(scope string, spec components.Spec) (components.Component, error) {
	nm := &Normalize{Low: spec.Float("low", 0), High: spec.Float("high", 1)}
	if nm.High <= nm.Low {
		return nil, fmt.Errorf("normalize %s: requires high > low, got [%g, %g]", scope, nm.Low, nm.High)
	}
	nm.SetName(scope)
	return nm, nil
}

func (nm *Normalize) TypeName() string { return "Normalize" }

func (nm *Normalize) Build(inShapes [][]int) error {
	in, err := nm.oneInput(inShapes)
	if err != nil {
		return err
	}
	nm.OutShp = in
	return nil
}

func (nm *Normalize) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, nm.InShapes[0], nm.Name())
	if err != nil {
		return nil, err
	}
	rng := nm.High - nm.Low
	out := batchTensor(b, nm.OutShp)
	for i, v := range in.Values {
		out.Values[i] = (v - nm.Low) / rng
	}
	return out, nil
}

func (nm *Normalize) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if len(nm.InShapes) == 0 {
		return nil, fmt.Errorf("normalize %s: Backward called before Build", nm.Name())
	}
	b := grad.Dim(0)
	rng := nm.High - nm.Low
	din := batchTensor(b, nm.InShapes[0])
	for i, g := range grad.Values {
		din.Values[i] = g / rng
	}
	return []*etensor.Float32{din}, nil
}
