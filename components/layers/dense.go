// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"

	"github.com/pascalwhoop/yarl/components"
)

// Dense is a fully connected layer over a flat input: out = act(in*W + b).
type Dense struct {
	Base

	// number of output units
	Units int

	// elementwise activation applied to the affine output
	Act ActFunc

	// whether a bias vector is added
	Bias bool

	// initial random weight distribution
	WtInit erand.RndParams

	// weight matrix, shape [in, units]
	Wts *components.Weights

	// bias vector, shape [units]
	Bs *components.Weights

	in  *etensor.Float32
	out *etensor.Float32
}

func newDense(scope string, spec components.Spec) (components.Component, error) {
	units := spec.Int("units", 0)
	if units <= 0 {
		return nil, fmt.Errorf("dense %s: \"units\" must be a positive integer", scope)
	}
	act, err := ActFuncFromString(spec.Str("activation", ""))
	if err != nil {
		return nil, fmt.Errorf("dense %s: %w", scope, err)
	}
	if act == Softmax {
		return nil, fmt.Errorf("dense %s: softmax is row-wise -- follow with a nonlinearity layer", scope)
	}
	dl := &Dense{Units: units, Act: act, Bias: spec.Bool("use_bias", true)}
	dl.SetName(scope)
	dl.Defaults()
	applyWtInitSpec(&dl.WtInit, spec.Sub("weights_spec"))
	return dl, nil
}

func (dl *Dense) TypeName() string { return "Dense" }

func (dl *Dense) Defaults() {
	dl.WtInit.Dist = erand.Uniform
	dl.WtInit.Mean = 0
	dl.WtInit.Var = 0.1
}

func (dl *Dense) Build(inShapes [][]int) error {
	in, err := dl.oneInput(inShapes)
	if err != nil {
		return err
	}
	if len(in) != 1 {
		return fmt.Errorf("dense %s: requires a flat input, got shape %v -- insert a flatten layer", dl.Name(), in)
	}
	dl.OutShp = []int{dl.Units}
	dl.Wts = components.NewWeights("Wts", []int{in[0], dl.Units})
	for i := range dl.Wts.Values {
		dl.Wts.Values[i] = float32(dl.WtInit.Gen(-1))
	}
	dl.Bs = components.NewWeights("Bias", []int{dl.Units})
	return nil
}

func (dl *Dense) Weights() []*components.Weights {
	if dl.Bias {
		return []*components.Weights{dl.Wts, dl.Bs}
	}
	return []*components.Weights{dl.Wts}
}

func (dl *Dense) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, dl.InShapes[0], dl.Name())
	if err != nil {
		return nil, err
	}
	nin := dl.InShapes[0][0]
	out := batchTensor(b, dl.OutShp)
	for bi := 0; bi < b; bi++ {
		irow := in.Values[bi*nin : (bi+1)*nin]
		orow := out.Values[bi*dl.Units : (bi+1)*dl.Units]
		for u := 0; u < dl.Units; u++ {
			sum := float32(0)
			for i, iv := range irow {
				sum += iv * dl.Wts.Values[i*dl.Units+u]
			}
			if dl.Bias {
				sum += dl.Bs.Values[u]
			}
			orow[u] = dl.Act.Eval(sum)
		}
	}
	dl.in = in
	dl.out = out
	return out, nil
}

func (dl *Dense) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if dl.in == nil {
		return nil, fmt.Errorf("dense %s: Backward called before Forward", dl.Name())
	}
	b := dl.in.Dim(0)
	if grad.Len() != b*dl.Units {
		return nil, fmt.Errorf("dense %s: gradient size %d does not match output %d", dl.Name(), grad.Len(), b*dl.Units)
	}
	nin := dl.InShapes[0][0]
	din := batchTensor(b, dl.InShapes[0])
	for bi := 0; bi < b; bi++ {
		irow := dl.in.Values[bi*nin : (bi+1)*nin]
		drow := din.Values[bi*nin : (bi+1)*nin]
		for u := 0; u < dl.Units; u++ {
			dpre := grad.Values[bi*dl.Units+u] * dl.Act.Deriv(dl.out.Values[bi*dl.Units+u])
			if dpre == 0 {
				continue
			}
			if dl.Bias {
				dl.Bs.Grad[u] += dpre
			}
			for i, iv := range irow {
				dl.Wts.Grad[i*dl.Units+u] += dpre * iv
				drow[i] += dpre * dl.Wts.Values[i*dl.Units+u]
			}
		}
	}
	return []*etensor.Float32{din}, nil
}

// applyWtInitSpec overrides weight-init params from a spec map with
// "dist" ("uniform" or "gaussian"), "mean" and "var" entries.
func applyWtInitSpec(rp *erand.RndParams, spec components.Spec) {
	if spec == nil {
		return
	}
	switch spec.Str("dist", "") {
	case "uniform":
		rp.Dist = erand.Uniform
	case "gaussian", "normal":
		rp.Dist = erand.Gaussian
	}
	rp.Mean = float64(spec.Float("mean", float32(rp.Mean)))
	rp.Var = float64(spec.Float("var", float32(rp.Var)))
}
