// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/pascalwhoop/yarl/components"
)

// Flatten reshapes any input to a flat per-sample vector.  Values are
// already contiguous row-major, so only the shape changes.
type Flatten struct {
	Base
}

func newFlatten(scope string, spec components.Spec) (components.Component, error) {
	fl := &Flatten{}
	fl.SetName(scope)
	return fl, nil
}

func (fl *Flatten) TypeName() string { return "Flatten" }

func (fl *Flatten) Build(inShapes [][]int) error {
	in, err := fl.oneInput(inShapes)
	if err != nil {
		return err
	}
	fl.OutShp = []int{shapeLen(in)}
	return nil
}

func (fl *Flatten) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, fl.InShapes[0], fl.Name())
	if err != nil {
		return nil, err
	}
	out := batchTensor(b, fl.OutShp)
	copy(out.Values, in.Values)
	return out, nil
}

func (fl *Flatten) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if len(fl.InShapes) == 0 {
		return nil, fmt.Errorf("flatten %s: Backward called before Build", fl.Name())
	}
	b := grad.Dim(0)
	din := batchTensor(b, fl.InShapes[0])
	copy(din.Values, grad.Values)
	return []*etensor.Float32{din}, nil
}

// Concat concatenates multiple flat inputs along the feature axis.
// Input order is the order of the connections in the network spec.
type Concat struct {
	Base

	// feature dim of each input, set during Build
	dims []int
}

func newConcat(scope string, spec components.Spec) (components.Component, error) {
	cc := &Concat{}
	cc.SetName(scope)
	return cc, nil
}

func (cc *Concat) TypeName() string { return "Concat" }

func (cc *Concat) NumInputs() int { return -1 }

func (cc *Concat) Build(inShapes [][]int) error {
	if len(inShapes) < 2 {
		return fmt.Errorf("concat %s: requires at least 2 inputs, got %d", cc.Name(), len(inShapes))
	}
	total := 0
	cc.dims = make([]int, len(inShapes))
	for i, shp := range inShapes {
		if len(shp) != 1 {
			return fmt.Errorf("concat %s: input %d must be flat, got shape %v -- insert a flatten layer", cc.Name(), i, shp)
		}
		cc.dims[i] = shp[0]
		total += shp[0]
	}
	cc.InShapes = inShapes
	cc.OutShp = []int{total}
	return nil
}

func (cc *Concat) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	if len(inputs) != len(cc.dims) {
		return nil, fmt.Errorf("concat %s: expected %d inputs, got %d", cc.Name(), len(cc.dims), len(inputs))
	}
	b, err := batchOf(inputs[0], cc.InShapes[0], cc.Name())
	if err != nil {
		return nil, err
	}
	total := cc.OutShp[0]
	out := batchTensor(b, cc.OutShp)
	for bi := 0; bi < b; bi++ {
		off := 0
		for i, in := range inputs {
			if in.Dim(0) != b {
				return nil, fmt.Errorf("concat %s: input %d batch %d != %d", cc.Name(), i, in.Dim(0), b)
			}
			d := cc.dims[i]
			copy(out.Values[bi*total+off:bi*total+off+d], in.Values[bi*d:(bi+1)*d])
			off += d
		}
	}
	return out, nil
}

func (cc *Concat) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if cc.dims == nil {
		return nil, fmt.Errorf("concat %s: Backward called before Build", cc.Name())
	}
	b := grad.Dim(0)
	total := cc.OutShp[0]
	grads := make([]*etensor.Float32, len(cc.dims))
	off := 0
	for i, d := range cc.dims {
		gi := batchTensor(b, []int{d})
		for bi := 0; bi < b; bi++ {
			copy(gi.Values[bi*d:(bi+1)*d], grad.Values[bi*total+off:bi*total+off+d])
		}
		grads[i] = gi
		off += d
	}
	return grads, nil
}
