// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/pascalwhoop/yarl/components"
)

// Dueling computes dueling-Q action values from a flat input of
// [1 + numActions] units: the first unit is the state value V, the rest
// are advantages A, and Q(a) = V + A(a) - mean(A).
type Dueling struct {
	Base
}

func newDueling(scope string, spec components.Spec) (components.Component, error) {
	du := &Dueling{}
	du.SetName(scope)
	return du, nil
}

func (du *Dueling) TypeName() string { return "Dueling" }

func (du *Dueling) Build(inShapes [][]int) error {
	in, err := du.oneInput(inShapes)
	if err != nil {
		return err
	}
	if len(in) != 1 || in[0] < 2 {
		return fmt.Errorf("dueling %s: requires a flat input of [1 + numActions] units, got %v", du.Name(), in)
	}
	du.OutShp = []int{in[0] - 1}
	return nil
}

func (du *Dueling) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, du.InShapes[0], du.Name())
	if err != nil {
		return nil, err
	}
	na := du.OutShp[0]
	nin := na + 1
	out := batchTensor(b, du.OutShp)
	for bi := 0; bi < b; bi++ {
		row := in.Values[bi*nin : (bi+1)*nin]
		v := row[0]
		adv := row[1:]
		mean := float32(0)
		for _, a := range adv {
			mean += a
		}
		mean /= float32(na)
		for ai, a := range adv {
			out.Values[bi*na+ai] = v + a - mean
		}
	}
	return out, nil
}

func (du *Dueling) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if len(du.InShapes) == 0 {
		return nil, fmt.Errorf("dueling %s: Backward called before Build", du.Name())
	}
	b := grad.Dim(0)
	na := du.OutShp[0]
	nin := na + 1
	din := batchTensor(b, du.InShapes[0])
	for bi := 0; bi < b; bi++ {
		grow := grad.Values[bi*na : (bi+1)*na]
		sum := float32(0)
		for _, g := range grow {
			sum += g
		}
		drow := din.Values[bi*nin : (bi+1)*nin]
		drow[0] = sum
		for ai, g := range grow {
			drow[1+ai] = g - sum/float32(na)
		}
	}
	return []*etensor.Float32{din}, nil
}
