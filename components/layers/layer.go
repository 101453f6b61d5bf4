// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"

	"github.com/pascalwhoop/yarl/components"
)

// Layer is a component that transforms batched tensors and can propagate
// gradients back through itself.
type Layer interface {
	components.Component

	// NumInputs returns the number of input connections this layer
	// accepts; -1 means variadic (e.g. Concat).
	NumInputs() int

	// Build validates the per-sample input shapes, computes the output
	// shape and allocates weights.  Weight initialization draws from the
	// global random source (seed with rand.Seed for reproducibility).
	Build(inShapes [][]int) error

	// OutShape returns the per-sample output shape, valid after Build.
	OutShape() []int

	// Forward computes the batched output.  Inputs are cached for the
	// subsequent Backward call.
	Forward(inputs []*etensor.Float32) (*etensor.Float32, error)

	// Backward takes the gradient of the loss wrt this layer's output,
	// accumulates weight gradients, and returns the gradients wrt each
	// input, in the same order as Forward's inputs.
	Backward(grad *etensor.Float32) ([]*etensor.Float32, error)

	// Weights returns the trainable parameter blocks, empty for
	// parameter-free layers.
	Weights() []*components.Weights
}

// Base is the embeddable base for layers.
type Base struct {
	components.Base

	// per-sample input shapes, set during Build
	InShapes [][]int

	// per-sample output shape, set during Build
	OutShp []int
}

func (lb *Base) NumInputs() int { return 1 }

func (lb *Base) OutShape() []int { return lb.OutShp }

func (lb *Base) Weights() []*components.Weights { return nil }

// oneInput validates the single-input case shared by most layers.
func (lb *Base) oneInput(inShapes [][]int) ([]int, error) {
	if len(inShapes) != 1 {
		return nil, fmt.Errorf("layer %s: expects exactly 1 input, got %d", lb.Name(), len(inShapes))
	}
	lb.InShapes = inShapes
	return inShapes[0], nil
}

//////////////////////////////////////////////////////////////////////////////
//  ActFunc

// ActFunc enumerates the elementwise activation functions.
type ActFunc int32

const (
	Linear ActFunc = iota
	ReLU
	Tanh
	Sigmoid

	// Softmax normalizes over the whole per-sample row rather than
	// elementwise, so it is only valid on a NonLinearity layer.
	Softmax

	ActFuncN
)

var KiT_ActFunc = kit.Enums.AddEnum(ActFuncN, kit.NotBitFlag, nil)

func (af ActFunc) String() string {
	switch af {
	case Linear:
		return "linear"
	case ReLU:
		return "relu"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	case Softmax:
		return "softmax"
	}
	return fmt.Sprintf("ActFunc(%d)", int32(af))
}

// ActFuncFromString parses an activation name; empty means linear.
func ActFuncFromString(nm string) (ActFunc, error) {
	switch strings.ToLower(nm) {
	case "", "linear", "none":
		return Linear, nil
	case "relu":
		return ReLU, nil
	case "tanh":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	case "softmax":
		return Softmax, nil
	}
	return Linear, fmt.Errorf("layers: unknown activation %q", nm)
}

// Eval applies the activation function elementwise.  Softmax is not
// elementwise and is applied by NonLinearity over whole rows instead.
func (af ActFunc) Eval(x float32) float32 {
	switch af {
	case ReLU:
		if x < 0 {
			return 0
		}
		return x
	case Tanh:
		return mat32.Tanh(x)
	case Sigmoid:
		return 1 / (1 + mat32.FastExp(-x))
	}
	return x
}

// Deriv returns the derivative of the activation as a function of its
// output value y (all supported activations allow that form).
func (af ActFunc) Deriv(y float32) float32 {
	switch af {
	case ReLU:
		if y > 0 {
			return 1
		}
		return 0
	case Tanh:
		return 1 - y*y
	case Sigmoid:
		return y * (1 - y)
	}
	return 1
}

//////////////////////////////////////////////////////////////////////////////
//  shape helpers

func shapeLen(shp []int) int {
	n := 1
	for _, d := range shp {
		n *= d
	}
	return n
}

func shapeEq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// batchOf returns the leading batch dimension and validates that the
// remaining dims match the per-sample shape.
func batchOf(tsr *etensor.Float32, shp []int, scope string) (int, error) {
	if tsr.NumDims() < 1 {
		return 0, fmt.Errorf("layer %s: input tensor has no batch rank", scope)
	}
	b := tsr.Dim(0)
	if tsr.Len() != b*shapeLen(shp) {
		return 0, fmt.Errorf("layer %s: input size %d does not match batch %d x shape %v",
			scope, tsr.Len(), b, shp)
	}
	return b, nil
}

func batchTensor(b int, shp []int) *etensor.Float32 {
	return etensor.NewFloat32(append([]int{b}, shp...), nil, nil)
}
