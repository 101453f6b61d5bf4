// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"
	"strings"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"

	"github.com/pascalwhoop/yarl/components"
)

// Conv2D is a 2D convolution over [H, W, C] inputs (channels last).
type Conv2D struct {
	Base

	// number of output filters
	Filters int

	// kernel size [kh, kw]
	Kernel [2]int

	// strides [sh, sw]
	Strides [2]int

	// true: "same" zero padding, false: "valid" (no padding)
	SamePad bool

	Act ActFunc

	Bias bool

	WtInit erand.RndParams

	// filter weights, shape [kh, kw, in-channels, filters]
	Wts *components.Weights

	// bias per filter, shape [filters]
	Bs *components.Weights

	// padding applied at top / left for "same" mode
	padT, padL int

	in  *etensor.Float32
	out *etensor.Float32
}

func newConv2D(scope string, spec components.Spec) (components.Component, error) {
	filters := spec.Int("filters", 0)
	if filters <= 0 {
		return nil, fmt.Errorf("conv2d %s: \"filters\" must be a positive integer", scope)
	}
	kernel, err := pairOf(spec.Ints("kernel_size"), 3)
	if err != nil {
		return nil, fmt.Errorf("conv2d %s: kernel_size: %w", scope, err)
	}
	strides, err := pairOf(spec.Ints("strides"), 1)
	if err != nil {
		return nil, fmt.Errorf("conv2d %s: strides: %w", scope, err)
	}
	act, err := ActFuncFromString(spec.Str("activation", ""))
	if err != nil {
		return nil, fmt.Errorf("conv2d %s: %w", scope, err)
	}
	if act == Softmax {
		return nil, fmt.Errorf("conv2d %s: softmax is row-wise -- follow with a nonlinearity layer", scope)
	}
	pad := strings.ToLower(spec.Str("padding", "valid"))
	if pad != "valid" && pad != "same" {
		return nil, fmt.Errorf("conv2d %s: padding must be \"valid\" or \"same\", got %q", scope, pad)
	}
	cl := &Conv2D{
		Filters: filters,
		Kernel:  kernel,
		Strides: strides,
		SamePad: pad == "same",
		Act:     act,
		Bias:    spec.Bool("use_bias", true),
	}
	cl.SetName(scope)
	cl.Defaults()
	applyWtInitSpec(&cl.WtInit, spec.Sub("weights_spec"))
	return cl, nil
}

func pairOf(vals []int, def int) ([2]int, error) {
	switch len(vals) {
	case 0:
		return [2]int{def, def}, nil
	case 1:
		return [2]int{vals[0], vals[0]}, nil
	case 2:
		return [2]int{vals[0], vals[1]}, nil
	}
	return [2]int{}, fmt.Errorf("expected a number or a pair, got %v", vals)
}

func (cl *Conv2D) TypeName() string { return "Conv2D" }

func (cl *Conv2D) Defaults() {
	cl.WtInit.Dist = erand.Uniform
	cl.WtInit.Mean = 0
	cl.WtInit.Var = 0.1
}

func (cl *Conv2D) Build(inShapes [][]int) error {
	in, err := cl.oneInput(inShapes)
	if err != nil {
		return err
	}
	if len(in) != 3 {
		return fmt.Errorf("conv2d %s: requires an [H, W, C] input, got shape %v", cl.Name(), in)
	}
	h, w, c := in[0], in[1], in[2]
	kh, kw := cl.Kernel[0], cl.Kernel[1]
	sh, sw := cl.Strides[0], cl.Strides[1]
	var oh, ow int
	if cl.SamePad {
		oh = (h + sh - 1) / sh
		ow = (w + sw - 1) / sw
		cl.padT = maxInt((oh-1)*sh+kh-h, 0) / 2
		cl.padL = maxInt((ow-1)*sw+kw-w, 0) / 2
	} else {
		if kh > h || kw > w {
			return fmt.Errorf("conv2d %s: kernel %v larger than input %v with valid padding", cl.Name(), cl.Kernel, in)
		}
		oh = (h-kh)/sh + 1
		ow = (w-kw)/sw + 1
	}
	cl.OutShp = []int{oh, ow, cl.Filters}
	cl.Wts = components.NewWeights("Wts", []int{kh, kw, c, cl.Filters})
	for i := range cl.Wts.Values {
		cl.Wts.Values[i] = float32(cl.WtInit.Gen(-1))
	}
	cl.Bs = components.NewWeights("Bias", []int{cl.Filters})
	return nil
}

func (cl *Conv2D) Weights() []*components.Weights {
	if cl.Bias {
		return []*components.Weights{cl.Wts, cl.Bs}
	}
	return []*components.Weights{cl.Wts}
}

// weight index for [ki, kj, c, f]
func (cl *Conv2D) wi(ki, kj, c, f int) int {
	nc := cl.InShapes[0][2]
	return ((ki*cl.Kernel[1]+kj)*nc+c)*cl.Filters + f
}

func (cl *Conv2D) Forward(inputs []*etensor.Float32) (*etensor.Float32, error) {
	in := inputs[0]
	b, err := batchOf(in, cl.InShapes[0], cl.Name())
	if err != nil {
		return nil, err
	}
	h, w, c := cl.InShapes[0][0], cl.InShapes[0][1], cl.InShapes[0][2]
	oh, ow := cl.OutShp[0], cl.OutShp[1]
	out := batchTensor(b, cl.OutShp)
	insz := h * w * c
	outsz := oh * ow * cl.Filters
	for bi := 0; bi < b; bi++ {
		iv := in.Values[bi*insz : (bi+1)*insz]
		ov := out.Values[bi*outsz : (bi+1)*outsz]
		for oi := 0; oi < oh; oi++ {
			for oj := 0; oj < ow; oj++ {
				for f := 0; f < cl.Filters; f++ {
					sum := float32(0)
					for ki := 0; ki < cl.Kernel[0]; ki++ {
						ii := oi*cl.Strides[0] - cl.padT + ki
						if ii < 0 || ii >= h {
							continue
						}
						for kj := 0; kj < cl.Kernel[1]; kj++ {
							ij := oj*cl.Strides[1] - cl.padL + kj
							if ij < 0 || ij >= w {
								continue
							}
							for ci := 0; ci < c; ci++ {
								sum += iv[(ii*w+ij)*c+ci] * cl.Wts.Values[cl.wi(ki, kj, ci, f)]
							}
						}
					}
					if cl.Bias {
						sum += cl.Bs.Values[f]
					}
					ov[(oi*ow+oj)*cl.Filters+f] = cl.Act.Eval(sum)
				}
			}
		}
	}
	cl.in = in
	cl.out = out
	return out, nil
}

func (cl *Conv2D) Backward(grad *etensor.Float32) ([]*etensor.Float32, error) {
	if cl.in == nil {
		return nil, fmt.Errorf("conv2d %s: Backward called before Forward", cl.Name())
	}
	b := cl.in.Dim(0)
	h, w, c := cl.InShapes[0][0], cl.InShapes[0][1], cl.InShapes[0][2]
	oh, ow := cl.OutShp[0], cl.OutShp[1]
	insz := h * w * c
	outsz := oh * ow * cl.Filters
	if grad.Len() != b*outsz {
		return nil, fmt.Errorf("conv2d %s: gradient size %d does not match output %d", cl.Name(), grad.Len(), b*outsz)
	}
	din := batchTensor(b, cl.InShapes[0])
	for bi := 0; bi < b; bi++ {
		iv := cl.in.Values[bi*insz : (bi+1)*insz]
		dv := din.Values[bi*insz : (bi+1)*insz]
		for oi := 0; oi < oh; oi++ {
			for oj := 0; oj < ow; oj++ {
				for f := 0; f < cl.Filters; f++ {
					oidx := bi*outsz + (oi*ow+oj)*cl.Filters + f
					dpre := grad.Values[oidx] * cl.Act.Deriv(cl.out.Values[oidx])
					if dpre == 0 {
						continue
					}
					if cl.Bias {
						cl.Bs.Grad[f] += dpre
					}
					for ki := 0; ki < cl.Kernel[0]; ki++ {
						ii := oi*cl.Strides[0] - cl.padT + ki
						if ii < 0 || ii >= h {
							continue
						}
						for kj := 0; kj < cl.Kernel[1]; kj++ {
							ij := oj*cl.Strides[1] - cl.padL + kj
							if ij < 0 || ij >= w {
								continue
							}
							for ci := 0; ci < c; ci++ {
								wi := cl.wi(ki, kj, ci, f)
								cl.Wts.Grad[wi] += dpre * iv[(ii*w+ij)*c+ci]
								dv[(ii*w+ij)*c+ci] += dpre * cl.Wts.Values[wi]
							}
						}
					}
				}
			}
		}
	}
	return []*etensor.Float32{din}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
