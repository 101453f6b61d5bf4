// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tsr(shape []int, vals ...float32) *etensor.Float32 {
	out := etensor.NewFloat32(shape, nil, nil)
	copy(out.Values, vals)
	return out
}

func TestDenseForwardBackward(t *testing.T) {
	dl, err := NewLayer("dense", "fc", components.Spec{"units": 2, "activation": "linear"})
	require.NoError(t, err)
	require.NoError(t, dl.Build([][]int{{3}}))

	wts := dl.Weights()
	require.Len(t, wts, 2)
	// W laid out [in, units]
	copy(wts[0].Values, []float32{1, 0, 0, 1, 1, 1})
	copy(wts[1].Values, []float32{0.5, -0.5})

	in := tsr([]int{1, 3}, 1, 2, 3)
	out, err := dl.Forward([]*etensor.Float32{in})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out.Shp)
	// out[0] = 1*1 + 2*0 + 3*1 + 0.5 = 4.5
	// out[1] = 1*0 + 2*1 + 3*1 - 0.5 = 4.5
	assert.InDelta(t, 4.5, out.Values[0], 1e-6)
	assert.InDelta(t, 4.5, out.Values[1], 1e-6)

	din, err := dl.Backward(tsr([]int{1, 2}, 1, 2))
	require.NoError(t, err)
	require.Len(t, din, 1)
	// din = g . W^T
	assert.InDelta(t, 1, din[0].Values[0], 1e-6)
	assert.InDelta(t, 2, din[0].Values[1], 1e-6)
	assert.InDelta(t, 3, din[0].Values[2], 1e-6)
	// dW[i][u] = in[i] * g[u]
	assert.InDelta(t, 1, wts[0].Grad[0], 1e-6)
	assert.InDelta(t, 2, wts[0].Grad[1], 1e-6)
	assert.InDelta(t, 6, wts[0].Grad[5], 1e-6)
	// dB = g
	assert.InDelta(t, 1, wts[1].Grad[0], 1e-6)
	assert.InDelta(t, 2, wts[1].Grad[1], 1e-6)
}

func TestDenseReLU(t *testing.T) {
	dl, err := NewLayer("dense", "fc", components.Spec{"units": 1, "activation": "relu", "use_bias": false})
	require.NoError(t, err)
	require.NoError(t, dl.Build([][]int{{2}}))
	copy(dl.Weights()[0].Values, []float32{1, -1})

	out, err := dl.Forward([]*etensor.Float32{tsr([]int{1, 2}, 1, 3)})
	require.NoError(t, err)
	assert.Equal(t, float32(0), out.Values[0]) // 1-3 clipped at 0

	// relu gradient is zero below threshold
	din, err := dl.Backward(tsr([]int{1, 1}, 1))
	require.NoError(t, err)
	assert.Equal(t, float32(0), din[0].Values[0])
}

func TestDenseRejectsNonFlatInput(t *testing.T) {
	dl, err := NewLayer("dense", "fc", components.Spec{"units": 2})
	require.NoError(t, err)
	assert.Error(t, dl.Build([][]int{{4, 4, 1}}))
}

func TestConv2DShapes(t *testing.T) {
	cl, err := NewLayer("conv2d", "conv", components.Spec{
		"filters": 2, "kernel_size": 2, "strides": 1, "padding": "valid",
	})
	require.NoError(t, err)
	require.NoError(t, cl.Build([][]int{{4, 4, 1}}))
	assert.Equal(t, []int{3, 3, 2}, cl.OutShape())

	same, err := NewLayer("conv2d", "conv2", components.Spec{
		"filters": 3, "kernel_size": 3, "strides": 1, "padding": "same",
	})
	require.NoError(t, err)
	require.NoError(t, same.Build([][]int{{4, 4, 1}}))
	assert.Equal(t, []int{4, 4, 3}, same.OutShape())
}

func TestConv2DForwardIdentityKernel(t *testing.T) {
	cl, err := NewLayer("conv2d", "conv", components.Spec{
		"filters": 1, "kernel_size": 1, "strides": 1, "use_bias": false,
	})
	require.NoError(t, err)
	require.NoError(t, cl.Build([][]int{{2, 2, 1}}))
	copy(cl.Weights()[0].Values, []float32{2}) // 1x1 kernel doubling

	out, err := cl.Forward([]*etensor.Float32{tsr([]int{1, 2, 2, 1}, 1, 2, 3, 4)})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, out.Values)
}

func TestFlatten(t *testing.T) {
	fl, err := NewLayer("flatten", "flat", components.Spec{})
	require.NoError(t, err)
	require.NoError(t, fl.Build([][]int{{2, 2}}))
	assert.Equal(t, []int{4}, fl.OutShape())

	out, err := fl.Forward([]*etensor.Float32{tsr([]int{1, 2, 2}, 1, 2, 3, 4)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, out.Shp)
	assert.Equal(t, []float32{1, 2, 3, 4}, out.Values)
}

func TestConcat(t *testing.T) {
	cc, err := NewLayer("concat", "merge", components.Spec{})
	require.NoError(t, err)
	require.NoError(t, cc.Build([][]int{{2}, {3}}))
	assert.Equal(t, []int{5}, cc.OutShape())

	out, err := cc.Forward([]*etensor.Float32{
		tsr([]int{1, 2}, 1, 2),
		tsr([]int{1, 3}, 3, 4, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, out.Values)

	din, err := cc.Backward(tsr([]int{1, 5}, 10, 20, 30, 40, 50))
	require.NoError(t, err)
	require.Len(t, din, 2)
	assert.Equal(t, []float32{10, 20}, din[0].Values)
	assert.Equal(t, []float32{30, 40, 50}, din[1].Values)
}

func TestDueling(t *testing.T) {
	du, err := NewLayer("dueling", "duel", components.Spec{})
	require.NoError(t, err)
	require.NoError(t, du.Build([][]int{{3}}))
	assert.Equal(t, []int{2}, du.OutShape())

	// V=1, A=[2, 4], mean(A)=3 -> Q = [0, 2]
	out, err := du.Forward([]*etensor.Float32{tsr([]int{1, 3}, 1, 2, 4)})
	require.NoError(t, err)
	assert.InDelta(t, 0, out.Values[0], 1e-6)
	assert.InDelta(t, 2, out.Values[1], 1e-6)

	din, err := du.Backward(tsr([]int{1, 2}, 1, 0))
	require.NoError(t, err)
	// dV = sum(g) = 1; dA[j] = g[j] - sum(g)/n
	assert.InDelta(t, 1, din[0].Values[0], 1e-6)
	assert.InDelta(t, 0.5, din[0].Values[1], 1e-6)
	assert.InDelta(t, -0.5, din[0].Values[2], 1e-6)
}

func TestNormalize(t *testing.T) {
	nm, err := NewLayer("normalize", "norm", components.Spec{"low": 0, "high": 10})
	require.NoError(t, err)
	require.NoError(t, nm.Build([][]int{{2}}))

	out, err := nm.Forward([]*etensor.Float32{tsr([]int{1, 2}, 5, 10)})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Values[0], 1e-6)
	assert.InDelta(t, 1.0, out.Values[1], 1e-6)
}

func TestNonLinearityRejectsLinear(t *testing.T) {
	_, err := NewLayer("nonlinearity", "act", components.Spec{"activation": "linear"})
	assert.Error(t, err)
}

func TestSoftmax(t *testing.T) {
	sm, err := NewLayer("nonlinearity", "sm", components.Spec{"activation": "softmax"})
	require.NoError(t, err)
	require.NoError(t, sm.Build([][]int{{3}}))

	ln2 := float32(0.6931472)
	out, err := sm.Forward([]*etensor.Float32{tsr([]int{2, 3},
		ln2, 0, 0,
		0, 0, 0)})
	require.NoError(t, err)
	exp := []float32{0.5, 0.25, 0.25, 1.0 / 3, 1.0 / 3, 1.0 / 3}
	for i, e := range exp {
		assert.InDelta(t, e, out.Values[i], 1e-4)
	}

	// din_i = y_i * (g_i - sum_j g_j y_j); row 1 has dot = 0.5
	din, err := sm.Backward(tsr([]int{2, 3}, 1, 0, 0, 0, 0, 0))
	require.NoError(t, err)
	dexp := []float32{0.25, -0.125, -0.125, 0, 0, 0}
	for i, e := range dexp {
		assert.InDelta(t, e, din[0].Values[i], 1e-4)
	}
}

func TestDenseRejectsSoftmax(t *testing.T) {
	_, err := NewLayer("dense", "fc", components.Spec{"units": 2, "activation": "softmax"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "softmax")
}

func TestActFuncString(t *testing.T) {
	af, err := ActFuncFromString("tanh")
	require.NoError(t, err)
	assert.Equal(t, Tanh, af)
	af, err = ActFuncFromString("softmax")
	require.NoError(t, err)
	assert.Equal(t, Softmax, af)
	_, err = ActFuncFromString("softplus")
	assert.Error(t, err)
}

func TestRegistryUnknownType(t *testing.T) {
	_, err := NewLayer("warp", "w", components.Spec{})
	assert.Error(t, err)
}
