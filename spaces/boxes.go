// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spaces

import (
	"fmt"
	"math/rand"

	"github.com/emer/etable/etensor"
)

// FloatBox is a box in R^n with uniform scalar bounds over all elements.
// An empty shape denotes a scalar.
type FloatBox struct {
	Low  float32
	High float32
	Shp  []int
}

// NewFloatBox returns a FloatBox with the given bounds and shape.
func NewFloatBox(low, high float32, shape ...int) *FloatBox {
	return &FloatBox{Low: low, High: high, Shp: shape}
}

func (fb *FloatBox) Shape() []int { return tensorShape(fb.Shp) }
func (fb *FloatBox) Rank() int { return len(fb.Shape()) }
func (fb *FloatBox) FlatDim() int { return shapeLen(fb.Shp) }

func (fb *FloatBox) Zeros() *etensor.Float32 {
	return etensor.NewFloat32(fb.Shape(), nil, nil)
}

func (fb *FloatBox) Sample(rnd *rand.Rand) *etensor.Float32 {
	tsr := fb.Zeros()
	for i := range tsr.Values {
		tsr.Values[i] = fb.Low + rnd.Float32()*(fb.High-fb.Low)
	}
	return tsr
}

func (fb *FloatBox) SampleBatch(rnd *rand.Rand, n int) *etensor.Float32 {
	tsr := etensor.NewFloat32(batchShape(fb.Shp, n), nil, nil)
	for i := range tsr.Values {
		tsr.Values[i] = fb.Low + rnd.Float32()*(fb.High-fb.Low)
	}
	return tsr
}

func (fb *FloatBox) Contains(tsr *etensor.Float32) bool {
	if tsr.Len() != fb.FlatDim() {
		return false
	}
	for _, v := range tsr.Values {
		if v < fb.Low || v > fb.High {
			return false
		}
	}
	return true
}

func (fb *FloatBox) Flatten(scope string) []ScopedSpace {
	return []ScopedSpace{{Scope: scope, Space: fb}}
}

func (fb *FloatBox) String() string {
	return fmt.Sprintf("FloatBox(%v; [%g, %g])", fb.Shp, fb.Low, fb.High)
}

// IntBox is a bounded integer box: elements are in [Low, High), so with
// Low == 0 it doubles as a discrete space with High categories.
// Samples are stored as float32 like all other tensors.
type IntBox struct {
	Low  int
	High int
	Shp  []int
}

// NewIntBox returns an IntBox with elements in [low, high).
func NewIntBox(low, high int, shape ...int) *IntBox {
	return &IntBox{Low: low, High: high, Shp: shape}
}

// NewDiscrete returns a scalar IntBox with n categories [0, n).
func NewDiscrete(n int) *IntBox {
	return &IntBox{Low: 0, High: n}
}

// NumCategories returns the number of distinct values per element.
func (ib *IntBox) NumCategories() int { return ib.High - ib.Low }

func (ib *IntBox) Shape() []int { return tensorShape(ib.Shp) }
func (ib *IntBox) Rank() int { return len(ib.Shape()) }
func (ib *IntBox) FlatDim() int { return shapeLen(ib.Shp) }

func (ib *IntBox) Zeros() *etensor.Float32 {
	return etensor.NewFloat32(ib.Shape(), nil, nil)
}

func (ib *IntBox) Sample(rnd *rand.Rand) *etensor.Float32 {
	tsr := ib.Zeros()
	for i := range tsr.Values {
		tsr.Values[i] = float32(ib.Low + rnd.Intn(ib.NumCategories()))
	}
	return tsr
}

func (ib *IntBox) SampleBatch(rnd *rand.Rand, n int) *etensor.Float32 {
	tsr := etensor.NewFloat32(batchShape(ib.Shp, n), nil, nil)
	for i := range tsr.Values {
		tsr.Values[i] = float32(ib.Low + rnd.Intn(ib.NumCategories()))
	}
	return tsr
}

func (ib *IntBox) Contains(tsr *etensor.Float32) bool {
	if tsr.Len() != ib.FlatDim() {
		return false
	}
	for _, v := range tsr.Values {
		iv := int(v)
		if float32(iv) != v || iv < ib.Low || iv >= ib.High {
			return false
		}
	}
	return true
}

func (ib *IntBox) Flatten(scope string) []ScopedSpace {
	return []ScopedSpace{{Scope: scope, Space: ib}}
}

func (ib *IntBox) String() string {
	return fmt.Sprintf("IntBox(%v; [%d, %d))", ib.Shp, ib.Low, ib.High)
}

// BoolBox is a box of booleans, stored as float32 0 / 1 values.
type BoolBox struct {
	Shp []int
}

func NewBoolBox(shape ...int) *BoolBox {
	return &BoolBox{Shp: shape}
}

func (bb *BoolBox) Shape() []int { return tensorShape(bb.Shp) }
func (bb *BoolBox) Rank() int { return len(bb.Shape()) }
func (bb *BoolBox) FlatDim() int { return shapeLen(bb.Shp) }

func (bb *BoolBox) Zeros() *etensor.Float32 {
	return etensor.NewFloat32(bb.Shape(), nil, nil)
}

func (bb *BoolBox) Sample(rnd *rand.Rand) *etensor.Float32 {
	tsr := bb.Zeros()
	for i := range tsr.Values {
		tsr.Values[i] = float32(rnd.Intn(2))
	}
	return tsr
}

func (bb *BoolBox) SampleBatch(rnd *rand.Rand, n int) *etensor.Float32 {
	tsr := etensor.NewFloat32(batchShape(bb.Shp, n), nil, nil)
	for i := range tsr.Values {
		tsr.Values[i] = float32(rnd.Intn(2))
	}
	return tsr
}

func (bb *BoolBox) Contains(tsr *etensor.Float32) bool {
	if tsr.Len() != bb.FlatDim() {
		return false
	}
	for _, v := range tsr.Values {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func (bb *BoolBox) Flatten(scope string) []ScopedSpace {
	return []ScopedSpace{{Scope: scope, Space: bb}}
}

func (bb *BoolBox) String() string {
	return fmt.Sprintf("BoolBox(%v)", bb.Shp)
}
