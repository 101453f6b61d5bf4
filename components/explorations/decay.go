// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explorations

import (
	"fmt"
	"math"

	"github.com/pascalwhoop/yarl/components"
)

// DecaySchedule yields a time-dependent scalar, typically the epsilon
// of an epsilon-greedy policy.  Before StartTimestep it holds FromValue,
// after StartTimestep+NumTimesteps it holds ToValue, and in between the
// concrete schedule interpolates.
type DecaySchedule interface {
	components.Component

	// Value returns the schedule value at the given global timestep.
	Value(timeStep int) float32
}

// DecayBase holds the fields shared by all decay schedules.
type DecayBase struct {
	components.Base

	FromValue     float32
	ToValue       float32
	StartTimestep int
	NumTimesteps  int
}

func (db *DecayBase) setSpec(spec components.Spec) {
	db.FromValue = spec.Float("from", 1)
	db.ToValue = spec.Float("to", 0.1)
	db.StartTimestep = spec.Int("start_timestep", 0)
	db.NumTimesteps = spec.Int("num_timesteps", 10000)
}

// frac returns the fraction of the decay window covered at timeStep,
// clipped to [0, 1], plus whether we are before or after the window.
func (db *DecayBase) frac(timeStep int) float32 {
	if timeStep <= db.StartTimestep {
		return 0
	}
	if timeStep >= db.StartTimestep+db.NumTimesteps {
		return 1
	}
	return float32(timeStep-db.StartTimestep) / float32(db.NumTimesteps)
}

// Constant always returns its configured value.
type Constant struct {
	DecayBase
}

// NewConstant returns a constant schedule fixed at val.
func NewConstant(scope string, val float32) *Constant {
	cd := &Constant{}
	cd.SetName(scope)
	cd.FromValue = val
	cd.ToValue = val
	return cd
}

func newConstant(scope string, spec components.Spec) (components.Component, error) {
	return NewConstant(scope, spec.Float("constant_value", spec.Float("from", 1))), nil
}

func (cd *Constant) TypeName() string { return "Constant" }
func (cd *Constant) Value(timeStep int) float32 { return cd.FromValue }

// LinearDecay interpolates linearly from FromValue to ToValue over the
// decay window.
type LinearDecay struct {
	DecayBase
}

// NewLinearDecay returns a linear schedule from from to to over n steps
// starting at start.
func NewLinearDecay(scope string, from, to float32, start, n int) *LinearDecay {
	ld := &LinearDecay{}
	ld.SetName(scope)
	ld.FromValue = from
	ld.ToValue = to
	ld.StartTimestep = start
	ld.NumTimesteps = n
	return ld
}

func newLinearDecay(scope string, spec components.Spec) (components.Component, error) {
	ld := &LinearDecay{}
	ld.SetName(scope)
	ld.setSpec(spec)
	return ld, nil
}

func (ld *LinearDecay) TypeName() string { return "LinearDecay" }

func (ld *LinearDecay) Value(timeStep int) float32 {
	f := ld.frac(timeStep)
	return ld.FromValue + f*(ld.ToValue-ld.FromValue)
}

// ExponentialDecay decays geometrically from FromValue to ToValue over
// the decay window: value = from * (to/from)^frac.
type ExponentialDecay struct {
	DecayBase
}

// NewExponentialDecay returns an exponential schedule from from to to
// over n steps starting at start.
func NewExponentialDecay(scope string, from, to float32, start, n int) *ExponentialDecay {
	ed := &ExponentialDecay{}
	ed.SetName(scope)
	ed.FromValue = from
	ed.ToValue = to
	ed.StartTimestep = start
	ed.NumTimesteps = n
	return ed
}

func newExponentialDecay(scope string, spec components.Spec) (components.Component, error) {
	ed := &ExponentialDecay{}
	ed.SetName(scope)
	ed.setSpec(spec)
	return ed, nil
}

func (ed *ExponentialDecay) TypeName() string { return "ExponentialDecay" }

func (ed *ExponentialDecay) Value(timeStep int) float32 {
	f := ed.frac(timeStep)
	return ed.FromValue * float32(math.Pow(float64(ed.ToValue/ed.FromValue), float64(f)))
}

// DecayRegistry holds the built-in decay schedule types.
var DecayRegistry = components.NewRegistry()

func init() {
	DecayRegistry.Register(newConstant, "constant", "constant-decay")
	DecayRegistry.Register(newLinearDecay, "linear-decay", "linear")
	DecayRegistry.Register(newExponentialDecay, "exponential-decay", "exponential")
}

// NewDecaySchedule constructs a registered decay schedule type.
func NewDecaySchedule(typeName, scope string, spec components.Spec) (DecaySchedule, error) {
	c, err := DecayRegistry.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	ds, ok := c.(DecaySchedule)
	if !ok {
		return nil, fmt.Errorf("component type %q is not a decay schedule", typeName)
	}
	return ds, nil
}
