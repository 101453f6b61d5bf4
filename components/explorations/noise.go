// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explorations

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/pascalwhoop/yarl/components"
)

// Noise generates an additive perturbation for continuous actions.
// Stateful processes (Ornstein-Uhlenbeck) evolve across calls and are
// reset at episode boundaries.
type Noise interface {
	components.Component

	// Sample returns the next noise value.
	Sample() float32

	// Reset restores the process to its initial state.
	Reset()
}

// ConstantNoise always adds the same offset.
type ConstantNoise struct {
	components.Base

	Val float32
}

// NewConstantNoise returns a constant noise source.
func NewConstantNoise(scope string, val float32) *ConstantNoise {
	cn := &ConstantNoise{Val: val}
	cn.SetName(scope)
	return cn
}

func newConstantNoise(scope string, spec components.Spec) (components.Component, error) {
	return NewConstantNoise(scope, spec.Float("value", 0)), nil
}

func (cn *ConstantNoise) TypeName() string { return "ConstantNoise" }
func (cn *ConstantNoise) Sample() float32 { return cn.Val }
func (cn *ConstantNoise) Reset() {}

// GaussianNoise draws i.i.d. normal perturbations.
type GaussianNoise struct {
	components.Base

	Mean   float32
	Stddev float32
}

// NewGaussianNoise returns a gaussian noise source.
func NewGaussianNoise(scope string, mean, stddev float32) *GaussianNoise {
	gn := &GaussianNoise{Mean: mean, Stddev: stddev}
	gn.SetName(scope)
	return gn
}

func newGaussianNoise(scope string, spec components.Spec) (components.Component, error) {
	return NewGaussianNoise(scope, spec.Float("mean", 0), spec.Float("stddev", 1)), nil
}

func (gn *GaussianNoise) TypeName() string { return "GaussianNoise" }

func (gn *GaussianNoise) Sample() float32 {
	rp := erand.RndParams{Dist: erand.Gaussian, Mean: float64(gn.Mean), Var: float64(gn.Stddev)}
	return float32(rp.Gen(-1))
}

func (gn *GaussianNoise) Reset() {}

// OUNoise is a mean-reverting Ornstein-Uhlenbeck process:
// x += theta * (mu - x) + sigma * N(0, 1).
type OUNoise struct {
	components.Base

	Mu    float32
	Theta float32
	Sigma float32

	state float32
}

// NewOUNoise returns an Ornstein-Uhlenbeck noise process.
func NewOUNoise(scope string, mu, theta, sigma float32) *OUNoise {
	ou := &OUNoise{Mu: mu, Theta: theta, Sigma: sigma, state: mu}
	ou.SetName(scope)
	return ou
}

func newOUNoise(scope string, spec components.Spec) (components.Component, error) {
	return NewOUNoise(scope, spec.Float("mu", 0), spec.Float("theta", 0.15), spec.Float("sigma", 0.3)), nil
}

func (ou *OUNoise) TypeName() string { return "OrnsteinUhlenbeckNoise" }

func (ou *OUNoise) Sample() float32 {
	rp := erand.RndParams{Dist: erand.Gaussian, Mean: 0, Var: 1}
	ou.state += ou.Theta*(ou.Mu-ou.state) + ou.Sigma*float32(rp.Gen(-1))
	return ou.state
}

func (ou *OUNoise) Reset() { ou.state = ou.Mu }

// NoiseRegistry holds the built-in noise process types.
var NoiseRegistry = components.NewRegistry()

func init() {
	NoiseRegistry.Register(newConstantNoise, "constant-noise")
	NoiseRegistry.Register(newGaussianNoise, "gaussian-noise")
	NoiseRegistry.Register(newOUNoise, "ornstein-uhlenbeck-noise", "ou-noise")
}

// NewNoise constructs a registered noise process type.
func NewNoise(typeName, scope string, spec components.Spec) (Noise, error) {
	c, err := NoiseRegistry.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	ns, ok := c.(Noise)
	if !ok {
		return nil, fmt.Errorf("component type %q is not a noise process", typeName)
	}
	return ns, nil
}
