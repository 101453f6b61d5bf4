// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explorations

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/spaces"
)

// Exploration perturbs a batch of greedy actions according to the
// action space: epsilon-greedy for discrete (IntBox) actions, additive
// noise for continuous (FloatBox) ones.  With deterministic=true the
// actions pass through unchanged.
type Exploration struct {
	components.Base

	// Epsilon drives epsilon-greedy for discrete action spaces.
	Epsilon DecaySchedule

	// Noise perturbs continuous action spaces.
	Noise Noise
}

// NewExploration builds an exploration component from a spec.  The
// "epsilon" sub-spec configures the decay schedule (discrete spaces),
// the "noise" sub-spec the noise process (continuous spaces).  Both
// default to sensible training settings when absent.
func NewExploration(scope string, spec components.Spec) (*Exploration, error) {
	ex := &Exploration{}
	ex.SetName(scope)

	epsSpec := spec.Sub("epsilon")
	if epsSpec == nil {
		epsSpec = components.Spec{"type": "linear-decay"}
	}
	eps, err := NewDecaySchedule(epsSpec.Type(), scope+"/epsilon", epsSpec)
	if err != nil {
		return nil, err
	}
	ex.Epsilon = eps

	noiseSpec := spec.Sub("noise")
	if noiseSpec == nil {
		noiseSpec = components.Spec{"type": "gaussian-noise", "stddev": 0.1}
	}
	ns, err := NewNoise(noiseSpec.Type(), scope+"/noise", noiseSpec)
	if err != nil {
		return nil, err
	}
	ex.Noise = ns
	return ex, nil
}

func (ex *Exploration) TypeName() string { return "Exploration" }

// Apply perturbs actions in place and returns them.  The action space
// decides the mechanism; BoolBox and nested spaces are rejected.
func (ex *Exploration) Apply(actions *etensor.Float32, space spaces.Primitive, timeStep int, deterministic bool) (*etensor.Float32, error) {
	if deterministic {
		return actions, nil
	}
	switch sp := space.(type) {
	case *spaces.IntBox:
		eps := ex.Epsilon.Value(timeStep)
		n := sp.NumCategories()
		b := actions.Dim(0)
		per := actions.Len() / b
		for bi := 0; bi < b; bi++ {
			if erand.BoolProb(float64(eps), -1) {
				for i := 0; i < per; i++ {
					actions.Values[bi*per+i] = float32(sp.Low + rand.Intn(n))
				}
			}
		}
		return actions, nil
	case *spaces.FloatBox:
		for i := range actions.Values {
			v := actions.Values[i] + ex.Noise.Sample()
			if v < sp.Low {
				v = sp.Low
			} else if v > sp.High {
				v = sp.High
			}
			actions.Values[i] = v
		}
		return actions, nil
	default:
		return nil, fmt.Errorf("%s: no exploration defined for action space %s", ex.Name(), space.String())
	}
}

// Reset restores stateful noise processes, called at episode start.
func (ex *Exploration) Reset() {
	if ex.Noise != nil {
		ex.Noise.Reset()
	}
}
