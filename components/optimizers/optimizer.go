// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimizers

import (
	"fmt"

	"github.com/pascalwhoop/yarl/components"
)

// Optimizer updates weights from their accumulated gradients.
type Optimizer interface {
	components.Component

	// Step applies one update to every Weights record and zeroes the
	// gradients afterwards.
	Step(params []*components.Weights)

	// Reset clears all per-parameter state.
	Reset()
}

// StdRegistry holds the built-in optimizer types.
var StdRegistry = components.NewRegistry()

func init() {
	StdRegistry.Register(newSGD, "gradient-descent", "sgd")
	StdRegistry.Register(newAdam, "adam")
	StdRegistry.Register(newAdagrad, "adagrad")
	StdRegistry.Register(newAdadelta, "adadelta")
}

// NewOptimizer constructs a registered optimizer type.
func NewOptimizer(typeName, scope string, spec components.Spec) (Optimizer, error) {
	c, err := StdRegistry.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	op, ok := c.(Optimizer)
	if !ok {
		return nil, fmt.Errorf("component type %q is not an optimizer", typeName)
	}
	return op, nil
}
