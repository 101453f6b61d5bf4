// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layers

import (
	"fmt"

	"github.com/pascalwhoop/yarl/components"
)

// StdRegistry holds the standard layer types under their spec names and
// aliases.  The graph builder uses it by default; callers can register
// custom layer types on it or pass their own registry.
var StdRegistry = components.NewRegistry()

func init() {
	StdRegistry.Register(newDense, "dense", "dense-layer", "fc", "fully-connected")
	StdRegistry.Register(newConv2D, "conv2d", "conv-2d-layer", "conv")
	StdRegistry.Register(newFlatten, "flatten", "flatten-layer", "reshape-flat")
	StdRegistry.Register(newConcat, "concat", "concat-layer", "merge")
	StdRegistry.Register(newNonLinearity, "nonlinearity", "activation")
	StdRegistry.Register(newNormalize, "normalize", "normalize-layer")
	StdRegistry.Register(newDueling, "dueling", "dueling-layer")
}

// NewLayer instantiates a layer from the standard registry and asserts
// the Layer interface.
func NewLayer(typeName, scope string, spec components.Spec) (Layer, error) {
	return NewLayerFrom(StdRegistry, typeName, scope, spec)
}

// NewLayerFrom instantiates a layer from the given registry.
func NewLayerFrom(reg *components.Registry, typeName, scope string, spec components.Spec) (Layer, error) {
	comp, err := reg.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	ly, ok := comp.(Layer)
	if !ok {
		return nil, fmt.Errorf("layers: component type %q (%s) is not a Layer", typeName, scope)
	}
	return ly, nil
}
