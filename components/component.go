// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

// Component is the common interface of all graph building blocks.
// Name, Class and TypeName together satisfy params.Styler, so selector
// based param sheets can be applied to any component.
type Component interface {
	// Name returns the scope: the unique instance name within the graph.
	Name() string

	// TypeName returns the component type, e.g. "Dense".
	TypeName() string

	// Class returns space-separated class tags used by ".class" selectors.
	Class() string
}

// Base is the embeddable base for all components.
type Base struct {

	// scope -- unique instance name within the containing graph
	Scp string

	// space-separated class tags for param selectors
	Cls string
}

func (cb *Base) Name() string { return cb.Scp }
func (cb *Base) Class() string { return cb.Cls }

// SetName sets the scope of this component.
func (cb *Base) SetName(name string) { cb.Scp = name }

// SetClass sets the class tags of this component.
func (cb *Base) SetClass(class string) { cb.Cls = class }
