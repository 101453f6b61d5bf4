// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"fmt"
	"sort"
	"strings"
)

// Factory constructs an unbuilt component from its spec parameters.
// Shapes and weights are resolved later, at graph build time.
type Factory func(scope string, spec Spec) (Component, error)

// Registry maps component type names (and their aliases) to factories.
// Packages register their types in init; registering the same name twice
// is a programming error and panics.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under one or more type names.  Names are
// matched case-insensitively with "-" and "_" stripped, so "conv2d",
// "Conv2D" and "conv-2d" all resolve to the same factory.
func (rg *Registry) Register(f Factory, names ...string) {
	for _, nm := range names {
		key := canonicalName(nm)
		if _, exists := rg.factories[key]; exists {
			panic(fmt.Sprintf("components: type %q already registered", nm))
		}
		rg.factories[key] = f
	}
}

// New instantiates a component of the given type name with the scope and
// spec parameters.
func (rg *Registry) New(typeName, scope string, spec Spec) (Component, error) {
	f, ok := rg.factories[canonicalName(typeName)]
	if !ok {
		return nil, fmt.Errorf("components: unknown component type %q (known: %s)",
			typeName, strings.Join(rg.Types(), ", "))
	}
	return f(scope, spec)
}

// Types returns the sorted canonical type names known to the registry.
func (rg *Registry) Types() []string {
	var names []string
	for nm := range rg.factories {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

func canonicalName(nm string) string {
	nm = strings.ToLower(nm)
	nm = strings.ReplaceAll(nm, "-", "")
	nm = strings.ReplaceAll(nm, "_", "")
	return nm
}
