// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphs

import (
	"fmt"

	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/components/layers"
)

// BuildNetwork assembles a Network from a spec using the standard layer
// registry.  inShapes gives the per-sample shape of every top-level
// input socket.
func BuildNetwork(spec *NetworkSpec, inShapes map[string][]int) (*Network, error) {
	return BuildNetworkFrom(layers.StdRegistry, spec, inShapes)
}

// BuildNetworkFrom is BuildNetwork with a caller-supplied component
// registry, for custom layer types.
func BuildNetworkFrom(reg *components.Registry, spec *NetworkSpec, inShapes map[string][]int) (*Network, error) {
	if len(spec.Inputs) == 0 {
		return nil, fmt.Errorf("network %s: no input sockets declared", spec.Scope)
	}
	if len(spec.Outputs) == 0 {
		return nil, fmt.Errorf("network %s: no output sockets declared", spec.Scope)
	}
	for _, in := range spec.Inputs {
		if _, ok := inShapes[in]; !ok {
			return nil, fmt.Errorf("network %s: no shape given for input socket %q", spec.Scope, in)
		}
	}

	nt := &Network{
		Spec:   spec,
		index:  make(map[string]int, len(spec.SubComponents)),
		outs:   make(map[string]int, len(spec.Outputs)),
		inputs: spec.Inputs,
	}
	nt.SetName(spec.Scope)

	// instantiate sub-components
	for _, csp := range spec.SubComponents {
		scope := csp.Scope()
		if scope == "" {
			return nil, fmt.Errorf("network %s: sub-component without a scope", spec.Scope)
		}
		if _, dup := nt.index[scope]; dup {
			return nil, fmt.Errorf("network %s: duplicate sub-component scope %q", spec.Scope, scope)
		}
		ly, err := layers.NewLayerFrom(reg, csp.Type(), scope, csp)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", spec.Scope, err)
		}
		nt.index[scope] = len(nt.nodes)
		nt.nodes = append(nt.nodes, node{ly: ly})
	}

	inSet := make(map[string]bool, len(spec.Inputs))
	for _, in := range spec.Inputs {
		inSet[in] = true
	}
	outSet := make(map[string]bool, len(spec.Outputs))
	for _, out := range spec.Outputs {
		outSet[out] = true
	}

	// wire connections; input order per layer follows appearance order
	// in the spec document
	for _, cn := range spec.Connections {
		if cn.From.IsTopLevel() && !inSet[cn.From.Socket] {
			return nil, fmt.Errorf("network %s: connection source %q is not a declared input", spec.Scope, cn.From.Socket)
		}
		if !cn.From.IsTopLevel() {
			if _, ok := nt.index[cn.From.Scope]; !ok {
				return nil, fmt.Errorf("network %s: connection source scope %q not found", spec.Scope, cn.From.Scope)
			}
		}
		switch {
		case cn.To.IsTopLevel():
			if !outSet[cn.To.Socket] {
				return nil, fmt.Errorf("network %s: connection target %q is not a declared output", spec.Scope, cn.To.Socket)
			}
			if cn.From.IsTopLevel() {
				return nil, fmt.Errorf("network %s: cannot wire input %q directly to output %q", spec.Scope, cn.From.Socket, cn.To.Socket)
			}
			if _, dup := nt.outs[cn.To.Socket]; dup {
				return nil, fmt.Errorf("network %s: output socket %q has more than one producer", spec.Scope, cn.To.Socket)
			}
			nt.outs[cn.To.Socket] = nt.index[cn.From.Scope]
		default:
			ti, ok := nt.index[cn.To.Scope]
			if !ok {
				return nil, fmt.Errorf("network %s: connection target scope %q not found", spec.Scope, cn.To.Scope)
			}
			src := srcRef{layer: -1, sock: cn.From.Socket}
			if !cn.From.IsTopLevel() {
				src = srcRef{layer: nt.index[cn.From.Scope]}
			}
			nt.nodes[ti].ins = append(nt.nodes[ti].ins, src)
		}
	}

	for _, out := range spec.Outputs {
		if _, ok := nt.outs[out]; !ok {
			return nil, fmt.Errorf("network %s: output socket %q has no producer", spec.Scope, out)
		}
	}
	for i := range nt.nodes {
		nd := &nt.nodes[i]
		want := nd.ly.NumInputs()
		if want >= 0 && len(nd.ins) != want {
			return nil, fmt.Errorf("network %s: layer %q needs %d inputs, got %d connections", spec.Scope, nd.ly.Name(), want, len(nd.ins))
		}
		if want < 0 && len(nd.ins) == 0 {
			return nil, fmt.Errorf("network %s: layer %q has no input connections", spec.Scope, nd.ly.Name())
		}
	}

	order, err := topoSort(nt, spec.Scope)
	if err != nil {
		return nil, err
	}

	// build layers in dependency order so every input shape is known
	// when its consumer builds
	for _, ni := range order {
		nd := &nt.nodes[ni]
		shapes := make([][]int, len(nd.ins))
		for i, src := range nd.ins {
			if src.layer < 0 {
				shapes[i] = inShapes[src.sock]
			} else {
				shapes[i] = nt.nodes[src.layer].ly.OutShape()
			}
		}
		if err := nd.ly.Build(shapes); err != nil {
			return nil, fmt.Errorf("network %s: %w", spec.Scope, err)
		}
	}
	nt.order = order
	return nt, nil
}

// topoSort orders the nodes so every layer runs after all its
// producers.  A cycle is reported with the scopes left unordered.
func topoSort(nt *Network, netScope string) ([]int, error) {
	n := len(nt.nodes)
	indeg := make([]int, n)
	succs := make([][]int, n)
	for i, nd := range nt.nodes {
		for _, src := range nd.ins {
			if src.layer >= 0 {
				indeg[i]++
				succs[src.layer] = append(succs[src.layer], i)
			}
		}
	}
	order := make([]int, 0, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, s := range succs[cur] {
			indeg[s]--
			if indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	if len(order) != n {
		var stuck []string
		for i := 0; i < n; i++ {
			if indeg[i] > 0 {
				stuck = append(stuck, nt.nodes[i].ly.Name())
			}
		}
		return nil, fmt.Errorf("network %s: connection cycle involving %v", netScope, stuck)
	}
	return order, nil
}
