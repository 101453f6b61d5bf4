// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphs

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/components/layers"
)

// srcRef identifies where a layer input comes from: another node's
// output, or a top-level input socket (layer < 0).
type srcRef struct {
	layer int
	sock  string
}

type node struct {
	ly  layers.Layer
	ins []srcRef
}

// Network is a built, executable layer graph.  Forward and Backward
// run the layers in (reverse) topological order; activations from the
// last Forward are kept so Backward can follow the same batch.
type Network struct {
	components.Base

	Spec *NetworkSpec

	nodes  []node
	order  []int // topological execution order
	index  map[string]int
	outs   map[string]int // output socket -> producing node
	inputs []string

	acts []*etensor.Float32 // per-node outputs from the last Forward
}

func (nt *Network) TypeName() string { return "Network" }

// LayerByScope returns the layer registered under scope, nil if absent.
func (nt *Network) LayerByScope(scope string) layers.Layer {
	if i, ok := nt.index[scope]; ok {
		return nt.nodes[i].ly
	}
	return nil
}

// NumLayers returns the number of sub-components in the graph.
func (nt *Network) NumLayers() int { return len(nt.nodes) }

// OutShape returns the per-sample shape of the given output socket.
func (nt *Network) OutShape(socket string) ([]int, error) {
	ni, ok := nt.outs[socket]
	if !ok {
		return nil, fmt.Errorf("network %s: no output socket %q", nt.Name(), socket)
	}
	return nt.nodes[ni].ly.OutShape(), nil
}

// Forward runs all layers on a batch of inputs keyed by input socket
// name and returns the outputs keyed by output socket name.
func (nt *Network) Forward(in map[string]*etensor.Float32) (map[string]*etensor.Float32, error) {
	for _, sock := range nt.inputs {
		if in[sock] == nil {
			return nil, fmt.Errorf("network %s: missing input %q", nt.Name(), sock)
		}
	}
	acts := make([]*etensor.Float32, len(nt.nodes))
	for _, ni := range nt.order {
		nd := &nt.nodes[ni]
		args := make([]*etensor.Float32, len(nd.ins))
		for i, src := range nd.ins {
			if src.layer < 0 {
				args[i] = in[src.sock]
			} else {
				args[i] = acts[src.layer]
			}
		}
		out, err := nd.ly.Forward(args)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", nt.Name(), err)
		}
		acts[ni] = out
	}
	nt.acts = acts
	res := make(map[string]*etensor.Float32, len(nt.outs))
	for sock, ni := range nt.outs {
		res[sock] = acts[ni]
	}
	return res, nil
}

// Backward propagates output gradients (keyed by output socket)
// through the graph, accumulating weight gradients in every layer, and
// returns the gradients with respect to the input sockets.  Must
// follow a Forward call on the same batch.
func (nt *Network) Backward(outGrads map[string]*etensor.Float32) (map[string]*etensor.Float32, error) {
	if nt.acts == nil {
		return nil, fmt.Errorf("network %s: Backward without a preceding Forward", nt.Name())
	}
	// node gradients start as aliases of the tensors handed in (or of a
	// consumer's input gradient); the first accumulation copies so the
	// caller's tensors are never mutated
	grads := make([]*etensor.Float32, len(nt.nodes))
	owned := make([]bool, len(nt.nodes))
	accum := func(ni int, g *etensor.Float32) {
		if grads[ni] == nil {
			grads[ni] = g
			return
		}
		if !owned[ni] {
			cp := etensor.NewFloat32(grads[ni].Shp, nil, nil)
			copy(cp.Values, grads[ni].Values)
			grads[ni] = cp
			owned[ni] = true
		}
		for i := range grads[ni].Values {
			grads[ni].Values[i] += g.Values[i]
		}
	}
	for sock, g := range outGrads {
		ni, ok := nt.outs[sock]
		if !ok {
			return nil, fmt.Errorf("network %s: no output socket %q", nt.Name(), sock)
		}
		accum(ni, g)
	}
	inGrads := make(map[string]*etensor.Float32)
	for i := len(nt.order) - 1; i >= 0; i-- {
		ni := nt.order[i]
		nd := &nt.nodes[ni]
		if grads[ni] == nil { // output unused by any consumer this pass
			continue
		}
		ing, err := nd.ly.Backward(grads[ni])
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", nt.Name(), err)
		}
		for j, src := range nd.ins {
			if src.layer < 0 {
				inGrads[src.sock] = addInto(inGrads[src.sock], ing[j])
			} else {
				accum(src.layer, ing[j])
			}
		}
	}
	return inGrads, nil
}

// addInto sums src into dst, allocating dst on first use.  src is
// returned directly when dst is nil, so single-consumer paths do not
// copy.
func addInto(dst, src *etensor.Float32) *etensor.Float32 {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}
	if dst == src {
		cp := etensor.NewFloat32(dst.Shp, nil, nil)
		copy(cp.Values, dst.Values)
		dst = cp
	}
	for i := range dst.Values {
		dst.Values[i] += src.Values[i]
	}
	return dst
}

// Params returns all trainable weights of the graph in execution
// order.
func (nt *Network) Params() []*components.Weights {
	var all []*components.Weights
	for _, ni := range nt.order {
		all = append(all, nt.nodes[ni].ly.Weights()...)
	}
	return all
}

// SynchronizeFrom copies all weight values from src, which must have
// the same structure (e.g. a target network built from the same spec).
func (nt *Network) SynchronizeFrom(src *Network) error {
	dps := nt.Params()
	sps := src.Params()
	if len(dps) != len(sps) {
		return fmt.Errorf("network %s: cannot synchronize from %s: %d vs %d weight records", nt.Name(), src.Name(), len(dps), len(sps))
	}
	for i, dp := range dps {
		if err := dp.CopyFrom(sps[i]); err != nil {
			return fmt.Errorf("network %s: %w", nt.Name(), err)
		}
	}
	return nil
}

// ApplyParams applies a parameter style sheet to every layer, keyed by
// layer name, type name, or class selectors.  Returns true if any
// parameter was set.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for i := range nt.nodes {
		app, err := pars.Apply(nt.nodes[i].ly, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// SizeReport returns a human-readable summary of the weight memory
// held by the graph.
func (nt *Network) SizeReport() string {
	var vals int
	for i := range nt.nodes {
		for _, wt := range nt.nodes[i].ly.Weights() {
			vals += wt.Len()
		}
	}
	bytes := datasize.ByteSize(vals * 4)
	return fmt.Sprintf("network %s: %d layers, %d weight values, %s", nt.Name(), len(nt.nodes), vals, bytes.HumanReadable())
}
