// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/pascalwhoop/yarl/components"
)

// Record maps flattened space keys to per-sample tensors.
type Record map[string]*etensor.Float32

// Batch maps flattened space keys to batched tensors (leading batch rank).
type Batch map[string]*etensor.Float32

// Memory is the common interface of all replay memories.
type Memory interface {
	components.Component

	// Insert adds records, evicting old ones past capacity.
	Insert(recs []Record)

	// Get retrieves a batch of n records along with their memory indices
	// (for subsequent priority updates where supported).
	Get(n int) (Batch, []int, error)

	Size() int
	Capacity() int
}

// StdRegistry holds the standard memory types under their config-file
// type names.
var StdRegistry = components.NewRegistry()

func init() {
	StdRegistry.Register(newReplay, "replay", "replay-buffer", "replay-memory")
	StdRegistry.Register(newRingBuffer, "ring-buffer")
	StdRegistry.Register(newPrioritized, "prioritized", "prioritized-replay", "prioritized-replay-buffer")
}

// NewMemory instantiates a memory from the standard registry.
func NewMemory(typeName, scope string, spec components.Spec) (Memory, error) {
	comp, err := StdRegistry.New(typeName, scope, spec)
	if err != nil {
		return nil, err
	}
	mem, ok := comp.(Memory)
	if !ok {
		return nil, fmt.Errorf("memories: component type %q (%s) is not a Memory", typeName, scope)
	}
	return mem, nil
}

// StackRecords stacks per-sample records into one batch tensor per key.
// All records must share the same keys and per-key shapes.
func StackRecords(recs []Record) (Batch, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("memories: cannot stack an empty record list")
	}
	out := Batch{}
	for key, first := range recs[0] {
		shp := first.Shp
		stacked := etensor.NewFloat32(append([]int{len(recs)}, shp...), nil, nil)
		n := first.Len()
		for ri, rec := range recs {
			tsr, ok := rec[key]
			if !ok {
				return nil, fmt.Errorf("memories: record %d is missing key %q", ri, key)
			}
			if tsr.Len() != n {
				return nil, fmt.Errorf("memories: record %d key %q has size %d != %d", ri, key, tsr.Len(), n)
			}
			copy(stacked.Values[ri*n:(ri+1)*n], tsr.Values)
		}
		out[key] = stacked
	}
	return out, nil
}
