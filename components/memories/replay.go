// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"fmt"
	"math/rand"

	"github.com/pascalwhoop/yarl/components"
)

// ReplayMemory stores records in a fixed-capacity ring and samples
// uniformly at random, with replacement when the request exceeds the
// current size.
type ReplayMemory struct {
	components.Base

	Cap int

	records []Record

	// next insertion position
	Idx int

	// current fill, saturates at Cap
	Sz int
}

// NewReplayMemory returns a replay memory with the given capacity.
func NewReplayMemory(scope string, capacity int) *ReplayMemory {
	rm := &ReplayMemory{Cap: capacity, records: make([]Record, capacity)}
	rm.SetName(scope)
	return rm
}

func newReplay(scope string, spec components.Spec) (components.Component, error) {
	capacity := spec.Int("capacity", 0)
	if capacity <= 0 {
		return nil, fmt.Errorf("replay %s: \"capacity\" must be a positive integer", scope)
	}
	return NewReplayMemory(scope, capacity), nil
}

func (rm *ReplayMemory) TypeName() string { return "ReplayMemory" }
func (rm *ReplayMemory) Size() int { return rm.Sz }
func (rm *ReplayMemory) Capacity() int { return rm.Cap }

func (rm *ReplayMemory) Insert(recs []Record) {
	for _, rec := range recs {
		rm.records[rm.Idx] = rec
		rm.Idx = (rm.Idx + 1) % rm.Cap
		if rm.Sz < rm.Cap {
			rm.Sz++
		}
	}
}

func (rm *ReplayMemory) Get(n int) (Batch, []int, error) {
	if rm.Sz == 0 {
		return nil, nil, fmt.Errorf("replay %s: cannot sample from an empty memory", rm.Name())
	}
	recs := make([]Record, n)
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		idx := rand.Intn(rm.Sz)
		recs[i] = rm.records[idx]
		indices[i] = idx
	}
	batch, err := StackRecords(recs)
	if err != nil {
		return nil, nil, err
	}
	return batch, indices, nil
}

// RingBuffer stores records FIFO and retrieves the most recent n in
// insertion order, e.g. for on-policy algorithms consuming rollouts.
type RingBuffer struct {
	components.Base

	Cap int

	records []Record
	Idx     int
	Sz      int
}

func NewRingBuffer(scope string, capacity int) *RingBuffer {
	rb := &RingBuffer{Cap: capacity, records: make([]Record, capacity)}
	rb.SetName(scope)
	return rb
}

func newRingBuffer(scope string, spec components.Spec) (components.Component, error) {
	capacity := spec.Int("capacity", 0)
	if capacity <= 0 {
		return nil, fmt.Errorf("ring-buffer %s: \"capacity\" must be a positive integer", scope)
	}
	return NewRingBuffer(scope, capacity), nil
}

func (rb *RingBuffer) TypeName() string { return "RingBuffer" }
func (rb *RingBuffer) Size() int { return rb.Sz }
func (rb *RingBuffer) Capacity() int { return rb.Cap }

func (rb *RingBuffer) Insert(recs []Record) {
	for _, rec := range recs {
		rb.records[rb.Idx] = rec
		rb.Idx = (rb.Idx + 1) % rb.Cap
		if rb.Sz < rb.Cap {
			rb.Sz++
		}
	}
}

// Get returns the n most recent records in insertion order (oldest of
// the n first).
func (rb *RingBuffer) Get(n int) (Batch, []int, error) {
	if n > rb.Sz {
		return nil, nil, fmt.Errorf("ring-buffer %s: requested %d records but only %d stored", rb.Name(), n, rb.Sz)
	}
	recs := make([]Record, n)
	indices := make([]int, n)
	start := (rb.Idx - n + rb.Cap) % rb.Cap
	for i := 0; i < n; i++ {
		idx := (start + i) % rb.Cap
		recs[i] = rb.records[idx]
		indices[i] = idx
	}
	batch, err := StackRecords(recs)
	if err != nil {
		return nil, nil, err
	}
	return batch, indices, nil
}
