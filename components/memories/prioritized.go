// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pascalwhoop/yarl/components"
)

// PrioritizedReplay samples records proportionally to priority^Alpha and
// corrects the induced bias with importance-sampling weights annealed by
// Beta.  New records enter at the current maximum priority so they are
// sampled at least once soon after insertion.
type PrioritizedReplay struct {
	components.Base

	Cap int

	// prioritization exponent; 0 = uniform
	Alpha float32

	// importance-sampling exponent
	Beta float32

	records []Record
	Idx     int
	Sz      int

	sum *SegmentTree
	min *SegmentTree

	// running maximum raw priority
	MaxPriority float32
}

// NewPrioritizedReplay returns a prioritized replay memory.  The segment
// trees round the capacity up to the next power of two internally.
func NewPrioritizedReplay(scope string, capacity int, alpha, beta float32) *PrioritizedReplay {
	treeCap := nextPow2(capacity)
	pr := &PrioritizedReplay{
		Cap:         capacity,
		Alpha:       alpha,
		Beta:        beta,
		records:     make([]Record, capacity),
		sum:         NewSumTree(treeCap),
		min:         NewMinTree(treeCap),
		MaxPriority: 1,
	}
	pr.SetName(scope)
	return pr
}

func newPrioritized(scope string, spec components.Spec) (components.Component, error) {
	capacity := spec.Int("capacity", 0)
	if capacity <= 0 {
		return nil, fmt.Errorf("prioritized %s: \"capacity\" must be a positive integer", scope)
	}
	return NewPrioritizedReplay(scope, capacity, spec.Float("alpha", 1), spec.Float("beta", 0)), nil
}

func (pr *PrioritizedReplay) TypeName() string { return "PrioritizedReplay" }
func (pr *PrioritizedReplay) Size() int { return pr.Sz }
func (pr *PrioritizedReplay) Capacity() int { return pr.Cap }

func (pr *PrioritizedReplay) Insert(recs []Record) {
	for _, rec := range recs {
		pr.records[pr.Idx] = rec
		p := pow32(pr.MaxPriority, pr.Alpha)
		pr.sum.Insert(pr.Idx, p)
		pr.min.Insert(pr.Idx, p)
		pr.Idx = (pr.Idx + 1) % pr.Cap
		if pr.Sz < pr.Cap {
			pr.Sz++
		}
	}
}

func (pr *PrioritizedReplay) Get(n int) (Batch, []int, error) {
	batch, indices, _, err := pr.GetWithWeights(n)
	return batch, indices, err
}

// GetWithWeights samples n records and additionally returns their
// normalized importance-sampling weights.
func (pr *PrioritizedReplay) GetWithWeights(n int) (Batch, []int, []float32, error) {
	if pr.Sz == 0 {
		return nil, nil, nil, fmt.Errorf("prioritized %s: cannot sample from an empty memory", pr.Name())
	}
	total := pr.sum.Reduce(0, pr.Sz)
	recs := make([]Record, n)
	indices := make([]int, n)
	weights := make([]float32, n)

	// max weight, from the minimum stored priority
	minProb := pr.min.Reduce(0, pr.Sz) / total
	maxWeight := pow32(minProb*float32(pr.Sz), -pr.Beta)

	for i := 0; i < n; i++ {
		mass := rand.Float32() * total
		idx := pr.sum.PrefixSumIndex(mass)
		if idx >= pr.Sz { // rounding at the segment boundary
			idx = pr.Sz - 1
		}
		prob := pr.sum.Get(idx) / total
		weights[i] = pow32(prob*float32(pr.Sz), -pr.Beta) / maxWeight
		recs[i] = pr.records[idx]
		indices[i] = idx
	}
	batch, err := StackRecords(recs)
	if err != nil {
		return nil, nil, nil, err
	}
	return batch, indices, weights, nil
}

// UpdatePriorities sets new raw priorities (e.g. TD errors) for the
// records at the given indices.
func (pr *PrioritizedReplay) UpdatePriorities(indices []int, priorities []float32) error {
	if len(indices) != len(priorities) {
		return fmt.Errorf("prioritized %s: %d indices but %d priorities", pr.Name(), len(indices), len(priorities))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= pr.Cap {
			return fmt.Errorf("prioritized %s: index %d out of range [0, %d)", pr.Name(), idx, pr.Cap)
		}
		p := priorities[i]
		if p <= 0 {
			p = 1e-6
		}
		pa := pow32(p, pr.Alpha)
		pr.sum.Insert(idx, pa)
		pr.min.Insert(idx, pa)
		if p > pr.MaxPriority {
			pr.MaxPriority = p
		}
	}
	return nil
}

func pow32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
