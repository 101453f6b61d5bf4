// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"fmt"
	"math"
)

// SegmentTree is a binary segment tree over a fixed capacity of float32
// values, supporting O(log n) element updates, range reductions and (for
// sum trees) prefix-sum index searches.  Leaves live at values[capacity:
// 2*capacity]; node i aggregates its children 2i and 2i+1.
type SegmentTree struct {

	// leaf capacity, a power of two
	Capacity int

	values  []float32
	op      func(a, b float32) float32
	neutral float32
}

// NewSumTree returns a segment tree aggregating with addition.
// Capacity must be a power of two.
func NewSumTree(capacity int) *SegmentTree {
	return newTree(capacity, func(a, b float32) float32 { return a + b }, 0)
}

// NewMinTree returns a segment tree aggregating with minimum.
// Capacity must be a power of two.
func NewMinTree(capacity int) *SegmentTree {
	return newTree(capacity, func(a, b float32) float32 {
		if a < b {
			return a
		}
		return b
	}, float32(math.Inf(1)))
}

func newTree(capacity int, op func(a, b float32) float32, neutral float32) *SegmentTree {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("memories: segment tree capacity must be a positive power of two, got %d", capacity))
	}
	st := &SegmentTree{Capacity: capacity, op: op, neutral: neutral}
	st.values = make([]float32, 2*capacity)
	for i := range st.values {
		st.values[i] = neutral
	}
	return st
}

// Insert sets the leaf at index and updates all parents.
func (st *SegmentTree) Insert(index int, element float32) {
	i := index + st.Capacity
	st.values[i] = element
	for i >= 2 {
		i /= 2
		st.values[i] = st.op(st.values[2*i], st.values[2*i+1])
	}
}

// Get reads the leaf at index.
func (st *SegmentTree) Get(index int) float32 {
	return st.values[st.Capacity+index]
}

// Root returns the reduction over all leaves.
func (st *SegmentTree) Root() float32 {
	return st.values[1]
}

// PrefixSumIndex returns the highest leaf index i such that the sum of
// leaves [0, i) is <= prefixSum.  Only meaningful on sum trees.
func (st *SegmentTree) PrefixSumIndex(prefixSum float32) int {
	i := 1
	for i < st.Capacity {
		if st.values[2*i] > prefixSum {
			i = 2 * i
		} else {
			prefixSum -= st.values[2*i]
			i = 2*i + 1
		}
	}
	return i - st.Capacity
}

// Reduce applies the tree's operation over leaves [start, limit).
func (st *SegmentTree) Reduce(start, limit int) float32 {
	result := st.neutral
	start += st.Capacity
	limit += st.Capacity
	for start < limit {
		if start%2 == 1 {
			result = st.op(result, st.values[start])
			start++
		}
		if limit%2 == 1 {
			limit--
			result = st.op(result, st.values[limit])
		}
		start /= 2
		limit /= 2
	}
	return result
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
