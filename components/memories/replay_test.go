// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/pascalwhoop/yarl/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(v float32) Record {
	st := etensor.NewFloat32([]int{2}, nil, nil)
	st.Values[0] = v
	st.Values[1] = v + 1
	rw := etensor.NewFloat32([]int{1}, nil, nil)
	rw.Values[0] = v
	return Record{"states": st, "rewards": rw}
}

func TestReplayMemoryRing(t *testing.T) {
	rm := NewReplayMemory("mem", 3)
	assert.Equal(t, 3, rm.Capacity())
	assert.Equal(t, 0, rm.Size())

	rm.Insert([]Record{rec(1), rec(2)})
	assert.Equal(t, 2, rm.Size())

	// overflow wraps around, size saturates
	rm.Insert([]Record{rec(3), rec(4)})
	assert.Equal(t, 3, rm.Size())

	batch, idx, err := rm.Get(5)
	require.NoError(t, err)
	assert.Len(t, idx, 5)
	require.Contains(t, batch, "states")
	assert.Equal(t, []int{5, 2}, batch["states"].Shp)
	assert.Equal(t, []int{5, 1}, batch["rewards"].Shp)
	// record 1 was overwritten by record 4
	for _, v := range batch["rewards"].Values {
		assert.NotEqual(t, float32(1), v)
	}
}

func TestReplayMemoryEmpty(t *testing.T) {
	rm := NewReplayMemory("mem", 4)
	_, _, err := rm.Get(1)
	assert.Error(t, err)
}

func TestRingBufferFIFO(t *testing.T) {
	rb := NewRingBuffer("ring", 3)
	rb.Insert([]Record{rec(1), rec(2), rec(3), rec(4)})
	assert.Equal(t, 3, rb.Size())

	batch, _, err := rb.Get(3)
	require.NoError(t, err)
	// most recent 3 in insertion order
	assert.Equal(t, []float32{2, 3, 4}, batch["rewards"].Values)

	_, _, err = rb.Get(4)
	assert.Error(t, err)
}

func TestPrioritizedReplay(t *testing.T) {
	pr := NewPrioritizedReplay("mem", 8, 1, 0.5)
	for i := 0; i < 8; i++ {
		pr.Insert([]Record{rec(float32(i))})
	}
	assert.Equal(t, 8, pr.Size())

	batch, idx, wts, err := pr.GetWithWeights(4)
	require.NoError(t, err)
	assert.Len(t, idx, 4)
	assert.Len(t, wts, 4)
	assert.Equal(t, []int{4, 2}, batch["states"].Shp)
	// all priorities equal -> all weights normalize to 1
	for _, w := range wts {
		assert.InDelta(t, 1, w, 1e-5)
	}

	require.NoError(t, pr.UpdatePriorities([]int{0, 1}, []float32{10, 0.001}))
	assert.Equal(t, float32(10), pr.MaxPriority)

	// index 0 now dominates the probability mass
	counts := make(map[int]int)
	for i := 0; i < 200; i++ {
		_, idx, err := pr.Get(1)
		require.NoError(t, err)
		counts[idx[0]]++
	}
	assert.Greater(t, counts[0], 100)
}

func TestPrioritizedUpdateValidation(t *testing.T) {
	pr := NewPrioritizedReplay("mem", 4, 1, 0)
	pr.Insert([]Record{rec(1)})
	assert.Error(t, pr.UpdatePriorities([]int{0}, []float32{1, 2}))
	assert.Error(t, pr.UpdatePriorities([]int{9}, []float32{1}))
}

func TestMemoryRegistry(t *testing.T) {
	mem, err := NewMemory("replay", "m", components.Spec{"capacity": 16})
	require.NoError(t, err)
	assert.Equal(t, 16, mem.Capacity())

	mem, err = NewMemory("prioritized", "p", components.Spec{"capacity": 10, "alpha": 0.6, "beta": 0.4})
	require.NoError(t, err)
	pr, ok := mem.(*PrioritizedReplay)
	require.True(t, ok)
	assert.InDelta(t, 0.6, pr.Alpha, 1e-6)

	_, err = NewMemory("warp", "w", components.Spec{})
	assert.Error(t, err)
}

func TestStackRecordsMismatch(t *testing.T) {
	a := rec(1)
	b := Record{"states": etensor.NewFloat32([]int{3}, nil, nil)}
	_, err := StackRecords([]Record{a, b})
	assert.Error(t, err)
}
