// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumTree(t *testing.T) {
	st := NewSumTree(4)
	st.Insert(0, 1)
	st.Insert(1, 2)
	st.Insert(2, 3)
	st.Insert(3, 4)

	assert.Equal(t, float32(10), st.Root())
	assert.Equal(t, float32(3), st.Get(2))
	assert.Equal(t, float32(5), st.Reduce(1, 3))
	assert.Equal(t, float32(10), st.Reduce(0, 4))

	// overwrite updates parents
	st.Insert(1, 0)
	assert.Equal(t, float32(8), st.Root())
}

func TestSumTreePrefixSumIndex(t *testing.T) {
	st := NewSumTree(4)
	st.Insert(0, 1)
	st.Insert(1, 2)
	st.Insert(2, 3)
	st.Insert(3, 4)

	assert.Equal(t, 0, st.PrefixSumIndex(0.5))
	assert.Equal(t, 1, st.PrefixSumIndex(1.5))
	assert.Equal(t, 2, st.PrefixSumIndex(3.5))
	assert.Equal(t, 3, st.PrefixSumIndex(9.5))
}

func TestMinTree(t *testing.T) {
	mt := NewMinTree(4)
	mt.Insert(0, 5)
	mt.Insert(1, 2)
	mt.Insert(2, 8)
	mt.Insert(3, 3)

	assert.Equal(t, float32(2), mt.Root())
	assert.Equal(t, float32(3), mt.Reduce(2, 4))

	mt.Insert(1, 9)
	assert.Equal(t, float32(3), mt.Root())
}

func TestTreeCapacityMustBePowerOfTwo(t *testing.T) {
	require.Panics(t, func() { NewSumTree(3) })
	require.NotPanics(t, func() { NewSumTree(8) })
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, 1, nextPow2(1))
	assert.Equal(t, 4, nextPow2(3))
	assert.Equal(t, 8, nextPow2(8))
	assert.Equal(t, 16, nextPow2(9))
}
