// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spaces

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/emer/etable/etensor"
)

// Flattened Tuple entries use keys of the form _T<n>_.
var flatTupleKey = regexp.MustCompile(`/|_T\d+_`)

// Dict is an ordered, keyed combination of other spaces.  Keys are kept
// sorted so flattening is deterministic.  Nesting of further Dict or
// Tuple spaces is supported.
type Dict struct {
	Keys   []string
	Spaces map[string]Space
}

// NewDict builds a Dict space from a key -> Space map.  Keys must not
// contain '/' or the _T<n>_ pattern, which are reserved for flattening.
func NewDict(spaces map[string]Space) (*Dict, error) {
	dt := &Dict{Spaces: make(map[string]Space, len(spaces))}
	for key, sp := range spaces {
		if flatTupleKey.MatchString(key) {
			return nil, fmt.Errorf("spaces: Dict key %q must not contain '/' or _T<n>_", key)
		}
		dt.Keys = append(dt.Keys, key)
		dt.Spaces[key] = sp
	}
	sort.Strings(dt.Keys)
	return dt, nil
}

// MustDict is NewDict that panics on error, for literal construction.
func MustDict(spaces map[string]Space) *Dict {
	dt, err := NewDict(spaces)
	if err != nil {
		panic(err)
	}
	return dt
}

func (dt *Dict) FlatDim() int {
	n := 0
	for _, key := range dt.Keys {
		n += dt.Spaces[key].FlatDim()
	}
	return n
}

func (dt *Dict) Flatten(scope string) []ScopedSpace {
	var flat []ScopedSpace
	for _, key := range dt.Keys {
		flat = append(flat, dt.Spaces[key].Flatten(joinScope(scope, key))...)
	}
	return flat
}

// Sample draws one element per flattened primitive sub-space, keyed by
// the flattened scope.
func (dt *Dict) Sample(rnd *rand.Rand) map[string]*etensor.Float32 {
	out := map[string]*etensor.Float32{}
	for _, ss := range dt.Flatten("") {
		out[ss.Scope] = ss.Space.Sample(rnd)
	}
	return out
}

// SampleBatch draws n elements per flattened primitive sub-space, each
// with a leading batch rank.
func (dt *Dict) SampleBatch(rnd *rand.Rand, n int) map[string]*etensor.Float32 {
	out := map[string]*etensor.Float32{}
	for _, ss := range dt.Flatten("") {
		out[ss.Scope] = ss.Space.SampleBatch(rnd, n)
	}
	return out
}

func (dt *Dict) String() string {
	parts := make([]string, len(dt.Keys))
	for i, key := range dt.Keys {
		parts[i] = key + ": " + dt.Spaces[key].String()
	}
	return "Dict{" + strings.Join(parts, ", ") + "}"
}

// Tuple is an ordered combination of other spaces.
type Tuple struct {
	Spaces []Space
}

func NewTuple(spaces ...Space) *Tuple {
	return &Tuple{Spaces: spaces}
}

func (tp *Tuple) FlatDim() int {
	n := 0
	for _, sp := range tp.Spaces {
		n += sp.FlatDim()
	}
	return n
}

func (tp *Tuple) Flatten(scope string) []ScopedSpace {
	var flat []ScopedSpace
	for i, sp := range tp.Spaces {
		flat = append(flat, sp.Flatten(joinScope(scope, fmt.Sprintf("_T%d_", i)))...)
	}
	return flat
}

func (tp *Tuple) String() string {
	parts := make([]string, len(tp.Spaces))
	for i, sp := range tp.Spaces {
		parts[i] = sp.String()
	}
	return "Tuple(" + strings.Join(parts, ", ") + ")"
}

func joinScope(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + "/" + key
}
