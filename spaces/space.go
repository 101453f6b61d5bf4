// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spaces

import (
	"fmt"
	"math/rand"

	"github.com/emer/etable/etensor"
)

// Space is the common interface of all primitive and container spaces.
type Space interface {
	// FlatDim returns the dimension of the flattened vector representation.
	FlatDim() int

	// Flatten returns the ordered list of primitive spaces contained in
	// this space, with auto-generated scope keys appended to the given
	// scope prefix.  A primitive space returns itself under the prefix.
	Flatten(scope string) []ScopedSpace

	String() string
}

// Primitive is a non-container space that can allocate and sample tensors.
type Primitive interface {
	Space

	// Shape returns the per-sample shape, without batch rank.
	// A scalar space has shape [1].
	Shape() []int

	// Rank is the number of dimensions of Shape.
	Rank() int

	// Zeros allocates a zero tensor of this space's shape.
	Zeros() *etensor.Float32

	// Sample draws one uniform random element, shape = Shape().
	Sample(rnd *rand.Rand) *etensor.Float32

	// SampleBatch draws n elements into one tensor with leading batch
	// rank, shape = [n, Shape()...].
	SampleBatch(rnd *rand.Rand, n int) *etensor.Float32

	// Contains reports whether the tensor is a valid member of this space.
	// The tensor must match Shape() exactly.
	Contains(tsr *etensor.Float32) bool
}

// ScopedSpace pairs a primitive space with its auto-generated flat key.
type ScopedSpace struct {

	// flattened key, e.g. "states/image" or "actions/_T0_"
	Scope string

	Space Primitive
}

// FromSpec constructs a Space from a specification value, which may be a
// Space (returned as-is), a shorthand type string ("float", "int",
// "bool"), a map with a "type" entry and box parameters, a plain map
// (treated as a Dict of sub-specs) or a list (treated as a Tuple).
func FromSpec(spec interface{}) (Space, error) {
	switch sp := spec.(type) {
	case Space:
		return sp, nil
	case string:
		return boxFromType(sp, nil, 0, 0)
	case []interface{}:
		subs := make([]Space, len(sp))
		for i, sub := range sp {
			ss, err := FromSpec(sub)
			if err != nil {
				return nil, err
			}
			subs[i] = ss
		}
		return NewTuple(subs...), nil
	case map[interface{}]interface{}: // yaml
		return FromSpec(normalizeYAML(sp))
	case map[string]interface{}:
		if _, ok := sp["type"]; ok {
			return boxFromSpec(sp)
		}
		subs := map[string]Space{}
		for key, sub := range sp {
			ss, err := FromSpec(sub)
			if err != nil {
				return nil, fmt.Errorf("spaces: key %q: %w", key, err)
			}
			subs[key] = ss
		}
		return NewDict(subs)
	}
	return nil, fmt.Errorf("spaces: cannot build a Space from spec %v (%T)", spec, spec)
}

func boxFromSpec(sp map[string]interface{}) (Space, error) {
	typ, _ := sp["type"].(string)
	var shape []int
	if sv, ok := sp["shape"]; ok {
		sl, ok := sv.([]interface{})
		if !ok {
			return nil, fmt.Errorf("spaces: shape must be a list, got %T", sv)
		}
		for _, d := range sl {
			shape = append(shape, int(toFloat(d)))
		}
	}
	low := toFloat(sp["low"])
	high := toFloat(sp["high"])
	return boxFromType(typ, shape, float32(low), float32(high))
}

func boxFromType(typ string, shape []int, low, high float32) (Space, error) {
	switch typ {
	case "float", "float-box", "floatbox", "continuous":
		if low == 0 && high == 0 {
			low, high = 0, 1
		}
		return NewFloatBox(low, high, shape...), nil
	case "int", "int-box", "intbox", "discrete":
		if high == 0 {
			return nil, fmt.Errorf("spaces: int spec needs a high bound (number of categories)")
		}
		return NewIntBox(int(low), int(high), shape...), nil
	case "bool", "bool-box", "boolbox":
		return NewBoolBox(shape...), nil
	}
	return nil, fmt.Errorf("spaces: unknown space type %q", typ)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// normalizeYAML rewrites yaml.v2's map[interface{}]interface{} trees into
// the map[string]interface{} form the spec parsers expect.
func normalizeYAML(in map[interface{}]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		key := fmt.Sprintf("%v", k)
		if sub, ok := v.(map[interface{}]interface{}); ok {
			out[key] = normalizeYAML(sub)
		} else {
			out[key] = v
		}
	}
	return out
}

// tensorShape returns the etensor shape for a space shape, mapping the
// scalar case to [1].
func tensorShape(shp []int) []int {
	if len(shp) == 0 {
		return []int{1}
	}
	return shp
}

func shapeLen(shp []int) int {
	n := 1
	for _, d := range shp {
		n *= d
	}
	return n
}

func batchShape(shp []int, n int) []int {
	return append([]int{n}, tensorShape(shp)...)
}
