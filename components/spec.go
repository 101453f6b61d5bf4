// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"fmt"
)

// Spec carries the type-specific parameters of a sub-component as parsed
// from a JSON or YAML document.  Accessors tolerate the numeric types the
// decoders produce (float64 for JSON, int for YAML).
type Spec map[string]interface{}

// Type returns the component type entry, empty if missing.
func (sp Spec) Type() string {
	t, _ := sp["type"].(string)
	return t
}

// Scope returns the scope entry, empty if missing.
func (sp Spec) Scope() string {
	s, _ := sp["scope"].(string)
	return s
}

// Str returns the string value for key, or def if absent.
func (sp Spec) Str(key, def string) string {
	if v, ok := sp[key].(string); ok {
		return v
	}
	return def
}

// Int returns the integer value for key, or def if absent.
func (sp Spec) Int(key string, def int) int {
	switch v := sp[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return def
}

// Float returns the float value for key, or def if absent.
func (sp Spec) Float(key string, def float32) float32 {
	switch v := sp[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	case int64:
		return float32(v)
	}
	return def
}

// Bool returns the boolean value for key, or def if absent.
func (sp Spec) Bool(key string, def bool) bool {
	if v, ok := sp[key].(bool); ok {
		return v
	}
	return def
}

// Ints returns the integer list for key.  Single numbers are promoted to
// a one-element list, so "kernel_size": 3 and "kernel_size": [3, 3] both
// parse.
func (sp Spec) Ints(key string) []int {
	switch v := sp[key].(type) {
	case []interface{}:
		out := make([]int, len(v))
		for i, e := range v {
			out[i] = numToInt(e)
		}
		return out
	case []int:
		return v
	case nil:
		return nil
	default:
		return []int{numToInt(v)}
	}
}

// Sub returns the nested Spec under key, nil if absent.
func (sp Spec) Sub(key string) Spec {
	switch v := sp[key].(type) {
	case map[string]interface{}:
		return Spec(v)
	case Spec:
		return v
	case map[interface{}]interface{}: // yaml
		out := Spec{}
		for k, e := range v {
			out[fmt.Sprintf("%v", k)] = e
		}
		return out
	}
	return nil
}

func numToInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}
