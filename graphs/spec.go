// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pascalwhoop/yarl/components"
	"gopkg.in/yaml.v2"
)

// Endpoint names one end of a connection.  In the spec document an
// endpoint is either a bare string, which refers to a top-level socket
// of the network, or a [scope, socket] pair referring to a socket of a
// sub-component.
type Endpoint struct {
	Scope  string // sub-component scope; empty for top-level sockets
	Socket string
}

// IsTopLevel reports whether the endpoint names a network socket
// rather than a sub-component socket.
func (ep Endpoint) IsTopLevel() bool { return ep.Scope == "" }

func (ep Endpoint) String() string {
	if ep.IsTopLevel() {
		return ep.Socket
	}
	return ep.Scope + "/" + ep.Socket
}

func endpointFromAny(v interface{}) (Endpoint, error) {
	switch e := v.(type) {
	case string:
		return Endpoint{Socket: e}, nil
	case []interface{}:
		if len(e) != 2 {
			return Endpoint{}, fmt.Errorf("endpoint list must have exactly [scope, socket], got %d elements", len(e))
		}
		scope, ok1 := e[0].(string)
		sock, ok2 := e[1].(string)
		if !ok1 || !ok2 {
			return Endpoint{}, fmt.Errorf("endpoint [scope, socket] entries must be strings, got %v", e)
		}
		return Endpoint{Scope: scope, Socket: sock}, nil
	default:
		return Endpoint{}, fmt.Errorf("endpoint must be a string or a [scope, socket] list, got %T", v)
	}
}

func (ep *Endpoint) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e, err := endpointFromAny(raw)
	if err != nil {
		return err
	}
	*ep = e
	return nil
}

func (ep Endpoint) MarshalJSON() ([]byte, error) {
	if ep.IsTopLevel() {
		return json.Marshal(ep.Socket)
	}
	return json.Marshal([]string{ep.Scope, ep.Socket})
}

// Connection wires a producer endpoint to a consumer endpoint.  Its
// document form is a two-element list [from, to].
type Connection struct {
	From Endpoint
	To   Endpoint
}

func (cn *Connection) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return cn.fromList(raw)
}

func (cn *Connection) fromList(raw []interface{}) error {
	if len(raw) != 2 {
		return fmt.Errorf("connection must be a [from, to] pair, got %d elements", len(raw))
	}
	from, err := endpointFromAny(raw[0])
	if err != nil {
		return err
	}
	to, err := endpointFromAny(raw[1])
	if err != nil {
		return err
	}
	cn.From = from
	cn.To = to
	return nil
}

func (cn Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Endpoint{cn.From, cn.To})
}

// NetworkSpec is the declarative form of a network.
type NetworkSpec struct {
	Comment       string            `json:"comment,omitempty"`
	Scope         string            `json:"scope"`
	Inputs        []string          `json:"inputs"`
	Outputs       []string          `json:"outputs"`
	SubComponents []components.Spec `json:"sub_components"`
	Connections   []Connection      `json:"connections"`
}

// ParseNetworkSpecJSON decodes a network spec from JSON bytes.
func ParseNetworkSpecJSON(data []byte) (*NetworkSpec, error) {
	ns := &NetworkSpec{}
	if err := json.Unmarshal(data, ns); err != nil {
		return nil, fmt.Errorf("network spec: %w", err)
	}
	return ns, nil
}

// ParseNetworkSpecYAML decodes a network spec from YAML bytes.  The
// document is normalized and routed through the JSON decoder so both
// formats share one set of parsing rules.
func ParseNetworkSpecYAML(data []byte) (*NetworkSpec, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("network spec: %w", err)
	}
	jb, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("network spec: %w", err)
	}
	return ParseNetworkSpecJSON(jb)
}

// OpenNetworkSpec reads a spec file, choosing the decoder from the
// file extension (.json, .yaml, .yml).
func OpenNetworkSpec(path string) (*NetworkSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseNetworkSpecYAML(data)
	case ".json":
		return ParseNetworkSpecJSON(data)
	default:
		return nil, fmt.Errorf("network spec %s: unsupported extension", path)
	}
}

// normalizeYAML rewrites the map[interface{}]interface{} values that
// yaml.v2 produces into map[string]interface{} so they can round-trip
// through encoding/json.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(e)
		}
		return out
	case []interface{}:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}
