// Copyright (c) 2024, The YARL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agents

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pascalwhoop/yarl/components"
	"github.com/pascalwhoop/yarl/graphs"
	"gopkg.in/yaml.v2"
)

// DQNConfig configures a DQN agent.  The zero value of optional specs
// falls back to built-in defaults (uniform replay, linear epsilon
// decay, Adam).
type DQNConfig struct {
	Network      *graphs.NetworkSpec `json:"network"`
	Memory       components.Spec     `json:"memory,omitempty"`
	Exploration  components.Spec     `json:"exploration,omitempty"`
	Optimizer    components.Spec     `json:"optimizer,omitempty"`
	Discount     float32             `json:"discount"`
	BatchSize    int                 `json:"batch_size"`
	SyncInterval int                 `json:"sync_interval"`
	DoubleQ      bool                `json:"double_q"`
	DuelingQ     bool                `json:"dueling_q"`
}

// Defaults fills unset fields with standard DQN settings.
func (cfg *DQNConfig) Defaults() {
	if cfg.Discount == 0 {
		cfg.Discount = 0.98
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = 100
	}
	if cfg.Memory == nil {
		cfg.Memory = components.Spec{"type": "replay", "capacity": 10000}
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = components.Spec{"type": "adam", "learning_rate": 0.001}
	}
	if cfg.Exploration == nil {
		cfg.Exploration = components.Spec{}
	}
}

// OpenDQNConfig reads an agent config file, choosing the decoder from
// the extension (.json, .yaml, .yml).
func OpenDQNConfig(path string) (*DQNConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseDQNConfigYAML(data)
	case ".json":
		return ParseDQNConfigJSON(data)
	default:
		return nil, fmt.Errorf("agent config %s: unsupported extension", path)
	}
}

// ParseDQNConfigJSON decodes a config from JSON bytes.
func ParseDQNConfigJSON(data []byte) (*DQNConfig, error) {
	cfg := &DQNConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	cfg.Defaults()
	return cfg, nil
}

// ParseDQNConfigYAML decodes a config from YAML bytes by normalizing
// the document and routing it through the JSON decoder, so both
// formats share one set of parsing rules.
func ParseDQNConfigYAML(data []byte) (*DQNConfig, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	jb, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	return ParseDQNConfigJSON(jb)
}

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
