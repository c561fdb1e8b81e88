/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package toolbox loads tool preset packs: JSON files naming sets of tool
// options a user can switch between. Packs are validated against an embedded
// JSON schema before they are decoded.
package toolbox

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"sketchboard/internal/tool"
)

//go:embed schema.json
var schemaBytes []byte

// Preset is a named overlay of tool options, optionally selecting a tool.
type Preset struct {
	Name string `json:"name"`
	Tool string `json:"tool,omitempty"`
	tool.Options
}

// Pack is a named list of presets.
type Pack struct {
	Name    string   `json:"name"`
	Version int      `json:"version,omitempty"`
	Presets []Preset `json:"presets"`
}

// ErrNotFound is returned when a preset name is not in the pack.
var ErrNotFound = errors.New("preset not found")

// ValidationError lists schema violations of a pack.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid preset pack: " + strings.Join(e.Problems, "; ")
}

// Parse validates data against the pack schema and decodes it.
func Parse(data []byte) (Pack, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Pack{}, fmt.Errorf("validate preset pack: %w", err)
	}
	if !result.Valid() {
		ve := &ValidationError{}
		for _, e := range result.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return Pack{}, ve
	}
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return Pack{}, fmt.Errorf("decode preset pack: %w", err)
	}
	seen := map[string]bool{}
	for _, pr := range p.Presets {
		if seen[pr.Name] {
			return Pack{}, &ValidationError{Problems: []string{fmt.Sprintf("duplicate preset %q", pr.Name)}}
		}
		seen[pr.Name] = true
	}
	return p, nil
}

// Read parses a pack from r.
func Read(r io.Reader) (Pack, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Pack{}, fmt.Errorf("read preset pack: %w", err)
	}
	return Parse(data)
}

// Load parses the pack file at path.
func Load(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("read preset pack %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Names lists the preset names in pack order.
func (p Pack) Names() []string {
	out := make([]string, len(p.Presets))
	for i, pr := range p.Presets {
		out[i] = pr.Name
	}
	return out
}

// Find returns the preset called name.
func (p Pack) Find(name string) (Preset, error) {
	for _, pr := range p.Presets {
		if pr.Name == name {
			return pr, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q in pack %q", ErrNotFound, name, p.Name)
}

// UnmarshalJSON decodes onto tool.Unset so opacities the preset omits stay
// distinguishable from an explicit 0.
func (pr *Preset) UnmarshalJSON(data []byte) error {
	type plain Preset
	v := plain{Options: tool.Unset()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*pr = Preset(v)
	return nil
}

// Apply overlays the preset onto base. The returned tool is ok=false when the
// preset does not select one.
func (pr Preset) Apply(base tool.Options) (opts tool.Options, k tool.Kind, ok bool) {
	opts = base.Overlay(pr.Options)
	if pr.Tool == "" {
		return opts, tool.Select, false
	}
	k, err := tool.ParseKind(pr.Tool)
	return opts, k, err == nil
}
