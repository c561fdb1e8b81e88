/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the active tool.
type Kind int

const (
	Select Kind = iota
	Pencil
	Eraser
	Text
	RectShape
	CircleShape
)

var kindNames = map[Kind]string{
	Select:      "select",
	Pencil:      "pencil",
	Eraser:      "eraser",
	Text:        "text",
	RectShape:   "rect",
	CircleShape: "circle",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("tool(%d)", int(k))
}

// ParseKind maps a tool name to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return Select, fmt.Errorf("unknown tool %q", s)
}

// Kinds lists every tool in toolbar order.
func Kinds() []Kind { return []Kind{Select, Pencil, Eraser, Text, RectShape, CircleShape} }

func (k Kind) drawsFree() bool  { return k == Pencil || k == Eraser }
func (k Kind) drawsShape() bool { return k == RectShape || k == CircleShape }

type PencilOptions struct {
	Color   string  `json:"color" yaml:"color"`
	Width   float64 `json:"width" yaml:"width"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

type EraserOptions struct {
	Width   float64 `json:"width" yaml:"width"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

type ShapeOptions struct {
	Fill        string  `json:"fill" yaml:"fill"`
	Stroke      string  `json:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"stroke_width"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
}

type TextOptions struct {
	Color      string  `json:"color" yaml:"color"`
	FontSize   float64 `json:"fontSize" yaml:"font_size"`
	FontWeight string  `json:"fontWeight" yaml:"font_weight"`
	FontFamily string  `json:"fontFamily" yaml:"font_family"`
	Opacity    float64 `json:"opacity" yaml:"opacity"`
}

// Options is the per-family tool configuration. Values are copied into an
// object when it is created and used as given.
type Options struct {
	Pencil PencilOptions `json:"pencil" yaml:"pencil"`
	Eraser EraserOptions `json:"eraser" yaml:"eraser"`
	Shape  ShapeOptions  `json:"shape" yaml:"shape"`
	Text   TextOptions   `json:"text" yaml:"text"`
}

// DefaultOptions returns the built-in tool settings.
func DefaultOptions() Options {
	return Options{
		Pencil: PencilOptions{Color: "#1e1e1e", Width: 4, Opacity: 1},
		Eraser: EraserOptions{Width: 20, Opacity: 1},
		Shape:  ShapeOptions{Fill: "#ffffff", Stroke: "#1e1e1e", StrokeWidth: 2, Opacity: 1},
		Text:   TextOptions{Color: "#1e1e1e", FontSize: 24, FontWeight: "normal", FontFamily: "Go", Opacity: 1},
	}
}

// Unset returns options that leave every field alone when used as an
// Overlay top. Opacities are negative so that an explicit 0 can be told apart
// from a missing value; decode presets and config files into it.
func Unset() Options {
	return Options{
		Pencil: PencilOptions{Opacity: -1},
		Eraser: EraserOptions{Opacity: -1},
		Shape:  ShapeOptions{Opacity: -1},
		Text:   TextOptions{Opacity: -1},
	}
}

// Overlay returns o with every field set in top replacing its counterpart.
// Blank strings, sizes of zero or less and negative opacities in top leave
// o's value in place.
func (o Options) Overlay(top Options) Options {
	str := func(d *string, s string) {
		if strings.TrimSpace(s) != "" {
			*d = strings.TrimSpace(s)
		}
	}
	num := func(d *float64, s float64) {
		if s > 0 {
			*d = s
		}
	}
	str(&o.Pencil.Color, top.Pencil.Color)
	num(&o.Pencil.Width, top.Pencil.Width)
	alpha := func(d *float64, s float64) {
		if s >= 0 {
			*d = s
		}
	}
	alpha(&o.Pencil.Opacity, top.Pencil.Opacity)
	num(&o.Eraser.Width, top.Eraser.Width)
	alpha(&o.Eraser.Opacity, top.Eraser.Opacity)
	str(&o.Shape.Fill, top.Shape.Fill)
	str(&o.Shape.Stroke, top.Shape.Stroke)
	num(&o.Shape.StrokeWidth, top.Shape.StrokeWidth)
	alpha(&o.Shape.Opacity, top.Shape.Opacity)
	str(&o.Text.Color, top.Text.Color)
	num(&o.Text.FontSize, top.Text.FontSize)
	str(&o.Text.FontWeight, top.Text.FontWeight)
	str(&o.Text.FontFamily, top.Text.FontFamily)
	alpha(&o.Text.Opacity, top.Text.Opacity)
	return o
}

// Set assigns one option by dotted path, e.g. "pencil.color" or
// "text.font_size". Snake and camel case keys are both accepted. Sizes must
// be positive and opacities within [0, 1].
func (o *Options) Set(path, value string) error {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(path), "_", ""))
	value = strings.TrimSpace(value)
	strs := map[string]*string{
		"pencil.color":    &o.Pencil.Color,
		"shape.fill":      &o.Shape.Fill,
		"shape.stroke":    &o.Shape.Stroke,
		"text.color":      &o.Text.Color,
		"text.fontweight": &o.Text.FontWeight,
		"text.fontfamily": &o.Text.FontFamily,
	}
	if d, ok := strs[key]; ok {
		if value == "" {
			return fmt.Errorf("option %s: empty value", path)
		}
		*d = value
		return nil
	}
	nums := map[string]*float64{
		"pencil.width":      &o.Pencil.Width,
		"pencil.opacity":    &o.Pencil.Opacity,
		"eraser.width":      &o.Eraser.Width,
		"eraser.opacity":    &o.Eraser.Opacity,
		"shape.strokewidth": &o.Shape.StrokeWidth,
		"shape.opacity":     &o.Shape.Opacity,
		"text.fontsize":     &o.Text.FontSize,
		"text.opacity":      &o.Text.Opacity,
	}
	d, ok := nums[key]
	if !ok {
		return fmt.Errorf("unknown option %q", path)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("option %s: %w", path, err)
	}
	bad := v <= 0
	if strings.HasSuffix(key, ".opacity") {
		bad = v < 0 || v > 1
	}
	if bad {
		return fmt.Errorf("option %s: %g out of range", path, v)
	}
	*d = v
	return nil
}
