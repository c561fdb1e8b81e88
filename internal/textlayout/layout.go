/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures text the way the board renders it: non-wrapping,
// one line per '\n', at an arbitrary pixel size. It is the measurement surface
// text boxes derive their width and height from.
package textlayout

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font. Size is in canvas pixels.
type FontSpec struct {
	Family string // logical family name
	Size   float64
	Weight int // 100..900
	Italic bool
}

const (
	WeightNormal = 400
	WeightBold   = 700
)

// ParseWeight maps CSS-like weight names ("normal", "bold", "600") to a number.
func ParseWeight(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "regular":
		return WeightNormal
	case "bold":
		return WeightBold
	case "light":
		return 300
	case "medium":
		return 500
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return WeightNormal
		}
		n = n*10 + int(r-'0')
	}
	if n < 100 || n > 900 {
		return WeightNormal
	}
	return n
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineHeight is the vertical advance of one line.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Measurer reports the rendered extents of text at a font.
type Measurer interface {
	Measure(text string, font FontSpec) (w, h float64)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// It ignores the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
		LineGap: math.Max(0, fixedToFloat(m.Height)-fixedToFloat(m.Ascent)-fixedToFloat(m.Descent)),
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// FaceMeasurer measures with faces resolved through Provider
// (GoProvider when nil). Lines split on '\n'; width is the widest line and
// height is one line height per line. Empty text is zero wide and one line high.
type FaceMeasurer struct{ Provider Provider }

func (m FaceMeasurer) Measure(text string, spec FontSpec) (w, h float64) {
	p := m.Provider
	if p == nil {
		p = DefaultGoProvider()
	}
	face, met := p.Resolve(spec)
	lines := strings.Split(text, "\n")
	d := &font.Drawer{Face: face}
	for _, ln := range lines {
		w = math.Max(w, fixedToFloat(d.MeasureString(ln)))
	}
	h = float64(len(lines)) * met.LineHeight()
	return math.Ceil(w), math.Ceil(h)
}
