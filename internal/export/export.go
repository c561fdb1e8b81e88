/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders an object set to PDF, SVG and PNG. Exporters draw in
// z-order, honor opacity and rotation, and treat erase-composite lines as
// removing everything beneath them.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"

	"sketchboard/internal/canvas"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/vector"
)

// Format names an output file type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatCBZ Format = "cbz"
)

// DefaultMargin is the space kept around the drawing when Options.Margin is unset.
const DefaultMargin = 16.0

// Options controls rendering common to all formats.
type Options struct {
	// Background colour; empty means white. "none" keeps SVG and PNG transparent.
	Background string
	// Margin around the union of object bounds, in canvas units.
	Margin float64
	// Scale is the PNG pixel density per canvas unit (default 1).
	Scale float64
	// Provider resolves text faces; nil uses the bundled Go fonts.
	Provider textlayout.Provider
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Background) == "" {
		o.Background = "#ffffff"
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Provider == nil {
		o.Provider = textlayout.DefaultGoProvider()
	}
	return o
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch f := Format(ext); f {
	case FormatPDF, FormatSVG, FormatPNG, FormatCBZ:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", ext)
}

// Write renders objs in format f.
func Write(w io.Writer, f Format, objs canvas.Objects, opts Options) error {
	switch f {
	case FormatPDF:
		return PDF(w, objs, opts)
	case FormatSVG:
		return SVG(w, objs, opts)
	case FormatPNG:
		return PNG(w, objs, opts)
	case FormatCBZ:
		return Flipbook(w, []canvas.Objects{objs}, opts)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteFile renders objs to path, choosing the format from its extension.
// Parent directories are created as needed.
func WriteFile(path string, objs canvas.Objects, opts Options) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { return Write(w, f, objs, opts) })
}

func writeFile(path string, render func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := render(fh); err != nil {
		_ = fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Frame is the canvas region an export covers: the bounds of every object
// plus the margin. An empty set yields a square of twice the margin centred
// on the origin.
func Frame(objs canvas.Objects, margin float64) vector.Rect {
	b, ok := canvas.BoundsAll(objs)
	if !ok {
		b = vector.Rect{}
	}
	return b.Inset(-margin, -margin)
}

func frameAll(sets []canvas.Objects, margin float64) vector.Rect {
	var all canvas.Objects
	for _, s := range sets {
		all = append(all, s...)
	}
	return Frame(all, margin)
}

func opacity(o canvas.Object) float64 {
	return math.Max(0, math.Min(1, o.Opacity))
}

// paint resolves a colour string; unparsable colours fall back to def.
func paint(s string, def vector.Color) vector.Color {
	return vector.MustColor(s, def)
}

// lineColor is the colour a line is drawn with when erasing means painting
// over with the background.
func lineColor(o canvas.Object, bg vector.Color) vector.Color {
	if o.Composite == canvas.CompositeErase {
		return bg
	}
	return paint(o.Color, vector.Black)
}

func fontSpec(o canvas.Object) textlayout.FontSpec {
	return textlayout.FontSpec{
		Family: o.FontFamily,
		Size:   o.FontSize,
		Weight: textlayout.ParseWeight(o.FontWeight),
	}
}

// textRun is one line of a text object with its baseline in object-local space.
type textRun struct {
	Text     string
	Baseline float64
}

func layoutText(o canvas.Object, p textlayout.Provider) (font.Face, []textRun) {
	face, m := p.Resolve(fontSpec(o))
	lines := strings.Split(o.Text, "\n")
	runs := make([]textRun, 0, len(lines))
	for i, ln := range lines {
		runs = append(runs, textRun{Text: ln, Baseline: m.Ascent + float64(i)*m.LineHeight()})
	}
	return face, runs
}

func points(o canvas.Object) []vector.Pt {
	pts := make([]vector.Pt, 0, o.PointCount())
	for i := 0; i+1 < len(o.Points); i += 2 {
		pts = append(pts, vector.Pt{X: o.Points[i] + o.X, Y: o.Points[i+1] + o.Y})
	}
	return pts
}
