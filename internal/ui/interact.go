/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"
	"unicode/utf8"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/textedit"
	"sketchboard/internal/toolbox"
	"sketchboard/internal/vector"
)

// Options configures the desktop host.
type Options struct {
	Board      *board.Board
	Presets    *toolbox.Pack
	ExportDir  string
	CrashDir   string
	Background string
	// Theme is "light", "dark" or "system".
	Theme string
}

const (
	minZoom = 0.1
	maxZoom = 8.0
	// handleSize is the pick radius of text box corner handles in screen pixels.
	handleSize = 8.0
)

// View maps widget pixels to canvas coordinates.
type View struct {
	OffsetX, OffsetY float64
	Zoom             float64
}

func (v View) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v View) ToCanvas(x, y float32) vector.Pt {
	z := v.zoom()
	return vector.Pt{X: float64(x)/z + v.OffsetX, Y: float64(y)/z + v.OffsetY}
}

func (v View) ToScreen(p vector.Pt) (x, y float32) {
	z := v.zoom()
	return float32((p.X - v.OffsetX) * z), float32((p.Y - v.OffsetY) * z)
}

// Rect is the canvas region visible in a w by h pixel widget.
func (v View) Rect(w, h float32) vector.Rect {
	z := v.zoom()
	return vector.R(v.OffsetX, v.OffsetY, float64(w)/z, float64(h)/z)
}

// ZoomAt scales by factor keeping the canvas point under (x,y) fixed.
func (v View) ZoomAt(x, y float32, factor float64) View {
	anchor := v.ToCanvas(x, y)
	nz := math.Max(minZoom, math.Min(maxZoom, v.zoom()*factor))
	return View{
		Zoom:    nz,
		OffsetX: anchor.X - float64(x)/nz,
		OffsetY: anchor.Y - float64(y)/nz,
	}
}

func textBox(s textedit.State) vector.Rect { return vector.R(s.X, s.Y, s.Width, s.Height) }

// handleAt reports the corner handle of the text box within tol of p.
func handleAt(s textedit.State, p vector.Pt, tol float64) (textedit.Corner, bool) {
	c := textBox(s).Corners()
	for i, corner := range []textedit.Corner{textedit.TopLeft, textedit.TopRight, textedit.BottomRight, textedit.BottomLeft} {
		if math.Abs(p.X-c[i].X) <= tol && math.Abs(p.Y-c[i].Y) <= tol {
			return corner, true
		}
	}
	return 0, false
}

// moveTransform is the transform that moves o by (dx,dy) keeping its
// rotation and size. Lines take the offset itself.
func moveTransform(o canvas.Object, dx, dy float64) canvas.Transform {
	if o.Kind == canvas.KindLine {
		return canvas.Transform{X: dx, Y: dy, ScaleX: 1, ScaleY: 1}
	}
	return canvas.Transform{X: o.X + dx, Y: o.Y + dy, Rotation: o.Rotation, ScaleX: 1, ScaleY: 1}
}

func typeRune(text string, r rune) string { return text + string(r) }

func backspace(text string) string {
	if text == "" {
		return text
	}
	_, n := utf8.DecodeLastRuneInString(text)
	return text[:len(text)-n]
}
