/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"sketchboard/internal/canvas"
	"sketchboard/internal/textedit"
	"sketchboard/internal/vector"
)

// Point is a canvas coordinate a renderer resolved, or Unavailable.
type Point struct {
	X, Y float64
	OK   bool
}

// At returns an available point.
func At(x, y float64) Point { return Point{X: x, Y: y, OK: true} }

// Unavailable is a pointer position the renderer could not resolve.
var Unavailable = Point{}

func (p Point) Pt() vector.Pt { return vector.Pt{X: p.X, Y: p.Y} }

// Gesture is the in-progress interaction of the machine. At most one exists.
type Gesture interface{ isGesture() }

type noGesture struct{}

// drawingLine holds the uncommitted preview of a pencil or eraser stroke.
type drawingLine struct{ preview canvas.Object }

type drawingShape struct {
	kind       canvas.Kind
	start, end vector.Pt
	opts       ShapeOptions
}

// placingText owns the text editor. template carries the identity and paint
// of the object being created or edited; last is the state last handed to the
// host for an existing object.
type placingText struct {
	editor   *textedit.Editor
	template canvas.Object
	existing bool
	last     textedit.State
}

func (noGesture) isGesture()    {}
func (drawingLine) isGesture()  {}
func (drawingShape) isGesture() {}
func (*placingText) isGesture() {}

// object builds the text object the editor state describes.
func (pt *placingText) object(s textedit.State) canvas.Object {
	o := pt.template.Clone()
	o.X, o.Y = s.X, s.Y
	o.Width, o.Height = s.Width, s.Height
	o.Text = s.Text
	o.FontSize = s.FontSize
	return o
}

func sameText(a, b textedit.State) bool {
	return a.X == b.X && a.Y == b.Y && a.Width == b.Width && a.Height == b.Height &&
		a.Text == b.Text && a.FontSize == b.FontSize
}
