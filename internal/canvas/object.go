/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas defines the drawable objects of a board and the pure
// operations on them: transform application, hit-testing and bounds.
// Objects are values; every helper that changes a set returns a new slice.
package canvas

import "fmt"

// ID identifies an object for the lifetime of a session. IDs are never reused.
type ID string

// Kind tags the variant an Object holds.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindCircle
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HasBox reports whether the variant declares width and height.
func (k Kind) HasBox() bool { return k == KindRect || k == KindCircle || k == KindText }

// Composite is the compositing instruction of a Line.
type Composite int

const (
	CompositeNormal Composite = iota
	// CompositeErase subtracts the stroke from what was drawn below it.
	CompositeErase
)

func (c Composite) String() string {
	if c == CompositeErase {
		return "destination-out"
	}
	return "source-over"
}

// Object is a drawable entity. Which fields are meaningful depends on Kind:
//
//	Line:         Points, Color, StrokeWidth, Composite (X and Y stay 0)
//	Rect, Circle: Width, Height, Fill, Stroke, StrokeWidth, Rotation
//	Text:         Text, FontSize, FontWeight, FontFamily, Color, Width, Height, Rotation
//
// X and Y are the top-left anchor for boxed variants. Rotation is in degrees
// around that anchor.
type Object struct {
	ID       ID
	Kind     Kind
	X, Y     float64
	Opacity  float64
	Rotation float64

	// Line
	Points    []float64
	Composite Composite

	// shared paint
	Color       string
	StrokeWidth float64

	// Rect, Circle, Text
	Width, Height float64
	Fill          string
	Stroke        string

	// Text
	Text       string
	FontSize   float64
	FontWeight string
	FontFamily string
}

// Clone returns a copy that shares no memory with o.
func (o Object) Clone() Object {
	if o.Points != nil {
		o.Points = append([]float64(nil), o.Points...)
	}
	return o
}

// PointCount is the number of x,y pairs of a Line.
func (o Object) PointCount() int { return len(o.Points) / 2 }

// AppendPoint returns a copy of the line with (x,y) appended.
func (o Object) AppendPoint(x, y float64) Object {
	pts := make([]float64, len(o.Points), len(o.Points)+2)
	copy(pts, o.Points)
	o.Points = append(pts, x, y)
	return o
}

func (o Object) String() string {
	switch o.Kind {
	case KindLine:
		return fmt.Sprintf("%s %s points=%d %s", o.Kind, o.ID, o.PointCount(), o.Composite)
	case KindText:
		return fmt.Sprintf("%s %s at (%g,%g) %q size=%g", o.Kind, o.ID, o.X, o.Y, o.Text, o.FontSize)
	default:
		return fmt.Sprintf("%s %s at (%g,%g) %gx%g", o.Kind, o.ID, o.X, o.Y, o.Width, o.Height)
	}
}

// Objects is an ordered object set. Order is z-order; new objects append.
type Objects []Object

// Index returns the position of id or -1.
func (s Objects) Index(id ID) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the object with id.
func (s Objects) Find(id ID) (Object, bool) {
	if i := s.Index(id); i >= 0 {
		return s[i], true
	}
	return Object{}, false
}

// With returns a new set with obj appended on top.
func (s Objects) With(obj Object) Objects {
	out := make(Objects, len(s), len(s)+1)
	copy(out, s)
	return append(out, obj)
}

// Replace returns a new set where the object sharing obj's ID is replaced in
// place. It reports false, and returns s unchanged, when no such object exists.
func (s Objects) Replace(obj Object) (Objects, bool) {
	i := s.Index(obj.ID)
	if i < 0 {
		return s, false
	}
	out := make(Objects, len(s))
	copy(out, s)
	out[i] = obj
	return out, true
}

// Without returns a new set lacking id. It reports false when id is absent.
func (s Objects) Without(id ID) (Objects, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	out := make(Objects, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), true
}

// Clone deep-copies the set.
func (s Objects) Clone() Objects {
	if s == nil {
		return nil
	}
	out := make(Objects, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

// IDs lists the object ids in z-order.
func (s Objects) IDs() []ID {
	ids := make([]ID, len(s))
	for i := range s {
		ids[i] = s[i].ID
	}
	return ids
}
