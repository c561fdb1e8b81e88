/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"math"

	"sketchboard/internal/vector"
)

const (
	// MinDimension is the smallest width or height a boxed object may have.
	MinDimension = 5.0
	// HitTolerance is the minimum pick distance around a line, in canvas units.
	HitTolerance = 4.0
	// Font sizes a transform may scale a text object to.
	MinFontSize = 8.0
	MaxFontSize = 150.0
)

// Transform is the final placement a renderer reports when a drag/resize/rotate
// gesture on an object ends. Scale factors are relative to the stored size.
type Transform struct {
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
}

// ApplyTransform bakes t into a new object. Boxed variants take the position
// and rotation and fold the scale into Width/Height (clamped to MinDimension),
// so the stored object always has unit scale. A Line has no anchor of its own:
// its points are translated by (t.X, t.Y) and rotation/scale are ignored.
// A Text box is derived from its text, so its vertical scale also goes into
// FontSize (clamped to [MinFontSize, MaxFontSize]); re-measuring then lands
// near the transformed box instead of snapping back.
func ApplyTransform(obj Object, t Transform) Object {
	out := obj.Clone()
	if obj.Kind == KindLine {
		for i := 0; i+1 < len(out.Points); i += 2 {
			out.Points[i] += t.X
			out.Points[i+1] += t.Y
		}
		out.X, out.Y = 0, 0
		return out
	}
	out.X, out.Y = t.X, t.Y
	out.Rotation = t.Rotation
	if obj.Kind.HasBox() {
		out.Width = clampDim(obj.Width * t.ScaleX)
		out.Height = clampDim(obj.Height * t.ScaleY)
	}
	if obj.Kind == KindText && obj.FontSize > 0 && t.ScaleY != 1 {
		out.FontSize = clampFont(obj.FontSize * t.ScaleY)
	}
	return out
}

func clampFont(v float64) float64 {
	if math.IsNaN(v) || v < MinFontSize {
		return MinFontSize
	}
	return math.Min(v, MaxFontSize)
}

func clampDim(v float64) float64 {
	if math.IsNaN(v) || v < MinDimension {
		return MinDimension
	}
	return v
}

// Shape returns the hit-testable outline of obj in canvas space.
func Shape(obj Object) vector.Shape {
	switch obj.Kind {
	case KindLine:
		pts := make([]vector.Pt, 0, obj.PointCount())
		for i := 0; i+1 < len(obj.Points); i += 2 {
			pts = append(pts, vector.Pt{X: obj.Points[i] + obj.X, Y: obj.Points[i+1] + obj.Y})
		}
		return vector.PolylineShape{Points: pts, Tolerance: math.Max(obj.StrokeWidth/2, HitTolerance)}
	case KindCircle:
		return vector.NewEllipse(vector.R(0, 0, obj.Width, obj.Height), Placement(obj))
	default:
		return vector.NewBox(vector.R(0, 0, obj.Width, obj.Height), Placement(obj))
	}
}

// Placement maps object-local coordinates to canvas space.
func Placement(obj Object) vector.Affine2D {
	return vector.Placement(obj.X, obj.Y, obj.Rotation)
}

// MatchesSelectionGeometry reports whether p lies on obj.
func MatchesSelectionGeometry(obj Object, p vector.Pt) bool { return Shape(obj).Hit(p) }

// HitTest returns the top-most object under p.
func HitTest(objs Objects, p vector.Pt) (ID, bool) {
	for i := len(objs) - 1; i >= 0; i-- {
		if MatchesSelectionGeometry(objs[i], p) {
			return objs[i].ID, true
		}
	}
	return "", false
}

// Bounds returns the axis-aligned bounds of obj in canvas space.
func Bounds(obj Object) vector.Rect { return Shape(obj).Bounds() }

// BoundsAll returns the union of the bounds of every object.
func BoundsAll(objs Objects) (vector.Rect, bool) {
	if len(objs) == 0 {
		return vector.Rect{}, false
	}
	b := Bounds(objs[0])
	for _, o := range objs[1:] {
		b = b.Union(Bounds(o))
	}
	return b, true
}
