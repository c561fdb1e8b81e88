/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Shape is a hit-testable outline in canvas space.
type Shape interface {
	Bounds() Rect
	Hit(p Pt) bool
}

// BoxShape is an axis-aligned box in local coordinates placed by Xf.
type BoxShape struct {
	Local Rect
	Xf    Affine2D
}

func NewBox(local Rect, xf Affine2D) BoxShape { return BoxShape{Local: local, Xf: xf} }

func (b BoxShape) Bounds() Rect { return transformedBounds(b.Local, b.Xf) }

func (b BoxShape) Hit(p Pt) bool {
	q := b.Xf.Invert().Apply(p)
	return b.Local.Contains(q)
}

// EllipseShape is the ellipse inscribed in Local, placed by Xf.
type EllipseShape struct {
	Local Rect
	Xf    Affine2D
}

func NewEllipse(local Rect, xf Affine2D) EllipseShape { return EllipseShape{Local: local, Xf: xf} }

func (e EllipseShape) Bounds() Rect { return transformedBounds(e.Local, e.Xf) }

func (e EllipseShape) Hit(p Pt) bool {
	q := e.Xf.Invert().Apply(p)
	// point-in-ellipse: ((x-cx)/rx)^2 + ((y-cy)/ry)^2 <= 1
	c := e.Local.Center()
	rx := e.Local.W / 2
	ry := e.Local.H / 2
	if rx == 0 || ry == 0 {
		return false
	}
	dx := (q.X - c.X) / rx
	dy := (q.Y - c.Y) / ry
	return dx*dx+dy*dy <= 1
}

// PolylineShape is an open polyline hit within Tolerance of any segment.
// A single point is hit within Tolerance of that point.
type PolylineShape struct {
	Points    []Pt
	Tolerance float64
}

func (l PolylineShape) Bounds() Rect {
	return BoundsOf(l.Points...).Inset(-l.Tolerance, -l.Tolerance)
}

func (l PolylineShape) Hit(p Pt) bool {
	switch len(l.Points) {
	case 0:
		return false
	case 1:
		return DistToSegment(p, l.Points[0], l.Points[0]) <= l.Tolerance
	}
	for i := 1; i < len(l.Points); i++ {
		if DistToSegment(p, l.Points[i-1], l.Points[i]) <= l.Tolerance {
			return true
		}
	}
	return false
}

func transformedBounds(r Rect, xf Affine2D) Rect {
	c := r.Corners()
	return BoundsOf(xf.Apply(c[0]), xf.Apply(c[1]), xf.Apply(c[2]), xf.Apply(c[3]))
}
