/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "testing"

func sample() Objects {
	return Objects{
		{ID: "a", Kind: KindRect, X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "b", Kind: KindLine, Points: []float64{1, 2, 3, 4}},
	}
}

func TestObjectsWithCopies(t *testing.T) {
	s := sample()
	s2 := s.With(Object{ID: "c", Kind: KindText, Text: "hi"})
	if len(s) != 2 || len(s2) != 3 {
		t.Fatalf("unexpected lengths %d %d", len(s), len(s2))
	}
	if s2[2].ID != "c" {
		t.Fatalf("new object must be on top, got %v", s2.IDs())
	}
	s2[0].X = 99
	if s[0].X != 0 {
		t.Fatalf("With must not share backing array")
	}
}

func TestObjectsReplaceAndWithout(t *testing.T) {
	s := sample()
	r, ok := s.Replace(Object{ID: "a", Kind: KindRect, X: 5, Width: 10, Height: 10})
	if !ok || r[0].X != 5 || s[0].X != 0 {
		t.Fatalf("Replace mismatch: ok=%v new=%+v old=%+v", ok, r[0], s[0])
	}
	if r.Index("a") != 0 {
		t.Fatalf("Replace must keep z-order")
	}
	if _, ok := s.Replace(Object{ID: "zz"}); ok {
		t.Fatalf("Replace of missing id should report false")
	}
	w, ok := s.Without("a")
	if !ok || len(w) != 1 || w[0].ID != "b" || len(s) != 2 {
		t.Fatalf("Without mismatch: %v %v", ok, w.IDs())
	}
	if _, ok := s.Without("zz"); ok {
		t.Fatalf("Without of missing id should report false")
	}
}

func TestObjectCloneDeepCopiesPoints(t *testing.T) {
	s := sample()
	c := s.Clone()
	c[1].Points[0] = 42
	if s[1].Points[0] != 1 {
		t.Fatalf("Clone shares points")
	}
	l := s[1].AppendPoint(5, 6)
	if l.PointCount() != 3 || s[1].PointCount() != 2 {
		t.Fatalf("AppendPoint must copy: %v / %v", l.Points, s[1].Points)
	}
}

func TestFind(t *testing.T) {
	s := sample()
	if o, ok := s.Find("b"); !ok || o.Kind != KindLine {
		t.Fatalf("Find b = %+v %v", o, ok)
	}
	if _, ok := s.Find("nope"); ok {
		t.Fatalf("Find of missing id should fail")
	}
}

func TestSequenceSourceNeverRepeats(t *testing.T) {
	var s SequenceSource
	a, b := s.NewID(), s.NewID()
	if a == b || a != "obj-1" || b != "obj-2" {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
	u := UUIDSource{}
	if u.NewID() == u.NewID() {
		t.Fatalf("uuid source repeated")
	}
}
