/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"strings"
	"testing"

	"sketchboard/internal/canvas"
	"sketchboard/internal/textedit"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/tool"
	"sketchboard/internal/vector"
)

type charMeasurer struct{}

func (charMeasurer) Measure(text string, f textlayout.FontSpec) (float64, float64) {
	lines := strings.Split(text, "\n")
	w := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > w {
			w = n
		}
	}
	return float64(w) * f.Size / 2, float64(len(lines)) * f.Size
}

func newBoard() *Board {
	return New(Config{IDs: &canvas.SequenceSource{}, Measurer: charMeasurer{}})
}

func stroke(b *Board, pts ...float64) {
	b.SetTool(tool.Pencil)
	b.PointerDown(tool.At(pts[0], pts[1]))
	for i := 2; i+1 < len(pts); i += 2 {
		b.PointerMove(tool.At(pts[i], pts[i+1]))
	}
	b.PointerUp(tool.Unavailable)
}

func TestCommitsEnableUndoNotRedo(t *testing.T) {
	b := newBoard()
	for i := 0; i < 4; i++ {
		stroke(b, float64(i), 0, float64(i), 10)
		if !b.CanUndo() || b.CanRedo() {
			t.Fatalf("after commit %d: canUndo=%v canRedo=%v", i, b.CanUndo(), b.CanRedo())
		}
	}
	if len(b.Objects()) != 4 {
		t.Fatalf("expected 4 objects, got %d", len(b.Objects()))
	}
}

func TestUndoRedoRestoresSet(t *testing.T) {
	b := newBoard()
	stroke(b, 10, 10, 20, 10, 30, 10)
	stroke(b, 0, 0, 5, 5)
	before := b.Objects().IDs()
	if !b.Undo() || len(b.Objects()) != 1 {
		t.Fatalf("undo should leave one object")
	}
	if !b.Redo() {
		t.Fatalf("redo failed")
	}
	after := b.Objects().IDs()
	if len(after) != len(before) || after[0] != before[0] || after[1] != before[1] {
		t.Fatalf("undo;redo changed the set: %v vs %v", after, before)
	}
	if b.Redo() {
		t.Fatalf("redo at the newest snapshot must report false")
	}
}

func TestClearResetsEverything(t *testing.T) {
	b := newBoard()
	stroke(b, 0, 0, 1, 1)
	b.SetTool(tool.Select)
	b.Click(b.Objects()[0].ID)
	b.Clear()
	if len(b.Objects()) != 0 || b.CanUndo() || b.CanRedo() || b.Stats().Cursor != 0 {
		t.Fatalf("clear must reset to an empty board: %+v", b.Stats())
	}
	if _, ok := b.Selection(); ok {
		t.Fatalf("selection of a cleared object must be dropped")
	}
}

func TestPlacedTextCommitsOnce(t *testing.T) {
	b := newBoard()
	b.SetTool(tool.Text)
	b.PointerDown(tool.At(50, 60))
	if b.Status() == "" {
		t.Fatalf("status should be live while editing")
	}
	if len(b.Overlay()) != 1 {
		t.Fatalf("editor should appear in the overlay")
	}
	b.Text(textedit.TextChange{Text: "Hi"})
	b.Text(textedit.EndEdit{})
	objs := b.Objects()
	if len(objs) != 1 || objs[0].Text != "Hi" || b.Stats().Snapshots != 2 {
		t.Fatalf("expected one committed text, got %v (%+v)", objs, b.Stats())
	}
	if b.Status() != "" {
		t.Fatalf("status clears when no editor is open")
	}
	if b.Text(textedit.TextChange{Text: "late"}) {
		t.Fatalf("text events without editor report false")
	}
}

func TestEditingHidesObjectAndUpdatesInPlace(t *testing.T) {
	b := newBoard()
	b.SetTool(tool.RectShape)
	b.PointerDown(tool.At(0, 0))
	b.PointerUp(tool.At(20, 20))
	b.SetTool(tool.Text)
	b.PointerDown(tool.At(100, 100))
	b.Text(textedit.TextChange{Text: "note"})
	b.Text(textedit.EndEdit{})
	b.SetTool(tool.Select)
	textID := b.Objects()[1].ID
	b.DoubleClick(textID)
	if len(b.Visible()) != 1 || b.Visible()[0].Kind != canvas.KindRect {
		t.Fatalf("edited text must be hidden from the visible set")
	}
	b.Text(textedit.TextChange{Text: "note!"})
	b.Text(textedit.EndEdit{})
	objs := b.Objects()
	if len(objs) != 2 || objs[1].ID != textID || objs[1].Text != "note!" {
		t.Fatalf("update must replace in place: %v", objs)
	}
	if len(b.Visible()) != 2 {
		t.Fatalf("object visible again after editing")
	}
}

func TestTopLeftResizeKeepsBottomRightThroughBoard(t *testing.T) {
	b := newBoard()
	b.SetTool(tool.Text)
	b.PointerDown(tool.At(100, 100))
	b.Text(textedit.TextChange{Text: "0123456789"})
	b.Text(textedit.EndEdit{})
	orig := b.Objects()[0]
	b.SetTool(tool.Select)
	b.OpenText(orig.ID)
	b.Text(textedit.StartInteraction{Mode: textedit.Resizing, Pointer: vector.Pt{X: 100, Y: 100}, Corner: textedit.TopLeft})
	b.PointerMove(tool.At(80, 70))
	b.PointerUp(tool.At(80, 70))
	got := b.Objects()[0]
	if got.FontSize <= orig.FontSize {
		t.Fatalf("font should grow: %v -> %v", orig.FontSize, got.FontSize)
	}
	if got.X+got.Width != orig.X+orig.Width || got.Y+got.Height != orig.Y+orig.Height {
		t.Fatalf("bottom-right corner moved: %+v vs %+v", got, orig)
	}
	if !b.Undo() || b.Objects()[0].FontSize != orig.FontSize {
		t.Fatalf("resize must be a single undoable commit")
	}
}

func TestSelectionThenTextEditClearsSelection(t *testing.T) {
	b := newBoard()
	stroke(b, 0, 0, 100, 0)
	b.SetTool(tool.Text)
	b.PointerDown(tool.At(10, 200))
	b.Text(textedit.TextChange{Text: "B"})
	b.Text(textedit.EndEdit{})
	b.SetTool(tool.Select)
	a := b.Objects()[0].ID
	b.Click(a)
	if id, _ := b.Selection(); id != a {
		t.Fatalf("A should be selected")
	}
	b.DoubleClick(b.Objects()[1].ID)
	if _, ok := b.Selection(); ok {
		t.Fatalf("editing B must clear A's selection")
	}
}

func TestTransformEndAndDelete(t *testing.T) {
	b := newBoard()
	b.SetTool(tool.RectShape)
	b.PointerDown(tool.At(0, 0))
	b.PointerUp(tool.At(100, 50))
	id := b.Objects()[0].ID
	b.TransformEnd(id, canvas.Transform{X: 10, Y: 10, ScaleX: 0.5, ScaleY: 0.01})
	r := b.Objects()[0]
	if r.Width != 50 || r.Height != canvas.MinDimension || r.X != 10 {
		t.Fatalf("unexpected transform %+v", r)
	}
	b.TransformEnd("ghost", canvas.Transform{ScaleX: 1, ScaleY: 1})
	if b.Stats().Snapshots != 3 {
		t.Fatalf("missing target must not commit: %+v", b.Stats())
	}
	b.SetTool(tool.Select)
	b.Click(id)
	if !b.DeleteSelected() || len(b.Objects()) != 0 {
		t.Fatalf("delete should remove the rect")
	}
	b.Undo()
	if len(b.Objects()) != 1 {
		t.Fatalf("delete must be undoable")
	}
}

func TestOnChangeAndOverlay(t *testing.T) {
	b := newBoard()
	n := 0
	b.OnChange(func() { n++ })
	b.SetTool(tool.Pencil)
	b.PointerDown(tool.At(1, 1))
	if len(b.Overlay()) != 1 {
		t.Fatalf("preview line should be in the overlay")
	}
	b.PointerUp(tool.At(1, 1))
	if n != 3 {
		t.Fatalf("expected 3 change notifications, got %d", n)
	}
}

func TestUndoCancelsInProgressStroke(t *testing.T) {
	b := newBoard()
	stroke(b, 0, 0, 1, 1)
	b.PointerDown(tool.At(5, 5))
	b.Undo()
	b.PointerUp(tool.At(6, 6))
	if len(b.Objects()) != 0 || b.CanRedo() != true {
		t.Fatalf("stroke in progress must be abandoned by undo")
	}
}
