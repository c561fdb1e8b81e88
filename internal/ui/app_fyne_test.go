//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests drive the board canvas widget with synthetic events. They are
// gated behind the "fyne" build tag so headless CI does not need Fyne or a
// display. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/tool"
)

func newTestCanvas(t *testing.T) (*BoardCanvas, *board.Board) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	b := board.New(board.Config{IDs: &canvas.SequenceSource{}})
	c := NewBoardCanvas(b, "")
	c.Resize(fyne.NewSize(400, 300))
	return c, b
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
}

func TestBoardCanvasPencilStroke(t *testing.T) {
	c, b := newTestCanvas(t)
	b.SetTool(tool.Pencil)
	c.MouseDown(mouse(10, 10))
	c.MouseMoved(mouse(20, 20))
	c.MouseMoved(mouse(30, 10))
	c.MouseUp(mouse(30, 10))
	objs := b.Objects()
	if len(objs) != 1 || objs[0].PointCount() != 3 {
		t.Fatalf("expected one 3-point line, got %v", objs)
	}
}

func TestBoardCanvasMovesSelection(t *testing.T) {
	c, b := newTestCanvas(t)
	b.SetTool(tool.RectShape)
	c.MouseDown(mouse(10, 10))
	c.MouseUp(mouse(60, 40))
	b.SetTool(tool.Select)
	c.MouseDown(mouse(30, 20))
	c.MouseMoved(mouse(40, 30))
	c.MouseUp(mouse(40, 30))
	r := b.Objects()[0]
	if r.X != 20 || r.Y != 20 || r.Width != 50 {
		t.Fatalf("rect not moved: %v", r)
	}
	if st := b.Stats(); st.Snapshots != 3 {
		t.Fatalf("expected add and move commits, got %+v", st)
	}
}

func TestBoardCanvasTyping(t *testing.T) {
	c, b := newTestCanvas(t)
	b.SetTool(tool.Text)
	c.MouseDown(mouse(50, 50))
	c.MouseUp(mouse(50, 50))
	c.TypedRune('h')
	c.TypedRune('i')
	c.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	objs := b.Objects()
	if len(objs) != 1 || objs[0].Text != "hi" || objs[0].X != 50 {
		t.Fatalf("expected committed text, got %v", objs)
	}
}

func TestBoardCanvasLayout(t *testing.T) {
	c, b := newTestCanvas(t)
	b.SetTool(tool.RectShape)
	c.MouseDown(mouse(10, 10))
	c.MouseUp(mouse(60, 40))
	b.SetTool(tool.Select)
	c.MouseDown(mouse(30, 20))
	c.MouseUp(mouse(30, 20))

	r, ok := c.CreateRenderer().(*boardRenderer)
	if !ok {
		t.Fatalf("expected boardRenderer, got %T", c.CreateRenderer())
	}
	r.Layout(fyne.NewSize(400, 300))
	if b := r.img.Image.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("raster should cover the widget, got %v", b)
	}
	if !r.sel.Visible() {
		t.Fatalf("selection outline should be shown")
	}
	if pos := r.sel.Position(); pos.X > 10 || pos.Y > 10 {
		t.Fatalf("selection outline misplaced at %v", pos)
	}
}

func TestThemeFor(t *testing.T) {
	if themeFor("system") != nil || themeFor("") != nil {
		t.Fatalf("system theme should leave the default in place")
	}
	dark, ok := themeFor(" Dark ").(forcedVariant)
	if !ok || dark.variant != theme.VariantDark {
		t.Fatalf("dark theme not forced: %#v", themeFor("dark"))
	}
}
