/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/toolbox"
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

func newBoard() *board.Board {
	return board.New(board.Config{IDs: &canvas.SequenceSource{}, Measurer: charMeasurer{}})
}

func mustParse(t *testing.T, input string) Script {
	t.Helper()
	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %+v", errs)
	}
	return s
}

func TestRunDrawsAndWalksHistory(t *testing.T) {
	b := newBoard()
	s := mustParse(t, `tool pencil
down 0 0
move 10 10
move 20 0
up
tool rect
down 50 50
up 20 20
expect 2
undo
expect 1
redo
expect 2`)
	if err := Run(context.Background(), b, s); err != nil {
		t.Fatalf("run: %v", err)
	}
	objs := b.Objects()
	if objs[0].Kind != canvas.KindLine || objs[0].PointCount() != 3 {
		t.Fatalf("unexpected line %v", objs[0])
	}
	r := objs[1]
	if r.Kind != canvas.KindRect || r.X != 20 || r.Y != 20 || r.Width != 30 || r.Height != 30 {
		t.Fatalf("unexpected rect %v", r)
	}
}

func TestRunTextPlacementDragAndNudge(t *testing.T) {
	b := newBoard()
	s := mustParse(t, `tool text
down 10 10
type hi
blur
expect 1
tool select
open #1
grab drag 0 0
move 5 5
release
key right shift
tool pencil`)
	if err := Run(context.Background(), b, s); err != nil {
		t.Fatalf("run: %v", err)
	}
	o := b.Objects()[0]
	if o.Text != "hi" || o.X != 25 || o.Y != 15 {
		t.Fatalf("unexpected text object %v", o)
	}
	if st := b.Stats(); st.Snapshots != 4 {
		t.Fatalf("add, drag and nudge should commit once each: %+v", st)
	}
}

func TestRunToolSwitchEndsTextDrag(t *testing.T) {
	b := newBoard()
	s := mustParse(t, `tool text
down 10 10
type hi
blur
tool select
open #1
grab drag 0 0
tool pencil
down 0 0
move 5 5
up
expect 2`)
	if err := Run(context.Background(), b, s); err != nil {
		t.Fatalf("run: %v", err)
	}
	objs := b.Objects()
	if objs[0].X != 10 || objs[0].Y != 10 {
		t.Fatalf("text should not move after its drag ended: %v", objs[0])
	}
	if objs[1].Kind != canvas.KindLine || objs[1].PointCount() != 2 {
		t.Fatalf("moves after the tool switch should draw a stroke: %v", objs[1])
	}
}

func TestRunOptionsAndTransform(t *testing.T) {
	b := newBoard()
	s := mustParse(t, `option shape.fill #ff0000
tool circle
down 0 0
up 40 20
transform #1 100 100 45 2 0.1`)
	if err := Run(context.Background(), b, s); err != nil {
		t.Fatalf("run: %v", err)
	}
	c := b.Objects()[0]
	if c.Fill != "#ff0000" || c.X != 100 || c.Rotation != 45 || c.Width != 80 || c.Height != canvas.MinDimension {
		t.Fatalf("unexpected circle %v", c)
	}
}

func TestRunPreset(t *testing.T) {
	pack, err := toolbox.Parse([]byte(`{"name":"p","presets":[{"name":"marker","tool":"pencil","pencil":{"color":"#d62828","width":8}}]}`))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	b := newBoard()
	r := &Runner{Board: b, Presets: &pack}
	if err := r.Run(context.Background(), mustParse(t, "preset marker\ndown 0 0\nup")); err != nil {
		t.Fatalf("run: %v", err)
	}
	l := b.Objects()[0]
	if l.Color != "#d62828" || l.StrokeWidth != 8 {
		t.Fatalf("preset not applied: %v", l)
	}
	if err := Run(context.Background(), newBoard(), mustParse(t, "preset marker")); err == nil {
		t.Fatalf("preset without a pack must fail")
	}
}

func TestRunErrors(t *testing.T) {
	err := Run(context.Background(), newBoard(), mustParse(t, "tool select\nclick #3"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected out of range error on line 2, got %v", err)
	}
	err = Run(context.Background(), newBoard(), mustParse(t, "type hello"))
	if !errors.Is(err, ErrNoEditor) {
		t.Fatalf("expected ErrNoEditor, got %v", err)
	}
	err = Run(context.Background(), newBoard(), mustParse(t, "expect 1"))
	if err == nil {
		t.Fatalf("expect mismatch must fail")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := newBoard()
	err := Run(ctx, b, mustParse(t, "tool pencil\ndown 0 0\nup"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(b.Objects()) != 0 {
		t.Fatalf("no step should run after cancellation")
	}
}
