/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"strings"
	"testing"

	"sketchboard/internal/textedit"
)

func TestParseCommands(t *testing.T) {
	input := `# warm up
tool pencil
down 10 20
move 15.5 25
move -
up
; shapes
tool rect
down 0 0
up 40 30
click #1
dblclick obj-2
open #2
edit
type hello\nworld
escape
grab resize tl 5 6
release
grab drag 1 2
key left shift ctrl
transform #1 40 50 90 1 2
option text.font_size 32
preset big marker
undo
redo
delete
clear
expect 0`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(s.Steps) != 26 {
		t.Fatalf("expected 26 steps, got %d", len(s.Steps))
	}
	if st := s.Steps[0]; st.Op != OpTool || st.Word != "pencil" || st.Line != 2 {
		t.Fatalf("bad tool step: %+v", st)
	}
	if st := s.Steps[2]; st.Op != OpMove || st.Nums[0] != 15.5 || st.Nums[1] != 25 {
		t.Fatalf("bad move step: %+v", st)
	}
	if !s.Steps[3].Unavailable || !s.Steps[4].Unavailable {
		t.Fatalf("\"move -\" and bare \"up\" should be unavailable positions")
	}
	if st := s.Steps[7]; st.Op != OpUp || st.Unavailable || st.Nums[0] != 40 {
		t.Fatalf("bad up step: %+v", st)
	}
	if s.Steps[8].Word != "#1" || s.Steps[9].Word != "obj-2" {
		t.Fatalf("bad refs: %q %q", s.Steps[8].Word, s.Steps[9].Word)
	}
	if st := s.Steps[12]; st.Op != OpType || st.Value != "hello\nworld" {
		t.Fatalf("bad type step: %+v", st)
	}
	if s.Steps[13].Op != OpEndEdit {
		t.Fatalf("escape should end the edit")
	}
	if st := s.Steps[14]; st.Mode != textedit.Resizing || st.Corner != textedit.TopLeft || st.Nums[0] != 5 {
		t.Fatalf("bad grab step: %+v", st)
	}
	if st := s.Steps[16]; st.Mode != textedit.Dragging || st.Nums[1] != 2 {
		t.Fatalf("bad drag step: %+v", st)
	}
	if st := s.Steps[17]; st.Key != textedit.KeyLeft || !st.Mod || !st.Ctrl {
		t.Fatalf("bad key step: %+v", st)
	}
	if st := s.Steps[18]; len(st.Nums) != 5 || st.Nums[2] != 90 || st.Nums[4] != 2 {
		t.Fatalf("bad transform step: %+v", st)
	}
	if st := s.Steps[19]; st.Word != "text.font_size" || st.Value != "32" {
		t.Fatalf("bad option step: %+v", st)
	}
	if s.Steps[20].Word != "big marker" {
		t.Fatalf("preset names may contain spaces, got %q", s.Steps[20].Word)
	}
}

func TestParseResizeDefaultsToBottomRight(t *testing.T) {
	s, errs := Parse("grab resize 3 4")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Steps[0].Corner != textedit.BottomRight {
		t.Fatalf("default corner = %v", s.Steps[0].Corner)
	}
}

func TestParseTypeKeepsSpacing(t *testing.T) {
	s, errs := Parse("type   two  spaces\\\\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if got := s.Steps[0].Value; got != "  two  spaces\\n" {
		t.Fatalf("type value = %q", got)
	}
	s, _ = Parse("type")
	if s.Steps[0].Value != "" {
		t.Fatalf("bare type should clear the text")
	}
}

func TestParseReportsErrorsWithPosition(t *testing.T) {
	input := `tool brush
down 1
frobnicate
  move x 2
key sideways
option pencil.size 3
expect many
click #0
up 1 2 3`

	s, errs := Parse(input)
	if len(s.Steps) != 0 {
		t.Fatalf("no step should survive, got %d", len(s.Steps))
	}
	want := []Error{
		{Line: 1, Column: 6},
		{Line: 2, Column: 7},
		{Line: 3, Column: 1},
		{Line: 4, Column: 8},
		{Line: 5, Column: 5},
		{Line: 6, Column: 8},
		{Line: 7, Column: 8},
		{Line: 8, Column: 7},
		{Line: 9, Column: 8},
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d: %+v", len(want), len(errs), errs)
	}
	for i, w := range want {
		if errs[i].Line != w.Line || errs[i].Column != w.Column {
			t.Fatalf("error %d at %d:%d, want %d:%d (%s)", i, errs[i].Line, errs[i].Column, w.Line, w.Column, errs[i].Message)
		}
	}
	if !strings.Contains(errs[2].Error(), "unknown command") {
		t.Fatalf("unexpected message: %v", errs[2])
	}
}
