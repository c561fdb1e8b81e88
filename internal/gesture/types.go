/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture reads and replays scripts of board input events, one
// command per line. It drives a board headlessly for the CLI and for tests.
package gesture

import (
	"fmt"

	"sketchboard/internal/textedit"
)

// Script is a parsed gesture script.
type Script struct {
	Steps []Step
}

// Op is the command of a step.
type Op int

const (
	OpTool Op = iota
	OpDown
	OpMove
	OpUp
	OpCancel
	OpClick
	OpDoubleClick
	OpOpen
	OpEdit
	OpType
	OpEndEdit
	OpGrab
	OpRelease
	OpKey
	OpTransform
	OpUndo
	OpRedo
	OpClear
	OpDelete
	OpOption
	OpPreset
	OpExpect
)

var opNames = map[string]Op{
	"tool":      OpTool,
	"down":      OpDown,
	"move":      OpMove,
	"up":        OpUp,
	"cancel":    OpCancel,
	"click":     OpClick,
	"dblclick":  OpDoubleClick,
	"open":      OpOpen,
	"edit":      OpEdit,
	"type":      OpType,
	"blur":      OpEndEdit,
	"escape":    OpEndEdit,
	"grab":      OpGrab,
	"release":   OpRelease,
	"key":       OpKey,
	"transform": OpTransform,
	"undo":      OpUndo,
	"redo":      OpRedo,
	"clear":     OpClear,
	"delete":    OpDelete,
	"option":    OpOption,
	"preset":    OpPreset,
	"expect":    OpExpect,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o && name != "escape" {
			return name
		}
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Step is one command.
//
//	tool, option, preset: Word names the tool, option path or preset; Value holds the option value.
//	down, move, up:       Nums holds X Y; Unavailable marks "-" (no position).
//	click, dblclick, open, transform: Word is the object ref ("#N" or an id).
//	type:                 Value is the new text with \n escapes resolved.
//	grab:                 Mode is Dragging or Resizing, Corner the resize handle.
//	key:                  Key plus Mod (shift) and Ctrl.
//	expect:               Nums[0] is the expected object count.
type Step struct {
	Op          Op
	Line        int
	Word        string
	Value       string
	Nums        []float64
	Unavailable bool
	Mode        textedit.Mode
	Corner      textedit.Corner
	Key         textedit.Key
	Mod, Ctrl   bool
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message) }
