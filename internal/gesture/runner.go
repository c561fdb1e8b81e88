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
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/log"
	"sketchboard/internal/textedit"
	"sketchboard/internal/tool"
	"sketchboard/internal/toolbox"
	"sketchboard/internal/vector"
)

// ErrNoEditor is returned by text commands when no text editor is open.
var ErrNoEditor = errors.New("no text editor open")

// Runner replays scripts against a board. Presets, when set, backs the
// preset command.
type Runner struct {
	Board   *board.Board
	Presets *toolbox.Pack
}

// Run replays s against b.
func Run(ctx context.Context, b *board.Board, s Script) error {
	return (&Runner{Board: b}).Run(ctx, s)
}

// Run executes the steps in order. It stops at the first failing step or
// when ctx is done, which is checked between steps.
func (r *Runner) Run(ctx context.Context, s Script) error {
	if r.Board == nil {
		return fmt.Errorf("gesture runner has no board")
	}
	ctx = log.ContextWithSource(ctx, "gesture")
	logger := log.WithComponent("gesture")
	for _, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("line %d: %w", st.Line, err)
		}
		logger.DebugContext(ctx, "step", slog.Int("line", st.Line), slog.String("op", st.Op.String()))
		if err := r.step(st); err != nil {
			return fmt.Errorf("line %d: %s: %w", st.Line, st.Op, err)
		}
	}
	return nil
}

func (r *Runner) step(st Step) error {
	b := r.Board
	switch st.Op {
	case OpTool:
		k, err := tool.ParseKind(st.Word)
		if err != nil {
			return err
		}
		b.SetTool(k)
	case OpDown:
		b.PointerDown(pointOf(st))
	case OpMove:
		if r.grabbed() {
			if st.Unavailable {
				return nil
			}
			return r.text(textedit.PointerMove{Pointer: pointOf(st).Pt()})
		}
		b.PointerMove(pointOf(st))
	case OpUp:
		if r.grabbed() {
			return r.text(textedit.PointerUp{})
		}
		b.PointerUp(pointOf(st))
	case OpCancel:
		b.Cancel()
	case OpClick, OpDoubleClick, OpOpen:
		id, err := r.resolve(st.Word)
		if err != nil {
			return err
		}
		switch st.Op {
		case OpClick:
			b.Click(id)
		case OpDoubleClick:
			b.DoubleClick(id)
		default:
			if !b.OpenText(id) {
				return fmt.Errorf("%s is not a text object", id)
			}
		}
	case OpEdit:
		return r.text(textedit.StartEdit{})
	case OpType:
		return r.text(textedit.TextChange{Text: st.Value})
	case OpEndEdit:
		return r.text(textedit.EndEdit{})
	case OpGrab:
		return r.text(textedit.StartInteraction{Mode: st.Mode, Pointer: vector.Pt{X: st.Nums[0], Y: st.Nums[1]}, Corner: st.Corner})
	case OpRelease:
		return r.text(textedit.PointerUp{})
	case OpKey:
		return r.text(textedit.Nudge{Key: st.Key, Modifier: st.Mod, Ctrl: st.Ctrl})
	case OpTransform:
		id, err := r.resolve(st.Word)
		if err != nil {
			return err
		}
		n := st.Nums
		b.TransformEnd(id, canvas.Transform{X: n[0], Y: n[1], Rotation: n[2], ScaleX: n[3], ScaleY: n[4]})
	case OpUndo:
		b.Undo()
	case OpRedo:
		b.Redo()
	case OpClear:
		b.Clear()
	case OpDelete:
		b.DeleteSelected()
	case OpOption:
		o := b.Options()
		if err := o.Set(st.Word, st.Value); err != nil {
			return err
		}
		b.SetOptions(o)
	case OpPreset:
		if r.Presets == nil {
			return fmt.Errorf("no preset pack loaded")
		}
		pr, err := r.Presets.Find(st.Word)
		if err != nil {
			return err
		}
		opts, k, ok := pr.Apply(b.Options())
		b.SetOptions(opts)
		if ok {
			b.SetTool(k)
		}
	case OpExpect:
		if want, got := int(st.Nums[0]), len(b.Objects()); want != got {
			return fmt.Errorf("want %d objects, have %d", want, got)
		}
	default:
		return fmt.Errorf("unsupported command")
	}
	return nil
}

// grabbed reports whether an open text box is being dragged or resized, in
// which case pointer moves and ups go to its editor.
func (r *Runner) grabbed() bool {
	ed := r.Board.Machine().ActiveText()
	if ed == nil {
		return false
	}
	mode := ed.State().Mode
	return mode == textedit.Dragging || mode == textedit.Resizing
}

func (r *Runner) text(ev textedit.Event) error {
	if !r.Board.Text(ev) {
		return ErrNoEditor
	}
	return nil
}

// resolve maps "#N" to the id of the N-th current object; other refs are ids.
func (r *Runner) resolve(ref string) (canvas.ID, error) {
	if !strings.HasPrefix(ref, "#") {
		return canvas.ID(ref), nil
	}
	n, err := strconv.Atoi(ref[1:])
	objs := r.Board.Objects()
	if err != nil || n < 1 || n > len(objs) {
		return "", fmt.Errorf("object %s out of range (%d objects)", ref, len(objs))
	}
	return objs[n-1].ID, nil
}

func pointOf(st Step) tool.Point {
	if st.Unavailable || len(st.Nums) < 2 {
		return tool.Unavailable
	}
	return tool.At(st.Nums[0], st.Nums[1])
}
