/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board is the host of the interaction core: it owns the history,
// routes the tool machine's effects into commits and exposes what a renderer
// needs to draw.
package board

import (
	"log/slog"

	"sketchboard/internal/canvas"
	"sketchboard/internal/history"
	applog "sketchboard/internal/log"
	"sketchboard/internal/textedit"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/tool"
)

// Config wires a Board.
type Config struct {
	History  history.Config
	Options  *tool.Options
	IDs      canvas.IDSource
	Measurer textlayout.Measurer
}

// Board composes the history and the tool machine. It is driven from a single
// event loop and is not safe for concurrent use.
type Board struct {
	hist      *history.History
	machine   *tool.Machine
	status    string
	listeners []func()
	logger    *slog.Logger
}

// New returns an empty board with the select tool active.
func New(cfg Config) *Board {
	b := &Board{hist: history.New(cfg.History), logger: applog.WithComponent("board")}
	b.machine = tool.New(b.hist, (*effects)(b), tool.Config{
		IDs:      cfg.IDs,
		Measurer: cfg.Measurer,
		Options:  cfg.Options,
		OnStatus: func(s string) { b.status = s },
	})
	return b
}

// effects is the tool.Host view of a Board.
type effects Board

func (e *effects) OnAddObject(obj canvas.Object) {
	b := (*Board)(e)
	b.hist.Commit(b.hist.Current().With(obj))
	b.logger.Debug("add", slog.String("id", string(obj.ID)), slog.String("kind", obj.Kind.String()))
}

func (e *effects) OnUpdateObject(obj canvas.Object) {
	b := (*Board)(e)
	next, ok := b.hist.Current().Replace(obj)
	if !ok {
		b.logger.Warn("update target not found", slog.String("id", string(obj.ID)))
		return
	}
	b.hist.Commit(next)
	b.logger.Debug("update", slog.String("id", string(obj.ID)))
}

func (e *effects) OnRemoveObject(id canvas.ID) {
	b := (*Board)(e)
	next, ok := b.hist.Current().Without(id)
	if !ok {
		b.logger.Warn("remove target not found", slog.String("id", string(id)))
		return
	}
	b.hist.Commit(next)
	b.logger.Debug("remove", slog.String("id", string(id)))
}

func (e *effects) OnSelectionChange(id canvas.ID) {
	(*Board)(e).logger.Debug("selection", slog.String("id", string(id)))
}

// OnChange registers fn to run after every input the board handles.
func (b *Board) OnChange(fn func()) { b.listeners = append(b.listeners, fn) }

func (b *Board) changed() {
	for _, fn := range b.listeners {
		fn()
	}
}

// Machine exposes the tool machine for hosts that need its accessors.
func (b *Board) Machine() *tool.Machine { return b.machine }

func (b *Board) SetTool(k tool.Kind) {
	b.machine.SetTool(k)
	b.changed()
}

func (b *Board) Tool() tool.Kind { return b.machine.Tool() }

func (b *Board) SetOptions(o tool.Options) { b.machine.SetOptions(o) }
func (b *Board) Options() tool.Options     { return b.machine.Options() }

func (b *Board) PointerDown(p tool.Point) {
	b.machine.PointerDown(p)
	b.changed()
}

func (b *Board) PointerMove(p tool.Point) {
	b.machine.PointerMove(p)
	b.changed()
}

func (b *Board) PointerUp(p tool.Point) {
	b.machine.PointerUp(p)
	b.changed()
}

func (b *Board) Cancel() {
	b.machine.Cancel()
	b.changed()
}

func (b *Board) Click(id canvas.ID) {
	b.machine.Click(id)
	b.changed()
}

func (b *Board) DoubleClick(id canvas.ID) {
	b.machine.DoubleClick(id)
	b.changed()
}

// OpenText attaches an idle editor to a text object.
func (b *Board) OpenText(id canvas.ID) bool {
	ok := b.machine.OpenText(id)
	b.changed()
	return ok
}

func (b *Board) TransformEnd(id canvas.ID, t canvas.Transform) {
	b.machine.TransformEnd(id, t)
	b.changed()
}

func (b *Board) DeleteSelected() bool {
	ok := b.machine.DeleteSelected()
	b.changed()
	return ok
}

// Text forwards ev to the active text editor.
func (b *Board) Text(ev textedit.Event) bool {
	ok := b.machine.DispatchText(ev)
	if !ok {
		b.logger.Debug("text event without editor ignored")
	}
	b.changed()
	return ok
}

// Undo steps back one snapshot. Any gesture in progress is abandoned first.
func (b *Board) Undo() bool {
	b.machine.Cancel()
	ok := b.hist.Undo()
	b.machine.Revalidate()
	b.changed()
	return ok
}

// Redo steps forward one snapshot. Any gesture in progress is abandoned first.
func (b *Board) Redo() bool {
	b.machine.Cancel()
	ok := b.hist.Redo()
	b.machine.Revalidate()
	b.changed()
	return ok
}

// Clear empties the board and its history. It cannot be undone.
func (b *Board) Clear() {
	b.machine.Cancel()
	b.hist.Clear()
	b.machine.Revalidate()
	b.changed()
}

func (b *Board) CanUndo() bool { return b.hist.CanUndo() }
func (b *Board) CanRedo() bool { return b.hist.CanRedo() }

// Objects is the current snapshot.
func (b *Board) Objects() canvas.Objects { return b.hist.Current() }

// Visible is the current snapshot minus objects an editor overlay replaces.
func (b *Board) Visible() canvas.Objects {
	hidden := b.machine.Hidden()
	cur := b.hist.Current()
	if len(hidden) == 0 {
		return cur
	}
	out := make(canvas.Objects, 0, len(cur))
	for _, o := range cur {
		if !hidden[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

// Overlay returns the uncommitted objects a renderer draws on top: the stroke
// or shape being drawn and the text box being edited.
func (b *Board) Overlay() canvas.Objects {
	var out canvas.Objects
	if o, ok := b.machine.Preview(); ok {
		out = append(out, o)
	}
	if o, ok := b.machine.ShapePreview(); ok {
		out = append(out, o)
	}
	if o, ok := b.machine.ActiveTextObject(); ok {
		out = append(out, o)
	}
	return out
}

// Selection returns the selected id.
func (b *Board) Selection() (canvas.ID, bool) { return b.machine.Selected() }

// Status is the live status of the active text box, or "" when none is open.
func (b *Board) Status() string {
	if b.machine.ActiveText() == nil {
		return ""
	}
	return b.status
}

// Stats describes the history.
func (b *Board) Stats() history.Stats { return b.hist.Stats() }

// Timeline returns the retained snapshots up to and including the current one.
func (b *Board) Timeline() []canvas.Objects {
	snaps := b.hist.Snapshots()
	return snaps[:b.hist.Cursor()+1]
}
