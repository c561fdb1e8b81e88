/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tool turns pointer input under the active tool into object
// creation, update and selection effects. The Machine never mutates the
// object set itself: it asks its Host to, and reads the result back through
// an ObjectSource.
package tool

import (
	"log/slog"
	"math"

	"sketchboard/internal/canvas"
	applog "sketchboard/internal/log"
	"sketchboard/internal/textedit"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/vector"
)

// Host applies the machine's effects, normally by committing to history.
type Host interface {
	OnAddObject(obj canvas.Object)
	OnUpdateObject(obj canvas.Object)
	OnRemoveObject(id canvas.ID)
	OnSelectionChange(id canvas.ID)
}

// ObjectSource provides the current object set.
type ObjectSource interface {
	Current() canvas.Objects
}

// Config wires the machine's collaborators. Zero values pick defaults.
type Config struct {
	IDs      canvas.IDSource
	Measurer textlayout.Measurer
	Options  *Options
	// OnStatus receives the live status of the active text box.
	OnStatus func(string)
}

// Machine is the tool input state machine. It is driven from a single event
// loop and is not safe for concurrent use.
type Machine struct {
	kind     Kind
	opts     Options
	gesture  Gesture
	selected canvas.ID

	src      ObjectSource
	host     Host
	ids      canvas.IDSource
	measurer textlayout.Measurer
	onStatus func(string)
	logger   *slog.Logger
}

// New returns a machine with the select tool active.
func New(src ObjectSource, host Host, cfg Config) *Machine {
	m := &Machine{
		kind:     Select,
		opts:     DefaultOptions(),
		gesture:  noGesture{},
		src:      src,
		host:     host,
		ids:      cfg.IDs,
		measurer: cfg.Measurer,
		onStatus: cfg.OnStatus,
		logger:   applog.WithComponent("tool"),
	}
	if cfg.Options != nil {
		m.opts = *cfg.Options
	}
	if m.ids == nil {
		m.ids = canvas.UUIDSource{}
	}
	if m.measurer == nil {
		m.measurer = textlayout.FaceMeasurer{}
	}
	return m
}

func (m *Machine) Tool() Kind       { return m.kind }
func (m *Machine) Options() Options { return m.opts }
func (m *Machine) Gesture() Gesture { return m.gesture }

// Selected returns the selected object id.
func (m *Machine) Selected() (canvas.ID, bool) { return m.selected, m.selected != "" }

// Preview returns the uncommitted stroke being drawn.
func (m *Machine) Preview() (canvas.Object, bool) {
	if g, ok := m.gesture.(drawingLine); ok {
		return g.preview, true
	}
	return canvas.Object{}, false
}

// ShapePreview returns the box of the shape being dragged out.
func (m *Machine) ShapePreview() (canvas.Object, bool) {
	if g, ok := m.gesture.(drawingShape); ok {
		return shapeObject(g, ""), true
	}
	return canvas.Object{}, false
}

// ActiveText returns the text editor, or nil.
func (m *Machine) ActiveText() *textedit.Editor {
	if g, ok := m.gesture.(*placingText); ok {
		return g.editor
	}
	return nil
}

// ActiveTextObject is the object the active editor would commit.
func (m *Machine) ActiveTextObject() (canvas.Object, bool) {
	if g, ok := m.gesture.(*placingText); ok {
		return g.object(g.editor.State()), true
	}
	return canvas.Object{}, false
}

// Hidden lists objects suppressed from the normal render path because an
// editor overlay shows them.
func (m *Machine) Hidden() map[canvas.ID]bool {
	if g, ok := m.gesture.(*placingText); ok && g.existing {
		return map[canvas.ID]bool{g.template.ID: true}
	}
	return nil
}

// SetTool switches tools. A preview is discarded, an active text edit is
// finished as if blurred and the selection is cleared.
func (m *Machine) SetTool(k Kind) {
	if k == m.kind {
		return
	}
	m.discardDrawing()
	m.finishText()
	m.setSelected("")
	m.kind = k
	m.logger.Debug("tool", slog.String("tool", k.String()))
}

// SetOptions replaces the tool options. Objects already created keep theirs.
func (m *Machine) SetOptions(o Options) { m.opts = o }

// PointerDown starts a gesture under the active tool.
func (m *Machine) PointerDown(p Point) {
	if !p.OK {
		m.logger.Debug("pointer down without position ignored")
		return
	}
	m.finishText()
	switch {
	case m.kind.drawsFree():
		m.beginLine(p)
	case m.kind == Text:
		m.setSelected("")
		m.placeText(p)
	case m.kind.drawsShape():
		kind := canvas.KindRect
		if m.kind == CircleShape {
			kind = canvas.KindCircle
		}
		m.gesture = drawingShape{kind: kind, start: p.Pt(), end: p.Pt(), opts: m.opts.Shape}
	default:
		if id, ok := canvas.HitTest(m.src.Current(), p.Pt()); ok {
			m.setSelected(id)
		} else {
			m.setSelected("")
		}
	}
}

func (m *Machine) beginLine(p Point) {
	obj := canvas.Object{ID: m.ids.NewID(), Kind: canvas.KindLine, Points: []float64{p.X, p.Y}}
	if m.kind == Eraser {
		obj.Color = "#000000"
		obj.StrokeWidth = m.opts.Eraser.Width
		obj.Opacity = m.opts.Eraser.Opacity
		obj.Composite = canvas.CompositeErase
	} else {
		obj.Color = m.opts.Pencil.Color
		obj.StrokeWidth = m.opts.Pencil.Width
		obj.Opacity = m.opts.Pencil.Opacity
		obj.Composite = canvas.CompositeNormal
	}
	m.gesture = drawingLine{preview: obj}
}

// PointerMove extends a stroke, a shape drag, or a text box drag or resize.
func (m *Machine) PointerMove(p Point) {
	if !p.OK {
		return
	}
	switch g := m.gesture.(type) {
	case drawingLine:
		g.preview = g.preview.AppendPoint(p.X, p.Y)
		m.gesture = g
	case drawingShape:
		g.end = p.Pt()
		m.gesture = g
	case *placingText:
		if mode := g.editor.State().Mode; mode == textedit.Dragging || mode == textedit.Resizing {
			g.editor.Dispatch(textedit.PointerMove{Pointer: p.Pt()})
		}
	}
}

// PointerUp completes the gesture in progress. A stroke is committed with the
// points gathered so far; the release position itself is not added.
func (m *Machine) PointerUp(p Point) {
	switch g := m.gesture.(type) {
	case drawingLine:
		m.gesture = noGesture{}
		if g.preview.PointCount() < 1 {
			m.logger.Debug("empty stroke discarded")
			return
		}
		m.host.OnAddObject(g.preview)
	case drawingShape:
		m.gesture = noGesture{}
		if p.OK {
			g.end = p.Pt()
		}
		m.host.OnAddObject(shapeObject(g, m.ids.NewID()))
	case *placingText:
		if mode := g.editor.State().Mode; mode == textedit.Dragging || mode == textedit.Resizing {
			g.editor.Dispatch(textedit.PointerUp{})
		}
	}
}

func shapeObject(g drawingShape, id canvas.ID) canvas.Object {
	r := vector.RectFromCorners(g.start, g.end)
	return canvas.Object{
		ID:          id,
		Kind:        g.kind,
		X:           r.X,
		Y:           r.Y,
		Width:       math.Max(r.W, canvas.MinDimension),
		Height:      math.Max(r.H, canvas.MinDimension),
		Fill:        g.opts.Fill,
		Stroke:      g.opts.Stroke,
		StrokeWidth: g.opts.StrokeWidth,
		Opacity:     g.opts.Opacity,
	}
}

// Cancel abandons the gesture in progress without committing anything.
func (m *Machine) Cancel() {
	switch m.gesture.(type) {
	case noGesture:
		return
	case *placingText:
		m.logger.Debug("text edit cancelled")
	}
	m.gesture = noGesture{}
}

func (m *Machine) discardDrawing() {
	switch m.gesture.(type) {
	case drawingLine, drawingShape:
		m.gesture = noGesture{}
	}
}

// Click selects id under the select tool. An empty or unknown id clears the
// selection.
func (m *Machine) Click(id canvas.ID) {
	if m.kind != Select {
		return
	}
	m.finishText()
	if _, ok := m.src.Current().Find(id); ok && id != "" {
		m.setSelected(id)
		return
	}
	m.setSelected("")
}

// DoubleClick opens a text object for editing under the select tool.
func (m *Machine) DoubleClick(id canvas.ID) {
	if m.OpenText(id) {
		m.ActiveText().Dispatch(textedit.StartEdit{})
	}
}

// OpenText attaches an idle editor to an existing text object so it can be
// dragged, resized or nudged. It reports false when id is not a text object
// or the select tool is not active.
func (m *Machine) OpenText(id canvas.ID) bool {
	if m.kind != Select {
		return false
	}
	m.finishText()
	obj, ok := m.src.Current().Find(id)
	if !ok || obj.Kind != canvas.KindText {
		m.logger.Debug("open text ignored", slog.String("id", string(id)))
		return false
	}
	m.setSelected("")
	st := textedit.State{X: obj.X, Y: obj.Y, Width: obj.Width, Height: obj.Height, Text: obj.Text, FontSize: obj.FontSize}
	m.startText(obj, true, st)
	return true
}

func (m *Machine) placeText(p Point) {
	o := m.opts.Text
	tmpl := canvas.Object{
		ID:         m.ids.NewID(),
		Kind:       canvas.KindText,
		Color:      o.Color,
		Opacity:    o.Opacity,
		FontWeight: o.FontWeight,
		FontFamily: o.FontFamily,
		FontSize:   o.FontSize,
	}
	m.startText(tmpl, false, textedit.State{X: p.X, Y: p.Y, FontSize: o.FontSize, Mode: textedit.Editing})
}

func (m *Machine) startText(tmpl canvas.Object, existing bool, st textedit.State) {
	pt := &placingText{template: tmpl, existing: existing}
	font := textlayout.FontSpec{
		Family: tmpl.FontFamily,
		Weight: textlayout.ParseWeight(tmpl.FontWeight),
	}
	pt.editor = textedit.NewEditor(st, font, m.measurer, textedit.Callbacks{
		OnUpdate: func(s textedit.State) { m.textUpdated(pt, s) },
		OnDone:   func(s textedit.State) { m.textDone(pt, s) },
		OnStatus: m.onStatus,
	})
	pt.last = pt.editor.State()
	m.gesture = pt
}

// DispatchText forwards ev to the active text editor. It reports false when
// no editor is open.
func (m *Machine) DispatchText(ev textedit.Event) bool {
	ed := m.ActiveText()
	if ed == nil {
		return false
	}
	ed.Dispatch(ev)
	return true
}

// textUpdated commits drag, resize and edit results of an existing object.
// New objects wait for textDone.
func (m *Machine) textUpdated(pt *placingText, s textedit.State) {
	if !pt.existing || s.Text == "" || sameText(pt.last, s) {
		return
	}
	pt.last = s
	m.host.OnUpdateObject(pt.object(s))
}

// textDone releases the editor and commits or discards its text.
func (m *Machine) textDone(pt *placingText, s textedit.State) {
	if m.isActive(pt) {
		m.gesture = noGesture{}
	}
	if s.Text == "" {
		m.logger.Debug("empty text discarded", slog.String("id", string(pt.template.ID)))
		return
	}
	if pt.existing {
		// textUpdated already handed the final state over.
		return
	}
	m.host.OnAddObject(pt.object(s))
}

// finishText ends the active text edit as if the field lost focus. An idle
// editor is released, committing any nudges not yet handed over.
func (m *Machine) finishText() {
	pt, ok := m.gesture.(*placingText)
	if !ok {
		return
	}
	ed := pt.editor
	switch ed.State().Mode {
	case textedit.Editing:
		ed.Dispatch(textedit.EndEdit{})
	case textedit.Dragging, textedit.Resizing:
		ed.Dispatch(textedit.PointerUp{})
	}
	if !m.isActive(pt) {
		return
	}
	m.gesture = noGesture{}
	if s := ed.State(); pt.existing && s.Text != "" && !sameText(pt.last, s) {
		m.host.OnUpdateObject(pt.object(s))
	}
}

func (m *Machine) isActive(pt *placingText) bool {
	cur, ok := m.gesture.(*placingText)
	return ok && cur == pt
}

// TransformEnd applies a renderer-reported transform to id.
func (m *Machine) TransformEnd(id canvas.ID, t canvas.Transform) {
	obj, ok := m.src.Current().Find(id)
	if !ok {
		m.logger.Warn("transform target not found", slog.String("id", string(id)))
		return
	}
	m.host.OnUpdateObject(canvas.ApplyTransform(obj, t))
}

// DeleteSelected removes the selected object. It reports whether anything
// was removed.
func (m *Machine) DeleteSelected() bool {
	id, ok := m.Selected()
	if !ok {
		return false
	}
	m.setSelected("")
	if _, found := m.src.Current().Find(id); !found {
		m.logger.Debug("selected object vanished", slog.String("id", string(id)))
		return false
	}
	m.host.OnRemoveObject(id)
	return true
}

// Revalidate drops the selection when its object is gone from the current
// set and abandons any gesture. Hosts call it after undo, redo or clear.
func (m *Machine) Revalidate() {
	m.Cancel()
	if id, ok := m.Selected(); ok {
		if _, found := m.src.Current().Find(id); !found {
			m.setSelected("")
		}
	}
}

func (m *Machine) setSelected(id canvas.ID) {
	if id == m.selected {
		return
	}
	m.selected = id
	m.host.OnSelectionChange(id)
}
