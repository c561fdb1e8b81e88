/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textedit

import (
	"log/slog"

	applog "sketchboard/internal/log"
	"sketchboard/internal/textlayout"
)

// Callbacks receive an Editor's notifications. Nil callbacks are skipped.
type Callbacks struct {
	// OnUpdate fires whenever the box returns to Idle from another mode.
	OnUpdate func(State)
	// OnDone fires after OnUpdate when the mode left was Editing.
	OnDone func(State)
	// OnStatus fires with the live status whenever position or font size change.
	OnStatus func(string)
}

// Editor runs Reduce for one text box and performs its effects: measuring the
// text after each event, feeding the extents back, and notifying the host.
type Editor struct {
	state    State
	font     textlayout.FontSpec
	measurer textlayout.Measurer
	cb       Callbacks
	status   string
	logger   *slog.Logger
}

// NewEditor starts an editor on init. font supplies family, weight and slant
// for measurement; its size always follows the state. The initial extents are
// measured and the initial status published before NewEditor returns.
func NewEditor(init State, font textlayout.FontSpec, m textlayout.Measurer, cb Callbacks) *Editor {
	if m == nil {
		m = textlayout.FaceMeasurer{}
	}
	init.FontSize = ClampFontSize(init.FontSize)
	e := &Editor{state: init, font: font, measurer: m, cb: cb, logger: applog.WithComponent("textedit")}
	e.autoSize()
	e.publishStatus()
	return e
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Focused reports whether the text field has focus.
func (e *Editor) Focused() bool { return e.state.Mode == Editing }

// Status returns the last published live status.
func (e *Editor) Status() string { return e.status }

// Font returns the font the editor measures with, at the current size.
func (e *Editor) Font() textlayout.FontSpec {
	f := e.font
	f.Size = e.state.FontSize
	return f
}

// Dispatch applies ev and runs the resulting effects.
func (e *Editor) Dispatch(ev Event) {
	prev := e.state
	e.state = Reduce(prev, ev)
	e.autoSize()
	if e.state.Mode != prev.Mode {
		e.logger.Debug("mode", slog.String("from", prev.Mode.String()), slog.String("to", e.state.Mode.String()))
	}
	e.publishStatus()
	if prev.Mode != Idle && e.state.Mode == Idle {
		if e.cb.OnUpdate != nil {
			e.cb.OnUpdate(e.state)
		}
		if prev.Mode == Editing && e.cb.OnDone != nil {
			e.cb.OnDone(e.state)
		}
	}
}

func (e *Editor) autoSize() {
	w, h := e.measurer.Measure(e.state.Text, e.Font())
	e.state = Reduce(e.state, Resize{Width: w, Height: h})
}

func (e *Editor) publishStatus() {
	s := Status(e.state)
	if s == e.status {
		return
	}
	e.status = s
	if e.cb.OnStatus != nil {
		e.cb.OnStatus(s)
	}
}
