/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textedit is the interaction machine of a single text box: dragging,
// resizing by font scaling, and editing. Reduce is a pure transition function;
// Editor runs it and performs measurement and notification effects.
package textedit

import (
	"fmt"
	"math"
	"strings"

	"sketchboard/internal/vector"
)

// Mode is the current gesture of a text box.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
	Editing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Corner names the resize handle a gesture started on.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "bottom-right"
	}
}

// ParseCorner accepts "tl", "top-left", "nw" and the like.
func ParseCorner(s string) (Corner, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tl", "nw", "top-left", "topleft":
		return TopLeft, true
	case "tr", "ne", "top-right", "topright":
		return TopRight, true
	case "bl", "sw", "bottom-left", "bottomleft":
		return BottomLeft, true
	case "br", "se", "bottom-right", "bottomright":
		return BottomRight, true
	}
	return BottomRight, false
}

func (c Corner) left() bool { return c == TopLeft || c == BottomLeft }
func (c Corner) top() bool  { return c == TopLeft || c == TopRight }

// Font size bounds and the resize sensitivity in points per pixel of extension.
const (
	MinFontSize       = 8.0
	MaxFontSize       = 150.0
	ResizeSensitivity = 0.2
)

// State is a text box and its interaction mode.
type State struct {
	X, Y          float64
	Width, Height float64
	Text          string
	FontSize      float64
	Mode          Mode

	g gesture
}

// gesture is what a drag or resize started from.
type gesture struct {
	pointer  vector.Pt
	boxX     float64
	boxY     float64
	fontSize float64
	corner   Corner
}

// Corner reports the handle of the resize in progress.
func (s State) Corner() (Corner, bool) { return s.g.corner, s.Mode == Resizing }

// Key is an arrow key.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
)

// ParseKey accepts "up", "down", "left", "right".
func ParseKey(s string) (Key, bool) {
	switch strings.ToLower(s) {
	case "up":
		return KeyUp, true
	case "down":
		return KeyDown, true
	case "left":
		return KeyLeft, true
	case "right":
		return KeyRight, true
	}
	return 0, false
}

// Event is an input to Reduce.
type Event interface{ isEvent() }

// StartInteraction begins a drag or a resize from a pointer position.
// Corner is only read for resizes.
type StartInteraction struct {
	Mode    Mode
	Pointer vector.Pt
	Corner  Corner
}

type PointerMove struct{ Pointer vector.Pt }

// PointerUp ends a drag or resize. Hosts also send it on a window-level mouse-up.
type PointerUp struct{}

type StartEdit struct{}

type TextChange struct{ Text string }

// EndEdit is a blur of the text field or Escape.
type EndEdit struct{}

// Nudge is an arrow key press. Modifier is shift; Ctrl switches to font sizing.
type Nudge struct {
	Key      Key
	Modifier bool
	Ctrl     bool
}

// Resize carries measured text extents back into the state.
type Resize struct{ Width, Height float64 }

func (StartInteraction) isEvent() {}
func (PointerMove) isEvent()      {}
func (PointerUp) isEvent()        {}
func (StartEdit) isEvent()        {}
func (TextChange) isEvent()       {}
func (EndEdit) isEvent()          {}
func (Nudge) isEvent()            {}
func (Resize) isEvent()           {}

// Reduce returns the state after ev. Events that do not apply in the current
// mode return s unchanged.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case StartInteraction:
		if s.Mode != Idle || (e.Mode != Dragging && e.Mode != Resizing) {
			return s
		}
		s.Mode = e.Mode
		s.g = gesture{pointer: e.Pointer, boxX: s.X, boxY: s.Y, fontSize: s.FontSize, corner: e.Corner}
	case PointerMove:
		dx := e.Pointer.X - s.g.pointer.X
		dy := e.Pointer.Y - s.g.pointer.Y
		switch s.Mode {
		case Dragging:
			s.X = s.g.boxX + dx
			s.Y = s.g.boxY + dy
		case Resizing:
			s.FontSize = ClampFontSize(s.g.fontSize + extension(s.g.corner, dx, dy)*ResizeSensitivity)
		}
	case PointerUp:
		if s.Mode == Dragging || s.Mode == Resizing {
			s.Mode = Idle
			s.g = gesture{}
		}
	case StartEdit:
		if s.Mode == Idle {
			s.Mode = Editing
		}
	case TextChange:
		if s.Mode == Editing {
			s.Text = e.Text
		}
	case EndEdit:
		if s.Mode == Editing {
			s.Mode = Idle
		}
	case Nudge:
		if s.Mode == Idle {
			s = nudge(s, e)
		}
	case Resize:
		if e.Width == s.Width && e.Height == s.Height {
			return s
		}
		if c, ok := s.Corner(); ok {
			if c.left() {
				s.X -= e.Width - s.Width
			}
			if c.top() {
				s.Y -= e.Height - s.Height
			}
		}
		s.Width, s.Height = e.Width, e.Height
	}
	return s
}

// extension folds a pointer delta into one growth value for the handle.
func extension(c Corner, dx, dy float64) float64 {
	switch c {
	case TopLeft:
		return -dx - dy
	case TopRight:
		return dx - dy
	case BottomLeft:
		return -dx + dy
	default:
		return dx + dy
	}
}

func nudge(s State, e Nudge) State {
	if e.Ctrl {
		step := 1.0
		if e.Modifier {
			step = 2
		}
		switch e.Key {
		case KeyUp:
			s.FontSize = ClampFontSize(s.FontSize + step)
		case KeyDown:
			s.FontSize = ClampFontSize(s.FontSize - step)
		}
		return s
	}
	step := 1.0
	if e.Modifier {
		step = 10
	}
	switch e.Key {
	case KeyUp:
		s.Y -= step
	case KeyDown:
		s.Y += step
	case KeyLeft:
		s.X -= step
	case KeyRight:
		s.X += step
	}
	return s
}

// ClampFontSize bounds v to [MinFontSize, MaxFontSize].
func ClampFontSize(v float64) float64 {
	return math.Max(MinFontSize, math.Min(MaxFontSize, v))
}

// Status is the live description announced to assistive technology.
func Status(s State) string {
	return fmt.Sprintf("Text box at x %d, y %d, font size %d",
		int(math.Round(s.X)), int(math.Round(s.Y)), int(math.Round(s.FontSize)))
}
