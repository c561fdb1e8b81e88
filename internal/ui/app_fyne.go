//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/crash"
	"sketchboard/internal/export"
	applog "sketchboard/internal/log"
	"sketchboard/internal/textedit"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/tool"
	"sketchboard/internal/vector"
)

// Run opens the board in a desktop window and blocks until it is closed.
func Run(opts Options) error {
	b := opts.Board
	if b == nil {
		return fmt.Errorf("ui: no board to show")
	}
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover(crash.Options{Dir: opts.CrashDir, Describe: func() string { return describe(b) }})

	fyneApp := app.NewWithID("io.sketchboard")
	if th := themeFor(opts.Theme); th != nil {
		fyneApp.Settings().SetTheme(th)
	}
	w := fyneApp.NewWindow("Sketchboard")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	bc := NewBoardCanvas(b, opts.Background)

	names := make([]string, 0, len(tool.Kinds()))
	for _, k := range tool.Kinds() {
		names = append(names, k.String())
	}
	tools := widget.NewRadioGroup(names, func(s string) {
		if k, err := tool.ParseKind(s); err == nil {
			b.SetTool(k)
		}
		w.Canvas().Focus(bc)
	})
	tools.Horizontal = true
	tools.SetSelected(b.Tool().String())

	undoBtn := widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() { b.Undo() })
	redoBtn := widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), func() { b.Redo() })
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.ContentRemoveIcon(), func() { b.DeleteSelected() })
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear board", "Remove every object? This cannot be undone.", func(ok bool) {
			if ok {
				b.Clear()
			}
		}, w)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			if err := exportBoard(b, path, opts.Background); err != nil {
				l.Error("export failed", "path", path, "err", err)
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported " + filepath.Base(path))
		}, w)
		d.SetFileName("board.png")
		if opts.ExportDir != "" {
			if lister, err := fstorage.ListerForURI(fstorage.NewFileURI(opts.ExportDir)); err == nil {
				d.SetLocation(lister)
			}
		}
		d.Show()
	})

	bar := []fyne.CanvasObject{tools, widget.NewSeparator(), undoBtn, redoBtn, deleteBtn, clearBtn, exportBtn}
	if opts.Presets != nil {
		pack := *opts.Presets
		presetSel := widget.NewSelect(pack.Names(), func(name string) {
			pr, err := pack.Find(name)
			if err != nil {
				return
			}
			o, k, ok := pr.Apply(b.Options())
			b.SetOptions(o)
			if ok {
				tools.SetSelected(k.String())
			}
			w.Canvas().Focus(bc)
		})
		presetSel.PlaceHolder = "Preset"
		bar = append(bar, presetSel)
	}

	refresh := func() {
		bc.Refresh()
		setEnabled(undoBtn, b.CanUndo())
		setEnabled(redoBtn, b.CanRedo())
		_, selected := b.Selection()
		setEnabled(deleteBtn, selected)
		if s := b.Status(); s != "" {
			status.SetText(s)
			return
		}
		st := b.Stats()
		status.SetText(fmt.Sprintf("%d objects, snapshot %d of %d", st.Objects, st.Cursor+1, st.Snapshots))
	}
	b.OnChange(refresh)
	refresh()

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { b.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { b.Redo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) { b.Redo() })

	w.SetContent(container.NewBorder(container.NewHBox(bar...), status, nil, nil, bc))
	w.SetOnClosed(func() {
		size := w.Canvas().Size()
		prefs.SetInt("window.width", int(size.Width))
		prefs.SetInt("window.height", int(size.Height))
		l.Info("UI closed", "objects", len(b.Objects()))
	})
	w.Canvas().Focus(bc)
	w.ShowAndRun()
	return nil
}

func setEnabled(btn *widget.Button, on bool) {
	if on {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

func describe(b *board.Board) string {
	st := b.Stats()
	return fmt.Sprintf("tool=%s objects=%d snapshot=%d/%d", b.Tool(), st.Objects, st.Cursor+1, st.Snapshots)
}

func exportBoard(b *board.Board, path, background string) error {
	f, err := export.FormatOf(path)
	if err != nil {
		return err
	}
	opts := export.Options{Background: background}
	if f == export.FormatCBZ {
		return export.WriteFlipbook(path, b.Timeline(), opts)
	}
	return export.WriteFile(path, b.Objects(), opts)
}

type interaction int

const (
	interactNone interaction = iota
	interactTool
	interactText
	interactMove
	interactPan
)

// BoardCanvas draws a board and turns mouse and keyboard input into board
// calls. Objects are rasterized through the PNG exporter for the visible
// viewport; selection and text box handles are fyne overlays.
type BoardCanvas struct {
	widget.BaseWidget

	board      *board.Board
	view       View
	background string
	provider   textlayout.Provider

	shift, ctrl bool
	interact    interaction
	start       vector.Pt
	delta       vector.Pt
	panFrom     fyne.Position
	moving      canvas.ID
}

func NewBoardCanvas(b *board.Board, background string) *BoardCanvas {
	c := &BoardCanvas{board: b, view: View{Zoom: 1}, background: background, provider: textlayout.DefaultGoProvider()}
	c.ExtendBaseWidget(c)
	return c
}

// drawable is what the raster shows: the visible snapshot, with the object
// being moved displaced, plus previews.
func (c *BoardCanvas) drawable() canvas.Objects {
	vis := c.board.Visible()
	if c.interact == interactMove && c.moving != "" {
		if o, ok := vis.Find(c.moving); ok {
			moved := canvas.ApplyTransform(o, moveTransform(o, c.delta.X, c.delta.Y))
			vis, _ = vis.Replace(moved)
		}
	}
	return append(vis.Clone(), c.board.Overlay()...)
}

func (c *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	img := fcanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = fcanvas.ImageFillStretch
	img.ScaleMode = fcanvas.ImageScaleFastest

	sel := fcanvas.NewRectangle(color.Transparent)
	sel.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	sel.StrokeWidth = 1
	sel.Hide()

	box := fcanvas.NewRectangle(color.Transparent)
	box.StrokeColor = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	box.StrokeWidth = 1
	box.Hide()

	handles := make([]*fcanvas.Rectangle, 4)
	objs := []fyne.CanvasObject{img, sel, box}
	for i := range handles {
		h := fcanvas.NewRectangle(color.RGBA{R: 255, G: 140, B: 0, A: 255})
		h.Hide()
		handles[i] = h
		objs = append(objs, h)
	}
	return &boardRenderer{c: c, objects: objs, img: img, sel: sel, box: box, handles: handles}
}

func (c *BoardCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (c *BoardCanvas) point(pos fyne.Position) vector.Pt { return c.view.ToCanvas(pos.X, pos.Y) }

func (c *BoardCanvas) focus() {
	if a := fyne.CurrentApp(); a != nil {
		if cv := a.Driver().CanvasForObject(c); cv != nil {
			cv.Focus(c)
		}
	}
}

func (c *BoardCanvas) editor() (textedit.State, bool) {
	ed := c.board.Machine().ActiveText()
	if ed == nil {
		return textedit.State{}, false
	}
	return ed.State(), true
}

func (c *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	c.focus()
	if e.Button == desktop.MouseButtonSecondary {
		c.interact = interactPan
		c.panFrom = e.Position
		return
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := c.point(e.Position)
	b := c.board

	if s, ok := c.editor(); ok {
		if s.Mode == textedit.Idle {
			if corner, hit := handleAt(s, p, handleSize/c.view.zoom()); hit {
				b.Text(textedit.StartInteraction{Mode: textedit.Resizing, Pointer: p, Corner: corner})
				c.interact = interactText
				return
			}
			if textBox(s).Contains(p) {
				b.Text(textedit.StartInteraction{Mode: textedit.Dragging, Pointer: p})
				c.interact = interactText
				return
			}
		} else if s.Mode == textedit.Editing && textBox(s).Contains(p) {
			return
		}
	}

	if b.Tool() == tool.Select {
		b.PointerDown(tool.At(p.X, p.Y))
		id, ok := b.Selection()
		if !ok {
			return
		}
		if o, found := b.Objects().Find(id); found && o.Kind == canvas.KindText {
			if b.OpenText(id) {
				b.Text(textedit.StartInteraction{Mode: textedit.Dragging, Pointer: p})
				c.interact = interactText
			}
			return
		}
		c.interact = interactMove
		c.moving = id
		c.start = p
		c.delta = vector.Pt{}
		return
	}
	b.PointerDown(tool.At(p.X, p.Y))
	c.interact = interactTool
}

func (c *BoardCanvas) MouseMoved(e *desktop.MouseEvent) {
	p := c.point(e.Position)
	switch c.interact {
	case interactTool:
		c.board.PointerMove(tool.At(p.X, p.Y))
	case interactText:
		c.board.Text(textedit.PointerMove{Pointer: p})
	case interactMove:
		c.delta = vector.Pt{X: p.X - c.start.X, Y: p.Y - c.start.Y}
		c.Refresh()
	case interactPan:
		z := c.view.zoom()
		c.view.OffsetX -= float64(e.Position.X-c.panFrom.X) / z
		c.view.OffsetY -= float64(e.Position.Y-c.panFrom.Y) / z
		c.panFrom = e.Position
		c.Refresh()
	}
}

func (c *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	p := c.point(e.Position)
	mode := c.interact
	c.interact = interactNone
	switch mode {
	case interactTool:
		c.board.PointerUp(tool.At(p.X, p.Y))
	case interactText:
		c.board.Text(textedit.PointerUp{})
	case interactMove:
		if o, ok := c.board.Objects().Find(c.moving); ok && (c.delta.X != 0 || c.delta.Y != 0) {
			c.board.TransformEnd(o.ID, moveTransform(o, c.delta.X, c.delta.Y))
		}
		c.moving = ""
		c.delta = vector.Pt{}
		c.Refresh()
	}
}

func (c *BoardCanvas) MouseIn(*desktop.MouseEvent) {}
func (c *BoardCanvas) MouseOut()                   {}

func (c *BoardCanvas) DoubleTapped(e *fyne.PointEvent) {
	p := c.point(e.Position)
	if id, ok := canvas.HitTest(c.board.Visible(), p); ok {
		c.board.DoubleClick(id)
	}
}

func (c *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	factor := 1.1
	if e.Scrolled.DY < 0 {
		factor = 1 / factor
	}
	c.view = c.view.ZoomAt(e.Position.X, e.Position.Y, factor)
	c.Refresh()
}

func (c *BoardCanvas) FocusGained() {}
func (c *BoardCanvas) FocusLost()   {}

func (c *BoardCanvas) TypedRune(r rune) {
	if s, ok := c.editor(); ok && s.Mode == textedit.Editing {
		c.board.Text(textedit.TextChange{Text: typeRune(s.Text, r)})
	}
}

func (c *BoardCanvas) TypedKey(e *fyne.KeyEvent) {
	s, open := c.editor()
	editing := open && s.Mode == textedit.Editing
	switch e.Name {
	case fyne.KeyEscape:
		if editing {
			c.board.Text(textedit.EndEdit{})
		} else {
			c.board.Cancel()
		}
	case fyne.KeyBackspace:
		if editing {
			c.board.Text(textedit.TextChange{Text: backspace(s.Text)})
		} else {
			c.board.DeleteSelected()
		}
	case fyne.KeyDelete:
		if !editing {
			c.board.DeleteSelected()
		}
	case fyne.KeyReturn, fyne.KeyEnter:
		if editing {
			c.board.Text(textedit.TextChange{Text: typeRune(s.Text, '\n')})
		} else if open {
			c.board.Text(textedit.StartEdit{})
		}
	case fyne.KeyUp, fyne.KeyDown, fyne.KeyLeft, fyne.KeyRight:
		if k, ok := textedit.ParseKey(string(e.Name)); ok && open && s.Mode == textedit.Idle {
			c.board.Text(textedit.Nudge{Key: k, Modifier: c.shift, Ctrl: c.ctrl})
		}
	}
}

func (c *BoardCanvas) KeyDown(e *fyne.KeyEvent) { c.modifier(e.Name, true) }
func (c *BoardCanvas) KeyUp(e *fyne.KeyEvent)   { c.modifier(e.Name, false) }

func (c *BoardCanvas) modifier(name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		c.shift = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		c.ctrl = down
	}
}

type boardRenderer struct {
	c       *BoardCanvas
	objects []fyne.CanvasObject
	img     *fcanvas.Image
	sel     *fcanvas.Rectangle
	box     *fcanvas.Rectangle
	handles []*fcanvas.Rectangle
}

func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardRenderer) MinSize() fyne.Size           { return r.c.MinSize() }
func (r *boardRenderer) Refresh()                     { r.Layout(r.c.Size()) }

func (r *boardRenderer) Layout(size fyne.Size) {
	c := r.c
	if size.Width < 1 || size.Height < 1 {
		return
	}
	r.img.Image = export.Render(c.drawable(), c.view.Rect(size.Width, size.Height), export.Options{
		Background: c.background,
		Scale:      c.view.zoom(),
		Provider:   c.provider,
	})
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))
	r.img.Refresh()

	r.sel.Hide()
	if id, ok := c.board.Selection(); ok {
		if o, found := c.drawable().Find(id); found {
			r.place(r.sel, canvas.Bounds(o))
			r.sel.Show()
		}
	}
	r.sel.Refresh()

	s, open := c.editor()
	if !open {
		r.box.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		return
	}
	r.place(r.box, textBox(s))
	r.box.Show()
	r.box.Refresh()
	for i, pt := range textBox(s).Corners() {
		h := r.handles[i]
		x, y := c.view.ToScreen(pt)
		h.Resize(fyne.NewSize(handleSize, handleSize))
		h.Move(fyne.NewPos(x-handleSize/2, y-handleSize/2))
		if s.Mode == textedit.Editing {
			h.Hide()
		} else {
			h.Show()
		}
		h.Refresh()
	}
}

func (r *boardRenderer) place(rect *fcanvas.Rectangle, b vector.Rect) {
	x0, y0 := r.c.view.ToScreen(b.Min())
	x1, y1 := r.c.view.ToScreen(b.Max())
	rect.Move(fyne.NewPos(x0, y0))
	rect.Resize(fyne.NewSize(float32(math.Max(1, float64(x1-x0))), float32(math.Max(1, float64(y1-y0)))))
}

// forcedVariant pins the default theme to one variant regardless of the OS.
type forcedVariant struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (f forcedVariant) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(n, f.variant)
}

func themeFor(name string) fyne.Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	case "light":
		return forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	}
	return nil
}
