/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/fogleman/gg"

	"sketchboard/internal/canvas"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/vector"
)

// Image rasterizes objs at opts.Scale pixels per canvas unit. Objects are
// drawn on a transparent layer where erase lines punch holes, then the
// layer is placed over the background.
func Image(objs canvas.Objects, opts Options) image.Image {
	opts = opts.withDefaults()
	return rasterize(objs, Frame(objs, opts.Margin), opts)
}

// Render rasterizes the view rectangle of the canvas, for hosts that draw a
// viewport rather than the whole board.
func Render(objs canvas.Objects, view vector.Rect, opts Options) image.Image {
	return rasterize(objs, view, opts.withDefaults())
}

// PNG writes the rasterized objs as a PNG image.
func PNG(w io.Writer, objs canvas.Objects, opts Options) error {
	opts = opts.withDefaults()
	dc := gg.NewContextForImage(rasterize(objs, Frame(objs, opts.Margin), opts))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func rasterize(objs canvas.Objects, fr vector.Rect, opts Options) image.Image {
	pw := int(math.Max(1, math.Ceil(fr.W*opts.Scale)))
	ph := int(math.Max(1, math.Ceil(fr.H*opts.Scale)))
	newCtx := func() *gg.Context {
		dc := gg.NewContext(pw, ph)
		dc.Scale(opts.Scale, opts.Scale)
		dc.Translate(-fr.X, -fr.Y)
		dc.SetLineCapRound()
		dc.SetLineJoinRound()
		return dc
	}

	layer := newCtx()
	for _, o := range objs {
		switch {
		case erases(o):
			eraseLine(layer, newCtx(), o, opts.Scale)
		case o.Kind == canvas.KindLine:
			ggLine(layer, o, paint(o.Color, vector.Black), opts.Scale)
		case o.Kind == canvas.KindRect || o.Kind == canvas.KindCircle:
			ggBox(layer, o, opts.Scale)
		case o.Kind == canvas.KindText:
			ggText(layer, o, opts.Provider)
		}
	}

	out := gg.NewContext(pw, ph)
	if bg := paint(opts.Background, vector.White); !bg.IsNone() {
		out.SetColor(rgba(bg, 1))
		out.Clear()
	}
	out.DrawImage(layer.Image(), 0, 0)
	return out.Image()
}

// eraseLine removes the stroke of o from layer (destination-out), using
// scratch to rasterize the stroke coverage.
func eraseLine(layer, scratch *gg.Context, o canvas.Object, scale float64) {
	ggLine(scratch, o, vector.Black, scale)
	dst, ok := layer.Image().(draw.Image)
	if !ok {
		return
	}
	mask := scratch.AsMask()
	draw.DrawMask(dst, dst.Bounds(), image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
}

func ggLine(dc *gg.Context, o canvas.Object, c vector.Color, scale float64) {
	pts := points(o)
	if len(pts) == 0 {
		return
	}
	dc.SetColor(rgba(c, opacity(o)))
	if len(pts) == 1 {
		dc.DrawCircle(pts[0].X, pts[0].Y, o.StrokeWidth/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(o.StrokeWidth * scale)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func ggBox(dc *gg.Context, o canvas.Object, scale float64) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(o.X, o.Y)
	dc.Rotate(gg.Radians(o.Rotation))
	if o.Kind == canvas.KindCircle {
		dc.DrawEllipse(o.Width/2, o.Height/2, o.Width/2, o.Height/2)
	} else {
		dc.DrawRectangle(0, 0, o.Width, o.Height)
	}
	if fill := paint(o.Fill, vector.Transparent); !fill.IsNone() {
		dc.SetColor(rgba(fill, opacity(o)))
		dc.FillPreserve()
	}
	if st := paint(o.Stroke, vector.Transparent); !st.IsNone() && o.StrokeWidth > 0 {
		dc.SetColor(rgba(st, opacity(o)))
		dc.SetLineWidth(o.StrokeWidth * scale)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func ggText(dc *gg.Context, o canvas.Object, p textlayout.Provider) {
	face, runs := layoutText(o, p)
	dc.Push()
	defer dc.Pop()
	dc.Translate(o.X, o.Y)
	dc.Rotate(gg.Radians(o.Rotation))
	dc.SetFontFace(face)
	dc.SetColor(rgba(paint(o.Color, vector.Black), opacity(o)))
	for _, r := range runs {
		if r.Text != "" {
			dc.DrawString(r.Text, 0, r.Baseline)
		}
	}
}

func rgba(c vector.Color, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * alpha))}
}
