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
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"sketchboard/internal/canvas"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/vector"
	"sketchboard/internal/version"
)

// pdfFont is the family the bundled Go fonts are embedded under.
const pdfFont = "Go"

// PDF writes objs as a single-page PDF sized to their frame. Units are points,
// one per canvas unit. Text is set in the embedded Go fonts; erase lines are
// painted in the background colour.
func PDF(w io.Writer, objs canvas.Objects, opts Options) error {
	opts = opts.withDefaults()
	fr := Frame(objs, opts.Margin)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: fr.W, Ht: fr.H},
	})
	pdf.SetCreator("sketchboard "+version.String(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	bg := paint(opts.Background, vector.White)
	if !bg.IsNone() {
		setFillColor(pdf, bg)
		pdf.Rect(0, 0, fr.W, fr.H, "F")
	} else {
		bg = vector.White
	}

	pdf.TransformBegin()
	pdf.TransformTranslate(-fr.X, -fr.Y)
	for _, o := range objs {
		pdf.SetAlpha(opacity(o), "Normal")
		switch o.Kind {
		case canvas.KindLine:
			pdfLine(pdf, o, bg)
		case canvas.KindRect, canvas.KindCircle:
			pdfBox(pdf, o)
		case canvas.KindText:
			pdfText(pdf, o, opts.Provider)
		}
	}
	pdf.SetAlpha(1, "Normal")
	pdf.TransformEnd()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfLine(pdf *gofpdf.Fpdf, o canvas.Object, bg vector.Color) {
	pts := points(o)
	if len(pts) == 0 {
		return
	}
	c := lineColor(o, bg)
	if len(pts) == 1 {
		setFillColor(pdf, c)
		pdf.Circle(pts[0].X, pts[0].Y, o.StrokeWidth/2, "F")
		return
	}
	setDrawColor(pdf, c)
	pdf.SetLineWidth(o.StrokeWidth)
	pdf.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		pdf.LineTo(p.X, p.Y)
	}
	pdf.DrawPath("D")
}

func pdfBox(pdf *gofpdf.Fpdf, o canvas.Object) {
	fill := paint(o.Fill, vector.Transparent)
	stroke := paint(o.Stroke, vector.Transparent)
	style := ""
	if !fill.IsNone() {
		setFillColor(pdf, fill)
		style += "F"
	}
	if !stroke.IsNone() && o.StrokeWidth > 0 {
		setDrawColor(pdf, stroke)
		pdf.SetLineWidth(o.StrokeWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	pdf.TransformBegin()
	pdf.TransformRotate(-o.Rotation, o.X, o.Y)
	if o.Kind == canvas.KindCircle {
		pdf.Ellipse(o.X+o.Width/2, o.Y+o.Height/2, o.Width/2, o.Height/2, 0, style)
	} else {
		pdf.Rect(o.X, o.Y, o.Width, o.Height, style)
	}
	pdf.TransformEnd()
}

func pdfText(pdf *gofpdf.Fpdf, o canvas.Object, p textlayout.Provider) {
	style := ""
	if textlayout.ParseWeight(o.FontWeight) >= textlayout.WeightBold {
		style = "B"
	}
	pdf.SetFont(pdfFont, style, o.FontSize)
	c := paint(o.Color, vector.Black)
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	_, runs := layoutText(o, p)
	pdf.TransformBegin()
	pdf.TransformRotate(-o.Rotation, o.X, o.Y)
	for _, r := range runs {
		if r.Text != "" {
			pdf.Text(o.X, o.Y+r.Baseline, r.Text)
		}
	}
	pdf.TransformEnd()
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
