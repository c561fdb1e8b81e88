/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"sketchboard/internal/canvas"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/vector"
)

// SVG writes objs as a standalone SVG document. Runs of erase lines become a
// luminance mask over everything drawn before them, so the background shows
// through where they pass.
func SVG(w io.Writer, objs canvas.Objects, opts Options) error {
	opts = opts.withDefaults()
	fr := Frame(objs, opts.Margin)

	var defs, body bytes.Buffer
	masks := 0
	for i := 0; i < len(objs); {
		if !erases(objs[i]) {
			svgObject(&body, objs[i], opts.Provider)
			i++
			continue
		}
		j := i
		for j < len(objs) && erases(objs[j]) {
			j++
		}
		masks++
		id := fmt.Sprintf("erase-%d", masks)
		fmt.Fprintf(&defs, "  <mask id=\"%s\" maskUnits=\"userSpaceOnUse\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\">\n", id, fr.X, fr.Y, fr.W, fr.H)
		fmt.Fprintf(&defs, "    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", fr.X, fr.Y, fr.W, fr.H)
		for _, o := range objs[i:j] {
			defs.WriteString("  ")
			svgLine(&defs, o, vector.Black)
		}
		defs.WriteString("  </mask>\n")
		inner := body.String()
		body.Reset()
		fmt.Fprintf(&body, "  <g mask=\"url(#%s)\">\n%s  </g>\n", id, inner)
		i = j
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%g\" height=\"%g\" viewBox=\"%g %g %g %g\">\n", fr.W, fr.H, fr.X, fr.Y, fr.W, fr.H)
	if defs.Len() > 0 {
		wf("  <defs>\n%s  </defs>\n", defs.String())
	}
	if bg := paint(opts.Background, vector.White); !bg.IsNone() {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s/>\n", fr.X, fr.Y, fr.W, fr.H, paintAttr("fill", bg))
	}
	wf("%s", body.String())
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func erases(o canvas.Object) bool {
	return o.Kind == canvas.KindLine && o.Composite == canvas.CompositeErase
}

func svgObject(buf *bytes.Buffer, o canvas.Object, p textlayout.Provider) {
	switch o.Kind {
	case canvas.KindLine:
		svgLine(buf, o, paint(o.Color, vector.Black))
	case canvas.KindRect:
		fmt.Fprintf(buf, "  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\"%s%s%s/>\n",
			o.Width, o.Height, placeAttr(o), boxPaint(o), opacityAttr(o))
	case canvas.KindCircle:
		fmt.Fprintf(buf, "  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\"%s%s%s/>\n",
			o.Width/2, o.Height/2, o.Width/2, o.Height/2, placeAttr(o), boxPaint(o), opacityAttr(o))
	case canvas.KindText:
		family := o.FontFamily
		if family == "" {
			family = textlayout.GoFamily
		}
		fmt.Fprintf(buf, "  <text%s font-family=\"%s, sans-serif\" font-size=\"%g\" font-weight=\"%d\"%s%s xml:space=\"preserve\">",
			placeAttr(o), escAttr(family), o.FontSize, textlayout.ParseWeight(o.FontWeight),
			paintAttr("fill", paint(o.Color, vector.Black)), opacityAttr(o))
		_, runs := layoutText(o, p)
		for _, r := range runs {
			fmt.Fprintf(buf, "<tspan x=\"0\" y=\"%g\">%s</tspan>", r.Baseline, escText(r.Text))
		}
		buf.WriteString("</text>\n")
	}
}

func svgLine(buf *bytes.Buffer, o canvas.Object, c vector.Color) {
	pts := points(o)
	switch len(pts) {
	case 0:
		return
	case 1:
		fmt.Fprintf(buf, "  <circle cx=\"%g\" cy=\"%g\" r=\"%g\"%s%s/>\n",
			pts[0].X, pts[0].Y, o.StrokeWidth/2, paintAttr("fill", c), opacityAttr(o))
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	fmt.Fprintf(buf, "  <polyline points=\"%s\" fill=\"none\"%s stroke-width=\"%g\" stroke-linecap=\"round\" stroke-linejoin=\"round\"%s/>\n",
		strings.Join(coords, " "), paintAttr("stroke", c), o.StrokeWidth, opacityAttr(o))
}

func placeAttr(o canvas.Object) string {
	if o.Rotation == 0 {
		return fmt.Sprintf(" transform=\"translate(%g %g)\"", o.X, o.Y)
	}
	return fmt.Sprintf(" transform=\"translate(%g %g) rotate(%g)\"", o.X, o.Y, o.Rotation)
}

func boxPaint(o canvas.Object) string {
	s := paintAttr("fill", paint(o.Fill, vector.Transparent))
	if st := paint(o.Stroke, vector.Transparent); !st.IsNone() && o.StrokeWidth > 0 {
		s += paintAttr("stroke", st) + fmt.Sprintf(" stroke-width=\"%g\"", o.StrokeWidth)
	}
	return s
}

func paintAttr(name string, c vector.Color) string {
	switch {
	case c.IsNone():
		return fmt.Sprintf(" %s=\"none\"", name)
	case c.A < 255:
		return fmt.Sprintf(" %s=\"%s\" %s-opacity=\"%.3g\"", name, c.Hex(), name, float64(c.A)/255)
	}
	return fmt.Sprintf(" %s=\"%s\"", name, c.Hex())
}

func opacityAttr(o canvas.Object) string {
	if a := opacity(o); a < 1 {
		return fmt.Sprintf(" opacity=\"%g\"", a)
	}
	return ""
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
