/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/fogleman/gg"

	"sketchboard/internal/canvas"
	"sketchboard/internal/version"
)

// Flipbook packages one PNG per object set into a CBZ (ZIP) archive, named
// 1.png, 2.png, ... with zero padding, plus a ComicInfo.xml manifest so comic
// readers page through a board's history in order. All frames share one
// frame rectangle so successive pages line up.
func Flipbook(w io.Writer, frames []canvas.Objects, opts Options) error {
	if len(frames) == 0 {
		return fmt.Errorf("flipbook needs at least one frame")
	}
	opts = opts.withDefaults()
	fr := frameAll(frames, opts.Margin)

	zw := zip.NewWriter(w)
	pad := len(fmt.Sprint(len(frames)))
	imgBuf := &bytes.Buffer{}
	for i, objs := range frames {
		imgBuf.Reset()
		dc := gg.NewContextForImage(rasterize(objs, fr, opts))
		if err := dc.EncodePNG(imgBuf); err != nil {
			return fmt.Errorf("encode frame %d: %w", i+1, err)
		}
		name := fmt.Sprintf("%0*d.png", pad, i+1)
		if err := addZipFile(zw, name, imgBuf.Bytes()); err != nil {
			return fmt.Errorf("zip add image: %w", err)
		}
	}

	manifest, err := buildComicInfoXML(len(frames))
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if err := addZipFile(zw, "ComicInfo.xml", []byte(manifest)); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

// WriteFlipbook writes a flipbook of frames to path.
func WriteFlipbook(path string, frames []canvas.Objects, opts Options) error {
	return writeFile(path, func(w io.Writer) error { return Flipbook(w, frames, opts) })
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func buildComicInfoXML(pageCount int) (string, error) {
	buf := &bytes.Buffer{}
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(buf, format, args...)
	}
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<ComicInfo xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\">\n")
	wf("  <Series>Sketchboard</Series>\n")
	wf("  <Title>Board history</Title>\n")
	wf("  <PageCount>%d</PageCount>\n", pageCount)
	wf("  <Notes>%s</Notes>\n", escText("sketchboard "+version.String()))
	wf("  <ReadingDirection>LeftToRight</ReadingDirection>\n")
	wf("</ComicInfo>\n")
	if werr != nil {
		return "", fmt.Errorf("build xml: %w", werr)
	}
	return buf.String(), nil
}
