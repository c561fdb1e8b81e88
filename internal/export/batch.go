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
	"path/filepath"
	"strings"

	"sketchboard/internal/canvas"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting one board to several formats at once.
//
// Files are named <Name>.<format> in OutDir. The cbz format pages through
// Frames when set, otherwise it holds the single current set.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: pdf, png, svg, cbz; empty means preset defaults
	OutDir  string
	Name    string // base file name, default "board"
	Frames  []canvas.Objects
	Options Options
}

// Batch runs the exports and returns the written paths in format order.
func Batch(objs canvas.Objects, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("unknown export preset %q", opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "board"
	}
	ro := opt.Options
	if ro.Scale <= 0 {
		ro.Scale = presetScale(opt.Preset)
	}

	var written []string
	for _, raw := range formats {
		f := Format(strings.ToLower(strings.TrimSpace(raw)))
		path := filepath.Join(opt.OutDir, name+"."+string(f))
		var err error
		switch f {
		case FormatCBZ:
			frames := opt.Frames
			if len(frames) == 0 {
				frames = []canvas.Objects{objs}
			}
			err = WriteFlipbook(path, frames, ro)
		case FormatPDF, FormatSVG, FormatPNG:
			err = WriteFile(path, objs, ro)
		default:
			return written, fmt.Errorf("unsupported export format %q", raw)
		}
		if err != nil {
			return written, fmt.Errorf("export %s: %w", f, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb, "":
		return []string{"svg", "png"}
	case PresetPrint:
		return []string{"pdf"}
	}
	return nil
}

func presetScale(p PresetName) float64 {
	if p == PresetPrint {
		return 300.0 / 72.0
	}
	return 2
}
