/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic,
// plus a cache of faces per size.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
	faces map[faceKey]font.Face
}

type fontKey struct {
	family string
	weight int
	italic bool
}

type faceKey struct {
	f    *opentype.Font
	size float64
	dpi  float64
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]*opentype.Font), faces: make(map[faceKey]font.Face)}
}

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, weight, italic, data)
}

// Add parses an in-memory TTF/OTF and registers it.
func (fl *FontLibrary) Add(family string, weight int, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.fonts[fontKey{family: family, weight: weight, italic: italic}] = f
	return nil
}

// Len is the number of registered fonts.
func (fl *FontLibrary) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.fonts)
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	if spec.Weight == 0 {
		spec.Weight = WeightNormal
	}
	// Exact match first
	if f, ok := fl.fonts[fontKey{family: spec.Family, weight: spec.Weight, italic: spec.Italic}]; ok {
		return f
	}
	// Then the closest weight of the same family and slant, then any of the family.
	var best *opentype.Font
	bestDist := 1 << 30
	for k, f := range fl.fonts {
		if k.family != spec.Family {
			continue
		}
		d := abs(k.weight - spec.Weight)
		if k.italic != spec.Italic {
			d += 1000
		}
		if d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}

func (fl *FontLibrary) face(f *opentype.Font, size, dpi float64) (font.Face, error) {
	if fl.faces == nil {
		fl.faces = make(map[faceKey]font.Face)
	}
	k := faceKey{f: f, size: size, dpi: dpi}
	if face, ok := fl.faces[k]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	fl.faces[k] = face
	return face, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
// Sizes are pixels at 72 DPI unless DPI is set.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.Size <= 0 {
		spec.Size = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if f := p.Lib.find(spec); f != nil {
		if face, err := p.Lib.face(f, spec.Size, dpi); err == nil {
			return face, metricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// GoFamily is the family name the bundled Go fonts are registered under.
const GoFamily = "Go"

var (
	goOnce sync.Once
	goLib  *FontLibrary
)

// GoFontLibrary returns a library holding the bundled Go regular, bold and
// italic faces under GoFamily.
func GoFontLibrary() *FontLibrary {
	goOnce.Do(func() {
		lib := NewFontLibrary()
		for _, f := range []struct {
			weight int
			italic bool
			data   []byte
		}{
			{WeightNormal, false, goregular.TTF},
			{WeightBold, false, gobold.TTF},
			{WeightNormal, true, goitalic.TTF},
		} {
			if err := lib.Add(GoFamily, f.weight, f.italic, f.data); err != nil {
				panic(fmt.Sprintf("bundled font: %v", err))
			}
		}
		goLib = lib
	})
	return goLib
}

// GoProvider resolves every family to the bundled Go fonts, honoring weight
// and slant. Fonts in Extra win when their family matches.
type GoProvider struct {
	Extra *FontLibrary
	lib   *FontLibrary
}

// DefaultGoProvider returns a GoProvider with its own face cache.
func DefaultGoProvider() *GoProvider {
	return &GoProvider{lib: cloneLib(GoFontLibrary())}
}

func cloneLib(src *FontLibrary) *FontLibrary {
	dst := NewFontLibrary()
	for k, f := range src.fonts {
		dst.fonts[k] = f
	}
	return dst
}

func (p *GoProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if p.lib == nil {
		p.lib = cloneLib(GoFontLibrary())
	}
	if p.Extra.find(spec) != nil {
		return OTProvider{Lib: p.Extra, Fallback: BasicProvider{}}.Resolve(spec)
	}
	spec.Family = GoFamily
	return OTProvider{Lib: p.lib}.Resolve(spec)
}
