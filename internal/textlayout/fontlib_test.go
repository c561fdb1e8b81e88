/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestGoProvider_BoldIsWider(t *testing.T) {
	m := FaceMeasurer{Provider: DefaultGoProvider()}
	wr, _ := m.Measure("Heading", FontSpec{Size: 32, Weight: WeightNormal})
	wb, _ := m.Measure("Heading", FontSpec{Size: 32, Weight: WeightBold})
	if wb <= wr {
		t.Fatalf("bold should be wider: regular=%v bold=%v", wr, wb)
	}
}

func TestFontLibrary_LoadTTFAndExtra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	lib := NewFontLibrary()
	if err := lib.LoadTTF("Mono", WeightNormal, false, path); err != nil {
		t.Fatalf("LoadTTF: %v", err)
	}
	if lib.Len() != 1 {
		t.Fatalf("expected one font, got %d", lib.Len())
	}
	m := FaceMeasurer{Provider: &GoProvider{Extra: lib}}
	wi, _ := m.Measure("iiii", FontSpec{Family: "Mono", Size: 20})
	wm, _ := m.Measure("mmmm", FontSpec{Family: "Mono", Size: 20})
	if wi != wm {
		t.Fatalf("monospace family should give equal widths: %v vs %v", wi, wm)
	}
	if err := lib.LoadTTF("Missing", WeightNormal, false, filepath.Join(t.TempDir(), "none.ttf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := lib.Add("Bad", WeightNormal, false, []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}
