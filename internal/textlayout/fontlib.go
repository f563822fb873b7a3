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
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts mapped by family/weight/italic.
// Family names are matched case-insensitively; common generic names are
// folded onto the bundled families.
type FontLibrary struct {
	fonts    map[fontKey]*opentype.Font
	fallback string
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

var familyAliases = map[string]string{
	"sans-serif": "sans",
	"helvetica":  "sans",
	"arial":      "sans",
	"go":         "sans",
	"monospace":  "mono",
	"courier":    "mono",
	"go mono":    "mono",
}

func canonicalFamily(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := familyAliases[n]; ok {
		return a
	}
	return n
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// Register parses font data into the library under the given family/weight/italic.
func (fl *FontLibrary) Register(family string, weight int, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fam := canonicalFamily(family)
	fl.fonts[fontKey{family: fam, bold: weight >= 600, italic: italic}] = f
	if fl.fallback == "" {
		fl.fallback = fam
	}
	return nil
}

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Register(family, weight, italic, data)
}

// Families lists the registered family names.
func (fl *FontLibrary) Families() []string {
	seen := map[string]bool{}
	var out []string
	for k := range fl.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	sort.Strings(out)
	return out
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	fam := canonicalFamily(spec.Family)
	bold := spec.Weight >= 600
	for _, k := range []fontKey{
		{fam, bold, spec.Italic},
		{fam, bold, false},
		{fam, false, spec.Italic},
		{fam, false, false},
		{fl.fallback, bold, spec.Italic},
		{fl.fallback, false, false},
	} {
		if f, ok := fl.fonts[k]; ok {
			return f
		}
	}
	return nil
}

var (
	goFontsOnce sync.Once
	goFonts     *FontLibrary
	goFontsErr  error
)

// GoFonts returns a shared library holding the Go font family: "Sans"
// (regular, bold, italic, bold italic) and "Mono" (regular, bold).
func GoFonts() (*FontLibrary, error) {
	goFontsOnce.Do(func() {
		fl := NewFontLibrary()
		for _, f := range []struct {
			family string
			weight int
			italic bool
			data   []byte
		}{
			{"Sans", 400, false, goregular.TTF},
			{"Sans", 700, false, gobold.TTF},
			{"Sans", 400, true, goitalic.TTF},
			{"Sans", 700, true, gobolditalic.TTF},
			{"Mono", 400, false, gomono.TTF},
			{"Mono", 700, false, gomonobold.TTF},
		} {
			if err := fl.Register(f.family, f.weight, f.italic, f.data); err != nil {
				goFontsErr = err
				return
			}
		}
		goFonts = fl
	})
	return goFonts, goFontsErr
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
// It uses kerning as provided by opentype.Face and font.Drawer.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
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
	if p.Lib != nil {
		if f := p.Lib.find(spec); f != nil {
			face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: dpi, Hinting: font.HintingNone})
			if err == nil {
				return face, metricsOf(face)
			}
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// DefaultProvider resolves against the bundled Go fonts, falling back to
// the fixed 7x13 face if they cannot be parsed.
func DefaultProvider() Provider {
	lib, err := GoFonts()
	if err != nil {
		return BasicProvider{}
	}
	return OTProvider{Lib: lib, DPI: 72, Fallback: BasicProvider{}}
}
