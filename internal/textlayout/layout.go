/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking for text shapes, isolated behind a
// Provider so the raster, PDF and SVG surfaces wrap text the same way.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"geodraw/internal/vector"
)

// FontSpec describes a requested font. Size is in device pixels at 72 DPI,
// which equals world units at scale 1.
type FontSpec struct {
	Family string
	Size   float64
	Weight int // 100..900, 0 means regular
	Italic bool
}

// SpecFor returns the font a text shape asks for, scaled for a device that
// maps one world unit to scale pixels.
func SpecFor(t vector.TextContent, scale float64) FontSpec {
	if scale <= 0 {
		scale = 1
	}
	size := float64(t.FontSize)
	if size <= 0 {
		size = vector.DefaultFontSize
	}
	fam := t.FontFamily
	if fam == "" {
		fam = vector.DefaultFontFamily
	}
	return FontSpec{Family: fam, Size: size * scale, Weight: 400}
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineHeight is the baseline-to-baseline distance.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Line is a single laid out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// WordWrapLayouter breaks on spaces and explicit newlines; it does no
// shaping or hyphenation. A word wider than the box stays on its own line
// and is left to the surface's clip.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

// Layout wraps text to maxWidth pixels. maxWidth <= 0 disables wrapping.
func (l *WordWrapLayouter) Layout(text string, spec FontSpec, maxWidth float64) TextBox {
	if l.Provider == nil {
		l.Provider = BasicProvider{}
	}
	face, met := l.Provider.Resolve(spec)
	drawer := &font.Drawer{Face: face}
	box := TextBox{Metrics: met}
	add := func(s string) {
		w := advance(drawer, s)
		box.Lines = append(box.Lines, Line{Text: s, Width: w})
		if w > box.Width {
			box.Width = w
		}
		box.Height += met.LineHeight()
	}
	for _, para := range strings.Split(text, "\n") {
		cur, started := "", false
		for _, word := range strings.Split(para, " ") {
			if !started {
				cur, started = word, true
				continue
			}
			cand := cur + " " + word
			if maxWidth > 0 && cur != "" && advance(drawer, cand) > maxWidth {
				add(cur)
				cur = word
				continue
			}
			cur = cand
		}
		add(cur)
	}
	return box
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}

// Measure returns the width and line height of s without line breaks.
func Measure(provider Provider, spec FontSpec, s string) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	return advance(&font.Drawer{Face: face}, s), met.Ascent + met.Descent
}
