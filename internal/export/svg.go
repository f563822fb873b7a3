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
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"geodraw/internal/drawing"
	"geodraw/internal/textlayout"
	"geodraw/internal/vector"
)

// svgSurface writes one element per drawing call. The viewBox is the export
// page in world coordinates, so only the shape placement becomes a
// transform attribute.
type svgSurface struct {
	wf        func(format string, args ...any)
	transform string
	clips     int
	fonts     textlayout.Provider
}

var _ vector.Surface = (*svgSurface)(nil)

// WriteSVG renders d as a standalone SVG document.
func WriteSVG(w io.Writer, d *drawing.Drawing, opt Options) error {
	if d == nil {
		return ErrNilDrawing
	}
	opt = opt.withDefaults()
	page := Page(d, opt.Margin)
	pxW := int(math.Ceil(page.W * opt.Scale))
	pxH := int(math.Ceil(page.H * opt.Scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%g %g %g %g\">\n", pxW, pxH, page.X, page.Y, page.W, page.H)
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s/>\n", page.X, page.Y, page.W, page.H, fillAttr(opt.background()))
	Render(d, &svgSurface{wf: wf, fonts: opt.Fonts})
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func (s *svgSurface) SetPlacement(p vector.Placement) {
	m := p.Matrix()
	if m == vector.Identity {
		s.transform = ""
		return
	}
	s.transform = fmt.Sprintf(" transform=\"matrix(%g %g %g %g %g %g)\"", m.A, m.B, m.C, m.D, m.E, m.F)
}

func (s *svgSurface) FillRect(r vector.Rect, c vector.Color) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s%s/>\n", r.X, r.Y, r.W, r.H, fillAttr(c), s.transform)
}

func (s *svgSurface) StrokeRect(r vector.Rect, c vector.Color, width float64) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\"%s%s/>\n", r.X, r.Y, r.W, r.H, strokeAttr(c, width), s.transform)
}

func (s *svgSurface) FillEllipse(r vector.Rect, c vector.Color) {
	ctr := r.Center()
	s.wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\"%s%s/>\n", ctr.X, ctr.Y, r.W/2, r.H/2, fillAttr(c), s.transform)
}

func (s *svgSurface) StrokeEllipse(r vector.Rect, c vector.Color, width float64) {
	ctr := r.Center()
	s.wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"none\"%s%s/>\n", ctr.X, ctr.Y, r.W/2, r.H/2, strokeAttr(c, width), s.transform)
}

func (s *svgSurface) FillPolygon(pts []vector.Pt, c vector.Color) {
	s.wf("  <polygon points=\"%s\"%s%s/>\n", svgPoints(pts), fillAttr(c), s.transform)
}

func (s *svgSurface) StrokePolygon(pts []vector.Pt, c vector.Color, width float64) {
	s.wf("  <polygon points=\"%s\" fill=\"none\"%s%s/>\n", svgPoints(pts), strokeAttr(c, width), s.transform)
}

func (s *svgSurface) StrokeLine(a, b vector.Pt, c vector.Color, width float64) {
	s.wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\"%s%s/>\n", a.X, a.Y, b.X, b.Y, strokeAttr(c, width), s.transform)
}

// DrawText wraps with the same layouter as the raster surface and clips to
// the box with a clipPath in the shape's local coordinates.
func (s *svgSurface) DrawText(r vector.Rect, t vector.TextContent, c vector.Color) {
	s.clips++
	id := fmt.Sprintf("clip%d", s.clips)
	spec := textlayout.SpecFor(t, 1)
	tb := textlayout.NewWordWrap(s.fonts).Layout(t.Text, spec, r.W)

	s.wf("  <clipPath id=\"%s\"><rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"/></clipPath>\n", id, r.X, r.Y, r.W, r.H)
	s.wf("  <g clip-path=\"url(#%s)\"%s>\n", id, s.transform)
	s.wf("    <text font-family=\"%s\" font-size=\"%g\"%s xml:space=\"preserve\">\n", svgFamily(spec.Family), spec.Size, fillAttr(c))
	y := r.Y + tb.Metrics.Ascent
	for _, ln := range tb.Lines {
		s.wf("      <tspan x=\"%g\" y=\"%g\">%s</tspan>\n", r.X, y, escText(ln.Text))
		y += tb.Metrics.LineHeight()
	}
	s.wf("    </text>\n  </g>\n")
}

func svgPoints(pts []vector.Pt) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fillAttr(c vector.Color) string {
	if c.A == 255 {
		return fmt.Sprintf(" fill=\"%s\"", svgColor(c))
	}
	return fmt.Sprintf(" fill=\"%s\" fill-opacity=\"%g\"", svgColor(c), float64(c.A)/255)
}

func strokeAttr(c vector.Color, width float64) string {
	if c.A == 255 {
		return fmt.Sprintf(" stroke=\"%s\" stroke-width=\"%g\"", svgColor(c), width)
	}
	return fmt.Sprintf(" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"", svgColor(c), float64(c.A)/255, width)
}

func svgFamily(family string) string {
	switch strings.ToLower(family) {
	case "mono", "monospace", "courier", "go mono":
		return "Go Mono, Courier, monospace"
	}
	return "Go, Helvetica, Arial, sans-serif"
}

func escText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
