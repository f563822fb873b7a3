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
	"strings"

	"github.com/jung-kurt/gofpdf"

	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

// pdfSurface paints with one point per world unit. Shape placements are
// issued as PDF transformations around each drawing call.
type pdfSurface struct {
	pdf *gofpdf.Fpdf
	off vector.Pt
	pl  vector.Placement
	tr  func(string) string
}

var _ vector.Surface = (*pdfSurface)(nil)

// WritePDF renders d onto a single PDF page sized to Page(d, margin).
func WritePDF(w io.Writer, d *drawing.Drawing, opt Options) error {
	if d == nil {
		return ErrNilDrawing
	}
	opt = opt.withDefaults()
	page := Page(d, opt.Margin)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	s := &pdfSurface{pdf: pdf, off: vector.Pt{X: -page.X, Y: -page.Y}, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	setFillColor(pdf, opt.background())
	pdf.Rect(0, 0, page.W, page.H, "F")
	Render(d, s)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *pdfSurface) SetPlacement(p vector.Placement) { s.pl = p }

// begin pushes the placement: rotation (counter-clockwise in gofpdf terms,
// hence the sign flip) then mirroring, so mirroring applies first.
func (s *pdfSurface) begin() {
	cx, cy := s.pl.CX+s.off.X, s.pl.CY+s.off.Y
	s.pdf.TransformBegin()
	if s.pl.Angle != 0 {
		s.pdf.TransformRotate(-s.pl.Angle, cx, cy)
	}
	if s.pl.MirrorX < 0 {
		s.pdf.TransformMirrorHorizontal(cx)
	}
	if s.pl.MirrorY < 0 {
		s.pdf.TransformMirrorVertical(cy)
	}
}

func (s *pdfSurface) end() { s.pdf.TransformEnd() }

func (s *pdfSurface) FillRect(r vector.Rect, c vector.Color) {
	s.begin()
	defer s.end()
	setFillColor(s.pdf, c)
	s.pdf.Rect(r.X+s.off.X, r.Y+s.off.Y, r.W, r.H, "F")
}

func (s *pdfSurface) StrokeRect(r vector.Rect, c vector.Color, width float64) {
	s.begin()
	defer s.end()
	setDrawColor(s.pdf, c)
	s.pdf.SetLineWidth(width)
	s.pdf.Rect(r.X+s.off.X, r.Y+s.off.Y, r.W, r.H, "D")
}

func (s *pdfSurface) FillEllipse(r vector.Rect, c vector.Color) {
	s.begin()
	defer s.end()
	setFillColor(s.pdf, c)
	ctr := r.Center()
	s.pdf.Ellipse(ctr.X+s.off.X, ctr.Y+s.off.Y, r.W/2, r.H/2, 0, "F")
}

func (s *pdfSurface) StrokeEllipse(r vector.Rect, c vector.Color, width float64) {
	s.begin()
	defer s.end()
	setDrawColor(s.pdf, c)
	s.pdf.SetLineWidth(width)
	ctr := r.Center()
	s.pdf.Ellipse(ctr.X+s.off.X, ctr.Y+s.off.Y, r.W/2, r.H/2, 0, "D")
}

func (s *pdfSurface) FillPolygon(pts []vector.Pt, c vector.Color) {
	s.begin()
	defer s.end()
	setFillColor(s.pdf, c)
	s.pdf.Polygon(s.points(pts), "F")
}

func (s *pdfSurface) StrokePolygon(pts []vector.Pt, c vector.Color, width float64) {
	s.begin()
	defer s.end()
	setDrawColor(s.pdf, c)
	s.pdf.SetLineWidth(width)
	s.pdf.Polygon(s.points(pts), "D")
}

func (s *pdfSurface) StrokeLine(a, b vector.Pt, c vector.Color, width float64) {
	s.begin()
	defer s.end()
	setDrawColor(s.pdf, c)
	s.pdf.SetLineWidth(width)
	s.pdf.Line(a.X+s.off.X, a.Y+s.off.Y, b.X+s.off.X, b.Y+s.off.Y)
}

// DrawText uses the core fonts; gofpdf's SplitText does the wrapping.
func (s *pdfSurface) DrawText(r vector.Rect, t vector.TextContent, c vector.Color) {
	s.begin()
	defer s.end()
	x, y := r.X+s.off.X, r.Y+s.off.Y
	s.pdf.ClipRect(x, y, r.W, r.H, false)
	defer s.pdf.ClipEnd()

	size := float64(t.FontSize)
	if size <= 0 {
		size = vector.DefaultFontSize
	}
	s.pdf.SetFont(pdfFamily(t.FontFamily), "", size)
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	setAlpha(s.pdf, c)
	baseline := y + size*0.8
	for _, para := range strings.Split(t.Text, "\n") {
		lines := s.pdf.SplitText(widen(s.tr(para)), r.W)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, ln := range lines {
			if baseline-size*0.8 > y+r.H {
				return
			}
			s.pdf.Text(x, baseline, narrow(ln))
			baseline += size * 1.2
		}
	}
}

// widen maps each code page byte to the rune of the same value, which is
// how SplitText indexes the font's 256-entry width table.
func widen(cp string) string {
	rs := make([]rune, len(cp))
	for i := 0; i < len(cp); i++ {
		rs[i] = rune(cp[i])
	}
	return string(rs)
}

// narrow undoes widen.
func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

func (s *pdfSurface) points(pts []vector.Pt) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		out[i] = gofpdf.PointType{X: p.X + s.off.X, Y: p.Y + s.off.Y}
	}
	return out
}

func pdfFamily(family string) string {
	switch strings.ToLower(family) {
	case "mono", "monospace", "courier", "go mono":
		return "Courier"
	case "serif", "times":
		return "Times"
	}
	return "Helvetica"
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	setAlpha(pdf, c)
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	setAlpha(pdf, c)
}

func setAlpha(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}
