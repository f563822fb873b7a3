/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"geodraw/internal/textlayout"
	"geodraw/internal/vector"
)

// ellipseSegments is the polygon resolution used for ellipses.
const ellipseSegments = 72

// Raster paints onto an RGBA image. base maps world coordinates to image
// pixels; the placement of the current shape is applied on top of it.
type Raster struct {
	img   *image.RGBA
	base  vector.Affine2D
	m     vector.Affine2D
	scale float64
	fonts textlayout.Provider
}

var _ vector.Surface = (*Raster)(nil)

// NewRaster returns a surface drawing into img. A nil provider uses the
// bundled Go fonts.
func NewRaster(img *image.RGBA, base vector.Affine2D, fonts textlayout.Provider) *Raster {
	if fonts == nil {
		fonts = textlayout.DefaultProvider()
	}
	return &Raster{
		img:   img,
		base:  base,
		m:     base,
		scale: math.Sqrt(math.Abs(base.A*base.D - base.B*base.C)),
		fonts: fonts,
	}
}

// Image returns the target image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Clear fills the whole image with c.
func (r *Raster) Clear(c vector.Color) {
	xdraw.Draw(r.img, r.img.Bounds(), image.NewUniform(toNRGBA(c)), image.Point{}, xdraw.Src)
}

func (r *Raster) SetPlacement(p vector.Placement) { r.m = r.base.Mul(p.Matrix()) }

// ResetPlacement drops the shape placement, so coordinates are plain world
// coordinates again.
func (r *Raster) ResetPlacement() { r.m = r.base }

func (r *Raster) FillRect(rc vector.Rect, c vector.Color) { r.fill(c, r.device(rectPoints(rc))) }

func (r *Raster) StrokeRect(rc vector.Rect, c vector.Color, width float64) {
	r.stroke(r.device(rectPoints(rc)), true, c, width)
}

func (r *Raster) FillEllipse(rc vector.Rect, c vector.Color) {
	r.fill(c, r.device(ellipsePoints(rc, ellipseSegments)))
}

func (r *Raster) StrokeEllipse(rc vector.Rect, c vector.Color, width float64) {
	r.stroke(r.device(ellipsePoints(rc, ellipseSegments)), true, c, width)
}

func (r *Raster) FillPolygon(pts []vector.Pt, c vector.Color) { r.fill(c, r.device(pts)) }

func (r *Raster) StrokePolygon(pts []vector.Pt, c vector.Color, width float64) {
	r.stroke(r.device(pts), true, c, width)
}

func (r *Raster) StrokeLine(a, b vector.Pt, c vector.Color, width float64) {
	r.stroke(r.device([]vector.Pt{a, b}), false, c, width)
}

// DrawText lays the text out at device resolution into an offscreen image
// the size of the box, then composites it through the shape transform. The
// offscreen bounds clip the text to the box.
func (r *Raster) DrawText(box vector.Rect, t vector.TextContent, c vector.Color) {
	k := r.scale
	if k <= 0 {
		return
	}
	w, h := int(math.Ceil(box.W*k)), int(math.Ceil(box.H*k))
	if w <= 0 || h <= 0 {
		return
	}
	spec := textlayout.SpecFor(t, k)
	tb := textlayout.NewWordWrap(r.fonts).Layout(t.Text, spec, box.W*k)
	face, _ := r.fonts.Resolve(spec)

	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: tmp, Src: image.NewUniform(toNRGBA(c)), Face: face}
	y := tb.Metrics.Ascent
	for _, ln := range tb.Lines {
		if y-tb.Metrics.Ascent > float64(h) {
			break
		}
		d.Dot = fixed.Point26_6{X: 0, Y: fixed.Int26_6(math.Round(y * 64))}
		d.DrawString(ln.Text)
		y += tb.Metrics.LineHeight()
	}

	m := r.m.Mul(vector.Translate(box.X, box.Y)).Mul(vector.Scale(1/k, 1/k))
	s2d := f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}
	xdraw.BiLinear.Transform(r.img, s2d, tmp, tmp.Bounds(), xdraw.Over, nil)
}

func (r *Raster) device(pts []vector.Pt) []vector.Pt {
	out := make([]vector.Pt, len(pts))
	for i, p := range pts {
		out[i] = r.m.Apply(p)
	}
	return out
}

// fill rasterizes the device-space polygons with the non-zero rule.
func (r *Raster) fill(c vector.Color, polys ...[]vector.Pt) {
	b := r.img.Bounds()
	if b.Empty() || c.A == 0 {
		return
	}
	z := xvector.NewRasterizer(b.Dx(), b.Dy())
	n := 0
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		ox, oy := float64(b.Min.X), float64(b.Min.Y)
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
		n++
	}
	if n == 0 {
		return
	}
	z.Draw(r.img, b, image.NewUniform(toNRGBA(c)), image.Point{})
}

// stroke builds one quad per segment plus a join square at every vertex.
// All pieces share one winding direction so overlaps do not cancel.
func (r *Raster) stroke(pts []vector.Pt, closed bool, c vector.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	hw := width * r.scale / 2
	if hw < 0.5 {
		hw = 0.5
	}
	var polys [][]vector.Pt
	seg := func(a, b vector.Pt) {
		d := b.Sub(a)
		l := d.Len()
		if l < 1e-9 {
			return
		}
		n := vector.Pt{X: -d.Y / l * hw, Y: d.X / l * hw}
		polys = append(polys, positive([]vector.Pt{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}))
	}
	for i := 0; i+1 < len(pts); i++ {
		seg(pts[i], pts[i+1])
	}
	if closed {
		seg(pts[len(pts)-1], pts[0])
	}
	for i, p := range pts {
		if !closed && (i == 0 || i == len(pts)-1) {
			continue
		}
		polys = append(polys, positive(rectPoints(vector.R(p.X-hw, p.Y-hw, 2*hw, 2*hw))))
	}
	r.fill(c, polys...)
}

// positive returns pts in the orientation with a positive shoelace area.
func positive(pts []vector.Pt) []vector.Pt {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if a >= 0 {
		return pts
	}
	out := make([]vector.Pt, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func toNRGBA(c vector.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
