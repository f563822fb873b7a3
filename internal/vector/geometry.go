/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry and the world/screen/local coordinate conversions.
// World space is the unscaled, unscrolled space shapes are stored in; screen
// space is the zoomed and scrolled viewport. float64 keeps snapshots exact.

import (
	"errors"
	"math"
)

// ErrInvalidZoom is returned when a viewport is configured with zoom <= 0.
var ErrInvalidZoom = errors.New("zoom must be positive")

// Pt is a 2D point.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pt) Add(q Pt) Pt           { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt           { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Scale(s float64) Pt    { return Pt{p.X * s, p.Y * s} }
func (p Pt) Dot(q Pt) float64      { return p.X*q.X + p.Y*q.Y }
func (p Pt) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Pt) Mul(sx, sy float64) Pt { return Pt{p.X * sx, p.Y * sy} }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// boundsOf returns the bounding box of a point set.
func boundsOf(pts []Pt) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse matrix, or Identity when m is singular.
func (m Affine2D) Invert() Affine2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	inv := 1 / det
	return Affine2D{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// RotateDeg returns a rotation by deg degrees using the same sign convention
// as RotateVector.
func RotateDeg(deg float64) Affine2D {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotateVector rotates (x, y) by angleDeg degrees around the origin. With the
// y axis pointing down a positive angle turns clockwise on screen, which is
// what every surface uses at paint time.
func RotateVector(x, y, angleDeg float64) (float64, float64) {
	if angleDeg == 0 {
		return x, y
	}
	s, c := math.Sincos(angleDeg * math.Pi / 180)
	return x*c - y*s, x*s + y*c
}

func rotatePt(p Pt, angleDeg float64) Pt {
	x, y := RotateVector(p.X, p.Y, angleDeg)
	return Pt{x, y}
}

// ScreenToWorld converts viewport pixels to world coordinates. Callers must
// have validated zoom > 0 (see Viewport.SetZoom).
func ScreenToWorld(screenX, screenY, zoom, scrollX, scrollY float64) (float64, float64) {
	return screenX/zoom + scrollX, screenY/zoom + scrollY
}

// WorldToScreen is the exact inverse of ScreenToWorld.
func WorldToScreen(worldX, worldY, zoom, scrollX, scrollY float64) (float64, float64) {
	return (worldX - scrollX) * zoom, (worldY - scrollY) * zoom
}

// Viewport holds the zoom factor and scroll offset of the canvas.
type Viewport struct {
	zoom    float64
	ScrollX float64
	ScrollY float64
}

func NewViewport() Viewport { return Viewport{zoom: 1} }

func (v Viewport) Zoom() float64 {
	if v.zoom <= 0 {
		return 1
	}
	return v.zoom
}

// SetZoom rejects non-positive zoom factors and leaves the viewport unchanged.
func (v *Viewport) SetZoom(z float64) error {
	if !(z > 0) || math.IsInf(z, 0) {
		return ErrInvalidZoom
	}
	v.zoom = z
	return nil
}

func (v Viewport) ToWorld(p Pt) Pt {
	x, y := ScreenToWorld(p.X, p.Y, v.Zoom(), v.ScrollX, v.ScrollY)
	return Pt{x, y}
}

func (v Viewport) ToScreen(p Pt) Pt {
	x, y := WorldToScreen(p.X, p.Y, v.Zoom(), v.ScrollX, v.ScrollY)
	return Pt{x, y}
}

// Matrix maps world coordinates to screen coordinates.
func (v Viewport) Matrix() Affine2D {
	z := v.Zoom()
	return Scale(z, z).Mul(Translate(-v.ScrollX, -v.ScrollY))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
