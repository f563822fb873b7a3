/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Kind tags the shape variant.
type Kind uint8

const (
	KindRectangle Kind = iota
	KindEllipse
	KindLine
	KindPolygon
	KindText
)

var kindNames = [...]string{"rectangle", "ellipse", "line", "polygon", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// Size limits enforced on every non-line mutation.
const (
	MinSize = 1.0
	MaxSize = 1000.0
)

// Shape is the single entity type of a drawing. The geometry fields are
// shared by every variant; Vertices is only used by polygons and Text only by
// text shapes.
//
// X, Y is the top-left corner of the unrotated, unmirrored box. For lines it
// is the start point and Width/Height are the signed deltas to the end point.
type Shape struct {
	ID       string
	Kind     Kind
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64 // degrees, accumulates
	MirrorX  int     // -1 or +1
	MirrorY  int     // -1 or +1
	Z        int
	Style    Style
	Vertices []Pt
	Text     *TextContent
}

// Geometry is the transform state captured by gestures and commands.
type Geometry struct {
	X, Y, Width, Height float64
	Rotation            float64
	MirrorX, MirrorY    int
	Vertices            []Pt
}

func (s *Shape) Geometry() Geometry {
	g := Geometry{
		X: s.X, Y: s.Y, Width: s.Width, Height: s.Height,
		Rotation: s.Rotation, MirrorX: s.mirrorX(), MirrorY: s.mirrorY(),
	}
	if len(s.Vertices) > 0 {
		g.Vertices = append([]Pt(nil), s.Vertices...)
	}
	return g
}

// SetGeometry restores a captured geometry verbatim.
func (s *Shape) SetGeometry(g Geometry) {
	s.X, s.Y, s.Width, s.Height = g.X, g.Y, g.Width, g.Height
	s.Rotation = g.Rotation
	s.MirrorX, s.MirrorY = g.MirrorX, g.MirrorY
	if s.Kind == KindPolygon {
		s.Vertices = append([]Pt(nil), g.Vertices...)
	}
}

// SameTransform reports whether position and size are equal within eps.
func (g Geometry) SameTransform(o Geometry, eps float64) bool {
	return math.Abs(g.X-o.X) <= eps && math.Abs(g.Y-o.Y) <= eps &&
		math.Abs(g.Width-o.Width) <= eps && math.Abs(g.Height-o.Height) <= eps
}

// Translated returns a copy of g moved by (dx, dy).
func (g Geometry) Translated(dx, dy float64) Geometry {
	g.X += dx
	g.Y += dy
	if len(g.Vertices) > 0 {
		vs := make([]Pt, len(g.Vertices))
		for i, v := range g.Vertices {
			vs[i] = Pt{v.X + dx, v.Y + dy}
		}
		g.Vertices = vs
	}
	return g
}

func (s *Shape) mirrorX() int {
	if s.MirrorX < 0 {
		return -1
	}
	return 1
}

func (s *Shape) mirrorY() int {
	if s.MirrorY < 0 {
		return -1
	}
	return 1
}

// Center is the rotation and mirroring center of the shape.
func (s *Shape) Center() Pt { return Pt{s.X + s.Width/2, s.Y + s.Height/2} }

// Placement returns the paint-time transform: mirror, then rotate, both
// about the center.
func (s *Shape) Placement() Placement {
	c := s.Center()
	return Placement{CX: c.X, CY: c.Y, Angle: s.Rotation, MirrorX: s.mirrorX(), MirrorY: s.mirrorY()}
}

// InverseTransformPoint maps a world point into the shape's local frame:
// translated by -center and rotated by -angle. Mirroring is left to callers.
func (s *Shape) InverseTransformPoint(worldX, worldY float64) (float64, float64) {
	c := s.Center()
	return RotateVector(worldX-c.X, worldY-c.Y, -s.Rotation)
}

// localToWorld maps an unmirrored local point to world space.
func (s *Shape) localToWorld(l Pt) Pt {
	p := rotatePt(l.Mul(float64(s.mirrorX()), float64(s.mirrorY())), s.Rotation)
	return s.Center().Add(p)
}

// Bounds returns the world-space axis-aligned bounding box of the shape as
// painted.
func (s *Shape) Bounds() Rect {
	m := s.Placement().Matrix()
	var pts []Pt
	switch s.Kind {
	case KindPolygon:
		pts = make([]Pt, len(s.Vertices))
		for i, v := range s.Vertices {
			pts[i] = m.Apply(v)
		}
	case KindLine:
		pts = []Pt{m.Apply(s.Start()), m.Apply(s.End())}
	default:
		pts = []Pt{
			m.Apply(Pt{s.X, s.Y}), m.Apply(Pt{s.X + s.Width, s.Y}),
			m.Apply(Pt{s.X, s.Y + s.Height}), m.Apply(Pt{s.X + s.Width, s.Y + s.Height}),
		}
	}
	return boundsOf(pts)
}

// MoveTo places the top-left corner (the start point for lines) at x, y.
func (s *Shape) MoveTo(x, y float64) { s.MoveBy(x-s.X, y-s.Y) }

func (s *Shape) MoveBy(dx, dy float64) {
	s.X += dx
	s.Y += dy
	for i := range s.Vertices {
		s.Vertices[i].X += dx
		s.Vertices[i].Y += dy
	}
}

// SetWidth sets the width, clamped to [MinSize, MaxSize]. Polygons rescale
// their vertices about the top-left corner; lines move their end point.
func (s *Shape) SetWidth(w float64) {
	switch s.Kind {
	case KindLine:
		s.Width = clamp(w, -MaxSize, MaxSize)
	case KindPolygon:
		s.scaleVertices(clamp(w, MinSize, MaxSize), s.Height)
	default:
		s.Width = clamp(w, MinSize, MaxSize)
	}
}

// SetHeight mirrors SetWidth for the vertical axis.
func (s *Shape) SetHeight(h float64) {
	switch s.Kind {
	case KindLine:
		s.Height = clamp(h, -MaxSize, MaxSize)
	case KindPolygon:
		s.scaleVertices(s.Width, clamp(h, MinSize, MaxSize))
	default:
		s.Height = clamp(h, MinSize, MaxSize)
	}
}

// ApplyBox moves and resizes the shape to b. Polygon vertices are rescaled
// into the new box.
func (s *Shape) ApplyBox(b Box) {
	switch s.Kind {
	case KindLine:
		s.X, s.Y = b.X, b.Y
		s.Width = clamp(b.Width, -MaxSize, MaxSize)
		s.Height = clamp(b.Height, -MaxSize, MaxSize)
	case KindPolygon:
		s.scaleVertices(clamp(b.Width, MinSize, MaxSize), clamp(b.Height, MinSize, MaxSize))
		s.MoveTo(b.X, b.Y)
	default:
		s.X, s.Y = b.X, b.Y
		s.Width = clamp(b.Width, MinSize, MaxSize)
		s.Height = clamp(b.Height, MinSize, MaxSize)
	}
}

// Rotate adds delta degrees to the rotation about the center.
func (s *Shape) Rotate(delta float64) { s.Rotation += delta }

// Mirror flips the shape about its vertical axis (horizontal mirror) or its
// horizontal axis.
func (s *Shape) Mirror(horizontal bool) {
	if horizontal {
		s.MirrorX = -s.mirrorX()
	} else {
		s.MirrorY = -s.mirrorY()
	}
}

// Clone returns an independent deep copy with the same ID.
func (s *Shape) Clone() *Shape {
	var c Shape
	if err := copier.CopyWithOption(&c, s, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on type mismatches, which cannot happen here
		slog.Error("vector.Shape.Clone", "err", err)
	}
	return &c
}

// CloneWithNewID is Clone with a freshly assigned ID, used for paste.
func (s *Shape) CloneWithNewID() *Shape {
	c := s.Clone()
	c.ID = uuid.NewString()
	return c
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s[%s x=%.2f y=%.2f w=%.2f h=%.2f rot=%.2f mx=%d my=%d z=%d]",
		s.Kind, shortID(s.ID), s.X, s.Y, s.Width, s.Height, s.Rotation, s.mirrorX(), s.mirrorY(), s.Z)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Placement is the decomposed paint-time transform of a shape.
type Placement struct {
	CX, CY           float64
	Angle            float64
	MirrorX, MirrorY int
}

// Matrix returns T(c)·R(angle)·S(mirror)·T(-c).
func (p Placement) Matrix() Affine2D {
	return Translate(p.CX, p.CY).
		Mul(RotateDeg(p.Angle)).
		Mul(Scale(float64(p.MirrorX), float64(p.MirrorY))).
		Mul(Translate(-p.CX, -p.CY))
}
