/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"fmt"
	"math"
)

// Polygon vertex limits.
const (
	MinVertices = 3
	MaxVertices = 12
)

var (
	ErrNotPolygon  = errors.New("shape is not a polygon")
	ErrVertexCount = fmt.Errorf("polygon needs %d..%d vertices", MinVertices, MaxVertices)
)

// UpdateBounds recomputes X, Y, Width, Height from the vertex list.
func (s *Shape) UpdateBounds() {
	if len(s.Vertices) == 0 {
		return
	}
	b := boundsOf(s.Vertices)
	s.X, s.Y, s.Width, s.Height = b.X, b.Y, b.W, b.H
}

// SetVertices replaces the vertex list.
func (s *Shape) SetVertices(pts []Pt) error {
	if s.Kind != KindPolygon {
		return ErrNotPolygon
	}
	if len(pts) < MinVertices || len(pts) > MaxVertices {
		return ErrVertexCount
	}
	s.Vertices = append([]Pt(nil), pts...)
	s.UpdateBounds()
	return nil
}

// AddVertex appends a vertex.
func (s *Shape) AddVertex(p Pt) error {
	if s.Kind != KindPolygon {
		return ErrNotPolygon
	}
	if len(s.Vertices) >= MaxVertices {
		return ErrVertexCount
	}
	s.Vertices = append(s.Vertices, p)
	s.UpdateBounds()
	return nil
}

// RemoveVertex deletes the vertex at index i.
func (s *Shape) RemoveVertex(i int) error {
	if s.Kind != KindPolygon {
		return ErrNotPolygon
	}
	if i < 0 || i >= len(s.Vertices) {
		return fmt.Errorf("vertex index %d out of range", i)
	}
	if len(s.Vertices) <= MinVertices {
		return ErrVertexCount
	}
	s.Vertices = append(s.Vertices[:i], s.Vertices[i+1:]...)
	s.UpdateBounds()
	return nil
}

// scaleVertices rescales every vertex proportionally about the top-left
// corner so the bounding box becomes w x h. A collapsed axis cannot be
// rescaled and keeps its extent.
func (s *Shape) scaleVertices(w, h float64) {
	sx, sy := 1.0, 1.0
	if s.Width > 1e-12 {
		sx = w / s.Width
	}
	if s.Height > 1e-12 {
		sy = h / s.Height
	}
	for i, v := range s.Vertices {
		s.Vertices[i] = Pt{s.X + (v.X-s.X)*sx, s.Y + (v.Y-s.Y)*sy}
	}
	s.UpdateBounds()
}

// regularPolygon returns n vertices on the ellipse inscribed in box, first
// vertex at the top.
func regularPolygon(n int, box Rect) []Pt {
	c := box.Center()
	pts := make([]Pt, n)
	for i := 0; i < n; i++ {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Pt{c.X + box.W/2*math.Cos(a), c.Y + box.H/2*math.Sin(a)}
	}
	return pts
}

// polygonContains runs the even-odd ray casting test on a local point.
func polygonContains(vs []Pt, p Pt) bool {
	inside := false
	for i, j := 0, len(vs)-1; i < len(vs); j, i = i, i+1 {
		a, b := vs[i], vs[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
