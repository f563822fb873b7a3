/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// ContainsPoint reports whether the world point lies on the shape, growing
// the shape by tolerance world units.
func (s *Shape) ContainsPoint(worldX, worldY, tolerance float64) bool {
	if tolerance < 0 {
		tolerance = 0
	}
	switch s.Kind {
	case KindLine:
		a, b := s.WorldEndpoints()
		return distToSegment(Pt{worldX, worldY}, a, b) <= tolerance
	case KindPolygon:
		return s.polygonHit(worldX, worldY, tolerance)
	case KindEllipse:
		lx, ly := s.InverseTransformPoint(worldX, worldY)
		rx, ry := s.Width/2+tolerance, s.Height/2+tolerance
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx, dy := lx/rx, ly/ry
		return dx*dx+dy*dy <= 1
	default:
		// rectangles and text boxes are symmetric about the center, so the
		// mirror flags do not matter here
		lx, ly := s.InverseTransformPoint(worldX, worldY)
		return math.Abs(lx) <= s.Width/2+tolerance && math.Abs(ly) <= s.Height/2+tolerance
	}
}

// polygonHit maps the point into the unrotated, unmirrored frame the vertices
// live in, rejects it against the bounds, then ray casts.
func (s *Shape) polygonHit(worldX, worldY, tolerance float64) bool {
	if len(s.Vertices) < MinVertices {
		return false
	}
	lx, ly := s.InverseTransformPoint(worldX, worldY)
	c := s.Center()
	p := Pt{c.X + lx*float64(s.mirrorX()), c.Y + ly*float64(s.mirrorY())}
	if !R(s.X, s.Y, s.Width, s.Height).Inset(-tolerance, -tolerance).Contains(p) {
		return false
	}
	if polygonContains(s.Vertices, p) {
		return true
	}
	if tolerance == 0 {
		return false
	}
	for i, j := 0, len(s.Vertices)-1; i < len(s.Vertices); j, i = i, i+1 {
		if distToSegment(p, s.Vertices[j], s.Vertices[i]) <= tolerance {
			return true
		}
	}
	return false
}
