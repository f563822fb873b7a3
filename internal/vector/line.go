/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Line helpers. A line stores its start point in X, Y and the signed deltas
// to the end point in Width, Height; the box is therefore not normalised.

// Start returns the unrotated start point.
func (s *Shape) Start() Pt { return Pt{s.X, s.Y} }

// End returns the unrotated end point.
func (s *Shape) End() Pt { return Pt{s.X + s.Width, s.Y + s.Height} }

// Length is the distance between the endpoints.
func (s *Shape) Length() float64 { return math.Hypot(s.Width, s.Height) }

// WorldEndpoints returns both endpoints with rotation and mirroring applied.
func (s *Shape) WorldEndpoints() (Pt, Pt) {
	hw, hh := s.Width/2, s.Height/2
	return s.localToWorld(Pt{-hw, -hh}), s.localToWorld(Pt{hw, hh})
}

// lineDirection is the unit vector along the line in its local frame. A
// degenerate line falls back to the local x axis, which in world space is
// the direction of the stored rotation angle.
func (s *Shape) lineDirection() Pt {
	l := s.Length()
	if l < 1e-9 {
		return Pt{1, 0}
	}
	return Pt{s.Width / l, s.Height / l}
}

// distToSegment returns the distance from p to the segment a-b.
func distToSegment(p, a, b Pt) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Sub(a.Add(ab.Scale(t))).Len()
}
