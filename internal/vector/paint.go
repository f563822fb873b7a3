/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Surface is the painting boundary. Coordinates passed to the drawing calls
// are unrotated world coordinates; the surface applies the current
// placement (set per shape) and its own world-to-device mapping.
type Surface interface {
	SetPlacement(p Placement)
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color, width float64)
	FillEllipse(r Rect, c Color)
	StrokeEllipse(r Rect, c Color, width float64)
	FillPolygon(pts []Pt, c Color)
	StrokePolygon(pts []Pt, c Color, width float64)
	StrokeLine(a, b Pt, c Color, width float64)
	// DrawText lays the text out inside r and clips it to r.
	DrawText(r Rect, t TextContent, c Color)
}

// Paint draws the shape on the surface. Fills are only painted when a fill
// color was applied; outlines default to black.
func Paint(s *Shape, surf Surface) {
	surf.SetPlacement(s.Placement())
	border := s.Style.Border.Or(Black)
	box := R(s.X, s.Y, s.Width, s.Height)
	switch s.Kind {
	case KindRectangle:
		if s.Style.Fill.Set {
			surf.FillRect(box, s.Style.Fill.Color)
		}
		surf.StrokeRect(box, border, DefaultBorderWidth)
	case KindEllipse:
		if s.Style.Fill.Set {
			surf.FillEllipse(box, s.Style.Fill.Color)
		}
		surf.StrokeEllipse(box, border, DefaultBorderWidth)
	case KindLine:
		surf.StrokeLine(s.Start(), s.End(), border, DefaultBorderWidth)
	case KindPolygon:
		if s.Style.Fill.Set {
			surf.FillPolygon(s.Vertices, s.Style.Fill.Color)
		}
		surf.StrokePolygon(s.Vertices, border, DefaultBorderWidth)
	case KindText:
		if s.Style.Fill.Set {
			surf.FillRect(box, s.Style.Fill.Color)
		}
		if s.Text != nil {
			surf.DrawText(box, *s.Text, border)
		}
	}
}
