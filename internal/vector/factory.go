/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "github.com/google/uuid"

// Factory defaults for newly inserted shapes.
const (
	DefaultWidth      = 100.0
	DefaultHeight     = 60.0
	DefaultLineLength = 100.0
	DefaultVertices   = 5
	DefaultFontSize   = 14
	DefaultFontFamily = "Sans"
	DefaultText       = "Text"
)

// ShapeOptions tweaks what the factory creates. Zero values mean defaults.
type ShapeOptions struct {
	Width, Height float64
	Vertices      int
}

// NewShape creates a shape of the given kind with its top-left corner (start
// point for lines) at the given world position.
func NewShape(kind Kind, at Pt, opt ShapeOptions) *Shape {
	w, h := opt.Width, opt.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	s := &Shape{ID: uuid.NewString(), Kind: kind, X: at.X, Y: at.Y, MirrorX: 1, MirrorY: 1}
	switch kind {
	case KindLine:
		if opt.Width == 0 {
			w = DefaultLineLength
		}
		s.Width = clamp(w, -MaxSize, MaxSize)
		s.Height = clamp(opt.Height, -MaxSize, MaxSize)
	case KindPolygon:
		n := opt.Vertices
		if n == 0 {
			n = DefaultVertices
		}
		if n < MinVertices {
			n = MinVertices
		}
		if n > MaxVertices {
			n = MaxVertices
		}
		if opt.Height == 0 {
			h = w
		}
		s.Vertices = regularPolygon(n, R(at.X, at.Y, clamp(w, MinSize, MaxSize), clamp(h, MinSize, MaxSize)))
		s.UpdateBounds()
	case KindText:
		s.Width, s.Height = clamp(w, MinSize, MaxSize), clamp(h, MinSize, MaxSize)
		s.Text = &TextContent{Text: DefaultText, FontSize: DefaultFontSize, FontFamily: DefaultFontFamily}
	default:
		s.Width, s.Height = clamp(w, MinSize, MaxSize), clamp(h, MinSize, MaxSize)
	}
	return s
}

// NewPolygon creates a polygon from explicit world-space vertices.
func NewPolygon(pts []Pt) (*Shape, error) {
	s := &Shape{ID: uuid.NewString(), Kind: KindPolygon, MirrorX: 1, MirrorY: 1}
	if err := s.SetVertices(pts); err != nil {
		return nil, err
	}
	return s, nil
}
