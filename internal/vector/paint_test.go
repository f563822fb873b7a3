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
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSurface struct {
	calls []string
	place Placement
}

func (r *recordingSurface) SetPlacement(p Placement) { r.place = p }
func (r *recordingSurface) FillRect(Rect, Color)     { r.calls = append(r.calls, "fillRect") }
func (r *recordingSurface) StrokeRect(_ Rect, c Color, _ float64) {
	r.calls = append(r.calls, "strokeRect "+c.Hex())
}
func (r *recordingSurface) FillEllipse(Rect, Color) { r.calls = append(r.calls, "fillEllipse") }
func (r *recordingSurface) StrokeEllipse(Rect, Color, float64) {
	r.calls = append(r.calls, "strokeEllipse")
}
func (r *recordingSurface) FillPolygon(pts []Pt, _ Color) {
	r.calls = append(r.calls, fmt.Sprintf("fillPolygon %d", len(pts)))
}
func (r *recordingSurface) StrokePolygon(pts []Pt, _ Color, _ float64) {
	r.calls = append(r.calls, fmt.Sprintf("strokePolygon %d", len(pts)))
}
func (r *recordingSurface) StrokeLine(Pt, Pt, Color, float64) { r.calls = append(r.calls, "line") }
func (r *recordingSurface) DrawText(_ Rect, t TextContent, _ Color) {
	r.calls = append(r.calls, "text "+t.Text)
}

func TestPaintUsesStyleSlots(t *testing.T) {
	s := NewShape(KindRectangle, Pt{0, 0}, ShapeOptions{})
	var rec recordingSurface
	Paint(s, &rec)
	assert.Equal(t, []string{"strokeRect #000000"}, rec.calls)

	s.Style.Fill = Some(White)
	s.Style.Border = Some(Color{255, 0, 0, 255})
	rec = recordingSurface{}
	Paint(s, &rec)
	assert.Equal(t, []string{"fillRect", "strokeRect #ff0000"}, rec.calls)
}

func TestPaintVariants(t *testing.T) {
	line := NewShape(KindLine, Pt{0, 0}, ShapeOptions{})
	line.Style.Fill = Some(White)
	poly := NewShape(KindPolygon, Pt{0, 0}, ShapeOptions{Vertices: 6})
	poly.Style.Fill = Some(White)
	txt := NewShape(KindText, Pt{0, 0}, ShapeOptions{})
	ell := NewShape(KindEllipse, Pt{0, 0}, ShapeOptions{})
	ell.Rotate(30)
	ell.Mirror(false)

	var rec recordingSurface
	for _, s := range []*Shape{line, poly, txt, ell} {
		Paint(s, &rec)
	}
	assert.Equal(t, []string{"line", "fillPolygon 6", "strokePolygon 6", "text Text", "strokeEllipse"}, rec.calls)
	assert.Equal(t, ell.Placement(), rec.place)
	assert.Equal(t, -1, rec.place.MirrorY)
}
