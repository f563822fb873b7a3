/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"math"

	"geodraw/internal/editor"
	"geodraw/internal/export"
	"geodraw/internal/textlayout"
	"geodraw/internal/vector"
)

// Canvas colors.
var (
	canvasBackground = vector.Color{R: 246, G: 246, B: 248, A: 255}
	selectionColor   = vector.Color{R: 0, G: 170, B: 255, A: 255}
	guideColor       = vector.Color{R: 255, G: 0, B: 170, A: 255}
)

// RenderScene paints the editor state into a w×h pixel image. pxScale is
// device pixels per screen unit (the window's content scale); the editor
// viewport maps world to screen units.
//
// Shapes are drawn in ascending z order, then the selection outline, the
// smart guides of an active move and the resize handles on top.
func RenderScene(e *editor.Editor, w, h int, pxScale float64, radius float64, fonts textlayout.Provider) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if !(pxScale > 0) {
		pxScale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	vp := e.Viewport()
	device := vector.Scale(pxScale, pxScale)
	world := export.NewRaster(img, device.Mul(vp.Matrix()), fonts)
	world.Clear(canvasBackground)
	export.Render(e.Drawing(), world)

	sel := e.Selected()
	// one device pixel, whatever the zoom
	hair := 1 / (vp.Zoom() * pxScale)
	if sel != nil {
		world.SetPlacement(sel.Placement())
		world.StrokeRect(vector.R(sel.X, sel.Y, sel.Width, sel.Height), selectionColor, hair)
	}
	world.ResetPlacement()
	for _, g := range e.Guides() {
		world.StrokeLine(g.From, g.To, guideColor, hair)
	}

	if sel == nil {
		return img
	}
	screen := export.NewRaster(img, device, fonts)
	r := math.Max(radius, 1)
	for _, hd := range sel.Handles() {
		p, err := sel.HandleWorld(hd)
		if err != nil {
			continue
		}
		sp := vp.ToScreen(p)
		box := vector.R(sp.X-r, sp.Y-r, 2*r, 2*r)
		screen.FillRect(box, vector.White)
		screen.StrokeRect(box, selectionColor, 1)
	}
	return img
}
