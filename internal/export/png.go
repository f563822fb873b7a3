/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

// RenderImage paints d into a new image covering Page(d, margin) at the
// requested scale.
func RenderImage(d *drawing.Drawing, opt Options) (*image.RGBA, error) {
	if d == nil {
		return nil, ErrNilDrawing
	}
	opt = opt.withDefaults()
	page := Page(d, opt.Margin)
	w := int(math.Ceil(page.W * opt.Scale))
	h := int(math.Ceil(page.H * opt.Scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty page %vx%v", page.W, page.H)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	base := vector.Scale(opt.Scale, opt.Scale).Mul(vector.Translate(-page.X, -page.Y))
	surf := NewRaster(img, base, opt.Fonts)
	surf.Clear(opt.background())
	Render(d, surf)
	return img, nil
}

// WritePNG renders d and encodes it as PNG.
func WritePNG(w io.Writer, d *drawing.Drawing, opt Options) error {
	img, err := RenderImage(d, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
