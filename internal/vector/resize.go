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
	"math"
)

// Box is the position and size produced by a resize step.
type Box struct {
	X, Y, Width, Height float64
}

// Stretch computes the box that results from dragging handle h of a shape
// whose geometry was g when the gesture started. start and cur are the world
// positions of the pointer at gesture start and now.
//
// The anchor opposite to h (the other endpoint for lines) keeps its world
// position for every rotation and mirror combination, including when the
// requested size is clamped to [MinSize, MaxSize].
func Stretch(kind Kind, g Geometry, h Handle, start, cur Pt) (Box, error) {
	mx, my := 1.0, 1.0
	if g.MirrorX < 0 {
		mx = -1
	}
	if g.MirrorY < 0 {
		my = -1
	}
	// pointer delta in the rotated frame, then mapped onto the unmirrored
	// axes so the rules below only deal with mathematical corners
	d := rotatePt(cur.Sub(start), -g.Rotation)
	e := Pt{d.X * mx, d.Y * my}

	var w, hgt float64
	var before, after Pt // anchor in the local frame
	if kind == KindLine {
		l := math.Hypot(g.Width, g.Height)
		u := Pt{1, 0}
		if l >= 1e-9 {
			u = Pt{g.Width / l, g.Height / l}
		}
		m := e.Dot(u)
		var nl float64
		var side float64
		switch h {
		case HandleLineStart:
			nl = clamp(l-m, MinSize, MaxSize)
			side = 1 // end point is the anchor
		case HandleLineEnd:
			nl = clamp(l+m, MinSize, MaxSize)
			side = -1
		default:
			return Box{}, fmt.Errorf("%w: %s on line", ErrInvalidHandle, h)
		}
		w, hgt = u.X*nl, u.Y*nl
		before = Pt{side * g.Width / 2, side * g.Height / 2}
		after = Pt{side * w / 2, side * hgt / 2}
	} else {
		hx, hy := h.sign()
		if h == HandleLineStart || h == HandleLineEnd || (hx == 0 && hy == 0) {
			return Box{}, fmt.Errorf("%w: %s on %s", ErrInvalidHandle, h, kind)
		}
		w = clamp(g.Width+float64(hx)*e.X, MinSize, MaxSize)
		hgt = clamp(g.Height+float64(hy)*e.Y, MinSize, MaxSize)
		if hx == 0 {
			w = g.Width
		}
		if hy == 0 {
			hgt = g.Height
		}
		before = Pt{-float64(hx) * g.Width / 2, -float64(hy) * g.Height / 2}
		after = Pt{-float64(hx) * w / 2, -float64(hy) * hgt / 2}
	}

	// Keep the anchor fixed: move the center by the anchor's local shift,
	// mirrored and rotated into world space.
	shift := rotatePt(before.Sub(after).Mul(mx, my), g.Rotation)
	c := Pt{g.X + g.Width/2, g.Y + g.Height/2}.Add(shift)
	return Box{X: c.X - w/2, Y: c.Y - hgt/2, Width: w, Height: hgt}, nil
}
