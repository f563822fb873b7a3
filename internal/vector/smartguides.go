/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides snap a dragged shape's bounds to the bounds of the other
// shapes. UI-agnostic so the editor and tests share one code path.

import "math"

// SnapOptions controls which alignments are considered.
type SnapOptions struct {
	// Threshold is the maximum world distance at which snapping occurs.
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// Orientation of a guide line.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// GuideKind tells which features aligned.
type GuideKind uint8

const (
	GuideEdge GuideKind = iota
	GuideCenter
)

// GuideLine is a visual guide produced by a snap. Position is the x of a
// vertical guide or the y of a horizontal one, rounded to 3 places.
type GuideLine struct {
	Orientation Orientation
	Kind        GuideKind
	Position    float64
	From, To    Pt
}

type axisBest struct {
	delta, dist float64
	guide       GuideLine
	ok          bool
}

func (b *axisBest) consider(delta, threshold float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold || (b.ok && dist >= b.dist) {
		return
	}
	*b = axisBest{delta: delta, dist: dist, guide: g, ok: true}
}

// AnchorsFor returns the world bounds of every shape except the one with the
// given id, in the order given.
func AnchorsFor(shapes []*Shape, exceptID string) []Rect {
	out := make([]Rect, 0, len(shapes))
	for _, s := range shapes {
		if s == nil || s.ID == exceptID {
			continue
		}
		out = append(out, s.Bounds())
	}
	return out
}

// ComputeSmartGuides returns the offset (dx, dy) that aligns moving with the
// nearest anchor edge or center, and the guides to draw. X and Y snap
// independently; the first anchor wins ties.
func ComputeSmartGuides(moving Rect, anchors []Rect, opts SnapOptions) (Pt, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var bx, by axisBest
	mL, mR, mCX := moving.X, moving.X+moving.W, moving.X+moving.W/2
	mT, mB, mCY := moving.Y, moving.Y+moving.H, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR, aCX := a.X, a.X+a.W, a.X+a.W/2
		aT, aB, aCY := a.Y, a.Y+a.H, a.Y+a.H/2
		if opts.SnapToEdges {
			for _, p := range [][2]float64{{mL, aL}, {mR, aR}, {mL, aR}, {mR, aL}} {
				bx.consider(p[1]-p[0], opts.Threshold, vertical(p[1], moving, a, GuideEdge))
			}
			for _, p := range [][2]float64{{mT, aT}, {mB, aB}, {mT, aB}, {mB, aT}} {
				by.consider(p[1]-p[0], opts.Threshold, horizontal(p[1], moving, a, GuideEdge))
			}
		}
		if opts.SnapToCenters {
			bx.consider(aCX-mCX, opts.Threshold, vertical(aCX, moving, a, GuideCenter))
			by.consider(aCY-mCY, opts.Threshold, horizontal(aCY, moving, a, GuideCenter))
		}
	}

	var off Pt
	var guides []GuideLine
	if bx.ok {
		off.X = FloatRound(bx.delta, 6)
		guides = append(guides, bx.guide)
	}
	if by.ok {
		off.Y = FloatRound(by.delta, 6)
		guides = append(guides, by.guide)
	}
	return off, guides
}

func vertical(x float64, a, b Rect, kind GuideKind) GuideLine {
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: Vertical,
		Kind:        kind,
		Position:    x,
		From:        Pt{x, math.Min(a.Y, b.Y)},
		To:          Pt{x, math.Max(a.Y+a.H, b.Y+b.H)},
	}
}

func horizontal(y float64, a, b Rect, kind GuideKind) GuideLine {
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: Horizontal,
		Kind:        kind,
		Position:    y,
		From:        Pt{math.Min(a.X, b.X), y},
		To:          Pt{math.Max(a.X+a.W, b.X+b.W), y},
	}
}
