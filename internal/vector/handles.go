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
)

// ErrInvalidHandle is returned for handle values outside the enumeration or
// not applicable to the shape kind.
var ErrInvalidHandle = errors.New("invalid resize handle")

// Handle names a resize anchor. Box handles are named after their corner of
// the unmirrored box; with a mirror flag set they are drawn on the opposite
// side.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleLineStart
	HandleLineEnd
)

var handleNames = [...]string{"none", "top-left", "top", "top-right", "right", "bottom-right", "bottom", "bottom-left", "left", "line-start", "line-end"}

func (h Handle) String() string {
	if h >= 0 && int(h) < len(handleNames) {
		return handleNames[h]
	}
	return fmt.Sprintf("handle(%d)", int(h))
}

// boxHandles is the fixed iteration order for hit-testing box handles.
var boxHandles = []Handle{HandleTopLeft, HandleTop, HandleTopRight, HandleRight, HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft}

var lineHandles = []Handle{HandleLineStart, HandleLineEnd}

// sign returns the unit anchor direction (hx, hy) of a handle.
func (h Handle) sign() (int, int) {
	switch h {
	case HandleTopLeft:
		return -1, -1
	case HandleTop:
		return 0, -1
	case HandleTopRight:
		return 1, -1
	case HandleRight:
		return 1, 0
	case HandleBottomRight:
		return 1, 1
	case HandleBottom:
		return 0, 1
	case HandleBottomLeft:
		return -1, 1
	case HandleLeft:
		return -1, 0
	case HandleLineStart:
		return -1, -1
	case HandleLineEnd:
		return 1, 1
	}
	return 0, 0
}

// Opposite returns the handle that stays fixed while h is dragged.
func (h Handle) Opposite() Handle {
	switch h {
	case HandleLineStart:
		return HandleLineEnd
	case HandleLineEnd:
		return HandleLineStart
	case HandleNone:
		return HandleNone
	}
	hx, hy := h.sign()
	for _, o := range boxHandles {
		ox, oy := o.sign()
		if ox == -hx && oy == -hy {
			return o
		}
	}
	return HandleNone
}

// Handles lists the handles a shape offers, in hit-test order.
func (s *Shape) Handles() []Handle {
	if s.Kind == KindLine {
		return lineHandles
	}
	return boxHandles
}

// ValidHandle reports whether h applies to the shape.
func (s *Shape) ValidHandle(h Handle) bool {
	for _, c := range s.Handles() {
		if c == h {
			return true
		}
	}
	return false
}

// HandleLocal returns the anchor of h in the unmirrored local frame.
func (s *Shape) HandleLocal(h Handle) (Pt, error) {
	if !s.ValidHandle(h) {
		return Pt{}, fmt.Errorf("%w: %s on %s", ErrInvalidHandle, h, s.Kind)
	}
	return s.handleLocal(h), nil
}

func (s *Shape) handleLocal(h Handle) Pt {
	hx, hy := h.sign()
	return Pt{float64(hx) * s.Width / 2, float64(hy) * s.Height / 2}
}

// HandleWorld returns the world position of h: mirrored, rotated, then
// translated by the center.
func (s *Shape) HandleWorld(h Handle) (Pt, error) {
	l, err := s.HandleLocal(h)
	if err != nil {
		return Pt{}, err
	}
	return s.localToWorld(l), nil
}

// HandleAt finds the first handle whose screen position lies within
// 1.5 × radius of the screen point.
func (s *Shape) HandleAt(screen Pt, vp Viewport, radius float64) Handle {
	limit := radius * 1.5
	limit *= limit
	for _, h := range s.Handles() {
		p := vp.ToScreen(s.localToWorld(s.handleLocal(h)))
		d := p.Sub(screen)
		if d.Dot(d) <= limit {
			return h
		}
	}
	return HandleNone
}
