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
	"strings"
)

// Styles applied at paint time. A shape carries at most one fill and one
// border color; applying a color again updates the existing slot in place.

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// Hex formats the color as #rrggbb or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHex accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c Color
	c.A = 255
	switch len(s) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		c.R, c.G, c.B = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("parse color %q: unsupported length", s)
	}
	return c, nil
}

// OptionalColor is a style slot that is either unset or holds a color.
type OptionalColor struct {
	Color Color
	Set   bool
}

func Some(c Color) OptionalColor { return OptionalColor{Color: c, Set: true} }

// Or returns the slot color, or def when unset.
func (o OptionalColor) Or(def Color) Color {
	if !o.Set {
		return def
	}
	return o.Color
}

// Style groups the paint-time attributes of a shape.
type Style struct {
	Fill   OptionalColor
	Border OptionalColor
}

// DefaultBorderWidth is the stroke width used for outlines and lines.
const DefaultBorderWidth = 1.5
