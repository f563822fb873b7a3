/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package drawing holds the shape container of a document: membership,
// z-order, change notification and snapshot encoding. Every mutation of a
// shape that belongs to a drawing goes through the setters here so listeners
// see it.
package drawing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	applog "geodraw/internal/log"
	"geodraw/internal/vector"
)

var (
	ErrNilShape       = errors.New("shape is nil")
	ErrShapeNotFound  = errors.New("shape is not part of the drawing")
	ErrDuplicateShape = errors.New("shape is already part of the drawing")
)

// EventKind classifies change notifications.
type EventKind uint8

const (
	Added EventKind = iota
	Removed
	Reordered
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Reordered:
		return "reordered"
	default:
		return "changed"
	}
}

// Event is delivered to listeners after the mutation completed. Shape is nil
// for Reordered.
type Event struct {
	Kind  EventKind
	Shape *vector.Shape
}

type Listener func(Event)

// Drawing is the container of shapes. Z values always form the dense range
// 0..Len()-1. Not safe for concurrent use; the editor runs on a single event
// loop.
type Drawing struct {
	shapes    []*vector.Shape
	listeners map[int]Listener
	nextSub   int
	log       *slog.Logger
}

func New() *Drawing {
	return &Drawing{listeners: map[int]Listener{}, log: applog.WithComponent("drawing")}
}

func (d *Drawing) Len() int { return len(d.shapes) }

// Subscribe registers fn and returns a function that removes it.
func (d *Drawing) Subscribe(fn Listener) func() {
	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

func (d *Drawing) notify(kind EventKind, s *vector.Shape) {
	if len(d.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	ev := Event{Kind: kind, Shape: s}
	for _, id := range ids {
		if fn, ok := d.listeners[id]; ok {
			fn(ev)
		}
	}
}

func (d *Drawing) indexOf(s *vector.Shape) int {
	for i, c := range d.shapes {
		if c == s {
			return i
		}
	}
	return -1
}

// Contains reports whether this exact instance belongs to the drawing.
func (d *Drawing) Contains(s *vector.Shape) bool { return s != nil && d.indexOf(s) >= 0 }

// Find returns the shape with the given id, or nil.
func (d *Drawing) Find(id string) *vector.Shape {
	for _, s := range d.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (d *Drawing) check(s *vector.Shape) error {
	if s == nil {
		return ErrNilShape
	}
	if d.indexOf(s) < 0 {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, s)
	}
	return nil
}

// Add appends s on top of all other shapes.
func (d *Drawing) Add(s *vector.Shape) error { return d.Insert(s, len(d.shapes)) }

// Insert adds s at z, shifting the shapes at or above z up by one. z is
// clamped to 0..Len().
func (d *Drawing) Insert(s *vector.Shape, z int) error {
	if s == nil {
		return ErrNilShape
	}
	if d.indexOf(s) >= 0 || (s.ID != "" && d.Find(s.ID) != nil) {
		return fmt.Errorf("%w: %s", ErrDuplicateShape, s)
	}
	z = clampZ(z, len(d.shapes))
	for _, o := range d.shapes {
		if o.Z >= z {
			o.Z++
		}
	}
	s.Z = z
	d.shapes = append(d.shapes, s)
	d.log.Debug("shape added", slog.String("shape", s.String()))
	d.notify(Added, s)
	return nil
}

// Remove takes s out of the drawing and returns the z it had. The shapes
// above it move down by one.
func (d *Drawing) Remove(s *vector.Shape) (int, error) {
	if err := d.check(s); err != nil {
		return 0, err
	}
	i := d.indexOf(s)
	z := s.Z
	d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
	for _, o := range d.shapes {
		if o.Z > z {
			o.Z--
		}
	}
	d.log.Debug("shape removed", slog.String("shape", s.String()))
	d.notify(Removed, s)
	return z, nil
}

// ShapesOrderedByZ returns a fresh slice sorted back to front.
func (d *Drawing) ShapesOrderedByZ() []*vector.Shape {
	out := append([]*vector.Shape(nil), d.shapes...)
	sort.Slice(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// TopmostAt hit-tests front to back and returns the first shape containing
// the world point, or nil.
func (d *Drawing) TopmostAt(p vector.Pt, tolerance float64) *vector.Shape {
	ordered := d.ShapesOrderedByZ()
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].ContainsPoint(p.X, p.Y, tolerance) {
			return ordered[i]
		}
	}
	return nil
}

// SetZ moves s to z, shifting the shapes in between by one. Returns the
// previous z.
func (d *Drawing) SetZ(s *vector.Shape, z int) (int, error) {
	if err := d.check(s); err != nil {
		return 0, err
	}
	old := s.Z
	z = clampZ(z, len(d.shapes)-1)
	if z == old {
		return old, nil
	}
	for _, o := range d.shapes {
		switch {
		case o == s:
		case z > old && o.Z > old && o.Z <= z:
			o.Z--
		case z < old && o.Z >= z && o.Z < old:
			o.Z++
		}
	}
	s.Z = z
	d.notify(Reordered, nil)
	return old, nil
}

func (d *Drawing) BringToFront(s *vector.Shape) (int, error) { return d.SetZ(s, len(d.shapes)-1) }

func (d *Drawing) SendToBack(s *vector.Shape) (int, error) { return d.SetZ(s, 0) }

func clampZ(z, hi int) int {
	if z < 0 {
		return 0
	}
	if z > hi {
		return hi
	}
	return z
}

// mutate runs fn on a member shape and notifies Changed.
func (d *Drawing) mutate(s *vector.Shape, op string, fn func()) error {
	if err := d.check(s); err != nil {
		return err
	}
	fn()
	d.log.Debug(op, slog.String("shape", s.String()))
	d.notify(Changed, s)
	return nil
}

func (d *Drawing) MoveShapeTo(s *vector.Shape, x, y float64) error {
	return d.mutate(s, "move", func() { s.MoveTo(x, y) })
}

func (d *Drawing) MoveShapeBy(s *vector.Shape, dx, dy float64) error {
	return d.mutate(s, "move", func() { s.MoveBy(dx, dy) })
}

func (d *Drawing) SetShapeWidth(s *vector.Shape, w float64) error {
	return d.mutate(s, "set width", func() { s.SetWidth(w) })
}

func (d *Drawing) SetShapeHeight(s *vector.Shape, h float64) error {
	return d.mutate(s, "set height", func() { s.SetHeight(h) })
}

// ApplyBox sets position and size in one step (resize gestures).
func (d *Drawing) ApplyBox(s *vector.Shape, b vector.Box) error {
	return d.mutate(s, "apply box", func() { s.ApplyBox(b) })
}

// SetGeometry restores a captured geometry (undo, cancelled gestures).
func (d *Drawing) SetGeometry(s *vector.Shape, g vector.Geometry) error {
	return d.mutate(s, "set geometry", func() { s.SetGeometry(g) })
}

func (d *Drawing) RotateShape(s *vector.Shape, delta float64) error {
	return d.mutate(s, "rotate", func() { s.Rotate(delta) })
}

// SetRotation assigns an absolute angle.
func (d *Drawing) SetRotation(s *vector.Shape, angle float64) error {
	return d.mutate(s, "set rotation", func() { s.Rotation = angle })
}

func (d *Drawing) MirrorShape(s *vector.Shape, horizontal bool) error {
	return d.mutate(s, "mirror", func() { s.Mirror(horizontal) })
}

func (d *Drawing) SetFill(s *vector.Shape, c vector.OptionalColor) error {
	return d.mutate(s, "set fill", func() { s.Style.Fill = c })
}

func (d *Drawing) SetBorder(s *vector.Shape, c vector.OptionalColor) error {
	return d.mutate(s, "set border", func() { s.Style.Border = c })
}

// SetFontSize changes the font size of a text shape. Sizes are not
// validated here; commands reject out-of-range values before calling.
func (d *Drawing) SetFontSize(s *vector.Shape, n int) error {
	if s != nil && s.Text == nil {
		return fmt.Errorf("set font size: %s has no text", s)
	}
	return d.mutate(s, "set font size", func() { s.Text.FontSize = n })
}

// SetText replaces the content of a text shape with its NFC form.
func (d *Drawing) SetText(s *vector.Shape, text string) error {
	if s != nil && s.Text == nil {
		return fmt.Errorf("set text: %s has no text", s)
	}
	text = vector.NormalizeText(text)
	return d.mutate(s, "set text", func() { s.Text.Text = text })
}

// SetVertices replaces a polygon's vertex list.
func (d *Drawing) SetVertices(s *vector.Shape, pts []vector.Pt) error {
	if err := d.check(s); err != nil {
		return err
	}
	if err := s.SetVertices(pts); err != nil {
		return err
	}
	d.notify(Changed, s)
	return nil
}
