/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"errors"
	"fmt"

	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

var (
	ErrNilModel       = errors.New("command has no drawing")
	ErrNilShape       = errors.New("command has no shape")
	ErrNilClipboard   = errors.New("command has no clipboard")
	ErrClipboardEmpty = errors.New("clipboard is empty")
	ErrNotText        = errors.New("shape is not a text shape")
	ErrFontSize       = fmt.Errorf("font size must be within %d..%d", vector.MinFontSize, vector.MaxFontSize)
)

// target is embedded by every command that edits one shape.
type target struct {
	model *drawing.Drawing
	shape *vector.Shape
}

func (t target) check() error {
	if t.model == nil {
		return ErrNilModel
	}
	if t.shape == nil {
		return ErrNilShape
	}
	return nil
}

// Add inserts a shape on top of the drawing.
type Add struct{ target }

func NewAdd(m *drawing.Drawing, s *vector.Shape) *Add { return &Add{target{m, s}} }

func (c *Add) Name() string { return "add" }

func (c *Add) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	return c.model.Add(c.shape)
}

func (c *Add) Undo() error {
	_, err := c.model.Remove(c.shape)
	return err
}

// Delete removes a shape and remembers its z for undo.
type Delete struct {
	target
	z int
}

func NewDelete(m *drawing.Drawing, s *vector.Shape) *Delete { return &Delete{target: target{m, s}} }

func (c *Delete) Name() string { return "delete" }

func (c *Delete) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	z, err := c.model.Remove(c.shape)
	if err != nil {
		return err
	}
	c.z = z
	return nil
}

func (c *Delete) Undo() error { return c.model.Insert(c.shape, c.z) }

// geometryEdit captures the full geometry before applying an edit so that
// undo is exact for every kind, polygon vertices included.
type geometryEdit struct {
	target
	before vector.Geometry
	apply  func() error
}

func (c *geometryEdit) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.model.Contains(c.shape) {
		return fmt.Errorf("%w: %s", drawing.ErrShapeNotFound, c.shape)
	}
	c.before = c.shape.Geometry()
	return c.apply()
}

func (c *geometryEdit) Undo() error { return c.model.SetGeometry(c.shape, c.before) }

// Move translates a shape by (dx, dy).
type Move struct{ geometryEdit }

func NewMove(m *drawing.Drawing, s *vector.Shape, dx, dy float64) *Move {
	c := &Move{geometryEdit{target: target{m, s}}}
	c.apply = func() error { return m.MoveShapeBy(s, dx, dy) }
	return c
}

func (c *Move) Name() string { return "move" }

// ResizeWidth sets the width, clamped to the size limits.
type ResizeWidth struct{ geometryEdit }

func NewResizeWidth(m *drawing.Drawing, s *vector.Shape, w float64) *ResizeWidth {
	c := &ResizeWidth{geometryEdit{target: target{m, s}}}
	c.apply = func() error { return m.SetShapeWidth(s, w) }
	return c
}

func (c *ResizeWidth) Name() string { return "resize width" }

// ResizeHeight sets the height, clamped to the size limits.
type ResizeHeight struct{ geometryEdit }

func NewResizeHeight(m *drawing.Drawing, s *vector.Shape, h float64) *ResizeHeight {
	c := &ResizeHeight{geometryEdit{target: target{m, s}}}
	c.apply = func() error { return m.SetShapeHeight(s, h) }
	return c
}

func (c *ResizeHeight) Name() string { return "resize height" }

// Stretch drags a resize handle from start to cur (world coordinates)
// keeping the opposite anchor in place.
type Stretch struct{ geometryEdit }

func NewStretch(m *drawing.Drawing, s *vector.Shape, h vector.Handle, start, cur vector.Pt) *Stretch {
	c := &Stretch{geometryEdit{target: target{m, s}}}
	c.apply = func() error {
		if !s.ValidHandle(h) {
			return fmt.Errorf("%w: %s on %s", vector.ErrInvalidHandle, h, s.Kind)
		}
		b, err := vector.Stretch(s.Kind, c.before, h, start, cur)
		if err != nil {
			return err
		}
		return m.ApplyBox(s, b)
	}
	return c
}

func (c *Stretch) Name() string { return "stretch" }

// Transform records a finished interactive gesture: the shape already has
// its final geometry, Execute re-applies it and Undo restores the start.
type Transform struct {
	target
	name          string
	before, after vector.Geometry
}

func NewTransform(m *drawing.Drawing, s *vector.Shape, name string, before, after vector.Geometry) *Transform {
	return &Transform{target: target{m, s}, name: name, before: before, after: after}
}

func (c *Transform) Name() string { return c.name }

func (c *Transform) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	return c.model.SetGeometry(c.shape, c.after)
}

func (c *Transform) Undo() error { return c.model.SetGeometry(c.shape, c.before) }

// Rotate adds a signed angle. Undo restores the stored previous angle
// rather than subtracting, which keeps it bit-exact.
type Rotate struct {
	target
	delta, prev float64
}

func NewRotate(m *drawing.Drawing, s *vector.Shape, delta float64) *Rotate {
	return &Rotate{target: target{m, s}, delta: delta}
}

func (c *Rotate) Name() string { return "rotate" }

func (c *Rotate) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	prev := c.shape.Rotation
	if err := c.model.RotateShape(c.shape, c.delta); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *Rotate) Undo() error { return c.model.SetRotation(c.shape, c.prev) }

// Mirror flips one axis. It is its own inverse.
type Mirror struct {
	target
	horizontal bool
}

func NewMirror(m *drawing.Drawing, s *vector.Shape, horizontal bool) *Mirror {
	return &Mirror{target: target{m, s}, horizontal: horizontal}
}

func (c *Mirror) Name() string {
	if c.horizontal {
		return "mirror horizontal"
	}
	return "mirror vertical"
}

func (c *Mirror) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	return c.model.MirrorShape(c.shape, c.horizontal)
}

func (c *Mirror) Undo() error { return c.model.MirrorShape(c.shape, c.horizontal) }

// ChangeFillColor sets the fill slot; undo restores the slot, unset state
// included.
type ChangeFillColor struct {
	target
	color vector.Color
	prev  vector.OptionalColor
}

func NewChangeFillColor(m *drawing.Drawing, s *vector.Shape, col vector.Color) *ChangeFillColor {
	return &ChangeFillColor{target: target{m, s}, color: col}
}

func (c *ChangeFillColor) Name() string { return "fill color" }

func (c *ChangeFillColor) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	prev := c.shape.Style.Fill
	if err := c.model.SetFill(c.shape, vector.Some(c.color)); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *ChangeFillColor) Undo() error { return c.model.SetFill(c.shape, c.prev) }

// ChangeBorderColor sets the outline slot.
type ChangeBorderColor struct {
	target
	color vector.Color
	prev  vector.OptionalColor
}

func NewChangeBorderColor(m *drawing.Drawing, s *vector.Shape, col vector.Color) *ChangeBorderColor {
	return &ChangeBorderColor{target: target{m, s}, color: col}
}

func (c *ChangeBorderColor) Name() string { return "border color" }

func (c *ChangeBorderColor) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	prev := c.shape.Style.Border
	if err := c.model.SetBorder(c.shape, vector.Some(c.color)); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *ChangeBorderColor) Undo() error { return c.model.SetBorder(c.shape, c.prev) }

// ChangeFontSize applies to text shapes only and rejects sizes outside
// MinFontSize..MaxFontSize.
type ChangeFontSize struct {
	target
	size, prev int
}

func NewChangeFontSize(m *drawing.Drawing, s *vector.Shape, size int) *ChangeFontSize {
	return &ChangeFontSize{target: target{m, s}, size: size}
}

func (c *ChangeFontSize) Name() string { return "font size" }

func (c *ChangeFontSize) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.shape.Text == nil {
		return fmt.Errorf("%w: %s", ErrNotText, c.shape)
	}
	if !vector.ValidFontSize(c.size) {
		return fmt.Errorf("%w: got %d", ErrFontSize, c.size)
	}
	prev := c.shape.Text.FontSize
	if err := c.model.SetFontSize(c.shape, c.size); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *ChangeFontSize) Undo() error { return c.model.SetFontSize(c.shape, c.prev) }

// ChangeText replaces the content of a text shape with its NFC form.
type ChangeText struct {
	target
	text, prev string
}

func NewChangeText(m *drawing.Drawing, s *vector.Shape, text string) *ChangeText {
	return &ChangeText{target: target{m, s}, text: text}
}

func (c *ChangeText) Name() string { return "text" }

func (c *ChangeText) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.shape.Text == nil {
		return fmt.Errorf("%w: %s", ErrNotText, c.shape)
	}
	prev := c.shape.Text.Text
	if err := c.model.SetText(c.shape, vector.NormalizeText(c.text)); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *ChangeText) Undo() error { return c.model.SetText(c.shape, c.prev) }

// reorder moves a shape to the front or back and restores its old z on
// undo; the shapes in between shift back as well.
type reorder struct {
	target
	front bool
	prev  int
}

func (c *reorder) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	var err error
	if c.front {
		c.prev, err = c.model.BringToFront(c.shape)
	} else {
		c.prev, err = c.model.SendToBack(c.shape)
	}
	return err
}

func (c *reorder) Undo() error {
	_, err := c.model.SetZ(c.shape, c.prev)
	return err
}

type BringToFront struct{ reorder }

func NewBringToFront(m *drawing.Drawing, s *vector.Shape) *BringToFront {
	return &BringToFront{reorder{target: target{m, s}, front: true}}
}

func (c *BringToFront) Name() string { return "bring to front" }

type SendToBack struct{ reorder }

func NewSendToBack(m *drawing.Drawing, s *vector.Shape) *SendToBack {
	return &SendToBack{reorder{target: target{m, s}}}
}

func (c *SendToBack) Name() string { return "send to back" }
