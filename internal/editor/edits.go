/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"

	"geodraw/internal/command"
	"geodraw/internal/vector"
)

func (e *Editor) run(c command.Command) error {
	e.Cancel()
	return e.engine.Execute(c)
}

func (e *Editor) onSelected(build func(s *vector.Shape) command.Command) error {
	if e.selected == nil {
		return ErrNoSelection
	}
	return e.run(build(e.selected))
}

// Insert creates a shape of the given kind at a world position, adds it on
// top and selects it.
func (e *Editor) Insert(kind vector.Kind, at vector.Pt) (*vector.Shape, error) {
	opt := vector.ShapeOptions{Width: e.opts.DefaultWidth, Height: e.opts.DefaultHeight}
	switch kind {
	case vector.KindLine:
		opt = vector.ShapeOptions{}
	case vector.KindPolygon:
		opt = vector.ShapeOptions{Width: e.opts.DefaultWidth}
	}
	s := vector.NewShape(kind, at, opt)
	if err := e.run(command.NewAdd(e.model, s)); err != nil {
		return nil, err
	}
	e.selected = s
	return s, nil
}

// InsertShape adds an already built shape, e.g. a polygon from explicit
// vertices.
func (e *Editor) InsertShape(s *vector.Shape) error {
	if err := e.run(command.NewAdd(e.model, s)); err != nil {
		return err
	}
	e.selected = s
	return nil
}

func (e *Editor) Delete() error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewDelete(e.model, s) })
}

func (e *Editor) Move(dx, dy float64) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewMove(e.model, s, dx, dy) })
}

func (e *Editor) SetWidth(w float64) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewResizeWidth(e.model, s, w) })
}

func (e *Editor) SetHeight(h float64) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewResizeHeight(e.model, s, h) })
}

// Stretch resizes the selection as if handle h were dragged between two
// world points.
func (e *Editor) Stretch(h vector.Handle, from, to vector.Pt) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewStretch(e.model, s, h, from, to) })
}

func (e *Editor) Rotate(delta float64) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewRotate(e.model, s, delta) })
}

func (e *Editor) Mirror(horizontal bool) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewMirror(e.model, s, horizontal) })
}

func (e *Editor) SetFillColor(c vector.Color) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewChangeFillColor(e.model, s, c) })
}

func (e *Editor) SetBorderColor(c vector.Color) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewChangeBorderColor(e.model, s, c) })
}

func (e *Editor) SetFontSize(n int) error {
	err := e.onSelected(func(s *vector.Shape) command.Command { return command.NewChangeFontSize(e.model, s, n) })
	if err != nil && !errors.Is(err, ErrNoSelection) {
		e.warn("font size rejected", err)
	}
	return err
}

func (e *Editor) SetText(text string) error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewChangeText(e.model, s, text) })
}

func (e *Editor) BringToFront() error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewBringToFront(e.model, s) })
}

func (e *Editor) SendToBack() error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewSendToBack(e.model, s) })
}

func (e *Editor) Copy() error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewCopy(e.clip, s) })
}

func (e *Editor) Cut() error {
	return e.onSelected(func(s *vector.Shape) command.Command { return command.NewCut(e.model, e.clip, s) })
}

// Paste inserts the clipboard content and selects the new shape.
func (e *Editor) Paste() error {
	p := command.NewPaste(e.model, e.clip)
	if err := e.run(p); err != nil {
		return err
	}
	e.selected = p.Pasted()
	return nil
}

// Undo reverts the last command. With nothing to undo it reports false.
func (e *Editor) Undo() (bool, error) {
	e.Cancel()
	ok, err := e.engine.Undo()
	if e.selected != nil && !e.model.Contains(e.selected) {
		e.selected = nil
	}
	return ok, err
}
