/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the interaction layer between a shell (desktop UI, CLI)
// and the drawing: selection, viewport, the press/drag/release gesture
// state machine, and command wrappers that route every edit through the
// undo engine.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"geodraw/internal/command"
	"geodraw/internal/drawing"
	applog "geodraw/internal/log"
	"geodraw/internal/vector"
)

// ErrNoSelection is returned by edits that need a selected shape.
var ErrNoSelection = errors.New("no shape selected")

// Options are the interaction settings, usually taken from the config file.
type Options struct {
	// HandleRadius is the drawn handle radius in screen pixels.
	HandleRadius float64
	// HitTolerance grows shapes for body hit-tests, in screen pixels.
	HitTolerance  float64
	Snap          bool
	SnapThreshold float64
	PasteOffset   float64
	UndoDepth     int
	DefaultWidth  float64
	DefaultHeight float64
}

func DefaultOptions() Options {
	return Options{
		HandleRadius:  5,
		HitTolerance:  3,
		Snap:          true,
		SnapThreshold: 6,
		PasteOffset:   command.DefaultPasteOffset,
		UndoDepth:     200,
		DefaultWidth:  vector.DefaultWidth,
		DefaultHeight: vector.DefaultHeight,
	}
}

// Editor owns the viewport, selection and undo stack of one drawing. It is
// driven from a single event loop and is not safe for concurrent use.
type Editor struct {
	opts     Options
	model    *drawing.Drawing
	unsub    func()
	engine   *command.Engine
	clip     *command.Clipboard
	vp       vector.Viewport
	selected *vector.Shape
	g        *gesture
	guides   []vector.GuideLine
	onWarn   func(string)
	log      *slog.Logger
}

func New(d *drawing.Drawing, opts Options) *Editor {
	e := &Editor{
		opts:   opts,
		engine: command.NewEngine(command.Config{MaxDepth: opts.UndoDepth}),
		clip:   command.NewClipboard(opts.PasteOffset),
		vp:     vector.NewViewport(),
		log:    applog.WithComponent("editor"),
	}
	e.SetDrawing(d)
	return e
}

// SetDrawing switches to another drawing, dropping selection, gesture and
// undo history. The clipboard survives.
func (e *Editor) SetDrawing(d *drawing.Drawing) {
	if d == nil {
		d = drawing.New()
	}
	if e.unsub != nil {
		e.unsub()
	}
	e.g = nil
	e.guides = nil
	e.selected = nil
	e.engine.Clear()
	e.model = d
	e.unsub = d.Subscribe(e.onChange)
}

func (e *Editor) onChange(ev drawing.Event) {
	if ev.Kind != drawing.Removed {
		return
	}
	if e.g != nil && e.g.shape == ev.Shape {
		e.reset()
	}
	if e.selected == ev.Shape {
		e.selected = nil
	}
}

func (e *Editor) Drawing() *drawing.Drawing { return e.model }

// History lists the undoable command names, oldest first.
func (e *Editor) History() []string { return e.engine.History() }

// OnWarning registers the sink for user-facing warnings (rejected input).
func (e *Editor) OnWarning(fn func(msg string)) { e.onWarn = fn }

func (e *Editor) warn(msg string, err error) {
	e.log.Warn(msg, slog.Any("err", err))
	if e.onWarn != nil {
		e.onWarn(fmt.Sprintf("%s: %v", msg, err))
	}
}

func (e *Editor) Viewport() vector.Viewport { return e.vp }

// SetZoom rejects non-positive factors with a warning and keeps the old zoom.
func (e *Editor) SetZoom(z float64) error {
	if err := e.vp.SetZoom(z); err != nil {
		e.warn("zoom rejected", err)
		return err
	}
	return nil
}

// ScrollTo sets the world point shown at the top-left of the viewport.
func (e *Editor) ScrollTo(x, y float64) { e.vp.ScrollX, e.vp.ScrollY = x, y }

func (e *Editor) Selected() *vector.Shape { return e.selected }

// Select changes the selection; nil clears it.
func (e *Editor) Select(s *vector.Shape) error {
	if s != nil && !e.model.Contains(s) {
		return fmt.Errorf("select: %w", drawing.ErrShapeNotFound)
	}
	e.selected = s
	return nil
}

// ShapeAt hit-tests a screen point front to back.
func (e *Editor) ShapeAt(screen vector.Pt) *vector.Shape {
	return e.model.TopmostAt(e.vp.ToWorld(screen), e.opts.HitTolerance/e.vp.Zoom())
}

// HandleAt returns the handle of the selected shape under the screen point.
func (e *Editor) HandleAt(screen vector.Pt) vector.Handle {
	if e.selected == nil {
		return vector.HandleNone
	}
	return e.selected.HandleAt(screen, e.vp, e.opts.HandleRadius)
}
