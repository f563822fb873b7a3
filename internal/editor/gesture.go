/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"geodraw/internal/command"
	"geodraw/internal/vector"
)

// changeEpsilon is the smallest geometry change that gets recorded.
const changeEpsilon = 1e-7

// Mode is the gesture state.
type Mode uint8

const (
	Idle Mode = iota
	Resizing
	Moving
)

func (m Mode) String() string {
	switch m {
	case Resizing:
		return "resizing"
	case Moving:
		return "moving"
	default:
		return "idle"
	}
}

// gesture is the state of an active drag. It only exists between Press and
// Release (or Cancel).
type gesture struct {
	mode     Mode
	shape    *vector.Shape
	handle   vector.Handle
	start    vector.Pt // world
	snapshot vector.Geometry
	bounds   vector.Rect // shape bounds at press, for snapping
	anchors  []vector.Rect
}

func (e *Editor) Mode() Mode {
	if e.g == nil {
		return Idle
	}
	return e.g.mode
}

// Guides returns the smart guides of the current move step.
func (e *Editor) Guides() []vector.GuideLine { return e.guides }

// Press starts a gesture. A press on a handle of the selected shape starts a
// resize; a press on a shape body selects it and starts a move; a press on
// empty canvas clears the selection.
func (e *Editor) Press(screen vector.Pt) {
	if e.g != nil {
		e.Cancel()
	}
	world := e.vp.ToWorld(screen)
	if h := e.HandleAt(screen); h != vector.HandleNone {
		e.begin(Resizing, e.selected, h, world)
		return
	}
	s := e.ShapeAt(screen)
	e.selected = s
	if s != nil {
		e.begin(Moving, s, vector.HandleNone, world)
	}
}

func (e *Editor) begin(mode Mode, s *vector.Shape, h vector.Handle, world vector.Pt) {
	e.g = &gesture{mode: mode, shape: s, handle: h, start: world, snapshot: s.Geometry(), bounds: s.Bounds()}
	if mode == Moving && e.opts.Snap {
		e.g.anchors = vector.AnchorsFor(e.model.ShapesOrderedByZ(), s.ID)
	}
	e.log.Debug("gesture started", slog.String("mode", mode.String()), slog.String("handle", h.String()), slog.String("shape", s.String()))
}

// Drag updates the active gesture with the current pointer position. It does
// nothing when idle.
func (e *Editor) Drag(screen vector.Pt) {
	g := e.g
	if g == nil {
		return
	}
	cur := e.vp.ToWorld(screen)
	switch g.mode {
	case Resizing:
		b, err := vector.Stretch(g.shape.Kind, g.snapshot, g.handle, g.start, cur)
		if err != nil {
			e.warn("resize rejected", err)
			e.Cancel()
			return
		}
		if err := e.model.ApplyBox(g.shape, b); err != nil {
			e.warn("resize failed", err)
			e.Cancel()
		}
	case Moving:
		d := cur.Sub(g.start)
		e.guides = nil
		if len(g.anchors) > 0 {
			r := g.bounds
			r.X += d.X
			r.Y += d.Y
			var off vector.Pt
			off, e.guides = vector.ComputeSmartGuides(r, g.anchors, vector.SnapOptions{
				Threshold:     e.opts.SnapThreshold / e.vp.Zoom(),
				SnapToEdges:   true,
				SnapToCenters: true,
			})
			d = d.Add(off)
		}
		if err := e.model.SetGeometry(g.shape, g.snapshot.Translated(d.X, d.Y)); err != nil {
			e.warn("move failed", err)
			e.Cancel()
		}
	}
}

// Release applies the final position and records one command if the
// geometry changed. The editor is always idle afterwards.
func (e *Editor) Release(screen vector.Pt) error {
	if e.g == nil {
		return nil
	}
	defer e.reset()
	e.Drag(screen)
	g := e.g
	if g == nil {
		// the drag step cancelled the gesture
		return nil
	}
	after := g.shape.Geometry()
	if after.SameTransform(g.snapshot, changeEpsilon) {
		// restore exact values so sub-epsilon jitter leaves no trace
		return e.model.SetGeometry(g.shape, g.snapshot)
	}
	name := "move"
	if g.mode == Resizing {
		name = "stretch " + g.handle.String()
	}
	return e.engine.Execute(command.NewTransform(e.model, g.shape, name, g.snapshot, after))
}

// Cancel aborts the active gesture, restoring the geometry from the start
// of the gesture. Used when the canvas loses focus mid-drag.
func (e *Editor) Cancel() {
	g := e.g
	if g == nil {
		return
	}
	defer e.reset()
	if e.model.Contains(g.shape) {
		if err := e.model.SetGeometry(g.shape, g.snapshot); err != nil {
			e.log.Error("cancel gesture", slog.Any("err", err))
		}
	}
}

func (e *Editor) reset() {
	e.g = nil
	e.guides = nil
}
