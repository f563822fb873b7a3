/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodraw/internal/command"
	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	return New(drawing.New(), DefaultOptions())
}

func handleScreen(t *testing.T, e *Editor, s *vector.Shape, h vector.Handle) vector.Pt {
	t.Helper()
	w, err := s.HandleWorld(h)
	require.NoError(t, err)
	return e.Viewport().ToScreen(w)
}

func TestResizeGestureScenario(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindRectangle, vector.Pt{X: 100, Y: 100})
	require.NoError(t, err)

	p := handleScreen(t, e, r, vector.HandleBottomRight)
	e.Press(p)
	require.Equal(t, Resizing, e.Mode())
	e.Drag(p.Add(vector.Pt{X: 50}))
	require.NoError(t, e.Release(p.Add(vector.Pt{X: 100})))
	assert.Equal(t, Idle, e.Mode())
	assert.Equal(t, 100.0, r.X)
	assert.Equal(t, 100.0, r.Y)
	assert.Equal(t, 200.0, r.Width)
	assert.Equal(t, []string{"add", "stretch bottom-right"}, e.History())

	require.NoError(t, e.Rotate(90))
	anchor, err := r.HandleWorld(vector.HandleTopLeft)
	require.NoError(t, err)
	p = handleScreen(t, e, r, vector.HandleBottomRight)
	e.Press(p)
	require.Equal(t, Resizing, e.Mode())
	require.NoError(t, e.Release(p.Add(vector.Pt{X: 100})))
	after, err := r.HandleWorld(vector.HandleTopLeft)
	require.NoError(t, err)
	assert.InDelta(t, anchor.X, after.X, 1e-7)
	assert.InDelta(t, anchor.Y, after.Y, 1e-7)
	assert.NotEqual(t, vector.Pt{X: 100, Y: 100}, after)

	for i := 0; i < 3; i++ {
		ok, err := e.Undo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, vector.Geometry{X: 100, Y: 100, Width: vector.DefaultWidth, Height: vector.DefaultHeight, MirrorX: 1, MirrorY: 1}, r.Geometry())
}

func TestResizeGestureUnderZoom(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindEllipse, vector.Pt{X: 100, Y: 100})
	require.NoError(t, err)
	require.NoError(t, e.SetZoom(2))
	e.ScrollTo(50, 50)
	p := handleScreen(t, e, r, vector.HandleBottomRight)
	assert.Equal(t, vector.Pt{X: 300, Y: 220}, p)
	e.Press(p)
	require.NoError(t, e.Release(p.Add(vector.Pt{X: 200})))
	assert.InDelta(t, 200, r.Width, 1e-9)
	assert.InDelta(t, 100, r.X, 1e-9)
}

func TestReleaseWithoutChangeRecordsNothing(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	p := handleScreen(t, e, r, vector.HandleTop)
	e.Press(p)
	require.NoError(t, e.Release(p.Add(vector.Pt{X: 1e-9, Y: 1e-9})))
	assert.Equal(t, []string{"add"}, e.History())
	assert.Equal(t, 0.0, r.Y)
	assert.Equal(t, Idle, e.Mode())
}

func TestCancelRestoresSnapshot(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindRectangle, vector.Pt{X: 10, Y: 10})
	require.NoError(t, err)
	before := r.Geometry()
	p := handleScreen(t, e, r, vector.HandleLeft)
	e.Press(p)
	e.Drag(p.Add(vector.Pt{X: -40, Y: 3}))
	require.NotEqual(t, before, r.Geometry())
	e.Cancel()
	assert.Equal(t, before, r.Geometry())
	assert.Equal(t, Idle, e.Mode())
	assert.Equal(t, 1, len(e.History()))

	// release after cancel is a no-op
	require.NoError(t, e.Release(p))
	assert.Equal(t, before, r.Geometry())
}

func TestMoveGestureSnapsToOtherShapes(t *testing.T) {
	e := newEditor(t)
	_, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	b, err := e.Insert(vector.KindRectangle, vector.Pt{X: 300, Y: 0})
	require.NoError(t, err)

	e.Press(vector.Pt{X: 350, Y: 30})
	require.Equal(t, Moving, e.Mode())
	assert.Same(t, b, e.Selected())
	e.Drag(vector.Pt{X: 153, Y: 32})
	assert.NotEmpty(t, e.Guides())
	require.NoError(t, e.Release(vector.Pt{X: 153, Y: 32}))
	assert.Equal(t, 100.0, b.X)
	assert.Equal(t, 0.0, b.Y)
	assert.Empty(t, e.Guides())
	assert.Equal(t, "move", e.History()[len(e.History())-1])
}

func TestMoveWithoutSnapping(t *testing.T) {
	opts := DefaultOptions()
	opts.Snap = false
	e := New(drawing.New(), opts)
	_, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	b, err := e.Insert(vector.KindRectangle, vector.Pt{X: 300, Y: 0})
	require.NoError(t, err)
	e.Press(vector.Pt{X: 350, Y: 30})
	require.NoError(t, e.Release(vector.Pt{X: 153, Y: 32}))
	assert.Equal(t, 103.0, b.X)
	assert.Equal(t, 2.0, b.Y)
}

func TestPressOnEmptyCanvasClearsSelection(t *testing.T) {
	e := newEditor(t)
	_, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	e.Press(vector.Pt{X: 500, Y: 500})
	assert.Nil(t, e.Selected())
	assert.Equal(t, Idle, e.Mode())
	assert.ErrorIs(t, e.Delete(), ErrNoSelection)
}

func TestRemovingShapeEndsGesture(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	e.Press(vector.Pt{X: 50, Y: 30})
	require.Equal(t, Moving, e.Mode())
	_, err = e.Drawing().Remove(r)
	require.NoError(t, err)
	assert.Equal(t, Idle, e.Mode())
	assert.Nil(t, e.Selected())
}

func TestInvalidZoomWarns(t *testing.T) {
	e := newEditor(t)
	var warnings []string
	e.OnWarning(func(msg string) { warnings = append(warnings, msg) })
	assert.ErrorIs(t, e.SetZoom(0), vector.ErrInvalidZoom)
	assert.ErrorIs(t, e.SetZoom(-2), vector.ErrInvalidZoom)
	assert.Equal(t, 1.0, e.Viewport().Zoom())
	assert.Len(t, warnings, 2)
}

func TestEditsRouteThroughUndo(t *testing.T) {
	e := newEditor(t)
	txt, err := e.Insert(vector.KindText, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	require.NoError(t, e.SetText("hello"))
	require.NoError(t, e.SetFontSize(24))
	var warned bool
	e.OnWarning(func(string) { warned = true })
	assert.ErrorIs(t, e.SetFontSize(100), command.ErrFontSize)
	assert.True(t, warned)
	require.NoError(t, e.SetFillColor(vector.White))
	require.NoError(t, e.SetBorderColor(vector.Black))
	require.NoError(t, e.Mirror(true))
	require.NoError(t, e.Move(5, 5))
	require.NoError(t, e.SetWidth(300))
	require.NoError(t, e.SetHeight(40))
	require.NoError(t, e.Stretch(vector.HandleRight, vector.Pt{}, vector.Pt{X: 10}))
	assert.Equal(t, 24, txt.Text.FontSize)

	for {
		ok, err := e.Undo()
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	assert.Equal(t, 0, e.Drawing().Len())
	assert.Nil(t, e.Selected())
	assert.Equal(t, vector.DefaultText, txt.Text.Text)
}

func TestClipboardFlow(t *testing.T) {
	e := newEditor(t)
	r, err := e.Insert(vector.KindRectangle, vector.Pt{X: 0, Y: 0})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Paste(), command.ErrClipboardEmpty)
	require.NoError(t, e.Copy())
	require.NoError(t, e.Paste())
	pasted := e.Selected()
	require.NotNil(t, pasted)
	assert.NotSame(t, r, pasted)
	assert.Equal(t, 2, e.Drawing().Len())

	require.NoError(t, e.Select(r))
	require.NoError(t, e.Cut())
	assert.Equal(t, 1, e.Drawing().Len())
	assert.Nil(t, e.Selected())
	require.NoError(t, e.Paste())
	assert.Equal(t, 2, e.Drawing().Len())

	require.NoError(t, e.BringToFront())
	require.NoError(t, e.SendToBack())
	assert.Equal(t, 0, e.Selected().Z)
}

func TestSetDrawingResetsState(t *testing.T) {
	e := newEditor(t)
	_, err := e.Insert(vector.KindRectangle, vector.Pt{})
	require.NoError(t, err)
	e.SetDrawing(drawing.New())
	assert.Nil(t, e.Selected())
	assert.Empty(t, e.History())
	ok, err := e.Undo()
	assert.NoError(t, err)
	assert.False(t, ok)
}
