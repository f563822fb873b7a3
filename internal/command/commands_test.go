/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

type fixture struct {
	d    *drawing.Drawing
	clip *Clipboard
	rect *vector.Shape
	poly *vector.Shape
	text *vector.Shape
	line *vector.Shape
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{d: drawing.New(), clip: NewClipboard(DefaultPasteOffset)}
	f.rect = vector.NewShape(vector.KindRectangle, vector.Pt{X: 100, Y: 100}, vector.ShapeOptions{})
	f.poly = vector.NewShape(vector.KindPolygon, vector.Pt{X: 0.3, Y: 0.7}, vector.ShapeOptions{Vertices: 6})
	f.text = vector.NewShape(vector.KindText, vector.Pt{X: 300}, vector.ShapeOptions{})
	f.line = vector.NewShape(vector.KindLine, vector.Pt{X: 10, Y: 400}, vector.ShapeOptions{Width: 80, Height: -30})
	for _, s := range []*vector.Shape{f.rect, f.poly, f.text, f.line} {
		require.NoError(t, f.d.Add(s))
	}
	f.poly.Rotate(17.25)
	return f
}

func (f *fixture) snapshot(t *testing.T) string {
	t.Helper()
	b, err := f.d.SaveSnapshot()
	require.NoError(t, err)
	return string(b)
}

// every command must leave the drawing byte-identical after Execute+Undo
func TestUndoRestoresExactState(t *testing.T) {
	builders := map[string]func(f *fixture) Command{
		"add":          func(f *fixture) Command { return NewAdd(f.d, vector.NewShape(vector.KindEllipse, vector.Pt{}, vector.ShapeOptions{})) },
		"delete":       func(f *fixture) Command { return NewDelete(f.d, f.poly) },
		"move":         func(f *fixture) Command { return NewMove(f.d, f.poly, 0.1, -0.7) },
		"width":        func(f *fixture) Command { return NewResizeWidth(f.d, f.poly, 333.3) },
		"height":       func(f *fixture) Command { return NewResizeHeight(f.d, f.rect, 5000) },
		"stretch":      func(f *fixture) Command { return NewStretch(f.d, f.poly, vector.HandleTopLeft, vector.Pt{}, vector.Pt{X: 13.7, Y: 2.2}) },
		"stretch line": func(f *fixture) Command { return NewStretch(f.d, f.line, vector.HandleLineEnd, vector.Pt{}, vector.Pt{X: 9, Y: 1}) },
		"rotate":       func(f *fixture) Command { return NewRotate(f.d, f.poly, 0.1) },
		"mirror":       func(f *fixture) Command { return NewMirror(f.d, f.rect, true) },
		"fill":         func(f *fixture) Command { return NewChangeFillColor(f.d, f.rect, vector.White) },
		"border":       func(f *fixture) Command { return NewChangeBorderColor(f.d, f.line, vector.White) },
		"font size":    func(f *fixture) Command { return NewChangeFontSize(f.d, f.text, 30) },
		"text":         func(f *fixture) Command { return NewChangeText(f.d, f.text, "changed") },
		"front":        func(f *fixture) Command { return NewBringToFront(f.d, f.rect) },
		"back":         func(f *fixture) Command { return NewSendToBack(f.d, f.line) },
		"copy":         func(f *fixture) Command { return NewCopy(f.clip, f.text) },
		"cut":          func(f *fixture) Command { return NewCut(f.d, f.clip, f.poly) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			before := f.snapshot(t)
			e := NewEngine(Config{})
			require.NoError(t, e.Execute(build(f)))
			ok, err := e.Undo()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, before, f.snapshot(t))
		})
	}
}

func TestRotateUndoIsBitExact(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	start, delta := 0.1, 0.2
	f.rect.Rotation = start
	require.NoError(t, e.Execute(NewRotate(f.d, f.rect, delta)))
	assert.Equal(t, start+delta, f.rect.Rotation)
	_, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, start, f.rect.Rotation)
}

func TestMirrorTwiceRestores(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	require.NoError(t, e.Execute(NewMirror(f.d, f.rect, false)))
	assert.Equal(t, -1, f.rect.MirrorY)
	require.NoError(t, e.Execute(NewMirror(f.d, f.rect, false)))
	assert.Equal(t, 1, f.rect.MirrorY)
}

func TestPreconditionsRejectWithoutMutation(t *testing.T) {
	f := newFixture(t)
	before := f.snapshot(t)
	e := NewEngine(Config{})

	assert.ErrorIs(t, e.Execute(NewMove(nil, f.rect, 1, 1)), ErrNilModel)
	assert.ErrorIs(t, e.Execute(NewRotate(f.d, nil, 1)), ErrNilShape)
	assert.ErrorIs(t, e.Execute(NewChangeFontSize(f.d, f.rect, 12)), ErrNotText)
	assert.ErrorIs(t, e.Execute(NewChangeFontSize(f.d, f.text, 5)), ErrFontSize)
	assert.ErrorIs(t, e.Execute(NewChangeFontSize(f.d, f.text, 73)), ErrFontSize)
	assert.ErrorIs(t, e.Execute(NewChangeText(f.d, f.line, "x")), ErrNotText)
	assert.ErrorIs(t, e.Execute(NewStretch(f.d, f.rect, vector.HandleLineStart, vector.Pt{}, vector.Pt{X: 1})), vector.ErrInvalidHandle)
	assert.ErrorIs(t, e.Execute(NewPaste(f.d, f.clip)), ErrClipboardEmpty)
	assert.ErrorIs(t, e.Execute(NewCopy(nil, f.rect)), ErrNilClipboard)
	outsider := vector.NewShape(vector.KindRectangle, vector.Pt{}, vector.ShapeOptions{})
	assert.ErrorIs(t, e.Execute(NewMove(f.d, outsider, 1, 1)), drawing.ErrShapeNotFound)

	assert.Equal(t, 0, e.Len())
	assert.Equal(t, before, f.snapshot(t))
}

func TestFontSizeBoundsAccepted(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	require.NoError(t, e.Execute(NewChangeFontSize(f.d, f.text, vector.MinFontSize)))
	require.NoError(t, e.Execute(NewChangeFontSize(f.d, f.text, vector.MaxFontSize)))
	assert.Equal(t, vector.MaxFontSize, f.text.Text.FontSize)
}

func TestCopyPasteDeepClones(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	require.NoError(t, e.Execute(NewCopy(f.clip, f.poly)))

	p1 := NewPaste(f.d, f.clip)
	require.NoError(t, e.Execute(p1))
	p2 := NewPaste(f.d, f.clip)
	require.NoError(t, e.Execute(p2))

	a, b := p1.Pasted(), p2.Pasted()
	assert.NotEqual(t, f.poly.ID, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.InDelta(t, f.poly.X+DefaultPasteOffset, a.X, 1e-9)
	assert.InDelta(t, f.poly.X+2*DefaultPasteOffset, b.X, 1e-9)
	assert.Equal(t, f.d.Len()-1, b.Z)

	// mutating the original after copy does not reach the clipboard
	require.NoError(t, e.Execute(NewMove(f.d, f.poly, 50, 0)))
	assert.InDelta(t, f.poly.X-50, f.clip.Content().X, 1e-9)
	a.Vertices[0].X = -1
	assert.NotEqual(t, -1.0, f.poly.Vertices[0].X)

	// undoing a paste removes only that instance
	_, err := e.Undo() // move
	require.NoError(t, err)
	_, err = e.Undo() // paste 2
	require.NoError(t, err)
	assert.False(t, f.d.Contains(b))
	assert.True(t, f.d.Contains(a))
	assert.False(t, f.clip.Empty())
}

func TestPasteOffsetAdvancesOnlyOnCommit(t *testing.T) {
	f := newFixture(t)
	f.clip.set(f.rect)
	first := f.clip.next()
	again := f.clip.next()
	assert.Equal(t, first.X, again.X)
	assert.InDelta(t, f.rect.X+DefaultPasteOffset, first.X, 1e-9)

	f.clip.commit()
	assert.InDelta(t, f.rect.X+2*DefaultPasteOffset, f.clip.next().X, 1e-9)
}

func TestCutUndoRestoresClipboardAndInstance(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	z := f.rect.Z
	require.NoError(t, e.Execute(NewCut(f.d, f.clip, f.rect)))
	assert.False(t, f.d.Contains(f.rect))
	assert.Equal(t, f.rect.ID, f.clip.Content().ID)

	_, err := e.Undo()
	require.NoError(t, err)
	assert.True(t, f.d.Contains(f.rect))
	assert.Equal(t, z, f.rect.Z)
	assert.True(t, f.clip.Empty())

	require.NoError(t, e.Execute(NewCopy(f.clip, f.text)))
	require.NoError(t, e.Execute(NewCut(f.d, f.clip, f.line)))
	_, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, f.text.ID, f.clip.Content().ID)
}

func TestReorderUndoRestoresAllZ(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	zs := func() []int { return []int{f.rect.Z, f.poly.Z, f.text.Z, f.line.Z} }
	want := zs()
	require.NoError(t, e.Execute(NewSendToBack(f.d, f.text)))
	assert.Equal(t, []int{1, 2, 0, 3}, zs())
	require.NoError(t, e.Execute(NewBringToFront(f.d, f.rect)))
	assert.Equal(t, []int{3, 1, 0, 2}, zs())
	_, _ = e.Undo()
	_, _ = e.Undo()
	assert.Equal(t, want, zs())
}

func TestTransformRecordsGesture(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(Config{})
	before := f.rect.Geometry()
	f.rect.MoveBy(5, 5)
	after := f.rect.Geometry()
	require.NoError(t, e.Execute(NewTransform(f.d, f.rect, "move", before, after)))
	assert.Equal(t, after, f.rect.Geometry())
	_, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, before, f.rect.Geometry())
}
