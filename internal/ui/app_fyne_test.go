//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests exercise the Fyne canvas widget with the fyne test driver.
// They are gated behind the "fyne" build tag so CI does not need Fyne.
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"geodraw/internal/editor"
	"geodraw/internal/vector"
)

func TestDrawingCanvas_MoveGesture(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	ed := editor.New(nil, editor.DefaultOptions())
	s, err := ed.Insert(vector.KindRectangle, vector.Pt{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	dc := NewDrawingCanvas(ed, 5)
	w := test.NewWindow(dc)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 300))

	press := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	press.Position = fyne.NewPos(50, 40)
	dc.MouseDown(press)
	if ed.Mode() != editor.Moving {
		t.Fatalf("expected move gesture, got %v", ed.Mode())
	}
	drag := &fyne.DragEvent{}
	drag.Position = fyne.NewPos(80, 40)
	dc.Dragged(drag)
	dc.DragEnd()

	if ed.Mode() != editor.Idle {
		t.Fatalf("gesture still active")
	}
	if s.X != 40 || s.Y != 10 {
		t.Fatalf("shape at (%v,%v), want (40,10)", s.X, s.Y)
	}
	if h := ed.History(); len(h) != 2 || h[1] != "move" {
		t.Fatalf("history = %v", h)
	}
}

func TestDrawingCanvas_BackgroundDragPans(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	ed := editor.New(nil, editor.DefaultOptions())
	dc := NewDrawingCanvas(ed, 5)
	drag := &fyne.DragEvent{Dragged: fyne.NewDelta(-20, -10)}
	dc.Dragged(drag)
	vp := ed.Viewport()
	if vp.ScrollX != 20 || vp.ScrollY != 10 {
		t.Fatalf("scroll = (%v,%v)", vp.ScrollX, vp.ScrollY)
	}
}
