//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"geodraw/internal/crash"
	"geodraw/internal/editor"
	applog "geodraw/internal/log"
	"geodraw/internal/textlayout"
	"geodraw/internal/vector"
)

// Run starts the desktop shell on the session and blocks until the window
// is closed.
func Run(s *Session) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("path", s.Path))
	defer crash.Recover(s.CrashTarget())

	fyneApp := app.NewWithID("geodraw")
	w := fyneApp.NewWindow(s.Title())
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	ed := s.Editor
	dc := NewDrawingCanvas(ed, 5)
	ed.OnWarning(func(msg string) { status.SetText(msg) })

	run := func(name string, fn func() error) {
		if err := fn(); err != nil {
			l.Warn(name+" failed", slog.Any("err", err))
			status.SetText(fmt.Sprintf("%s: %v", name, err))
		} else {
			status.SetText(name)
		}
		dc.Refresh()
	}
	insert := func(kind vector.Kind) func() {
		return func() {
			run("insert "+kind.String(), func() error {
				// upper-left third of the visible area
				sz := dc.Size()
				_, err := ed.Insert(kind, ed.Viewport().ToWorld(vector.Pt{X: float64(sz.Width) / 3, Y: float64(sz.Height) / 3}))
				return err
			})
		}
	}
	undo := func() {
		run("undo", func() error {
			ok, err := ed.Undo()
			if err == nil && !ok {
				status.SetText("nothing to undo")
			}
			return err
		})
	}
	save := func() {
		if s.Path == "" {
			dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil || uc == nil {
					return
				}
				path := uc.URI().Path()
				_ = uc.Close()
				run("save", func() error {
					err := s.SaveAs(context.Background(), path)
					w.SetTitle(s.Title())
					return err
				})
			}, w)
			return
		}
		run("save", func() error { return s.Save(context.Background()) })
	}
	exportDlg := func() {
		dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil || uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			run("export", func() error { return s.ExportTo(path) })
		}, w)
	}
	editText := func() {
		sel := ed.Selected()
		if sel == nil || sel.Text == nil {
			status.SetText("select a text shape first")
			return
		}
		entry := widget.NewMultiLineEntry()
		entry.SetText(sel.Text.Text)
		size := widget.NewEntry()
		size.SetText(strconv.Itoa(sel.Text.FontSize))
		form := container.NewVBox(entry, container.NewHBox(widget.NewLabel("Font size"), size))
		dialog.ShowCustomConfirm("Edit text", "Apply", "Cancel", form, func(ok bool) {
			if !ok {
				return
			}
			run("edit text", func() error {
				if entry.Text != sel.Text.Text {
					if err := ed.SetText(entry.Text); err != nil {
						return err
					}
				}
				n, err := strconv.Atoi(strings.TrimSpace(size.Text))
				if err != nil {
					return fmt.Errorf("font size %q: %w", size.Text, err)
				}
				if n != sel.Text.FontSize {
					return ed.SetFontSize(n)
				}
				return nil
			})
		}, w)
	}
	pickColor := func(title string, apply func(vector.Color) error) func() {
		return func() {
			if ed.Selected() == nil {
				status.SetText("select a shape first")
				return
			}
			p := dialog.NewColorPicker(title, "", func(c color.Color) {
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				run(strings.ToLower(title), func() error {
					return apply(vector.Color{R: n.R, G: n.G, B: n.B, A: n.A})
				})
			}, w)
			p.Advanced = true
			p.Show()
		}
	}
	zoom := func(f float64) func() {
		return func() {
			run(fmt.Sprintf("zoom %.0f%%", ed.Viewport().Zoom()*f*100), func() error {
				return ed.SetZoom(ed.Viewport().Zoom() * f)
			})
		}
	}

	toolbar := container.NewHBox(
		widget.NewButton("Rectangle", insert(vector.KindRectangle)),
		widget.NewButton("Ellipse", insert(vector.KindEllipse)),
		widget.NewButton("Line", insert(vector.KindLine)),
		widget.NewButton("Polygon", insert(vector.KindPolygon)),
		widget.NewButton("Text", insert(vector.KindText)),
		widget.NewSeparator(),
		widget.NewButton("Rotate 15°", func() { run("rotate", func() error { return ed.Rotate(15) }) }),
		widget.NewButton("Mirror H", func() { run("mirror", func() error { return ed.Mirror(true) }) }),
		widget.NewButton("Mirror V", func() { run("mirror", func() error { return ed.Mirror(false) }) }),
		widget.NewButton("Fill…", pickColor("Fill color", ed.SetFillColor)),
		widget.NewButton("Border…", pickColor("Border color", ed.SetBorderColor)),
		widget.NewButton("Text…", editText),
		widget.NewSeparator(),
		widget.NewButton("Front", func() { run("bring to front", ed.BringToFront) }),
		widget.NewButton("Back", func() { run("send to back", ed.SendToBack) }),
		widget.NewButton("Undo", undo),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save", save),
		fyne.NewMenuItem("Export…", exportDlg),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", undo),
		fyne.NewMenuItem("Cut", func() { run("cut", ed.Cut) }),
		fyne.NewMenuItem("Copy", func() { run("copy", ed.Copy) }),
		fyne.NewMenuItem("Paste", func() { run("paste", ed.Paste) }),
		fyne.NewMenuItem("Delete", func() { run("delete", ed.Delete) }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", zoom(1.25)),
		fyne.NewMenuItem("Zoom Out", zoom(0.8)),
		fyne.NewMenuItem("Reset Zoom", func() {
			run("zoom 100%", func() error {
				ed.ScrollTo(0, 0)
				return ed.SetZoom(1)
			})
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu))

	shortcut := func(k fyne.KeyName, fn func()) {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: k, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { fn() })
	}
	shortcut(fyne.KeyS, save)
	shortcut(fyne.KeyZ, undo)
	shortcut(fyne.KeyX, func() { run("cut", ed.Cut) })
	shortcut(fyne.KeyC, func() { run("copy", ed.Copy) })
	shortcut(fyne.KeyV, func() { run("paste", ed.Paste) })
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			run("delete", ed.Delete)
		case fyne.KeyEscape:
			ed.Cancel()
			dc.Refresh()
		case fyne.KeyLeft:
			run("move", func() error { return ed.Move(-1, 0) })
		case fyne.KeyRight:
			run("move", func() error { return ed.Move(1, 0) })
		case fyne.KeyUp:
			run("move", func() error { return ed.Move(0, -1) })
		case fyne.KeyDown:
			run("move", func() error { return ed.Move(0, 1) })
		}
	})

	// a gesture must not survive the window losing focus
	fyneApp.Lifecycle().SetOnExitedForeground(func() {
		ed.Cancel()
		dc.Refresh()
	})

	if s.Recovered {
		status.SetText("drawing recovered from backup")
	}
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, dc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("window closed")
	})
	w.ShowAndRun()
	return nil
}

// DrawingCanvas shows the drawing through the editor viewport and feeds
// pointer events into the editor's gesture state machine.
type DrawingCanvas struct {
	widget.BaseWidget
	ed     *editor.Editor
	radius float64
	fonts  textlayout.Provider
	raster *canvas.Raster
	// pxScale is device pixels per canvas unit, updated on every paint
	pxScale float64
	pressed bool
	last    vector.Pt // last pointer position of the gesture
}

var (
	_ desktop.Mouseable = (*DrawingCanvas)(nil)
	_ fyne.Draggable    = (*DrawingCanvas)(nil)
	_ fyne.Scrollable   = (*DrawingCanvas)(nil)
)

func NewDrawingCanvas(ed *editor.Editor, handleRadius float64) *DrawingCanvas {
	dc := &DrawingCanvas{ed: ed, radius: handleRadius, fonts: textlayout.DefaultProvider(), pxScale: 1}
	dc.raster = canvas.NewRaster(dc.paint)
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *DrawingCanvas) paint(w, h int) image.Image {
	if sz := dc.Size(); sz.Width > 0 {
		dc.pxScale = float64(w) / float64(sz.Width)
	}
	return RenderScene(dc.ed, w, h, dc.pxScale, dc.radius, dc.fonts)
}

func (dc *DrawingCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}

func (dc *DrawingCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func screenPt(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

func (dc *DrawingCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	dc.pressed = true
	dc.last = screenPt(e.Position)
	dc.ed.Press(dc.last)
	dc.Refresh()
}

func (dc *DrawingCanvas) MouseUp(e *desktop.MouseEvent) {
	if !dc.pressed {
		return
	}
	dc.pressed = false
	if err := dc.ed.Release(screenPt(e.Position)); err != nil {
		applog.WithComponent("ui").Warn("gesture rejected", slog.Any("err", err))
	}
	dc.Refresh()
}

func (dc *DrawingCanvas) Dragged(e *fyne.DragEvent) {
	if dc.pressed && dc.ed.Mode() != editor.Idle {
		dc.last = screenPt(e.Position)
		dc.ed.Drag(dc.last)
	} else {
		// background drag pans
		vp := dc.ed.Viewport()
		z := vp.Zoom()
		dc.ed.ScrollTo(vp.ScrollX-float64(e.Dragged.DX)/z, vp.ScrollY-float64(e.Dragged.DY)/z)
	}
	dc.Refresh()
}

func (dc *DrawingCanvas) DragEnd() {
	if dc.pressed {
		// MouseUp may not arrive when the pointer leaves the canvas
		dc.pressed = false
		if err := dc.ed.Release(dc.last); err != nil {
			applog.WithComponent("ui").Warn("gesture rejected", slog.Any("err", err))
		}
		dc.Refresh()
	}
}

// Scrolled zooms around the pointer.
func (dc *DrawingCanvas) Scrolled(e *fyne.ScrollEvent) {
	vp := dc.ed.Viewport()
	f := 1.1
	if e.Scrolled.DY < 0 {
		f = 1 / f
	}
	anchor := vp.ToWorld(screenPt(e.Position))
	if err := dc.ed.SetZoom(vp.Zoom() * f); err != nil {
		return
	}
	z := dc.ed.Viewport().Zoom()
	dc.ed.ScrollTo(anchor.X-float64(e.Position.X)/z, anchor.Y-float64(e.Position.Y)/z)
	dc.Refresh()
}
