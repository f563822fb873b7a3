/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"geodraw/internal/drawing"
	applog "geodraw/internal/log"
	"geodraw/internal/textlayout"
	"geodraw/internal/vector"
)

var (
	ErrNilDrawing    = errors.New("drawing is nil")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Defaults for Options.
const (
	DefaultScale  = 1.0
	DefaultMargin = 20.0
)

// emptyPage is exported for a drawing without shapes.
var emptyPage = vector.R(0, 0, 200, 200)

// Options controls all exporters.
//   - Scale is device pixels per world unit for PNG and the pixel size of
//     SVG; PDF pages always use one point per world unit.
//   - Margin is added around the union of all shape bounds, in world units.
type Options struct {
	Scale      float64
	Margin     float64
	Background vector.OptionalColor // unset means white
	Fonts      textlayout.Provider  // nil means the bundled Go fonts
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Fonts == nil {
		o.Fonts = textlayout.DefaultProvider()
	}
	return o
}

func (o Options) background() vector.Color { return o.Background.Or(vector.White) }

// Page returns the world rectangle an export covers: the union of all shape
// bounds grown by margin.
func Page(d *drawing.Drawing, margin float64) vector.Rect {
	shapes := d.ShapesOrderedByZ()
	if len(shapes) == 0 {
		return emptyPage
	}
	r := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		r = r.Union(s.Bounds())
	}
	return r.Inset(-margin, -margin)
}

// Render paints every shape of d onto surf in ascending z order.
func Render(d *drawing.Drawing, surf vector.Surface) {
	for _, s := range d.ShapesOrderedByZ() {
		vector.Paint(s, surf)
	}
}

// ExportFile writes d to path, picking the format from the extension
// (.png, .pdf or .svg). Missing parent directories are created.
func ExportFile(path string, d *drawing.Drawing, opt Options) error {
	if d == nil {
		return ErrNilDrawing
	}
	var write func(io.Writer, *drawing.Drawing, Options) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		write = WritePNG
	case ".pdf":
		write = WritePDF
	case ".svg":
		write = WriteSVG
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	l := applog.WithOperation(applog.WithComponent("export"), "export_file").With("path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, d, opt); err != nil {
		_ = f.Close()
		l.Error("export failed", "err", err)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	l.Info("exported", "shapes", d.Len())
	return nil
}

// ellipsePoints approximates the ellipse inscribed in r.
func ellipsePoints(r vector.Rect, n int) []vector.Pt {
	c := r.Center()
	rx, ry := r.W/2, r.H/2
	pts := make([]vector.Pt, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vector.Pt{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

func rectPoints(r vector.Rect) []vector.Pt {
	return []vector.Pt{{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y}, {X: r.X + r.W, Y: r.Y + r.H}, {X: r.X, Y: r.Y + r.H}}
}
