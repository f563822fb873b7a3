/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawing

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	applog "geodraw/internal/log"
	"geodraw/internal/vector"
)

// ErrInvalidSnapshot wraps every decoding and validation failure of
// LoadSnapshot.
var ErrInvalidSnapshot = errors.New("invalid drawing snapshot")

const snapshotVersion = 1

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

type snapshotDoc struct {
	Version int         `json:"version"`
	Shapes  []shapeJSON `json:"shapes"`
}

type shapeJSON struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	MirrorX  int         `json:"mirrorX"`
	MirrorY  int         `json:"mirrorY"`
	Z        int         `json:"z"`
	Fill     string      `json:"fill,omitempty"`
	Border   string      `json:"border,omitempty"`
	Vertices []vector.Pt `json:"vertices,omitempty"`
	Text     *textJSON   `json:"text,omitempty"`
}

type textJSON struct {
	Text       string `json:"text"`
	FontSize   int    `json:"fontSize"`
	FontFamily string `json:"fontFamily"`
}

// SaveSnapshot encodes every shape back to front. Floats are written in their
// shortest round-trip form so a reload reproduces them exactly.
func (d *Drawing) SaveSnapshot() ([]byte, error) {
	doc := snapshotDoc{Version: snapshotVersion, Shapes: make([]shapeJSON, 0, len(d.shapes))}
	for _, s := range d.ShapesOrderedByZ() {
		doc.Shapes = append(doc.Shapes, encodeShape(s))
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func encodeShape(s *vector.Shape) shapeJSON {
	g := s.Geometry()
	j := shapeJSON{
		ID: s.ID, Kind: s.Kind.String(),
		X: g.X, Y: g.Y, Width: g.Width, Height: g.Height,
		Rotation: g.Rotation, MirrorX: g.MirrorX, MirrorY: g.MirrorY,
		Z:        s.Z,
		Vertices: g.Vertices,
	}
	if s.Style.Fill.Set {
		j.Fill = hexColor(s.Style.Fill.Color)
	}
	if s.Style.Border.Set {
		j.Border = hexColor(s.Style.Border.Color)
	}
	if s.Text != nil {
		j.Text = &textJSON{Text: s.Text.Text, FontSize: s.Text.FontSize, FontFamily: s.Text.FontFamily}
	}
	return j
}

// hexColor always writes the alpha channel so the encoding is canonical.
func hexColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// boundsTolerance absorbs the rounding drift between a polygon's stored box
// and the box of its vertices after repeated scaling.
const boundsTolerance = 1e-6

// LoadSnapshot validates blob against the embedded schema and builds a new
// drawing from it. The z values must form the range 0..N-1.
func LoadSnapshot(blob []byte) (*Drawing, error) {
	l := applog.WithOperation(applog.WithComponent("drawing"), "load_snapshot")
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		l.Warn("snapshot rejected by schema", slog.Int("errors", len(msgs)))
		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}
	var doc snapshotDoc
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	d := New()
	seenZ := make([]bool, len(doc.Shapes))
	for i, j := range doc.Shapes {
		s, err := decodeShape(j)
		if err != nil {
			return nil, fmt.Errorf("%w: shape %d: %v", ErrInvalidSnapshot, i, err)
		}
		if s.Z >= len(seenZ) || seenZ[s.Z] {
			return nil, fmt.Errorf("%w: z values are not a permutation of 0..%d", ErrInvalidSnapshot, len(seenZ)-1)
		}
		seenZ[s.Z] = true
		if d.Find(s.ID) != nil {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSnapshot, s.ID)
		}
		d.shapes = append(d.shapes, s)
	}
	l.Debug("snapshot loaded", slog.Int("shapes", len(d.shapes)))
	return d, nil
}

func decodeShape(j shapeJSON) (*vector.Shape, error) {
	kind, err := vector.ParseKind(j.Kind)
	if err != nil {
		return nil, err
	}
	if kind != vector.KindLine && (j.Width < vector.MinSize || j.Height < vector.MinSize) {
		return nil, fmt.Errorf("%s size %gx%g below minimum", kind, j.Width, j.Height)
	}
	s := &vector.Shape{ID: j.ID, Kind: kind, Z: j.Z}
	s.SetGeometry(vector.Geometry{
		X: j.X, Y: j.Y, Width: j.Width, Height: j.Height,
		Rotation: j.Rotation, MirrorX: j.MirrorX, MirrorY: j.MirrorY,
		Vertices: j.Vertices,
	})
	if kind == vector.KindPolygon {
		derived := *s
		derived.UpdateBounds()
		if !derived.Geometry().SameTransform(s.Geometry(), boundsTolerance) {
			return nil, fmt.Errorf("polygon box %gx%g at %g,%g does not match its vertices", j.Width, j.Height, j.X, j.Y)
		}
	}
	if j.Fill != "" {
		c, err := vector.ParseHex(j.Fill)
		if err != nil {
			return nil, err
		}
		s.Style.Fill = vector.Some(c)
	}
	if j.Border != "" {
		c, err := vector.ParseHex(j.Border)
		if err != nil {
			return nil, err
		}
		s.Style.Border = vector.Some(c)
	}
	if kind == vector.KindText && j.Text != nil {
		s.Text = &vector.TextContent{Text: vector.NormalizeText(j.Text.Text), FontSize: j.Text.FontSize, FontFamily: j.Text.FontFamily}
	}
	return s, nil
}
