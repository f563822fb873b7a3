/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"geodraw/internal/config"
	"geodraw/internal/crash"
	"geodraw/internal/drawing"
	"geodraw/internal/editor"
	"geodraw/internal/export"
	"geodraw/internal/storage"
	"geodraw/internal/ui"
	"geodraw/internal/vector"
)

// errUsage marks wrong invocations; main prints the usage text for them.
var errUsage = errors.New("invalid arguments")

func isUsage(err error) bool { return errors.Is(err, errUsage) }

// cli holds what every subcommand needs.
type cli struct {
	cfg    config.AppConfig
	secret string
	out    io.Writer
	target *crash.Target
	log    *slog.Logger
}

func (c *cli) dispatch(ctx context.Context, name string, args []string) error {
	need := func(n int, what string) error {
		if len(args) < n {
			return fmt.Errorf("%s requires %s: %w", name, what, errUsage)
		}
		return nil
	}
	switch name {
	case "new":
		if err := need(1, "<file>"); err != nil {
			return err
		}
		return c.newDrawing(args[0])
	case "info":
		if err := need(1, "<file>"); err != nil {
			return err
		}
		return c.info(args[0])
	case "add":
		if err := need(4, "<file> <kind> <x> <y>"); err != nil {
			return err
		}
		return c.add(ctx, args[0], args[1], args[2], args[3])
	case "export":
		if err := need(2, "<file> <out>"); err != nil {
			return err
		}
		return c.export(args[0], args[1])
	case "history":
		if err := need(1, "<file>"); err != nil {
			return err
		}
		return c.history(ctx, args[0])
	case "ui":
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return c.ui(ctx, path)
	}
	return fmt.Errorf("unknown command %q: %w", name, errUsage)
}

func (c *cli) editorOptions() editor.Options {
	e := c.cfg.Editor
	return editor.Options{
		HandleRadius:  e.HandleRadius,
		HitTolerance:  e.HitTolerance,
		Snap:          e.Snap,
		SnapThreshold: e.SnapThreshold,
		PasteOffset:   e.PasteOffset,
		UndoDepth:     e.UndoDepth,
		DefaultWidth:  e.DefaultWidth,
		DefaultHeight: e.DefaultHeight,
	}
}

func (c *cli) exportOptions() export.Options {
	return export.Options{Scale: c.cfg.Export.Scale, Margin: c.cfg.Export.Margin}
}

// openArchive returns nil without error when the archive is disabled.
func (c *cli) openArchive(ctx context.Context) (*storage.Archive, error) {
	a := c.cfg.Archive
	if !a.Enabled {
		return nil, nil
	}
	dsn := a.DSN
	if dsn == "" && a.Driver == storage.DriverSQLite {
		p, err := config.ArchivePath()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
		dsn = p
	}
	return storage.OpenArchive(ctx, storage.ArchiveConfig{Driver: a.Driver, DSN: dsn, Password: c.secret})
}

// session opens path and points the crash handler at it.
func (c *cli) session(ctx context.Context, path string, withArchive bool) (*ui.Session, func(), error) {
	s, err := ui.OpenSession(path, c.editorOptions())
	if err != nil {
		return nil, nil, err
	}
	s.Export = c.exportOptions()
	s.KeepLast = c.cfg.Archive.KeepLast
	*c.target = *s.CrashTarget()
	closeFn := func() {}
	if withArchive {
		a, err := c.openArchive(ctx)
		if err != nil {
			// the drawing file is still the source of truth
			c.log.Warn("archive unavailable", slog.Any("err", err))
		} else if a != nil {
			s.Archive = a
			closeFn = func() { _ = a.Close() }
		}
	}
	if s.Recovered {
		_, _ = fmt.Fprintln(c.out, "Note: drawing was unreadable and has been recovered from the latest backup.")
	}
	return s, closeFn, nil
}

func (c *cli) newDrawing(path string) error {
	if filepath.Ext(path) == "" {
		path += storage.FileExt
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if _, err := storage.SaveDrawing(path, drawing.New()); err != nil {
		return err
	}
	c.log.Info("drawing created", slog.String("path", path))
	_, _ = fmt.Fprintln(c.out, "Created", path)
	return nil
}

func (c *cli) info(path string) error {
	d, recovered, err := storage.OpenDrawing(path)
	if err != nil {
		return err
	}
	*c.target = crash.Target{Path: path, Drawing: d}
	if recovered {
		_, _ = fmt.Fprintln(c.out, "Note: recovered from backup")
	}
	_, _ = fmt.Fprintf(c.out, "Drawing: %s\nShapes: %d\n", path, d.Len())
	if d.Len() == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Z\tKIND\tID\tX\tY\tW\tH\tROT\tMIRROR")
	for z, s := range d.ShapesOrderedByZ() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\t%g\t%g\t%g\t%d,%d\n",
			z, s.Kind, s.ID, s.X, s.Y, s.Width, s.Height, s.Rotation, s.MirrorX, s.MirrorY)
	}
	return tw.Flush()
}

func (c *cli) add(ctx context.Context, path, kind, xs, ys string) error {
	k, err := vector.ParseKind(strings.ToLower(kind))
	if err != nil {
		return fmt.Errorf("%w: %w", err, errUsage)
	}
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	if err := errors.Join(errX, errY); err != nil {
		return fmt.Errorf("position: %w: %w", err, errUsage)
	}
	s, closeFn, err := c.session(ctx, path, true)
	if err != nil {
		return err
	}
	defer closeFn()
	sh, err := s.Editor.Insert(k, vector.Pt{X: x, Y: y})
	if err != nil {
		return err
	}
	if err := s.Save(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "Added %s %s to %s\n", k, sh.ID, s.Path)
	return nil
}

func (c *cli) export(path, out string) error {
	d, _, err := storage.OpenDrawing(path)
	if err != nil {
		return err
	}
	*c.target = crash.Target{Path: path, Drawing: d}
	if err := export.ExportFile(out, d, c.exportOptions()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.out, "Exported", out)
	return nil
}

func (c *cli) history(ctx context.Context, path string) error {
	backups, err := storage.Backups(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "Backups: %d\n", len(backups))
	for _, b := range backups {
		_, _ = fmt.Fprintln(c.out, " ", filepath.Base(b))
	}
	a, err := c.openArchive(ctx)
	if err != nil {
		return err
	}
	if a == nil {
		_, _ = fmt.Fprintln(c.out, "Archive: disabled")
		return nil
	}
	defer func() { _ = a.Close() }()
	entries, err := a.List(ctx, filepath.Base(path), 0)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.out, "Archive (%s): %d\n", a.Driver(), len(entries))
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		shapes := "?"
		if d, err := drawing.LoadSnapshot(e.Blob); err == nil {
			shapes = strconv.Itoa(d.Len())
		}
		_, _ = fmt.Fprintf(tw, "  #%d\t%s\t%d bytes\t%s shapes\n", e.ID, e.TS.Local().Format("2006-01-02 15:04:05"), len(e.Blob), shapes)
	}
	return tw.Flush()
}

func (c *cli) ui(ctx context.Context, path string) error {
	s, closeFn, err := c.session(ctx, path, true)
	if err != nil {
		return err
	}
	defer closeFn()
	return ui.Run(s)
}
