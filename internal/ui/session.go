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
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"geodraw/internal/crash"
	"geodraw/internal/drawing"
	"geodraw/internal/editor"
	"geodraw/internal/export"
	applog "geodraw/internal/log"
	"geodraw/internal/storage"
)

// ErrNoPath is returned when saving a session that was never given a file.
var ErrNoPath = errors.New("drawing has no file path")

// Session is one open drawing: its file, the editor driving it and the
// optional snapshot archive every save is appended to.
type Session struct {
	Path     string
	Editor   *editor.Editor
	Archive  *storage.Archive
	KeepLast int
	Export   export.Options

	// Recovered is set when the file was unreadable and the drawing came
	// from the newest backup.
	Recovered bool
	log       *slog.Logger
}

// OpenSession loads path into a new editor. An empty path or a file that
// does not exist yet starts an empty drawing.
func OpenSession(path string, opts editor.Options) (*Session, error) {
	l := applog.WithComponent("session")
	s := &Session{Path: strings.TrimSpace(path), log: l}
	d := drawing.New()
	if s.Path != "" {
		if filepath.Ext(s.Path) == "" {
			s.Path += storage.FileExt
		}
		if _, err := os.Stat(s.Path); err == nil {
			loaded, recovered, err := storage.OpenDrawing(s.Path)
			if err != nil {
				return nil, err
			}
			d, s.Recovered = loaded, recovered
			if recovered {
				l.Warn("drawing recovered from backup", slog.String("path", s.Path))
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", s.Path, err)
		}
	}
	s.Editor = editor.New(d, opts)
	l.Info("session opened", slog.String("path", s.Path), slog.Int("shapes", d.Len()))
	return s, nil
}

func (s *Session) Drawing() *drawing.Drawing { return s.Editor.Drawing() }

// Title is the window title for the session.
func (s *Session) Title() string {
	if s.Path == "" {
		return "geodraw - untitled"
	}
	return "geodraw - " + filepath.Base(s.Path)
}

// CrashTarget describes what crash.Recover should autosave.
func (s *Session) CrashTarget() *crash.Target {
	return &crash.Target{Path: s.Path, Drawing: s.Drawing()}
}

// Save writes the drawing file and, with an archive attached, appends the
// snapshot and prunes old entries. Archive failures are logged and do not
// fail the save once the file is on disk.
func (s *Session) Save(ctx context.Context) error {
	if s.Path == "" {
		return ErrNoPath
	}
	l := applog.WithOperation(s.log, "save")
	blob, err := storage.SaveDrawing(s.Path, s.Drawing())
	if err != nil {
		l.Error("save failed", slog.String("path", s.Path), slog.Any("err", err))
		return err
	}
	l.Info("drawing saved", slog.String("path", s.Path), slog.Int("bytes", len(blob)))
	if s.Archive == nil {
		return nil
	}
	name := filepath.Base(s.Path)
	id, err := s.Archive.Put(ctx, name, blob, time.Now())
	if err != nil {
		l.Warn("archive put failed", slog.Any("err", err))
		return nil
	}
	if s.KeepLast > 0 {
		if n, err := s.Archive.Prune(ctx, name, s.KeepLast); err != nil {
			l.Warn("archive prune failed", slog.Any("err", err))
		} else if n > 0 {
			l.Debug("archive pruned", slog.Int64("removed", n))
		}
	}
	l.Debug("snapshot archived", slog.Int64("id", id), slog.String("driver", s.Archive.Driver()))
	return nil
}

// SaveAs switches the session to a new path and saves.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoPath
	}
	if filepath.Ext(path) == "" {
		path += storage.FileExt
	}
	s.Path = path
	return s.Save(ctx)
}

// ExportTo renders the drawing into path; the format follows the extension.
func (s *Session) ExportTo(path string) error {
	return export.ExportFile(path, s.Drawing(), s.Export)
}
