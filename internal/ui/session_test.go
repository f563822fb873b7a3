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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geodraw/internal/editor"
	"geodraw/internal/storage"
	"geodraw/internal/vector"
)

func TestSessionUntitled(t *testing.T) {
	s, err := OpenSession("", editor.DefaultOptions())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if s.Title() != "geodraw - untitled" {
		t.Fatalf("title = %q", s.Title())
	}
	if err := s.Save(context.Background()); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
	if tgt := s.CrashTarget(); tgt.Path != "" || tgt.Drawing != s.Drawing() {
		t.Fatalf("unexpected crash target %+v", tgt)
	}
}

func TestSessionSaveAndReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSession(filepath.Join(dir, "sketch"), editor.DefaultOptions())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if !strings.HasSuffix(s.Path, storage.FileExt) {
		t.Fatalf("extension not added: %s", s.Path)
	}
	if s.Drawing().Len() != 0 {
		t.Fatalf("new file should start empty")
	}
	if _, err := s.Editor.Insert(vector.KindEllipse, vector.Pt{X: 5, Y: 5}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := OpenSession(s.Path, editor.DefaultOptions())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.Drawing().Len() != 1 || again.Recovered {
		t.Fatalf("reopened %d shapes, recovered=%v", again.Drawing().Len(), again.Recovered)
	}
	if got := again.Drawing().ShapesOrderedByZ()[0].Kind; got != vector.KindEllipse {
		t.Fatalf("kind = %v", got)
	}
}

func TestSessionSaveArchivesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, err := storage.OpenArchive(ctx, storage.ArchiveConfig{Driver: storage.DriverSQLite, DSN: filepath.Join(dir, "archive.sqlite")})
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer func() { _ = a.Close() }()

	s, err := OpenSession(filepath.Join(dir, "a.geodraw"), editor.DefaultOptions())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	s.Archive, s.KeepLast = a, 2
	for i := 0; i < 3; i++ {
		if _, err := s.Editor.Insert(vector.KindRectangle, vector.Pt{X: float64(i * 10)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
	}
	list, err := a.List(ctx, "a.geodraw", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 archived snapshots after prune, got %d", len(list))
	}
	onDisk, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(list[0].Blob) != string(onDisk) {
		t.Fatalf("latest archive entry differs from the file on disk")
	}
}

func TestSessionSaveAsAndExport(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSession("", editor.DefaultOptions())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if _, err := s.Editor.Insert(vector.KindText, vector.Pt{X: 0, Y: 0}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.SaveAs(context.Background(), filepath.Join(dir, "named")); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if s.Title() != "geodraw - named.geodraw" {
		t.Fatalf("title = %q", s.Title())
	}
	out := filepath.Join(dir, "out", "named.svg")
	if err := s.ExportTo(out); err != nil {
		t.Fatalf("ExportTo: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("export missing: %v", err)
	}
}
