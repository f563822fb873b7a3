/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geodraw/internal/drawing"
	"geodraw/internal/storage"
	"geodraw/internal/vector"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "geodraw crash report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a"+storage.FileExt)
	out, err := writeReport(&Target{Path: path}, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(out) != storage.BackupDir(path) {
		t.Fatalf("expected crash report under backups dir, got %s", out)
	}
}

// TestRecover_AutosavesDrawing ensures Recover handles a panic, writes a
// report and an autosave, and does not terminate the test process.
func TestRecover_AutosavesDrawing(t *testing.T) {
	// Capture stderr temporarily to avoid noisy test logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	d := drawing.New()
	if err := d.Add(vector.NewShape(vector.KindEllipse, vector.Pt{}, vector.ShapeOptions{})); err != nil {
		t.Fatalf("add: %v", err)
	}
	path := filepath.Join(t.TempDir(), "unsaved"+storage.FileExt)

	func() {
		defer Recover(&Target{Path: path, Drawing: d})
		panic("boom")
	}()

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	var report string
	files, _ := os.ReadDir(storage.BackupDir(path))
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			report = filepath.Join(storage.BackupDir(path), f.Name())
		}
	}
	if report == "" {
		t.Fatalf("expected crash report file under backups dir")
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) || !bytes.Contains(b, []byte("Shapes: 1")) {
		t.Fatalf("report content incomplete: %s", string(b))
	}

	// the drawing file never existed; opening it falls back to the autosave
	got, recovered, err := storage.OpenDrawing(path)
	if err != nil || !recovered || got.Len() != 1 {
		t.Fatalf("autosave not recoverable: %v", err)
	}
}
