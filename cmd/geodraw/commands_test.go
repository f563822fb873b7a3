/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geodraw/internal/config"
	"geodraw/internal/crash"
	applog "geodraw/internal/log"
	"geodraw/internal/storage"
)

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	out := &bytes.Buffer{}
	return &cli{
		cfg:    config.Defaults(),
		out:    out,
		target: &crash.Target{},
		log:    applog.WithComponent("cli-test"),
	}, out
}

func TestNewAddInfo(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pic.geodraw")

	if err := c.dispatch(ctx, "new", []string{path}); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.dispatch(ctx, "new", []string{path}); err == nil {
		t.Fatalf("new over an existing file must fail")
	}
	if err := c.dispatch(ctx, "add", []string{path, "Ellipse", "10", "20"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.dispatch(ctx, "add", []string{path, "line", "0", "0"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.target.Path != path || c.target.Drawing == nil {
		t.Fatalf("crash target not set: %+v", c.target)
	}
	out.Reset()
	if err := c.dispatch(ctx, "info", []string{path}); err != nil {
		t.Fatalf("info: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Shapes: 2") {
		t.Fatalf("info output:\n%s", got)
	}
	ellipse := strings.Index(got, "ellipse")
	line := strings.Index(got, "line")
	if ellipse < 0 || line < 0 || ellipse > line {
		t.Fatalf("shapes not listed in z order:\n%s", got)
	}
}

func TestAddRejectsBadArguments(t *testing.T) {
	c, _ := newTestCLI(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pic.geodraw")
	cases := [][]string{
		{path, "hexagon", "1", "2"},
		{path, "rectangle", "x", "2"},
		{path, "rectangle"},
	}
	for _, args := range cases {
		err := c.dispatch(ctx, "add", args)
		if err == nil || !isUsage(err) {
			t.Fatalf("add %v: expected usage error, got %v", args, err)
		}
	}
	if err := c.dispatch(ctx, "frobnicate", nil); !isUsage(err) {
		t.Fatalf("unknown command: expected usage error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("rejected add must not create the file")
	}
}

func TestExportCommand(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.geodraw")
	if err := c.dispatch(ctx, "add", []string{path, "rectangle", "0", "0"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, ext := range []string{".png", ".pdf", ".svg"} {
		dst := filepath.Join(dir, "out", "pic"+ext)
		if err := c.dispatch(ctx, "export", []string{path, dst}); err != nil {
			t.Fatalf("export %s: %v", ext, err)
		}
		if fi, err := os.Stat(dst); err != nil || fi.Size() == 0 {
			t.Fatalf("export %s missing: %v", ext, err)
		}
	}
	if err := c.dispatch(ctx, "export", []string{path, filepath.Join(dir, "pic.bmp")}); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if !strings.Contains(out.String(), "Exported") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestHistoryWithArchive(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()
	dir := t.TempDir()
	c.cfg.Archive.Enabled = true
	c.cfg.Archive.DSN = filepath.Join(dir, "archive.sqlite")
	c.cfg.Archive.KeepLast = 5
	path := filepath.Join(dir, "pic.geodraw")

	for i := 0; i < 3; i++ {
		if err := c.dispatch(ctx, "add", []string{path, "polygon", "0", "0"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	out.Reset()
	if err := c.dispatch(ctx, "history", []string{path}); err != nil {
		t.Fatalf("history: %v", err)
	}
	got := out.String()
	// the first add writes a fresh file, the next two back up the previous one
	if !strings.Contains(got, "Backups: 2") {
		t.Fatalf("history output:\n%s", got)
	}
	if !strings.Contains(got, "Archive (sqlite): 3") || !strings.Contains(got, "3 shapes") {
		t.Fatalf("history output:\n%s", got)
	}
}

func TestHistoryWithoutArchive(t *testing.T) {
	c, out := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "none.geodraw")
	if err := c.dispatch(context.Background(), "history", []string{path}); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), "Backups: 0") || !strings.Contains(out.String(), "Archive: disabled") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestDefaultArchivePathUsesConfigDir(t *testing.T) {
	c, _ := newTestCLI(t)
	c.cfg.Archive.Enabled = true
	a, err := c.openArchive(context.Background())
	if err != nil {
		t.Fatalf("openArchive: %v", err)
	}
	defer func() { _ = a.Close() }()
	if a.Driver() != storage.DriverSQLite {
		t.Fatalf("driver = %s", a.Driver())
	}
	p, _ := config.ArchivePath()
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("archive file not created at %s: %v", p, err)
	}
}
