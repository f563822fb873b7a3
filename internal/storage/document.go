/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"geodraw/internal/drawing"
	applog "geodraw/internal/log"
)

const (
	// FileExt is the conventional extension of drawing files.
	FileExt        = ".geodraw"
	BackupsDirName = "backups"

	// backupStamp sorts lexicographically in time order.
	backupStamp = "20060102-150405.000000000"
)

// ErrNoBackups is returned when a drawing is unreadable and no backup exists.
var ErrNoBackups = errors.New("no backups found")

// BackupDir returns the directory holding backups of the drawing at path.
func BackupDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupsDirName)
}

// SaveDrawing writes the snapshot of d to path with transactional semantics
// and a timestamped backup of the previous file (if present). It returns the
// written blob so callers can archive it.
func SaveDrawing(path string, d *drawing.Drawing) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	if d == nil {
		return nil, errors.New("nil drawing")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "save").With(slog.String("path", path))
	data, err := d.SaveSnapshot()
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}
	if err := WriteBlob(path, data); err != nil {
		l.Error("save failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("drawing saved", slog.Int("shapes", d.Len()), slog.Int("bytes", len(data)))
	return data, nil
}

// WriteBlob replaces path with data: the current file is copied into the
// backups directory, data goes to a temp file in the same directory which is
// then renamed over the target.
func WriteBlob(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		bdir := BackupDir(path)
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(path), time.Now().UTC().Format(backupStamp))
		if cerr := copyFile(path, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current file: %w", cerr)
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp file: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace file: %w", rerr)
	}
	return nil
}

// OpenDrawing loads the drawing stored at path. If the file cannot be read or
// does not hold a valid snapshot, the latest backup is tried; recovered
// reports whether that happened.
func OpenDrawing(path string) (d *drawing.Drawing, recovered bool, err error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("path", path))
	d, err = readDrawing(path)
	if err == nil {
		return d, false, nil
	}
	bd, bpath, berr := openFromLatestBackup(path)
	if berr != nil {
		return nil, false, fmt.Errorf("open drawing: %w; backup attempt: %v", err, berr)
	}
	l.Warn("drawing unreadable, recovered from backup", slog.Any("err", err), slog.String("backup", bpath))
	return bd, true, nil
}

func readDrawing(path string) (*drawing.Drawing, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return drawing.LoadSnapshot(b)
}

// Autosave writes the snapshot of d as the newest backup of path without
// touching path itself, so OpenDrawing can fall back to it.
func Autosave(path string, d *drawing.Drawing) (string, error) {
	if strings.TrimSpace(path) == "" || d == nil {
		return "", errors.New("nothing to autosave")
	}
	data, err := d.SaveSnapshot()
	if err != nil {
		return "", fmt.Errorf("encode drawing: %w", err)
	}
	bdir := BackupDir(path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	out := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), time.Now().UTC().Format(backupStamp)))
	if err := writeFileSync(out, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return out, nil
}

// Backups lists the backups of the drawing at path, oldest first.
func Backups(path string) ([]string, error) {
	bdir := BackupDir(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

// PruneBackups removes all but the newest keep backups of path.
func PruneBackups(path string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	list, err := Backups(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range list[:max(0, len(list)-keep)] {
		if err := os.Remove(p); err != nil {
			return n, fmt.Errorf("remove backup: %w", err)
		}
		n++
	}
	return n, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup walks the backups newest first and returns the first
// one that loads.
func openFromLatestBackup(path string) (*drawing.Drawing, string, error) {
	list, err := Backups(path)
	if err != nil {
		return nil, "", err
	}
	if len(list) == 0 {
		return nil, "", ErrNoBackups
	}
	var lastErr error
	for i := len(list) - 1; i >= 0; i-- {
		d, err := readDrawing(list[i])
		if err == nil {
			return d, list[i], nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("no readable backup: %w", lastErr)
}
