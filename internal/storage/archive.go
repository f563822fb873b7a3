/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	applog "geodraw/internal/log"
	"geodraw/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// Archive drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// archiveSchemaVersion tracks the archive tables. Bump when adding migrations.
const archiveSchemaVersion = 1

var (
	ErrNoEntries     = errors.New("no archived snapshots")
	ErrUnknownDriver = errors.New("unknown archive driver")
)

// ArchiveConfig selects the archive backend. For SQLite the DSN is a file
// path; for Postgres it is a connection string whose password may be
// supplied separately (from the OS keyring).
type ArchiveConfig struct {
	Driver   string
	DSN      string
	Password string
}

// Entry is one archived snapshot.
type Entry struct {
	ID   int64
	Name string
	TS   time.Time
	Blob []byte
}

// Archive keeps the history of saved snapshot blobs, keyed by drawing name.
type Archive struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
}

// OpenArchive opens (creating if needed) the archive and ensures its schema.
func OpenArchive(ctx context.Context, cfg ArchiveConfig) (*Archive, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "archive_open").With(slog.String("driver", cfg.Driver))
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		cfg.Driver = DriverSQLite
		db, err = openSQLite(ctx, cfg.DSN)
	case DriverPostgres:
		db, err = openPostgres(ctx, cfg.DSN, cfg.Password)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		l.Error("archive open failed", slog.Any("err", err))
		return nil, err
	}
	a := &Archive{db: db, driver: cfg.Driver, log: l}
	if err := a.ensureSchema(ctx); err != nil {
		_ = db.Close()
		l.Error("ensure archive schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("archive ready")
	return a, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("archive path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	// Convert to forward slashes for SQLite URI.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn, password string) (*sql.DB, error) {
	cc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if password != "" {
		cc.Password = password
	}
	db := stdlib.OpenDB(*cc)
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Close releases the database.
func (a *Archive) Close() error { return a.db.Close() }

// Driver reports the backend in use.
func (a *Archive) Driver() string { return a.driver }

// rebind rewrites ? placeholders into $n for Postgres.
func (a *Archive) rebind(q string) string {
	if a.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (a *Archive) ensureSchema(ctx context.Context) error {
	idCol, blobCol := "INTEGER PRIMARY KEY AUTOINCREMENT", "BLOB"
	if a.driver == DriverPostgres {
		idCol, blobCol = "BIGSERIAL PRIMARY KEY", "BYTEA"
	}
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS archive_version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			updated_at  TEXT NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS snapshots (
			id    %s,
			name  TEXT NOT NULL,
			ts    BIGINT NOT NULL,
			blob  %s NOT NULL
		)`, idCol, blobCol),
		`CREATE INDEX IF NOT EXISTS idx_snapshots_name_ts ON snapshots(name, ts)`,
	}
	for _, q := range ddl {
		if _, err := a.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := a.db.ExecContext(ctx, a.rebind(`INSERT INTO archive_version (id, schema, app, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET app = excluded.app, updated_at = excluded.updated_at`),
		archiveSchemaVersion, version.String(), now)
	if err != nil {
		return fmt.Errorf("update version: %w", err)
	}
	return nil
}

// language=SQL
const insertArchiveSQL = `INSERT INTO snapshots(name, ts, blob) VALUES (?, ?, ?) RETURNING id`

// language=SQL
const listArchiveSQL = `SELECT id, name, ts, blob FROM snapshots WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
const pruneArchiveSQL = `DELETE FROM snapshots WHERE name = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// Put stores blob under name with the given timestamp and returns its id.
func (a *Archive) Put(ctx context.Context, name string, blob []byte, ts time.Time) (int64, error) {
	var id int64
	if err := a.db.QueryRowContext(ctx, a.rebind(insertArchiveSQL), name, ts.UnixNano(), blob).Scan(&id); err != nil {
		return 0, fmt.Errorf("archive put: %w", err)
	}
	a.log.Debug("snapshot archived", slog.String("name", name), slog.Int64("id", id), slog.Int("bytes", len(blob)))
	return id, nil
}

// Latest returns the newest entry for name, or ErrNoEntries.
func (a *Archive) Latest(ctx context.Context, name string) (Entry, error) {
	list, err := a.List(ctx, name, 1)
	if err != nil {
		return Entry{}, err
	}
	if len(list) == 0 {
		return Entry{}, ErrNoEntries
	}
	return list[0], nil
}

// List returns up to limit most recent entries for name, newest first.
func (a *Archive) List(ctx context.Context, name string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, a.rebind(listArchiveSQL), name, limit)
	if err != nil {
		return nil, fmt.Errorf("archive list: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.ID, &e.Name, &ts, &e.Blob); err != nil {
			return nil, err
		}
		e.TS = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune keeps at most keepLast entries for name and deletes older ones.
// keepLast <= 0 keeps everything.
func (a *Archive) Prune(ctx context.Context, name string, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := a.db.ExecContext(ctx, a.rebind(pruneArchiveSQL), name, name, keepLast)
	if err != nil {
		return 0, fmt.Errorf("archive prune: %w", err)
	}
	return res.RowsAffected()
}
