/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables (prefix GEODRAW_) are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" ignored:"true"`
	Editor        EditorConfig  `yaml:"editor" envconfig:"EDITOR"`
	Archive       ArchiveConfig `yaml:"archive" envconfig:"ARCHIVE"`
	Export        ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Logging       LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// EditorConfig tunes interaction. Radii and tolerances are screen pixels,
// offsets and sizes world units.
type EditorConfig struct {
	HandleRadius  float64 `yaml:"handle_radius" split_words:"true"`
	HitTolerance  float64 `yaml:"hit_tolerance" split_words:"true"`
	PasteOffset   float64 `yaml:"paste_offset" split_words:"true"`
	UndoDepth     int     `yaml:"undo_depth" split_words:"true"` // 0 = unlimited
	Snap          bool    `yaml:"snap" split_words:"true"`
	SnapThreshold float64 `yaml:"snap_threshold" split_words:"true"`
	DefaultWidth  float64 `yaml:"default_width" split_words:"true"`
	DefaultHeight float64 `yaml:"default_height" split_words:"true"`
}

// ArchiveConfig selects the snapshot archive. The Postgres password is not
// stored on disk; it lives in the OS keychain.
type ArchiveConfig struct {
	Enabled  bool   `yaml:"enabled" split_words:"true"`
	Driver   string `yaml:"driver" split_words:"true"` // "sqlite" | "postgres"
	DSN      string `yaml:"dsn" split_words:"true"`    // file path for sqlite
	KeepLast int    `yaml:"keep_last" split_words:"true"`
}

type ExportConfig struct {
	Scale  float64 `yaml:"scale" split_words:"true"`
	Margin float64 `yaml:"margin" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
	Source bool   `yaml:"source" split_words:"true"`
	File   string `yaml:"file" split_words:"true"`
}

// EnvPrefix is prepended to every override, e.g. GEODRAW_EDITOR_SNAP.
const EnvPrefix = "GEODRAW"

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "GEODRAW_CONFIG"

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			HandleRadius:  5,
			HitTolerance:  3,
			PasteOffset:   10,
			UndoDepth:     200,
			Snap:          true,
			SnapThreshold: 6,
			DefaultWidth:  100,
			DefaultHeight: 60,
		},
		Archive: ArchiveConfig{Enabled: false, Driver: "sqlite", KeepLast: 50},
		Export:  ExportConfig{Scale: 1, Margin: 20},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Service/keys for OS keyring.
const (
	keyringService  = "geodraw"
	keyringPassword = "archive_password"
)

// secretStore abstracts the keyring, so tests can use keyring.MockInit.
var secretStore SecretStore = osKeyring{}

type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "geodraw")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "geodraw")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "geodraw")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "geodraw")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and
// applies environment overrides. The archive password comes from the
// keyring and is returned separately; a missing entry is not an error.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), "", fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, "", err
	}
	normalize(&cfg)
	secret, err := secretStore.Get(keyringService, keyringPassword)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		// keyring unavailable (headless session); continue without secret
		secret = ""
	}
	return cfg, secret, nil
}

// Save writes the user config YAML and persists the archive password into
// the OS keyring (if non-empty).
func Save(cfg AppConfig, secret string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if secret != "" {
		if err := secretStore.Set(keyringService, keyringPassword, secret); err != nil {
			return fmt.Errorf("store archive password: %w", err)
		}
	}
	return nil
}

// ClearSecret removes the archive password from the keyring.
func ClearSecret() error {
	err := secretStore.Delete(keyringService, keyringPassword)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func applyEnvOverrides(cfg *AppConfig) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	return nil
}

// normalize folds case and replaces out-of-range values by defaults.
func normalize(cfg *AppConfig) {
	def := Defaults()
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Archive.Driver = strings.ToLower(strings.TrimSpace(cfg.Archive.Driver))
	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = def.Archive.Driver
	}
	if cfg.Editor.HandleRadius <= 0 {
		cfg.Editor.HandleRadius = def.Editor.HandleRadius
	}
	if cfg.Editor.HitTolerance < 0 {
		cfg.Editor.HitTolerance = def.Editor.HitTolerance
	}
	if cfg.Editor.SnapThreshold <= 0 {
		cfg.Editor.SnapThreshold = def.Editor.SnapThreshold
	}
	if cfg.Editor.UndoDepth < 0 {
		cfg.Editor.UndoDepth = 0
	}
	if cfg.Export.Scale <= 0 {
		cfg.Export.Scale = def.Export.Scale
	}
	if cfg.Export.Margin < 0 {
		cfg.Export.Margin = 0
	}
}

// EnvOverrideFor returns the env var name if the yaml key (section.field)
// is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	sec, field, ok := strings.Cut(key, ".")
	if !ok {
		return "", false
	}
	if sec == "logging" {
		sec = "log"
	}
	name := EnvPrefix + "_" + strings.ToUpper(sec) + "_" + strings.ToUpper(field)
	if os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}

// ArchivePath returns the default SQLite archive location next to the config file.
func ArchivePath() (string, error) {
	p, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "archive.sqlite"), nil
}
