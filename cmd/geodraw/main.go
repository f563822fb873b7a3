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
	"fmt"
	"log/slog"
	"os"

	"geodraw/internal/config"
	"geodraw/internal/crash"
	applog "geodraw/internal/log"
	"geodraw/internal/version"
)

func usage() {
	fmt.Println("geodraw - vector drawing editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  geodraw version|-v|--version           Show version")
	fmt.Println("  geodraw new <file>                     Create an empty drawing")
	fmt.Println("  geodraw info <file>                    List the shapes of a drawing in z order")
	fmt.Println("  geodraw add <file> <kind> <x> <y>      Insert a shape (rectangle|ellipse|line|polygon|text)")
	fmt.Println("  geodraw export <file> <out>            Render to .png, .pdf or .svg")
	fmt.Println("  geodraw history <file>                 List backups and archived snapshots")
	fmt.Println("  geodraw ui [<file>]                    Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	cfg, secret, err := config.Load()
	if err != nil {
		// keep going on defaults; a broken config must not lock the user out
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	applog.Init(logOptions(cfg.Logging))
	l := applog.WithComponent("cli")
	target := &crash.Target{}
	defer crash.Recover(target)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)), slog.Int("config_version", cfg.ConfigVersion))
	if len(args) < 2 {
		usage()
		return
	}
	c := &cli{cfg: cfg, secret: secret, out: os.Stdout, target: target, log: l}
	ctx := context.Background()
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("geodraw")
		fmt.Println(version.String())
		return
	case "help", "-h", "--help":
		usage()
		return
	}
	if err := c.dispatch(ctx, args[1], args[2:]); err != nil {
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		fmt.Println("Error:", err)
		if isUsage(err) {
			usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func logOptions(c config.LoggingConfig) applog.Options {
	return applog.Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File}
}
