/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package command implements every reversible edit of a drawing and the
// undo stack that records them.
package command

import (
	"log/slog"

	applog "geodraw/internal/log"
)

// Command is a reversible mutation. Undo restores the exact observable
// state from before Execute.
type Command interface {
	Execute() error
	Undo() error
	Name() string
}

// Config controls the undo stack.
type Config struct {
	// MaxDepth drops the oldest entries beyond this many (0 means unlimited).
	MaxDepth int
}

// Engine runs commands and keeps the undo stack. There is no redo.
// Like the drawing it edits, it is not safe for concurrent use.
type Engine struct {
	cfg   Config
	stack []Command
	log   *slog.Logger
}

func NewEngine(cfg Config) *Engine {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &Engine{cfg: cfg, log: applog.WithComponent("command")}
}

// Execute runs cmd and pushes it. A failing command is not recorded.
func (e *Engine) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		e.log.Warn("command rejected", slog.String("cmd", cmd.Name()), slog.Any("err", err))
		return err
	}
	e.stack = append(e.stack, cmd)
	if e.cfg.MaxDepth > 0 && len(e.stack) > e.cfg.MaxDepth {
		drop := len(e.stack) - e.cfg.MaxDepth
		e.stack = append([]Command(nil), e.stack[drop:]...)
	}
	e.log.Debug("command executed", slog.String("cmd", cmd.Name()), slog.Int("depth", len(e.stack)))
	return nil
}

// Undo reverts the most recent command and pops it. An empty stack is a
// no-op and reports false. A command whose Undo fails stays on the stack.
func (e *Engine) Undo() (bool, error) {
	n := len(e.stack)
	if n == 0 {
		return false, nil
	}
	cmd := e.stack[n-1]
	if err := cmd.Undo(); err != nil {
		e.log.Error("undo failed", slog.String("cmd", cmd.Name()), slog.Any("err", err))
		return false, err
	}
	e.stack[n-1] = nil
	e.stack = e.stack[:n-1]
	e.log.Debug("command undone", slog.String("cmd", cmd.Name()))
	return true, nil
}

// Len returns the number of undoable commands.
func (e *Engine) Len() int {
	return len(e.stack)
}

// History lists the command names, oldest first.
func (e *Engine) History() []string {
	out := make([]string, len(e.stack))
	for i, c := range e.stack {
		out[i] = c.Name()
	}
	return out
}

// Clear drops the whole stack, e.g. after loading another drawing.
func (e *Engine) Clear() {
	e.stack = nil
}
