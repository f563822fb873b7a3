/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"geodraw/internal/drawing"
	"geodraw/internal/vector"
)

// Copy puts a deep clone of the shape on the clipboard. Undo is a no-op.
type Copy struct {
	clip  *Clipboard
	shape *vector.Shape
}

func NewCopy(clip *Clipboard, s *vector.Shape) *Copy { return &Copy{clip: clip, shape: s} }

func (c *Copy) Name() string { return "copy" }

func (c *Copy) Execute() error {
	if c.clip == nil {
		return ErrNilClipboard
	}
	if c.shape == nil {
		return ErrNilShape
	}
	c.clip.set(c.shape)
	return nil
}

func (c *Copy) Undo() error { return nil }

// Cut removes the shape and puts a clone on the clipboard. Undo re-inserts
// the same instance at its old z and restores the previous clipboard
// content, which may be empty.
type Cut struct {
	target
	clip *Clipboard
	z    int
	prev clipState
}

func NewCut(m *drawing.Drawing, clip *Clipboard, s *vector.Shape) *Cut {
	return &Cut{target: target{m, s}, clip: clip}
}

func (c *Cut) Name() string { return "cut" }

func (c *Cut) Execute() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.clip == nil {
		return ErrNilClipboard
	}
	z, err := c.model.Remove(c.shape)
	if err != nil {
		return err
	}
	c.z = z
	c.prev = c.clip.state()
	c.clip.set(c.shape)
	return nil
}

func (c *Cut) Undo() error {
	if err := c.model.Insert(c.shape, c.z); err != nil {
		return err
	}
	c.clip.restore(c.prev)
	return nil
}

// Paste adds a clone of the clipboard content with a new ID, offset from
// the previous paste. Undo removes the pasted instance only.
type Paste struct {
	model  *drawing.Drawing
	clip   *Clipboard
	pasted *vector.Shape
}

func NewPaste(m *drawing.Drawing, clip *Clipboard) *Paste { return &Paste{model: m, clip: clip} }

func (c *Paste) Name() string { return "paste" }

// Pasted returns the inserted shape after a successful Execute.
func (c *Paste) Pasted() *vector.Shape { return c.pasted }

func (c *Paste) Execute() error {
	if c.model == nil {
		return ErrNilModel
	}
	if c.clip == nil {
		return ErrNilClipboard
	}
	if c.clip.Empty() {
		return ErrClipboardEmpty
	}
	s := c.clip.next()
	if err := c.model.Add(s); err != nil {
		return err
	}
	c.clip.commit()
	c.pasted = s
	return nil
}

func (c *Paste) Undo() error {
	_, err := c.model.Remove(c.pasted)
	return err
}
