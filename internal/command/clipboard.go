/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import "geodraw/internal/vector"

// DefaultPasteOffset displaces successive pastes of the same content.
const DefaultPasteOffset = 10.0

// Clipboard holds at most one deep-cloned shape. It also counts pastes of
// the current content so each paste lands n × Offset away from the source.
type Clipboard struct {
	Offset  float64
	content *vector.Shape
	pastes  int
}

func NewClipboard(offset float64) *Clipboard { return &Clipboard{Offset: offset} }

// Empty reports whether nothing was copied yet.
func (c *Clipboard) Empty() bool { return c.content == nil }

// Content returns a copy of the stored shape, or nil.
func (c *Clipboard) Content() *vector.Shape {
	if c.content == nil {
		return nil
	}
	return c.content.Clone()
}

// set stores an independent clone of s and resets the paste counter.
func (c *Clipboard) set(s *vector.Shape) {
	c.content = s.Clone()
	c.pastes = 0
}

// next returns a fresh clone with a new ID, displaced for the next paste.
// The counter only advances once the paste is committed.
func (c *Clipboard) next() *vector.Shape {
	s := c.content.CloneWithNewID()
	d := float64(c.pastes+1) * c.Offset
	s.MoveBy(d, d)
	return s
}

func (c *Clipboard) commit() { c.pastes++ }

type clipState struct {
	content *vector.Shape
	pastes  int
}

func (c *Clipboard) state() clipState { return clipState{content: c.content, pastes: c.pastes} }

func (c *Clipboard) restore(st clipState) { c.content, c.pastes = st.content, st.pastes }
