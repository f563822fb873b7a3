/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordCmd struct {
	name     string
	log      *[]string
	failing  bool
	undoFail bool
}

func (c *recordCmd) Name() string { return c.name }

func (c *recordCmd) Execute() error {
	if c.failing {
		return errors.New("boom")
	}
	*c.log = append(*c.log, "do "+c.name)
	return nil
}

func (c *recordCmd) Undo() error {
	if c.undoFail {
		return errors.New("stuck")
	}
	*c.log = append(*c.log, "undo "+c.name)
	return nil
}

func TestEngineLIFO(t *testing.T) {
	var log []string
	e := NewEngine(Config{})
	require.NoError(t, e.Execute(&recordCmd{name: "a", log: &log}))
	require.NoError(t, e.Execute(&recordCmd{name: "b", log: &log}))
	assert.Equal(t, []string{"a", "b"}, e.History())

	ok, err := e.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, log)
}

func TestEngineUndoOnEmptyIsNoop(t *testing.T) {
	e := NewEngine(Config{})
	ok, err := e.Undo()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, e.Len())
}

func TestEngineDoesNotRecordFailures(t *testing.T) {
	var log []string
	e := NewEngine(Config{})
	assert.Error(t, e.Execute(&recordCmd{name: "x", log: &log, failing: true}))
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, log)
}

func TestEngineKeepsCommandWhoseUndoFails(t *testing.T) {
	var log []string
	e := NewEngine(Config{})
	require.NoError(t, e.Execute(&recordCmd{name: "a", log: &log}))
	stuck := &recordCmd{name: "b", log: &log, undoFail: true}
	require.NoError(t, e.Execute(stuck))

	ok, err := e.Undo()
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, e.History())

	stuck.undoFail = false
	ok, err = e.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, e.History())
}

func TestEngineDepthCap(t *testing.T) {
	var log []string
	e := NewEngine(Config{MaxDepth: 2})
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, e.Execute(&recordCmd{name: n, log: &log}))
	}
	assert.Equal(t, []string{"b", "c"}, e.History())
	e.Clear()
	assert.Equal(t, 0, e.Len())
}
