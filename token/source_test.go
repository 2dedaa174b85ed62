// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcePosition(t *testing.T) {
	src := NewSource("test.c", []byte("int x;\nint y;\n"))

	testCases := []struct {
		name     string
		offset   int
		expected Cursor
	}{
		{"start of source", 0, Cursor{Line: 1, Column: 1}},
		{"mid first line", 4, Cursor{Line: 1, Column: 5}},
		{"start of second line", 7, Cursor{Line: 2, Column: 1}},
		{"past end clamps to end of buffer", 100, Cursor{Line: 3, Column: 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, src.Position(tc.offset))
		})
	}
}

func TestSourceSlice(t *testing.T) {
	src := NewSource("test.c", []byte("int x;"))
	assert.Equal(t, "int", src.Slice(0, 3))
	assert.Equal(t, "x", src.Slice(4, 1))
}

func TestCursorString(t *testing.T) {
	assert.Equal(t, "1:1", CursorInit.String())
	assert.Equal(t, "3:7", Cursor{Line: 3, Column: 7}.String())
}

func TestAdjacent(t *testing.T) {
	src := NewSource("test.c", []byte("ab"))
	a := New(src, KindIdentifier, 0, 1, nil, PPOther)
	b := New(src, KindIdentifier, 1, 1, nil, PPOther)
	c := New(src, KindIdentifier, 2, 1, nil, PPOther)
	assert.True(t, Adjacent(a, b))
	assert.False(t, Adjacent(a, c))
}
