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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOfDropsDuplicates(t *testing.T) {
	s := SetOf("int", "char", "int")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("int"))
	assert.True(t, s.Contains("char"))
	assert.False(t, s.Contains("float"))
}

func TestSetAddChaining(t *testing.T) {
	s := Set[string]{}.Add("a").AddAll([]string{"b", "c"})
	assert.Equal(t, 3, s.Len())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, s.Values())
}
