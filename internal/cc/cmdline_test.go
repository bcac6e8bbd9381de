// Copyright 2026 EngFlow Inc. All rights reserved.
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

package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

func TestDefineFromStrings(t *testing.T) {
	table := macro.NewTable(macro.NewSeed())
	err := DefineFromStrings(table, []string{"FOO", "DEC=123", "HEX=0x2A", "__ARM_ARCH=8"})
	require.NoError(t, err)

	for name, want := range map[string]string{"FOO": "1", "DEC": "123", "HEX": "0x2A", "__ARM_ARCH": "8"} {
		m, ok := table.Lookup(name)
		require.True(t, ok, "expected %s to be defined", name)
		require.Len(t, m.Body, 1)
		assert.Equal(t, want, m.Body[0].Bytes)
	}
}

func TestDefineFromStringsAggregatesErrors(t *testing.T) {
	table := macro.NewTable(macro.NewSeed())
	err := DefineFromStrings(table, []string{"FLT=3.14", "-BAD-NAME=1", "OK=1"})
	require.Error(t, err)

	_, ok := table.Lookup("OK")
	assert.True(t, ok, "a failure in one definition should not prevent the rest from being defined")
}

func TestDefineFromStringsRejectsBadName(t *testing.T) {
	table := macro.NewTable(macro.NewSeed())
	err := DefineFromStrings(table, []string{"123BAD=1"})
	require.Error(t, err)
}
