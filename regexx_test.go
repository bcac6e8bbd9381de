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

package regexx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Scenarios S1-S3 (spec.md §8).
func TestMatchScenarios(t *testing.T) {
	cases := []struct {
		name       string
		pattern    string
		subject    string
		wantStart  int
		wantLength int
	}{
		{"S1 alternation", "a|b", "foobar", 3, 1},
		{"S2 quantified group", "c(def)+g", "abcdefdefghi", 2, 8},
		{"S3 lazy dot-star", "(.*?at)", "The fat cat sat on the mat.", 0, 7},
		{"S3 greedy dot-star", "(.*at)", "The fat cat sat on the mat.", 0, 26},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(0)
			_, err := e.AddPattern(tc.pattern, 1, 0)
			require.NoError(t, err)
			id, offset, length, found := e.Match([]byte(tc.subject), 0)
			require.True(t, found)
			assert.Equal(t, 1, id)
			assert.Equal(t, tc.wantStart, offset)
			assert.Equal(t, tc.wantLength, length)
		})
	}
}

// Invariant 1: longest match wins; ties broken by earliest registration.
func TestLexTokenLongestMatchTiebreak(t *testing.T) {
	e := New(0)
	idFoo, err := e.AddPattern("foo", 100, 0)
	require.NoError(t, err)
	idFooBar, err := e.AddPattern("foobar", 200, 0)
	require.NoError(t, err)
	idAlsoFoo, err := e.AddPattern("foo", 300, 0)
	require.NoError(t, err)

	result, newOffset, ok := e.LexToken([]byte("foobarbaz"), 0)
	require.True(t, ok)
	assert.Equal(t, 200, result.ID)
	assert.Equal(t, 6, newOffset)

	// Two equal-length patterns: the earliest registered wins.
	e2 := New(0)
	_, _ = e2.AddPattern("foo", 1, 0)
	_, _ = e2.AddPattern("foo", 2, 0)
	result2, _, ok := e2.LexToken([]byte("foo"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, result2.ID)

	_ = idFoo
	_ = idFooBar
	_ = idAlsoFoo
}

// Invariant 2 (relaxed): print(P) re-parses to a pattern matching the same
// inputs as P, for a handful of representative patterns.
func TestPrintRoundTrip(t *testing.T) {
	patterns := []string{
		"a|b",
		"c(def)+g",
		"[A-Za-z_][A-Za-z0-9_]*",
		"ab*c?d+",
		`\d+\.\d+`,
	}
	subjects := []string{"", "a", "b", "abc", "cdefdefg", "ab12cd", "3.14", "_x9"}

	for _, pat := range patterns {
		t.Run(pat, func(t *testing.T) {
			e1 := New(0)
			_, err := e1.AddPattern(pat, 1, 0)
			require.NoError(t, err)
			printed, ok := e1.Print(0, false)
			require.True(t, ok)

			e2 := New(0)
			_, err = e2.AddPattern(printed, 1, 0)
			require.NoError(t, err)

			for _, subj := range subjects {
				_, _, _, ok1 := e1.Match([]byte(subj), 0)
				_, _, _, ok2 := e2.Match([]byte(subj), 0)
				assert.Equalf(t, ok1, ok2, "pattern %q printed as %q, mismatch on subject %q", pat, printed, subj)
			}
		})
	}
}

// Invariant 6: CharClass duality.
func TestCharClassDuality(t *testing.T) {
	var c CharClass
	c.AddRange('a', 'm')
	inv := c.Invert()
	for b := 0; b < 256; b++ {
		assert.Equal(t, !c.Contains(byte(b)), inv.Contains(byte(b)))
	}
}

func TestMacroExpansion(t *testing.T) {
	e := New(0)
	require.NoError(t, e.AddMacro("DIGIT", `[0-9]`))
	require.NoError(t, e.AddMacro("IDENT", `[A-Za-z_][A-Za-z0-9_]*`))
	_, err := e.AddPattern(`{IDENT}{DIGIT}*`, 1, 0)
	require.NoError(t, err)

	id, offset, length2, ok2 := e.Match([]byte("xyz  foo42bar99"), 0)
	require.True(t, ok2)
	assert.Equal(t, 1, id)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 3, length2)
}

func TestAddMacroRejectsInvalidName(t *testing.T) {
	e := New(0)
	err := e.AddMacro("9bad", "x")
	require.Error(t, err)
}

func TestAddPatternUnresolvedMacro(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern("{NOPE}", 1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedMacro)
}

func TestLookaheadGroup(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`foo(?=bar)`, 1, 0)
	require.NoError(t, err)
	_, _, length, ok := e.Match([]byte("foobar"), 0)
	require.True(t, ok)
	assert.Equal(t, 3, length) // lookahead is zero-width

	_, _, _, ok = e.Match([]byte("foobaz"), 0)
	assert.False(t, ok)
}

func TestNegativeLookaheadGroup(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`foo(?!bar)`, 1, 0)
	require.NoError(t, err)
	_, _, _, ok := e.Match([]byte("foobar"), 0)
	assert.False(t, ok)

	_, _, length, ok := e.Match([]byte("foobaz"), 0)
	require.True(t, ok)
	assert.Equal(t, 3, length)
}

func TestLookbehindUnsupported(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`(?<=foo)bar`, 1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookbehindUnsupported)
}

func TestPosixClasses(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`[[:digit:]]+`, 1, 0)
	require.NoError(t, err)
	id, offset, length, ok := e.Match([]byte("ab1234cd"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, 2, offset)
	assert.Equal(t, 4, length)
}

func TestPushPopPosition(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`\n`, 1, 0)
	require.NoError(t, err)

	_, _, ok := e.LexToken([]byte("a\nb\n"), 1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Position().Line)

	e.PushPosition()
	assert.Equal(t, 0, e.Position().Line)
	_, _, ok = e.LexToken([]byte("x\n"), 1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Position().Line)

	e.PopPosition()
	assert.Equal(t, 1, e.Position().Line)
}

// Concurrency: once an Engine's patterns are registered, Match performs no
// writes to the engine (unlike LexToken, which advances position counters),
// so it is safe to call from many goroutines at once; each goroutine here
// searches the same subject and must get the sequential result (spec.md §5). Grounded on the teacher's use of golang.org/x/sync/errgroup
// for independent, side-effect-free fan-out.
func TestConcurrentReadOnlyMatch(t *testing.T) {
	e := New(0)
	_, err := e.AddPattern(`[A-Za-z]+`, 1, 0)
	require.NoError(t, err)
	_, err = e.AddPattern(`[0-9]+`, 2, 0)
	require.NoError(t, err)

	subject := []byte("alpha123beta456gamma789")
	wantID, wantOffset, wantLength, wantOK := e.Match(subject, 0)
	require.True(t, wantOK)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			id, offset, length, ok := e.Match(subject, 0)
			assert.Equal(t, wantID, id)
			assert.Equal(t, wantOffset, offset)
			assert.Equal(t, wantLength, length)
			assert.Equal(t, wantOK, ok)
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
