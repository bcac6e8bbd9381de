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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	l, err := New([]byte(src))
	require.NoError(t, err)
	var kinds []TokenKind
	for tok := range l.AllTokens() {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestNextTokenKinds(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{"keyword", "return", []TokenKind{Keyword, Newline}},
		{"identifier", "frobnicate", []TokenKind{Identifier, Newline}},
		{"keyword prefix of identifier", "forever", []TokenKind{Identifier, Newline}},
		{"integer", "42", []TokenKind{Integer, Newline}},
		{"hex integer", "0xFFu", []TokenKind{Integer, Newline}},
		{"float", "3.14f", []TokenKind{Float, Newline}},
		{"float exponent", "1e10", []TokenKind{Float, Newline}},
		{"string literal", `"hello"`, []TokenKind{String, Newline}},
		{"char literal", `'a'`, []TokenKind{Char, Newline}},
		{"line comment", "// a comment", []TokenKind{Comment, Newline}},
		{"block comment", "/* a\nmultiline\ncomment */", []TokenKind{Comment, Newline}},
		{"ellipsis", "...", []TokenKind{Ellipsis, Newline}},
		{"pound pound", "##", []TokenKind{PoundPound, Newline}},
		{"pound then identifier", "#define", []TokenKind{Pound, Identifier, Newline}},
		{"whitespace collapses to one token", "a   b", []TokenKind{Identifier, Whitespace, Identifier, Newline}},
		{"arrow operator", "p->x", []TokenKind{Identifier, Op, Identifier, Newline}},
		{"shift assign is one token", "x <<= 1", []TokenKind{Identifier, Whitespace, Op, Whitespace, Integer, Newline}},
		{"comma and parens", "f(a,b)", []TokenKind{Identifier, ParenOpen, Identifier, Comma, Identifier, ParenClose, Newline}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tokenKinds(t, tc.input))
		})
	}
}

func TestNextTokenBytes(t *testing.T) {
	l, err := New([]byte("int x = 1;"))
	require.NoError(t, err)

	tok, ok := l.NextToken()
	require.True(t, ok)
	assert.Equal(t, Keyword, tok.Kind)
	assert.Equal(t, "int", tok.Bytes)
	assert.Equal(t, Cursor{Line: 1, Column: 1}, tok.Location)
}

// Supplemented feature: a line comment may be continued onto the next
// physical line with a trailing backslash-newline splice; the comment does
// not end until an un-spliced newline is reached.
func TestLineCommentSplice(t *testing.T) {
	kinds := tokenKinds(t, "// part one\\\npart two\nint x;")
	require.GreaterOrEqual(t, len(kinds), 2)
	assert.Equal(t, Comment, kinds[0])
	assert.Equal(t, Newline, kinds[1])
}

func TestBlockCommentNotGreedyPastClose(t *testing.T) {
	l, err := New([]byte("/* one */ /* two */"))
	require.NoError(t, err)
	tok, ok := l.NextToken()
	require.True(t, ok)
	assert.Equal(t, Comment, tok.Kind)
	assert.Equal(t, "/* one */", tok.Bytes)
}

func TestBadCharEmittedForUnmatchedByte(t *testing.T) {
	l, err := New([]byte("@"))
	require.NoError(t, err)
	tok, ok := l.NextToken()
	require.True(t, ok)
	assert.Equal(t, BadChar, tok.Kind)
	assert.Equal(t, "@", tok.Bytes)
}

func TestFinalNewlineSynthesizedOnce(t *testing.T) {
	l, err := New([]byte("x"))
	require.NoError(t, err)

	tok, ok := l.NextToken()
	require.True(t, ok)
	assert.Equal(t, Identifier, tok.Kind)

	tok, ok = l.NextToken()
	require.True(t, ok)
	assert.Equal(t, Newline, tok.Kind)

	_, ok = l.NextToken()
	assert.False(t, ok)
}

func TestTokenEqual(t *testing.T) {
	ws1 := Token{Kind: Whitespace, Bytes: " "}
	ws2 := Token{Kind: Whitespace, Bytes: "\t\t"}
	assert.True(t, ws1.Equal(ws2))

	id1 := Token{Kind: Identifier, Bytes: "foo"}
	id2 := Token{Kind: Identifier, Bytes: "bar"}
	assert.False(t, id1.Equal(id2))

	id3 := Token{Kind: Identifier, Bytes: "foo"}
	assert.True(t, id1.Equal(id3))
}
