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

// Package lexer implements the C phase-3 lexical analyzer: it turns a byte
// buffer into a stream of preprocessing tokens, leaving whitespace and
// comments in the stream as ordinary tokens rather than discarding them (the
// preprocessor decides what trivia to keep).
package lexer

import (
	"fmt"
	"iter"

	"github.com/robertdavidgraham/regexx"
)

// Lexer scans one source buffer into Tokens, tracking line/column position
// as it goes. A Lexer is not safe for concurrent use.
type Lexer struct {
	engine *regexx.Engine
	buf    []byte
	offset int
	cursor Cursor
	done   bool
}

// New returns a Lexer over buf, starting at the beginning of the file.
func New(buf []byte) (*Lexer, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, fmt.Errorf("building lexer engine: %w", err)
	}
	return &Lexer{engine: engine, buf: buf, cursor: CursorInit}, nil
}

// NextToken returns the next token in the stream. Once the buffer is
// exhausted it returns one synthetic Newline token (so every logical line,
// including the last, ends in a Newline) and then ok=false thereafter.
//
// A byte matched by none of the lexical rules yields a single-byte BadChar
// token; the preprocessor relies on this while skipping a false conditional
// branch, where malformed text must not abort the scan (spec.md §4.7.3).
func (l *Lexer) NextToken() (Token, bool) {
	if l.offset >= len(l.buf) {
		if l.done {
			return Token{}, false
		}
		l.done = true
		return Token{Kind: Newline, Bytes: "", Location: l.cursor}, true
	}

	result, newOffset, ok := l.engine.LexToken(l.buf, l.offset)
	if !ok {
		tok := Token{
			Kind:     BadChar,
			Bytes:    string(l.buf[l.offset : l.offset+1]),
			Location: l.cursor,
		}
		l.cursor = l.cursor.AdvancedBy(tok.Bytes)
		l.offset++
		return tok, true
	}

	text := string(l.buf[l.offset:newOffset])
	tok := Token{Kind: TokenKind(result.ID), Bytes: text, Location: l.cursor}
	l.cursor = l.cursor.AdvancedBy(text)
	l.offset = newOffset
	return tok, true
}

// AllTokens returns an iterator over every token in the buffer, in order.
func (l *Lexer) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.NextToken()
			if !ok {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}
