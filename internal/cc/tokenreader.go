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
	"fmt"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
)

// tokenReader wraps a lexer.Lexer with an arbitrary-depth lookahead queue,
// in the peek/next/consume/mustConsume idiom of the teacher's
// `parser/token_reader.go`, generalized from its bespoke string tokenizer
// to the `lexer.Token` stream.
type tokenReader struct {
	lex   *lexer.Lexer
	queue []lexer.Token
	done  bool
}

func newTokenReader(lex *lexer.Lexer) *tokenReader {
	return &tokenReader{lex: lex}
}

func (tr *tokenReader) fill(n int) {
	for len(tr.queue) <= n && !tr.done {
		tok, ok := tr.lex.NextToken()
		if !ok {
			tr.done = true
			return
		}
		tr.queue = append(tr.queue, tok)
	}
}

// next returns the next token, advancing the reader.
func (tr *tokenReader) next() (lexer.Token, bool) {
	tr.fill(0)
	if len(tr.queue) == 0 {
		return lexer.Token{}, false
	}
	tok := tr.queue[0]
	tr.queue = tr.queue[1:]
	return tok, true
}

// peek returns the next token without advancing the reader.
func (tr *tokenReader) peek() (lexer.Token, bool) {
	return tr.peekAt(0)
}

// peekAt returns the token n positions ahead (0 = next) without advancing.
func (tr *tokenReader) peekAt(n int) (lexer.Token, bool) {
	tr.fill(n)
	if n >= len(tr.queue) {
		return lexer.Token{}, false
	}
	return tr.queue[n], true
}

// peekSignificant returns the next non-trivia token and how many tokens
// (including trivia) precede it, without advancing the reader.
func (tr *tokenReader) peekSignificant() (lexer.Token, int, bool) {
	for i := 0; ; i++ {
		tok, ok := tr.peekAt(i)
		if !ok {
			return lexer.Token{}, i, false
		}
		if !tok.IsTrivia() {
			return tok, i, true
		}
	}
}

// consume requires the next token to have the given kind, returning it.
func (tr *tokenReader) consume(kind lexer.TokenKind) (lexer.Token, error) {
	tok, ok := tr.next()
	if !ok {
		return lexer.Token{}, fmt.Errorf("expected %s, got end of input", kind)
	}
	if tok.Kind != kind {
		return tok, fmt.Errorf("expected %s, got %s %q", kind, tok.Kind, tok.Bytes)
	}
	return tok, nil
}

// mustConsume is consume for call sites that have already checked via peek
// that the token is present and of the right kind.
func (tr *tokenReader) mustConsume(kind lexer.TokenKind) lexer.Token {
	tok, err := tr.consume(kind)
	if err != nil {
		panic(err)
	}
	return tok
}
