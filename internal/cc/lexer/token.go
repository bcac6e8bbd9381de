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

import "fmt"

// TokenKind classifies a Token. The lexer never produces the directive
// keyword kinds (Define, Include, ...): `#define` always lexes as Pound
// followed by Identifier, and the preprocessor maps the directive name to
// its kind with LookupDirective.
type TokenKind int

const (
	Keyword TokenKind = iota
	Identifier
	Integer
	Float
	String
	Char
	Op
	Whitespace
	Comment
	Newline
	Comma
	ParenOpen
	ParenClose
	Ellipsis
	Pound
	PoundPound

	Define
	Include
	Ifdef
	Ifndef
	If
	Elif
	Else
	Endif
	Line
	Undef
	Error
	Warning
	Pragma
	Defined

	// BadChar is the kind of a single byte unmatched by any pattern. The
	// lexer emits it wherever such a byte occurs (spec.md §3/§4.5); the
	// preprocessor passes it through on kept lines and drops it on skipped
	// ones.
	BadChar
)

func (k TokenKind) String() string {
	switch k {
	case Keyword:
		return "Keyword"
	case Identifier:
		return "Identifier"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Char:
		return "Char"
	case Op:
		return "Op"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	case Newline:
		return "Newline"
	case Comma:
		return "Comma"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Ellipsis:
		return "Ellipsis"
	case Pound:
		return "Pound"
	case PoundPound:
		return "PoundPound"
	case Define:
		return "Define"
	case Include:
		return "Include"
	case Ifdef:
		return "Ifdef"
	case Ifndef:
		return "Ifndef"
	case If:
		return "If"
	case Elif:
		return "Elif"
	case Else:
		return "Else"
	case Endif:
		return "Endif"
	case Line:
		return "Line"
	case Undef:
		return "Undef"
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Pragma:
		return "Pragma"
	case Defined:
		return "Defined"
	case BadChar:
		return "BadChar"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// directiveKeywords maps a `#`-directive name to its TokenKind, consulted
// through LookupDirective.
var directiveKeywords = map[string]TokenKind{
	"define":  Define,
	"include": Include,
	"ifdef":   Ifdef,
	"ifndef":  Ifndef,
	"if":      If,
	"elif":    Elif,
	"else":    Else,
	"endif":   Endif,
	"line":    Line,
	"undef":   Undef,
	"error":   Error,
	"warning": Warning,
	"pragma":  Pragma,
	"defined": Defined,
}

// LookupDirective reports the TokenKind a `#`-directive name denotes, for
// use by the preprocessor immediately after it sees a leading Pound on a
// logical line.
func LookupDirective(name string) (TokenKind, bool) {
	k, ok := directiveKeywords[name]
	return k, ok
}

// Token is one lexical unit: a kind, the exact source bytes, and its
// starting position.
type Token struct {
	Kind     TokenKind
	Bytes    string
	Location Cursor
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Bytes, t.Location)
}

// Equal implements spec.md §4.5's token equality rule: tokens of different
// kinds are never equal; two whitespace tokens, or two comment tokens, are
// equal regardless of bytes; every other kind must match byte-for-byte.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == Whitespace || t.Kind == Comment {
		return true
	}
	return t.Bytes == other.Bytes
}

// IsTrivia reports whether t is whitespace or a comment.
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}
