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
	"fmt"

	"github.com/robertdavidgraham/regexx"
)

// cMacros are the standard lexical building blocks of the ANSI C grammar
// (the classic `O D NZ L A H HP E P FS IS CP SP ES WS WS2 SPLICE` macro
// set), expressed as regexx `{NAME}` macros (spec.md §4.5).
var cMacros = []struct{ name, value string }{
	{"O", `[0-7]`},
	{"D", `[0-9]`},
	{"NZ", `[1-9]`},
	{"L", `[a-zA-Z_]`},
	{"A", `[a-zA-Z_0-9]`},
	{"H", `[a-fA-F0-9]`},
	{"HP", `0[xX]`},
	{"E", `(?:[Ee][+\-]?{D}+)`},
	{"P", `[Pp][+\-]?{D}+`},
	{"FS", `(?:f|F|l|L)`},
	{"IS", `(?:(?:u|U|l|L)*)`},
	{"CP", `(?:u|U|L)`},
	{"SP", `(?:u8|u|U|L)`},
	{"ES", `\\('|"|\?|\\|a|b|f|n|r|t|v|{O}{1,3}|x{H}+)`},
	{"WS", `[ \t\v\f]`},
	{"WS2", `[ \t\v\f\r]`},
	{"SPLICE", `\\\r?\n`},
}

// keywords are the C reserved words. Registered as fixed-string patterns
// before the Identifier rule so that, for equal-length matches, the
// earliest-registered pattern (the keyword) wins the lexer's tie-break
// (spec.md §4.3) rather than the general Identifier rule.
var keywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if", "int",
	"long", "register", "return", "short", "signed", "sizeof", "static",
	"struct", "switch", "typedef", "union", "unsigned", "void", "volatile",
	"while", "_Bool", "_Complex", "_Imaginary", "inline", "restrict",
}

// ruleEntry pairs a TokenKind with the pattern that recognizes it. Order is
// significant only for same-length ties (spec.md §4.3); it otherwise
// mirrors the teacher's `rules.go` ordered `matchingRules` table shape.
type ruleEntry struct {
	kind    TokenKind
	pattern string
}

var tokenRules = []ruleEntry{
	{Whitespace, `({WS}|{SPLICE})+`},
	{Newline, `\r?\n`},
	{Comment, `/\*([^*]|\*+[^*/])*\*+/`},
	{Comment, `//({SPLICE}|[^\n])*`},
	{String, `{SP}?"([^"\\\n]|{ES})*"`},
	{Char, `{CP}?'([^'\\\n]|{ES})*'`},
	{Float, `{D}+{E}{FS}?|{D}*\.{D}+{E}?{FS}?|{D}+\.{D}*{E}?{FS}?|{HP}{H}+{P}{FS}?|{HP}{H}*\.{H}+{P}{FS}?|{HP}{H}+\.{P}{FS}?`},
	{Integer, `{HP}{H}+{IS}?|{NZ}{D}*{IS}?|0{O}*{IS}?`},
	{Ellipsis, `\.\.\.`},
	{PoundPound, `##`},
	{Pound, `#`},
	{Comma, `,`},
	{ParenOpen, `\(`},
	{ParenClose, `\)`},
	{Op, `->|\+\+|--|<<=|>>=|<=|>=|==|!=|&&|\|\||\*=|/=|%=|\+=|-=|&=|\^=|\|=|<<|>>|[-+*/%&|^~!<>=\[\]{};:.?]`},
	{Identifier, `{L}{A}*`},
}

// newEngine builds the regexx.Engine this lexer drives, registering the C
// lexical macros, the keyword literals, and the ordered token-pattern
// table, in that order.
func newEngine() (*regexx.Engine, error) {
	engine := regexx.New(0)
	for _, m := range cMacros {
		if err := engine.AddMacro(m.name, m.value); err != nil {
			return nil, fmt.Errorf("registering macro %s: %w", m.name, err)
		}
	}
	for _, kw := range keywords {
		if _, err := engine.AddPattern(kw, int(Keyword), 0); err != nil {
			return nil, fmt.Errorf("registering keyword %q: %w", kw, err)
		}
	}
	for _, rule := range tokenRules {
		if _, err := engine.AddPattern(rule.pattern, int(rule.kind), 0); err != nil {
			return nil, fmt.Errorf("registering rule for %s (%q): %w", rule.kind, rule.pattern, err)
		}
	}
	return engine, nil
}
