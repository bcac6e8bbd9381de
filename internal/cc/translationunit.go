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

// Package cc implements the C preprocessor's phase-3 translation-unit
// state machine: directive dispatch, conditional inclusion, macro
// expansion, and diagnostics, built on internal/cc/lexer and
// internal/cc/macro.
package cc

import (
	"os"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

// IncludeLoader resolves a `#include` directive. It is an external
// collaborator (spec.md §1/§4.7): this core dispatches to it and resumes
// lexing the current file on return, but does not itself search include
// paths or read other files.
type IncludeLoader func(path string, isSystem bool) error

// TranslationUnit holds the state of preprocessing one source file:
// position in its token stream, the shared macro table, accumulated
// output tokens, and any non-fatal diagnostics.
type TranslationUnit struct {
	Path     string
	Macros   *macro.Table
	Output   []lexer.Token
	Warnings []Diagnostic

	// Include, when set, is called for every `#include` directive. A nil
	// Include makes `#include` a no-op beyond recording the directive.
	Include IncludeLoader

	// Directives is the flat trace of top-level directives processed while
	// kept, with conditional groups recorded as a single IfBlock nesting
	// its branches' own directives — the structural counterpart to Output's
	// flat token stream, in the spirit of the teacher parser's
	// directive-tree result.
	Directives []Directive

	tr            *tokenReader
	directiveSink *[]Directive
}

// Open builds a TranslationUnit over src, reusing table for macro
// definitions (pass nil for a fresh table with its own SipHash seed). A
// trailing newline is synthesized if src doesn't already end in one
// (spec.md §6).
func Open(path string, src []byte, table *macro.Table) (*TranslationUnit, error) {
	if len(src) == 0 || src[len(src)-1] != '\n' {
		src = append(append([]byte(nil), src...), '\n')
	}
	lex, err := lexer.New(src)
	if err != nil {
		return nil, err
	}
	if table == nil {
		table = macro.NewTable(macro.NewSeed())
	}
	tu := &TranslationUnit{Path: path, Macros: table, tr: newTokenReader(lex)}
	tu.directiveSink = &tu.Directives
	return tu, nil
}

// OpenFile reads path fully into memory and opens it as a TranslationUnit.
func OpenFile(path string, table *macro.Table) (*TranslationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Open(path, data, table)
}

func (tu *TranslationUnit) emit(tok lexer.Token) {
	tu.Output = append(tu.Output, tok)
}

func (tu *TranslationUnit) emitAll(toks []lexer.Token) {
	tu.Output = append(tu.Output, toks...)
}

func (tu *TranslationUnit) record(d Directive) {
	*tu.directiveSink = append(*tu.directiveSink, d)
}

func (tu *TranslationUnit) fail(pos lexer.Cursor, format string, args ...any) error {
	return newDiagnostic(tu.Path, pos, true, format, args...)
}

func (tu *TranslationUnit) warn(pos lexer.Cursor, format string, args ...any) {
	tu.Warnings = append(tu.Warnings, newDiagnostic(tu.Path, pos, false, format, args...))
}

// Parse runs the preprocessor to completion, populating Output and
// Warnings, or returns the first fatal Diagnostic encountered
// (spec.md §4.7.5).
func (tu *TranslationUnit) Parse() error {
	term, pos, err := tu.run(true, nil)
	if err != nil {
		return err
	}
	if term != "" {
		return tu.fail(pos, "#%s without #if", term)
	}
	return nil
}
