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
	"strings"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

// run scans logical lines, emitting output when kept is true, until end of
// input or until it finds a directive whose name is in stopSet, in which
// case it returns that name and the position of its leading `#` without
// consuming either. A nil stopSet never stops early. This is the core loop
// behind both TranslationUnit.Parse (stopSet nil) and a conditional block's
// body (stopSet {"elif","else","endif"}); nested #if groups are consumed in
// full by their own recursive call before this loop resumes.
func (tu *TranslationUnit) run(kept bool, stopSet map[string]bool) (terminator string, pos lexer.Cursor, err error) {
	for {
		for {
			tok, ok := tu.tr.peek()
			if !ok {
				return "", lexer.Cursor{}, nil
			}
			if tok.Kind != lexer.Whitespace {
				break
			}
			tu.tr.next()
			if kept {
				tu.emit(tok)
			}
		}

		tok, ok := tu.tr.peek()
		if !ok {
			return "", lexer.Cursor{}, nil
		}
		if tok.Kind == lexer.Newline {
			tu.tr.next()
			if kept {
				tu.emit(tok)
			}
			continue
		}
		if tok.Kind != lexer.Pound {
			if err := tu.processSourceLine(kept); err != nil {
				return "", lexer.Cursor{}, err
			}
			continue
		}

		hashPos := tok.Location
		nameTok, found := tu.peekDirectiveName()
		if found && stopSet[nameTok.Bytes] {
			return nameTok.Bytes, hashPos, nil
		}
		tu.tr.next() // consume '#'
		if err := tu.processDirectiveLine(kept, hashPos); err != nil {
			return "", lexer.Cursor{}, err
		}
	}
}

// peekDirectiveName looks past the already-peeked leading `#` (position 0)
// for the directive-name token, without consuming anything.
func (tu *TranslationUnit) peekDirectiveName() (lexer.Token, bool) {
	for i := 1; ; i++ {
		tok, ok := tu.tr.peekAt(i)
		if !ok || tok.Kind == lexer.Newline {
			return lexer.Token{}, false
		}
		if !tok.IsTrivia() {
			return tok, true
		}
	}
}

func (tu *TranslationUnit) skipTrivia() {
	for {
		tok, ok := tu.tr.peek()
		if !ok || tok.Kind == lexer.Newline || !tok.IsTrivia() {
			return
		}
		tu.tr.next()
	}
}

// collectLine consumes and returns every token up to (not including) the
// terminating Newline, which is also consumed.
func (tu *TranslationUnit) collectLine() []lexer.Token {
	var toks []lexer.Token
	for {
		tok, ok := tu.tr.next()
		if !ok || tok.Kind == lexer.Newline {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (tu *TranslationUnit) discardRestOfLine() {
	tu.collectLine()
}

// processDirectiveLine dispatches one directive (spec.md §4.7's table);
// the leading `#` has already been consumed by the caller.
func (tu *TranslationUnit) processDirectiveLine(kept bool, hashPos lexer.Cursor) error {
	tu.skipTrivia()
	tok, ok := tu.tr.peek()
	if !ok {
		return tu.fail(hashPos, "invalid preprocessing directive")
	}
	if tok.Kind == lexer.Newline {
		tu.tr.next() // null directive: bare '#' on a line
		return nil
	}
	if tok.Kind != lexer.Identifier && tok.Kind != lexer.Keyword {
		return tu.fail(tok.Location, "invalid preprocessing directive")
	}
	kind, known := lexer.LookupDirective(tok.Bytes)
	if !known {
		return tu.fail(tok.Location, "invalid preprocessing directive #%s", tok.Bytes)
	}
	pos := tok.Location
	tu.tr.next() // consume directive name

	switch kind {
	case lexer.Define:
		return tu.processDefine(kept)
	case lexer.Undef:
		return tu.processUndef(kept)
	case lexer.Include:
		return tu.processInclude(kept, pos)
	case lexer.If, lexer.Ifdef, lexer.Ifndef:
		return tu.processConditionalGroup(kind, pos, kept)
	case lexer.Elif:
		return tu.fail(pos, "#elif without #if")
	case lexer.Else:
		return tu.fail(pos, "#else without #if")
	case lexer.Endif:
		return tu.fail(pos, "#endif without #if")
	case lexer.Line:
		tu.discardRestOfLine()
		return nil
	case lexer.Error:
		return tu.processDiagnosticDirective(kept, pos, true)
	case lexer.Warning:
		return tu.processDiagnosticDirective(kept, pos, false)
	case lexer.Pragma:
		tu.discardRestOfLine()
		return nil
	default:
		return tu.fail(pos, "invalid preprocessing directive #%s", tok.Bytes)
	}
}

func (tu *TranslationUnit) processDiagnosticDirective(kept bool, pos lexer.Cursor, fatal bool) error {
	toks := tu.collectLine()
	if !kept {
		return nil
	}
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Bytes)
	}
	msg := strings.TrimSpace(sb.String())
	if fatal {
		return tu.fail(pos, "#error %s", msg)
	}
	tu.warn(pos, "#warning %s", msg)
	return nil
}

func (tu *TranslationUnit) processUndef(kept bool) error {
	tu.skipTrivia()
	nameTok, ok := tu.tr.next()
	if !ok || (nameTok.Kind != lexer.Identifier && nameTok.Kind != lexer.Keyword) {
		return tu.fail(nameTok.Location, "#undef expects a macro name")
	}
	tu.discardRestOfLine()
	if kept {
		tu.Macros.Undef(nameTok.Bytes)
		tu.record(UndefineDirective{Name: nameTok.Bytes})
	}
	return nil
}

func (tu *TranslationUnit) processInclude(kept bool, pos lexer.Cursor) error {
	toks := tu.collectLine()
	if !kept {
		return nil
	}
	path, isSystem, err := parseIncludePath(toks)
	if err != nil {
		return tu.fail(pos, "%v", err)
	}
	tu.record(IncludeDirective{Path: path, IsSystem: isSystem})
	if tu.Include != nil {
		if err := tu.Include(path, isSystem); err != nil {
			return tu.fail(pos, "#include %q: %v", path, err)
		}
	}
	return nil
}

func parseIncludePath(toks []lexer.Token) (string, bool, error) {
	var significant []lexer.Token
	for _, t := range toks {
		if !t.IsTrivia() {
			significant = append(significant, t)
		}
	}
	if len(significant) == 0 {
		return "", false, fmt.Errorf("expected a filename after #include")
	}
	if significant[0].Kind == lexer.String {
		s := significant[0].Bytes
		if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
			return "", false, fmt.Errorf("malformed #include path %q", s)
		}
		return s[1 : len(s)-1], false, nil
	}
	if significant[0].Kind == lexer.Op && significant[0].Bytes == "<" {
		var sb strings.Builder
		for i := 1; i < len(significant); i++ {
			if significant[i].Kind == lexer.Op && significant[i].Bytes == ">" {
				return sb.String(), true, nil
			}
			sb.WriteString(significant[i].Bytes)
		}
		return "", false, fmt.Errorf("missing closing '>' in #include")
	}
	return "", false, fmt.Errorf("malformed #include, expected \"path\" or <path>")
}

// processConditionalGroup drives one #if/#ifdef/#ifndef through its
// #elif/#else arms to its #endif (spec.md §4.7.3). The directive-name token
// of startKind has already been consumed; startPos is its location.
// outerKept is false when this whole group is nested inside an
// already-skipped branch, in which case every arm is skipped regardless of
// its own condition.
func (tu *TranslationUnit) processConditionalGroup(startKind lexer.TokenKind, startPos lexer.Cursor, outerKept bool) error {
	stopSet := map[string]bool{"elif": true, "else": true, "endif": true}
	sawElse := false
	satisfied := false
	kind := startKind
	pos := startPos
	block := IfBlock{}

	for {
		branchKind := conditionalBranchKind(kind)
		expr, cond, err := tu.evalBranchCondition(kind, pos, sawElse)
		if err != nil {
			return err
		}
		if kind == lexer.Else {
			sawElse = true
		}

		branchKept := outerKept && !satisfied && cond
		if branchKept {
			satisfied = true
		}

		branch := ConditionalBranch{Kind: branchKind, Condition: expr}
		saved := tu.directiveSink
		tu.directiveSink = &branch.Body
		term, termPos, err := tu.run(branchKept, stopSet)
		tu.directiveSink = saved
		if err != nil {
			return err
		}
		block.Branches = append(block.Branches, branch)
		if term == "" {
			return tu.fail(termPos, "unterminated #if: missing #endif")
		}
		tu.tr.next() // '#'
		tu.skipTrivia()
		nameTok, _ := tu.tr.next() // elif/else/endif name token
		pos = nameTok.Location

		switch term {
		case "endif":
			tu.discardRestOfLine()
			tu.record(block)
			return nil
		case "elif":
			kind = lexer.Elif
		case "else":
			kind = lexer.Else
		}
	}
}

func conditionalBranchKind(kind lexer.TokenKind) BranchKind {
	switch kind {
	case lexer.Elif:
		return ElifBranch
	case lexer.Else:
		return ElseBranch
	default:
		return IfBranch
	}
}

// evalBranchCondition evaluates one arm of a conditional group, returning
// the Expr recorded for the directive trace (nil for #else) alongside its
// truth value.
func (tu *TranslationUnit) evalBranchCondition(kind lexer.TokenKind, pos lexer.Cursor, sawElse bool) (Expr, bool, error) {
	switch kind {
	case lexer.If:
		return tu.evalIfCondition()
	case lexer.Elif:
		if sawElse {
			return nil, false, tu.fail(pos, "#elif after #else")
		}
		return tu.evalIfCondition()
	case lexer.Ifdef:
		return tu.evalIfdefCondition(true)
	case lexer.Ifndef:
		return tu.evalIfdefCondition(false)
	case lexer.Else:
		if sawElse {
			return nil, false, tu.fail(pos, "duplicate #else")
		}
		tu.discardRestOfLine()
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("internal error: not a conditional directive kind %s", kind)
	}
}

func (tu *TranslationUnit) evalIfCondition() (Expr, bool, error) {
	toks := tu.collectLine()
	expr, err := ParseCondition(toks)
	if err != nil {
		pos := lexer.Cursor{}
		if len(toks) > 0 {
			pos = toks[0].Location
		}
		return nil, false, tu.fail(pos, "%v", err)
	}
	cond, err := EvalCondition(expr, tu.Macros)
	if err != nil {
		pos := lexer.Cursor{}
		if len(toks) > 0 {
			pos = toks[0].Location
		}
		return nil, false, tu.fail(pos, "%v", err)
	}
	return expr, cond, nil
}

func (tu *TranslationUnit) evalIfdefCondition(wantDefined bool) (Expr, bool, error) {
	tu.skipTrivia()
	nameTok, ok := tu.tr.next()
	if !ok || (nameTok.Kind != lexer.Identifier && nameTok.Kind != lexer.Keyword) {
		return nil, false, tu.fail(nameTok.Location, "expected identifier after #ifdef/#ifndef")
	}
	tu.discardRestOfLine()
	expr := Expr(Defined{Name: Ident(nameTok.Bytes)})
	if !wantDefined {
		expr = Not{X: expr}
	}
	cond, err := EvalCondition(expr, tu.Macros)
	if err != nil {
		return nil, false, tu.fail(nameTok.Location, "%v", err)
	}
	return expr, cond, nil
}

// processSourceLine is the add-token path (§4.7.2): every token of a
// non-directive line is either emitted verbatim or, for an
// identifier/keyword naming a macro, replaced by its expansion.
func (tu *TranslationUnit) processSourceLine(kept bool) error {
	for {
		tok, ok := tu.tr.next()
		if !ok {
			return nil
		}
		if tok.Kind == lexer.Newline {
			if kept {
				tu.emit(tok)
			}
			return nil
		}
		if !kept {
			continue
		}
		if tok.Kind == lexer.Identifier || tok.Kind == lexer.Keyword {
			if err := tu.addIdentifierToken(tok); err != nil {
				return err
			}
			continue
		}
		tu.emit(tok)
	}
}

func (tu *TranslationUnit) addIdentifierToken(tok lexer.Token) error {
	m, ok := tu.Macros.Lookup(tok.Bytes)
	if !ok {
		tu.emit(tok)
		return nil
	}
	if !m.IsFunction {
		tu.emitAll(m.Body)
		return nil
	}

	next, ahead, ok := tu.tr.peekSignificant()
	if !ok || next.Kind != lexer.ParenOpen {
		tu.emit(tok)
		return nil
	}
	for i := 0; i <= ahead; i++ {
		tu.tr.next()
	}

	args, err := tu.parseArgumentList()
	if err != nil {
		return tu.fail(tok.Location, "%v", err)
	}
	body, err := substituteArgs(m, args)
	if err != nil {
		return tu.fail(tok.Location, "%v", err)
	}
	tu.emitAll(body)
	return nil
}

// parseArgumentList parses the comma-separated argument tokens of a
// function-like macro call; the opening '(' has already been consumed.
// Each argument may itself contain balanced parentheses.
func (tu *TranslationUnit) parseArgumentList() ([][]lexer.Token, error) {
	tu.skipTrivia()
	if tok, ok := tu.tr.peek(); ok && tok.Kind == lexer.ParenClose {
		tu.tr.next()
		return nil, nil
	}

	var args [][]lexer.Token
	var cur []lexer.Token
	depth := 0
	for {
		tok, ok := tu.tr.next()
		if !ok {
			return nil, fmt.Errorf("unterminated macro argument list")
		}
		switch {
		case tok.Kind == lexer.ParenOpen:
			depth++
			cur = append(cur, tok)
		case tok.Kind == lexer.ParenClose && depth > 0:
			depth--
			cur = append(cur, tok)
		case tok.Kind == lexer.ParenClose:
			args = append(args, cur)
			return args, nil
		case tok.Kind == lexer.Comma && depth == 0:
			args = append(args, cur)
			cur = nil
		case tok.Kind == lexer.Newline:
			return nil, fmt.Errorf("expected ')' before end of line in macro argument list")
		default:
			cur = append(cur, tok)
		}
	}
}

// parseParamList parses a #define's formal parameter list (spec.md
// §4.7.4); the opening '(' has already been consumed.
func (tu *TranslationUnit) parseParamList() ([]string, bool, error) {
	tu.skipTrivia()
	if tok, ok := tu.tr.peek(); ok && tok.Kind == lexer.ParenClose {
		tu.tr.next()
		return nil, false, nil
	}

	var params []string
	for {
		tu.skipTrivia()
		tok, ok := tu.tr.next()
		if !ok {
			return nil, false, fmt.Errorf("unterminated macro parameter list")
		}
		switch {
		case tok.Kind == lexer.Ellipsis:
			tu.skipTrivia()
			if _, err := tu.tr.consume(lexer.ParenClose); err != nil {
				return nil, false, fmt.Errorf("expected ')' after '...' in macro parameter list")
			}
			return params, true, nil
		case tok.Kind == lexer.Identifier || tok.Kind == lexer.Keyword:
			for _, p := range params {
				if p == tok.Bytes {
					return nil, false, fmt.Errorf("duplicate macro parameter %q", tok.Bytes)
				}
			}
			params = append(params, tok.Bytes)
		case tok.Kind == lexer.Comma || tok.Kind == lexer.ParenClose:
			params = append(params, "")
			if tok.Kind == lexer.ParenClose {
				return params, false, nil
			}
			continue
		case tok.Kind == lexer.Newline:
			return nil, false, fmt.Errorf("expected ')' before end of line in macro parameter list")
		default:
			return nil, false, fmt.Errorf("unexpected token %q in macro parameter list", tok.Bytes)
		}

		tu.skipTrivia()
		next, ok := tu.tr.next()
		if !ok {
			return nil, false, fmt.Errorf("unterminated macro parameter list")
		}
		switch next.Kind {
		case lexer.Comma:
			continue
		case lexer.ParenClose:
			return params, false, nil
		case lexer.Newline:
			return nil, false, fmt.Errorf("expected ')' before end of line in macro parameter list")
		default:
			return nil, false, fmt.Errorf("expected ',' or ')' in macro parameter list")
		}
	}
}

func (tu *TranslationUnit) processDefine(kept bool) error {
	tu.skipTrivia()
	nameTok, ok := tu.tr.next()
	if !ok || (nameTok.Kind != lexer.Identifier && nameTok.Kind != lexer.Keyword) {
		return tu.fail(nameTok.Location, "#define expects a macro name")
	}

	isFunction := false
	var params []string
	variadic := false
	if tok, ok := tu.tr.peek(); ok && tok.Kind == lexer.ParenOpen {
		isFunction = true
		tu.tr.mustConsume(lexer.ParenOpen)
		var err error
		params, variadic, err = tu.parseParamList()
		if err != nil {
			return tu.fail(nameTok.Location, "%v", err)
		}
	}

	body := tu.collectLine()
	if !kept {
		return nil
	}
	if err := tu.Macros.Define(nameTok.Bytes, isFunction, params, variadic, body); err != nil {
		return tu.fail(nameTok.Location, "%v", err)
	}
	tu.record(DefineDirective{
		Name: nameTok.Bytes, IsFunction: isFunction, Params: params, Variadic: variadic, Body: body,
	})
	return nil
}

// substituteArgs performs positional macro-parameter substitution
// (spec.md §4.7.2, Open Question (c)): argument tokens are not themselves
// recursively macro-expanded before substitution, and the resulting body
// is not rescanned for further macro names. A variadic macro's trailing
// arguments are rejoined with commas and bound to __VA_ARGS__. A `##`
// between two body tokens pastes the last token of the left expansion
// onto the first token of the right expansion into a single new token
// (spec.md §9's "duplicate source" note on T__POUND/T__POUNDPOUND).
func substituteArgs(m macro.Macro, args [][]lexer.Token) ([]lexer.Token, error) {
	minArgs := len(m.Params)

	if m.Variadic {
		if len(args) < minArgs {
			return nil, fmt.Errorf("macro %q requires at least %d arguments, got %d", m.Name, minArgs, len(args))
		}
	} else if len(args) != minArgs {
		emptyCall := minArgs == 0 && len(args) == 1 && len(significantTokens(args[0])) == 0
		if !emptyCall {
			return nil, fmt.Errorf("macro %q expects %d arguments, got %d", m.Name, minArgs, len(args))
		}
	}

	bind := make(map[string][]lexer.Token, minArgs+1)
	for i, name := range m.Params {
		if name == "" {
			continue
		}
		if i < len(args) {
			bind[name] = args[i]
		}
	}
	if m.Variadic {
		var rest []lexer.Token
		for i := minArgs; i < len(args); i++ {
			if i > minArgs {
				rest = append(rest, lexer.Token{Kind: lexer.Comma, Bytes: ","})
			}
			rest = append(rest, args[i]...)
		}
		bind["__VA_ARGS__"] = rest
	}

	expansionOf := func(tok lexer.Token) []lexer.Token {
		if tok.Kind == lexer.Identifier || tok.Kind == lexer.Keyword {
			if repl, ok := bind[tok.Bytes]; ok {
				return repl
			}
		}
		return []lexer.Token{tok}
	}

	var out []lexer.Token
	for i := 0; i < len(m.Body); i++ {
		tok := m.Body[i]
		if tok.Kind == lexer.PoundPound {
			for len(out) > 0 && out[len(out)-1].IsTrivia() {
				out = out[:len(out)-1]
			}
			i++
			for i < len(m.Body) && m.Body[i].IsTrivia() {
				i++
			}
			if i >= len(m.Body) {
				break
			}
			right := expansionOf(m.Body[i])
			for len(right) > 0 && right[0].IsTrivia() {
				right = right[1:]
			}
			if len(out) == 0 || len(right) == 0 {
				out = append(out, right...)
				continue
			}
			left := out[len(out)-1]
			out = out[:len(out)-1]
			out = append(out, pasteTokens(left, right[0]))
			out = append(out, right[1:]...)
			continue
		}
		out = append(out, expansionOf(tok)...)
	}
	return out, nil
}

// pasteTokens implements the `##` operator for the common case of pasting
// two single tokens into one (spec.md §9 open question (a) leaves full
// rescan out of scope; this module does not attempt multi-token paste
// chains beyond adjacent single tokens).
func pasteTokens(a, b lexer.Token) lexer.Token {
	bytes := a.Bytes + b.Bytes
	return lexer.Token{Kind: classifyPastedToken(bytes), Bytes: bytes, Location: a.Location}
}

func classifyPastedToken(s string) lexer.TokenKind {
	if s == "" {
		return lexer.Identifier
	}
	isIdentStart := func(r byte) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
	isIdentPart := func(r byte) bool { return isIdentStart(r) || (r >= '0' && r <= '9') }
	isDigit := func(r byte) bool { return r >= '0' && r <= '9' }

	if isIdentStart(s[0]) {
		for i := 1; i < len(s); i++ {
			if !isIdentPart(s[i]) {
				return lexer.Op
			}
		}
		if _, ok := lexer.LookupDirective(s); ok {
			return lexer.Identifier
		}
		return lexer.Identifier
	}
	if isDigit(s[0]) {
		for i := 1; i < len(s); i++ {
			if !isIdentPart(s[i]) && s[i] != '.' {
				return lexer.Op
			}
		}
		return lexer.Integer
	}
	return lexer.Op
}

func significantTokens(toks []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, t := range toks {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
