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

// condPrecedence orders `#if` operators for Pratt (precedence-climbing)
// parsing, from loosest- to tightest-binding.
type condPrecedence int

const (
	precLowest condPrecedence = iota
	precOr                    // ||
	precAnd                   // &&
	precCompare               // == != < <= > >=
	precUnary                 // ! (prefix)
)

// condParser parses a `#if` constant expression from a trivia-free token
// slice. Grounded on the teacher's Pratt-parsing shape in
// `parser/parser.go` (parseExprPrecedence / exprKeywordsPrecedence),
// generalized from its bespoke string tokenizer to `lexer.Token`.
type condParser struct {
	tokens []lexer.Token
	pos    int
}

// ParseCondition parses the token sequence between `#if`/`#elif` and the
// terminating Newline (the Newline itself excluded) into an Expr.
func ParseCondition(tokens []lexer.Token) (Expr, error) {
	var trimmed []lexer.Token
	for _, t := range tokens {
		if !t.IsTrivia() {
			trimmed = append(trimmed, t)
		}
	}
	p := &condParser{tokens: trimmed}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("empty #if condition")
	}
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("unexpected token %q in #if condition", p.tokens[p.pos].Bytes)
	}
	return expr, nil
}

func (p *condParser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *condParser) next() (lexer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *condParser) expect(kind lexer.TokenKind, bytes string) error {
	tok, ok := p.next()
	if !ok || tok.Kind != kind || (bytes != "" && tok.Bytes != bytes) {
		return fmt.Errorf("expected %q in #if condition", bytes)
	}
	return nil
}

// infixRule returns this token's binary-operator precedence, if any.
func infixRule(tok lexer.Token) (condPrecedence, bool) {
	if tok.Kind != lexer.Op {
		return 0, false
	}
	switch tok.Bytes {
	case "||":
		return precOr, true
	case "&&":
		return precAnd, true
	case "==", "!=", "<", "<=", ">", ">=":
		return precCompare, true
	default:
		return 0, false
	}
}

func (p *condParser) parseExpr(minPrec condPrecedence) (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return left, nil
		}
		prec, isOp := infixRule(tok)
		if !isOp || prec < minPrec {
			return left, nil
		}
		p.pos++
		left, err = p.parseInfix(tok, left, prec)
		if err != nil {
			return nil, err
		}
	}
}

func (p *condParser) parseInfix(op lexer.Token, left Expr, prec condPrecedence) (Expr, error) {
	switch op.Bytes {
	case "||":
		right, err := p.parseExpr(precOr + 1)
		if err != nil {
			return nil, err
		}
		return Or{L: left, R: right}, nil
	case "&&":
		right, err := p.parseExpr(precAnd + 1)
		if err != nil {
			return nil, err
		}
		return And{L: left, R: right}, nil
	default:
		right, err := p.parseExpr(precCompare + 1)
		if err != nil {
			return nil, err
		}
		return Compare{Left: left, Op: op.Bytes, Right: right}, nil
	}
}

func (p *condParser) parsePrefix() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("unexpected end of #if condition")
	}
	switch {
	case tok.Kind == lexer.Op && tok.Bytes == "!":
		inner, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return Not{X: inner}, nil
	case tok.Kind == lexer.ParenOpen:
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.ParenClose, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tok.Kind == lexer.Identifier && tok.Bytes == "defined":
		return p.parseDefined()
	case tok.Kind == lexer.Identifier || tok.Kind == lexer.Keyword:
		return p.parseIdentOrApply(tok)
	case tok.Kind == lexer.Integer:
		v, err := parseIntLiteral(tok.Bytes)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %q in #if condition: %w", tok.Bytes, err)
		}
		return ConstantInt(v), nil
	default:
		return nil, fmt.Errorf("unexpected token %q in #if condition", tok.Bytes)
	}
}

func (p *condParser) parseDefined() (Expr, error) {
	if tok, ok := p.peek(); ok && tok.Kind == lexer.ParenOpen {
		p.pos++
		name, ok := p.next()
		if !ok || (name.Kind != lexer.Identifier && name.Kind != lexer.Keyword) {
			return nil, fmt.Errorf("expected identifier after 'defined('")
		}
		if err := p.expect(lexer.ParenClose, ")"); err != nil {
			return nil, err
		}
		return Defined{Name: Ident(name.Bytes)}, nil
	}
	name, ok := p.next()
	if !ok || (name.Kind != lexer.Identifier && name.Kind != lexer.Keyword) {
		return nil, fmt.Errorf("expected identifier after 'defined'")
	}
	return Defined{Name: Ident(name.Bytes)}, nil
}

func (p *condParser) parseIdentOrApply(tok lexer.Token) (Expr, error) {
	name := Ident(tok.Bytes)
	next, ok := p.peek()
	if !ok || next.Kind != lexer.ParenOpen {
		return name, nil
	}
	p.pos++
	var args []Expr
	if tok, ok := p.peek(); !ok || tok.Kind != lexer.ParenClose {
		for {
			arg, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			tok, ok := p.next()
			if !ok {
				return nil, fmt.Errorf("unterminated argument list for %s(...)", name)
			}
			if tok.Kind == lexer.ParenClose {
				return Apply{Name: name, Args: args}, nil
			}
			if tok.Kind != lexer.Comma {
				return nil, fmt.Errorf("expected ',' or ')' in %s(...)", name)
			}
		}
	}
	p.pos++
	return Apply{Name: name, Args: args}, nil
}
