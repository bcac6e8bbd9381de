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
	"strconv"
	"strings"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

// Expr is a `#if` constant expression. Eval resolves identifiers against
// table: an identifier names an object-like macro whose (normalized) body
// is a single integer literal, or is otherwise 0, mirroring standard C
// undefined-identifier-is-zero semantics (spec.md §4.7.3).
type Expr interface {
	fmt.Stringer
	Eval(table *macro.Table) (int, error)
}

type (
	// Defined is the `defined(X)` / `defined X` operator.
	Defined struct{ Name Ident }
	// Not is logical negation: !X.
	Not struct{ X Expr }
	// And is logical AND: X && Y, short-circuiting.
	And struct{ L, R Expr }
	// Or is logical OR: X || Y, short-circuiting.
	Or struct{ L, R Expr }
	// Compare is a relational comparison: A == B, A < B, and so on.
	Compare struct {
		Left  Expr
		Op    string
		Right Expr
	}
	// Apply is a macro-like function call, e.g. __has_builtin(X). This core
	// does not evaluate such calls (spec.md §9 open question); Eval always
	// reports them as satisfied.
	Apply struct {
		Name Ident
		Args []Expr
	}
	// Ident is a bare identifier appearing in a constant expression.
	Ident string
	// ConstantInt is an integer literal.
	ConstantInt int64
)

func (e Defined) String() string { return fmt.Sprintf("defined(%s)", e.Name) }
func (e Not) String() string     { return "!(" + e.X.String() + ")" }
func (e And) String() string     { return e.L.String() + " && " + e.R.String() }
func (e Or) String() string      { return e.L.String() + " || " + e.R.String() }
func (e Compare) String() string { return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right) }
func (e Apply) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}
func (e Ident) String() string       { return string(e) }
func (e ConstantInt) String() string { return strconv.FormatInt(int64(e), 10) }

// EvalCondition reports whether expr is true under table, per C's
// nonzero-is-true rule.
func EvalCondition(expr Expr, table *macro.Table) (bool, error) {
	v, err := expr.Eval(table)
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", expr, err)
	}
	return v != 0, nil
}

func (e Defined) Eval(table *macro.Table) (int, error) {
	_, ok := table.Lookup(string(e.Name))
	return boolToInt(ok), nil
}

func (e Not) Eval(table *macro.Table) (int, error) {
	v, err := e.X.Eval(table)
	if err != nil {
		return 0, err
	}
	return boolToInt(v == 0), nil
}

func (e And) Eval(table *macro.Table) (int, error) {
	l, err := e.L.Eval(table)
	if err != nil || l == 0 {
		return 0, err
	}
	r, err := e.R.Eval(table)
	if err != nil || r == 0 {
		return 0, err
	}
	return 1, nil
}

func (e Or) Eval(table *macro.Table) (int, error) {
	l, err := e.L.Eval(table)
	if err != nil {
		return 0, err
	}
	if l != 0 {
		return 1, nil
	}
	r, err := e.R.Eval(table)
	if err != nil {
		return 0, err
	}
	return boolToInt(r != 0), nil
}

func (e Compare) Eval(table *macro.Table) (int, error) {
	l, err := e.Left.Eval(table)
	if err != nil {
		return 0, err
	}
	r, err := e.Right.Eval(table)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case "==":
		return boolToInt(l == r), nil
	case "!=":
		return boolToInt(l != r), nil
	case "<":
		return boolToInt(l < r), nil
	case "<=":
		return boolToInt(l <= r), nil
	case ">":
		return boolToInt(l > r), nil
	case ">=":
		return boolToInt(l >= r), nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", e.Op)
	}
}

func (e Apply) Eval(*macro.Table) (int, error) { return 1, nil }

func (e Ident) Eval(table *macro.Table) (int, error) {
	m, ok := table.Lookup(string(e))
	if !ok || m.IsFunction {
		return 0, nil
	}
	var lit string
	for _, t := range m.Body {
		if t.IsTrivia() {
			continue
		}
		if lit != "" || t.Kind != lexer.Integer {
			return 0, nil
		}
		lit = t.Bytes
	}
	if lit == "" {
		return 0, nil
	}
	v, err := parseIntLiteral(lit)
	if err != nil {
		return 0, nil
	}
	return int(v), nil
}

func (e ConstantInt) Eval(*macro.Table) (int, error) { return int(e), nil }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseIntLiteral parses a C integer literal in decimal, octal, or hex
// form, ignoring any u/U/l/L length-or-signedness suffix.
func parseIntLiteral(s string) (int64, error) {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	return strconv.ParseInt(s, 0, 64)
}
