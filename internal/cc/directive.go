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
)

type (
	// Directive is one recognized `#`-directive of a translation unit.
	Directive interface {
		fmt.Stringer
	}

	// IncludeDirective is `#include <path>` or `#include "path"`.
	IncludeDirective struct {
		Path     string
		IsSystem bool
	}

	// DefineDirective is `#define NAME(params...) body` (or, for an
	// object-like macro, Params is nil and IsFunction is false).
	DefineDirective struct {
		Name       string
		IsFunction bool
		Params     []string
		Variadic   bool
		Body       []lexer.Token
	}

	// UndefineDirective is `#undef NAME`.
	UndefineDirective struct {
		Name string
	}

	// IfBlock is a complete #if/.../#endif conditional group.
	IfBlock struct {
		Branches []ConditionalBranch
	}

	// ConditionalBranch is one #if, #elif, or #else arm. Condition is nil
	// for #else.
	ConditionalBranch struct {
		Kind      BranchKind
		Condition Expr
		Body      []Directive
	}

	// BranchKind identifies which arm of a conditional block a branch is.
	BranchKind int
)

const (
	IfBranch BranchKind = iota
	ElifBranch
	ElseBranch
)

func (d IncludeDirective) String() string {
	if d.IsSystem {
		return fmt.Sprintf("#include <%s>", d.Path)
	}
	return fmt.Sprintf("#include %q", d.Path)
}

func (d DefineDirective) String() string {
	var body strings.Builder
	for _, t := range d.Body {
		body.WriteString(t.Bytes)
	}
	if !d.IsFunction {
		return fmt.Sprintf("#define %s %s", d.Name, body.String())
	}
	params := strings.Join(d.Params, ", ")
	if d.Variadic {
		if params != "" {
			params += ", "
		}
		params += "..."
	}
	return fmt.Sprintf("#define %s(%s) %s", d.Name, params, body.String())
}

func (d UndefineDirective) String() string { return fmt.Sprintf("#undef %s", d.Name) }

func (d IfBlock) String() string {
	var out strings.Builder
	for _, br := range d.Branches {
		out.WriteString(br.String())
	}
	out.WriteString("#endif\n")
	return out.String()
}

func (b ConditionalBranch) String() string {
	var prefix string
	switch b.Kind {
	case IfBranch:
		prefix = "#if"
	case ElifBranch:
		prefix = "#elif"
	case ElseBranch:
		prefix = "#else"
	}
	var cond string
	if b.Condition != nil {
		cond = " " + b.Condition.String()
	}
	var body strings.Builder
	for _, d := range b.Body {
		body.WriteString(d.String())
		body.WriteByte('\n')
	}
	return fmt.Sprintf("%s%s\n%s", prefix, cond, body.String())
}
