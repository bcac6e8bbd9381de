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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

func lexAll(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l, err := lexer.New([]byte(src))
	require.NoError(t, err)
	var toks []lexer.Token
	for tok := range l.AllTokens() {
		if tok.Kind == lexer.Newline {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestParseConditionAndEval(t *testing.T) {
	table := macro.NewTable(macro.NewSeed())
	require.NoError(t, table.Define("VERSION", false, nil, false, []lexer.Token{{Kind: lexer.Integer, Bytes: "3"}}))
	require.NoError(t, table.Define("FEATURE_X", false, nil, false, nil))

	cases := []struct {
		name string
		src  string
		want bool
	}{
		{"defined call form", "defined(FEATURE_X)", true},
		{"defined bare form", "defined FEATURE_X", true},
		{"not defined", "!defined(NOPE)", true},
		{"integer comparison", "VERSION >= 2", true},
		{"integer comparison false", "VERSION > 10", false},
		{"and", "defined(FEATURE_X) && VERSION == 3", true},
		{"or", "defined(NOPE) || VERSION == 3", true},
		{"parens", "(VERSION == 3) && !(VERSION == 4)", true},
		{"undefined identifier is zero", "UNDEF_IDENT == 0", true},
		{"plain integer", "1", true},
		{"plain zero", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := ParseCondition(lexAll(t, tc.src))
			require.NoError(t, err)
			got, err := EvalCondition(expr, table)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseConditionApplyIsAlwaysTrue(t *testing.T) {
	table := macro.NewTable(macro.NewSeed())
	expr, err := ParseCondition(lexAll(t, "__has_builtin(__builtin_add_overflow)"))
	require.NoError(t, err)
	got, err := EvalCondition(expr, table)
	require.NoError(t, err)
	require.True(t, got)
}

func TestParseConditionRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseCondition(lexAll(t, "1 1"))
	require.Error(t, err)
}

func TestParseConditionRejectsEmpty(t *testing.T) {
	_, err := ParseCondition(nil)
	require.Error(t, err)
}
