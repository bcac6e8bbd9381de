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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
	"github.com/robertdavidgraham/regexx/internal/cc/macro"
)

var macroIdentifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefineFromStrings seeds table with the command-line-style macro
// definitions a `-D` compiler flag carries: each entry is "NAME=VALUE" or
// bare "NAME" (equivalent to "NAME=1"). Every entry is attempted even after
// a failure; all failures are reported together via errors.Join, mirroring
// the teacher's ParseMacros batch-validation shape.
func DefineFromStrings(table *macro.Table, definitions []string) error {
	var errs []error
	for _, d := range definitions {
		if err := defineOne(table, d); err != nil {
			errs = append(errs, fmt.Errorf("failed to parse %q: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

func defineOne(table *macro.Table, definition string) error {
	name, value, hasValue := strings.Cut(definition, "=")
	if !macroIdentifierRegex.MatchString(name) {
		return fmt.Errorf("invalid macro name %q", name)
	}
	if !hasValue {
		value = "1"
	}
	if _, err := parseIntLiteral(value); err != nil {
		return fmt.Errorf("invalid macro value %q: %w", value, err)
	}
	body := []lexer.Token{{Kind: lexer.Integer, Bytes: value}}
	return table.Define(name, false, nil, false, body)
}
