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

// Diagnostic is one preprocessor message, formatted per spec.md §6 as
// `path:line:col: message`.
type Diagnostic struct {
	Path    string
	Pos     lexer.Cursor
	Message string
	Fatal   bool
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: %s", d.Path, d.Pos, d.Message)
}

func (d Diagnostic) String() string { return d.Error() }

func newDiagnostic(path string, pos lexer.Cursor, fatal bool, format string, args ...any) Diagnostic {
	return Diagnostic{Path: path, Pos: pos, Message: fmt.Sprintf(format, args...), Fatal: fatal}
}
