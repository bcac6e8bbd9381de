// Copyright 2025 EngFlow Inc. All rights reserved.
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

package regexx

import (
	"fmt"
	"strings"
)

// printChain renders the chain headed at idx back to regex syntax.
// Grounded on `regexx_print` / `_node_print_chars`
// (original_source/src/regexx.c).
func printChain(a *arena, idx int) string {
	var sb strings.Builder
	printNode(a, idx, &sb)
	return sb.String()
}

func printNode(a *arena, idx int, sb *strings.Builder) {
	n := a.at(idx)
	switch n.kind {
	case nodeTrue:
		return
	case nodeRoot:
		printNode(a, n.next, sb)
		return
	case nodeAnchorBegin:
		sb.WriteByte('^')
	case nodeAnchorEnd:
		sb.WriteByte('$')
	case nodeDotAll, nodeDotNoNewline:
		sb.WriteByte('.')
	case nodeLiteral:
		printLiteralChars(n.literal[:n.literalLen], sb)
	case nodeCharClass:
		sb.WriteString(printCharClass(n.class))
	case nodeGroup:
		sb.WriteByte('(')
		switch {
		case n.groupIsLookahead && n.groupIsInverted:
			sb.WriteString("?!")
		case n.groupIsLookahead:
			sb.WriteString("?=")
		case n.groupIsNonCapture:
			sb.WriteString("?:")
		}
		printNode(a, n.groupChild, sb)
		sb.WriteByte(')')
	case nodeAlternation:
		printNode(a, n.altChild, sb)
		sb.WriteByte('|')
		printNode(a, n.next, sb)
		return
	case nodeQuantifier:
		printNode(a, n.quantChild, sb)
		sb.WriteString(quantifierSuffix(n))
	}
	printNode(a, n.next, sb)
}

func quantifierSuffix(n *node) string {
	var base string
	switch {
	case n.quantMin == 0 && n.quantMax == unbounded:
		base = "*"
	case n.quantMin == 1 && n.quantMax == unbounded:
		base = "+"
	case n.quantMin == 0 && n.quantMax == 1:
		base = "?"
	case n.quantMax == unbounded:
		base = fmt.Sprintf("{%d,}", n.quantMin)
	case n.quantMin == n.quantMax:
		base = fmt.Sprintf("{%d}", n.quantMin)
	default:
		base = fmt.Sprintf("{%d,%d}", n.quantMin, n.quantMax)
	}
	if n.quantLazy {
		base += "?"
	}
	return base
}

// printLiteralChars escapes regex metacharacters and recognized control
// characters, preferring the short form (`\t`) over `\xHH`.
func printLiteralChars(b []byte, sb *strings.Builder) {
	const metaChars = `.^$*+?()[{}\|`
	for _, c := range b {
		if strings.IndexByte(metaChars, c) >= 0 {
			sb.WriteByte('\\')
			sb.WriteByte(c)
			continue
		}
		switch c {
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
}
