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

// CharClass is a set over byte values 0-255, represented as four 64-bit
// words. All operations are bitwise and total: every byte value is either a
// member or not, there is no notion of "unset".
type CharClass [4]uint64

// Add sets the bit for byte ch.
func (c *CharClass) Add(ch byte) {
	c[ch>>6] |= 1 << (ch & 63)
}

// AddRange sets the bits for the inclusive range [lo, hi].
func (c *CharClass) AddRange(lo, hi byte) {
	for b := int(lo); b <= int(hi); b++ {
		c.Add(byte(b))
	}
}

// Invert returns the bitwise complement of c.
func (c CharClass) Invert() CharClass {
	return CharClass{^c[0], ^c[1], ^c[2], ^c[3]}
}

// Union returns the bitwise OR of c and other.
func (c CharClass) Union(other CharClass) CharClass {
	return CharClass{c[0] | other[0], c[1] | other[1], c[2] | other[2], c[3] | other[3]}
}

// Contains reports whether ch is a member of c.
func (c CharClass) Contains(ch byte) bool {
	return c[ch>>6]&(1<<(ch&63)) != 0
}

// Count returns the number of member bytes.
func (c CharClass) Count() int {
	n := 0
	for _, word := range c {
		for word != 0 {
			word &= word - 1
			n++
		}
	}
	return n
}

// FirstChar returns the lowest member byte and true, or (0, false) if c is empty.
func (c CharClass) FirstChar() (byte, bool) {
	for b := 0; b < 256; b++ {
		if c.Contains(byte(b)) {
			return byte(b), true
		}
	}
	return 0, false
}

// Predefined character classes, matching spec.md §4.1.
var (
	classWhitespace = func() CharClass {
		var c CharClass
		for _, b := range []byte{' ', '\t', '\n', '\v', '\f', '\r'} {
			c.Add(b)
		}
		return c
	}()
	classWord = func() CharClass {
		var c CharClass
		c.AddRange('A', 'Z')
		c.AddRange('a', 'z')
		c.AddRange('0', '9')
		c.Add('_')
		return c
	}()
	classDigit = func() CharClass {
		var c CharClass
		c.AddRange('0', '9')
		return c
	}()
	classDotAll = CharClass{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
)

// posixClasses implements the `[:name:]` classes allowed inside `[...]`.
var posixClasses = map[string]func() CharClass{
	"alnum": func() CharClass {
		var c CharClass
		c.AddRange('A', 'Z')
		c.AddRange('a', 'z')
		c.AddRange('0', '9')
		return c
	},
	"alpha": func() CharClass {
		var c CharClass
		c.AddRange('A', 'Z')
		c.AddRange('a', 'z')
		return c
	},
	"blank": func() CharClass {
		var c CharClass
		c.Add(' ')
		c.Add('\t')
		return c
	},
	"cntrl": func() CharClass {
		var c CharClass
		c.AddRange(0, 0x1f)
		c.Add(0x7f)
		return c
	},
	"digit": func() CharClass { return classDigit },
	"graph": func() CharClass {
		var c CharClass
		c.AddRange(0x21, 0x7e)
		return c
	},
	"lower": func() CharClass {
		var c CharClass
		c.AddRange('a', 'z')
		return c
	},
	"print": func() CharClass {
		var c CharClass
		c.AddRange(0x20, 0x7e)
		return c
	},
	"punct": func() CharClass {
		var c CharClass
		for _, b := range []byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~") {
			c.Add(b)
		}
		return c
	},
	"space": func() CharClass { return classWhitespace },
	"upper": func() CharClass {
		var c CharClass
		c.AddRange('A', 'Z')
		return c
	},
	"word": func() CharClass { return classWord },
	"xdigit": func() CharClass {
		var c CharClass
		c.AddRange('0', '9')
		c.AddRange('a', 'f')
		c.AddRange('A', 'F')
		return c
	},
	"ascii": func() CharClass {
		var c CharClass
		c.AddRange(0, 0x7f)
		return c
	},
}

// recognizedEscapes is used by printCharClass to prefer a short escape over
// a raw control byte.
var recognizedEscapes = map[byte]string{
	'\t': `\t`, '\n': `\n`, '\v': `\v`, '\f': `\f`, '\r': `\r`, 0: `\0`,
}

// printCharClass renders c as a `[...]` or `[^...]` expression, whichever is
// shorter, preferring runs of length >= 3 and recognized escapes. Grounded on
// the original's `_charclass_print` (original_source/src/regexx.c).
func printCharClass(c CharClass) string {
	pos := renderCharClassBody(c, false)
	neg := renderCharClassBody(c.Invert(), true)
	if len("[^"+neg+"]") < len("["+pos+"]") {
		return "[^" + neg + "]"
	}
	return "[" + pos + "]"
}

func renderCharClassBody(c CharClass, inverted bool) string {
	var sb strings.Builder
	for b := 0; b < 256; {
		if !c.Contains(byte(b)) {
			b++
			continue
		}
		runStart := b
		for b < 256 && c.Contains(byte(b)) {
			b++
		}
		runEnd := b - 1
		if runEnd-runStart >= 2 {
			writeClassByte(&sb, byte(runStart))
			sb.WriteByte('-')
			writeClassByte(&sb, byte(runEnd))
		} else {
			for v := runStart; v <= runEnd; v++ {
				writeClassByte(&sb, byte(v))
			}
		}
	}
	_ = inverted
	return sb.String()
}

func writeClassByte(sb *strings.Builder, b byte) {
	if esc, ok := recognizedEscapes[b]; ok {
		sb.WriteString(esc)
		return
	}
	if strings.IndexByte(`\]^-`, b) >= 0 || b < 0x20 || b >= 0x7f {
		fmt.Fprintf(sb, `\x%02x`, b)
		return
	}
	sb.WriteByte(b)
}
