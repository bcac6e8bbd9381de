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

// Package macro implements the preprocessor's macro table: a SipHash-2-4
// keyed hashmap from macro name to definition, with the whitespace
// normalization and structural-equality redefinition rule of spec.md §4.6.
package macro

import (
	"errors"
	"fmt"

	"github.com/robertdavidgraham/regexx/internal/cc/lexer"
)

// ErrRedefinition is returned by Table.Define when name already names a
// macro whose parameters or body differ from the one being defined.
var ErrRedefinition = errors.New("macro redefinition")

// Macro is one #define entry: an object-like macro has IsFunction false and
// an empty Params/Variadic; a function-like macro carries its formal
// parameter names and whether the last parameter is `...`.
type Macro struct {
	Name       string
	IsFunction bool
	Params     []string
	Variadic   bool
	Body       []lexer.Token
}

// equal reports whether m and other would satisfy spec.md §4.6's
// "structurally equal" redefinition rule: same kind, same parameter list,
// same (already-normalized) body token-by-token via Token.Equal.
func (m Macro) equal(other Macro) bool {
	if m.IsFunction != other.IsFunction || m.Variadic != other.Variadic {
		return false
	}
	if len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	if len(m.Body) != len(other.Body) {
		return false
	}
	for i := range m.Body {
		if !m.Body[i].Equal(other.Body[i]) {
			return false
		}
	}
	return true
}

type entry struct {
	name  string
	hash  uint64
	macro Macro
	next  *entry
}

// Table is the macro hashmap: buckets sized as a power of two, grown at a
// 0.75 load factor, keyed by a SipHash-2-4 of the macro's name bytes.
// Grounded on the original's util-hashmap.c (bucket/chain shape, Doug Lea
// secondary mix, `expandIfNecessary`'s 0.75 threshold).
type Table struct {
	seed    Seed
	buckets []*entry
	size    int
}

const initialBucketCount = 16

// NewTable returns an empty macro table using seed for its name hash.
func NewTable(seed Seed) *Table {
	return &Table{seed: seed, buckets: make([]*entry, initialBucketCount)}
}

// secondaryMix applies the Doug Lea bit-spreading step the original
// hashmap uses to defend against clustered low-entropy hashes.
func secondaryMix(h uint64) uint64 {
	h += ^(h << 9)
	h ^= h >> 14
	h += h << 4
	h ^= h >> 10
	return h
}

func (t *Table) indexOf(hash uint64) int {
	return int(hash) & (len(t.buckets) - 1)
}

func (t *Table) hashName(name string) uint64 {
	return secondaryMix(t.seed.hash([]byte(name)))
}

func (t *Table) growIfNeeded() {
	if t.size <= len(t.buckets)*3/4 {
		return
	}
	newBuckets := make([]*entry, len(t.buckets)*2)
	for _, head := range t.buckets {
		for e := head; e != nil; {
			next := e.next
			idx := int(e.hash) & (len(newBuckets) - 1)
			e.next = newBuckets[idx]
			newBuckets[idx] = e
			e = next
		}
	}
	t.buckets = newBuckets
}

// Lookup returns the macro named name, if defined.
func (t *Table) Lookup(name string) (Macro, bool) {
	hash := t.hashName(name)
	for e := t.buckets[t.indexOf(hash)]; e != nil; e = e.next {
		if e.hash == hash && e.name == name {
			return e.macro, true
		}
	}
	return Macro{}, false
}

// Undef removes name from the table. It is not an error for name to be
// absent (spec.md §4.7).
func (t *Table) Undef(name string) {
	hash := t.hashName(name)
	idx := t.indexOf(hash)
	p := &t.buckets[idx]
	for e := *p; e != nil; e = *p {
		if e.hash == hash && e.name == name {
			*p = e.next
			t.size--
			return
		}
		p = &e.next
	}
}

// Define normalizes body, then defines name (spec.md §4.6):
//   - if name is undefined, the macro is recorded;
//   - if name is already defined identically (after normalization), this
//     is a silent no-op success;
//   - if name is already defined differently, it returns ErrRedefinition.
func (t *Table) Define(name string, isFunction bool, params []string, variadic bool, body []lexer.Token) error {
	next := Macro{
		Name:       name,
		IsFunction: isFunction,
		Params:     params,
		Variadic:   variadic,
		Body:       NormalizeBody(body),
	}

	hash := t.hashName(name)
	idx := t.indexOf(hash)
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.hash == hash && e.name == name {
			if e.macro.equal(next) {
				return nil
			}
			return fmt.Errorf("%w: %s", ErrRedefinition, name)
		}
	}

	t.buckets[idx] = &entry{name: name, hash: hash, macro: next, next: t.buckets[idx]}
	t.size++
	t.growIfNeeded()
	return nil
}

// NormalizeBody implements spec.md §4.6 step 1: strip leading and trailing
// whitespace/comment tokens, then collapse every internal run of
// whitespace/comment tokens to a single synthetic whitespace token whose
// bytes are exactly " ".
func NormalizeBody(body []lexer.Token) []lexer.Token {
	start := 0
	for start < len(body) && body[start].IsTrivia() {
		start++
	}
	end := len(body)
	for end > start && body[end-1].IsTrivia() {
		end--
	}
	body = body[start:end]

	out := make([]lexer.Token, 0, len(body))
	i := 0
	for i < len(body) {
		if !body[i].IsTrivia() {
			out = append(out, body[i])
			i++
			continue
		}
		loc := body[i].Location
		for i < len(body) && body[i].IsTrivia() {
			i++
		}
		out = append(out, lexer.Token{Kind: lexer.Whitespace, Bytes: " ", Location: loc})
	}
	return out
}
