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

package macro

import (
	"crypto/rand"
	"encoding/binary"
)

// Seed is a SipHash key that defends a macro table against hash-flooding
// (spec.md §4.6/§5); NewSeed draws a fresh one on every call. Grounded on the
// original's `global_entropy[2]` in examples/c-preproc-macros.c, but seeded
// from crypto/rand instead of a fixed placeholder.
type Seed struct {
	k0, k1 uint64
}

// NewSeed returns a fresh random SipHash key.
func NewSeed() Seed {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; there is nothing sane to substitute, so fall back to
		// a fixed (but still non-zero) key rather than panic.
		return Seed{k0: 0x0706050403020100, k1: 0x0f0e0d0c0b0a0908}
	}
	return Seed{
		k0: binary.LittleEndian.Uint64(buf[0:8]),
		k1: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

func rotl(x uint64, b uint) uint64 {
	return (x << b) | (x >> (64 - b))
}

// hash computes SipHash-2-4 (2 compression rounds, 4 finalization rounds)
// of data, keyed by s. This is the reference algorithm published by
// Aumasson and Bernstein; no library in the retrieval pack implements it
// (see DESIGN.md), so it is hand-written against the published
// specification rather than adapted from any example source.
func (s Seed) hash(data []byte) uint64 {
	v0 := uint64(0x736f6d6570736575) ^ s.k0
	v1 := uint64(0x646f72616e646f6d) ^ s.k1
	v2 := uint64(0x6c7967656e657261) ^ s.k0
	v3 := uint64(0x7465646279746573) ^ s.k1

	round := func() {
		v0 += v1
		v1 = rotl(v1, 13)
		v1 ^= v0
		v0 = rotl(v0, 32)
		v2 += v3
		v3 = rotl(v3, 16)
		v3 ^= v2
		v0 += v3
		v3 = rotl(v3, 21)
		v3 ^= v0
		v2 += v1
		v1 = rotl(v1, 17)
		v1 ^= v2
		v2 = rotl(v2, 32)
	}

	n := len(data)
	end := n - (n % 8)
	for i := 0; i < end; i += 8 {
		m := binary.LittleEndian.Uint64(data[i : i+8])
		v3 ^= m
		round()
		round()
		v0 ^= m
	}

	var last [8]byte
	copy(last[:], data[end:])
	last[7] = byte(n)
	m := binary.LittleEndian.Uint64(last[:])
	v3 ^= m
	round()
	round()
	v0 ^= m

	v2 ^= 0xff
	round()
	round()
	round()
	round()

	return v0 ^ v1 ^ v2 ^ v3
}
