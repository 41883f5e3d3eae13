/*
 * MIT License
 *
 * Copyright (c) 2026 perfcore authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package cpuset is an opaque CPU affinity bit-set, convertible to/from hex
// strings, wrapping github.com/bits-and-blooms/bitset the way the rest of this
// module leans on that dependency for bit-vector work rather than hand-rolling
// one.
package cpuset

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Set is an opaque CPU affinity mask.
type Set struct {
	b *bitset.BitSet
}

// New returns an empty set sized to hold at least n bits.
func New(n uint) *Set {
	return &Set{b: bitset.New(n)}
}

// All returns a set with every CPU in [0, count) marked present.
func All(count int) *Set {
	s := New(uint(count))
	for i := 0; i < count; i++ {
		s.Set(i, true)
	}
	return s
}

// Set marks cpu present or absent.
func (s *Set) Set(cpu int, present bool) {
	if present {
		s.b.Set(uint(cpu))
	} else {
		s.b.Clear(uint(cpu))
	}
}

// IsSet reports whether cpu is present in the set.
func (s *Set) IsSet(cpu int) bool {
	return s.b.Test(uint(cpu))
}

// Count returns the number of CPUs present in the set.
func (s *Set) Count() int {
	return int(s.b.Count())
}

// First returns the lowest-numbered CPU present, and false if the set is empty.
func (s *Set) First() (cpu int, ok bool) {
	c, okk := s.b.NextSet(0)
	return int(c), okk
}

// Next returns the first CPU present that is strictly greater than after, and
// false once there is none.
func (s *Set) Next(after int) (cpu int, ok bool) {
	c, okk := s.b.NextSet(uint(after + 1))
	return int(c), okk
}

// Intersect returns a new set containing only CPUs present in both s and other —
// used at startup to clamp a configured affinity mask to the online CPU set.
func (s *Set) Intersect(other *Set) *Set {
	return &Set{b: s.b.Intersection(other.b)}
}

// FromString parses a cpuset from a hex string ("0xff00ff") or a plain decimal
// integer, matching the source's op_cpuset_from_string. Each hex nibble maps to
// four consecutive low-to-high bits, least significant nibble first.
func FromString(str string) (*Set, error) {
	str = strings.TrimSpace(str)

	var (
		digits string
		base   int
	)

	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		digits = str[2:]
		base = 16
	} else {
		digits = str
		base = 10
	}

	if digits == "" {
		return nil, fmt.Errorf("cpuset: empty value")
	}

	if base == 10 {
		var v uint64
		if _, err := fmt.Sscanf(digits, "%d", &v); err != nil {
			return nil, fmt.Errorf("cpuset: invalid decimal value %q: %w", str, err)
		}
		s := New(64)
		for i := 0; i < 64; i++ {
			if v&(1<<uint(i)) != 0 {
				s.Set(i, true)
			}
		}
		return s, nil
	}

	bitsPerNibble := uint(4)
	s := New(uint(len(digits)) * bitsPerNibble)

	// least significant nibble is the last character of the hex string
	for i := 0; i < len(digits); i++ {
		c := digits[len(digits)-1-i]
		nibble, err := hexNibble(c)
		if err != nil {
			return nil, fmt.Errorf("cpuset: invalid hex value %q: %w", str, err)
		}
		off := uint(i) * bitsPerNibble
		for b := uint(0); b < bitsPerNibble; b++ {
			if nibble&(1<<b) != 0 {
				s.Set(int(off+b), true)
			}
		}
	}

	return s, nil
}

func hexNibble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}

// String renders the set back to a "0x..."-prefixed hex string with the minimum
// number of nibbles needed to represent its highest set bit, the inverse of
// FromString on the bits that fit in that representation.
func (s *Set) String() string {
	highest, ok := s.highestSetBit()
	if !ok {
		return "0x0"
	}

	nibbles := highest/4 + 1
	var sb strings.Builder
	sb.WriteString("0x")

	for i := nibbles - 1; i >= 0; i-- {
		var nibble uint8
		for b := uint(0); b < 4; b++ {
			bit := uint(i)*4 + b
			if s.b.Test(bit) {
				nibble |= 1 << b
			}
		}
		sb.WriteByte(nibbleChar(nibble))
	}

	return sb.String()
}

func (s *Set) highestSetBit() (int, bool) {
	highest := -1
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		highest = int(i)
	}
	if highest < 0 {
		return 0, false
	}
	return highest, true
}

func nibbleChar(n uint8) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + (n - 10)
}
