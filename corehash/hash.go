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

package corehash

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Hasher maps a key to a 64-bit hash. Set a custom one with Table.SetHasher;
// DefaultHasher is used otherwise.
type Hasher[K any] func(key K) uint64

// murmur3Finalizer64 is the MurmurHash3 64-bit finalizer mix, applied to whatever
// raw 64-bit hash a key reduces to. The source uses this finalizer directly on a
// key pointer; Go keys aren't addresses, so DefaultHasher first folds the key to
// 64 bits with FNV-1a and then runs it through this same finalizer.
func murmur3Finalizer64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// DefaultHasher builds a Hasher for any key type by FNV-1a hashing the key
// (strings and byte slices by their bytes, uint64 and int by their
// little-endian bytes, any other type by its fmt representation) and
// finalizing with the MurmurHash3 mix. Callers with a
// performance-sensitive key type (integers, fixed-size byte arrays) should supply
// a dedicated Hasher via SetHasher instead.
func DefaultHasher[K any]() Hasher[K] {
	return func(key K) uint64 {
		h := fnv.New64a()
		switch v := any(key).(type) {
		case string:
			_, _ = h.Write([]byte(v))
		case []byte:
			_, _ = h.Write(v)
		case uint64:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], v)
			_, _ = h.Write(buf[:])
		case int:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			_, _ = h.Write(buf[:])
		default:
			_, _ = fmt.Fprintf(h, "%v", v)
		}
		return murmur3Finalizer64(h.Sum64())
	}
}

func reverseBits64(x uint64) uint64 {
	var r uint64
	for i := 0; i < 64; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

const topBit = uint64(1) << 63

func splitKeyForHash(h uint64) uint64 {
	return reverseBits64(h | topBit)
}

func splitKeyForBucket(i uint64) uint64 {
	return reverseBits64(i)
}
