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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sabouaram/perfcore/corelist"
)

const (
	// DefaultMaxTabSize bounds how far the bucket count may double.
	DefaultMaxTabSize = 1 << 20
	// DefaultLoadFactor is the live-entries-per-bucket ceiling that triggers a
	// doubling attempt.
	DefaultLoadFactor = 4
	initialTabSize    = 2
)

// entryKey is the split-ordered sort key carried by every corelist node a
// Table owns: both real entries and bucket sentinels live as nodes in the
// same underlying list, ordered first by sortVal (a key's reversed hash, or
// a bucket's reversed index), then dummy-before-real on a tie, then by true
// key equality. No raw node address ever needs to leave corelist for this
// to work.
type entryKey[K comparable] struct {
	sortVal uint64
	dummy   bool
	key     K
}

// compareEntryKey orders two entryKeys for use as corelist.Compare. Ties on
// sortVal between two dummy sentinels only happen for the same bucket (each
// bucket contributes exactly one) and compare equal; ties between a real
// entry and a dummy sentinel put the sentinel first, matching the
// split-ordered invariant that a bucket's marker always precedes the real
// entries that hash into it. Ties between two distinct real keys are an
// astronomically rare hash collision on the full 64-bit split key; they are
// broken on a string rendering of the key so both entries can still coexist
// instead of being treated as duplicates of one another.
func compareEntryKey[K comparable](a, b entryKey[K]) int {
	if a.sortVal != b.sortVal {
		if a.sortVal < b.sortVal {
			return -1
		}
		return 1
	}
	if a.dummy != b.dummy {
		if a.dummy {
			return -1
		}
		return 1
	}
	if a.dummy {
		return 0
	}
	if a.key == b.key {
		return 0
	}
	as, bs := fmt.Sprintf("%v", a.key), fmt.Sprintf("%v", b.key)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// Table is an extensible hash table keyed by K, implemented as a
// split-ordered corelist.List: every real entry and every bucket sentinel
// is its own list node, so Insert/Find/Delete never lock the list and never
// linearly scan the whole list — each walks from the nearest already
// materialized bucket sentinel instead of the list head. Find and Delete
// take no lock at all. Insert is not lock-free: every call takes bucketMu
// for a moment to make sure the bucket-cursor array covers the key's bucket.
type Table[K comparable, V any] struct {
	list       *corelist.List[entryKey[K], V]
	hasher     atomic.Pointer[Hasher[K]]
	destroyKey func(K)
	destroyVal func(V)

	tabSize    atomic.Uint64
	maxTabSize uint64
	loadFactor uint64
	size       atomic.Int64

	bucketMu sync.Mutex // guards lazy bucket-array growth only, not the list
	buckets  []atomic.Pointer[corelist.Cursor[entryKey[K], V]]
}

// New creates an empty table with the default hasher, load factor and max bucket
// count.
func New[K comparable, V any]() *Table[K, V] {
	t := &Table[K, V]{
		list:       corelist.New[entryKey[K], V](compareEntryKey[K]),
		maxTabSize: DefaultMaxTabSize,
		loadFactor: DefaultLoadFactor,
		buckets:    make([]atomic.Pointer[corelist.Cursor[entryKey[K], V]], initialTabSize),
	}
	t.tabSize.Store(initialTabSize)
	h := DefaultHasher[K]()
	t.hasher.Store(&h)
	head := corelist.Cursor[entryKey[K], V]{}
	t.buckets[0].Store(&head) // bucket 0 anchors at the list head, never removed
	return t
}

// SetHasher installs a custom hash function, replacing the default.
func (t *Table[K, V]) SetHasher(h Hasher[K]) {
	t.hasher.Store(&h)
}

// SetDestructors installs optional destructors invoked by Delete. GC does not
// call them.
func (t *Table[K, V]) SetDestructors(key func(K), val func(V)) {
	t.destroyKey = key
	t.destroyVal = val
}

func (t *Table[K, V]) hash(key K) uint64 {
	h := t.hasher.Load()
	return (*h)(key)
}

// TabSize returns the current bucket count, always a power of two.
func (t *Table[K, V]) TabSize() uint64 { return t.tabSize.Load() }

// Size returns the number of live key/value pairs.
func (t *Table[K, V]) Size() int { return int(t.size.Load()) }

func (t *Table[K, V]) parentBucket(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	// clear the most significant set bit
	msb := uint64(1)
	for msb<<1 <= i {
		msb <<= 1
	}
	return i &^ msb
}

func (t *Table[K, V]) ensureBucketArray(size uint64) {
	t.bucketMu.Lock()
	defer t.bucketMu.Unlock()
	if uint64(len(t.buckets)) >= size {
		return
	}
	grown := make([]atomic.Pointer[corelist.Cursor[entryKey[K], V]], size)
	for i := range t.buckets {
		if c := t.buckets[i].Load(); c != nil {
			grown[i].Store(c)
		}
	}
	t.buckets = grown
}

// bucketAnchor returns the best anchor available for bucket i without
// initializing anything: the bucket's own cursor if it has already been
// materialized, otherwise its nearest initialized ancestor's. Find and
// Delete use this so a lookup for a not-yet-resized bucket still starts
// well past the list head instead of falling back to a full scan.
func (t *Table[K, V]) bucketAnchor(i uint64) corelist.Cursor[entryKey[K], V] {
	for {
		if uint64(len(t.buckets)) > i {
			if c := t.buckets[i].Load(); c != nil {
				return *c
			}
		}
		if i == 0 {
			return corelist.Cursor[entryKey[K], V]{}
		}
		i = t.parentBucket(i)
	}
}

// initializeBucket lazily inserts bucket i's dummy sentinel as a real list
// node, recursively initializing parent buckets first so the sentinel chain
// from the head down to i is complete, then returns a Cursor anchored at
// the new sentinel so callers resume searches there instead of at the list
// head.
func (t *Table[K, V]) initializeBucket(i uint64) corelist.Cursor[entryKey[K], V] {
	t.ensureBucketArray(i + 1)

	if c := t.buckets[i].Load(); c != nil {
		return *c
	}
	if i == 0 {
		head := corelist.Cursor[entryKey[K], V]{}
		t.buckets[0].Store(&head)
		return head
	}

	parentAnchor := t.initializeBucket(t.parentBucket(i))

	dk := entryKey[K]{sortVal: splitKeyForBucket(i), dummy: true}
	var zero V
	// idempotent: losing this race just means another goroutine's dummy
	// sentinel is already in place under the same split-ordered key.
	t.list.InsertFrom(parentAnchor, dk, zero)

	anchor := t.list.AnchorFrom(parentAnchor, dk)
	t.buckets[i].Store(&anchor)
	return anchor
}

// Insert adds value under key. Returns false if key is already present.
func (t *Table[K, V]) Insert(key K, value V) bool {
	h := t.hash(key)
	bucket := h & (t.tabSize.Load() - 1)
	anchor := t.initializeBucket(bucket)

	ek := entryKey[K]{sortVal: splitKeyForHash(h), key: key}
	if !t.list.InsertFrom(anchor, ek, value) {
		return false
	}
	t.size.Add(1)
	t.maybeResize()
	return true
}

// Find returns the value for key, or zero/false if absent.
func (t *Table[K, V]) Find(key K) (value V, ok bool) {
	h := t.hash(key)
	bucket := h & (t.tabSize.Load() - 1)
	anchor := t.bucketAnchor(bucket)

	ek := entryKey[K]{sortVal: splitKeyForHash(h), key: key}
	return t.list.FindFrom(anchor, ek)
}

// Delete removes key. Returns false if absent.
func (t *Table[K, V]) Delete(key K) bool {
	h := t.hash(key)
	bucket := h & (t.tabSize.Load() - 1)
	anchor := t.bucketAnchor(bucket)
	ek := entryKey[K]{sortVal: splitKeyForHash(h), key: key}

	value, found := t.list.FindFrom(anchor, ek)
	if !found {
		return false
	}
	if !t.list.DeleteFrom(anchor, ek) {
		return false
	}

	t.size.Add(-1)
	if t.destroyKey != nil {
		t.destroyKey(key)
	}
	if t.destroyVal != nil {
		t.destroyVal(value)
	}
	return true
}

func (t *Table[K, V]) maybeResize() {
	cur := t.tabSize.Load()
	if cur*2 > t.maxTabSize {
		return
	}
	if uint64(t.size.Load())/cur <= t.loadFactor {
		return
	}
	t.tabSize.CompareAndSwap(cur, cur*2) // losers do nothing; next insert retries
}

// Pair is an iteration result.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Iterate returns every live pair in split-ordered list order, then terminates.
func (t *Table[K, V]) Iterate() []Pair[K, V] {
	res := make([]Pair[K, V], 0, t.Size())
	it := t.list.Head()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if k.dummy {
			continue // bucket sentinel
		}
		res = append(res, Pair[K, V]{Key: k.key, Value: v})
	}
	return res
}

// RingIterator treats the live entry positions as a ring, wrapping from the last
// back to the first and skipping bucket sentinels; unlike Iterate it never
// terminates on its own — callers stop after Next has been called once per pair
// of the snapshot Ring took, or once they recognize a previously seen key.
type RingIterator[K comparable, V any] struct {
	t    *Table[K, V]
	pair []Pair[K, V]
	pos  int
}

// Next advances the ring and returns the next live pair.
func (r *RingIterator[K, V]) Next() (Pair[K, V], bool) {
	if len(r.pair) == 0 {
		return Pair[K, V]{}, false
	}
	p := r.pair[r.pos%len(r.pair)]
	r.pos++
	return p, true
}

// Ring builds a ring iterator over a snapshot of the currently live pairs.
func (t *Table[K, V]) Ring() *RingIterator[K, V] {
	return &RingIterator[K, V]{t: t, pair: t.Iterate()}
}

// Snapshot is an alias of Iterate kept for API symmetry with corelist.List.
func (t *Table[K, V]) Snapshot() []Pair[K, V] { return t.Iterate() }

// GC reclaims memory for any tombstoned entries (real or bucket sentinel)
// left behind by Delete. Destructors already ran at Delete time, so GC
// passes no destroy callback of its own. The caller must guarantee no
// concurrent readers or writers, exactly as corelist.List.GC requires.
func (t *Table[K, V]) GC() {
	t.list.GC(nil)
}
