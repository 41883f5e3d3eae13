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

package corelist

import (
	"sync/atomic"
)

// Compare is a strict weak ordering over keys: negative if a < b, zero if equal,
// positive if a > b. Duplicate keys are rejected by Insert; the first one wins.
type Compare[K any] func(a, b K) int

// node is a single list entry. The tombstone flag and the monotonic version are
// separate atomic fields; the successor pointer is swapped independently via
// atomic.Pointer.CompareAndSwap. In the original C implementation all three fields
// had to move together under one 128-bit CAS to stay ABA-safe against reused
// allocations; here no allocation is ever reused while a goroutine still holds a
// live reference to it (the Go runtime cannot collect an object a live local
// variable points to), so pointer-identity CAS on next is already ABA-safe and the
// version counter is kept purely for parity with the data structure's observable
// iteration semantics
// (see DESIGN.md, "ABA and reclamation").
type node[K any, V any] struct {
	key     K
	value   V
	version atomic.Uint64
	tomb    atomic.Bool
	next    atomic.Pointer[node[K, V]]
}

// List is a lock-free sorted singly linked list keyed by K.
type List[K any, V any] struct {
	head    node[K, V] // sentinel, never removed, never carries a value
	cmp     Compare[K]
	length  atomic.Int64 // live entries
	free    atomic.Int64 // tombstoned entries awaiting reclamation
	freeTop atomic.Pointer[freeNode[K, V]]
}

type freeNode[K any, V any] struct {
	n    *node[K, V]
	next *freeNode[K, V]
}

// New creates an empty list ordered by cmp. cmp must implement a strict weak
// ordering; passing a non-deterministic or inconsistent comparator is undefined
// behavior exactly as in the source specification.
func New[K any, V any](cmp Compare[K]) *List[K, V] {
	return &List[K, V]{cmp: cmp}
}

// Len returns the number of live (non-tombstoned) entries.
func (l *List[K, V]) Len() int {
	return int(l.length.Load())
}

// FreeLen returns the number of tombstoned entries not yet physically reclaimed.
func (l *List[K, V]) FreeLen() int {
	return int(l.free.Load())
}

// Cursor anchors a lookup at some previously-found node instead of the list
// head, letting a caller that already knows it is searching for a key past
// a given point skip re-walking the prefix it has already passed. The zero
// Cursor anchors at the head, identical to an unanchored search.
type Cursor[K any, V any] struct {
	at *node[K, V]
}

// Anchor returns a Cursor positioned at the predecessor of key, for reuse by
// later FindFrom/InsertFrom/DeleteFrom calls that search for keys >= key.
// The returned cursor is a point-in-time snapshot: concurrent deletes of the
// anchor node do not invalidate it (findPrevForKeyFrom tolerates a
// tombstoned or since-unlinked start node by falling back to the head), but
// callers chasing maximum benefit from anchoring should re-Anchor
// periodically rather than hold one indefinitely.
func (l *List[K, V]) Anchor(at K) Cursor[K, V] {
	return l.AnchorFrom(Cursor[K, V]{}, at)
}

// AnchorFrom behaves like Anchor but resumes the search from c instead of
// the list head, for a caller that already knows the predecessor of at lies
// past some previously found point.
func (l *List[K, V]) AnchorFrom(c Cursor[K, V], at K) Cursor[K, V] {
	start := c.at
	if start == nil {
		start = &l.head
	}
	pred, _ := l.findPrevForKeyFrom(start, at)
	return Cursor[K, V]{at: pred}
}

// findPrevForKey walks from the head looking for the first node whose key is >=
// key, physically unlinking any tombstoned node it passes over. It returns the
// last untombstoned node with key < key (the insertion predecessor) and the first
// node with key >= key (nil if none). A lost CAS race on unlinking restarts the
// walk from the head, matching the source's find_prev_for retry contract.
func (l *List[K, V]) findPrevForKey(key K) (pred, curr *node[K, V]) {
	return l.findPrevForKeyFrom(&l.head, key)
}

// findPrevForKeyFrom behaves like findPrevForKey but starts the walk at
// start instead of the list head, so a caller holding a Cursor anchored
// past the head can resume the search from there. If start has been
// tombstoned, or start's key is >= key (the anchor overshot), the walk
// falls back to the head: correctness never depends on the anchor, only
// lookup cost does.
func (l *List[K, V]) findPrevForKeyFrom(start *node[K, V], key K) (pred, curr *node[K, V]) {
	if start != &l.head && (start.tomb.Load() || l.cmp(start.key, key) >= 0) {
		start = &l.head
	}

retry:
	pred = start
	curr = pred.next.Load()

	for curr != nil {
		next := curr.next.Load()

		if curr.tomb.Load() {
			if pred.next.CompareAndSwap(curr, next) {
				l.free.Add(-1)
				l.pushFree(curr)
				curr = next
				continue
			}
			goto retry
		}

		if l.cmp(curr.key, key) >= 0 {
			return pred, curr
		}

		pred = curr
		curr = next
	}

	return pred, nil
}

func (l *List[K, V]) pushFree(n *node[K, V]) {
	fn := &freeNode[K, V]{n: n}
	for {
		top := l.freeTop.Load()
		fn.next = top
		if l.freeTop.CompareAndSwap(top, fn) {
			return
		}
	}
}

// Insert adds value under key. Returns false if key already holds a live entry.
// The value is stored as given: it is not checked against nil or the zero value
// of V.
func (l *List[K, V]) Insert(key K, value V) bool {
	return l.InsertFrom(Cursor[K, V]{}, key, value)
}

// InsertFrom behaves like Insert but resumes the search from c instead of the
// list head. Passing the zero Cursor is equivalent to Insert.
func (l *List[K, V]) InsertFrom(c Cursor[K, V], key K, value V) bool {
	start := c.at
	if start == nil {
		start = &l.head
	}

	for {
		pred, curr := l.findPrevForKeyFrom(start, key)

		if curr != nil && l.cmp(curr.key, key) == 0 && !curr.tomb.Load() {
			return false
		}

		n := &node[K, V]{key: key, value: value}
		n.next.Store(curr)

		if pred.next.CompareAndSwap(curr, n) {
			n.version.Add(1)
			l.length.Add(1)
			return true
		}
		// lost the race to a concurrent insert/delete on the same predecessor; retry
	}
}

// Find returns the value stored under key and true, or the zero value and false if
// absent or tombstoned.
func (l *List[K, V]) Find(key K) (value V, ok bool) {
	return l.FindFrom(Cursor[K, V]{}, key)
}

// FindFrom behaves like Find but resumes the search from c instead of the
// list head. Passing the zero Cursor is equivalent to Find.
func (l *List[K, V]) FindFrom(c Cursor[K, V], key K) (value V, ok bool) {
	start := c.at
	if start == nil {
		start = &l.head
	}

	_, curr := l.findPrevForKeyFrom(start, key)
	if curr != nil && l.cmp(curr.key, key) == 0 && !curr.tomb.Load() {
		return curr.value, true
	}
	var zero V
	return zero, false
}

// Delete logically tombstones the live entry under key. Returns false if absent or
// already tombstoned. Physical excision happens lazily on a later traversal.
func (l *List[K, V]) Delete(key K) bool {
	return l.DeleteFrom(Cursor[K, V]{}, key)
}

// DeleteFrom behaves like Delete but resumes the search from c instead of the
// list head. Passing the zero Cursor is equivalent to Delete.
func (l *List[K, V]) DeleteFrom(c Cursor[K, V], key K) bool {
	start := c.at
	if start == nil {
		start = &l.head
	}

	for {
		_, curr := l.findPrevForKeyFrom(start, key)
		if curr == nil || l.cmp(curr.key, key) != 0 {
			return false
		}
		if curr.tomb.Load() {
			return false
		}
		if curr.tomb.CompareAndSwap(false, true) {
			curr.version.Add(1)
			l.length.Add(-1)
			l.free.Add(1)
			return true
		}
		// another goroutine tombstoned or otherwise mutated it first; reassess
	}
}

// Iterator walks live entries in comparator order.
type Iterator[K any, V any] struct {
	l   *List[K, V]
	cur *node[K, V]
}

// Head returns an iterator positioned before the first live entry.
func (l *List[K, V]) Head() *Iterator[K, V] {
	return &Iterator[K, V]{l: l, cur: &l.head}
}

// Next advances the iterator and returns the next live key/value pair. Tombstoned
// nodes encountered along the way are skipped (and opportunistically excised); ok
// is false once the end of the list is reached.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	curr := it.cur.next.Load()

	for curr != nil {
		next := curr.next.Load()

		if curr.tomb.Load() {
			if it.cur.next.CompareAndSwap(curr, next) {
				it.l.free.Add(-1)
				it.l.pushFree(curr)
			}
			curr = next
			continue
		}

		it.cur = curr
		return curr.key, curr.value, true
	}

	var zk K
	var zv V
	return zk, zv, false
}

// Snapshot copies every currently live entry into a contiguous slice, in
// comparator order. The result reflects a point-in-time view; concurrent writers
// may add or remove entries during the copy.
func (l *List[K, V]) Snapshot() []Pair[K, V] {
	res := make([]Pair[K, V], 0, l.Len())
	it := l.Head()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		res = append(res, Pair[K, V]{Key: k, Value: v})
	}
	return res
}

// Pair is a key/value snapshot entry.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// Purge tombstones every currently live entry. It does not reclaim memory; call GC
// afterward once readers are quiesced.
func (l *List[K, V]) Purge() {
	it := l.Head()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		l.Delete(k)
	}
}

// GC drains the free list and excises any remaining tombstones from the main
// list, invoking destroy (if non-nil) on every reclaimed value. The caller must
// guarantee no concurrent readers or writers are active; GC itself performs no
// synchronization against them.
func (l *List[K, V]) GC(destroy func(V)) {
	// physically excise any tombstones a traversal hasn't caught yet
	pred := &l.head
	curr := pred.next.Load()
	for curr != nil {
		next := curr.next.Load()
		if curr.tomb.Load() {
			pred.next.Store(next)
			l.free.Add(-1)
			if destroy != nil {
				destroy(curr.value)
			}
			curr = next
			continue
		}
		pred = curr
		curr = next
	}

	// drain the private free list accumulated by earlier lazy excisions
	for {
		top := l.freeTop.Load()
		if top == nil {
			break
		}
		if l.freeTop.CompareAndSwap(top, top.next) {
			if destroy != nil {
				destroy(top.n.value)
			}
		}
	}
}
