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

// Package corelist implements a lock-free, sorted, singly linked list following
// Michael's algorithm (Maged M. Michael, "High Performance Dynamic Lock-Free Hash
// Tables and List-Based Sets", SPAA 2002).
//
// Every node carries a monotonically increasing version and a tombstone flag in
// their own atomic fields, next to an atomic successor pointer that is replaced by
// a CAS on the predecessor. The original's 128-bit {version, flags, next}
// compare-exchange is not needed for ABA safety here: a node's memory is never
// reused while a goroutine still holds a reference to it, so a pointer-identity
// CAS on the successor pointer is already ABA-safe.
//
// Deletion is two-phase: a logical tombstone CAS, followed by physical excision the
// next time any traversal (insert, find, iterate) walks past the tombstoned node.
// Losers of either race retry from where their walk started: the head, or a
// Cursor's anchor. corehash builds its split-ordered
// bucket array directly on top of this list.
package corelist
