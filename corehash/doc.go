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

// Package corehash implements a split-ordered-list hash table (Shalev & Shavit,
// "Split-Ordered Lists: Lock-Free Extensible Hash Sets", PODC 2003) on top of
// corelist.
//
// Every real key is stored under a split-ordered 64-bit position: the key's hash
// with its top bit set, then bit-reversed. Bucket sentinels use the same scheme
// without the top bit, which makes bucket indices sort ahead of every real key
// that will ever land in them and lets bucket-count doublings subdivide existing
// buckets without moving a single entry.
//
// Every real entry and every bucket sentinel is its own corelist node — there is
// no per-bucket slice or mutex anywhere in the table. Two distinct keys sharing a
// 64-bit split position (an astronomically rare hash collision) coexist as
// adjacent nodes ordered by a string rendering of their keys, rather than being
// merged into a locked collision chain. Insert, Find, and Delete resolve a key's
// bucket, then resume the underlying list search from that bucket's sentinel
// (for Find and Delete, the nearest materialized one up its parent chain)
// instead of the list head, so none of them scans the full list or locks the
// list itself. Find and Delete take no lock; Insert is not lock-free, since
// every call briefly takes the mutex that guards growth of the bucket-cursor
// array.
package corehash
