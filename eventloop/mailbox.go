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

package eventloop

import "sync"

// Mailbox buffers payloads delivered to a KindSocket event from a producer
// goroutine (typically a bus subscription) until the loop's own goroutine
// drains them from inside a dispatch callback. It is the readiness state
// the loop re-checks for a socket event every iteration: a wakeup that
// arrives while the mailbox is empty (and the source is still open)
// dispatches nothing rather than invoking OnRead on an empty mailbox.
type Mailbox struct {
	mu sync.Mutex
	q  [][]byte
}

func newMailbox() *Mailbox {
	return &Mailbox{}
}

func (m *Mailbox) push(b []byte) {
	m.mu.Lock()
	m.q = append(m.q, b)
	m.mu.Unlock()
}

// TryRecv pops the oldest buffered payload, if any. Callbacks call this in a
// loop to drain everything currently available before returning, per the
// non-blocking-drain contract the rest of this package's callbacks follow.
func (m *Mailbox) TryRecv() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.q) == 0 {
		return nil, false
	}
	b := m.q[0]
	m.q = m.q[1:]
	return b, true
}

// Len reports how many payloads are currently buffered.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.q)
}
