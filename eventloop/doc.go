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

// Package eventloop is a single-threaded, cooperative reactor multiplexing three
// event sources: OS descriptors, timers, and message-bus sockets (see the bus
// package), plus regular files serviced unconditionally every iteration since
// neither epoll nor poll(2) can report readiness for them.
//
// All callbacks run on the goroutine that calls Run/RunWithTimeout. Add/Update/
// Disable/Delete may be called either before the loop starts or from inside a
// callback during dispatch; calling them concurrently from a different goroutine
// while the loop is running is not supported, matching the single-threaded
// reactor design this package is modeled on.
//
// Within one iteration the loop: (1) applies queued registration updates,
// (2) dispatches "always" (regular-file) events unconditionally, (3) waits on the
// OS primitive — non-blocking if the always list is non-empty, (4) dispatches
// ready descriptor/timer/socket events, (5) applies queued deletions. An event
// added during step 2 or 4 is queued and only becomes visible to step 1 of the
// *next* iteration; a deletion is always deferred to step 5 of the *current*
// iteration, regardless of which step requested it.
//
// A KindFD event registered with forWrite true is armed for both readability
// and writability; the two are tracked independently by the backend, so a
// socket that is simultaneously readable and writable dispatches OnRead and
// OnWrite once each in the same iteration. Loop.SetWritable toggles write
// interest on an already-registered fd, letting a caller drop EPOLLOUT/POLLOUT
// once its output buffer drains instead of dispatching OnWrite on an
// already-writable descriptor every iteration.
package eventloop
