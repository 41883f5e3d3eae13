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

import (
	"fmt"
	"time"
)

// Add registers a raw OS descriptor. The event becomes live at the start of
// the next iteration, also when Add is called from inside a callback during
// the current one's dispatch step.
func (l *Loop) Add(fd int, cb Callbacks, arg any, forWrite, edge bool) (Handle, error) {
	if l.closed.Load() {
		return 0, errClosed
	}

	h := l.allocHandle()
	ev := &event{
		handle:   h,
		kind:     KindFD,
		fd:       fd,
		edge:     edge,
		forWrite: forWrite,
		cb:       cb,
		arg:      arg,
		st:       statePendingAdd,
	}

	l.mu.Lock()
	l.events[h] = ev
	l.fdToHandle[fd] = h
	l.pendingAdd = append(l.pendingAdd, h)
	l.mu.Unlock()

	return h, nil
}

// AddTimer registers a periodic timer that fires every interval. The first
// fire happens after one interval has elapsed, not immediately.
func (l *Loop) AddTimer(interval time.Duration, cb Callbacks, arg any) (Handle, error) {
	if l.closed.Load() {
		return 0, errClosed
	}
	if interval <= 0 {
		return 0, fmt.Errorf("eventloop: timer interval must be positive")
	}

	h := l.allocHandle()
	ev := &event{
		handle:    h,
		kind:      KindTimer,
		cb:        cb,
		arg:       arg,
		st:        stateActive,
		timeoutNS: interval.Nanoseconds(),
	}

	l.mu.Lock()
	l.events[h] = ev
	l.mu.Unlock()

	l.timerMu.Lock()
	l.timers[h] = &timerEntry{handle: h, interval: interval, next: time.Now().Add(interval)}
	l.timerMu.Unlock()

	return h, nil
}

// AddSocket registers a message-bus source. source is read by an internal
// goroutine until it is closed (the subscription's teardown signal); every
// payload that arrives is buffered in the returned Mailbox and OnRead fires
// once per iteration in which the mailbox is non-empty. Callbacks must drain
// the mailbox with TryRecv non-blockingly before returning.
func (l *Loop) AddSocket(source <-chan []byte, cb Callbacks, arg any) (Handle, *Mailbox, error) {
	if l.closed.Load() {
		return 0, nil, errClosed
	}

	h := l.allocHandle()
	mb := newMailbox()
	ev := &event{
		handle:  h,
		kind:    KindSocket,
		cb:      cb,
		arg:     arg,
		st:      stateActive,
		mailbox: mb,
	}

	l.mu.Lock()
	l.events[h] = ev
	l.mu.Unlock()

	go func() {
		for b := range source {
			mb.push(b)
			l.notifyReady(h)
		}
		l.mu.Lock()
		if e, ok := l.events[h]; ok {
			e.closed = true
		}
		l.mu.Unlock()
		l.notifyReady(h)
	}()

	return h, mb, nil
}

// AddFile registers a regular-file callback, dispatched unconditionally every
// iteration since neither epoll nor poll can report readiness for it.
func (l *Loop) AddFile(path string, cb Callbacks, arg any) Handle {
	h := l.allocHandle()
	ev := &event{
		handle: h,
		kind:   KindFile,
		cb:     cb,
		arg:    arg,
		st:     stateActive,
		file:   path,
	}

	l.mu.Lock()
	l.events[h] = ev
	l.always = append(l.always, h)
	l.mu.Unlock()

	return h
}

// Update replaces an event's callback set and, for a timer, its interval.
// newInterval is ignored for non-timer events.
func (l *Loop) Update(h Handle, cb Callbacks, newInterval time.Duration) error {
	l.mu.Lock()
	ev, ok := l.events[h]
	if !ok || ev.deleted {
		l.mu.Unlock()
		return fmt.Errorf("eventloop: unknown handle %d", h)
	}
	ev.cb = cb
	if ev.kind == KindTimer && newInterval > 0 {
		ev.timeoutNS = newInterval.Nanoseconds()
	}
	l.mu.Unlock()

	if ev.kind == KindTimer && newInterval > 0 {
		l.timerMu.Lock()
		if te, ok := l.timers[h]; ok {
			te.interval = newInterval
			te.next = time.Now().Add(newInterval)
		}
		l.timerMu.Unlock()
	}
	return nil
}

// SetWritable re-arms a KindFD event's multiplexer registration with or
// without write-readiness, so a caller can request OnWrite dispatch only
// while it actually has buffered output, then drop EPOLLOUT/POLLOUT once
// drained instead of busy-dispatching on an always-writable descriptor.
func (l *Loop) SetWritable(h Handle, forWrite bool) error {
	l.mu.Lock()
	ev, ok := l.events[h]
	if !ok || ev.deleted || ev.kind != KindFD {
		l.mu.Unlock()
		return fmt.Errorf("eventloop: unknown fd handle %d", h)
	}
	ev.forWrite = forWrite
	fd, edge := ev.fd, ev.edge
	l.mu.Unlock()

	return l.be.updateFD(fd, forWrite, edge)
}

// Disable suspends dispatch for h without removing its registration; EnableAll
// resumes every disabled event.
func (l *Loop) Disable(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev, ok := l.events[h]
	if !ok || ev.deleted {
		return fmt.Errorf("eventloop: unknown handle %d", h)
	}
	ev.st = stateDisabled
	return nil
}

// EnableAll resumes dispatch for every disabled event.
func (l *Loop) EnableAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.st == stateDisabled {
			ev.st = stateActive
		}
	}
}

// Delete schedules h for removal. Removal is always deferred to the end of
// the current iteration, regardless of which step requested it, so a
// callback can safely delete its own handle mid-dispatch. OnDelete fires
// exactly once, when the removal is actually applied.
func (l *Loop) Delete(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev, ok := l.events[h]
	if !ok {
		return fmt.Errorf("eventloop: unknown handle %d", h)
	}
	if ev.deleted {
		return nil
	}
	ev.deleted = true
	l.pendingDelete = append(l.pendingDelete, h)
	return nil
}
