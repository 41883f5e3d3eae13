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

import "time"

const timerResolution = time.Millisecond

// runTimers polls the timer table at a coarse, millisecond resolution.
// Precision below that is explicitly out of scope; nothing built on top of
// this loop depends on sub-millisecond wall-clock accuracy.
func (l *Loop) runTimers() {
	l.timerWg.Add(1)
	defer l.timerWg.Done()

	ticker := time.NewTicker(timerResolution)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-l.timerCh:
			if !ok {
				return
			}
		case now := <-ticker.C:
			var fired []Handle
			l.timerMu.Lock()
			for h, te := range l.timers {
				if !now.Before(te.next) {
					te.next = te.next.Add(te.interval)
					if te.next.Before(now) {
						te.next = now.Add(te.interval)
					}
					fired = append(fired, h)
				}
			}
			l.timerMu.Unlock()

			if len(fired) == 0 {
				continue
			}
			l.mu.Lock()
			for _, h := range fired {
				if ev, ok := l.events[h]; ok && !ev.deleted {
					ev.tmrReady = true
				}
			}
			l.mu.Unlock()
			_ = l.be.wake()
		}
	}
}

// RunForever runs iterations until Close is called or every event has been
// removed and there are no active timers or sockets left to wait on, in which
// case it returns the number of iterations it ran.
func (l *Loop) RunForever() (int, error) {
	n := 0
	for {
		if l.closed.Load() || l.Count() == 0 {
			return n, nil
		}
		more, err := l.runIteration(-1)
		n++
		if err != nil {
			return n, err
		}
		if !more {
			return n, nil
		}
	}
}

// RunWithTimeout runs exactly one iteration, waiting on the backend for at
// most timeout, and returns the number of events dispatched during it.
// timeout of zero performs a single non-blocking pass.
func (l *Loop) RunWithTimeout(timeout time.Duration) (int, error) {
	if l.closed.Load() {
		return 0, errClosed
	}
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	return l.runIterationCount(ms)
}

func (l *Loop) runIteration(waitMS int) (bool, error) {
	if _, err := l.runIterationCount(waitMS); err != nil {
		return false, err
	}
	l.mu.Lock()
	remaining := len(l.events)
	l.mu.Unlock()
	return remaining > 0, nil
}

func (l *Loop) runIterationCount(waitMS int) (int, error) {
	dispatched := 0

	// Step 1: apply queued registrations.
	l.mu.Lock()
	toAdd := l.pendingAdd
	l.pendingAdd = nil
	l.mu.Unlock()

	for _, h := range toAdd {
		l.mu.Lock()
		ev, ok := l.events[h]
		l.mu.Unlock()
		if !ok || ev.deleted {
			continue
		}
		if ev.kind == KindFD {
			if err := l.be.registerFD(ev.fd, ev.forWrite, ev.edge); err != nil {
				return dispatched, err
			}
		}
		l.mu.Lock()
		ev.st = stateActive
		l.mu.Unlock()
	}

	// Step 2: dispatch "always" (regular-file) events unconditionally.
	l.mu.Lock()
	always := append([]Handle(nil), l.always...)
	l.mu.Unlock()
	for _, h := range always {
		if l.dispatchOne(h, true, false, false, false) {
			dispatched++
		}
	}

	// Step 3: wait on the backend. Non-blocking if the always list is
	// non-empty so regular-file polling never stalls behind a long timeout.
	effectiveWait := waitMS
	if len(always) > 0 && (waitMS < 0 || waitMS > 0) {
		effectiveWait = 0
	}
	readableFDs, writableFDs, err := l.be.wait(effectiveWait)
	if err != nil {
		return dispatched, err
	}

	// Step 4: dispatch ready descriptor, timer, and socket events. A fd armed
	// with forWrite can be both readable and writable in the same pass; OnRead
	// and OnWrite each fire once.
	for _, fd := range readableFDs {
		l.mu.Lock()
		h, ok := l.fdToHandle[fd]
		l.mu.Unlock()
		if !ok {
			continue
		}
		if l.dispatchOne(h, true, false, false, false) {
			dispatched++
		}
	}
	for _, fd := range writableFDs {
		l.mu.Lock()
		h, ok := l.fdToHandle[fd]
		l.mu.Unlock()
		if !ok {
			continue
		}
		if l.dispatchOne(h, false, false, false, true) {
			dispatched++
		}
	}

	l.mu.Lock()
	var timerReady, socketReady []Handle
	for h, ev := range l.events {
		if ev.deleted {
			continue
		}
		switch ev.kind {
		case KindTimer:
			if ev.tmrReady {
				timerReady = append(timerReady, h)
			}
		case KindSocket:
			if ev.closed || ev.mailbox.Len() > 0 {
				socketReady = append(socketReady, h)
			}
		}
	}
	l.mu.Unlock()

	for _, h := range timerReady {
		l.mu.Lock()
		if ev, ok := l.events[h]; ok {
			ev.tmrReady = false
		}
		l.mu.Unlock()
		if l.dispatchOne(h, false, true, false, false) {
			dispatched++
		}
	}
	for _, h := range socketReady {
		if l.dispatchOne(h, false, false, true, false) {
			dispatched++
		}
	}

	// Step 5: apply queued deletions, suppressing further callbacks via the
	// deleted flag regardless of which step scheduled the removal.
	l.mu.Lock()
	toDelete := l.pendingDelete
	l.pendingDelete = nil
	l.mu.Unlock()

	for _, h := range toDelete {
		l.applyDelete(h)
	}

	return dispatched, nil
}

// dispatchOne invokes the appropriate callback for h if it is live and not
// disabled, returning whether anything actually fired. A non-zero return from
// OnRead/OnWrite/OnTimeout schedules the event for deferred deletion.
func (l *Loop) dispatchOne(h Handle, isFD, isTimer, isSocket, isWrite bool) bool {
	l.mu.Lock()
	ev, ok := l.events[h]
	if !ok || ev.deleted || ev.st == stateDisabled {
		l.mu.Unlock()
		return false
	}
	cb := ev.cb
	arg := ev.arg
	closedSocket := isSocket && ev.closed
	l.mu.Unlock()

	if closedSocket {
		if cb.OnClose != nil {
			cb.OnClose(h, arg)
		}
		_ = l.Delete(h)
		return true
	}

	var rc int
	switch {
	case isTimer:
		if cb.OnTimeout != nil {
			rc = cb.OnTimeout(h, arg)
		}
	case isWrite:
		if cb.OnWrite != nil {
			rc = cb.OnWrite(h, arg)
		}
	case isFD, isSocket:
		if cb.OnRead != nil {
			rc = cb.OnRead(h, arg)
		}
	}

	if rc != 0 {
		_ = l.Delete(h)
	}
	return true
}

func (l *Loop) applyDelete(h Handle) {
	l.mu.Lock()
	ev, ok := l.events[h]
	if !ok {
		l.mu.Unlock()
		return
	}
	delete(l.events, h)
	if ev.kind == KindFD {
		delete(l.fdToHandle, ev.fd)
	}
	if ev.kind == KindFile {
		for i, ah := range l.always {
			if ah == h {
				l.always = append(l.always[:i], l.always[i+1:]...)
				break
			}
		}
	}
	l.mu.Unlock()

	if ev.kind == KindFD {
		_ = l.be.unregisterFD(ev.fd)
	}
	if ev.kind == KindTimer {
		l.timerMu.Lock()
		delete(l.timers, h)
		l.timerMu.Unlock()
	}

	if ev.cb.OnDelete != nil {
		ev.cb.OnDelete(h, ev.arg)
	}
}
