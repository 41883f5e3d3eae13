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
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// backend abstracts the OS multiplexer so Loop itself stays platform-neutral;
// poll_linux.go (Linux, epoll) and poll_unix.go (everything else, poll(2))
// each supply one.
type backend interface {
	// registerFD arms fd for readability (and writability if forWrite) on the
	// multiplexer, edge-triggered when edge is true.
	registerFD(fd int, forWrite, edge bool) error
	updateFD(fd int, forWrite, edge bool) error
	unregisterFD(fd int) error
	// wait blocks up to timeoutMS (0 = return immediately, <0 = forever) and
	// returns the fds that became readable and/or writable. A fd armed with
	// forWrite can appear in both slices in the same call.
	wait(timeoutMS int) (readable, writable []int, err error)
	// wake unblocks a concurrent wait() call; used when a timer or socket
	// mailbox becomes ready while the backend is parked.
	wake() error
	close() error
}

// Loop is a single-threaded, cooperative reactor multiplexing OS descriptors,
// timers, and message-bus sockets, plus regular files serviced unconditionally
// every iteration.
type Loop struct {
	be backend

	mu         sync.Mutex
	events     map[Handle]*event
	fdToHandle map[int]Handle
	always     []Handle // KindFile, dispatched every iteration in insertion order

	pendingAdd    []Handle
	pendingUpdate []Handle
	pendingDelete []Handle

	nextHandle atomic.Uint64

	timerMu sync.Mutex
	timers  map[Handle]*timerEntry
	timerWg sync.WaitGroup
	timerCh chan struct{}

	closed atomic.Bool
}

type timerEntry struct {
	handle   Handle
	interval time.Duration
	next     time.Time
}

// NewLoop creates an empty loop bound to the best multiplexer available on
// this platform (epoll on Linux, a poll(2)-based fallback elsewhere).
func NewLoop() (*Loop, error) {
	be, err := newBackend()
	if err != nil {
		return nil, fmt.Errorf("eventloop: create backend: %w", err)
	}

	l := &Loop{
		be:         be,
		events:     make(map[Handle]*event),
		fdToHandle: make(map[int]Handle),
		timers:     make(map[Handle]*timerEntry),
		timerCh:    make(chan struct{}, 1),
	}

	go l.runTimers()

	return l, nil
}

// Close stops the timer goroutine and releases the backend's OS resources. A
// closed loop must not be reused.
func (l *Loop) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.timerCh)
	l.timerWg.Wait()
	return l.be.close()
}

// Count returns the number of events currently registered, including those
// pending addition or deletion.
func (l *Loop) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *Loop) allocHandle() Handle {
	return Handle(l.nextHandle.Add(1))
}

func (l *Loop) notifyReady(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev, ok := l.events[h]
	if !ok || ev.deleted {
		return
	}
	if ev.st == stateDisabled {
		return
	}
	_ = l.be.wake()
}

var errClosed = fmt.Errorf("eventloop: loop is closed")

// newWakePipe opens the pipe both backends arm as their wakeup descriptor: a
// byte written to w makes a concurrent wait() on the other end return.
func newWakePipe() (r, w *os.File, err error) {
	return os.Pipe()
}
