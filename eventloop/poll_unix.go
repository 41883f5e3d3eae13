//go:build !linux

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

// Non-Linux platforms fall back to poll(2) via golang.org/x/sys/unix: no
// edge-triggering and O(n) scans per wait, but the same re-arm contract the
// epoll backend offers, which is all this package's Loop relies on.
package eventloop

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

type pollBackend struct {
	wakeR, wakeW *os.File

	mu   sync.Mutex
	fds  map[int]*pollReg
}

type pollReg struct {
	forWrite bool
}

func newBackend() (backend, error) {
	r, w, err := newWakePipe()
	if err != nil {
		return nil, err
	}
	return &pollBackend{
		wakeR: r,
		wakeW: w,
		fds:   make(map[int]*pollReg),
	}, nil
}

func (b *pollBackend) registerFD(fd int, forWrite, edge bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fds[fd] = &pollReg{forWrite: forWrite}
	return nil
}

func (b *pollBackend) updateFD(fd int, forWrite, edge bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.fds[fd]; ok {
		r.forWrite = forWrite
		return nil
	}
	b.fds[fd] = &pollReg{forWrite: forWrite}
	return nil
}

func (b *pollBackend) unregisterFD(fd int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fds, fd)
	return nil
}

func (b *pollBackend) wait(timeoutMS int) (readable, writable []int, err error) {
	b.mu.Lock()
	pfds := make([]unix.PollFd, 0, len(b.fds)+1)
	pfds = append(pfds, unix.PollFd{Fd: int32(b.wakeR.Fd()), Events: unix.POLLIN})
	order := make([]int, 0, len(b.fds))
	for fd, r := range b.fds {
		events := int16(unix.POLLIN)
		if r.forWrite {
			events |= unix.POLLOUT
		}
		pfds = append(pfds, unix.PollFd{Fd: int32(fd), Events: events})
		order = append(order, fd)
	}
	b.mu.Unlock()

	n, perr := unix.Poll(pfds, timeoutMS)
	if perr != nil {
		if perr == unix.EINTR {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("poll: %w", perr)
	}
	if n == 0 {
		return nil, nil, nil
	}

	if pfds[0].Revents != 0 {
		b.drainWake()
	}
	for i, fd := range order {
		revents := pfds[i+1].Revents
		if revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0 {
			readable = append(readable, fd)
		}
		if revents&unix.POLLOUT != 0 {
			writable = append(writable, fd)
		}
	}
	return readable, writable, nil
}

func (b *pollBackend) drainWake() {
	var buf [64]byte
	for {
		n, err := b.wakeR.Read(buf[:])
		if n == 0 || err != nil {
			return
		}
	}
}

func (b *pollBackend) wake() error {
	_, err := b.wakeW.Write([]byte{0})
	if err != nil && err != os.ErrClosed {
		return err
	}
	return nil
}

func (b *pollBackend) close() error {
	_ = b.wakeR.Close()
	_ = b.wakeW.Close()
	return nil
}
