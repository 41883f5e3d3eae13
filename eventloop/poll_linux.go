//go:build linux

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

	"golang.org/x/sys/unix"
)

// epollBackend multiplexes raw descriptors through the kernel's epoll
// instance, the same primitive the reactor this package is modeled on uses.
// Timers and message-bus sockets never touch epoll directly: they bridge
// through wakeR, a pipe armed level-triggered, so a single epoll_wait call
// covers every event source.
type epollBackend struct {
	epfd int

	wakeR, wakeW *os.File

	mu      sync.Mutex
	scratch []unix.EpollEvent
}

func newBackend() (backend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}

	r, w, err := newWakePipe()
	if err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}

	b := &epollBackend{
		epfd:    epfd,
		wakeR:   r,
		wakeW:   w,
		scratch: make([]unix.EpollEvent, 64),
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(r.Fd())}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, int(r.Fd()), &ev); err != nil {
		_ = unix.Close(epfd)
		_ = r.Close()
		_ = w.Close()
		return nil, fmt.Errorf("epoll_ctl(wake): %w", err)
	}

	return b, nil
}

func (b *epollBackend) registerFD(fd int, forWrite, edge bool) error {
	ev := unix.EpollEvent{Events: epollMask(forWrite, edge), Fd: int32(fd)}
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (b *epollBackend) updateFD(fd int, forWrite, edge bool) error {
	ev := unix.EpollEvent{Events: epollMask(forWrite, edge), Fd: int32(fd)}
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (b *epollBackend) unregisterFD(fd int) error {
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func epollMask(forWrite, edge bool) uint32 {
	m := uint32(unix.EPOLLIN)
	if forWrite {
		m |= unix.EPOLLOUT
	}
	if edge {
		m |= unix.EPOLLET
	}
	return m
}

func (b *epollBackend) wait(timeoutMS int) (readable, writable []int, err error) {
	n, werr := unix.EpollWait(b.epfd, b.scratch, timeoutMS)
	if werr != nil {
		if werr == unix.EINTR {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("epoll_wait: %w", werr)
	}

	readable = make([]int, 0, n)
	for i := 0; i < n; i++ {
		fd := int(b.scratch[i].Fd)
		if fd == int(b.wakeR.Fd()) {
			b.drainWake()
			continue
		}
		ev := b.scratch[i].Events
		// EPOLLERR/EPOLLHUP are reported regardless of the armed mask; surface
		// them on the read side so OnRead observes the failed read/recv.
		if ev&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			readable = append(readable, fd)
		}
		if ev&unix.EPOLLOUT != 0 {
			writable = append(writable, fd)
		}
	}
	return readable, writable, nil
}

func (b *epollBackend) drainWake() {
	var buf [64]byte
	for {
		n, err := b.wakeR.Read(buf[:])
		if n == 0 || err != nil {
			return
		}
	}
}

func (b *epollBackend) wake() error {
	_, err := b.wakeW.Write([]byte{0})
	if err != nil && err != os.ErrClosed {
		return err
	}
	return nil
}

func (b *epollBackend) close() error {
	_ = b.wakeR.Close()
	_ = b.wakeW.Close()
	return unix.Close(b.epfd)
}
