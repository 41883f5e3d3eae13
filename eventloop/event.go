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

// Kind tags what an event multiplexes. Stands in for the C11 generic-selection
// macros of the original add/update/delete API (which dispatched on the
// argument's type) with an explicit tagged variant.
type Kind int

const (
	// KindFD multiplexes a raw OS file descriptor.
	KindFD Kind = iota
	// KindTimer fires every Timeout and rearms automatically.
	KindTimer
	// KindSocket multiplexes a message-bus subscription (see package bus); its
	// readiness is re-checked every iteration from its Mailbox, so a wakeup with
	// nothing actually enqueued dispatches nothing.
	KindSocket
	// KindFile is a regular-file read callback; dispatched unconditionally every
	// iteration via the "always" list.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindFD:
		return "fd"
	case KindTimer:
		return "timer"
	case KindSocket:
		return "socket"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Handle is an opaque, platform-independent event identifier, always assigned
// from one monotonic counter regardless of backend, so callers never observe a
// platform-specific ID space (e.g. a raw timerfd number).
type Handle uint64

// Callbacks bundle the optional hooks an event may run. A non-zero return from
// OnRead, OnWrite, or OnTimeout schedules the event for deferred deletion.
type Callbacks struct {
	OnRead    func(h Handle, arg any) int
	OnWrite   func(h Handle, arg any) int
	OnClose   func(h Handle, arg any)
	OnTimeout func(h Handle, arg any) int
	OnDelete  func(h Handle, arg any)
}

type state int

const (
	statePendingAdd state = iota
	stateActive
	statePendingUpdate
	stateDisabled
	statePendingDelete
)

type event struct {
	handle   Handle
	kind     Kind
	fd       int // raw descriptor, set for KindFD only
	edge     bool
	forWrite bool // KindFD: also arm the multiplexer for writability, dispatching OnWrite

	cb  Callbacks
	arg any

	st      state
	deleted bool // the DELETED flag: once set, no further callbacks fire for this event

	timeoutNS int64 // KindTimer rearm period
	nextFire  int64 // KindTimer: unix nanoseconds of next scheduled fire

	mailbox *Mailbox // KindSocket: pending messages, re-checked before each dispatch
	closed  bool     // KindSocket: the source channel was closed (bus/context torn down)

	file string // KindFile: path, dispatched every iteration via the "always" list

	tmrReady bool // KindTimer: set by the timer goroutine, cleared on dispatch; guarded by Loop.mu
}
