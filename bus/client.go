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

package bus

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Bus is a thin subject-based publish/subscribe handle over a connection to
// an embedded Server.
type Bus struct {
	nc *nats.Conn
}

// New wraps an already-connected client.
func New(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

// Publish sends data on subject.
func (b *Bus) Publish(subject string, data []byte) error {
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("bus: publish %q: %w", subject, err)
	}
	return nil
}

// Subscription is a live subject subscription whose payloads are delivered on
// Messages, consumable directly by eventloop.Loop.AddSocket. Close
// unsubscribes and closes Messages.
type Subscription struct {
	sub      *nats.Subscription
	Messages chan []byte
}

// Subscribe opens a subscription on subject. Incoming message payloads are
// forwarded onto Messages until Close is called; Messages buffers up to 256
// payloads and any payload arriving while that buffer is full is dropped, so
// a stalled consumer sheds load rather than stalling the connection.
func (b *Bus) Subscribe(subject string) (*Subscription, error) {
	out := make(chan []byte, 256)

	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) {
		select {
		case out <- m.Data:
		default:
			// consumer is behind; drop rather than block the delivery goroutine
		}
	})
	if err != nil {
		close(out)
		return nil, fmt.Errorf("bus: subscribe %q: %w", subject, err)
	}

	return &Subscription{sub: sub, Messages: out}, nil
}

// Close unsubscribes and closes Messages. Any goroutine draining Messages
// (typically eventloop's socket-bridging goroutine) will observe the channel
// close and stop.
func (s *Subscription) Close() error {
	defer close(s.Messages)
	if err := s.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("bus: unsubscribe: %w", err)
	}
	return nil
}

// Close closes the underlying connection without draining it first.
func (b *Bus) Close() {
	b.nc.Close()
}
