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

package packetmod

import (
	"net"

	"github.com/sabouaram/perfcore/generator"
)

// Stats is one Spin's accumulated datagram counters.
type Stats struct {
	PacketsSent int64 `json:"packets_sent"`
	BytesSent   int64 `json:"bytes_sent"`
	Errors      int64 `json:"errors"`
}

// Config describes the target address and datagram size a Task fires.
type Config struct {
	Address       string
	PacketSize    int
	RatePerSecond float64
}

// Task fires one UDP datagram of Config.PacketSize bytes per rate-limited
// tick at Config.Address. Unlike netmod, it never waits for a reply: packet
// generation here measures one-way send throughput, not round trips.
type Task struct {
	cfg     Config
	rl      *generator.RateLimiter
	conn    net.Conn
	payload []byte
	stats   Stats
}

// NewTask builds a packetmod Task. Dialing a UDP "connection" only binds a
// local socket and records the peer address; no handshake occurs, so the
// first Spin can send immediately.
func NewTask(cfg Config) *Task {
	if cfg.PacketSize <= 0 {
		cfg.PacketSize = 64
	}
	payload := make([]byte, cfg.PacketSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	return &Task{cfg: cfg, rl: generator.NewRateLimiter(cfg.RatePerSecond), payload: payload}
}

func (t *Task) ensureConn() error {
	if t.conn != nil {
		return nil
	}
	conn, err := net.Dial("udp", t.cfg.Address)
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

// Spin fires one paced burst of datagrams. If the task's rate is 0, no
// datagram is sent and Spin reports false so the caller emits no
// statistics.
func (t *Task) Spin() (Stats, bool) {
	n := t.rl.Run(func() {
		if err := t.ensureConn(); err != nil {
			t.stats.Errors++
			return
		}
		written, err := t.conn.Write(t.payload)
		if err != nil {
			t.stats.Errors++
			_ = t.conn.Close()
			t.conn = nil
			return
		}
		t.stats.BytesSent += int64(written)
		t.stats.PacketsSent++
	})
	if n == 0 {
		return Stats{}, false
	}
	return t.stats, true
}

// Reset clears accumulated counters but keeps any bound socket open.
func (t *Task) Reset() {
	t.stats = Stats{}
}

func (t *Task) Pause() {}

func (t *Task) Resume() {}
