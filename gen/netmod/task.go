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

package netmod

import (
	"io"
	"net"
	"time"

	"github.com/sabouaram/perfcore/generator"
)

// Stats is one Spin's accumulated send/receive counters.
type Stats struct {
	OpsActual     int64 `json:"ops_actual"`
	BytesSent     int64 `json:"bytes_sent"`
	BytesReceived int64 `json:"bytes_received"`
	Errors        int64 `json:"errors"`
	LastLatencyNs int64 `json:"last_latency_ns"`
}

// Config describes the remote endpoint and block size a Task writes/reads.
type Config struct {
	Network       string // "tcp" or "udp"
	Address       string
	BlockSize     int
	RatePerSecond float64
}

// Task dials a single persistent connection to Config.Address and, each
// Spin, writes a block of pseudo-random payload and reads the same number
// of bytes back, the way a request/response load generator exercises a
// remote network stack.
type Task struct {
	cfg     Config
	rl      *generator.RateLimiter
	conn    net.Conn
	payload []byte
	readBuf []byte
	stats   Stats
}

// NewTask builds a netmod Task. Dialing is lazy: the first Spin call
// attempts to connect, and every subsequent Spin redials on error.
func NewTask(cfg Config) *Task {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = 1024
	}
	if cfg.Network == "" {
		cfg.Network = "tcp"
	}
	payload := make([]byte, cfg.BlockSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	return &Task{
		cfg:     cfg,
		rl:      generator.NewRateLimiter(cfg.RatePerSecond),
		payload: payload,
		readBuf: make([]byte, cfg.BlockSize),
	}
}

func (t *Task) ensureConn() error {
	if t.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout(t.cfg.Network, t.cfg.Address, 2*time.Second)
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

// Spin runs one paced round of write-then-read exchanges. If the task's
// rate is 0, no exchange runs and Spin reports false so the caller emits no
// statistics.
func (t *Task) Spin() (Stats, bool) {
	n := t.rl.Run(func() {
		if err := t.ensureConn(); err != nil {
			t.stats.Errors++
			return
		}

		start := time.Now()
		n, err := t.conn.Write(t.payload)
		if err != nil {
			t.stats.Errors++
			t.closeConn()
			return
		}
		t.stats.BytesSent += int64(n)

		n, err = io.ReadFull(t.conn, t.readBuf[:n])
		if err != nil {
			t.stats.Errors++
			t.closeConn()
			return
		}
		t.stats.BytesReceived += int64(n)
		t.stats.LastLatencyNs = time.Since(start).Nanoseconds()
		t.stats.OpsActual++
	})
	if n == 0 {
		return Stats{}, false
	}

	return t.stats, true
}

func (t *Task) closeConn() {
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
	}
}

// Reset clears accumulated counters but keeps any live connection open.
func (t *Task) Reset() {
	t.stats = Stats{}
}

func (t *Task) Pause() {}

func (t *Task) Resume() {}
