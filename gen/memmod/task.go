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

package memmod

import (
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/mem"

	"github.com/sabouaram/perfcore/generator"
)

// Stats is one Spin's result.
type Stats struct {
	BytesTouched    int64   `json:"bytes_touched"`
	HostUsedPercent float64 `json:"host_used_percent"`
}

// Task allocates a bufSize buffer and writes a touch pattern through it
// ratePerSecond times a second, exercising real page faults rather than
// letting the allocator hand back already-resident memory indefinitely.
type Task struct {
	rl          *generator.RateLimiter
	buf         []byte
	touched     atomic.Int64
	lastSampled time.Time
	sampleEvery time.Duration
	lastUsedPct float64
}

// NewTask builds a memmod Task touching a bufSize-byte buffer at
// ratePerSecond touches/second.
func NewTask(bufSize int, ratePerSecond float64, sampleEvery time.Duration) *Task {
	if bufSize <= 0 {
		bufSize = 4096
	}
	if sampleEvery <= 0 {
		sampleEvery = time.Second
	}
	return &Task{rl: generator.NewRateLimiter(ratePerSecond), buf: make([]byte, bufSize), sampleEvery: sampleEvery}
}

// Spin touches every page of the buffer once and periodically refreshes the
// host memory utilization reading. If the task's rate is 0, no pages are
// touched and Spin reports false so the caller emits no statistics.
func (t *Task) Spin() (Stats, bool) {
	n := t.rl.Run(func() {
		const pageSize = 4096
		for i := 0; i < len(t.buf); i += pageSize {
			t.buf[i]++
		}
		t.touched.Add(int64(len(t.buf)))
	})
	if n == 0 {
		return Stats{}, false
	}

	now := time.Now()
	if now.Sub(t.lastSampled) >= t.sampleEvery {
		if vm, err := mem.VirtualMemory(); err == nil {
			t.lastUsedPct = vm.UsedPercent
		}
		t.lastSampled = now
	}

	return Stats{BytesTouched: t.touched.Load(), HostUsedPercent: t.lastUsedPct}, true
}

// Reset zeroes the accumulated byte counter; the buffer itself is kept.
func (t *Task) Reset() {
	t.touched.Store(0)
}

func (t *Task) Pause()  {}
func (t *Task) Resume() {}
