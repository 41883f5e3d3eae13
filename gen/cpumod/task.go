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

package cpumod

import (
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"

	"github.com/sabouaram/perfcore/generator"
)

// Stats is one Spin's result: how many busy-work iterations it ran, and the
// host-wide CPU utilization sampled at the end of that burst.
type Stats struct {
	SpinCount          int64   `json:"spin_count"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// Task busy-loops floating point work at a target operations/second rate.
// Utilization sampling blocks for a short interval, so it is taken
// occasionally rather than on every Spin.
type Task struct {
	rl          *generator.RateLimiter
	total       atomic.Int64
	lastSampled time.Time
	sampleEvery time.Duration
	lastUtilPct float64
	workPayload float64
}

// NewTask builds a cpumod Task targeting ratePerSecond busy-work iterations
// per second, sampling host CPU utilization at most once every sampleEvery.
func NewTask(ratePerSecond float64, sampleEvery time.Duration) *Task {
	if sampleEvery <= 0 {
		sampleEvery = time.Second
	}
	return &Task{rl: generator.NewRateLimiter(ratePerSecond), sampleEvery: sampleEvery, workPayload: 1.0001}
}

// Spin runs one paced burst of busy-work and periodically refreshes the
// host CPU utilization reading. If the task's rate is 0, no iterations run
// and Spin reports false so the caller emits no statistics.
func (t *Task) Spin() (Stats, bool) {
	n := t.rl.Run(func() {
		t.workPayload = t.workPayload*1.0000001 + 1
		if t.workPayload > 1e6 {
			t.workPayload = 1.0001
		}
		t.total.Add(1)
	})
	if n == 0 {
		return Stats{}, false
	}

	now := time.Now()
	if now.Sub(t.lastSampled) >= t.sampleEvery {
		if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
			t.lastUtilPct = pct[0]
		}
		t.lastSampled = now
	}

	return Stats{SpinCount: t.total.Load(), UtilizationPercent: t.lastUtilPct}, true
}

// Reset zeroes the accumulated spin count.
func (t *Task) Reset() {
	t.total.Store(0)
}

// Pause and Resume are no-ops: Task holds no separate running flag because
// Worker already stops calling Spin while paused.
func (t *Task) Pause()  {}
func (t *Task) Resume() {}
