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

package generator

import "time"

// defaultSpinThreshold bounds how long one RateLimiter.Run call may occupy a
// worker before returning control to the command-polling loop.
const defaultSpinThreshold = 100 * time.Millisecond

// RateLimiter paces repeated calls to a per-operation function at a target
// rate, the way a Task implementation's Spin method is expected to. At each
// call it compares the monotonic clock to the next scheduled operation
// timestamp and either sleeps the difference or, once caught up, runs a
// burst of operations back-to-back, always stopping within SpinThreshold so
// the worker stays responsive to commands.
type RateLimiter struct {
	period        time.Duration
	next          time.Time
	disabled      bool
	SpinThreshold time.Duration
}

// NewRateLimiter builds a limiter targeting ratePerSecond operations/second.
// A non-positive rate disables the limiter entirely: Run becomes a no-op
// that calls op zero times, matching a generator configured to produce no
// operations and no statistics.
func NewRateLimiter(ratePerSecond float64) *RateLimiter {
	r := &RateLimiter{SpinThreshold: defaultSpinThreshold}
	if ratePerSecond <= 0 {
		r.disabled = true
		return r
	}
	r.period = time.Duration(float64(time.Second) / ratePerSecond)
	r.next = time.Now()
	return r
}

// Run calls op() repeatedly, paced at the configured rate, for up to
// SpinThreshold, and returns how many times op was called. A disabled
// limiter (see NewRateLimiter) returns 0 without calling op.
func (r *RateLimiter) Run(op func()) int {
	if r.disabled {
		return 0
	}

	deadline := time.Now().Add(r.SpinThreshold)
	count := 0

	for {
		now := time.Now()
		if now.After(deadline) {
			return count
		}

		if now.Before(r.next) {
			sleep := r.next.Sub(now)
			if rem := deadline.Sub(now); sleep > rem {
				sleep = rem
			}
			time.Sleep(sleep)
			continue
		}
		r.next = r.next.Add(r.period)
		if r.next.Before(now) {
			// fell behind by more than one period; resync instead of
			// bursting to catch up on stale schedule.
			r.next = now.Add(r.period)
		}

		op()
		count++
	}
}
