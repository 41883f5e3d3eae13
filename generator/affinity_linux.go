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

package generator

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/sabouaram/perfcore/cpuset"
)

// pinCurrentThread locks the calling goroutine to its current OS thread and
// restricts that thread to the CPUs in set.
func pinCurrentThread(set *cpuset.Set) error {
	if set == nil {
		return nil
	}

	runtime.LockOSThread()

	var cs unix.CPUSet
	cs.Zero()
	hasCPU := false
	for c, ok := set.First(); ok; c, ok = set.Next(c) {
		cs.Set(c)
		hasCPU = true
	}
	if !hasCPU {
		return nil
	}

	if err := unix.SchedSetaffinity(0, &cs); err != nil {
		return fmt.Errorf("generator: set cpu affinity: %w", err)
	}
	return nil
}
