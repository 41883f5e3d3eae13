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

// Task is the unit of work a Worker drives. Spin performs one burst of
// operations, paced however the task sees fit (typically via RateLimiter),
// and returns that burst's statistics along with whether any operation
// actually ran. A rate-limited Task configured with rate 0 reports false on
// every Spin, so Worker publishes nothing for it. Reset clears accumulated
// state; Pause/Resume toggle whether the task is actively doing work without
// losing that state.
type Task[S any] interface {
	Spin() (S, bool)
	Reset()
	Pause()
	Resume()
}

// Command is a control-plane message a Controller sends its Workers.
type Command string

const (
	CmdNoop   Command = "NOOP"
	CmdPause  Command = "PAUSE"
	CmdResume Command = "RESUME"
	CmdReset  Command = "RESET"
	CmdStop   Command = "STOP"
)
