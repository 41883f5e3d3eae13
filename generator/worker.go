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
	"encoding/json"
	"fmt"

	"github.com/sabouaram/perfcore/bus"
	"github.com/sabouaram/perfcore/cpuset"
)

// Worker drives one Task through the command loop: read the next command
// (blocking while paused, non-blocking while running), apply it, and, if
// not paused, spin the task once and publish its statistics.
type Worker[S any] struct {
	id       int
	task     Task[S]
	b        *bus.Bus
	statsSub string
	affinity *cpuset.Set

	cmdSub *bus.Subscription
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWorker subscribes to cmdSubject for control messages and publishes
// Spin results to statsSubject as JSON.
func NewWorker[S any](id int, task Task[S], b *bus.Bus, cmdSubject, statsSubject string, affinity *cpuset.Set) (*Worker[S], error) {
	sub, err := b.Subscribe(cmdSubject)
	if err != nil {
		return nil, fmt.Errorf("generator: worker %d subscribe: %w", id, err)
	}
	return &Worker[S]{
		id:       id,
		task:     task,
		b:        b,
		statsSub: statsSubject,
		affinity: affinity,
		cmdSub:   sub,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Run is the worker's body; call it in its own goroutine. It returns once a
// STOP command is received, the command subscription is torn down
// (controller shutdown), or Stop is called.
func (w *Worker[S]) Run() {
	defer close(w.doneCh)

	// affinity is best-effort; a pinning failure does not abort the worker
	_ = pinCurrentThread(w.affinity)

	paused := false

	for {
		var (
			raw []byte
			ok  bool
		)

		if paused {
			select {
			case raw, ok = <-w.cmdSub.Messages:
			case <-w.stopCh:
				w.task.Pause()
				return
			}
			if !ok {
				w.task.Pause()
				return
			}
		} else {
			select {
			case raw, ok = <-w.cmdSub.Messages:
				if !ok {
					w.task.Pause()
					return
				}
			case <-w.stopCh:
				w.task.Pause()
				return
			default:
			}
		}

		if raw != nil {
			switch Command(raw) {
			case CmdStop:
				w.task.Pause()
				return
			case CmdPause:
				if !paused {
					w.task.Pause()
					paused = true
				}
			case CmdReset:
				w.task.Reset()
				w.task.Resume()
				paused = false
			case CmdResume:
				if paused {
					w.task.Resume()
					paused = false
				}
			case CmdNoop:
			}
			continue
		}

		if paused {
			continue
		}

		stats, ok := w.task.Spin()
		if !ok {
			continue
		}
		if payload, err := json.Marshal(stats); err == nil {
			_ = w.b.Publish(w.statsSub, payload)
		}
	}
}

// Stop signals the worker to exit and unsubscribes its command channel. It
// does not block; call Wait to join the goroutine running Run.
func (w *Worker[S]) Stop() {
	close(w.stopCh)
	_ = w.cmdSub.Close()
}

// Wait blocks until Run has returned.
func (w *Worker[S]) Wait() {
	<-w.doneCh
}
