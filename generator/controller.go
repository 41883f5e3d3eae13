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
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/perfcore/bus"
	"github.com/sabouaram/perfcore/cpuset"
	"github.com/sabouaram/perfcore/metrics"
)

// Reducer folds one worker's published statistics into the controller's
// aggregate view. It is only ever invoked on the controller's own goroutine,
// so implementations need no synchronization of their own.
type Reducer[S any] func(workerID int, stats S)

// TaskFactory builds the Task a given worker index should run, allowing each
// worker to hold independent state while sharing a Controller.
type TaskFactory[S any] func(workerID int) Task[S]

// Controller owns a command publisher and a statistics subscriber shared by a
// fixed-size pool of Workers, and drives a Reducer over incoming stats
// entirely from its own goroutine.
type Controller[S any] struct {
	b            *bus.Bus
	cmdSubject   string
	statsSubject string

	workers  []*Worker[S]
	statsSub *bus.Subscription

	reduceDone chan struct{}

	metricsReg   prometheus.Registerer
	metricsPool  metrics.MetricPool
	statsReduced metrics.Metric
}

// NewController spawns count workers, each built by factory, publishing
// stats on statsSubject and listening for commands on cmdSubject. If
// affinities is non-nil, worker i is pinned to affinities[i] when present.
func NewController[S any](b *bus.Bus, cmdSubject, statsSubject string, count int, factory TaskFactory[S], affinities []*cpuset.Set) (*Controller[S], error) {
	statsSub, err := b.Subscribe(statsSubject)
	if err != nil {
		return nil, fmt.Errorf("generator: controller stats subscribe: %w", err)
	}

	c := &Controller[S]{
		b:            b,
		cmdSubject:   cmdSubject,
		statsSubject: statsSubject,
		statsSub:     statsSub,
		reduceDone:   make(chan struct{}),
	}

	for i := 0; i < count; i++ {
		var affinity *cpuset.Set
		if i < len(affinities) {
			affinity = affinities[i]
		}
		w, err := NewWorker(i, factory(i), b, cmdSubject, statsSubject, affinity)
		if err != nil {
			for _, started := range c.workers {
				started.Stop()
			}
			_ = statsSub.Close()
			return nil, err
		}
		c.workers = append(c.workers, w)
	}

	return c, nil
}

// EnableMetrics registers a stats-reduced counter and an active-workers
// gauge against reg. Once enabled, every stats message the reducer goroutine
// processes (see Start) increments the counter and refreshes the gauge, so a
// scrape against reg always reflects the controller's live reduce loop.
// Calling it more than once, or after Start, is a no-op beyond the first
// successful call.
func (c *Controller[S]) EnableMetrics(reg prometheus.Registerer) error {
	if c.metricsPool != nil {
		return nil
	}

	pool := metrics.NewPool()

	reduced := metrics.NewMetrics("perfcore_generator_stats_reduced_total", metrics.Counter)
	reduced.SetDesc("Total statistics messages reduced by the generator controller.")
	if err := pool.Add(reduced); err != nil {
		return err
	}

	workerCount := len(c.workers)
	active := metrics.NewMetrics("perfcore_generator_workers_active", metrics.Gauge)
	active.SetDesc("Number of generator workers currently owned by the controller.")
	active.SetCollect(func(_ context.Context, m metrics.Metric) {
		if vec, ok := m.Vector().(*prometheus.GaugeVec); ok {
			vec.WithLabelValues().Set(float64(workerCount))
		}
	})
	if err := pool.Add(active); err != nil {
		return err
	}

	if err := pool.RegisterAll(reg); err != nil {
		return err
	}

	c.metricsReg = reg
	c.metricsPool = pool
	c.statsReduced = reduced
	return nil
}

// Start launches every worker's loop and begins feeding published stats
// through reduce on the calling goroutine's behalf (via a dedicated internal
// goroutine that is the only reader of the stats subscription).
func (c *Controller[S]) Start(reduce Reducer[S]) {
	for _, w := range c.workers {
		go w.Run()
	}

	go func() {
		defer close(c.reduceDone)
		for raw := range c.statsSub.Messages {
			var stats S
			if err := json.Unmarshal(raw, &stats); err != nil {
				continue
			}
			reduce(-1, stats)
			c.recordMetrics()
		}
	}()
}

// recordMetrics bumps the stats-reduced counter and refreshes every
// collect-bearing metric in the pool, if metrics were ever enabled. It is a
// no-op otherwise so the reduce loop's hot path costs nothing when no
// registry was ever wired in.
func (c *Controller[S]) recordMetrics() {
	if c.metricsPool == nil {
		return
	}
	if vec, ok := c.statsReduced.Vector().(*prometheus.CounterVec); ok {
		vec.WithLabelValues().Inc()
	}
	c.metricsPool.CollectAll(context.Background())
}

// Broadcast publishes cmd to every worker.
func (c *Controller[S]) Broadcast(cmd Command) error {
	return c.b.Publish(c.cmdSubject, []byte(cmd))
}

// Pause, Resume, and Reset broadcast the corresponding command to all
// workers.
func (c *Controller[S]) Pause() error  { return c.Broadcast(CmdPause) }
func (c *Controller[S]) Resume() error { return c.Broadcast(CmdResume) }
func (c *Controller[S]) Reset() error  { return c.Broadcast(CmdReset) }

// Stop sends STOP to every worker, waits for each worker goroutine to exit,
// then tears down the stats subscription and waits for the reducer goroutine
// to drain. Stop is synchronous: when it returns, no worker thread and no
// reducer invocation outlives it.
func (c *Controller[S]) Stop() error {
	err := c.Broadcast(CmdStop)

	var g errgroup.Group
	for _, w := range c.workers {
		w := w
		g.Go(func() error {
			w.Stop()
			w.Wait()
			return nil
		})
	}
	_ = g.Wait()

	closeErr := c.statsSub.Close()
	<-c.reduceDone

	if c.metricsPool != nil {
		c.metricsPool.UnregisterAll(c.metricsReg)
	}

	if err != nil {
		return err
	}
	return closeErr
}
