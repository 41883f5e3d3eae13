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

package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricPool keeps named Metric descriptions and registers/unregisters them
// as a group against one Prometheus registry.
type MetricPool interface {
	Add(m Metric) error
	Get(name string) Metric
	Set(name string, m Metric)
	Del(name string)
	List() []Metric

	RegisterAll(reg prometheus.Registerer) error
	UnregisterAll(reg prometheus.Registerer)
	CollectAll(ctx context.Context)
}

type pool struct {
	mu   sync.RWMutex
	byID map[string]Metric
}

// NewPool returns an empty MetricPool.
func NewPool() MetricPool {
	return &pool{byID: make(map[string]Metric)}
}

// Add registers m under its own name, erroring if that name is already in
// use.
func (p *pool) Add(m Metric) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byID[m.GetName()]; exists {
		return fmt.Errorf("metrics: pool already has a metric named %q", m.GetName())
	}
	p.byID[m.GetName()] = m
	return nil
}

// Get returns the metric stored under name, or nil.
func (p *pool) Get(name string) Metric {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[name]
}

// Set stores m under name regardless of what was there before.
func (p *pool) Set(name string, m Metric) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[name] = m
}

// Del removes the metric stored under name, if any.
func (p *pool) Del(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, name)
}

// List returns every metric currently in the pool, in no particular order.
func (p *pool) List() []Metric {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Metric, 0, len(p.byID))
	for _, m := range p.byID {
		out = append(out, m)
	}
	return out
}

// RegisterAll builds and registers every pool member's collector against
// reg, stopping at the first error.
func (p *pool) RegisterAll(reg prometheus.Registerer) error {
	for _, m := range p.List() {
		vec, err := m.GetType().Register(m)
		if err != nil {
			return err
		}
		if err := m.Register(reg, vec); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterAll unregisters every pool member's collector from reg.
func (p *pool) UnregisterAll(reg prometheus.Registerer) {
	for _, m := range p.List() {
		m.UnRegister(reg)
	}
}

// CollectAll invokes every pool member's CollectFunc, if set.
func (p *pool) CollectAll(ctx context.Context) {
	for _, m := range p.List() {
		if fn := m.GetCollect(); fn != nil {
			fn(ctx, m)
		}
	}
}
