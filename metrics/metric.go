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

// CollectFunc refreshes a metric's values against live state; SetCollect
// registers one to be invoked by whatever drives periodic collection (a
// generator Controller's reducer, typically).
type CollectFunc func(ctx context.Context, metric Metric)

// Metric is a named, typed Prometheus metric description that can build and
// register its own collector against a registry, and that a Collect
// callback can later push live samples through.
type Metric interface {
	GetName() string
	GetType() MetricType
	GetDesc() string
	SetDesc(desc string)
	GetLabel() []string
	SetLabel(labels ...string)
	GetBuckets() []float64
	SetBuckets(buckets ...float64)
	GetObjectives() map[float64]float64
	SetObjectives(objectives map[float64]float64)
	GetCollect() CollectFunc
	SetCollect(fn CollectFunc)
	Vector() prometheus.Collector

	Register(reg prometheus.Registerer, vec prometheus.Collector) error
	UnRegister(reg prometheus.Registerer) bool
}

type metric struct {
	mu         sync.RWMutex
	name       string
	kind       MetricType
	desc       string
	labels     []string
	buckets    []float64
	objectives map[float64]float64
	collect    CollectFunc
	vec        prometheus.Collector
}

// NewMetrics describes a new metric named name of the given type. It is not
// registered against anything until Register is called.
func NewMetrics(name string, kind MetricType) Metric {
	return &metric{name: name, kind: kind}
}

func (m *metric) GetName() string     { return m.name }
func (m *metric) GetType() MetricType { return m.kind }

func (m *metric) GetDesc() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.desc
}

func (m *metric) SetDesc(desc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.desc = desc
}

func (m *metric) GetLabel() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.labels
}

func (m *metric) SetLabel(labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = labels
}

func (m *metric) GetBuckets() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buckets
}

func (m *metric) SetBuckets(buckets ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets = buckets
}

func (m *metric) GetObjectives() map[float64]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objectives
}

func (m *metric) SetObjectives(objectives map[float64]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objectives = objectives
}

func (m *metric) GetCollect() CollectFunc {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect
}

func (m *metric) SetCollect(fn CollectFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collect = fn
}

func (m *metric) Vector() prometheus.Collector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vec
}

// Register registers vec (as built by GetType().Register) against reg and
// remembers it so UnRegister can find it again later.
func (m *metric) Register(reg prometheus.Registerer, vec prometheus.Collector) error {
	if vec == nil {
		return fmt.Errorf("metrics: cannot register a nil collector for %q", m.name)
	}
	if err := reg.Register(vec); err != nil {
		return fmt.Errorf("metrics: register %q: %w", m.name, err)
	}
	m.mu.Lock()
	m.vec = vec
	m.mu.Unlock()
	return nil
}

// UnRegister removes this metric's collector from reg, returning false if
// it had never been registered.
func (m *metric) UnRegister(reg prometheus.Registerer) bool {
	m.mu.Lock()
	vec := m.vec
	m.vec = nil
	m.mu.Unlock()

	if vec == nil {
		return false
	}
	return reg.Unregister(vec)
}
