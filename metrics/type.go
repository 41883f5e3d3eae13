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
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType selects which client_golang vector kind a Metric builds.
type MetricType uint8

const (
	None MetricType = iota
	Counter
	Gauge
	Histogram
	Summary
)

func (t MetricType) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Histogram:
		return "histogram"
	case Summary:
		return "summary"
	default:
		return "none"
	}
}

// Register builds the client_golang vector collector described by m,
// without registering it against any registry yet.
func (t MetricType) Register(m Metric) (prometheus.Collector, error) {
	opts := prometheus.Opts{
		Name: m.GetName(),
		Help: m.GetDesc(),
	}
	labels := m.GetLabel()

	switch t {
	case Counter:
		return prometheus.NewCounterVec(prometheus.CounterOpts(opts), labels), nil
	case Gauge:
		return prometheus.NewGaugeVec(prometheus.GaugeOpts(opts), labels), nil
	case Histogram:
		ho := prometheus.HistogramOpts{Name: opts.Name, Help: opts.Help, Buckets: m.GetBuckets()}
		return prometheus.NewHistogramVec(ho, labels), nil
	case Summary:
		so := prometheus.SummaryOpts{Name: opts.Name, Help: opts.Help, Objectives: m.GetObjectives()}
		return prometheus.NewSummaryVec(so, labels), nil
	default:
		return nil, fmt.Errorf("metrics: cannot register a metric of type %s", t)
	}
}
