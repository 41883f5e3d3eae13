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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/perfcore/bus"
	"github.com/sabouaram/perfcore/generator"
	"github.com/sabouaram/perfcore/modules"
)

// Config selects how many memory-load workers to run, how large a buffer
// each touches, and at what rate.
type Config struct {
	Workers       int
	BufferBytes   int
	RatePerSecond float64
}

// Module registers a memmod generator.Controller as a perfcore component.
type Module struct {
	modules.Base
	cfg       Config
	b         *bus.Bus
	ctl       *generator.Controller[Stats]
	metricsTo prometheus.Registerer
}

// NewModule builds a memory-load module over b, named key in the module
// registry.
func NewModule(key string, b *bus.Bus, cfg Config) *Module {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Module{Base: modules.NewBase(key), cfg: cfg, b: b}
}

// SetMetrics points this module's controller at reg; it must be called
// before Start to take effect.
func (m *Module) SetMetrics(reg prometheus.Registerer) {
	m.metricsTo = reg
}

// Start spawns the configured worker pool, each running an independent
// memmod Task over its own buffer.
func (m *Module) Start() error {
	ctl, err := generator.NewController[Stats](
		m.b, m.cmdSubject(), m.statsSubject(), m.cfg.Workers,
		func(_ int) generator.Task[Stats] { return NewTask(m.cfg.BufferBytes, m.cfg.RatePerSecond, time.Second) },
		nil,
	)
	if err != nil {
		return err
	}
	m.ctl = ctl
	if m.metricsTo != nil {
		if err := ctl.EnableMetrics(m.metricsTo); err != nil {
			return err
		}
	}
	ctl.Start(func(_ int, _ Stats) {})
	return nil
}

// Finish stops every worker synchronously.
func (m *Module) Finish() error {
	if m.ctl == nil {
		return nil
	}
	return m.ctl.Stop()
}

func (m *Module) cmdSubject() string   { return "perfcore." + m.Key() + ".cmd" }
func (m *Module) statsSubject() string { return "perfcore." + m.Key() + ".stats" }
