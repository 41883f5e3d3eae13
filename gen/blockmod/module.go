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

package blockmod

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/perfcore/bus"
	"github.com/sabouaram/perfcore/file/perm"
	"github.com/sabouaram/perfcore/generator"
	"github.com/sabouaram/perfcore/modules"
)

// ModuleConfig describes the shared write target and rate every worker's Task is
// built from. Each worker writes to its own file, named by appending its
// worker index to cfg.Path, so that concurrent workers never race on the
// same descriptor.
type ModuleConfig struct {
	Path          string
	BlockSize     int
	TotalBytes    int64
	RatePerSecond float64
	ShowBar       bool
	Workers       int
	FileMode      perm.Perm
}

// Module registers a blockmod generator.Controller as a perfcore component.
type Module struct {
	modules.Base
	cfg       ModuleConfig
	b         *bus.Bus
	ctl       *generator.Controller[Stats]
	errs      []error
	metricsTo prometheus.Registerer
}

// NewModule builds a file-write load module over b, named key in the
// module registry.
func NewModule(key string, b *bus.Bus, cfg ModuleConfig) *Module {
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

// Start spawns the configured worker pool, each writing to its own file.
func (m *Module) Start() error {
	ctl, err := generator.NewController[Stats](
		m.b, m.cmdSubject(), m.statsSubject(), m.cfg.Workers,
		func(workerID int) generator.Task[Stats] {
			t, taskErr := NewTask(Config{
				Path:          fmt.Sprintf("%s.%d", m.cfg.Path, workerID),
				BlockSize:     m.cfg.BlockSize,
				TotalBytes:    m.cfg.TotalBytes,
				RatePerSecond: m.cfg.RatePerSecond,
				ShowBar:       m.cfg.ShowBar,
				FileMode:      m.cfg.FileMode,
			})
			if taskErr != nil {
				// Task construction has no error return in the
				// generator.TaskFactory signature; record the failure and
				// fall back to a task with default settings writing to
				// "<path>.<workerID>.fallback" beside the configured path.
				// If that file cannot be opened either, t stays nil.
				m.errs = append(m.errs, taskErr)
				t, _ = NewTask(Config{Path: fmt.Sprintf("%s.%d.fallback", m.cfg.Path, workerID)})
			}
			return t
		},
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

// Finish stops every worker synchronously and closes their files.
func (m *Module) Finish() error {
	if m.ctl == nil {
		return nil
	}
	return m.ctl.Stop()
}

func (m *Module) cmdSubject() string   { return "perfcore." + m.Key() + ".cmd" }
func (m *Module) statsSubject() string { return "perfcore." + m.Key() + ".stats" }
