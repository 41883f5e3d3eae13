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

package bootstrap

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/sabouaram/perfcore/bus"
	"github.com/sabouaram/perfcore/cluster"
	"github.com/sabouaram/perfcore/eventloop"
	"github.com/sabouaram/perfcore/logbus"
	"github.com/sabouaram/perfcore/modules"
	"github.com/sabouaram/perfcore/options"
)

// ControlSubject is the bus subject App's reactor listens on for
// administrative commands ("shutdown") independent of any one generator
// module's own command subject.
const ControlSubject = "perfcore.control"

// App wires the options registry, embedded bus, log bus, event-loop reactor,
// and module registry into perfcored's startup/shutdown sequence.
type App struct {
	Options *options.Registry
	Modules *modules.Registry
	Log     *logbus.Bus

	// Metrics is the Prometheus registry every generator module's
	// controller registers its counters and gauges against, given to
	// modules.Module implementations via a SetMetrics call before Start.
	Metrics *prometheus.Registry

	// Cluster is the ownership-coordination node started by StartCluster when
	// OptClusterEnabled is set. It stays nil when ownership coordination is
	// disabled, which is the default.
	Cluster *cluster.Coordinator

	busSrv     *bus.Server
	Bus        *bus.Bus
	loop       *eventloop.Loop
	metricsSrv *http.Server

	halted   atomic.Bool
	haltOnce sync.Once
	haltCh   chan struct{}
}

// New builds an App with an empty options registry bound to v (nil creates a
// fresh viper.Viper), an empty module registry, and its own Prometheus
// registry. RegisterCoreOptions, StartLogging, and StartBus must still be
// called before Bootstrap.
func New(v *viper.Viper) *App {
	return &App{
		Options: options.NewRegistry(v),
		Modules: modules.NewRegistry(),
		Metrics: prometheus.NewRegistry(),
		haltCh:  make(chan struct{}),
	}
}

// RegisterCoreOptions records the core.* descriptors (log level, bus ready
// timeout, cluster enablement) every perfcored instance exposes.
func (a *App) RegisterCoreOptions() error {
	return registerCoreOptions(a.Options)
}

// Parse resolves argv (typically os.Args[1:]) against every registered
// descriptor.
func (a *App) Parse(argv []string) error {
	return a.Options.Parse(argv)
}

// StartLogging brings up the log bus at the level resolved from
// OptLogLevel, writing formatted JSON lines to w.
func (a *App) StartLogging(w io.Writer) error {
	level, err := logbus.ParseLevel(a.Options.Get(OptLogLevel))
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	a.Log = logbus.New(w, level)
	a.Log.Start()
	cluster.SetLogBus(a.Log)
	return nil
}

// StartBus brings up the embedded NATS server, connects one client to it,
// and starts the event-loop reactor listening on ControlSubject.
func (a *App) StartBus() error {
	wait := 5 * time.Second
	if raw := a.Options.Get(OptBusReadyWait); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			wait = d
		}
	}

	srv, err := bus.NewServer(nil)
	if err != nil {
		return fmt.Errorf("bootstrap: start embedded bus: %w", err)
	}
	if err := srv.Start(wait); err != nil {
		return fmt.Errorf("bootstrap: bus not ready: %w", err)
	}
	a.busSrv = srv

	nc, err := srv.Connect()
	if err != nil {
		return fmt.Errorf("bootstrap: connect to embedded bus: %w", err)
	}
	a.Bus = bus.New(nc)

	loop, err := eventloop.NewLoop()
	if err != nil {
		return fmt.Errorf("bootstrap: start reactor: %w", err)
	}
	a.loop = loop

	sub, err := a.Bus.Subscribe(ControlSubject)
	if err != nil {
		return fmt.Errorf("bootstrap: subscribe control subject: %w", err)
	}

	_, mb, err := loop.AddSocket(sub.Messages, eventloop.Callbacks{
		OnRead: func(_ eventloop.Handle, _ any) int {
			for {
				b, ok := mb.TryRecv()
				if !ok {
					break
				}
				if string(b) == "shutdown" {
					a.Halt()
				}
			}
			return 0
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("bootstrap: register control socket: %w", err)
	}

	go func() { _, _ = loop.RunForever() }()

	return nil
}

// StartMetrics serves a.Metrics at /metrics over addr in a background
// goroutine. An empty addr leaves the endpoint disabled, which is the
// default: generator modules still update their own counters and gauges
// against a.Metrics either way, this only controls whether anything can
// scrape them.
func (a *App) StartMetrics(addr string) error {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	a.metricsSrv = srv

	go func() { _ = srv.ListenAndServe() }()
	return nil
}

// Bootstrap claims ownership of every module key (when ownership coordination
// is enabled) and then runs every registered module through its five init
// phases.
func (a *App) Bootstrap() error {
	if err := a.claimModules(); err != nil {
		return err
	}
	return a.Modules.Bootstrap()
}

// WaitForHalt blocks until Halt is called, typically from a signal handler
// installed by cmd/perfcored or from the control-subject reactor callback.
func (a *App) WaitForHalt() {
	<-a.haltCh
}

// Halt marks the application as shutting down and unblocks WaitForHalt. It
// is safe to call more than once or concurrently.
func (a *App) Halt() {
	a.haltOnce.Do(func() {
		a.halted.Store(true)
		close(a.haltCh)
	})
}

// Halted reports whether Halt has been called.
func (a *App) Halted() bool {
	return a.halted.Load()
}

// Shutdown runs every module's Finish hook, then tears down the reactor, bus,
// and log bus in reverse bring-up order. Module Finish errors are collected,
// not fatal, so teardown always completes.
func (a *App) Shutdown() []error {
	errs := a.Modules.Finish()
	errs = append(errs, a.releaseModules()...)

	if a.Cluster != nil {
		a.Cluster.Close()
	}
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap: close metrics server: %w", err))
		}
	}
	if a.loop != nil {
		if err := a.loop.Close(); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap: close reactor: %w", err))
		}
	}
	if a.Bus != nil {
		a.Bus.Close()
	}
	if a.busSrv != nil {
		a.busSrv.Shutdown()
	}
	if a.Log != nil {
		a.Log.Close()
	}

	return errs
}
