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

// Command perfcored is the daemon binary: it parses flags/config, brings up
// logging and the embedded bus, registers whichever generator modules the
// operator enabled, and runs until asked to stop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sabouaram/perfcore/bootstrap"
	"github.com/sabouaram/perfcore/file/perm"
	"github.com/sabouaram/perfcore/gen/blockmod"
	"github.com/sabouaram/perfcore/gen/cpumod"
	"github.com/sabouaram/perfcore/gen/memmod"
	"github.com/sabouaram/perfcore/gen/netmod"
	"github.com/sabouaram/perfcore/gen/packetmod"
	"github.com/sabouaram/perfcore/options"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	app := bootstrap.New(nil)

	cmd := &cobra.Command{
		Use:           "perfcored",
		Short:         "perfcored drives configurable load generators over a shared runtime core",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, rawArgs []string) error {
			return run(app, rawArgs)
		},
	}

	if err := app.RegisterCoreOptions(); err != nil {
		panic(err)
	}
	if err := registerGeneratorOptions(app.Options); err != nil {
		panic(err)
	}

	// Every descriptor's flag already lives on app.Options' own pflag.FlagSet;
	// Execute's os.Args reach run() through RunE's rawArgs instead of cobra's
	// own flag parsing, since options.Registry owns parsing and validation.
	cmd.DisableFlagParsing = true

	return cmd
}

func run(app *bootstrap.App, argv []string) error {
	if err := app.Parse(argv); err != nil {
		return err
	}
	if err := app.StartLogging(os.Stdout); err != nil {
		return err
	}
	if err := app.StartBus(); err != nil {
		return err
	}
	if err := app.StartMetrics(app.Options.Get(bootstrap.OptMetricsAddr)); err != nil {
		return err
	}
	if err := app.StartCluster(); err != nil {
		return err
	}

	registerEnabledModules(app)

	if err := app.Bootstrap(); err != nil {
		_ = app.Shutdown()
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		app.Halt()
	}()

	app.WaitForHalt()

	for _, err := range app.Shutdown() {
		app.Log.Log(app.Log.GetLevel(), "shutdown", err.Error())
	}
	return nil
}

// registerGeneratorOptions adds one enabled/workers/rate triple per generator
// module, plus each module's domain-specific knobs, to reg.
func registerGeneratorOptions(reg *options.Registry) error {
	descs := []options.Descriptor{
		{Long: "gen.cpu.enabled", Kind: options.KindEnum, Usage: "run the CPU spin generator", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.cpu.workers", Kind: options.KindLong, Usage: "CPU generator worker count", Default: "1"},
		{Long: "gen.cpu.rate", Kind: options.KindFloat, Usage: "CPU generator spins per second", Default: "1000"},

		{Long: "gen.mem.enabled", Kind: options.KindEnum, Usage: "run the memory touch generator", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.mem.workers", Kind: options.KindLong, Usage: "memory generator worker count", Default: "1"},
		{Long: "gen.mem.rate", Kind: options.KindFloat, Usage: "memory generator touches per second", Default: "1000"},
		{Long: "gen.mem.buffer_bytes", Kind: options.KindLong, Usage: "memory generator buffer size in bytes", Default: "1048576"},

		{Long: "gen.net.enabled", Kind: options.KindEnum, Usage: "run the network round-trip generator", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.net.workers", Kind: options.KindLong, Usage: "network generator worker count", Default: "1"},
		{Long: "gen.net.rate", Kind: options.KindFloat, Usage: "network generator ops per second", Default: "100"},
		{Long: "gen.net.network", Kind: options.KindEnum, Usage: "network generator transport", Default: "tcp", Enum: []string{"tcp", "udp"}},
		{Long: "gen.net.address", Kind: options.KindString, Usage: "network generator target address", Default: "127.0.0.1:9000"},
		{Long: "gen.net.block_size", Kind: options.KindLong, Usage: "network generator bytes per operation", Default: "1024"},

		{Long: "gen.block.enabled", Kind: options.KindEnum, Usage: "run the file block-write generator", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.block.workers", Kind: options.KindLong, Usage: "block generator worker count", Default: "1"},
		{Long: "gen.block.rate", Kind: options.KindFloat, Usage: "block generator writes per second", Default: "100"},
		{Long: "gen.block.path", Kind: options.KindString, Usage: "block generator output file path prefix", Default: "/tmp/perfcore-block"},
		{Long: "gen.block.block_size", Kind: options.KindLong, Usage: "block generator bytes per write", Default: "65536"},
		{Long: "gen.block.total_bytes", Kind: options.KindLong, Usage: "block generator progress-bar total, 0 disables the bar", Default: "0"},
		{Long: "gen.block.show_bar", Kind: options.KindEnum, Usage: "show a terminal progress bar", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.block.file_mode", Kind: options.KindString, Usage: "output file permission, octal (0644) or symbolic (rw-r--r--)", Default: "0644"},

		{Long: "gen.packet.enabled", Kind: options.KindEnum, Usage: "run the UDP packet generator", Default: "false", Enum: []string{"true", "false"}},
		{Long: "gen.packet.workers", Kind: options.KindLong, Usage: "packet generator worker count", Default: "1"},
		{Long: "gen.packet.rate", Kind: options.KindFloat, Usage: "packet generator datagrams per second", Default: "1000"},
		{Long: "gen.packet.address", Kind: options.KindString, Usage: "packet generator target address", Default: "127.0.0.1:9001"},
		{Long: "gen.packet.packet_size", Kind: options.KindLong, Usage: "packet generator bytes per datagram", Default: "64"},
	}

	for _, d := range descs {
		if err := reg.Record(d); err != nil {
			return err
		}
	}
	return nil
}

func registerEnabledModules(app *bootstrap.App) {
	opt := app.Options

	if opt.Get("gen.cpu.enabled") == "true" {
		m := cpumod.NewModule("cpumod", app.Bus, cpumod.Config{
			Workers:       mustInt(opt.Get("gen.cpu.workers")),
			RatePerSecond: mustFloat(opt.Get("gen.cpu.rate")),
		})
		m.SetMetrics(app.Metrics)
		app.Modules.Record(m)
	}
	if opt.Get("gen.mem.enabled") == "true" {
		m := memmod.NewModule("memmod", app.Bus, memmod.Config{
			Workers:       mustInt(opt.Get("gen.mem.workers")),
			BufferBytes:   mustInt(opt.Get("gen.mem.buffer_bytes")),
			RatePerSecond: mustFloat(opt.Get("gen.mem.rate")),
		})
		m.SetMetrics(app.Metrics)
		app.Modules.Record(m)
	}
	if opt.Get("gen.net.enabled") == "true" {
		m := netmod.NewModule("netmod", app.Bus, mustInt(opt.Get("gen.net.workers")), netmod.Config{
			Network:       opt.Get("gen.net.network"),
			Address:       opt.Get("gen.net.address"),
			BlockSize:     mustInt(opt.Get("gen.net.block_size")),
			RatePerSecond: mustFloat(opt.Get("gen.net.rate")),
		})
		m.SetMetrics(app.Metrics)
		app.Modules.Record(m)
	}
	if opt.Get("gen.block.enabled") == "true" {
		m := blockmod.NewModule("blockmod", app.Bus, blockmod.ModuleConfig{
			Path:          opt.Get("gen.block.path"),
			BlockSize:     mustInt(opt.Get("gen.block.block_size")),
			TotalBytes:    int64(mustInt(opt.Get("gen.block.total_bytes"))),
			RatePerSecond: mustFloat(opt.Get("gen.block.rate")),
			ShowBar:       opt.Get("gen.block.show_bar") == "true",
			Workers:       mustInt(opt.Get("gen.block.workers")),
			FileMode:      mustFileMode(opt.Get("gen.block.file_mode")),
		})
		m.SetMetrics(app.Metrics)
		app.Modules.Record(m)
	}
	if opt.Get("gen.packet.enabled") == "true" {
		m := packetmod.NewModule("packetmod", app.Bus, mustInt(opt.Get("gen.packet.workers")), packetmod.Config{
			Address:       opt.Get("gen.packet.address"),
			PacketSize:    mustInt(opt.Get("gen.packet.packet_size")),
			RatePerSecond: mustFloat(opt.Get("gen.packet.rate")),
		})
		m.SetMetrics(app.Metrics)
		app.Modules.Record(m)
	}
}

// mustInt and mustFloat convert an options.Registry value. Parse does not
// check KindLong or KindFloat values, so a value that does not convert
// yields 0.
func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// mustFileMode parses an octal ("0644") or symbolic ("rw-r--r--") permission
// string. options.Registry does not check this KindString value at parse
// time, so a string perm.Parse rejects falls back to a private read-write
// mode rather than handing blockmod a zero (no-permission) file.
func mustFileMode(s string) perm.Perm {
	p, err := perm.Parse(s)
	if err != nil {
		return perm.ParseFileMode(0o600)
	}
	return p
}
