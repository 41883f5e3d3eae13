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

import "github.com/sabouaram/perfcore/options"

// Core option long names, also used as their viper/YAML config coordinates.
const (
	OptLogLevel       = "core.log.level"
	OptBusReadyWait   = "core.bus.ready_timeout"
	OptClusterEnabled = "core.cluster.enabled"
	OptClusterAddr    = "core.cluster.raft_address"
	OptClusterDataDir = "core.cluster.data_dir"
	OptMetricsAddr    = "core.metrics.addr"
)

// registerCoreOptions records the descriptors every perfcored instance
// exposes regardless of which generator modules it runs.
func registerCoreOptions(reg *options.Registry) error {
	descs := []options.Descriptor{
		{
			Long:    OptLogLevel,
			Short:   'l',
			Kind:    options.KindEnum,
			Usage:   "log level (critical, error, warning, info, debug, trace)",
			Default: "info",
			Enum:    []string{"critical", "error", "warning", "info", "debug", "trace"},
		},
		{
			Long:    OptBusReadyWait,
			Kind:    options.KindString,
			Usage:   "how long to wait for the embedded bus to become ready, as a duration string",
			Default: "5s",
		},
		{
			Long:    OptClusterEnabled,
			Kind:    options.KindEnum,
			Usage:   "enable Raft-backed multi-instance ownership coordination",
			Default: "false",
			Enum:    []string{"true", "false"},
		},
		{
			Long:    OptClusterAddr,
			Kind:    options.KindString,
			Usage:   "Raft address the ownership coordination node listens on",
			Default: "127.0.0.1:63001",
		},
		{
			Long:    OptClusterDataDir,
			Kind:    options.KindString,
			Usage:   "directory for ownership coordination Raft state, empty uses a temp dir",
			Default: "",
		},
		{
			Long:    OptMetricsAddr,
			Kind:    options.KindString,
			Usage:   "address to serve /metrics on, empty disables the endpoint",
			Default: "",
		},
	}

	for _, d := range descs {
		if err := reg.Record(d); err != nil {
			return err
		}
	}
	return nil
}
