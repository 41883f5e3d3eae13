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

package options

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Registry owns every registered Descriptor plus the flag set and viper
// instance they're bound to. A module registers its options once, at
// construction time, via Record; Parse then resolves CLI, then config file,
// for every descriptor in one pass.
type Registry struct {
	mu    sync.Mutex
	descs []Descriptor
	flags *pflag.FlagSet
	v     *viper.Viper
}

// NewRegistry returns an empty registry bound to v (config-file values) and a
// fresh flag set (CLI values); v may be nil, in which case config-file
// lookups always miss and only CLI/defaults apply.
func NewRegistry(v *viper.Viper) *Registry {
	if v == nil {
		v = viper.New()
	}
	return &Registry{
		flags: pflag.NewFlagSet("perfcore", pflag.ContinueOnError),
		v:     v,
	}
}

// Record registers d, wiring its long (and, if set, short) flag into the
// registry's flag set. Each Long name also becomes its viper binding path.
func (r *Registry) Record(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Long == "" {
		return fmt.Errorf("options: descriptor requires a Long name")
	}

	shorthand := ""
	if d.Short != 0 {
		shorthand = string(d.Short)
	}

	switch d.Kind {
	case KindListString:
		r.flags.StringSliceP(d.Long, shorthand, nil, d.Usage)
	case KindMapString:
		r.flags.StringToStringP(d.Long, shorthand, nil, d.Usage)
	default:
		r.flags.StringP(d.Long, shorthand, d.Default, d.Usage)
	}

	if err := r.v.BindPFlag(d.Long, r.flags.Lookup(d.Long)); err != nil {
		return fmt.Errorf("options: bind %q: %w", d.Long, err)
	}
	if d.Default != "" {
		r.v.SetDefault(d.Long, d.Default)
	}

	r.descs = append(r.descs, d)
	return nil
}

// Parse runs argv (typically os.Args[1:]) through the flag set, then
// validates every KindEnum descriptor's resolved value against its allowed
// set, and every KindHex descriptor's value as a hex literal.
func (r *Registry) Parse(argv []string) error {
	r.mu.Lock()
	descs := append([]Descriptor(nil), r.descs...)
	r.mu.Unlock()

	if err := r.flags.Parse(argv); err != nil {
		return fmt.Errorf("options: parse arguments: %w", err)
	}

	for _, d := range descs {
		val := r.v.GetString(d.Long)
		switch d.Kind {
		case KindEnum:
			if val == "" {
				continue
			}
			ok := false
			for _, e := range d.Enum {
				if strings.EqualFold(e, val) {
					ok = true
					break
				}
			}
			if !ok {
				return fmt.Errorf("options: %q: %q is not one of %v", d.Long, val, d.Enum)
			}
		case KindHex:
			if val == "" {
				continue
			}
			trimmed := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
			for _, c := range trimmed {
				if !isHexDigit(byte(c)) {
					return fmt.Errorf("options: %q: %q is not a valid hex value", d.Long, val)
				}
			}
		}
	}

	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Get returns the string value currently bound to long, resolved in CLI →
// config-file → default order by viper.
func (r *Registry) Get(long string) string {
	return r.v.GetString(long)
}

// GetList returns the string-slice value bound to long.
func (r *Registry) GetList(long string) []string {
	return r.v.GetStringSlice(long)
}

// GetMap returns the string-to-string map value bound to long.
func (r *Registry) GetMap(long string) map[string]string {
	return r.v.GetStringMapString(long)
}

// Descriptors returns a snapshot of every registered Descriptor.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Descriptor(nil), r.descs...)
}
