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

package modules

import (
	"fmt"
	"sync"
)

// Registry holds every registered Module and drives them through the five
// bootstrap phases in dependency order.
type Registry struct {
	mu   sync.Mutex
	mods map[string]Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{mods: make(map[string]Module)}
}

// Record registers m under its own Key, replacing any previous registration
// with that key.
func (r *Registry) Record(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods[m.Key()] = m
}

// Get returns the module registered under key, if any.
func (r *Registry) Get(key string) (Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mods[key]
	return m, ok
}

// Order returns every registered module's key, topologically sorted so a
// module's dependencies always precede it.
func (r *Registry) Order() []string {
	r.mu.Lock()
	deps := make(map[string][]string, len(r.mods))
	keys := make([]string, 0, len(r.mods))
	for k, m := range r.mods {
		keys = append(keys, k)
		deps[k] = m.Dependencies()
	}
	r.mu.Unlock()

	return orderDependencies(deps, keys)
}

func orderDependencies(list map[string][]string, keys []string) []string {
	res := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))

	var visit func(k string)
	visit = func(k string) {
		if _, ok := list[k]; !ok || seen[k] {
			return
		}
		for _, d := range list[k] {
			visit(d)
		}
		if !seen[k] {
			seen[k] = true
			res = append(res, k)
		}
	}

	for _, k := range keys {
		visit(k)
	}
	return res
}

// Bootstrap runs every module through PreInit, Init, PostInit, and Start, in
// dependency order, phase by phase across all modules (every module's
// PreInit runs before any module's Init, and so on).
//
// A non-nil error from any of these phases aborts bootstrap immediately.
// Bootstrap does not call Finish; Registry.Finish runs it separately, for
// every module, collecting its errors rather than stopping on them.
func (r *Registry) Bootstrap() error {
	order := r.Order()

	phases := []struct {
		name string
		run  func(Module) error
	}{
		{"pre_init", Module.PreInit},
		{"init", Module.Init},
		{"post_init", Module.PostInit},
		{"start", Module.Start},
	}

	for _, p := range phases {
		for _, key := range order {
			m, ok := r.Get(key)
			if !ok {
				continue
			}
			if err := p.run(m); err != nil {
				return fmt.Errorf("modules: %s phase failed for %q: %w", p.name, key, err)
			}
		}
	}
	return nil
}

// Finish runs every module's Finish hook in reverse dependency order,
// collecting (but not stopping on) errors.
func (r *Registry) Finish() []error {
	order := r.Order()
	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		m, ok := r.Get(order[i])
		if !ok {
			continue
		}
		if err := m.Finish(); err != nil {
			errs = append(errs, fmt.Errorf("modules: finish failed for %q: %w", order[i], err))
		}
	}
	return errs
}
