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

// Module is the interface every registered component implements. Each phase
// method is called once, in dependency order, before the registry moves on
// to the next phase across every module.
type Module interface {
	// Key is this module's unique registry name.
	Key() string
	// Dependencies lists the keys that must complete each phase before this
	// module runs that same phase.
	Dependencies() []string

	PreInit() error
	Init() error
	PostInit() error
	Start() error
	Finish() error
}

// Base is an embeddable no-op implementation of every Module phase except
// Key, so a concrete module only needs to override the phases it cares about.
type Base struct {
	key  string
	deps []string
}

// NewBase returns a Base registering under key with the given dependencies.
func NewBase(key string, deps ...string) Base {
	return Base{key: key, deps: deps}
}

func (b Base) Key() string            { return b.key }
func (b Base) Dependencies() []string { return b.deps }
func (b Base) PreInit() error         { return nil }
func (b Base) Init() error            { return nil }
func (b Base) PostInit() error        { return nil }
func (b Base) Start() error           { return nil }
func (b Base) Finish() error          { return nil }
