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

package forwarding

import (
	"fmt"
	"sync/atomic"
)

// Direction selects which of an interface's sink lists to operate on.
type Direction int

const (
	RX Direction = iota
	TX
)

// interfaceSinks is the per-interface record held inside one port's
// snapshot: the interface handle itself plus its receive- and
// transmit-direction sink lists.
type interfaceSinks[Iface any, Sink any] struct {
	ifp     Iface
	rxSinks []Sink
	txSinks []Sink
}

// snapshot is one immutable, fully-built view of a port's forwarding state.
// Readers load a *snapshot once per dispatch pass and never see it mutate
// out from under them; writers build a new snapshot from a shallow copy of
// the old one and swap it in wholesale.
type snapshot[Iface any, Sink any] struct {
	interfaces map[MAC]*interfaceSinks[Iface, Sink]
	sinks      []Sink
}

func emptySnapshot[Iface any, Sink any]() *snapshot[Iface, Sink] {
	return &snapshot[Iface, Sink]{interfaces: make(map[MAC]*interfaceSinks[Iface, Sink])}
}

// clone returns a shallow copy of s suitable as the basis for the next
// published snapshot: the interfaces map is copied (so inserts/deletes
// don't alias the live snapshot readers may be walking) but the
// interfaceSinks values and sink slices inside it are only replaced, never
// mutated in place.
func (s *snapshot[Iface, Sink]) clone() *snapshot[Iface, Sink] {
	cp := &snapshot[Iface, Sink]{
		interfaces: make(map[MAC]*interfaceSinks[Iface, Sink], len(s.interfaces)),
		sinks:      append([]Sink(nil), s.sinks...),
	}
	for k, v := range s.interfaces {
		cp.interfaces[k] = v
	}
	return cp
}

// Table maps, per port, MAC addresses to interfaces and interfaces to the
// sinks interested in their traffic. All mutation methods assume a single
// writer (the port's control-plane goroutine); FindInterface, GetSinks, and
// the other read methods are lock-free and safe for concurrent dispatch-path
// callers.
type Table[Iface any, Sink any] struct {
	ports     []atomic.Pointer[snapshot[Iface, Sink]]
	depot     *Depot
	reclaimed atomic.Int64
}

// NewTable builds a table for maxPorts ports, reclaiming retired snapshots
// through depot.
func NewTable[Iface any, Sink any](maxPorts int, depot *Depot) *Table[Iface, Sink] {
	t := &Table[Iface, Sink]{
		ports: make([]atomic.Pointer[snapshot[Iface, Sink]], maxPorts),
		depot: depot,
	}
	empty := emptySnapshot[Iface, Sink]()
	for i := range t.ports {
		t.ports[i].Store(empty)
	}
	return t
}

// ReclaimedCount returns how many retired snapshots the depot has freed so
// far; tests use it to confirm reclamation actually happens once readers
// checkpoint past a retirement.
func (t *Table[Iface, Sink]) ReclaimedCount() int64 {
	return t.reclaimed.Load()
}

func (t *Table[Iface, Sink]) load(port int) (*snapshot[Iface, Sink], error) {
	if port < 0 || port >= len(t.ports) {
		return nil, fmt.Errorf("forwarding: port %d out of range", port)
	}
	return t.ports[port].Load(), nil
}

// publish swaps next into port and schedules the snapshot it replaced for
// depot-gated reclamation.
func (t *Table[Iface, Sink]) publish(port int, next *snapshot[Iface, Sink]) {
	old := t.ports[port].Swap(next)
	if t.depot == nil {
		return
	}
	_ = old
	t.depot.AddGCCallback(func() {
		t.reclaimed.Add(1)
	})
}

// InsertInterface adds or replaces the interface bound to mac on port.
func (t *Table[Iface, Sink]) InsertInterface(port int, mac MAC, ifp Iface) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	next := cur.clone()
	existing, ok := next.interfaces[mac]
	entry := &interfaceSinks[Iface, Sink]{ifp: ifp}
	if ok {
		entry.rxSinks = existing.rxSinks
		entry.txSinks = existing.txSinks
	}
	next.interfaces[mac] = entry
	t.publish(port, next)
	return nil
}

// RemoveInterface unbinds mac from port, dropping any sinks registered
// against that interface.
func (t *Table[Iface, Sink]) RemoveInterface(port int, mac MAC) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	if _, ok := cur.interfaces[mac]; !ok {
		return nil
	}
	next := cur.clone()
	delete(next.interfaces, mac)
	t.publish(port, next)
	return nil
}

// InsertSink registers sink against port as a whole, independent of any
// specific interface.
func (t *Table[Iface, Sink]) InsertSink(port int, sink Sink) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	next := cur.clone()
	next.sinks = append(next.sinks, sink)
	t.publish(port, next)
	return nil
}

// RemoveSink drops the first port-wide sink for which eq returns true.
func (t *Table[Iface, Sink]) RemoveSink(port int, eq func(Sink) bool) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	idx := -1
	for i, s := range cur.sinks {
		if eq(s) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	next := cur.clone()
	next.sinks = append(next.sinks[:idx], next.sinks[idx+1:]...)
	t.publish(port, next)
	return nil
}

// InsertInterfaceSink registers sink for dir-direction traffic on the
// interface bound to mac, creating the interface binding if it doesn't
// already exist.
func (t *Table[Iface, Sink]) InsertInterfaceSink(port int, mac MAC, ifp Iface, dir Direction, sink Sink) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	next := cur.clone()
	existing, ok := next.interfaces[mac]
	entry := &interfaceSinks[Iface, Sink]{ifp: ifp}
	if ok {
		entry.ifp = existing.ifp
		entry.rxSinks = append([]Sink(nil), existing.rxSinks...)
		entry.txSinks = append([]Sink(nil), existing.txSinks...)
	}
	switch dir {
	case RX:
		entry.rxSinks = append(entry.rxSinks, sink)
	case TX:
		entry.txSinks = append(entry.txSinks, sink)
	}
	next.interfaces[mac] = entry
	t.publish(port, next)
	return nil
}

// RemoveInterfaceSink drops the first dir-direction sink on mac's interface
// for which eq returns true.
func (t *Table[Iface, Sink]) RemoveInterfaceSink(port int, mac MAC, dir Direction, eq func(Sink) bool) error {
	cur, err := t.load(port)
	if err != nil {
		return err
	}
	existing, ok := cur.interfaces[mac]
	if !ok {
		return nil
	}

	list := existing.rxSinks
	if dir == TX {
		list = existing.txSinks
	}
	idx := -1
	for i, s := range list {
		if eq(s) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := cur.clone()
	entry := &interfaceSinks[Iface, Sink]{
		ifp:     existing.ifp,
		rxSinks: append([]Sink(nil), existing.rxSinks...),
		txSinks: append([]Sink(nil), existing.txSinks...),
	}
	if dir == RX {
		entry.rxSinks = append(entry.rxSinks[:idx], entry.rxSinks[idx+1:]...)
	} else {
		entry.txSinks = append(entry.txSinks[:idx], entry.txSinks[idx+1:]...)
	}
	next.interfaces[mac] = entry
	t.publish(port, next)
	return nil
}

// FindInterface returns the interface bound to mac on port, if any.
func (t *Table[Iface, Sink]) FindInterface(port int, mac MAC) (Iface, bool) {
	var zero Iface
	cur, err := t.load(port)
	if err != nil {
		return zero, false
	}
	entry, ok := cur.interfaces[mac]
	if !ok {
		return zero, false
	}
	return entry.ifp, true
}

// GetSinks returns port's port-wide sinks.
func (t *Table[Iface, Sink]) GetSinks(port int) []Sink {
	cur, err := t.load(port)
	if err != nil {
		return nil
	}
	return cur.sinks
}

// HasInterfaceSinks reports whether port has at least one interface with a
// registered sink in either direction.
func (t *Table[Iface, Sink]) HasInterfaceSinks(port int) bool {
	cur, err := t.load(port)
	if err != nil {
		return false
	}
	for _, e := range cur.interfaces {
		if len(e.rxSinks) > 0 || len(e.txSinks) > 0 {
			return true
		}
	}
	return false
}

// FindInterfaceSinks returns mac's dir-direction sinks on port.
func (t *Table[Iface, Sink]) FindInterfaceSinks(port int, mac MAC, dir Direction) ([]Sink, bool) {
	cur, err := t.load(port)
	if err != nil {
		return nil, false
	}
	entry, ok := cur.interfaces[mac]
	if !ok {
		return nil, false
	}
	if dir == RX {
		return entry.rxSinks, true
	}
	return entry.txSinks, true
}

// VisitInterfaceSinks calls visit for every (interface, sink) pair
// registered for dir-direction traffic on port, stopping early if visit
// returns false. Like the bulk accessors above, it is intended for
// control-plane use, not the hot dispatch path.
func (t *Table[Iface, Sink]) VisitInterfaceSinks(port int, dir Direction, visit func(ifp Iface, sink Sink) bool) {
	cur, err := t.load(port)
	if err != nil {
		return
	}
	for _, entry := range cur.interfaces {
		list := entry.rxSinks
		if dir == TX {
			list = entry.txSinks
		}
		for _, sink := range list {
			if !visit(entry.ifp, sink) {
				return
			}
		}
	}
}
