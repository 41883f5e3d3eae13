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

import "sync/atomic"

const (
	idleVersion uint64 = 0
	baseVersion uint64 = 1
)

// Reader is one dispatch-path reader's checkpoint slot. Each Reader should
// be used by a single goroutine (typically one per receive queue); its
// version is written frequently by that goroutine and read rarely by the
// writer, so it is kept in its own allocation to avoid false sharing with
// neighboring readers.
type Reader struct {
	version atomic.Uint64
}

// Checkpoint records that this reader is about to begin walking a snapshot
// published at the depot's current writer version. GC callbacks scheduled
// at or after this version won't run until the reader checkpoints again or
// calls Idle.
func (r *Reader) Checkpoint(d *Depot) {
	r.version.Store(d.writerVersion.Load())
}

// Idle marks the reader as not currently holding any snapshot, excluding it
// from the writer's reclamation horizon until its next Checkpoint.
func (r *Reader) Idle() {
	r.version.Store(idleVersion)
}

// Depot implements quiescent-state-based reclamation: a writer publishes new
// snapshots and defers cleanup of retired ones (via a GC callback) until
// every registered reader has checked in at or past the version the
// callback was scheduled under. Writer-side methods are not safe for
// concurrent use; callers are expected to serialize snapshot publication
// through a single writer goroutine per Table, matching the single-writer
// assumption of the table itself.
type Depot struct {
	writerVersion atomic.Uint64
	callbacks     []versionedCallback
	readers       map[uint64]*Reader
}

type versionedCallback struct {
	version uint64
	fn      func()
}

// NewDepot returns a Depot with its writer clock at the base version.
func NewDepot() *Depot {
	d := &Depot{readers: make(map[uint64]*Reader)}
	d.writerVersion.Store(baseVersion)
	return d
}

// AddReader registers a new reader under readerID and returns its
// checkpoint slot. Writer-only.
func (d *Depot) AddReader(readerID uint64) *Reader {
	r := &Reader{}
	d.readers[readerID] = r
	return r
}

// RemoveReader unregisters a reader. Writer-only.
func (d *Depot) RemoveReader(readerID uint64) {
	delete(d.readers, readerID)
}

// AddGCCallback schedules fn to run once every currently registered reader
// has checked past the depot's current writer version, then advances that
// version. Writer-only.
func (d *Depot) AddGCCallback(fn func()) {
	d.callbacks = append(d.callbacks, versionedCallback{version: d.writerVersion.Load(), fn: fn})
	d.writerVersion.Add(1)
}

// ProcessGCCallbacks runs and drops every callback whose scheduled version
// is behind every active reader's last checkpoint. Writer-only; call
// periodically (e.g. once per event loop iteration) rather than on every
// snapshot publish, since reclamation need not be immediate.
func (d *Depot) ProcessGCCallbacks() {
	if len(d.callbacks) == 0 {
		return
	}

	horizon, ok := d.minActiveVersion()
	if !ok {
		// no active readers: everything scheduled so far is safe to run.
		for _, cb := range d.callbacks {
			cb.fn()
		}
		d.callbacks = d.callbacks[:0]
		return
	}

	remaining := d.callbacks[:0]
	for _, cb := range d.callbacks {
		if cb.version < horizon {
			cb.fn()
		} else {
			remaining = append(remaining, cb)
		}
	}
	d.callbacks = remaining
}

func (d *Depot) minActiveVersion() (uint64, bool) {
	min := uint64(0)
	found := false
	for _, r := range d.readers {
		v := r.version.Load()
		if v == idleVersion {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min, found
}

// Guard marks r as checkpointed at the depot's current version and returns
// a function that marks it idle again; callers use it as
// defer depot.Guard(reader)() to bracket a read the way the original RAII
// guard bracketed scope entry and exit.
func (d *Depot) Guard(r *Reader) func() {
	r.Checkpoint(d)
	return r.Idle
}
