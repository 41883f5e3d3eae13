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

package logbus

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sabouaram/perfcore/corehash"
)

// Record is one producer's log line. Producers never block: Bus.Log enqueues
// lossily once the formatter is saturated.
type Record struct {
	Level Level
	Tag   string
	Msg   string
	Time  time.Time
}

// producerSocket is one tag's registration in Bus.producers. Log consults
// closed before enqueuing so a producer whose socket Close already tore
// down stops contributing records immediately, rather than racing the
// formatter goroutine's own shutdown.
type producerSocket struct {
	tag    string
	closed atomic.Bool
}

// Bus fans records from any number of producer goroutines into a single
// logrus formatter, emitting UTC JSON lines. Its own Level gate drops
// records above the current threshold at the producer, before they are even
// enqueued, matching the contract that filtering happens at the source.
// Every distinct tag that logs through Log gets one producerSocket, lazily
// registered in a shared corehash table so Close can walk it and mark every
// producer closed in one pass, instead of tracking producers through some
// side channel each module would otherwise need to wire up itself.
type Bus struct {
	level atomic.Uint32

	log *logrus.Logger

	mu        sync.Mutex
	records   chan Record
	done      chan struct{}
	wg        sync.WaitGroup
	producers *corehash.Table[string, *producerSocket]
}

// New creates a Bus writing formatted JSON lines to w at the given initial
// level. Start must be called before Log has any effect.
func New(w io.Writer, level Level) *Bus {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	l.SetLevel(level.Logrus())

	b := &Bus{
		log:       l,
		records:   make(chan Record, 4096),
		done:      make(chan struct{}),
		producers: corehash.New[string, *producerSocket](),
	}
	b.level.Store(uint32(level))
	return b
}

// socketFor returns tag's registered producerSocket, registering a new one
// the first time tag is seen. A lost race against a concurrent first-Log
// from the same tag just means re-Finding the winner's socket.
func (b *Bus) socketFor(tag string) *producerSocket {
	if s, ok := b.producers.Find(tag); ok {
		return s
	}
	s := &producerSocket{tag: tag}
	if b.producers.Insert(tag, s) {
		return s
	}
	s, _ = b.producers.Find(tag)
	return s
}

// Start spawns the formatter goroutine and returns once it has acknowledged
// readiness, matching the synchronous-init contract producers rely on before
// they start calling Log.
func (b *Bus) Start() {
	ready := make(chan struct{})
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		close(ready)
		for {
			select {
			case rec, ok := <-b.records:
				if !ok {
					return
				}
				b.emit(rec)
			case <-b.done:
				b.drain()
				return
			}
		}
	}()
	<-ready
}

func (b *Bus) drain() {
	for {
		select {
		case rec, ok := <-b.records:
			if !ok {
				return
			}
			b.emit(rec)
		default:
			return
		}
	}
}

func (b *Bus) emit(rec Record) {
	entry := b.log.WithField("tag", rec.Tag).WithTime(rec.Time.UTC())
	switch rec.Level {
	case Critical:
		entry.Error(rec.Msg) // logrus.Fatal would os.Exit; Critical here is "highest severity", not process-ending
	case Error:
		entry.Error(rec.Msg)
	case Warning:
		entry.Warn(rec.Msg)
	case Info:
		entry.Info(rec.Msg)
	case Debug:
		entry.Debug(rec.Msg)
	case Trace:
		entry.Trace(rec.Msg)
	}
}

// Log enqueues a record if it passes the current level gate and its tag's
// socket hasn't been closed. It never blocks: once the queue is saturated
// the record is dropped.
func (b *Bus) Log(level Level, tag, msg string) {
	if level > Level(b.level.Load()) {
		return
	}
	if b.socketFor(tag).closed.Load() {
		return
	}
	select {
	case b.records <- Record{Level: level, Tag: tag, Msg: msg, Time: time.Now()}:
	default:
	}
}

// SetLevel atomically updates the level gate.
func (b *Bus) SetLevel(level Level) {
	b.level.Store(uint32(level))
	b.log.SetLevel(level.Logrus())
}

// GetLevel atomically reads the current level gate.
func (b *Bus) GetLevel() Level {
	return Level(b.level.Load())
}

// Close marks every registered producer socket closed, so any producer
// still holding a reference to this Bus stops enqueuing immediately, then
// stops the formatter goroutine after draining whatever is currently
// queued.
func (b *Bus) Close() {
	for _, p := range b.producers.Iterate() {
		p.Value.closed.Store(true)
	}
	close(b.done)
	b.wg.Wait()
}
