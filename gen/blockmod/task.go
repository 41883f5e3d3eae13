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
	"io"
	"os"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/sabouaram/perfcore/file/perm"
	"github.com/sabouaram/perfcore/file/progress"
	"github.com/sabouaram/perfcore/generator"
)

// defaultFileMode is used when a Config leaves FileMode at its zero value,
// which Perm.FileMode would otherwise turn into a no-permission file.
var defaultFileMode = perm.ParseFileMode(0o644)

// Stats is one Spin's accumulated write counters.
type Stats struct {
	BytesWritten int64 `json:"bytes_written"`
	Errors       int64 `json:"errors"`
}

// Config describes the target file, block size, and total size a Task
// writes toward.
type Config struct {
	Path          string
	BlockSize     int
	TotalBytes    int64
	RatePerSecond float64
	ShowBar       bool
	FileMode      perm.Perm
}

// Task writes fixed-size blocks to a file opened through the progress
// package, which calls back into Task's byte counter on every write.
type Task struct {
	cfg     Config
	rl      *generator.RateLimiter
	file    progress.Progress
	payload []byte
	written atomic.Int64
	errs    atomic.Int64
	bar     *mpb.Bar
	prog    *mpb.Progress
}

// NewTask opens (creating if necessary) cfg.Path and prepares a block
// generator against it. If cfg.ShowBar is set and cfg.TotalBytes > 0, a
// terminal progress bar tracks bytes written.
func NewTask(cfg Config) (*Task, error) {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = 64 * 1024
	}
	mode := cfg.FileMode
	if mode == 0 {
		mode = defaultFileMode
	}

	f, err := progress.New(cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.FileMode())
	if err != nil {
		return nil, err
	}

	t := &Task{
		cfg:     cfg,
		rl:      generator.NewRateLimiter(cfg.RatePerSecond),
		file:    f,
		payload: make([]byte, cfg.BlockSize),
	}

	f.RegisterFctIncrement(func(size int64) {
		t.written.Add(size)
		if t.bar != nil {
			t.bar.IncrInt64(size)
		}
	})

	if cfg.ShowBar && cfg.TotalBytes > 0 {
		t.prog = mpb.New(mpb.WithWidth(64))
		t.bar = t.prog.AddBar(cfg.TotalBytes,
			mpb.PrependDecorators(decor.Name(cfg.Path)),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	return t, nil
}

// Spin writes one paced burst of blocks. If the task's rate is 0, no block
// is written and Spin reports false so the caller emits no statistics.
func (t *Task) Spin() (Stats, bool) {
	n := t.rl.Run(func() {
		if _, err := t.file.Write(t.payload); err != nil {
			t.errs.Add(1)
		}
	})
	if n == 0 {
		return Stats{}, false
	}
	return Stats{BytesWritten: t.written.Load(), Errors: t.errs.Load()}, true
}

// Reset truncates the file and rewinds to its start, restarting the byte
// counters from zero.
func (t *Task) Reset() {
	t.written.Store(0)
	t.errs.Store(0)
	_ = t.file.Truncate(0)
	_, _ = t.file.Seek(0, io.SeekStart)
}

func (t *Task) Pause() {}

func (t *Task) Resume() {}

// Close releases the underlying file and, if present, the progress bar.
func (t *Task) Close() error {
	if t.prog != nil {
		t.prog.Wait()
	}
	return t.file.Close()
}
