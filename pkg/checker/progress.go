// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checker

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// progress reports per-file advancement of one check.
type progress struct {
	w     io.Writer
	tty   bool
	check string
	total int
	start time.Time

	mu    sync.Mutex
	done  int
	bytes uint64
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Checker) startProgress(check string, total int) *progress {
	p := &progress{
		w:     c.progress,
		check: check,
		total: total,
		start: time.Now(),
	}
	if p.w != nil {
		p.tty = isTerminal(p.w)
	}
	slog.Debug("check started", "check", check, "files", total)
	return p
}

func (p *progress) advance(path string) {
	var size uint64
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		size = uint64(fi.Size())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.bytes += size

	slog.Debug("file checked", "check", p.check, "path", path, "size", humanize.Bytes(size))
	if p.tty {
		fmt.Fprintf(p.w, "\r%s: %d/%d files (%s)", p.check, p.done, p.total, humanize.Bytes(p.bytes))
	}
}

func (p *progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty {
		fmt.Fprintln(p.w)
	}
	slog.Debug("check finished",
		"check", p.check,
		"files", p.done,
		"size", humanize.Bytes(p.bytes),
		"duration", time.Since(p.start))
}
