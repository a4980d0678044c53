/*
Copyright © 2023 Chris Collins 'collins.christopher@gmail.com'

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/cmd"
)

const (
	logDir        = ".config/nowdesk"
	logFile       = "debug.log"
	logBufferSize = 1000
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}

	dir := filepath.Join(home, logDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { //nolint:gomnd
		log.Fatal(err)
	}

	// Truncated on start; the console logs every request
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gomnd
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close() //nolint:errcheck

	// The TUI owns the terminal, so logs go to the file without blocking it
	w := newAsyncWriter(f, logBufferSize)
	defer w.Close() //nolint:errcheck

	log.SetOutput(w)
	log.SetReportTimestamp(true)

	cmd.Execute()
}

// asyncWriter hands writes to a background goroutine. Writes made while
// the buffer is full are dropped.
type asyncWriter struct {
	out  chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newAsyncWriter(w io.Writer, bufferSize int) *asyncWriter {
	aw := &asyncWriter{
		out:  make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}

	go func() {
		for msg := range aw.out {
			w.Write(msg) //nolint:errcheck
		}
		close(aw.done)
	}()

	return aw
}

func (aw *asyncWriter) Write(p []byte) (int, error) {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	if aw.closed {
		return 0, os.ErrClosed
	}

	// The caller may reuse p
	msg := make([]byte, len(p))
	copy(msg, p)

	select {
	case aw.out <- msg:
	default:
	}
	return len(p), nil
}

// Close flushes buffered writes and stops the writer.
func (aw *asyncWriter) Close() error {
	aw.mu.Lock()
	if aw.closed {
		aw.mu.Unlock()
		return nil
	}
	aw.closed = true
	close(aw.out)
	aw.mu.Unlock()

	<-aw.done
	return nil
}
