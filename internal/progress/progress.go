// Package progress prints a live file counter during a walk. The total is
// unknown until the walk finishes, so the display is a counter rather than
// a bar.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Counter struct {
	mu         sync.Mutex
	count      int64
	currentDir string
	writer     io.Writer
	enabled    bool
	lastUpdate time.Time
}

// New returns a counter writing to stderr. It stays silent when stderr is
// not a terminal so piped output is never polluted.
func New() *Counter {
	return &Counter{
		writer:  os.Stderr,
		enabled: isTerminal(os.Stderr),
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Increment records one more hashed file. Safe for concurrent use.
func (c *Counter) Increment(relPath string) {
	if c == nil || !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	c.currentDir = filepath.Dir(relPath)

	// Redraw at most every 100ms to avoid flicker.
	now := time.Now()
	if now.Sub(c.lastUpdate) > 100*time.Millisecond {
		c.lastUpdate = now
		c.render()
	}
}

// render must be called with mu held.
func (c *Counter) render() {
	fmt.Fprintf(c.writer, "\r\033[K%d files hashed | %s", c.count, c.currentDir)
}

// Finish draws the final count and moves to a fresh line.
func (c *Counter) Finish() {
	if c == nil || !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\r\033[K%d files hashed\n", c.count)
}
