package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records the unlowered declaration trees returned by a C provider,
// one block per parsed file.
type RawLogger interface {
	Log(path string, dump string)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a timestamped header line followed by dump. Blocks from
// concurrent workers never interleave.
func (r *rawLogger) Log(path string, dump string) {
	if r.w == nil {
		return
	}

	block := fmt.Sprintf("%s %s\n%s",
		time.Now().Format("2006/01/02 15:04:05"),
		path,
		dump)
	if len(dump) > 0 && dump[len(dump)-1] != '\n' {
		block += "\n"
	}

	r.mu.Lock()
	_, _ = io.WriteString(r.w, block)
	r.mu.Unlock()
}
