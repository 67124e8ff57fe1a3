package cmd

import "io"

// resultWriter is implemented by commands that can print their result on
// stdout.
type resultWriter interface {
	writesStdout() bool
}

// Console picks the stream for non-error log records and raw tree dumps while
// cmd runs. Commands whose result goes to stdout log to stderr so the result
// stays clean.
func Console(cmd any, stdout, stderr io.Writer) io.Writer {
	if r, ok := cmd.(resultWriter); ok && r.writesStdout() {
		return stderr
	}
	return stdout
}

func (g *Generate) writesStdout() bool { return g.Output == "-" }

func (s *Scan) writesStdout() bool { return true }
