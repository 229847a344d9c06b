// ABOUTME: Line input that gives up when the command context is cancelled
// ABOUTME: One reader owns stdin; nested commands in chat share it
package commands

import (
	"bufio"
	"context"
	"io"
)

// lineReader scans lines on a goroutine so a blocked read never outlives
// an interrupt. It also satisfies io.Reader so it can be handed to
// commands run from inside the chat loop.
type lineReader struct {
	lines   chan string
	err     error
	pending []byte
}

// newLineReader wraps r, reusing r when it already is a lineReader.
func newLineReader(r io.Reader) *lineReader {
	if lr, ok := r.(*lineReader); ok {
		return lr
	}
	lr := &lineReader{lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
		lr.err = scanner.Err()
	}()
	return lr
}

// Next returns the next line. ok is false at end of input or cancellation.
func (lr *lineReader) Next(ctx context.Context) (line string, ok bool, err error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok = <-lr.lines:
		if !ok {
			return "", false, lr.err
		}
		return line, true, nil
	}
}

func (lr *lineReader) Read(p []byte) (int, error) {
	if len(lr.pending) == 0 {
		line, ok := <-lr.lines
		if !ok {
			if lr.err != nil {
				return 0, lr.err
			}
			return 0, io.EOF
		}
		lr.pending = append([]byte(line), '\n')
	}
	n := copy(p, lr.pending)
	lr.pending = lr.pending[n:]
	return n, nil
}
