package process

import (
	"bytes"
	"io"
	"sync"
)

// lineWriter prefixes every complete line and writes it to out under a
// mutex shared by all processes, so lines from different nodes never interleave.
type lineWriter struct {
	out    io.Writer
	mu     *sync.Mutex
	prefix string
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if err := w.emit(w.buf[:i+1]); err != nil {
			return 0, err
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush writes a trailing partial line, terminating it with a newline.
func (w *lineWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}
	line := append(w.buf, '\n')
	w.buf = nil
	_ = w.emit(line)
}

func (w *lineWriter) emit(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, w.prefix); err != nil {
		return err
	}
	_, err := w.out.Write(line)
	return err
}
