package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator wraps an io.Writer and keeps the log file bounded to a fixed
// number of recent lines. The most recent lines are held in a ring buffer;
// once twice the capacity has passed through, the file is rewritten from
// the buffer.
type LogRotator struct {
	writer    io.Writer
	filePath  string
	capacity  int
	lines     []string
	head      int
	size      int
	totalSeen int
	mutex     sync.Mutex
}

// NewLogRotator creates a new LogRotator keeping at most maxLines lines.
func NewLogRotator(writer io.Writer, maxLines int, filePath string) *LogRotator {
	return &LogRotator{
		writer:   writer,
		filePath: filePath,
		capacity: maxLines,
		lines:    make([]string, maxLines),
	}
}

// Write implements io.Writer and maintains the line buffer.
func (w *LogRotator) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err = w.writer.Write(p)
	if err != nil {
		return n, err
	}

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.add(line)

		if w.totalSeen == w.capacity*2 {
			if err := w.rotate(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}

			w.totalSeen = w.size
		}
	}

	return n, nil
}

// add pushes a line into the ring buffer.
func (w *LogRotator) add(line string) {
	w.lines[w.head] = line

	w.head = (w.head + 1) % w.capacity
	if w.size < w.capacity {
		w.size++
	}

	w.totalSeen++
}

// recentLines returns the buffered lines in chronological order.
func (w *LogRotator) recentLines() []string {
	if w.size == 0 {
		return nil
	}

	result := make([]string, w.size)
	start := (w.head - w.size + w.capacity) % w.capacity

	for i := 0; i < w.size; i++ {
		result[i] = w.lines[(start+i)%w.capacity]
	}

	return result
}

// rotate rewrites the log file from the buffered lines.
func (w *LogRotator) rotate() error {
	lines := w.recentLines()
	if len(lines) == 0 {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(w.filePath), "temp-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	if _, err := temp.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	temp.Close()

	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.writer = newFile

	return nil
}
