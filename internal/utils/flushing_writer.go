package utils

import (
	"bufio"
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter makes every write visible immediately, so partial report lines appear before long-running work.
type FlushingWriter struct {
	writer  io.Writer
	flusher flusher
	mutex   sync.Mutex
}

// NewFlushingWriter wraps the provided writer. Writers without a Flush method are buffered with bufio and
// flushed after each write; writers that can flush are flushed directly.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if writer == nil {
		writer = io.Discard
	}
	if alreadyWrapped, isFlushingWriter := writer.(*FlushingWriter); isFlushingWriter {
		return alreadyWrapped
	}
	if flushableWriter, implementsFlush := writer.(flusher); implementsFlush {
		return &FlushingWriter{writer: writer, flusher: flushableWriter}
	}
	bufferedWriter := bufio.NewWriter(writer)
	return &FlushingWriter{writer: bufferedWriter, flusher: bufferedWriter}
}

// Write delegates to the underlying writer and flushes it.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flushError := flushingWriter.flusher.Flush(); flushError != nil {
		return bytesWritten, flushError
	}
	return bytesWritten, nil
}

// Flush forces any buffered data to the underlying writer.
func (flushingWriter *FlushingWriter) Flush() error {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.flusher.Flush()
}
