package utils_test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recompress/internal/utils"
)

type countingFlushWriter struct {
	bytes.Buffer
	flushCount int
	flushError error
}

func (writer *countingFlushWriter) Flush() error {
	writer.flushCount++
	return writer.flushError
}

func TestFlushingWriterMakesPartialLinesVisible(testInstance *testing.T) {
	var destination bytes.Buffer
	flushingWriter := utils.NewFlushingWriter(&destination)

	_, writeError := fmt.Fprintf(flushingWriter, "Repo: %s: %s => ", "/tmp/repo/.git", "2.0 MB")
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "Repo: /tmp/repo/.git: 2.0 MB => ", destination.String())
}

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriter(&destination)
	flushingWriter := utils.NewFlushingWriter(bufferedWriter)

	_, writeError := flushingWriter.Write([]byte("Searching for repos ...\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "Searching for repos ...\n", destination.String())
}

func TestFlushingWriterReportsFlushFailures(testInstance *testing.T) {
	flushFailure := errors.New("flush failed")
	destination := &countingFlushWriter{flushError: flushFailure}
	flushingWriter := utils.NewFlushingWriter(destination)

	bytesWritten, writeError := flushingWriter.Write([]byte("Total:\n"))
	require.ErrorIs(testInstance, writeError, flushFailure)
	require.Equal(testInstance, len("Total:\n"), bytesWritten)
	require.Equal(testInstance, 1, destination.flushCount)
}

func TestNewFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.NoError(testInstance, utils.NewFlushingWriter(nil).Flush())
}
