package accounting_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recompress/internal/accounting"
	"github.com/temirov/recompress/internal/execshell"
	"github.com/temirov/recompress/internal/repos/shared"
)

const (
	testRepositoryHandlePathConstant = "/tmp/example/.git"
	sampleCountObjectsOutputConstant = "count: 12\nsize: 10\nin-pack: 40\npacks: 1\nsize-pack: 5\nprune-packable: 0\ngarbage: 0\nsize-garbage: 0\n"
)

type stubGitExecutor struct {
	result          execshell.ExecutionResult
	err             error
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.result, executor.err
}

func newTestHandle(testInstance *testing.T) shared.RepositoryHandle {
	testInstance.Helper()
	handle, handleError := shared.NewRepositoryHandle(testRepositoryHandlePathConstant)
	require.NoError(testInstance, handleError)
	return handle
}

func TestParseCountObjects(testInstance *testing.T) {
	testCases := []struct {
		name            string
		output          string
		expectedBytes   uint64
		expectedFailure error
	}{
		{
			name:          "sums_loose_packed_and_garbage",
			output:        sampleCountObjectsOutputConstant,
			expectedBytes: 15360,
		},
		{
			name:          "empty_repository",
			output:        "count: 0\nsize: 0\nin-pack: 0\npacks: 0\nsize-pack: 0\nprune-packable: 0\ngarbage: 0\nsize-garbage: 0\n",
			expectedBytes: 0,
		},
		{
			name:          "end_to_end_sizes",
			output:        "size: 0\nsize-pack: 2000\nsize-garbage: 0\n",
			expectedBytes: 2048000,
		},
		{
			name:          "ignores_unrelated_lines",
			output:        "count: 999\nin-pack: 999\nsize-pack: 3\n",
			expectedBytes: 3072,
		},
		{
			name:            "rejects_non_numeric_size",
			output:          "size: ten\nsize-pack: 5\n",
			expectedFailure: accounting.ErrOutputUnparseable,
		},
		{
			name:            "rejects_missing_size_lines",
			output:          "count: 4\n",
			expectedFailure: accounting.ErrOutputUnparseable,
		},
		{
			name:            "rejects_empty_output",
			output:          "",
			expectedFailure: accounting.ErrOutputUnparseable,
		},
		{
			name:            "rejects_overflowing_total",
			output:          "size-pack: 18446744073709551615\n",
			expectedFailure: accounting.ErrOutputUnparseable,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			measurement, parseError := accounting.ParseCountObjects(testCase.output)
			if testCase.expectedFailure != nil {
				require.ErrorIs(subtest, parseError, testCase.expectedFailure)
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expectedBytes, measurement.Bytes())
		})
	}
}

func TestAccountantMeasureRunsCountObjects(testInstance *testing.T) {
	executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: sampleCountObjectsOutputConstant}}
	accountant, accountantError := accounting.NewAccountant(executor)
	require.NoError(testInstance, accountantError)

	handle := newTestHandle(testInstance)
	measurement, measureError := accountant.Measure(context.Background(), handle)
	require.NoError(testInstance, measureError)
	require.Equal(testInstance, accounting.SizeMeasurement(15360), measurement)

	require.Len(testInstance, executor.recordedDetails, 1)
	require.Equal(testInstance, handle.GitCommandDetails("count-objects", "-v"), executor.recordedDetails[0])
}

func TestAccountantMeasureClassifiesFailures(testInstance *testing.T) {
	failingCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"count-objects", "-v"}}}

	testCases := []struct {
		name            string
		executor        *stubGitExecutor
		expectedFailure error
	}{
		{
			name: "tool_not_found",
			executor: &stubGitExecutor{err: execshell.CommandExecutionError{
				Command: failingCommand,
				Cause:   exec.ErrNotFound,
			}},
			expectedFailure: accounting.ErrToolNotFound,
		},
		{
			name: "tool_failed",
			executor: &stubGitExecutor{err: execshell.CommandFailedError{
				Command: failingCommand,
				Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"},
			}},
			expectedFailure: accounting.ErrToolFailed,
		},
		{
			name:            "unparseable_output",
			executor:        &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: "size: many\n"}},
			expectedFailure: accounting.ErrOutputUnparseable,
		},
		{
			name: "cancelled",
			executor: &stubGitExecutor{err: execshell.CommandExecutionError{
				Command: failingCommand,
				Cause:   context.Canceled,
			}},
			expectedFailure: context.Canceled,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			accountant, accountantError := accounting.NewAccountant(testCase.executor)
			require.NoError(subtest, accountantError)

			handle := newTestHandle(subtest)
			measurement, measureError := accountant.Measure(context.Background(), handle)
			require.Zero(subtest, measurement)
			require.ErrorIs(subtest, measureError, testCase.expectedFailure)

			var measurementError *accounting.MeasurementError
			require.True(subtest, errors.As(measureError, &measurementError))
			require.Equal(subtest, handle, measurementError.Handle)
			require.Contains(subtest, measureError.Error(), testRepositoryHandlePathConstant)
		})
	}
}

func TestNewAccountantRequiresExecutor(testInstance *testing.T) {
	accountant, accountantError := accounting.NewAccountant(nil)
	require.ErrorIs(testInstance, accountantError, accounting.ErrExecutorNotConfigured)
	require.Nil(testInstance, accountant)
}
