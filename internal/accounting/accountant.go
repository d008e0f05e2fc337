// Package accounting measures the on-disk object storage of git repositories.
//
// Measurements come from `git count-objects -v`, which reports sizes in KiB. The loose, packed
// and garbage sizes are summed and multiplied by 1024, so a measurement approximates the true
// byte count rather than matching it exactly.
package accounting

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/recompress/internal/execshell"
	"github.com/temirov/recompress/internal/repos/shared"
)

const (
	countObjectsSubcommandConstant       = "count-objects"
	countObjectsVerboseFlagConstant      = "-v"
	looseSizeLabelConstant               = "size:"
	packedSizeLabelConstant              = "size-pack:"
	garbageSizeLabelConstant             = "size-garbage:"
	bytesPerKibibyteConstant             = 1024
	toolNotFoundMessageConstant          = "git could not be launched"
	toolFailedMessageConstant            = "git count-objects failed"
	outputUnparseableMessageConstant     = "git count-objects output could not be parsed"
	executorNotConfiguredMessageConstant = "git executor not configured"
	measurementErrorTemplateConstant     = "measure %s: %v"
	classifiedErrorTemplateConstant      = "%w: %w"
	invalidSizeTokenTemplateConstant     = "%w: line %q has non-numeric size %q"
	missingSizeLinesTemplateConstant     = "%w: no size lines in output"
	sizeOverflowTemplateConstant         = "%w: size total overflows"
)

var sizeLabels = []string{looseSizeLabelConstant, packedSizeLabelConstant, garbageSizeLabelConstant}

var (
	// ErrToolNotFound indicates git could not be started.
	ErrToolNotFound = errors.New(toolNotFoundMessageConstant)
	// ErrToolFailed indicates git count-objects exited with a non-zero code.
	ErrToolFailed = errors.New(toolFailedMessageConstant)
	// ErrOutputUnparseable indicates the count-objects output carried no usable size figures.
	ErrOutputUnparseable = errors.New(outputUnparseableMessageConstant)
	// ErrExecutorNotConfigured indicates the accountant was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// SizeMeasurement is the approximate storage footprint of a repository in bytes.
type SizeMeasurement uint64

// Bytes returns the measurement as a plain byte count.
func (measurement SizeMeasurement) Bytes() uint64 {
	return uint64(measurement)
}

// MeasurementError associates a measurement failure with the repository being measured.
type MeasurementError struct {
	Handle shared.RepositoryHandle
	Cause  error
}

// Error describes the failed measurement.
func (measurementError *MeasurementError) Error() string {
	return fmt.Sprintf(measurementErrorTemplateConstant, measurementError.Handle, measurementError.Cause)
}

// Unwrap exposes the classified cause.
func (measurementError *MeasurementError) Unwrap() error {
	return measurementError.Cause
}

// Accountant measures repositories through git.
type Accountant struct {
	executor shared.GitExecutor
}

// NewAccountant constructs an Accountant backed by the provided executor.
func NewAccountant(executor shared.GitExecutor) (*Accountant, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Accountant{executor: executor}, nil
}

// Measure runs git count-objects against the repository and converts the reported sizes to bytes.
// Every failure is returned as a *MeasurementError; a zero size is never substituted for a failure.
func (accountant *Accountant) Measure(executionContext context.Context, handle shared.RepositoryHandle) (SizeMeasurement, error) {
	executionResult, executionError := accountant.executor.ExecuteGit(
		executionContext,
		handle.GitCommandDetails(countObjectsSubcommandConstant, countObjectsVerboseFlagConstant),
	)
	if executionError != nil {
		return 0, &MeasurementError{Handle: handle, Cause: classifyExecutionError(executionError)}
	}

	measurement, parseError := ParseCountObjects(executionResult.StandardOutput)
	if parseError != nil {
		return 0, &MeasurementError{Handle: handle, Cause: parseError}
	}
	return measurement, nil
}

func classifyExecutionError(executionError error) error {
	if errors.Is(executionError, context.Canceled) || errors.Is(executionError, context.DeadlineExceeded) {
		return executionError
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return fmt.Errorf(classifiedErrorTemplateConstant, ErrToolFailed, executionError)
	}

	var launchFailure execshell.CommandExecutionError
	if errors.As(executionError, &launchFailure) {
		return fmt.Errorf(classifiedErrorTemplateConstant, ErrToolNotFound, executionError)
	}

	return executionError
}

// ParseCountObjects sums the size, size-pack and size-garbage lines of `git count-objects -v`
// output. The trailing token of each line is a KiB count; the sum is returned in bytes.
func ParseCountObjects(output string) (SizeMeasurement, error) {
	var totalKibibytes uint64
	sizeLineFound := false

	lineScanner := bufio.NewScanner(strings.NewReader(output))
	for lineScanner.Scan() {
		line := strings.TrimSpace(lineScanner.Text())
		if !hasSizeLabel(line) {
			continue
		}

		lineFields := strings.Fields(line)
		sizeToken := lineFields[len(lineFields)-1]
		kibibytes, parseError := strconv.ParseUint(sizeToken, 10, 64)
		if parseError != nil {
			return 0, fmt.Errorf(invalidSizeTokenTemplateConstant, ErrOutputUnparseable, line, sizeToken)
		}
		if totalKibibytes+kibibytes < totalKibibytes {
			return 0, fmt.Errorf(sizeOverflowTemplateConstant, ErrOutputUnparseable)
		}
		totalKibibytes += kibibytes
		sizeLineFound = true
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return 0, fmt.Errorf(classifiedErrorTemplateConstant, ErrOutputUnparseable, scanError)
	}
	if !sizeLineFound {
		return 0, fmt.Errorf(missingSizeLinesTemplateConstant, ErrOutputUnparseable)
	}
	if totalKibibytes > ^uint64(0)/bytesPerKibibyteConstant {
		return 0, fmt.Errorf(sizeOverflowTemplateConstant, ErrOutputUnparseable)
	}

	return SizeMeasurement(totalKibibytes * bytesPerKibibyteConstant), nil
}

func hasSizeLabel(line string) bool {
	for _, sizeLabel := range sizeLabels {
		if strings.HasPrefix(line, sizeLabel) {
			return true
		}
	}
	return false
}
