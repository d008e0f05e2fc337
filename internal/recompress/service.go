package recompress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/recompress/internal/repos/dependencies"
	"github.com/temirov/recompress/internal/repos/shared"
	"github.com/temirov/recompress/internal/sizediff"
	"github.com/temirov/recompress/internal/utils"
)

const (
	searchingMessageConstant             = "Searching for repos ...\n"
	foundRepositoryTemplateConstant      = "found repo: %s\n"
	recompressingMessageConstant         = "Recompressing...\n"
	repositoryStartTemplateConstant      = "Repo: %s: %s => \n"
	repositoryResultTemplateConstant     = "Repo: %s: %s => %s%s\n"
	failedStepsSuffixTemplateConstant    = " [failed: %s]"
	failedStepsSeparatorConstant         = ", "
	measuredRepositoryTemplateConstant   = "%s: %s\n"
	totalHeaderMessageConstant           = "Total:\n"
	totalLineTemplateConstant            = "%s\n"
	discoveryErrorTemplateConstant       = "repository discovery failed: %w"
	scannerNotConfiguredMessageConstant  = "repository scanner not configured"
	accountantNotConfiguredMessage       = "size accountant not configured"
	compactorNotConfiguredMessage        = "repository compactor not configured"
	discoveryCompletedLogMessageConstant = "repository discovery completed"
	repositoryProcessedLogMessage        = "repository processed"
	logFieldRootsConstant                = "roots"
	logFieldRepositoryCountConstant      = "repository_count"
	logFieldRepositoryConstant           = "repository"
	logFieldBeforeBytesConstant          = "before_bytes"
	logFieldAfterBytesConstant           = "after_bytes"
	logFieldDryRunConstant               = "dry_run"
)

var (
	// ErrScannerNotConfigured indicates the service was constructed without a scanner.
	ErrScannerNotConfigured = errors.New(scannerNotConfiguredMessageConstant)
	// ErrAccountantNotConfigured indicates the service was constructed without a size accountant.
	ErrAccountantNotConfigured = errors.New(accountantNotConfiguredMessage)
	// ErrCompactorNotConfigured indicates the service was constructed without a compactor.
	ErrCompactorNotConfigured = errors.New(compactorNotConfiguredMessage)
)

// Service discovers repositories, compacts each one between two measurements and reports the change.
type Service struct {
	scanner    shared.RepositoryScanner
	accountant SizeAccountant
	compactor  RepositoryCompactor
	fileSystem shared.FileSystem
	reporter   shared.Reporter
	logger     *zap.Logger
}

// NewService validates collaborators and constructs a Service writing its report to outputWriter.
func NewService(scanner shared.RepositoryScanner, accountant SizeAccountant, compactor RepositoryCompactor, fileSystem shared.FileSystem, outputWriter io.Writer, logger *zap.Logger) (*Service, error) {
	if scanner == nil {
		return nil, ErrScannerNotConfigured
	}
	if accountant == nil {
		return nil, ErrAccountantNotConfigured
	}
	if compactor == nil {
		return nil, ErrCompactorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileSystem == nil {
		fileSystem = dependencies.ResolveFileSystem(nil)
	}

	return &Service{
		scanner:    scanner,
		accountant: accountant,
		compactor:  compactor,
		fileSystem: fileSystem,
		reporter:   shared.NewWriterReporter(utils.NewFlushingWriter(outputWriter)),
		logger:     logger,
	}, nil
}

// Run measures, compacts and re-measures every repository beneath the roots.
// A measurement failure stops the run and is returned with the results gathered so far.
// Compaction failures are recorded on the repository result and never stop the run.
func (service *Service) Run(executionContext context.Context, options RunOptions) (RunSummary, error) {
	repositories, discoveryError := service.discover(options.Roots)
	if discoveryError != nil {
		return RunSummary{}, discoveryError
	}

	service.reporter.Printf(recompressingMessageConstant)

	results := make([]RepositoryResult, 0, len(repositories))
	for _, repository := range repositories {
		if contextError := executionContext.Err(); contextError != nil {
			return summarize(results, options.DryRun), contextError
		}
		result, processError := service.processRepository(executionContext, repository, options.DryRun)
		if processError != nil {
			return summarize(results, options.DryRun), processError
		}
		results = append(results, result)
	}

	summary := summarize(results, options.DryRun)
	service.reporter.Printf(totalHeaderMessageConstant)
	service.reporter.Printf(totalLineTemplateConstant, summary.TotalChange)

	if reportError := service.writeReport(options.ReportFile, summary); reportError != nil {
		return summary, reportError
	}
	return summary, nil
}

// Measure reports the current size of every repository beneath the roots without modifying them.
func (service *Service) Measure(executionContext context.Context, options RunOptions) (RunSummary, error) {
	repositories, discoveryError := service.discover(options.Roots)
	if discoveryError != nil {
		return RunSummary{}, discoveryError
	}

	results := make([]RepositoryResult, 0, len(repositories))
	for _, repository := range repositories {
		measurement, measureError := service.accountant.Measure(executionContext, repository)
		if measureError != nil {
			return summarize(results, true), measureError
		}
		size := measurement.Bytes()
		service.reporter.Printf(measuredRepositoryTemplateConstant, repository, sizediff.FormatSize(size))
		results = append(results, RepositoryResult{Repository: repository, Before: size, After: size, Change: sizediff.Format(size, size, false)})
	}

	summary := summarize(results, true)
	service.reporter.Printf(totalHeaderMessageConstant)
	service.reporter.Printf(totalLineTemplateConstant, sizediff.FormatSize(summary.Totals.After))

	if reportError := service.writeReport(options.ReportFile, summary); reportError != nil {
		return summary, reportError
	}
	return summary, nil
}

func (service *Service) discover(roots []string) ([]shared.RepositoryHandle, error) {
	service.reporter.Printf(searchingMessageConstant)

	repositories, scanError := service.scanner.ScanRoots(roots, func(repository shared.RepositoryHandle) {
		service.reporter.Printf(foundRepositoryTemplateConstant, repository)
	})
	if scanError != nil {
		return nil, fmt.Errorf(discoveryErrorTemplateConstant, scanError)
	}

	service.logger.Debug(
		discoveryCompletedLogMessageConstant,
		zap.Strings(logFieldRootsConstant, roots),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)
	return repositories, nil
}

func (service *Service) processRepository(executionContext context.Context, repository shared.RepositoryHandle, dryRun bool) (RepositoryResult, error) {
	beforeMeasurement, beforeError := service.accountant.Measure(executionContext, repository)
	if beforeError != nil {
		return RepositoryResult{}, beforeError
	}
	before := beforeMeasurement.Bytes()
	formattedBefore := sizediff.FormatSize(before)
	service.reporter.Printf(repositoryStartTemplateConstant, repository, formattedBefore)

	result := RepositoryResult{Repository: repository, Before: before, After: before}
	if !dryRun {
		result.Steps = service.compactor.Compact(executionContext, repository)
		afterMeasurement, afterError := service.accountant.Measure(executionContext, repository)
		if afterError != nil {
			return RepositoryResult{}, afterError
		}
		result.After = afterMeasurement.Bytes()
	}
	result.Change = sizediff.Format(result.Before, result.After, true)

	failedStepsSuffix := ""
	if failedSteps := result.FailedSteps(); len(failedSteps) > 0 {
		failedStepsSuffix = fmt.Sprintf(failedStepsSuffixTemplateConstant, strings.Join(failedSteps, failedStepsSeparatorConstant))
	}
	service.reporter.Printf(repositoryResultTemplateConstant, repository, formattedBefore, sizediff.Format(result.Before, result.After, false), failedStepsSuffix)

	service.logger.Debug(
		repositoryProcessedLogMessage,
		zap.String(logFieldRepositoryConstant, repository.String()),
		zap.Uint64(logFieldBeforeBytesConstant, result.Before),
		zap.Uint64(logFieldAfterBytesConstant, result.After),
		zap.Bool(logFieldDryRunConstant, dryRun),
	)
	return result, nil
}
