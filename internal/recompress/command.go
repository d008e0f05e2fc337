package recompress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/recompress/internal/accounting"
	"github.com/temirov/recompress/internal/compaction"
	"github.com/temirov/recompress/internal/execshell"
	"github.com/temirov/recompress/internal/repos/dependencies"
	"github.com/temirov/recompress/internal/repos/shared"
	"github.com/temirov/recompress/internal/ui"
	"github.com/temirov/recompress/internal/utils/flags"
	pathutils "github.com/temirov/recompress/internal/utils/path"
)

const (
	commandUseConstant                       = "recompress [root ...]"
	commandShortDescriptionConstant          = "Compact every git repository beneath the roots and report the size change"
	commandLongDescriptionConstant           = "recompress finds git repositories beneath each root (the current directory by default), expires reflogs, packs references, runs aggressive garbage collection and prints the storage size before and after."
	measureCommandUseConstant                = "measure [root ...]"
	measureCommandShortDescriptionConstant   = "Report the storage size of every git repository beneath the roots"
	measureCommandLongDescriptionConstant    = "measure finds git repositories beneath each root and prints their storage size without modifying them."
	flagDryRunNameConstant                   = "dry-run"
	flagDryRunDescriptionConstant            = "Measure repositories without compacting them"
	flagReflogExpiryNameConstant             = "reflog-expiry"
	flagReflogExpiryDescriptionConstant      = "Reflog retention passed to git reflog expire --expire"
	flagCommandTimeoutNameConstant           = "command-timeout"
	flagCommandTimeoutDescriptionConstant    = "Maximum duration of a single git invocation (0 disables the limit)"
	flagReportFileNameConstant               = "report-file"
	flagReportFileDescriptionConstant        = "Write a YAML summary of the run to this file"
	commandExecutionErrorTemplateConstant    = "recompress failed: %w"
	measureExecutionErrorTemplateConstant    = "measure failed: %w"
	invalidRootsMessageConstant              = "no usable repository roots"
	commandTimeoutNegativeMessageConstant    = "command timeout must not be negative"
	reflogExpiryWhitespaceMessageConstant    = "reflog expiry must not contain whitespace"
	flagParseErrorTemplateConstant           = "unable to read --%s: %w"
	commandTimeoutParseErrorTemplateConstant = "invalid --%s value: %w"
)

var (
	// ErrNoRepositoryRoots indicates every supplied root was empty after sanitization.
	ErrNoRepositoryRoots = errors.New(invalidRootsMessageConstant)
	// ErrCommandTimeoutNegative indicates a negative command timeout was requested.
	ErrCommandTimeoutNegative = errors.New(commandTimeoutNegativeMessageConstant)
	// ErrReflogExpiryInvalid indicates the reflog retention cannot be passed to git as a single value.
	ErrReflogExpiryInvalid = errors.New(reflogExpiryWhitespaceMessageConstant)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console log output is active.
type HumanReadableLoggingProvider func() bool

// ConfigurationProvider returns the current recompress configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the recompress cobra commands with configurable dependencies.
// When human-readable logging is active and no observer is supplied, git invocations are
// narrated through ConsoleLoggerProvider instead of the diagnostic logger.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	ConfigurationProvider        ConfigurationProvider
	Scanner                      shared.RepositoryScanner
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	CommandEventsObserver        execshell.CommandEventObserver
	RootSanitizer                *pathutils.ScanRootSanitizer
}

type commandSettings struct {
	options        RunOptions
	reflogExpiry   string
	commandTimeout time.Duration
}

// Build constructs the root recompress command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	flags.AddToggleFlag(command.Flags(), nil, flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
	command.Flags().String(flagReflogExpiryNameConstant, compaction.DefaultReflogExpiryConstant, flagReflogExpiryDescriptionConstant)
	builder.registerSharedFlags(command)

	return command, nil
}

// BuildMeasureCommand constructs the read-only measure subcommand.
func (builder *CommandBuilder) BuildMeasureCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   measureCommandUseConstant,
		Short: measureCommandShortDescriptionConstant,
		Long:  measureCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.runMeasure,
	}

	builder.registerSharedFlags(command)

	return command, nil
}

func (builder *CommandBuilder) registerSharedFlags(command *cobra.Command) {
	command.Flags().String(flagCommandTimeoutNameConstant, "0s", flagCommandTimeoutDescriptionConstant)
	command.Flags().String(flagReportFileNameConstant, "", flagReportFileDescriptionConstant)
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.parseSettings(command, arguments)
	if settingsError != nil {
		return settingsError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger, settings)
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), settings.options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) runMeasure(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.parseSettings(command, arguments)
	if settingsError != nil {
		return settingsError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger, settings)
	if serviceError != nil {
		return serviceError
	}

	if _, measureError := service.Measure(command.Context(), settings.options); measureError != nil {
		return fmt.Errorf(measureExecutionErrorTemplateConstant, measureError)
	}
	return nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command, logger *zap.Logger, settings commandSettings) (*Service, error) {
	executorLogger, observer := builder.resolveCommandLogging(logger)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, executorLogger, observer, settings.commandTimeout)
	if executorError != nil {
		return nil, executorError
	}

	scanner, scannerError := dependencies.ResolveRepositoryScanner(builder.Scanner)
	if scannerError != nil {
		return nil, scannerError
	}

	accountant, accountantError := accounting.NewAccountant(gitExecutor)
	if accountantError != nil {
		return nil, accountantError
	}

	orchestrator, orchestratorError := compaction.NewOrchestrator(gitExecutor, logger, settings.reflogExpiry)
	if orchestratorError != nil {
		return nil, orchestratorError
	}

	return NewService(scanner, accountant, orchestrator, dependencies.ResolveFileSystem(builder.FileSystem), command.OutOrStdout(), logger)
}

func (builder *CommandBuilder) parseSettings(command *cobra.Command, arguments []string) (commandSettings, error) {
	configuration := builder.resolveConfiguration()

	roots := configuration.RepositoryRoots
	if len(arguments) > 0 {
		roots = arguments
	}
	sanitizedRoots := builder.resolveRootSanitizer().Sanitize(roots)
	if len(sanitizedRoots) == 0 {
		return commandSettings{}, ErrNoRepositoryRoots
	}

	dryRun := configuration.DryRun
	if flag := command.Flags().Lookup(flagDryRunNameConstant); flag != nil && flag.Changed {
		flagValue, flagError := command.Flags().GetBool(flagDryRunNameConstant)
		if flagError != nil {
			return commandSettings{}, fmt.Errorf(flagParseErrorTemplateConstant, flagDryRunNameConstant, flagError)
		}
		dryRun = flagValue
	}

	reflogExpiry := configuration.ReflogExpiry
	if flag := command.Flags().Lookup(flagReflogExpiryNameConstant); flag != nil && flag.Changed {
		reflogExpiry = strings.TrimSpace(flag.Value.String())
		if len(reflogExpiry) == 0 {
			reflogExpiry = compaction.DefaultReflogExpiryConstant
		}
	}
	if strings.ContainsAny(reflogExpiry, " \t\n") {
		return commandSettings{}, ErrReflogExpiryInvalid
	}

	commandTimeout := configuration.CommandTimeout
	if command.Flags().Changed(flagCommandTimeoutNameConstant) {
		timeoutValue, _ := command.Flags().GetString(flagCommandTimeoutNameConstant)
		parsedTimeout, parseError := time.ParseDuration(strings.TrimSpace(timeoutValue))
		if parseError != nil {
			return commandSettings{}, fmt.Errorf(commandTimeoutParseErrorTemplateConstant, flagCommandTimeoutNameConstant, parseError)
		}
		if parsedTimeout < 0 {
			return commandSettings{}, ErrCommandTimeoutNegative
		}
		commandTimeout = parsedTimeout
	}

	reportFile := configuration.ReportFile
	if command.Flags().Changed(flagReportFileNameConstant) {
		reportFileValue, _ := command.Flags().GetString(flagReportFileNameConstant)
		reportFile = strings.TrimSpace(reportFileValue)
	}

	return commandSettings{
		options: RunOptions{
			Roots:      sanitizedRoots,
			DryRun:     dryRun,
			ReportFile: reportFile,
		},
		reflogExpiry:   reflogExpiry,
		commandTimeout: commandTimeout,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCommandLogging(logger *zap.Logger) (*zap.Logger, execshell.CommandEventObserver) {
	if builder.CommandEventsObserver != nil {
		return logger, builder.CommandEventsObserver
	}
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return logger, nil
	}

	var consoleLogger *zap.Logger
	if builder.ConsoleLoggerProvider != nil {
		consoleLogger = builder.ConsoleLoggerProvider()
	}
	if consoleLogger == nil {
		return logger, nil
	}
	return zap.NewNop(), ui.NewConsoleCommandEventLogger(consoleLogger)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveRootSanitizer() *pathutils.ScanRootSanitizer {
	if builder.RootSanitizer != nil {
		return builder.RootSanitizer
	}
	return pathutils.NewScanRootSanitizer()
}
