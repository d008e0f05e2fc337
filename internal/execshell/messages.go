package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCountObjectsSubcommandNameConstant   = "count-objects"
	gitReflogSubcommandNameConstant         = "reflog"
	gitReflogExpireActionConstant           = "expire"
	gitPackRefsSubcommandNameConstant       = "pack-refs"
	gitGarbageCollectSubcommandNameConstant = "gc"
	gitExpireFlagPrefixConstant             = "--expire="
)

const (
	gitCountObjectsStartTemplateConstant              = "Measuring object storage in %s"
	gitCountObjectsSuccessTemplateConstant            = "Measured object storage in %s"
	gitCountObjectsFailureTemplateConstant            = "Failed to measure object storage in %s (exit code %d%s)"
	gitCountObjectsExecutionFailureTemplateConstant   = "Unable to measure object storage in %s: %s"
	gitReflogExpireStartTemplateConstant              = "Expiring reflog entries older than %s in %s"
	gitReflogExpireSuccessTemplateConstant            = "Expired reflog entries older than %s in %s"
	gitReflogExpireFailureTemplateConstant            = "Failed to expire reflog entries older than %s in %s (exit code %d%s)"
	gitReflogExpireExecutionFailureTemplateConstant   = "Unable to expire reflog entries older than %s in %s: %s"
	gitPackRefsStartTemplateConstant                  = "Packing references in %s"
	gitPackRefsSuccessTemplateConstant                = "Packed references in %s"
	gitPackRefsFailureTemplateConstant                = "Failed to pack references in %s (exit code %d%s)"
	gitPackRefsExecutionFailureTemplateConstant       = "Unable to pack references in %s: %s"
	gitGarbageCollectStartTemplateConstant            = "Collecting garbage in %s"
	gitGarbageCollectSuccessTemplateConstant          = "Collected garbage in %s"
	gitGarbageCollectFailureTemplateConstant          = "Failed to collect garbage in %s (exit code %d%s)"
	gitGarbageCollectExecutionFailureTemplateConstant = "Unable to collect garbage in %s: %s"
)

type repositoryMessageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var repositoryMessageTemplatesBySubcommand = map[string]repositoryMessageTemplates{
	gitCountObjectsSubcommandNameConstant: {
		start:            gitCountObjectsStartTemplateConstant,
		success:          gitCountObjectsSuccessTemplateConstant,
		failure:          gitCountObjectsFailureTemplateConstant,
		executionFailure: gitCountObjectsExecutionFailureTemplateConstant,
	},
	gitPackRefsSubcommandNameConstant: {
		start:            gitPackRefsStartTemplateConstant,
		success:          gitPackRefsSuccessTemplateConstant,
		failure:          gitPackRefsFailureTemplateConstant,
		executionFailure: gitPackRefsExecutionFailureTemplateConstant,
	},
	gitGarbageCollectSubcommandNameConstant: {
		start:            gitGarbageCollectStartTemplateConstant,
		success:          gitGarbageCollectSuccessTemplateConstant,
		failure:          gitGarbageCollectFailureTemplateConstant,
		executionFailure: gitGarbageCollectExecutionFailureTemplateConstant,
	},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	if subcommand == gitReflogSubcommandNameConstant {
		return formatter.describeGitReflogMessage(command, result, failure, stage)
	}

	templates, known := repositoryMessageTemplatesBySubcommand[subcommand]
	if !known {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repositoryLabel := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, repositoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, repositoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, repositoryLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitReflogMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[1]) != gitReflogExpireActionConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	expiry := formatter.ensureValue(formatter.extractExpiry(arguments))
	repositoryLabel := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitReflogExpireStartTemplateConstant, expiry, repositoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitReflogExpireSuccessTemplateConstant, expiry, repositoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitReflogExpireFailureTemplateConstant, expiry, repositoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitReflogExpireExecutionFailureTemplateConstant, expiry, repositoryLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) extractExpiry(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, gitExpireFlagPrefixConstant) {
			return strings.TrimPrefix(trimmedArgument, gitExpireFlagPrefixConstant)
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}
