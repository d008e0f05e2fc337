// Package compaction rewrites repository history storage so unreachable objects can be discarded.
package compaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/recompress/internal/repos/shared"
)

// Step names reported in outcomes.
const (
	StepExpireReflog   = "reflog-expire"
	StepPackReferences = "pack-refs"
	StepCollectGarbage = "gc"
)

const (
	// DefaultReflogExpiryConstant is the reflog retention window used when none is configured.
	DefaultReflogExpiryConstant          = "1.minute"
	reflogSubcommandConstant             = "reflog"
	reflogExpireActionConstant           = "expire"
	reflogExpireFlagTemplateConstant     = "--expire=%s"
	allReferencesFlagConstant            = "--all"
	packRefsSubcommandConstant           = "pack-refs"
	pruneFlagConstant                    = "--prune"
	garbageCollectSubcommandConstant     = "gc"
	aggressiveFlagConstant               = "--aggressive"
	pruneNowFlagConstant                 = "--prune=now"
	executorNotConfiguredMessageConstant = "git executor not configured"
	loggerNotConfiguredMessageConstant   = "logger not configured"
	stepFailedLogMessageConstant         = "compaction step failed"
	logFieldRepositoryConstant           = "repository"
	logFieldStepConstant                 = "step"
)

var (
	// ErrExecutorNotConfigured indicates the orchestrator was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrLoggerNotConfigured indicates the orchestrator was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
)

// StepOutcome records how a single compaction step ended.
type StepOutcome struct {
	Step      string `yaml:"step"`
	Succeeded bool   `yaml:"succeeded"`
	Failure   string `yaml:"failure,omitempty"`
}

// FailedSteps returns the names of unsuccessful steps in execution order.
func FailedSteps(outcomes []StepOutcome) []string {
	var failedSteps []string
	for _, outcome := range outcomes {
		if !outcome.Succeeded {
			failedSteps = append(failedSteps, outcome.Step)
		}
	}
	return failedSteps
}

type compactionStep struct {
	name      string
	arguments []string
}

// Orchestrator runs reflog expiry, reference packing and aggressive garbage collection in that order.
type Orchestrator struct {
	executor     shared.GitExecutor
	logger       *zap.Logger
	reflogExpiry string
}

// NewOrchestrator constructs an Orchestrator. An empty reflogExpiry selects DefaultReflogExpiryConstant.
func NewOrchestrator(executor shared.GitExecutor, logger *zap.Logger, reflogExpiry string) (*Orchestrator, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	trimmedReflogExpiry := strings.TrimSpace(reflogExpiry)
	if len(trimmedReflogExpiry) == 0 {
		trimmedReflogExpiry = DefaultReflogExpiryConstant
	}

	return &Orchestrator{executor: executor, logger: logger, reflogExpiry: trimmedReflogExpiry}, nil
}

// Compact runs every step against the repository, including steps after a failed one.
// Failures are logged and returned as outcomes; they never abort the caller.
func (orchestrator *Orchestrator) Compact(executionContext context.Context, handle shared.RepositoryHandle) []StepOutcome {
	steps := orchestrator.steps()
	outcomes := make([]StepOutcome, 0, len(steps))

	for _, step := range steps {
		_, executionError := orchestrator.executor.ExecuteGit(executionContext, handle.GitCommandDetails(step.arguments...))
		if executionError != nil {
			orchestrator.logger.Warn(
				stepFailedLogMessageConstant,
				zap.String(logFieldRepositoryConstant, handle.String()),
				zap.String(logFieldStepConstant, step.name),
				zap.Error(executionError),
			)
			outcomes = append(outcomes, StepOutcome{Step: step.name, Succeeded: false, Failure: executionError.Error()})
			continue
		}
		outcomes = append(outcomes, StepOutcome{Step: step.name, Succeeded: true})
	}

	return outcomes
}

func (orchestrator *Orchestrator) steps() []compactionStep {
	return []compactionStep{
		{
			name:      StepExpireReflog,
			arguments: []string{reflogSubcommandConstant, reflogExpireActionConstant, fmt.Sprintf(reflogExpireFlagTemplateConstant, orchestrator.reflogExpiry), allReferencesFlagConstant},
		},
		{
			name:      StepPackReferences,
			arguments: []string{packRefsSubcommandConstant, allReferencesFlagConstant, pruneFlagConstant},
		},
		{
			name:      StepCollectGarbage,
			arguments: []string{garbageCollectSubcommandConstant, aggressiveFlagConstant, pruneNowFlagConstant},
		},
	}
}
