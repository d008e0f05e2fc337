package recompress

import (
	"github.com/temirov/recompress/internal/compaction"
	"github.com/temirov/recompress/internal/repos/shared"
	"github.com/temirov/recompress/internal/sizediff"
)

// RunOptions configures a single invocation of the service.
type RunOptions struct {
	Roots      []string
	DryRun     bool
	ReportFile string
}

// RepositoryResult records the measurements and compaction outcomes of one repository.
type RepositoryResult struct {
	Repository shared.RepositoryHandle  `yaml:"repository"`
	Before     uint64                   `yaml:"before_bytes"`
	After      uint64                   `yaml:"after_bytes"`
	Change     string                   `yaml:"change"`
	Steps      []compaction.StepOutcome `yaml:"steps,omitempty"`
}

// FailedSteps lists the compaction steps that did not succeed.
func (result RepositoryResult) FailedSteps() []string {
	return compaction.FailedSteps(result.Steps)
}

// RunTotals holds the aggregate sizes of every processed repository.
type RunTotals struct {
	Before uint64 `yaml:"before_bytes"`
	After  uint64 `yaml:"after_bytes"`
}

// Add returns the totals with the result folded in.
func (totals RunTotals) Add(result RepositoryResult) RunTotals {
	return RunTotals{Before: totals.Before + result.Before, After: totals.After + result.After}
}

// Describe renders the totals with both sizes shown.
func (totals RunTotals) Describe() string {
	return sizediff.Format(totals.Before, totals.After, true)
}

// RunSummary is the complete outcome of a run.
type RunSummary struct {
	DryRun       bool               `yaml:"dry_run"`
	Repositories []RepositoryResult `yaml:"repositories"`
	Totals       RunTotals          `yaml:"totals"`
	TotalChange  string             `yaml:"total_change"`
}

func summarize(results []RepositoryResult, dryRun bool) RunSummary {
	totals := RunTotals{}
	for _, result := range results {
		totals = totals.Add(result)
	}
	return RunSummary{
		DryRun:       dryRun,
		Repositories: results,
		Totals:       totals,
		TotalChange:  totals.Describe(),
	}
}
