package recompress

import (
	"context"

	"github.com/temirov/recompress/internal/accounting"
	"github.com/temirov/recompress/internal/compaction"
	"github.com/temirov/recompress/internal/repos/shared"
)

// SizeAccountant measures the storage footprint of a repository.
type SizeAccountant interface {
	Measure(executionContext context.Context, handle shared.RepositoryHandle) (accounting.SizeMeasurement, error)
}

// RepositoryCompactor compacts a repository and reports per-step outcomes.
type RepositoryCompactor interface {
	Compact(executionContext context.Context, handle shared.RepositoryHandle) []compaction.StepOutcome
}
