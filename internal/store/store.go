// Package store persists suitability run history. Persistence is optional:
// the workflow itself never requires it, commands opt in with --save.
package store

import (
	"context"

	"github.com/coastwatch/habitat-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Species string
	Limit   int
}

// Store defines the run-history persistence interface.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
