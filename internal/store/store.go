// Package store persists discovery run history.
package store

import (
	"context"
	"time"

	"github.com/sells-group/outreach-cli/internal/model"
)

// RunFilter narrows ListRuns results.
type RunFilter struct {
	Status       model.RunStatus
	CreatedAfter time.Time
	Limit        int
	Offset       int
}

// Store is the persistence interface for run history.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, targets int) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, report *model.RunReport) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	Close() error
}
