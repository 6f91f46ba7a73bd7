package store

import (
	"context"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// RunFilter specifies criteria for listing resolution runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for resolution run history.
type Store interface {
	CreateRun(ctx context.Context, req model.StyleRequest) (*model.ResolutionRun, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResponse(ctx context.Context, runID string, resp *model.StyleResponse) error
	GetRun(ctx context.Context, runID string) (*model.ResolutionRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ResolutionRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
