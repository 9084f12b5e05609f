package store

import (
	"context"
	"time"

	"github.com/sells-group/quality-cli/internal/remediate"
)

// Run is one persisted remediation run.
type Run struct {
	ID           string                   `json:"id"`
	Dataset      string                   `json:"dataset"`
	Policy       string                   `json:"policy"`
	Epochs       int                      `json:"epochs"`
	InitialScore float64                  `json:"initial_score"`
	FinalScore   float64                  `json:"final_score"`
	Converged    bool                     `json:"converged"`
	IterationLog []remediate.HistoryEntry `json:"iteration_log,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Dataset string `json:"dataset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
