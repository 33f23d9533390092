package ingestion

import (
	"context"

	"github.com/jonathan/jobsense/internal/db"
)

// Status summarizes how an ingestion run (or one source within it) went.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
	StatusNotFound Status = "not_found"
)

// Outcome reports what happened for a single source during a run.
type Outcome struct {
	Source         string `json:"source"`
	Status         Status `json:"status"`
	Found          int    `json:"found"`
	Added          int    `json:"added"`
	AlreadyExisted int    `json:"already_existed"`
	FailedToEmbed  int    `json:"failed_to_embed"`
	Skipped        int    `json:"skipped"`
	Error          string `json:"error,omitempty"`
}

// RunResult is the aggregate outcome of an ingestion run.
type RunResult struct {
	Status   Status    `json:"status"`
	Outcomes []Outcome `json:"outcomes"`
}

// Store is the subset of posting storage the orchestrator needs.
type Store interface {
	GetPostingByURL(ctx context.Context, url string) (*db.Posting, error)
	InsertPosting(ctx context.Context, input *db.PostingCreateInput) (*db.Posting, error)
}
