package db

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLocation is used when a source does not report a location.
const DefaultLocation = "Remote"

// Posting represents a stored job listing. The URL is the sole deduplication
// key: a posting is created once on first sight of its URL and never
// overwritten by later ingestion runs.
type Posting struct {
	ID                    uuid.UUID  `json:"id"`
	URL                   string     `json:"url"`
	Title                 string     `json:"title"`
	Company               string     `json:"company"`
	Location              string     `json:"location"`
	Source                string     `json:"source"`
	RawDescription        string     `json:"-"` // Don't serialize (large, source-native HTML)
	NormalizedDescription string     `json:"normalized_description,omitempty"`
	Tags                  []string   `json:"tags,omitempty"`
	IsRemote              bool       `json:"is_remote"`
	ExperienceLevel       *string    `json:"experience_level,omitempty"`
	Embedding             []float32  `json:"-"` // Never returned to API callers
	PostedAt              *time.Time `json:"posted_at,omitempty"`
	IngestedAt            time.Time  `json:"ingested_at"`
}

// HasEmbedding reports whether the posting carries an embedding of the given
// dimensionality, making it a candidate for similarity scoring.
func (p *Posting) HasEmbedding(dim int) bool {
	return len(p.Embedding) == dim && dim > 0
}

// PostingCreateInput is used when creating a new posting
type PostingCreateInput struct {
	URL                   string
	Title                 string
	Company               string
	Location              string
	Source                string
	RawDescription        string
	NormalizedDescription string
	Tags                  []string
	IsRemote              bool
	ExperienceLevel       string
	Embedding             []float32
	PostedAt              *time.Time
}

// PostingFilters holds optional filters and pagination for listing postings.
// String filters are case-insensitive substring matches; Query searches across
// title, company, normalized description, and tags.
type PostingFilters struct {
	IsRemote        *bool
	ExperienceLevel string
	Title           string
	Company         string
	Location        string
	Source          string
	Query           string
	Limit           int
	Offset          int
}

// MatchFilters narrows the candidate set for a similarity query.
type MatchFilters struct {
	RemoteOnly      bool
	ExperienceLevel string
}
