// Package matching ranks stored postings against a resume embedding by
// cosine similarity.
package matching

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobsense/internal/db"
)

const (
	// DefaultSimilarityThreshold filters out weak matches. This is a tuning
	// parameter, not a structural invariant; override it via configuration.
	DefaultSimilarityThreshold = 0.3
	// DefaultTopN is the result cap when the caller does not specify one.
	DefaultTopN = 10
	// SnippetLength caps the description excerpt in a match result.
	SnippetLength = 200

	scorePrecision = 4
)

// Corpus is the posting source the engine ranks against.
type Corpus interface {
	ListEligiblePostings(ctx context.Context, filters db.MatchFilters) ([]db.Posting, error)
}

// Preferences narrows which postings are considered for matching.
type Preferences struct {
	RemoteOnly      bool
	ExperienceLevel string
}

// MatchResult is one ranked posting.
type MatchResult struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location"`
	URL             string     `json:"url"`
	Source          string     `json:"source"`
	IsRemote        bool       `json:"is_remote"`
	Tags            []string   `json:"tags,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	Snippet         string     `json:"snippet"`
	SimilarityScore float64    `json:"similarity_score"`
}

// Config tunes the engine.
type Config struct {
	EmbeddingDim int
	// SimilarityThreshold overrides DefaultSimilarityThreshold. Zero is a
	// valid cutoff, so unset is expressed as nil rather than the zero value.
	SimilarityThreshold *float64
}

// Engine ranks postings against a query embedding.
type Engine struct {
	corpus    Corpus
	dim       int
	threshold float64
}

// NewEngine builds an engine over the given corpus. Zero config values fall
// back to the defaults.
func NewEngine(corpus Corpus, cfg Config) *Engine {
	dim := cfg.EmbeddingDim
	if dim <= 0 {
		dim = db.DefaultEmbeddingDim
	}
	threshold := DefaultSimilarityThreshold
	if cfg.SimilarityThreshold != nil {
		threshold = *cfg.SimilarityThreshold
	}
	return &Engine{corpus: corpus, dim: dim, threshold: threshold}
}

// Match ranks eligible postings against the query embedding and returns up
// to topN results at or above the similarity threshold.
func (e *Engine) Match(ctx context.Context, query []float32, prefs Preferences, topN int) ([]MatchResult, error) {
	if len(query) != e.dim {
		return nil, fmt.Errorf("query embedding has %d components, want %d", len(query), e.dim)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	postings, err := e.corpus.ListEligiblePostings(ctx, db.MatchFilters{
		RemoteOnly:      prefs.RemoteOnly,
		ExperienceLevel: prefs.ExperienceLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible postings: %w", err)
	}
	if len(postings) == 0 {
		return []MatchResult{}, nil
	}
	log.Printf("[matching] comparing query against %d postings", len(postings))

	type scored struct {
		posting *db.Posting
		score   float64
	}

	var candidates []scored
	for i := range postings {
		p := &postings[i]
		if !p.HasEmbedding(e.dim) {
			// defensive only; the corpus query already filters these out
			continue
		}
		score := CosineSimilarity(query, p.Embedding)
		if score < e.threshold {
			continue
		}
		candidates = append(candidates, scored{posting: p, score: score})
	}

	// Stable sort keeps the corpus insertion order among equal scores, so
	// repeated identical queries produce identical orderings.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, MatchResult{
			ID:              c.posting.ID,
			Title:           c.posting.Title,
			Company:         c.posting.Company,
			Location:        c.posting.Location,
			URL:             c.posting.URL,
			Source:          c.posting.Source,
			IsRemote:        c.posting.IsRemote,
			Tags:            c.posting.Tags,
			PostedAt:        c.posting.PostedAt,
			Snippet:         snippet(c.posting.NormalizedDescription),
			SimilarityScore: roundScore(c.score),
		})
	}
	return results, nil
}

func snippet(text string) string {
	if text == "" {
		return "N/A"
	}
	if len(text) <= SnippetLength {
		return text
	}
	return text[:SnippetLength] + "..."
}

func roundScore(score float64) float64 {
	factor := math.Pow(10, scorePrecision)
	return math.Round(score*factor) / factor
}
