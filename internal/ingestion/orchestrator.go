// Package ingestion coordinates the job board adapters: it fans out fetches,
// normalizes and embeds each record, and persists postings with per-record
// isolation so one bad listing never takes down a run.
package ingestion

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobsense/internal/db"
	"github.com/jonathan/jobsense/internal/embedding"
	"github.com/jonathan/jobsense/internal/sources"
)

const (
	// DefaultAdapterConcurrency bounds how many boards are fetched at once.
	DefaultAdapterConcurrency = 3
	// DefaultAdapterTimeout bounds a single adapter's full fetch-and-store pass.
	DefaultAdapterTimeout = 5 * time.Minute
)

// Orchestrator runs ingestion across the registered sources.
type Orchestrator struct {
	registry *sources.Registry
	store    Store
	embedder embedding.Client

	AdapterConcurrency int
	AdapterTimeout     time.Duration
}

// NewOrchestrator builds an orchestrator with default concurrency limits.
func NewOrchestrator(registry *sources.Registry, store Store, embedder embedding.Client) *Orchestrator {
	return &Orchestrator{
		registry:           registry,
		store:              store,
		embedder:           embedder,
		AdapterConcurrency: DefaultAdapterConcurrency,
		AdapterTimeout:     DefaultAdapterTimeout,
	}
}

// Run ingests from the named source, or from every registered source when
// sourceName is empty. The result always carries one outcome per source that
// was attempted.
func (o *Orchestrator) Run(ctx context.Context, sourceName string) *RunResult {
	var adapters []sources.Adapter
	if sourceName != "" {
		adapter, ok := o.registry.Get(sourceName)
		if !ok {
			return &RunResult{
				Status: StatusNotFound,
				Outcomes: []Outcome{{
					Source: sourceName,
					Status: StatusNotFound,
					Error:  "no adapter registered for this source",
				}},
			}
		}
		adapters = []sources.Adapter{adapter}
	} else {
		adapters = o.registry.All()
	}

	outcomes := make([]Outcome, len(adapters))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.AdapterConcurrency)
	for i, adapter := range adapters {
		g.Go(func() error {
			outcomes[i] = o.runAdapter(groupCtx, adapter)
			return nil
		})
	}
	// adapter errors are captured in outcomes, never returned
	_ = g.Wait()

	return &RunResult{
		Status:   aggregateStatus(outcomes),
		Outcomes: outcomes,
	}
}

func (o *Orchestrator) runAdapter(ctx context.Context, adapter sources.Adapter) Outcome {
	outcome := Outcome{Source: adapter.Name()}

	ctx, cancel := context.WithTimeout(ctx, o.AdapterTimeout)
	defer cancel()

	records, err := adapter.Fetch(ctx)
	if err != nil {
		log.Printf("[ingestion] source %s failed: %v", adapter.Name(), err)
		outcome.Status = StatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Found = len(records)

	for i := range records {
		if ctx.Err() != nil {
			outcome.Status = StatusFailed
			outcome.Error = ctx.Err().Error()
			return outcome
		}
		o.processRecord(ctx, adapter.Name(), &records[i], &outcome)
	}

	if outcome.Skipped > 0 {
		log.Printf("[ingestion] source %s dropped %d records", adapter.Name(), outcome.Skipped)
	}
	log.Printf("[ingestion] source %s: found=%d added=%d already_existed=%d failed_to_embed=%d skipped=%d",
		adapter.Name(), outcome.Found, outcome.Added, outcome.AlreadyExisted, outcome.FailedToEmbed, outcome.Skipped)

	outcome.Status = StatusSuccess
	return outcome
}

func (o *Orchestrator) processRecord(ctx context.Context, source string, record *sources.RawPosting, outcome *Outcome) {
	if !record.Valid() {
		outcome.Skipped++
		return
	}

	normalized := NormalizeDescription(record.RawDescription)

	existing, err := o.store.GetPostingByURL(ctx, record.URL)
	if err != nil {
		log.Printf("[ingestion] lookup failed for %s: %v", record.URL, err)
		outcome.Skipped++
		return
	}
	if existing != nil {
		outcome.AlreadyExisted++
		return
	}

	var vector []float32
	if normalized != "" {
		vector, err = o.embedder.Embed(ctx, record.Title+" "+normalized)
		if err != nil {
			// A posting is never discarded solely because embedding failed.
			log.Printf("[ingestion] embedding failed for %s: %v", record.URL, err)
			outcome.FailedToEmbed++
			vector = nil
		}
	}

	input := &db.PostingCreateInput{
		URL:                   record.URL,
		Title:                 record.Title,
		Company:               record.Company,
		Location:              record.Location,
		Source:                source,
		RawDescription:        record.RawDescription,
		NormalizedDescription: normalized,
		Tags:                  record.Tags,
		IsRemote:              record.IsRemote,
		Embedding:             vector,
		PostedAt:              record.PostedAt,
	}

	_, err = o.store.InsertPosting(ctx, input)
	var dimErr *db.BadDimensionError
	if errors.As(err, &dimErr) {
		// Integrity guard tripped: keep the posting, drop the vector.
		log.Printf("[ingestion] bad embedding dimension for %s: %v", record.URL, err)
		outcome.FailedToEmbed++
		input.Embedding = nil
		_, err = o.store.InsertPosting(ctx, input)
	}

	switch {
	case err == nil:
		outcome.Added++
	case errors.Is(err, db.ErrDuplicateURL):
		// Lost a race with a concurrent insert of the same URL.
		outcome.AlreadyExisted++
	default:
		log.Printf("[ingestion] insert failed for %s: %v", record.URL, err)
		outcome.Skipped++
	}
}

func aggregateStatus(outcomes []Outcome) Status {
	if len(outcomes) == 0 {
		return StatusSuccess
	}
	failed := 0
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			failed++
		}
	}
	switch {
	case failed == len(outcomes):
		return StatusFailed
	case failed > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}
