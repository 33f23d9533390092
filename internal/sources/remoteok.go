package sources

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/jobsense/internal/fetch"
)

// SourceRemoteOK is the registry name of the RemoteOK adapter.
const SourceRemoteOK = "remoteok"

const remoteOKAPIURL = "https://remoteok.com/api"

//go:embed remoteok_api.schema.json
var remoteOKSchema string

// RemoteOKAdapter pulls listings from the RemoteOK JSON API. The response is
// validated against an embedded schema so a silent API change surfaces as a
// FormatChangedError instead of garbage postings.
type RemoteOKAdapter struct {
	apiURL  string
	timeout time.Duration
	schema  *gojsonschema.Schema
}

// NewRemoteOKAdapter builds an adapter for the given API endpoint. An empty
// apiURL uses the public RemoteOK API.
func NewRemoteOKAdapter(apiURL string) (*RemoteOKAdapter, error) {
	if apiURL == "" {
		apiURL = remoteOKAPIURL
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(remoteOKSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile RemoteOK schema: %w", err)
	}
	return &RemoteOKAdapter{
		apiURL:  apiURL,
		timeout: 20 * time.Second,
		schema:  schema,
	}, nil
}

type remoteOKJob struct {
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	Epoch       int64    `json:"epoch"`
}

// Name returns the source identifier.
func (a *RemoteOKAdapter) Name() string {
	return SourceRemoteOK
}

// Fetch retrieves and decodes the current RemoteOK listings.
func (a *RemoteOKAdapter) Fetch(ctx context.Context) ([]RawPosting, error) {
	result, err := fetch.URL(ctx, a.apiURL, &fetch.Options{
		Timeout:   a.timeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		return nil, &UnavailableError{Source: SourceRemoteOK, Cause: err}
	}

	validation, err := a.schema.Validate(gojsonschema.NewStringLoader(result.Body))
	if err != nil {
		return nil, &FormatChangedError{Source: SourceRemoteOK, Reason: "response is not valid JSON"}
	}
	if !validation.Valid() {
		reason := "response does not match the expected structure"
		if errs := validation.Errors(); len(errs) > 0 {
			reason = errs[0].String()
		}
		return nil, &FormatChangedError{Source: SourceRemoteOK, Reason: reason}
	}

	var entries []remoteOKJob
	if err := json.Unmarshal([]byte(result.Body), &entries); err != nil {
		return nil, &FormatChangedError{Source: SourceRemoteOK, Reason: "failed to decode job entries"}
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// The first element is a legal notice, not a job.
	entries = entries[1:]
	log.Printf("[remoteok] fetched %d job entries", len(entries))

	postings := make([]RawPosting, 0, len(entries))
	for _, entry := range entries {
		postings = append(postings, RawPosting{
			Title:          entry.Position,
			Company:        entry.Company,
			URL:            entry.URL,
			RawDescription: entry.Description,
			Location:       entry.Location,
			Tags:           entry.Tags,
			IsRemote:       true,
			PostedAt:       parseRemoteOKDate(entry.Date, entry.Epoch),
		})
	}
	return postings, nil
}

func parseRemoteOKDate(date string, epoch int64) *time.Time {
	if date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			return &t
		}
	}
	if epoch > 0 {
		t := time.Unix(epoch, 0).UTC()
		return &t
	}
	return nil
}
