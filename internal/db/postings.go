package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateURL indicates an insert hit the uniqueness constraint on url.
// A concurrent run inserted the same posting first; callers treat this the
// same as finding the posting during the dedupe check.
var ErrDuplicateURL = errors.New("posting with this url already exists")

// BadDimensionError indicates an embedding of the wrong length was rejected
// at write time.
type BadDimensionError struct {
	Got  int
	Want int
}

func (e *BadDimensionError) Error() string {
	return fmt.Sprintf("embedding has %d components, want %d", e.Got, e.Want)
}

const postingColumns = `id, url, title, company, location, source, raw_description,
	        normalized_description, tags, is_remote, experience_level, embedding,
	        posted_at, ingested_at`

// InsertPosting creates a new posting. A non-empty embedding must have exactly
// the configured dimensionality. Inserting a URL that already exists returns
// ErrDuplicateURL; existing rows are never updated.
func (db *DB) InsertPosting(ctx context.Context, input *PostingCreateInput) (*Posting, error) {
	if len(input.Embedding) > 0 && len(input.Embedding) != db.embeddingDim {
		return nil, &BadDimensionError{Got: len(input.Embedding), Want: db.embeddingDim}
	}

	location := input.Location
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}

	// nil would encode as SQL NULL and violate the NOT NULL tags column
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var experienceLevel *string
	if input.ExperienceLevel != "" {
		experienceLevel = &input.ExperienceLevel
	}

	var embedding []float32
	if len(input.Embedding) > 0 {
		embedding = input.Embedding
	}

	var p Posting
	err := db.pool.QueryRow(ctx,
		`INSERT INTO postings (url, title, company, location, source, raw_description,
		                       normalized_description, tags, is_remote, experience_level,
		                       embedding, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, ingested_at`,
		input.URL, input.Title, input.Company, location, input.Source,
		input.RawDescription, input.NormalizedDescription, tags,
		input.IsRemote, experienceLevel, embedding, input.PostedAt,
	).Scan(&p.ID, &p.IngestedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to insert posting: %w", err)
	}

	p.URL = input.URL
	p.Title = input.Title
	p.Company = input.Company
	p.Location = location
	p.Source = input.Source
	p.RawDescription = input.RawDescription
	p.NormalizedDescription = input.NormalizedDescription
	p.Tags = tags
	p.IsRemote = input.IsRemote
	p.ExperienceLevel = experienceLevel
	p.Embedding = embedding
	p.PostedAt = input.PostedAt

	return &p, nil
}

// GetPostingByURL retrieves a posting by its URL
func (db *DB) GetPostingByURL(ctx context.Context, url string) (*Posting, error) {
	return db.getPosting(ctx, "url = $1", url)
}

// GetPostingByID retrieves a posting by its ID
func (db *DB) GetPostingByID(ctx context.Context, id uuid.UUID) (*Posting, error) {
	return db.getPosting(ctx, "id = $1", id)
}

func (db *DB) getPosting(ctx context.Context, where string, arg any) (*Posting, error) {
	var p Posting
	err := db.pool.QueryRow(ctx,
		`SELECT `+postingColumns+` FROM postings WHERE `+where, arg,
	).Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Location, &p.Source,
		&p.RawDescription, &p.NormalizedDescription, &p.Tags, &p.IsRemote,
		&p.ExperienceLevel, &p.Embedding, &p.PostedAt, &p.IngestedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return &p, nil
}

// ListPostings retrieves postings matching the filters, newest first, and the
// total count before pagination. Raw descriptions and embeddings are not
// loaded; list responses exclude large fields.
func (db *DB) ListPostings(ctx context.Context, filters PostingFilters) ([]Posting, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = 10
	}

	where := "WHERE 1=1"
	args := []any{}
	argNum := 1

	addILike := func(column, value string) {
		if value == "" {
			return
		}
		where += fmt.Sprintf(" AND %s ILIKE $%d", column, argNum)
		args = append(args, "%"+value+"%")
		argNum++
	}

	if filters.IsRemote != nil {
		where += fmt.Sprintf(" AND is_remote = $%d", argNum)
		args = append(args, *filters.IsRemote)
		argNum++
	}
	addILike("experience_level", filters.ExperienceLevel)
	addILike("title", filters.Title)
	addILike("company", filters.Company)
	addILike("location", filters.Location)
	addILike("source", filters.Source)

	if filters.Query != "" {
		where += fmt.Sprintf(
			" AND (title ILIKE $%d OR company ILIKE $%d OR normalized_description ILIKE $%d"+
				" OR array_to_string(tags, ' ') ILIKE $%d)",
			argNum, argNum, argNum, argNum)
		args = append(args, "%"+filters.Query+"%")
		argNum++
	}

	var total int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM postings "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count postings: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, url, title, company, location, source, normalized_description,
		        tags, is_remote, experience_level, posted_at, ingested_at
		 FROM postings %s ORDER BY ingested_at DESC LIMIT $%d OFFSET $%d`,
		where, argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Location, &p.Source,
			&p.NormalizedDescription, &p.Tags, &p.IsRemote, &p.ExperienceLevel,
			&p.PostedAt, &p.IngestedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, total, nil
}

// ListEligiblePostings retrieves postings that carry an embedding of exactly
// the configured dimensionality, in insertion order. This is the matching
// engine's read path; each query takes a fresh snapshot.
func (db *DB) ListEligiblePostings(ctx context.Context, filters MatchFilters) ([]Posting, error) {
	where := "WHERE embedding IS NOT NULL AND cardinality(embedding) = $1"
	args := []any{db.embeddingDim}
	argNum := 2

	if filters.RemoteOnly {
		where += " AND is_remote = TRUE"
	}
	// Match preferences are exact; substring matching belongs to the list
	// endpoint's filters only.
	if filters.ExperienceLevel != "" {
		where += fmt.Sprintf(" AND experience_level = $%d", argNum)
		args = append(args, filters.ExperienceLevel)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM postings `+where+` ORDER BY ingested_at ASC, id ASC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible postings: %w", err)
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Location, &p.Source,
			&p.RawDescription, &p.NormalizedDescription, &p.Tags, &p.IsRemote,
			&p.ExperienceLevel, &p.Embedding, &p.PostedAt, &p.IngestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, nil
}
