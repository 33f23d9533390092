package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/jobsense/internal/matching"
	"github.com/jonathan/jobsense/internal/resume"
)

// DefaultMatchTopN is the result cap for match requests that do not ask for
// a specific count.
const DefaultMatchTopN = 7

// IngestRequest selects which source to ingest from. An empty source means
// all registered sources.
type IngestRequest struct {
	Source string `json:"source,omitempty"`
}

// MatchPreferences narrows the postings considered for a match.
type MatchPreferences struct {
	RemoteOnly      bool   `json:"remote_only"`
	ExperienceLevel string `json:"experience_level,omitempty"`
}

// MatchRequest carries either a precomputed resume embedding or raw resume
// text to embed on the fly.
type MatchRequest struct {
	ResumeText      string            `json:"resume_text,omitempty"`
	ResumeEmbedding []float32         `json:"resume_embedding,omitempty"`
	TopN            int               `json:"top_n,omitempty" validate:"gte=0,lte=100"`
	Preferences     *MatchPreferences `json:"preferences,omitempty"`
}

// MatchResponse is the ranked match list.
type MatchResponse struct {
	Count   int                    `json:"count"`
	Matches []matching.MatchResult `json:"matches"`
}

// ResumeEmbeddingRequest carries resume text to embed.
type ResumeEmbeddingRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

// ResumeEmbeddingResponse carries the resulting vector.
type ResumeEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
	Warning   string    `json:"warning,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Source == "" {
		req.Source = r.URL.Query().Get("source")
	}

	// Scraping external boards is inherently unreliable, so the run itself
	// always answers with structured per-source outcomes rather than an
	// HTTP-level failure.
	result := s.ingestor.Run(r.Context(), req.Source)
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	query := req.ResumeEmbedding
	if len(query) == 0 && req.ResumeText != "" {
		vector, err := s.resume.EmbedText(r.Context(), req.ResumeText)
		if err != nil {
			if errors.Is(err, resume.ErrTextTooShort) {
				s.errorResponse(w, http.StatusBadRequest, "Resume text is too short or invalid")
				return
			}
			// An embedding failure degrades to an empty vector, which the
			// dimensionality check below rejects with a client error.
			log.Printf("failed to embed resume text: %v", err)
		}
		query = vector
	}

	if len(query) != s.embeddingDim {
		s.errorResponse(w, http.StatusBadRequest,
			"A valid resume embedding of the configured dimensionality, or sufficient resume text, must be provided")
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = DefaultMatchTopN
	}

	var prefs matching.Preferences
	if req.Preferences != nil {
		prefs = matching.Preferences{
			RemoteOnly:      req.Preferences.RemoteOnly,
			ExperienceLevel: req.Preferences.ExperienceLevel,
		}
	}

	matches, err := s.matcher.Match(r.Context(), query, prefs, topN)
	if err != nil {
		log.Printf("match failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to match postings")
		return
	}

	// An empty result is a valid answer, not an error.
	s.jsonResponse(w, http.StatusOK, MatchResponse{Count: len(matches), Matches: matches})
}

func (s *Server) handleResumeEmbedding(w http.ResponseWriter, r *http.Request) {
	var req ResumeEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	vector, err := s.resume.EmbedText(r.Context(), req.ResumeText)
	if err != nil {
		if errors.Is(err, resume.ErrTextTooShort) {
			s.errorResponse(w, http.StatusBadRequest, "Resume text is too short or invalid")
			return
		}
		log.Printf("failed to embed resume text: %v", err)
		s.jsonResponse(w, http.StatusOK, ResumeEmbeddingResponse{
			Embedding: []float32{},
			Warning:   "embedding service failed; returned an empty vector",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, ResumeEmbeddingResponse{
		Embedding: vector,
		Dimension: len(vector),
	})
}
