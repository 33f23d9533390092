package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/jobsense/internal/db"
)

// ListPostingsResponse is the paginated posting list envelope.
type ListPostingsResponse struct {
	Postings   []db.Posting `json:"postings"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
}

func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1, 0)
	limit := parseQueryInt(r, "limit", 10, 100)

	filters := db.PostingFilters{
		ExperienceLevel: r.URL.Query().Get("experience_level"),
		Title:           r.URL.Query().Get("title"),
		Company:         r.URL.Query().Get("company"),
		Location:        r.URL.Query().Get("location"),
		Source:          r.URL.Query().Get("source"),
		Query:           r.URL.Query().Get("q"),
		Limit:           limit,
		Offset:          (page - 1) * limit,
	}

	if raw := r.URL.Query().Get("is_remote"); raw != "" {
		isRemote, err := strconv.ParseBool(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid is_remote")
			return
		}
		filters.IsRemote = &isRemote
	}

	postings, total, err := s.store.ListPostings(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list postings")
		return
	}

	totalPages := (total + limit - 1) / limit
	s.jsonResponse(w, http.StatusOK, ListPostingsResponse{
		Postings:   postings,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
	})
}

func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid posting ID")
		return
	}

	posting, err := s.store.GetPostingByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get posting")
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

func (s *Server) handleGetPostingByURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	posting, err := s.store.GetPostingByURL(r.Context(), url)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get posting")
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}
