package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobsense/internal/db"
)

func TestListPostings_Defaults(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.store.list = []db.Posting{{Title: "Go Developer"}}
	deps.store.total = 1

	rec := doRequest(t, srv, http.MethodGet, "/postings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ListPostingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 0, deps.store.filters.Offset)
}

func TestListPostings_Pagination(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.store.total = 45

	rec := doRequest(t, srv, http.MethodGet, "/postings?page=3&limit=20", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ListPostingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 40, deps.store.filters.Offset)
}

func TestListPostings_LimitCapped(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings?limit=500", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, deps.store.filters.Limit)
}

func TestListPostings_InvalidPageFallsBack(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings?page=-4&limit=abc", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, deps.store.filters.Limit)
	assert.Equal(t, 0, deps.store.filters.Offset)
}

func TestListPostings_Filters(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet,
		"/postings?title=go&company=acme&location=remote&source=remoteok&q=backend&experience_level=senior&is_remote=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	filters := deps.store.filters
	assert.Equal(t, "go", filters.Title)
	assert.Equal(t, "acme", filters.Company)
	assert.Equal(t, "remote", filters.Location)
	assert.Equal(t, "remoteok", filters.Source)
	assert.Equal(t, "backend", filters.Query)
	assert.Equal(t, "senior", filters.ExperienceLevel)
	require.NotNil(t, filters.IsRemote)
	assert.True(t, *filters.IsRemote)
}

func TestListPostings_InvalidIsRemote(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings?is_remote=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPosting_Found(t *testing.T) {
	srv, deps := newTestServer(t)
	id := uuid.New()
	deps.store.byID[id] = &db.Posting{ID: id, Title: "Go Developer"}

	rec := doRequest(t, srv, http.MethodGet, "/postings/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go Developer")
}

func TestGetPosting_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPosting_InvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPostingByURL_Found(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.store.byURL["https://example.com/1"] = &db.Posting{Title: "Go Developer"}

	rec := doRequest(t, srv, http.MethodGet, "/postings/by-url?url=https%3A%2F%2Fexample.com%2F1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go Developer")
}

func TestGetPostingByURL_MissingParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings/by-url", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPostingByURL_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/postings/by-url?url=https%3A%2F%2Fexample.com%2Fmissing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
