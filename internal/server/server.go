// Package server exposes the service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/jobsense/internal/db"
	"github.com/jonathan/jobsense/internal/ingestion"
	"github.com/jonathan/jobsense/internal/matching"
)

// PostingStore is the posting lookup surface the server needs.
type PostingStore interface {
	GetPostingByID(ctx context.Context, id uuid.UUID) (*db.Posting, error)
	GetPostingByURL(ctx context.Context, url string) (*db.Posting, error)
	ListPostings(ctx context.Context, filters db.PostingFilters) ([]db.Posting, int, error)
}

// Ingestor runs ingestion across job boards.
type Ingestor interface {
	Run(ctx context.Context, sourceName string) *ingestion.RunResult
}

// Matcher ranks postings against a resume embedding.
type Matcher interface {
	Match(ctx context.Context, query []float32, prefs matching.Preferences, topN int) ([]matching.MatchResult, error)
}

// ResumeEmbedder converts resume text into a query embedding.
type ResumeEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Config holds the server settings.
type Config struct {
	Port         int
	EmbeddingDim int
}

// Deps collects the server's collaborators.
type Deps struct {
	Store    PostingStore
	Ingestor Ingestor
	Matcher  Matcher
	Resume   ResumeEmbedder
}

// Server is the HTTP front end.
type Server struct {
	httpServer   *http.Server
	store        PostingStore
	ingestor     Ingestor
	matcher      Matcher
	resume       ResumeEmbedder
	embeddingDim int
	validate     *validator.Validate
}

// New creates a configured server.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		store:        deps.Store,
		ingestor:     deps.Ingestor,
		matcher:      deps.Matcher,
		resume:       deps.Resume,
		embeddingDim: cfg.EmbeddingDim,
		validate:     validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /resume/embedding", s.handleResumeEmbedding)
	mux.HandleFunc("GET /postings", s.handleListPostings)
	mux.HandleFunc("GET /postings/by-url", s.handleGetPostingByURL)
	mux.HandleFunc("GET /postings/{id}", s.handleGetPosting)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.withLogging(s.withCORS(mux)),
		ReadTimeout: 30 * time.Second,
		// ingestion runs can take a while
		WriteTimeout: 600 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start runs the server until an interrupt or termination signal arrives,
// then drains in-flight requests.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("server stopped")
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
