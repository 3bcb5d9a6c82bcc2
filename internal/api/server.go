package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"curator/internal/config"
	"curator/internal/language"
	"curator/internal/logging"
	"curator/internal/publish"
	"curator/internal/record"
	"curator/internal/store"
)

// Pusher is the slice of the publisher the admin push route needs.
type Pusher interface {
	Push(ctx context.Context, req publish.Request) (*publish.Summary, error)
}

// Server hosts the curation HTTP API.
type Server struct {
	bind   string
	cfg    *config.Config
	store  *store.FileStore
	vocab  record.Vocabulary
	pusher Pusher
	logger *slog.Logger

	router   chi.Router
	listener net.Listener
	server   *http.Server
}

// New builds a server over the file store. pusher may be nil when the hub
// is not configured; the push route then reports a configuration error.
func New(cfg *config.Config, fs *store.FileStore, pusher Pusher, logger *slog.Logger) *Server {
	s := &Server{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		cfg:    cfg,
		store:  fs,
		vocab:  record.NewVocabulary(cfg.Curation.Languages, cfg.Curation.DefaultLanguage, cfg.Curation.Categories, cfg.Curation.SourceTypes),
		pusher: pusher,
		logger: logging.NewComponentLogger(logger, "api"),
	}
	s.router = s.routes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/api/config", s.handleConfig)

	r.Route("/api/raw", func(r chi.Router) {
		r.Post("/submit", s.handleRawSubmit)
		r.Get("/pending", s.stageListHandler(record.StageRaw, record.StatusPending))
		r.Get("/approved", s.stageListHandler(record.StageRaw, record.StatusApproved))
		r.Get("/file/{filename}", s.stageFileHandler(record.StageRaw))
	})

	r.Route("/api/cleaning", func(r chi.Router) {
		r.Get("/raw-files", s.handleCleaningRawFiles)
		r.Post("/submit", s.handleCleaningSubmit)
		r.Get("/pending", s.stageListHandler(record.StageCleaned, record.StatusPending))
		r.Get("/approved", s.stageListHandler(record.StageCleaned, record.StatusApproved))
		r.Get("/file/{filename}", s.stageFileHandler(record.StageCleaned))
	})

	r.Route("/api/chunking", func(r chi.Router) {
		r.Get("/cleaned-files", s.handleChunkingCleanedFiles)
		r.Get("/chunks/{filename}", s.handleChunksFor)
		r.Post("/submit", s.handleChunkSubmit)
		r.Post("/submit-batch", s.handleChunkSubmitBatch)
		r.Get("/pending", s.handleChunkPending)
		r.Delete("/chunk/{filename}/{index}", s.handleChunkDelete)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireToken(s.cfg.Paths.APIToken))
		r.Get("/pending", s.handleAdminPending)
		r.Get("/item", s.handleAdminItem)
		r.Post("/update", s.handleAdminUpdate)
		r.Post("/approve", s.handleAdminApprove)
		r.Post("/reject", s.handleAdminReject)
		r.Post("/approve-all", s.handleAdminApproveAll)
		r.Get("/stats", s.handleAdminStats)
		r.Post("/push", s.handleAdminPush)
	})

	return r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on the configured bind address. The server shuts
// down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return fmt.Errorf("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound listener address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  "0.1.0",
		"platform": "curator",
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	languages := make(map[string]string, len(s.cfg.Curation.Languages))
	for _, code := range s.cfg.Curation.Languages {
		languages[code] = language.DisplayName(code)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"languages":       languages,
		"defaultLanguage": s.cfg.Curation.DefaultLanguage,
		"categories":      s.cfg.Curation.Categories,
		"sourceTypes":     s.cfg.Curation.SourceTypes,
		"hubRepos": map[string]string{
			"raw":     s.cfg.Hub.RawRepo,
			"cleaned": s.cfg.Hub.CleanedRepo,
			"chunked": s.cfg.Hub.ChunkedRepo,
		},
	})
}
