// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the assessment pipeline over HTTP. A client
// uploads one PDF and receives one Report or one error.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/document"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// uploadField is the multipart form field carrying the PDF.
const uploadField = "file"

// multipartOverhead is allowed on top of the upload limit for boundaries
// and part headers.
const multipartOverhead = 1 << 20

// Assessor runs the pipeline on an uploaded document.
type Assessor interface {
	RunUpload(ctx context.Context, r io.Reader, name string) (*types.Report, error)
}

// Server routes assessment requests to an Assessor.
type Server struct {
	assessor Assessor
	cfg      types.ServerConfig
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a Server for a.
func New(a Assessor, cfg types.ServerConfig, opts ...Option) *Server {
	s := &Server{assessor: a, cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in recovery and request
// logging middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/assess", s.handleAssess).Methods(http.MethodPost)

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	recovery.Logger = zap.NewStdLog(s.logger)

	n := negroni.New()
	n.Use(recovery)
	n.Use(negroni.HandlerFunc(s.logRequest))
	n.UseHandler(r)
	return n
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("graceful shutdown complete")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart/form-data upload")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q field", uploadField))
			return
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		name := part.FileName()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			writeError(w, http.StatusBadRequest, "upload must be a .pdf file")
			return
		}

		report, err := s.assessor.RunUpload(r.Context(), part, name)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}
}

// fail maps err to a status code and writes it as JSON.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("assessment failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Info("assessment rejected", zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, "Processing error: "+err.Error())
}

// StatusFor returns the HTTP status for a pipeline error.
func StatusFor(err error) int {
	var (
		parseErr *types.DocumentParseError
		queryErr *types.QueryGenerationError
		evalErr  *types.EvaluationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &queryErr), errors.As(err, &evalErr):
		return http.StatusBadGateway
	case errors.Is(err, document.ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) logRequest(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, r)

	status := 0
	if nw, ok := w.(negroni.ResponseWriter); ok {
		status = nw.Status()
	}
	s.logger.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
