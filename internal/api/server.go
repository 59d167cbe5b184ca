// Package api exposes one keno session over a loopback HTTP/JSON bridge so
// a browser front end can act as the view.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/keno-sim/internal/session"
)

// Options tune the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves one session over HTTP.
type Server struct {
	sess         *session.Session
	logger       zerolog.Logger
	errorHandler *ErrorHandler
	opts         Options
	startTime    time.Time
	httpServer   *http.Server
}

// NewServer creates a server for sess. Call Start to listen.
func NewServer(sess *session.Session, logger zerolog.Logger, opts Options) *Server {
	logger = logger.With().Str("component", "api").Logger()
	return &Server{
		sess:         sess,
		logger:       logger,
		errorHandler: NewErrorHandler(logger),
		opts:         opts,
		startTime:    time.Now(),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.LoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.CORSMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/payouts", s.handlePayouts)
		r.Get("/rules", s.handleRules)
		r.Get("/odds/{spots}", s.handleOdds)
		r.Get("/verify", s.handleVerify)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Post("/configure", s.handleConfigure)
			r.Post("/picks/{n}", s.handleTogglePick)
			r.Post("/quickpick", s.handleQuickPick)
			r.Post("/start", s.handleStart)
			r.Post("/continue", s.handleContinue)
			r.Post("/reset", s.handleReset)
			r.Get("/history", s.handleHistory)
			r.Get("/summary", s.handleSummary)
		})
	})

	return r
}

// Start binds the listener and serves in the background. It returns once
// the socket is bound.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("session_id", s.sess.ID().String()).
		Str("version", Version).
		Msg("keno bridge listening")

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("serve failed")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info().Dur("uptime", time.Since(s.startTime)).Msg("keno bridge shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Keno-Version", Version)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}
