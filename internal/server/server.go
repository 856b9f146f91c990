package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/nextstep/internal/server/middleware"
	"github.com/jonathan/nextstep/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
	rateLimiter     *ratelimit.Limiter
	validator       *validator.Validate
	services        Services
	authHandler     *AuthHandler
}

// Config holds server configuration
type Config struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	// RateLimit nil uses the limiter defaults.
	RateLimit *ratelimit.Config
}

// New creates a server with every route registered.
func New(cfg Config, services Services, logger *slog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		logger:          logger,
		corsOrigins:     cfg.CORSOrigins,
		shutdownTimeout: cfg.ShutdownTimeout,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		validator:       newValidator(),
		services:        services,
	}
	s.authHandler = NewAuthHandler(services.Users, services.JWT, s.validator, logger)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	requireAuth := middleware.AuthMiddleware(s.services.JWT.AsTokenValidator())
	auth := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/levels", s.handleLevels)

	// Accounts
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", s.authHandler.Refresh)
	mux.Handle("GET /api/auth/me", auth(s.authHandler.Me))
	mux.Handle("PATCH /api/auth/me", auth(s.authHandler.UpdateMe))
	mux.Handle("PUT /api/auth/password", auth(s.authHandler.UpdatePassword))

	// Dashboard
	mux.Handle("GET /api/dashboard", auth(s.handleGetDashboard))
	mux.Handle("PATCH /api/dashboard", auth(s.handleEditDashboard))
	mux.Handle("POST /api/dashboard/recalculate", auth(s.handleRecalculateDashboard))
	mux.Handle("GET /api/dashboard/achievements", auth(s.handleListAchievements))
	mux.Handle("POST /api/dashboard/achievements", auth(s.handleAddAchievement))
	mux.Handle("DELETE /api/dashboard/achievements/{id}", auth(s.handleRemoveAchievement))
	mux.Handle("GET /api/dashboard/finance-goals", auth(s.handleListFinanceGoals))
	mux.Handle("POST /api/dashboard/finance-goals", auth(s.handleCreateFinanceGoal))
	mux.Handle("PUT /api/dashboard/finance-goals/{id}", auth(s.handleUpdateFinanceGoal))
	mux.Handle("DELETE /api/dashboard/finance-goals/{id}", auth(s.handleDeleteFinanceGoal))
	mux.Handle("GET /api/dashboard/applied-jobs", auth(s.handleListAppliedJobs))
	mux.Handle("POST /api/dashboard/applied-jobs", auth(s.handleCreateAppliedJob))
	mux.Handle("PUT /api/dashboard/applied-jobs/{id}", auth(s.handleUpdateAppliedJob))
	mux.Handle("DELETE /api/dashboard/applied-jobs/{id}", auth(s.handleDeleteAppliedJob))

	// Resume
	mux.Handle("GET /api/resume", auth(s.handleGetResume))
	mux.Handle("PUT /api/resume", auth(s.handleUpdateResume))
	mux.Handle("POST /api/resume/education", auth(s.handleAddEducation))
	mux.Handle("PUT /api/resume/education/{id}", auth(s.handleUpdateEducation))
	mux.Handle("DELETE /api/resume/education/{id}", auth(s.handleDeleteEducation))
	mux.Handle("POST /api/resume/experience", auth(s.handleAddExperience))
	mux.Handle("PUT /api/resume/experience/{id}", auth(s.handleUpdateExperience))
	mux.Handle("DELETE /api/resume/experience/{id}", auth(s.handleDeleteExperience))
	mux.Handle("POST /api/resume/skills", auth(s.handleAddSkill))
	mux.Handle("PUT /api/resume/skills/{id}", auth(s.handleUpdateSkill))
	mux.Handle("DELETE /api/resume/skills/{id}", auth(s.handleDeleteSkill))

	// Jobs and applications
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/featured", s.handleFeaturedJobs)
	mux.HandleFunc("GET /api/jobs/recent", s.handleRecentJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.Handle("POST /api/jobs", auth(s.handleCreateJob))
	mux.Handle("DELETE /api/jobs/{id}", auth(s.handleDeactivateJob))
	mux.Handle("POST /api/jobs/{id}/apply", auth(s.handleApply))
	mux.Handle("GET /api/applications", auth(s.handleListApplications))
	mux.Handle("GET /api/applications/{id}", auth(s.handleGetApplication))
	mux.Handle("DELETE /api/applications/{id}", auth(s.handleWithdrawApplication))
	mux.Handle("PATCH /api/applications/{id}/status", auth(s.handleUpdateApplicationStatus))

	// Ratings
	mux.Handle("POST /api/ratings", auth(s.handleRate))
	mux.Handle("DELETE /api/ratings/{id}", auth(s.handleDeleteRating))
	mux.HandleFunc("GET /api/users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("GET /api/users/{id}/ratings", s.handleListRatings)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS answers preflight requests and sets CORS headers for allowed origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// withRateLimit rejects requests over the client's limit with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID uses the host part of RemoteAddr. Forwarded headers are not trusted.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path, "limit", info.Limit)
	jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLevels publishes the XP threshold table used by every dashboard.
func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	table := s.services.Dashboards.Table()
	jsonResponse(w, http.StatusOK, map[string]any{
		"thresholds": table.Thresholds(),
		"max_level":  table.MaxLevel(),
	})
}
