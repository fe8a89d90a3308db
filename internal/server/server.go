// Package server provides the HTTP REST API for the resume auditor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-auditor/internal/analysis"
	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/matching"
	"github.com/jonathan/resume-auditor/internal/metrics"
	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/server/ratelimit"
	"github.com/jonathan/resume-auditor/internal/session"
)

// maxUploadBytes bounds the multipart body of an upload.
const maxUploadBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	sessions    session.Store
	analyzer    *analysis.Analyzer
	rewriter    *rewriting.Rewriter
	matcher     *matching.Matcher
	rateLimiter ratelimit.Allower
	locks       sessionLocks
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port               int
	APIKey             string
	Sessions           session.Options
	RewriteConcurrency int
}

// Deps are the collaborators a Server is assembled from.
type Deps struct {
	Store              session.Store
	Client             llm.Client
	Limiter            ratelimit.Allower
	RewriteConcurrency int
}

// New creates a new server instance, opening the session store and the model client.
func New(ctx context.Context, cfg Config) (*Server, error) {
	opened, err := session.Open(ctx, cfg.Sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
	if err != nil {
		opened.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	limiterConfig := ratelimit.LoadConfig()
	var limiter ratelimit.Allower
	closers := []func(){opened.Close, func() { _ = client.Close() }}
	if limiterConfig.Backend == "redis" && cfg.Sessions.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Sessions.RedisURL)
		if err != nil {
			opened.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		closers = append(closers, func() { _ = rdb.Close() })
		limiter = ratelimit.NewRedisLimiter(rdb, limiterConfig)
	} else {
		limiter = ratelimit.NewLimiter(limiterConfig)
	}

	s := NewWithDeps(Deps{
		Store:              opened.Store,
		Client:             client,
		Limiter:            limiter,
		RewriteConcurrency: cfg.RewriteConcurrency,
	})
	s.closers = closers
	s.httpServer.Addr = fmt.Sprintf(":%d", cfg.Port)
	return s, nil
}

// NewWithDeps assembles a server from ready collaborators. A nil limiter uses the
// in-memory limiter with environment configuration.
func NewWithDeps(deps Deps) *Server {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	rewriter := rewriting.NewRewriter(deps.Client)
	if deps.RewriteConcurrency > 0 {
		rewriter = rewriter.WithConcurrency(deps.RewriteConcurrency)
	}

	s := &Server{
		sessions:    deps.Store,
		analyzer:    analysis.NewAnalyzer(deps.Client),
		rewriter:    rewriter,
		matcher:     matching.NewMatcher(deps.Client),
		rateLimiter: deps.Limiter,
	}

	s.httpServer = &http.Server{
		Handler:      s.withRateLimit(s.withLogging(metrics.Middleware(s.withCORS(s.routes())))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // batch rewrites can take minutes
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /score", s.handleScore)

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{id}/reset", s.handleResetSession)

	mux.HandleFunc("POST /sessions/{id}/upload", s.handleUpload)
	mux.HandleFunc("POST /sessions/{id}/editor", s.handleOpenEditor)
	mux.HandleFunc("POST /sessions/{id}/dashboard", s.handleBackToDashboard)

	mux.HandleFunc("PUT /sessions/{id}/sections/{section_id}", s.handleUpdateSection)
	mux.HandleFunc("POST /sessions/{id}/sections/{section_id}/improve", s.handleImproveSection)
	mux.HandleFunc("POST /sessions/{id}/sections/{section_id}/revert", s.handleRevertSection)
	mux.HandleFunc("POST /sessions/{id}/rewrite", s.handleRewriteAll)
	mux.HandleFunc("POST /sessions/{id}/rewrite/stream", s.handleRewriteStream)

	mux.HandleFunc("POST /sessions/{id}/match", s.handleMatch)
	mux.HandleFunc("POST /sessions/{id}/tailor", s.handleTailor)

	mux.HandleFunc("GET /sessions/{id}/export/{format}", s.handleExport)
	return mux
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the rate limiter, store and model client.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failWith logs the raw error and writes its user-facing message with the mapped status.
func (s *Server) failWith(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] error: %v", err)
	}
	s.errorResponse(w, status, UserMessage(err))
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
