package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"sitebook/internal/cache"
	"sitebook/internal/core"
	"sitebook/internal/ledger"
	applog "sitebook/internal/log"
	"sitebook/internal/services"
)

type Server struct {
	http.Server
	projects  *services.ProjectService
	dashboard *services.DashboardService
	exports   *services.ExportService
	entries   *ledger.Store

	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Read-side caches keyed by project (and filter for reports)
	reportCache    *cache.LRUCache[[]core.AggregatedGroup]
	dashboardCache *cache.LRUCache[services.Dashboard]
	cacheManager   *cache.Manager

	// Per-project cache generation, bumped on every mutation
	generationMu sync.Mutex
	generations  map[string]uint64

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run
// http.Server.
func NewServer(addr string, projects *services.ProjectService, dashboard *services.DashboardService, exports *services.ExportService, entries *ledger.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		projects:       projects,
		dashboard:      dashboard,
		exports:        exports,
		entries:        entries,
		logger:         applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		reportCache:    cache.NewLRUCache[[]core.AggregatedGroup](200, 2*time.Minute),
		dashboardCache: cache.NewLRUCache[services.Dashboard](100, 2*time.Minute),
		cacheManager:   cache.NewManager(),
		generations:    make(map[string]uint64),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/projects", s.withSecurityHeaders(s.handleProjects))
	mux.HandleFunc("/projects/delete", s.withSecurityHeaders(s.handleDeleteProject))
	mux.HandleFunc("/clients", s.withSecurityHeaders(s.handleClients))

	mux.HandleFunc("/entries", s.withSecurityHeaders(s.handleEntries))
	mux.HandleFunc("/entries/update", s.withSecurityHeaders(s.handleUpdateEntries))
	mux.HandleFunc("/entries/delete", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("/particulars", s.withSecurityHeaders(s.handleParticulars))

	mux.HandleFunc("/report", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("/materials", s.withSecurityHeaders(s.handleMaterials))
	mux.HandleFunc("/recent", s.withSecurityHeaders(s.handleRecent))
	mux.HandleFunc("/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/export", s.withSecurityHeaders(s.handleExport))

	mux.HandleFunc("/labour", s.withSecurityHeaders(s.handleLabourBills))
	mux.HandleFunc("/payments", s.withSecurityHeaders(s.handlePayments))
	mux.HandleFunc("/drawings", s.withSecurityHeaders(s.handleDrawings))
	mux.HandleFunc("/drawings/decide", s.withSecurityHeaders(s.handleDecideDrawing))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			applog.NewFields().
				WithRequestID(requestID).
				WithRequest(r.Method, r.URL.Path).
				WithClient(clientIP, r.Header.Get("User-Agent")).
				ToSlice()...)

		// Apply rate limiting to mutating requests
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				applog.NewFields().
					WithRequest(r.Method, r.URL.Path).
					WithClient(clientIP, "").
					ToSlice()...)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture the status code for the completion log
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			applog.NewFields().
				WithRequestID(requestID).
				WithRequest(r.Method, r.URL.Path).
				WithStatus(rw.statusCode, duration.Milliseconds()).
				WithClient(clientIP, "").
				ToSlice()...)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateProject drops every cached view derived from a project's data.
// Report cache keys are prefixed with the project ID, but the LRU has no
// prefix scan, so mutations bump a per-project generation instead.
func (s *Server) invalidateProject(projectID string) {
	s.dashboardCache.Delete(projectID)
	s.generationMu.Lock()
	s.generations[projectID]++
	s.generationMu.Unlock()
}

func (s *Server) reportCacheKey(projectID string, c core.FilterCriterion) string {
	s.generationMu.Lock()
	gen := s.generations[projectID]
	s.generationMu.Unlock()
	return fmt.Sprintf("%s|%d|%s|%s|%s", projectID, gen, c.Exact, c.Range, core.GroupKey(c.Particulars))
}
