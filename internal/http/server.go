// Package http exposes the JSON API: authentication, income and expense
// CRUD, monthly statistics, and the income calendar. Handlers stay thin;
// record semantics live in the services and stats packages.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

type Server struct {
	http.Server

	records *services.RecordService
	users   store.UserStore
	stats   statsReader
	auth    *auth.Manager
	logger  *log.Logger
	limiter *rateLimiter
	tracer  *trace.Middleware

	startedAt time.Time
}

// statsReader is the window-scoped read surface the stats and calendar
// handlers need.
type statsReader interface {
	ListIncomesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Income, error)
	ListExpensesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Expense, error)
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, records *services.RecordService, st store.Store, authMgr *auth.Manager, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		records:   records,
		users:     st,
		stats:     st,
		auth:      authMgr,
		logger:    logger.WithComponent(log.ComponentHTTP),
		limiter:   newRateLimiter(cfg.RateLimitPerMinute),
		tracer:    trace.NewMiddleware(extractClientIP),
		startedAt: time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/auth/signup", s.withRateLimit(s.handleSignup))
	mux.HandleFunc("POST /api/auth/login", s.withRateLimit(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/incomes", s.requireAuth(s.handleListIncomes))
	mux.HandleFunc("POST /api/incomes", s.withRateLimit(s.requireAuth(s.handleCreateIncome)))
	mux.HandleFunc("GET /api/incomes/stats", s.requireAuth(s.handleIncomeStats))
	mux.HandleFunc("GET /api/incomes/calendar", s.requireAuth(s.handleIncomeCalendar))
	mux.HandleFunc("GET /api/incomes/{id}", s.requireAuth(s.handleGetIncome))
	mux.HandleFunc("PUT /api/incomes/{id}", s.withRateLimit(s.requireAuth(s.handleUpdateIncome)))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.withRateLimit(s.requireAuth(s.handleDeleteIncome)))

	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withRateLimit(s.requireAuth(s.handleCreateExpense)))
	mux.HandleFunc("GET /api/expenses/stats", s.requireAuth(s.handleExpenseStats))
	mux.HandleFunc("GET /api/expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withRateLimit(s.requireAuth(s.handleUpdateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withRateLimit(s.requireAuth(s.handleDeleteExpense)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server.Handler = headers.Middleware(s.tracer.Middleware(mux))

	return s
}

// Shutdown drains in-flight requests and stops background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondMessage(w, http.StatusOK, "ok")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Readiness means the store answers; probe with a cheap lookup.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.users.GetUserByID(ctx, "readiness-check"); err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondMessage(w, http.StatusOK, "ready")
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	respondData(w, http.StatusOK, map[string]any{
		"uptime_seconds":       int64(time.Since(s.startedAt).Seconds()),
		"total_requests":       m.TotalRequests,
		"avg_response_time_us": m.AverageResponseTime,
		"rate_limit_rejected":  s.limiter.rejected(),
	})
}
