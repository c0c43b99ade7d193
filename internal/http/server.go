// Package http provides the web server, handlers, and HTMX response helpers.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"budgeteer/internal/cache"
	applog "budgeteer/internal/log"
	"budgeteer/internal/middleware/ratelimit"
	"budgeteer/internal/middleware/security"
	"budgeteer/internal/middleware/trace"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
	appweb "budgeteer/web"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	SecureCookie    bool
	SessionDuration time.Duration
}

type Server struct {
	http.Server

	config    Config
	templates *template.Template

	logger *applog.Logger

	storage *storage.SQLiteRepository
	budgets *services.BudgetService
	entries *services.EntryService
	reports *services.ReportService

	rateLimiter *ratelimit.Limiter
	traceMW     *trace.Middleware
	headersMW   *security.HeadersMiddleware

	// Memoized dashboard payloads, flushed on every write for the owner.
	overviewCache *cache.LRUCache[services.Overview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware, and templates, returning a
// ready-to-run server.
func NewServer(config Config, repo *storage.SQLiteRepository, budgets *services.BudgetService, entries *services.EntryService, reports *services.ReportService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    config.Addr,
			Handler: mux,
		},
		config:        config,
		logger:        applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		storage:       repo,
		budgets:       budgets,
		entries:       entries,
		reports:       reports,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		traceMW:       trace.NewMiddleware(extractClientIP),
		headersMW:     security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		overviewCache: cache.NewLRUCache[services.Overview](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Public pages.
	mux.Handle("GET /login", s.public(s.handleLoginPage))
	mux.Handle("POST /login", s.public(s.handleLogin))
	mux.Handle("GET /register", s.public(s.handleRegisterPage))
	mux.Handle("POST /register", s.public(s.handleRegister))

	// Everything else needs a session.
	mux.Handle("GET /{$}", s.protected(s.handleDashboard))
	mux.Handle("POST /logout", s.protected(s.handleLogout))
	mux.Handle("GET /profile", s.protected(s.handleProfilePage))
	mux.Handle("POST /profile", s.protected(s.handleProfileUpdate))

	mux.Handle("GET /budgets", s.protected(s.handleBudgetsPage))
	mux.Handle("POST /budgets", s.protected(s.handleCreateBudget))
	mux.Handle("POST /budgets/select", s.protected(s.handleSelectBudget))
	mux.Handle("POST /budgets/{id}", s.protected(s.handleEditBudget))
	mux.Handle("POST /budgets/{id}/delete", s.protected(s.handleDeleteBudget))
	mux.Handle("DELETE /budgets/{id}", s.protected(s.handleDeleteBudget))

	mux.Handle("GET /expenses", s.protected(s.handleExpensesPage))
	mux.Handle("POST /expenses", s.protected(s.handleCreateExpense))
	mux.Handle("POST /expenses/{id}", s.protected(s.handleEditExpense))
	mux.Handle("POST /expenses/{id}/delete", s.protected(s.handleDeleteExpense))
	mux.Handle("DELETE /expenses/{id}", s.protected(s.handleDeleteExpense))

	mux.Handle("POST /incomes", s.protected(s.handleCreateIncome))
	mux.Handle("POST /incomes/{id}", s.protected(s.handleEditIncome))
	mux.Handle("POST /incomes/{id}/delete", s.protected(s.handleDeleteIncome))
	mux.Handle("DELETE /incomes/{id}", s.protected(s.handleDeleteIncome))

	// HTMX partials.
	mux.Handle("GET /ui/overview", s.protected(s.handleOverviewPartial))
	mux.Handle("GET /ui/expense-table", s.protected(s.handleExpenseTablePartial))

	return s
}

// public wraps a handler with the common middleware stack without requiring
// a session.
func (s *Server) public(h http.HandlerFunc) http.Handler {
	return s.chain(h)
}

// protected additionally requires a valid session.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.chain(s.requireAuth(h))
}

func (s *Server) chain(h http.Handler) http.Handler {
	rl := s.rateLimiter.Middleware(extractClientIP, nil)
	stack := s.traceMW.Middleware(s.limitWrites(rl, h))
	return s.headersMW.Middleware(applog.Middleware(s.logger)(stack))
}

// limitWrites applies the rate limiter to mutating requests only; reads stay
// unthrottled so dashboard polling cannot lock users out.
func (s *Server) limitWrites(rl func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limited := rl(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops the server along with its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			"error", err,
			"template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// invalidateUserCaches drops all memoized views for a user after a write.
func (s *Server) invalidateUserCaches(userID int64) {
	s.overviewCache.InvalidatePrefix(overviewCachePrefix(userID))
}
