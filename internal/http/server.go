package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"myfinancelog/internal/cache"
	"myfinancelog/internal/core"
	"myfinancelog/internal/middleware/trace"
	"myfinancelog/internal/services"
	appweb "myfinancelog/web"
)

type Server struct {
	http.Server
	templates *template.Template
	service   *services.ExpenseService

	// Cached derived views, invalidated on every mutation.
	summaryCache cache.Cache[core.Summary]
	listCache    cache.Cache[[]core.Expense]
	cleaners     []cache.Cleaner

	tracer *trace.Middleware

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

const listCacheKey = "all"

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2) + "€"
	},
	"amount": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"percent": formatShare,
	"barWidth": func(share float64) int {
		w := int(share + 0.5)
		if w < 1 {
			w = 1
		}
		if w > 100 {
			w = 100
		}
		return w
	},
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.ExpenseService) *Server {
	mux := http.NewServeMux()

	summaries := cache.NewLRUCache[core.Summary](100, 5*time.Minute)
	lists := cache.NewLRUCache[[]core.Expense](10, 5*time.Minute)

	s := &Server{
		service:          svc,
		summaryCache:     summaries,
		listCache:        lists,
		cleaners:         []cache.Cleaner{summaries, lists},
		tracer:           trace.NewMiddleware(),
		stopCacheCleanup: make(chan struct{}),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /monthly", s.handleMonthly)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/{id}/edit", s.handleEditExpense)
	mux.HandleFunc("POST /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleDeleteExpense)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Handler(withSecurityHeaders(mux)),
	}

	go s.startCacheCleanup()

	return s
}

// withSecurityHeaders adds conservative response headers; the UI is served
// on localhost but the headers cost nothing.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

// invalidateCaches drops all cached derived views. Called after every
// create, update and delete so readers never see a stale table or summary.
func (s *Server) invalidateCaches() {
	s.listCache.Clear()
	s.summaryCache.Clear()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range s.cleaners {
				removed += c.CleanExpired()
			}
			if removed > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		slog.Info("Server shutting down", "requests_served", s.tracer.TotalRequests())
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
