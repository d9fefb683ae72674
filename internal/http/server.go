package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// Options tunes the HTTP surface.
type Options struct {
	MaxUploadBytes int64
	RateLimit      ratelimit.Config
	// Secure marks the session cookie Secure. Enable behind TLS.
	Secure bool
}

// Server serves the dashboard and its HTMX partials.
type Server struct {
	http.Server
	templates *template.Template
	svc       *services.DashboardService
	sessions  *cache.Sessions
	logger    *log.Logger
	events    *log.StructuredLogger
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	opts      Options

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, svc *services.DashboardService, sessions *cache.Sessions, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       2 * time.Minute,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       2 * time.Minute,
		},
		svc:       svc,
		sessions:  sessions,
		logger:    logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		tracer:    trace.NewMiddleware(logger, extractClientIP),
		opts:      opts,
		startedAt: time.Now(),
	}
	s.events = log.NewStructuredLogger(s.logger)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.Handle("GET /download.xlsx", security.NoStoreMiddleware(http.HandlerFunc(s.handleDownload)))

	mux.Handle("GET /ui/summary", security.NoStoreMiddleware(http.HandlerFunc(s.handleSummary)))
	mux.Handle("GET /ui/transactions", security.NoStoreMiddleware(http.HandlerFunc(s.handleTransactions)))

	mux.HandleFunc("POST /transactions/{id}/category", s.handleSetCategory)
	mux.HandleFunc("POST /transactions/{id}/reset", s.handleResetCategory)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /reclassify", s.handleReclassify)
	mux.HandleFunc("POST /clear", s.handleClear)

	mux.HandleFunc("POST /export", s.handleExport)

	var h http.Handler = mux
	h = s.limiter.Middleware(extractClientIP, http.MethodPost)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = log.Middleware(logger)(h)
	s.Handler = h

	return s
}

// Shutdown stops the limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// render executes a template into memory so a failure never leaves a
// half-written response.
func (s *Server) render(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
