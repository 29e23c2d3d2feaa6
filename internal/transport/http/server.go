package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/service"
	"github.com/reshetovitsme/news-highlights/internal/shared/config"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	sloghttp "github.com/samber/slog-http"
)

// HighlightsCache is the read side of the highlights cache.
type HighlightsCache interface {
	Highlights(ctx context.Context) ([]domain.Item, error)
	Snapshot() *domain.Snapshot
	Fresh() bool
	TTL() time.Duration
}

// Server handles HTTP requests for highlights
type Server struct {
	cfg    *config.Config
	cache  HighlightsCache
	logger *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, cache HighlightsCache) *Server {
	return &Server{
		cfg:    cfg,
		cache:  cache,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routing tree with logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /highlights", s.handleHighlights)
	mux.HandleFunc("GET /api/highlights", s.handleHighlights)
	mux.HandleFunc("GET /api/highlights/status", s.handleStatus)
	mux.HandleFunc("GET /highlights.rss", s.handleFeed(feedRSS))
	mux.HandleFunc("GET /highlights.atom", s.handleFeed(feedAtom))
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.staticDirExists() {
		mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.StaticDir)))
	} else {
		mux.HandleFunc("GET /", s.handleRoot)
	}

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the HTTP server and blocks until it is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Highlights server starting", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	items, err := s.cache.Highlights(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

type statusResponse struct {
	FetchedAt  *time.Time `json:"fetchedAt"`
	Items      int        `json:"items"`
	TTLSeconds int        `json:"ttlSeconds"`
	Fresh      bool       `json:"fresh"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()

	resp := statusResponse{
		Items:      len(snap.Items),
		TTLSeconds: int(s.cache.TTL() / time.Second),
		Fresh:      s.cache.Fresh(),
	}
	if !snap.FetchedAt.IsZero() {
		resp.FetchedAt = &snap.FetchedAt
	}

	writeJSON(w, http.StatusOK, resp)
}

type feedFormat int

const (
	feedRSS feedFormat = iota
	feedAtom
)

func (s *Server) handleFeed(format feedFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.cache.Highlights(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}

		baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
		feed := service.BuildFeed(items, baseURL, s.cache.Snapshot().FetchedAt)

		var (
			body        string
			contentType string
		)
		switch format {
		case feedAtom:
			body, err = feed.ToAtom()
			contentType = "application/atom+xml; charset=utf-8"
		default:
			body, err = feed.ToRss()
			contentType = "application/rss+xml; charset=utf-8"
		}
		if err != nil {
			s.logger.Error("Error rendering feed", "error", err)
			http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cache.TTL()/time.Second)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html := `<!DOCTYPE html>
<html>
<head>
    <title>News Highlights</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>News Highlights</h1>
    <div class="info">
        <p>Latest headlines from all configured sources, newest first.</p>
        <p>JSON: <code>/highlights</code> or <code>/api/highlights</code></p>
        <p>Feeds: <code>/highlights.rss</code>, <code>/highlights.atom</code></p>
    </div>
    <p><a href="/api/highlights/status">Cache status</a> | <a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (s *Server) staticDirExists() bool {
	if s.cfg.StaticDir == "" {
		return false
	}
	info, err := os.Stat(s.cfg.StaticDir)
	return err == nil && info.IsDir()
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.IsConfiguration(err) {
		s.logger.Error("Highlights unavailable: configuration missing", "error", err)
	} else {
		s.logger.Error("Error serving highlights", "error", err)
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
