// Package server serves a portfolio over HTTP.
//
// Routes:
//
//	GET  /                    index page (grid, status, panel skeleton)
//	GET  /p/{slug}            standalone detail page
//	GET  /p/{slug}/fragment   detail fragment loaded into the panel
//	GET  /api/status          current status as JSON
//	POST /api/reload          reload posts, then the status as JSON
//	GET  /theme/*             theme stylesheet and client script
//	GET  /{posts}/*, /assets/* raw site files (documents, images)
//	GET  /healthz             liveness
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	folio "github.com/alnah/go-folio"
)

// Server timeouts.
const (
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Site is the site root holding the posts directory and assets.
	// Nil serves only the embedded samples.
	Site fs.FS

	// PostsDir is the posts directory inside Site. Default "posts".
	PostsDir string

	// RequestTimeout bounds each request. Default DefaultRequestTimeout.
	RequestTimeout time.Duration

	Logger *zap.Logger
}

// Server exposes an App and its Pages over HTTP.
type Server struct {
	app     *folio.App
	pages   *folio.Pages
	site    fs.FS
	posts   string
	timeout time.Duration
	logger  *zap.Logger
	router  chi.Router
}

// New creates a Server. pages must be built with folio.ServerLinks.
func New(app *folio.App, pages *folio.Pages, opts Options) *Server {
	s := &Server{
		app:     app,
		pages:   pages,
		site:    opts.Site,
		posts:   strings.Trim(opts.PostsDir, "/"),
		timeout: opts.RequestTimeout,
		logger:  opts.Logger,
	}
	if s.posts == "" {
		s.posts = folio.DefaultPostsDir
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleIndex)
	r.Get("/p/{slug}", s.handleDetail)
	r.Get("/p/{slug}/fragment", s.handleFragment)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/reload", s.handleReload)
	})

	r.Get("/theme/"+folio.StyleFile, s.handleTheme("text/css; charset=utf-8", s.pages.CSS))
	r.Get("/theme/"+folio.ScriptFile, s.handleTheme("text/javascript; charset=utf-8", s.pages.Script))

	static := s.handleSiteFile()
	r.Get("/"+s.posts+"/*", static)
	if s.posts != "assets" {
		r.Get("/assets/*", static)
	}
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, func(w *strings.Builder) error {
		return s.pages.Index(r.Context(), w, s.app.Status(), s.app.Tiles())
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	view, ok := s.detail(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, func(w *strings.Builder) error {
		return s.pages.Detail(r.Context(), w, view)
	})
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	view, ok := s.detail(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, func(w *strings.Builder) error {
		return s.pages.Fragment(r.Context(), w, view)
	})
}

// detail renders the post named by the slug parameter.
func (s *Server) detail(r *http.Request) (folio.DetailView, bool) {
	slug, err := url.PathUnescape(chi.URLParam(r, "slug"))
	if err != nil {
		return folio.DetailView{}, false
	}
	return s.app.Detail(r.Context(), slug)
}

// render buffers the page so template errors become a clean 500.
func (s *Server) render(w http.ResponseWriter, fn func(*strings.Builder) error) {
	var buf strings.Builder
	if err := fn(&buf); err != nil {
		s.logger.Error("page render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

// StatusResponse is the body of the status and reload endpoints.
type StatusResponse struct {
	folio.Status
	Posts   int    `json:"posts"`
	Samples bool   `json:"samples"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) statusResponse() StatusResponse {
	return StatusResponse{
		Status:  s.app.Status(),
		Posts:   len(s.app.Posts()),
		Samples: s.app.UsingSamples(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.statusResponse())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.app.Reload(r.Context())
	resp := s.statusResponse()
	code := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		if !folio.IsRecoverable(err) {
			code = http.StatusBadGateway
		}
	}
	s.logger.Info("reloaded", zap.Int("posts", resp.Posts), zap.Error(err))
	writeJSON(w, code, resp)
}

func (s *Server) handleTheme(contentType string, content func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(content()))
	}
}

// handleSiteFile serves raw files from the site, or from the embedded
// samples while the app shows them.
func (s *Server) handleSiteFile() http.HandlerFunc {
	site := http.FileServerFS(emptyFS{})
	if s.site != nil {
		site = http.FileServerFS(s.site)
	}
	samples := http.FileServerFS(folio.SampleFS())
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		if s.app.UsingSamples() {
			samples.ServeHTTP(w, r)
			return
		}
		site.ServeHTTP(w, r)
	}
}

// emptyFS has no files.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	<-errCh
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
