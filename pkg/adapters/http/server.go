// Package http exposes the guide over a JSON HTTP API.
//
// The end-user API is stateless: clients hold their Walk and post it back
// with every move. The admin API shares one server-side console session
// and requires the X-Admin-Secret header on every request.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/itnav/internal/assist"
	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/presentation/graph"
	"github.com/aretw0/itnav/pkg/console"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SecretHeader carries the admin secret.
const SecretHeader = "X-Admin-Secret"

// Guide is the part of itnav.Guide the server needs.
type Guide interface {
	Categories() []domain.Category
	PublishedNews() []domain.NewsItem
	News(id string) (domain.NewsItem, bool)
	Select(ctx context.Context, categoryID string) (domain.Walk, error)
	Choose(ctx context.Context, w domain.Walk, action domain.Action) (domain.Walk, error)
	Render(ctx context.Context, w domain.Walk) domain.View
	Committed() domain.State
	Issues() []domain.Issue
	Authenticate(secret string) bool
	OpenConsole(secret string, opts ...console.Option) (*console.Session, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves a Guide.
type Server struct {
	Guide   Guide
	Streams *StreamManager

	logger     *slog.Logger
	corsOrigin string
	links      *assist.Links

	mu      sync.Mutex
	console *console.Session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCORSOrigin sets Access-Control-Allow-Origin. Empty disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

// WithAssistLinks serves links on GET /assist.
func WithAssistLinks(links assist.Links) Option {
	return func(s *Server) {
		s.links = &links
	}
}

// NewServer creates a Server for guide.
func NewServer(guide Guide, opts ...Option) *Server {
	s := &Server{
		Guide:      guide,
		Streams:    NewStreamManager(),
		logger:     logging.NewNop(),
		corsOrigin: "*",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for guide.
func NewHandler(guide Guide, opts ...Option) http.Handler {
	return NewServer(guide, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/categories", s.GetCategories)
	r.Get("/news", s.GetNews)
	r.Get("/news/{id}", s.GetNewsItem)
	r.Post("/walk", s.RenderWalk)
	r.Post("/walk/select", s.SelectCategory)
	r.Post("/walk/choose", s.Choose)
	r.Get("/graph", s.GetGraph)
	r.Get("/assist", s.GetAssist)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireSecret)
		r.Get("/draft", s.GetDraft)
		r.Get("/issues", s.GetIssues)
		r.Get("/stats", s.GetStats)
		r.Get("/diff", s.GetDiff)
		r.Put("/nodes/{id}", s.PutNode)
		r.Delete("/nodes/{id}", s.DeleteNode)
		r.Put("/categories/{id}", s.PutCategory)
		r.Post("/news", s.PostNews)
		r.Put("/news/{id}", s.PutNews)
		r.Delete("/news/{id}", s.DeleteNews)
		r.Post("/import", s.Import)
		r.Get("/export", s.Export)
		r.Post("/reset", s.ResetDraft)
		r.Post("/save", s.Save)
		r.Post("/discard", s.Discard)
		r.Post("/secret", s.ChangeSecret)
	})
	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SecretHeader)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WalkResponse pairs a walk with its rendered view.
type WalkResponse struct {
	Walk domain.Walk `json:"walk"`
	View domain.View `json:"view"`
}

// SelectRequest is the body of POST /walk/select.
type SelectRequest struct {
	CategoryID string `json:"categoryId"`
}

// ChooseRequest is the body of POST /walk/choose.
type ChooseRequest struct {
	Walk   domain.Walk   `json:"walk"`
	Action domain.Action `json:"action"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetCategories handles the GET /categories request.
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Guide.Categories())
}

// GetNews handles the GET /news request.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Guide.PublishedNews())
}

// GetNewsItem handles the GET /news/{id} request.
func (s *Server) GetNewsItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.Guide.News(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// RenderWalk handles the POST /walk request.
func (s *Server) RenderWalk(w http.ResponseWriter, r *http.Request) {
	var walk domain.Walk
	if !s.decode(w, r, &walk) {
		return
	}
	writeJSON(w, http.StatusOK, s.respond(r.Context(), walk))
}

// SelectCategory handles the POST /walk/select request.
func (s *Server) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if !s.decode(w, r, &body) {
		return
	}
	walk, err := s.Guide.Select(r.Context(), body.CategoryID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.respond(r.Context(), walk))
}

// Choose handles the POST /walk/choose request.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body ChooseRequest
	if !s.decode(w, r, &body) {
		return
	}
	walk, err := s.Guide.Choose(r.Context(), body.Walk, body.Action)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.respond(r.Context(), walk))
}

func (s *Server) respond(ctx context.Context, walk domain.Walk) WalkResponse {
	return WalkResponse{Walk: walk, View: s.Guide.Render(ctx, walk)}
}

// GetGraph handles the GET /graph request.
// ?format=mermaid returns a Mermaid flowchart; ?category= limits the tree.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	g := graph.Build(s.Guide.Committed(), q.Get("category"))
	if q.Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(graph.GenerateMermaid(g, nil)))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GetAssist handles the GET /assist request.
func (s *Server) GetAssist(w http.ResponseWriter, r *http.Request) {
	if s.links == nil {
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.links)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound), errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrIllegalAction), errors.Is(err, domain.ErrMalformedImport), errors.Is(err, domain.ErrSecretMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnresolvableNode), errors.Is(err, domain.ErrNodeReferenced):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidSecret):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(err.Error())})
}
