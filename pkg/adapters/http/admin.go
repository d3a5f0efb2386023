package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/console"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// maxImportSize bounds POST /admin/import bodies.
const maxImportSize = 8 << 20

// TopicState is the stream topic announcing commits and reloads.
const TopicState = "state"

// SecretRequest is the body of POST /admin/secret.
type SecretRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
	Confirm string `json:"confirm"`
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get(SecretHeader)
		if !s.Guide.Authenticate(secret) {
			metrics.AuthFailures.Inc()
			writeError(w, http.StatusUnauthorized, domain.ErrInvalidSecret)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session returns the shared console, opening it on first use.
func (s *Server) session(r *http.Request) (*console.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.console == nil {
		c, err := s.Guide.OpenConsole(r.Header.Get(SecretHeader), console.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.console = c
	}
	return s.console, nil
}

// withSession runs fn with the shared console.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*console.Session)) {
	c, err := s.session(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	fn(c)
}

// GetDraft handles the GET /admin/draft request.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusOK, c.Draft())
	})
}

// GetIssues handles the GET /admin/issues request.
func (s *Server) GetIssues(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusOK, c.Issues())
	})
}

// GetStats handles the GET /admin/stats request.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusOK, c.Stats())
	})
}

// GetDiff handles the GET /admin/diff request.
func (s *Server) GetDiff(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusOK, c.Diff())
	})
}

// PutNode handles the PUT /admin/nodes/{id} request.
func (s *Server) PutNode(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if !s.decode(w, r, &node) {
		return
	}
	s.withSession(w, r, func(c *console.Session) {
		id := chi.URLParam(r, "id")
		c.UpsertNode(id, node)
		writeJSON(w, http.StatusOK, c.Issues())
	})
}

// DeleteNode handles the DELETE /admin/nodes/{id} request.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		if err := c.DeleteNode(chi.URLParam(r, "id")); err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// PutCategory handles the PUT /admin/categories/{id} request.
func (s *Server) PutCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if !s.decode(w, r, &cat) {
		return
	}
	cat.ID = chi.URLParam(r, "id")
	s.withSession(w, r, func(c *console.Session) {
		c.UpsertCategory(cat)
		writeJSON(w, http.StatusOK, cat)
	})
}

// PostNews handles the POST /admin/news request. The item gets a new ID.
func (s *Server) PostNews(w http.ResponseWriter, r *http.Request) {
	var item domain.NewsItem
	if !s.decode(w, r, &item) {
		return
	}
	item.ID = ""
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusCreated, c.UpsertNewsItem(item))
	})
}

// PutNews handles the PUT /admin/news/{id} request.
func (s *Server) PutNews(w http.ResponseWriter, r *http.Request) {
	var item domain.NewsItem
	if !s.decode(w, r, &item) {
		return
	}
	item.ID = chi.URLParam(r, "id")
	s.withSession(w, r, func(c *console.Session) {
		writeJSON(w, http.StatusOK, c.UpsertNewsItem(item))
	})
}

// DeleteNews handles the DELETE /admin/news/{id} request.
func (s *Server) DeleteNews(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		c.DeleteNewsItem(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	})
}

// Import handles the POST /admin/import request. The body is a State document.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(c *console.Session) {
		if err := c.Import(raw); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Stats())
	})
}

// Export handles the GET /admin/export request.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		raw, name, err := c.Export()
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		_, _ = w.Write(raw)
	})
}

// ResetDraft handles the POST /admin/reset request.
func (s *Server) ResetDraft(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		c.ResetToDefault()
		writeJSON(w, http.StatusOK, c.Stats())
	})
}

// Save handles the POST /admin/save request.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		committed, err := c.Save(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		s.Streams.Broadcast(TopicState, "saved")
		writeJSON(w, http.StatusOK, map[string]any{
			"lastSavedAt": committed.LastSavedAt,
			"nodes":       committed.Nodes.Len(),
		})
	})
}

// Discard handles the POST /admin/discard request.
func (s *Server) Discard(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(c *console.Session) {
		c.Discard()
		writeJSON(w, http.StatusOK, c.Stats())
	})
}

// ChangeSecret handles the POST /admin/secret request.
func (s *Server) ChangeSecret(w http.ResponseWriter, r *http.Request) {
	var body SecretRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.withSession(w, r, func(c *console.Session) {
		if err := c.ChangeSecret(r.Context(), body.Current, body.Next, body.Confirm); err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
