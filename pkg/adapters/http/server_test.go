package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/internal/assist"
	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/config"
	"github.com/aretw0/itnav/internal/testutils"
	"github.com/aretw0/itnav/pkg/adapters/memory"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuide(t *testing.T) (*itnav.Guide, *memory.Store) {
	t.Helper()
	raw, err := codec.Encode(testutils.PrinterState())
	require.NoError(t, err)
	store := memory.NewStoreWith(map[string][]byte{config.DefaultStateKey: raw})
	g, err := itnav.New(context.Background(), store)
	require.NoError(t, err)
	return g, store
}

func do(t *testing.T, h http.Handler, method, path string, body any, secret string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicEndpoints(t *testing.T) {
	g, _ := newTestGuide(t)
	h := NewHandler(g, WithAssistLinks(assist.Build(config.Default().Assist)))

	rec := do(t, h, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, "GET", "/categories", nil, "")
	var cats []domain.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "p_1", cats[0].StartNodeID)

	rec = do(t, h, "GET", "/news", nil, "")
	var news []domain.NewsItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &news))
	assert.Len(t, news, 1)

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/news/n1", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/news/n2", nil, "").Code)

	rec = do(t, h, "GET", "/graph?format=mermaid", nil, "")
	assert.Contains(t, rec.Body.String(), "graph TD")
	rec = do(t, h, "GET", "/graph?category=print", nil, "")
	assert.Contains(t, rec.Body.String(), `"vertices"`)

	rec = do(t, h, "GET", "/assist", nil, "")
	assert.Contains(t, rec.Body.String(), "chatgpt.com")

	rec = do(t, h, "GET", "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "itnav_")
}

func TestWalkEndpoints(t *testing.T) {
	g, _ := newTestGuide(t)
	h := NewHandler(g)

	rec := do(t, h, "POST", "/walk/select", SelectRequest{CategoryID: "print"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp WalkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "p_1", resp.View.NodeID)
	assert.True(t, resp.View.Allows(domain.ActionYes))

	rec = do(t, h, "POST", "/walk/choose", ChooseRequest{Walk: resp.Walk, Action: domain.ActionNo}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"p_1", "p_ng"}, resp.Walk.History)
	assert.Equal(t, []domain.Action{domain.ActionReset}, resp.View.Actions)

	rec = do(t, h, "POST", "/walk", resp.Walk, "")
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Unknown Category", "/walk/select", SelectRequest{CategoryID: "nope"}, http.StatusNotFound},
		{"Illegal Action", "/walk/choose", ChooseRequest{Walk: resp.Walk, Action: domain.ActionYes}, http.StatusBadRequest},
		{"Unresolvable", "/walk/choose", ChooseRequest{Walk: domain.Walk{CategoryID: "print", History: []string{"ghost"}}, Action: domain.ActionYes}, http.StatusConflict},
		{"Bad Body", "/walk/choose", []byte("{"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, h, "POST", tt.path, tt.body, "").Code)
		})
	}
}

func TestAdminEndpoints(t *testing.T) {
	g, store := newTestGuide(t)
	h := NewHandler(g)
	const secret = "0000"

	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/admin/draft", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/admin/draft", nil, "9999").Code)

	rec := do(t, h, "PUT", "/admin/nodes/p_3", domain.Node{Type: domain.NodeTypeQuestion, Title: "Loop", Yes: "p_3"}, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	var issues []domain.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	assert.NotEmpty(t, issues, "self-loop and orphan warnings")

	rec = do(t, h, "PUT", "/admin/nodes/p_2", domain.Node{Type: domain.NodeTypeAction, ResolvedYes: "ghost"}, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusConflict, do(t, h, "DELETE", "/admin/nodes/ghost", nil, secret).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/admin/nodes/p_3", nil, secret).Code)

	rec = do(t, h, "POST", "/admin/news", domain.NewsItem{Title: "Hello", IsPublished: true}, secret)
	require.Equal(t, http.StatusCreated, rec.Code)
	var item domain.NewsItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.True(t, strings.HasPrefix(item.ID, "news_"))

	rec = do(t, h, "GET", "/admin/diff", nil, secret)
	assert.Contains(t, rec.Body.String(), item.ID)

	// Nothing is public before the save.
	_, ok := g.News(item.ID)
	assert.False(t, ok)

	rec = do(t, h, "POST", "/admin/save", nil, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = g.News(item.ID)
	assert.True(t, ok)
	_, err := store.Load(context.Background(), config.DefaultStateKey)
	require.NoError(t, err)

	rec = do(t, h, "GET", "/admin/export", nil, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "coop_it_nav_state_")

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/admin/import", []byte(`{"nodes":{}}`), secret).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/admin/import", rec.Body.Bytes(), secret).Code)

	rec = do(t, h, "POST", "/admin/reset", nil, secret)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nodes":97`)
	rec = do(t, h, "POST", "/admin/discard", nil, secret)
	assert.Contains(t, rec.Body.String(), `"dirty":false`)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/admin/secret", SecretRequest{Current: secret, Next: "1", Confirm: "2"}, secret).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "POST", "/admin/secret", SecretRequest{Current: secret, Next: "1111", Confirm: "1111"}, secret).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/admin/stats", nil, secret).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/admin/stats", nil, "1111").Code)
}

func TestSubscribeEvents(t *testing.T) {
	g, store := newTestGuide(t)
	srv := NewServer(g)
	h := srv.Routes()

	ctx, cancel := context.WithCancel(context.Background())
	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(wSub, reqSub)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	srv.Streams.Broadcast(TopicState, "saved")
	raw, err := codec.Encode(testutils.PrinterState())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), config.DefaultStateKey, raw))

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, "event: commit\ndata: saved")
	assert.Contains(t, output, "event: reload\ndata: "+config.DefaultStateKey)
}

func TestSubscribeEvents_Unwatchable(t *testing.T) {
	g, err := itnav.New(context.Background(), struct{ ports.Store }{memory.NewStore()})
	require.NoError(t, err)
	srv := NewServer(g)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil).WithContext(ctx))

	assert.Contains(t, rec.Body.String(), "event: ping")
}
