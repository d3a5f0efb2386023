package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/config"
	"github.com/aretw0/itnav/internal/testutils"
	"github.com/aretw0/itnav/pkg/adapters/memory"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	raw, err := codec.Encode(testutils.PrinterState())
	require.NoError(t, err)
	g, err := itnav.New(context.Background(), memory.NewStoreWith(map[string][]byte{config.DefaultStateKey: raw}))
	require.NoError(t, err)
	return NewServer(g, itnav.Version, nil)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListCategories(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListCategories(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	var cats []domain.Category
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "print", cats[0].ID)
}

func TestRenderAndChoose(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleRenderWalk(ctx, mcp.CallToolRequest{}, map[string]interface{}{"category_id": "print"})
	require.NoError(t, err)
	assert.Equal(t, "p_1", resp.View.NodeID)
	assert.False(t, resp.Terminal)

	history, _ := json.Marshal(resp.Walk.History)
	resp, err = s.handleChoose(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"category_id": "print",
		"history":     string(history),
		"action":      "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p_1", "p_2"}, resp.Walk.History)
	assert.Equal(t, domain.NodeTypeAction, resp.View.Node.Type)

	history, _ = json.Marshal(resp.Walk.History)
	_, err = s.handleChoose(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"history": string(history),
		"action":  "yes",
	})
	assert.ErrorIs(t, err, domain.ErrIllegalAction)
	assert.Contains(t, err.Error(), "resolved")

	_, err = s.handleRenderWalk(ctx, mcp.CallToolRequest{}, map[string]interface{}{"history": "not json"})
	assert.Error(t, err)

	_, err = s.handleRenderWalk(ctx, mcp.CallToolRequest{}, map[string]interface{}{"category_id": "nope"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestRenderWalk_Unresolved(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.handleRenderWalk(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"category_id": "print",
		"history":     `["p_1","ghost"]`,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ViewUnresolved, resp.View.Status)
	assert.True(t, resp.Terminal)
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleValidate(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "No issues.", resultText(t, res))
}

func TestGetGraph(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleGetGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "graph TD")
}
