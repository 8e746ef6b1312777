package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/agent"
)

// =============================================================================
// 🧪 Agent 列表 Handler 测试
// =============================================================================

func TestAgentHandler_List(t *testing.T) {
	registry := agent.NewRegistry(zap.NewNop())
	for _, a := range agent.Builtin() {
		registry.Register(a)
	}
	handler := NewAgentHandler(registry, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
	w := httptest.NewRecorder()
	handler.HandleListAgents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var body struct {
		Agents []agent.Metadata `json:"agents"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, 6, body.Count)
	assert.Equal(t, "alex", body.Agents[0].Name, "registration order is preserved")
	assert.NotEmpty(t, body.Agents[0].Capabilities)
}

func TestAgentHandler_EmptyRegistry(t *testing.T) {
	handler := NewAgentHandler(agent.NewRegistry(zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
	w := httptest.NewRecorder()
	handler.HandleListAgents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgentHandler_MethodNotAllowed(t *testing.T) {
	handler := NewAgentHandler(agent.NewRegistry(zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agents", nil)
	w := httptest.NewRecorder()
	handler.HandleListAgents(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
