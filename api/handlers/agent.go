package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/agent"
)

// =============================================================================
// 🎭 Agent 列表 Handler
// =============================================================================

// AgentHandler 处理 GET /api/v1/agents。
type AgentHandler struct {
	registry *agent.Registry
	logger   *zap.Logger
}

// NewAgentHandler 创建 Agent 处理器。
func NewAgentHandler(registry *agent.Registry, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		registry: registry,
		logger:   logger.With(zap.String("component", "agent_handler")),
	}
}

// HandleListAgents 返回全部注册 Agent 的元信息，按注册顺序排列。
func (h *AgentHandler) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	all := h.registry.All()
	metadata := make([]agent.Metadata, 0, len(all))
	for _, a := range all {
		metadata = append(metadata, agent.Describe(a))
	}

	WriteSuccess(w, map[string]any{
		"agents": metadata,
		"count":  len(metadata),
	})
}
