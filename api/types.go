package api

import "github.com/BaSui01/agentchat/types"

// =============================================================================
// 📦 REST 线上类型
// =============================================================================

// MessageRequest POST /api/v1/message 请求体
type MessageRequest struct {
	Content             string  `json:"content"`
	SenderID            string  `json:"sender_id"`
	Mention             string  `json:"mention,omitempty"`
	ContextID           string  `json:"context_id,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
}

// ToMessage 转换为路由消息。
func (r *MessageRequest) ToMessage() *types.Message {
	return &types.Message{
		Content:             r.Content,
		SenderID:            r.SenderID,
		Mention:             r.Mention,
		ContextID:           r.ContextID,
		ConfidenceThreshold: r.ConfidenceThreshold,
	}
}

// MessageResponse 路由结果加会话标识
type MessageResponse struct {
	Agent      string  `json:"agent"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
	SessionID  string  `json:"session_id"`
}

// SessionResponse GET /api/v1/sessions/{id} 响应体
type SessionResponse struct {
	SessionID    string                 `json:"session_id"`
	CreatedAt    string                 `json:"created_at"`
	LastUpdated  string                 `json:"last_updated"`
	ActiveAgents []string               `json:"active_agents"`
	Messages     []types.MessageContext `json:"messages"`
	Metadata     map[string]any         `json:"metadata,omitempty"`
}
