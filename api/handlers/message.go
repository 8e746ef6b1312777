package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/api"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 💬 消息路由 Handler
// =============================================================================

// Router 消息路由边界，由编排器实现。
type Router interface {
	Route(ctx context.Context, msg *types.Message) (types.RouteResult, error)
}

// MessageHandler 处理 POST /api/v1/message。
type MessageHandler struct {
	router Router
	logger *zap.Logger
}

// NewMessageHandler 创建消息处理器。
func NewMessageHandler(router Router, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		router: router,
		logger: logger.With(zap.String("component", "message_handler")),
	}
}

// HandleMessage 路由一条消息并返回聚合结果。
func (h *MessageHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, h.logger) {
		return
	}

	var req api.MessageRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	msg := req.ToMessage()
	if msg.ContextID == "" {
		msg.ContextID = uuid.NewString()
	}

	result, err := h.router.Route(r.Context(), msg)
	if err != nil {
		var apiErr *types.Error
		if errors.As(err, &apiErr) {
			WriteError(w, apiErr, h.logger)
			return
		}
		WriteErrorMessage(w, http.StatusInternalServerError, types.ErrInternalError,
			"failed to route message", h.logger)
		return
	}

	WriteSuccess(w, api.MessageResponse{
		Agent:      result.Agent,
		Content:    result.Content,
		Confidence: result.Confidence,
		SessionID:  msg.ContextID,
	})
}
