package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/api"
	"github.com/BaSui01/agentchat/session"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🗂️ 会话 Handler
// =============================================================================

// SessionHandler 处理 /api/v1/sessions/{id} 的读取与删除。
type SessionHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewSessionHandler 创建会话处理器。
func NewSessionHandler(sessions *session.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(zap.String("component", "session_handler")),
	}
}

// HandleSession 按方法分发读取/删除。
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"session id is required", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, sessionID)
	case http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	default:
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest,
			"method not allowed: "+r.Method, h.logger)
	}
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	WriteSuccess(w, api.SessionResponse{
		SessionID:    sess.SessionID,
		CreatedAt:    sess.CreatedAt.Format(time.RFC3339),
		LastUpdated:  sess.LastUpdated.Format(time.RFC3339),
		ActiveAgents: sess.ActiveAgents,
		Messages:     sess.Messages,
		Metadata:     sess.Metadata,
	})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.sessions.ClearSession(r.Context(), sessionID); err != nil {
		h.writeSessionError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"session_id": sessionID, "status": "deleted"})
}

// HandleHistory 读取会话的归档历史，?limit= 控制条数。
func (h *SessionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"session id is required", h.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
				"limit must be a non-negative integer", h.logger)
			return
		}
		limit = n
	}

	history, err := h.sessions.History(r.Context(), sessionID, limit)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	WriteSuccess(w, map[string]any{
		"session_id": sessionID,
		"messages":   history,
		"count":      len(history),
	})
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	var apiErr *types.Error
	if errors.As(err, &apiErr) {
		WriteError(w, apiErr, h.logger)
		return
	}
	WriteErrorMessage(w, http.StatusInternalServerError, types.ErrInternalError,
		"session operation failed", h.logger)
}
