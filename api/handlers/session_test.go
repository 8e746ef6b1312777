package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/api"
	"github.com/BaSui01/agentchat/internal/kv"
	"github.com/BaSui01/agentchat/session"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🧪 会话 Handler 测试
// =============================================================================

func setupSessionHandler(t *testing.T) (*session.Manager, *SessionHandler) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	kvm, err := kv.NewManager(kv.Config{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		kvm.Close()
		mr.Close()
	})

	repo := session.NewRedisRepository(kvm, nil, zap.NewNop())
	manager := session.NewManager(repo, nil, session.DefaultConfig(), zap.NewNop())
	return manager, NewSessionHandler(manager, zap.NewNop())
}

func TestSessionHandler_Get(t *testing.T) {
	manager, handler := setupSessionHandler(t)

	require.NoError(t, manager.AddMessage(context.Background(), "s1", types.MessageContext{
		Content:   "hello",
		Timestamp: time.Now().UTC(),
		SenderID:  "user-1",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	handler.HandleSession(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var sess api.SessionResponse
	require.NoError(t, json.Unmarshal(data, &sess))

	assert.Equal(t, "s1", sess.SessionID)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "hello", sess.Messages[0].Content)
}

func TestSessionHandler_GetMissing(t *testing.T) {
	_, handler := setupSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	handler.HandleSession(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrSessionNotFound), resp.Error.Code)
}

func TestSessionHandler_Delete(t *testing.T) {
	manager, handler := setupSessionHandler(t)
	ctx := context.Background()

	require.NoError(t, manager.AddMessage(ctx, "s1", types.MessageContext{
		Content:   "hello",
		Timestamp: time.Now().UTC(),
		SenderID:  "user-1",
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	handler.HandleSession(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := manager.GetSession(ctx, "s1")
	assert.Equal(t, types.ErrSessionNotFound, types.GetErrorCode(err))
}

func TestSessionHandler_MissingID(t *testing.T) {
	_, handler := setupSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/", nil)
	w := httptest.NewRecorder()
	handler.HandleSession(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_History(t *testing.T) {
	_, handler := setupSessionHandler(t)

	// 未配置归档时返回空列表
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/history", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandler_HistoryBadLimit(t *testing.T) {
	_, handler := setupSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/history?limit=abc", nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
