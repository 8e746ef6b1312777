package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/internal/metrics"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🌐 WebSocket 升级与事件分发
// =============================================================================

// Router 消息路由边界，由编排器实现。
type Router interface {
	Route(ctx context.Context, msg *types.Message) (types.RouteResult, error)
}

// Handler 处理 /ws/{client_id} 升级请求并驱动每连接的事件循环。
type Handler struct {
	hub     *Hub
	router  Router
	metrics *metrics.Collector
	logger  *zap.Logger

	// 允许的 Origin 列表，空表示只允许同源
	allowedOrigins []string
}

// NewHandler 创建 WebSocket 处理器。collector 可以为 nil。
func NewHandler(hub *Hub, router Router, collector *metrics.Collector, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:            hub,
		router:         router,
		metrics:        collector,
		allowedOrigins: allowedOrigins,
		logger:         logger.With(zap.String("component", "ws_handler")),
	}
}

// ServeHTTP 升级连接并运行事件循环直到客户端断开。
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.allowedOrigins,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return
	}

	client := NewClient(clientID, conn, h.logger)
	h.hub.Register(client)

	ctx := r.Context()

	// 连接即欢迎
	h.hub.SendToClient(ctx, clientID, outbound{
		Event: EventSystem,
		Data: systemData{
			Message:   "Connected to chat system",
			ClientID:  clientID,
			Timestamp: nowStamp(),
		},
	})

	h.readLoop(ctx, client)

	h.hub.Unregister(clientID)
	_ = client.Close()

	// 告知其余客户端该连接已下线
	h.hub.Broadcast(context.Background(), outbound{
		Event: EventClientDisconnect,
		Data:  presenceData{ClientID: clientID, Timestamp: nowStamp()},
	}, clientID)
}

// readLoop 逐条读取并分发事件，读失败（含正常断开）时返回。
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	for {
		env, err := client.Read(ctx)
		if err != nil {
			h.logger.Debug("read loop ended",
				zap.String("client_id", client.ID()),
				zap.Error(err),
			)
			return
		}

		if h.metrics != nil {
			h.metrics.RecordWSEvent(env.Event)
		}
		h.handleEvent(ctx, client, env)
	}
}

// handleEvent 按事件类型分发。未知事件回一条 error，不断开连接。
func (h *Handler) handleEvent(ctx context.Context, client *Client, env Envelope) {
	switch env.Event {
	case EventChatMessage:
		h.handleChatMessage(ctx, client, env.Data)
	case EventJoinRoom:
		var data RoomData
		if err := json.Unmarshal(env.Data, &data); err == nil && data.Room != "" {
			h.hub.JoinRoom(ctx, client.ID(), data.Room)
		}
	case EventLeaveRoom:
		var data RoomData
		if err := json.Unmarshal(env.Data, &data); err == nil && data.Room != "" {
			h.hub.LeaveRoom(ctx, client.ID(), data.Room)
		}
	case EventTypingStatus:
		h.handleTypingStatus(ctx, client, env.Data)
	default:
		h.hub.SendToClient(ctx, client.ID(), outbound{
			Event: EventError,
			Data:  errorData{Message: "unknown event: " + env.Event},
		})
	}
}

// handleChatMessage 把聊天消息送进编排器，并把结果推回房间、
// 发送者或（broadcast 时）全部在线客户端。
func (h *Handler) handleChatMessage(ctx context.Context, client *Client, raw json.RawMessage) {
	var data ChatMessageData
	if err := json.Unmarshal(raw, &data); err != nil || data.Content == "" {
		h.hub.SendToClient(ctx, client.ID(), outbound{
			Event: EventError,
			Data:  errorData{Message: "chat_message requires non-empty content"},
		})
		return
	}

	sessionID := data.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	msg := &types.Message{
		Content:             data.Content,
		SenderID:            client.ID(),
		Mention:             data.Mention,
		ContextID:           sessionID,
		ConfidenceThreshold: data.ConfidenceThreshold,
	}

	result, err := h.router.Route(ctx, msg)
	if err != nil {
		h.hub.SendToClient(ctx, client.ID(), outbound{
			Event: EventError,
			Data:  errorData{Message: err.Error()},
		})
		return
	}

	reply := outbound{
		Event: EventChatResponse,
		Data: chatResponseData{
			Response:  result,
			SessionID: sessionID,
			Timestamp: nowStamp(),
		},
	}

	switch {
	case data.Room != "":
		reply.Room = data.Room
		h.hub.BroadcastToRoom(ctx, data.Room, reply, "")
	case data.Broadcast:
		h.hub.SendToClient(ctx, client.ID(), reply)
		h.hub.Broadcast(ctx, reply, client.ID())
	default:
		h.hub.SendToClient(ctx, client.ID(), reply)
	}
}

// handleTypingStatus 纯扇出，不经过编排器；发送者自己不收。
func (h *Handler) handleTypingStatus(ctx context.Context, client *Client, raw json.RawMessage) {
	var data TypingStatusData
	if err := json.Unmarshal(raw, &data); err != nil || data.Room == "" {
		return
	}

	h.hub.BroadcastToRoom(ctx, data.Room, outbound{
		Event: EventTypingStatus,
		Room:  data.Room,
		Data: typingData{
			ClientID:  client.ID(),
			IsTyping:  data.IsTyping,
			Timestamp: nowStamp(),
		},
	}, client.ID())
}
