package ws

import (
	"encoding/json"
	"time"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 📨 事件协议
// =============================================================================

// 客户端 → 服务端事件
const (
	EventChatMessage  = "chat_message"
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventTypingStatus = "typing_status"
)

// 服务端 → 客户端事件
const (
	EventSystem           = "system"
	EventChatResponse     = "chat_response"
	EventRoomJoin         = "room_join"
	EventRoomLeave        = "room_leave"
	EventClientDisconnect = "client_disconnect"
	EventError            = "error"
)

// Envelope WebSocket 消息信封。Data 的形状由 Event 决定。
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Room  string          `json:"room,omitempty"`
}

// ChatMessageData chat_message 事件载荷
type ChatMessageData struct {
	Content             string  `json:"content"`
	SessionID           string  `json:"session_id,omitempty"`
	Mention             string  `json:"mention,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
	Room                string  `json:"room,omitempty"`

	// Broadcast 为 true 时把路由结果扇出给其他在线客户端
	Broadcast bool `json:"broadcast,omitempty"`
}

// RoomData join_room / leave_room 事件载荷
type RoomData struct {
	Room string `json:"room"`
}

// TypingStatusData typing_status 事件载荷
type TypingStatusData struct {
	Room     string `json:"room,omitempty"`
	IsTyping bool   `json:"is_typing"`
}

// outbound 服务端推送消息，Data 为任意可序列化载荷
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
	Room  string `json:"room,omitempty"`
}

// systemData system 事件载荷
type systemData struct {
	Message   string `json:"message"`
	ClientID  string `json:"client_id"`
	Timestamp string `json:"timestamp"`
}

// chatResponseData chat_response 事件载荷
type chatResponseData struct {
	Response  types.RouteResult `json:"response"`
	SessionID string            `json:"session_id"`
	Timestamp string            `json:"timestamp"`
}

// presenceData room_join / room_leave / client_disconnect 事件载荷
type presenceData struct {
	ClientID  string `json:"client_id"`
	Room      string `json:"room,omitempty"`
	Timestamp string `json:"timestamp"`
}

// typingData 服务端转发的 typing_status 载荷
type typingData struct {
	ClientID  string `json:"client_id"`
	IsTyping  bool   `json:"is_typing"`
	Timestamp string `json:"timestamp"`
}

// errorData error 事件载荷
type errorData struct {
	Message string `json:"message"`
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
