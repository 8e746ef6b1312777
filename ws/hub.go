package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/internal/metrics"
)

// =============================================================================
// 🏠 连接与房间注册表
// =============================================================================

// Hub 进程内的连接与房间注册表。connections、roomClients 和
// clientRooms 在同一把锁下维护，广播先在读锁下取目标快照，
// 实际写出不持有 Hub 锁（每个 Client 自带写锁）。
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Client
	roomClients map[string]map[string]struct{}
	clientRooms map[string]map[string]struct{}

	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewHub 创建空注册表。collector 可以为 nil。
func NewHub(collector *metrics.Collector, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		connections: make(map[string]*Client),
		roomClients: make(map[string]map[string]struct{}),
		clientRooms: make(map[string]map[string]struct{}),
		metrics:     collector,
		logger:      logger.With(zap.String("component", "ws_hub")),
	}
}

// Register 登记连接。同名客户端重复连接时旧连接被关闭替换。
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	old, exists := h.connections[client.ID()]
	h.connections[client.ID()] = client
	count := len(h.connections)
	h.mu.Unlock()

	if exists {
		_ = old.Close()
	}

	h.logger.Info("client connected",
		zap.String("client_id", client.ID()),
		zap.Int("connections", count),
	)
	h.updateGauges()
}

// Unregister 注销连接并清理其全部房间成员关系。
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	for room := range h.clientRooms[clientID] {
		delete(h.roomClients[room], clientID)
		if len(h.roomClients[room]) == 0 {
			delete(h.roomClients, room)
		}
	}
	delete(h.clientRooms, clientID)
	delete(h.connections, clientID)
	count := len(h.connections)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		zap.String("client_id", clientID),
		zap.Int("connections", count),
	)
	h.updateGauges()
}

// JoinRoom 把客户端加入房间并通知房间成员。
func (h *Hub) JoinRoom(ctx context.Context, clientID, room string) {
	h.mu.Lock()
	if h.roomClients[room] == nil {
		h.roomClients[room] = make(map[string]struct{})
	}
	if h.clientRooms[clientID] == nil {
		h.clientRooms[clientID] = make(map[string]struct{})
	}
	h.roomClients[room][clientID] = struct{}{}
	h.clientRooms[clientID][room] = struct{}{}
	h.mu.Unlock()

	h.updateGauges()
	h.BroadcastToRoom(ctx, room, outbound{
		Event: EventRoomJoin,
		Room:  room,
		Data:  presenceData{ClientID: clientID, Room: room, Timestamp: nowStamp()},
	}, "")
}

// LeaveRoom 把客户端移出房间并通知剩余成员。
func (h *Hub) LeaveRoom(ctx context.Context, clientID, room string) {
	h.mu.Lock()
	_, member := h.roomClients[room][clientID]
	if member {
		delete(h.roomClients[room], clientID)
		if len(h.roomClients[room]) == 0 {
			delete(h.roomClients, room)
		}
		delete(h.clientRooms[clientID], room)
	}
	h.mu.Unlock()

	if !member {
		return
	}

	h.updateGauges()
	h.BroadcastToRoom(ctx, room, outbound{
		Event: EventRoomLeave,
		Room:  room,
		Data:  presenceData{ClientID: clientID, Room: room, Timestamp: nowStamp()},
	}, "")
}

// SendToClient 定向推送给单个客户端，客户端不在线时静默丢弃。
func (h *Hub) SendToClient(ctx context.Context, clientID string, msg outbound) {
	h.mu.RLock()
	client, ok := h.connections[clientID]
	h.mu.RUnlock()

	if !ok {
		return
	}
	if err := client.Send(ctx, msg); err != nil {
		h.logger.Warn("send to client failed",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
	}
}

// Broadcast 推送给除 exclude 外的全部在线客户端。
func (h *Hub) Broadcast(ctx context.Context, msg outbound, exclude string) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.connections))
	for id, client := range h.connections {
		if id != exclude {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.Send(ctx, msg); err != nil {
			h.logger.Warn("broadcast send failed",
				zap.String("client_id", client.ID()),
				zap.Error(err),
			)
		}
	}
}

// BroadcastToRoom 推送给房间内除 exclude 外的全部成员。
func (h *Hub) BroadcastToRoom(ctx context.Context, room string, msg outbound, exclude string) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.roomClients[room]))
	for id := range h.roomClients[room] {
		if id == exclude {
			continue
		}
		if client, ok := h.connections[id]; ok {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.Send(ctx, msg); err != nil {
			h.logger.Warn("room broadcast send failed",
				zap.String("client_id", client.ID()),
				zap.String("room", room),
				zap.Error(err),
			)
		}
	}
}

// RoomMembers 返回房间成员快照。
func (h *Hub) RoomMembers(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]string, 0, len(h.roomClients[room]))
	for id := range h.roomClients[room] {
		members = append(members, id)
	}
	return members
}

// ClientRooms 返回客户端加入的房间快照。
func (h *Hub) ClientRooms(clientID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms := make([]string, 0, len(h.clientRooms[clientID]))
	for room := range h.clientRooms[clientID] {
		rooms = append(rooms, room)
	}
	return rooms
}

// ConnectionCount 返回当前在线连接数。
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// CloseAll 关闭全部连接，优雅停机时调用。
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.connections))
	for _, c := range h.connections {
		clients = append(clients, c)
	}
	h.connections = make(map[string]*Client)
	h.roomClients = make(map[string]map[string]struct{})
	h.clientRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
	h.updateGauges()
}

func (h *Hub) updateGauges() {
	if h.metrics == nil {
		return
	}
	h.mu.RLock()
	conns := len(h.connections)
	rooms := len(h.roomClients)
	h.mu.RUnlock()
	h.metrics.SetWSConnections(conns)
	h.metrics.SetWSRooms(rooms)
}
