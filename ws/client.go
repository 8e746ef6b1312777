package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// =============================================================================
// 🔌 客户端连接
// =============================================================================

// Client 封装一条 WebSocket 连接。写操作通过 mutex 保护，
// 因为 WebSocket 不支持并发写。
type Client struct {
	id     string
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex // 保护写操作
	closed bool
}

// NewClient 从已升级的 WebSocket 连接创建客户端。
func NewClient(id string, conn *websocket.Conn, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		id:     id,
		conn:   conn,
		logger: logger.With(zap.String("component", "ws_client"), zap.String("client_id", id)),
	}
}

// ID 返回客户端标识。
func (c *Client) ID() string {
	return c.id
}

// Read 读取一条入站信封。
func (c *Client) Read(ctx context.Context) (Envelope, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("websocket read: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

// Send 序列化并推送一条出站消息。连接已关闭时静默丢弃——
// 传输层断开不回滚任何路由副作用。
func (c *Client) Send(ctx context.Context, msg outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outbound: %w", err)
	}

	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

// Close 关闭连接。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}
