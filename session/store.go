package session

import (
	"context"
	"time"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 💾 会话仓库接口
// =============================================================================

// Repository 会话持久化边界。实现必须把整个会话序列化为单个值：
// 读取方拿到的是某一时刻的完整快照，写入方整体覆盖。
type Repository interface {
	// Load 读取会话快照。会话不存在或已过期时返回 ErrSessionNotFound。
	Load(ctx context.Context, sessionID string) (*types.SessionContext, error)

	// Save 整体写入会话并设置 TTL。
	Save(ctx context.Context, sess *types.SessionContext, ttl time.Duration) error

	// Delete 删除会话。会话不存在时不报错。
	Delete(ctx context.Context, sessionID string) error

	// Touch 刷新会话 TTL，不修改内容。
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
}

// Archiver 历史归档边界：在热存储之外保留会话消息的长期副本。
// 归档是尽力而为的，失败不阻塞路由路径。
type Archiver interface {
	// Archive 追加会话消息到归档。
	Archive(ctx context.Context, sessionID string, turns []types.MessageContext) error

	// History 读取归档中的最近消息。
	History(ctx context.Context, sessionID string, limit int) ([]types.MessageContext, error)
}
