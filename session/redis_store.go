package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/internal/kv"
	"github.com/BaSui01/agentchat/internal/metrics"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 💾 Redis 会话仓库
// =============================================================================

const (
	sessionKeyPrefix = "session:"
	storeLabel       = "redis"
)

// RedisRepository 基于 Redis 的会话仓库：每个会话一个 JSON 块，
// TTL 由 Redis 原生过期承担。
type RedisRepository struct {
	kv      *kv.Manager
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewRedisRepository 创建 Redis 会话仓库。collector 可以为 nil（不记指标）。
func NewRedisRepository(manager *kv.Manager, collector *metrics.Collector, logger *zap.Logger) *RedisRepository {
	return &RedisRepository{
		kv:      manager,
		metrics: collector,
		logger:  logger.With(zap.String("component", "session_repository")),
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Load 读取会话快照。
func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*types.SessionContext, error) {
	var sess types.SessionContext
	if err := r.kv.GetJSON(ctx, sessionKey(sessionID), &sess); err != nil {
		if kv.IsKeyMiss(err) {
			if r.metrics != nil {
				r.metrics.RecordSessionMiss(storeLabel)
			}
			return nil, types.NewError(types.ErrSessionNotFound, "session not found: "+sessionID)
		}
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to load session").WithCause(err)
	}
	if r.metrics != nil {
		r.metrics.RecordSessionHit(storeLabel)
	}
	return &sess, nil
}

// Save 整体写入会话并设置 TTL。
func (r *RedisRepository) Save(ctx context.Context, sess *types.SessionContext, ttl time.Duration) error {
	if err := r.kv.SetJSON(ctx, sessionKey(sess.SessionID), sess, ttl); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to save session").WithCause(err)
	}
	r.logger.Debug("session saved",
		zap.String("session_id", sess.SessionID),
		zap.Int("messages", len(sess.Messages)),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// Delete 删除会话。
func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.kv.Delete(ctx, sessionKey(sessionID)); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to delete session").WithCause(err)
	}
	return nil
}

// Touch 刷新会话 TTL。
func (r *RedisRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := r.kv.Expire(ctx, sessionKey(sessionID), ttl); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to refresh session ttl").WithCause(err)
	}
	return nil
}
