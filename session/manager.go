package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🗂️ 会话管理器
// =============================================================================

// Config 会话管理配置
type Config struct {
	// 会话 TTL，每次写入和读取后刷新
	TTL time.Duration `yaml:"ttl" json:"ttl"`

	// 每个会话保留的最大消息数
	MaxMessages int `yaml:"max_messages" json:"max_messages"`

	// 最近上下文窗口大小
	RecentWindow int `yaml:"recent_window" json:"recent_window"`
}

// DefaultConfig 返回默认会话配置
func DefaultConfig() Config {
	return Config{
		TTL:          time.Hour,
		MaxMessages:  50,
		RecentWindow: 10,
	}
}

// Manager 会话管理器：仓库之上的读改写层。仓库以整块 JSON 存储会话，
// 并发追加会互相覆盖，所以同一会话的所有写操作都经过按键互斥锁串行化。
type Manager struct {
	repo    Repository
	archive Archiver
	config  Config
	logger  *zap.Logger
	clock   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock

	// 归档队列按会话保序：入队发生在会话锁内，每个会话同一时刻
	// 只有一个 drain goroutine 在顺序冲洗
	archiveMu   sync.Mutex
	archiveNext map[string][]types.MessageContext
	archiveBusy map[string]bool
}

// sessionLock 带引用计数的会话锁，空闲时从表中移除
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager 创建会话管理器。archive 可以为 nil（不归档）。
func NewManager(repo Repository, archive Archiver, config Config, logger *zap.Logger) *Manager {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.MaxMessages <= 0 {
		config.MaxMessages = DefaultConfig().MaxMessages
	}
	if config.RecentWindow <= 0 {
		config.RecentWindow = DefaultConfig().RecentWindow
	}

	return &Manager{
		repo:    repo,
		archive: archive,
		config:  config,
		logger:  logger.With(zap.String("component", "session_manager")),
		clock:   func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sessionLock),

		archiveNext: make(map[string][]types.MessageContext),
		archiveBusy: make(map[string]bool),
	}
}

// TTL 返回会话 TTL。
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// lockSession 获取会话锁，返回解锁函数。
func (m *Manager) lockSession(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, sessionID)
		}
		m.mu.Unlock()
	}
}

// AddMessage 追加一条消息到会话。会话不存在时创建，
// 超过上限时淘汰最旧消息，写入后刷新 TTL 并异步归档。
func (m *Manager) AddMessage(ctx context.Context, sessionID string, turn types.MessageContext) error {
	now := m.clock()
	if err := turn.Validate(now); err != nil {
		return err
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	sess, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		if types.GetErrorCode(err) != types.ErrSessionNotFound {
			return err
		}
		sess = types.NewSessionContext(sessionID, now)
		m.logger.Debug("session created", zap.String("session_id", sessionID))
	}

	sess.Append(turn, m.config.MaxMessages)

	if err := m.repo.Save(ctx, sess, m.config.TTL); err != nil {
		return err
	}

	// 仍持有会话锁，入队顺序与追加顺序一致
	if m.archive != nil {
		m.enqueueArchive(sessionID, turn)
	}

	return nil
}

// enqueueArchive 把消息交给该会话的归档队列。同一会话只保持一个
// drain goroutine，归档到达顺序与热日志一致。
func (m *Manager) enqueueArchive(sessionID string, turn types.MessageContext) {
	m.archiveMu.Lock()
	m.archiveNext[sessionID] = append(m.archiveNext[sessionID], turn)
	if !m.archiveBusy[sessionID] {
		m.archiveBusy[sessionID] = true
		go m.drainArchive(sessionID)
	}
	m.archiveMu.Unlock()
}

// drainArchive 顺序冲洗一个会话的归档队列，失败只记日志。
func (m *Manager) drainArchive(sessionID string) {
	for {
		m.archiveMu.Lock()
		batch := m.archiveNext[sessionID]
		if len(batch) == 0 {
			delete(m.archiveNext, sessionID)
			delete(m.archiveBusy, sessionID)
			m.archiveMu.Unlock()
			return
		}
		m.archiveNext[sessionID] = nil
		m.archiveMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.archive.Archive(ctx, sessionID, batch); err != nil {
			m.logger.Warn("session archive failed",
				zap.String("session_id", sessionID),
				zap.Int("turns", len(batch)),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// GetSession 读取会话快照。不存在或已过期时返回 ErrSessionNotFound。
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*types.SessionContext, error) {
	return m.repo.Load(ctx, sessionID)
}

// RecentMessages 读取会话最近 n 条消息，n <= 0 时使用配置窗口。
// 会话不存在时返回空切片而不是错误。
func (m *Manager) RecentMessages(ctx context.Context, sessionID string, n int) ([]types.MessageContext, error) {
	if n <= 0 {
		n = m.config.RecentWindow
	}

	sess, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		if types.GetErrorCode(err) == types.ErrSessionNotFound {
			return []types.MessageContext{}, nil
		}
		return nil, err
	}
	return sess.Recent(n), nil
}

// AgentContext 读取面向单个代理的上下文：该代理自己的回复加所有用户消息。
func (m *Manager) AgentContext(ctx context.Context, sessionID, agentID string) ([]types.MessageContext, error) {
	sess, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		if types.GetErrorCode(err) == types.ErrSessionNotFound {
			return []types.MessageContext{}, nil
		}
		return nil, err
	}
	return sess.AgentScoped(agentID), nil
}

// UpdateMetadata 合并会话元数据。
func (m *Manager) UpdateMetadata(ctx context.Context, sessionID string, metadata map[string]any) error {
	unlock := m.lockSession(sessionID)
	defer unlock()

	sess, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	if sess.Metadata == nil {
		sess.Metadata = make(map[string]any, len(metadata))
	}
	for k, v := range metadata {
		sess.Metadata[k] = v
	}
	sess.LastUpdated = m.clock()
	return m.repo.Save(ctx, sess, m.config.TTL)
}

// ExtendSession 刷新会话 TTL，不修改内容。
func (m *Manager) ExtendSession(ctx context.Context, sessionID string) error {
	return m.repo.Touch(ctx, sessionID, m.config.TTL)
}

// ClearSession 删除会话。
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	unlock := m.lockSession(sessionID)
	defer unlock()

	if err := m.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	m.logger.Info("session cleared", zap.String("session_id", sessionID))
	return nil
}

// History 读取会话的归档历史。未配置归档时返回空切片。
func (m *Manager) History(ctx context.Context, sessionID string, limit int) ([]types.MessageContext, error) {
	if m.archive == nil {
		return []types.MessageContext{}, nil
	}
	return m.archive.History(ctx, sessionID, limit)
}
