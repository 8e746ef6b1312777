package agent

import (
	"sync"

	"go.uber.org/zap"
)

// Registry 按名称持有 Agent 实例。注册顺序保持稳定，相关度并列时的排序
// 以注册顺序为准。所有方法都是并发安全的；All 返回快照，路由当前消息
// 期间的注册/注销不会影响已取得的快照。
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	order  []string
	logger *zap.Logger
}

// NewRegistry 创建空注册表。
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		agents: make(map[string]Agent),
		order:  make([]string, 0),
		logger: logger.With(zap.String("component", "agent_registry")),
	}
}

// Register 按名称注册或覆盖 Agent。幂等：重复注册同名 Agent 覆盖实例，
// 保留原注册位置。
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; !exists {
		r.order = append(r.order, name)
	}
	r.agents[name] = a

	r.logger.Info("agent registered",
		zap.String("agent", name),
		zap.Float64("min_confidence", a.MinConfidence()),
	)
}

// Unregister 移除 Agent，不存在时为 no-op。
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		return
	}
	delete(r.agents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("agent unregistered", zap.String("agent", name))
}

// Get 按名称查找 Agent。
func (r *Registry) Get(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// All 返回注册顺序的 Agent 快照。
func (r *Registry) All() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]Agent, 0, len(r.order))
	for _, name := range r.order {
		snapshot = append(snapshot, r.agents[name])
	}
	return snapshot
}

// Len 返回当前注册的 Agent 数量。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
