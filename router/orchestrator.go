package router

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/agent"
	"github.com/BaSui01/agentchat/internal/metrics"
	"github.com/BaSui01/agentchat/session"
	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🚦 路由编排器
// =============================================================================

// 系统级响应文案，与调用方可见契约一致，不要随意改动。
const (
	msgAgentNotFound   = "Agent @%s not found"
	msgNoSuitableAgent = "No agent found suitable to handle this message"
	msgNoAgentHandled  = "No agents were able to process your message"
	msgInternalFault   = "An internal error occurred while processing your message"
	msgStoreFault      = "The conversation store is temporarily unavailable, please try again"
)

// Orchestrator 消息路由编排器：决定哪些 Agent 处理消息、执行转派、
// 聚合响应并维护会话上下文。每条消息走一条独立流水线，跨会话完全并行；
// 同会话的上下文追加顺序由 session.Manager 串行化保证。
type Orchestrator struct {
	registry *agent.Registry
	sessions *session.Manager
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewOrchestrator 创建路由编排器。collector 可以为 nil（不记指标）。
func NewOrchestrator(registry *agent.Registry, sessions *session.Manager, collector *metrics.Collector, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry: registry,
		sessions: sessions,
		metrics:  collector,
		logger:   logger.With(zap.String("component", "orchestrator")),
	}
}

// Route 路由一条消息并返回聚合结果。
//
// 只有请求本身不合法时返回 error；路由过程中的一切内部故障（存储不可用、
// Agent panic、超时）都被转换为 system 响应，调用方永远拿到一个完整的
// 响应对象。
func (o *Orchestrator) Route(ctx context.Context, msg *types.Message) (result types.RouteResult, err error) {
	if err := msg.Validate(); err != nil {
		return types.RouteResult{}, err
	}
	if msg.ContextID == "" {
		msg.ContextID = uuid.NewString()
	}

	start := time.Now()
	path := "relevance"

	// 路由绝不允许击穿调用方的请求/连接
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("routing panic recovered",
				zap.String("session_id", msg.ContextID),
				zap.Any("panic", r),
			)
			result = types.SystemResult(msgInternalFault)
			err = nil
			o.recordRouting(path, "error", time.Since(start))
		}
	}()

	// 1. 入站消息先落上下文
	inbound := types.MessageContext{
		Content:   msg.Content,
		Timestamp: time.Now().UTC(),
		SenderID:  msg.SenderID,
	}
	if err := o.sessions.AddMessage(ctx, msg.ContextID, inbound); err != nil {
		o.logger.Error("failed to append inbound message",
			zap.String("session_id", msg.ContextID),
			zap.Error(err),
		)
		o.recordRouting(path, "error", time.Since(start))
		return types.SystemResult(msgStoreFault), nil
	}

	// 2. 解析 mention，显式 Mention 字段优先于文本内的 @
	mentions := o.resolveMentions(msg)

	var responses []types.RouteResult

	if len(mentions) > 0 {
		path = "mention"
		responses = o.routeMentions(ctx, msg, mentions)
	} else {
		var short bool
		responses, short = o.routeByRelevance(ctx, msg)
		if short {
			o.recordRouting(path, "system", time.Since(start))
			return types.SystemResult(msgNoSuitableAgent), nil
		}
	}

	// 3. 刷新会话 TTL，失败不影响已经算出的结果
	if err := o.sessions.ExtendSession(ctx, msg.ContextID); err != nil {
		o.logger.Warn("failed to refresh session ttl",
			zap.String("session_id", msg.ContextID),
			zap.Error(err),
		)
	}

	result = Aggregate(responses)
	o.recordRouting(path, outcomeLabel(result), time.Since(start))

	o.logger.Debug("message routed",
		zap.String("session_id", msg.ContextID),
		zap.String("path", path),
		zap.String("agent", result.Agent),
		zap.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// resolveMentions 返回本条消息的显式目标列表。
func (o *Orchestrator) resolveMentions(msg *types.Message) []string {
	if msg.Mention != "" {
		return []string{strings.ToLower(msg.Mention)}
	}
	return agent.ParseMentions(msg.Content)
}

// routeMentions 处理显式 mention 路径：逐个目标调度，未注册的名字
// 产生 system 伪响应但不中断其余目标。
func (o *Orchestrator) routeMentions(ctx context.Context, msg *types.Message, mentions []string) []types.RouteResult {
	responses := make([]types.RouteResult, 0, len(mentions))
	for _, name := range mentions {
		target, ok := o.registry.Get(name)
		if !ok {
			o.logger.Info("mentioned agent not found",
				zap.String("session_id", msg.ContextID),
				zap.String("agent", name),
			)
			responses = append(responses, types.SystemResult(fmt.Sprintf(msgAgentNotFound, name)))
			continue
		}

		resp := o.dispatch(ctx, target, msg)
		o.appendAgentTurn(ctx, msg.ContextID, resp)
		responses = append(responses, resp)
	}
	return responses
}

// routeByRelevance 处理相关度路径。short 为 true 表示没有任何 Agent
// 过线，调用方应短路返回 system 响应。
func (o *Orchestrator) routeByRelevance(ctx context.Context, msg *types.Message) (responses []types.RouteResult, short bool) {
	threshold := msg.Threshold()
	candidates := o.findRelevantAgents(msg.Content, threshold, nil)
	if len(candidates) == 0 {
		o.logger.Info("no suitable agent",
			zap.String("session_id", msg.ContextID),
			zap.Float64("threshold", threshold),
		)
		return nil, true
	}

	responses = make([]types.RouteResult, 0, len(candidates))
	for _, c := range candidates {
		resp := o.dispatch(ctx, c.agent, msg)

		// 调度后复核门限：评分是纯函数，这里通常与注册表检查一致，
		// 但转派可能换人，换人后的置信度必须重新过线。
		if resp.Agent != types.SystemAgent && resp.Confidence < threshold {
			continue
		}

		o.appendAgentTurn(ctx, msg.ContextID, resp)
		responses = append(responses, resp)
	}
	return responses, false
}

// scored 一个候选 Agent 及其相关度
type scored struct {
	agent agent.Agent
	score float64
}

// findRelevantAgents 对全部注册 Agent 评分，保留 >= threshold 的候选，
// 按相关度降序排列（并列时保持注册顺序）。exclude 中的名字被跳过。
func (o *Orchestrator) findRelevantAgents(content string, threshold float64, exclude map[string]struct{}) []scored {
	all := o.registry.All()
	candidates := make([]scored, 0, len(all))
	for _, a := range all {
		if _, skip := exclude[a.Name()]; skip {
			continue
		}
		if score := a.CalculateRelevance(content); score >= threshold {
			candidates = append(candidates, scored{agent: a, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

// dispatch 调度单个 Agent 并执行转派子协议：被调 Agent 返回
// needs_rerouting 时，排除所有已尝试过的 Agent 重新做相关度检索，
// 转给最高分的剩余候选。循环在响应不再要求转派、候选耗尽或达到
// 注册表规模上限时终止；候选耗尽时最后一个（要求转派的）响应原样返回。
func (o *Orchestrator) dispatch(ctx context.Context, target agent.Agent, msg *types.Message) types.RouteResult {
	visited := make(map[string]struct{})
	maxHops := o.registry.Len()
	hops := 0
	current := target

	for {
		visited[current.Name()] = struct{}{}

		resp, err := o.invoke(ctx, current, msg)
		if err != nil {
			o.logger.Error("agent invocation failed",
				zap.String("session_id", msg.ContextID),
				zap.String("agent", current.Name()),
				zap.Error(err),
			)
			o.recordHops(hops)
			return types.SystemResult(fmt.Sprintf("Agent %s failed to process the message", current.Name()))
		}

		if !resp.NeedsRerouting || hops >= maxHops {
			o.recordHops(hops)
			return types.RouteResult{
				Agent:      current.Name(),
				Content:    resp.Content,
				Confidence: resp.Confidence,
			}
		}

		next := o.findRelevantAgents(msg.Content, msg.Threshold(), visited)
		if len(next) == 0 {
			// 无人可转，转派响应原样作为终态
			o.recordHops(hops)
			return types.RouteResult{
				Agent:      current.Name(),
				Content:    resp.Content,
				Confidence: resp.Confidence,
			}
		}

		o.logger.Debug("rerouting message",
			zap.String("session_id", msg.ContextID),
			zap.String("from", current.Name()),
			zap.String("to", next[0].agent.Name()),
		)
		current = next[0].agent
		hops++
	}
}

// invoke 调用单个 Agent 并记录指标。
func (o *Orchestrator) invoke(ctx context.Context, a agent.Agent, msg *types.Message) (types.AgentResponse, error) {
	history, err := o.sessions.AgentContext(ctx, msg.ContextID, a.Name())
	if err != nil {
		// 入站消息已经落库成功，这里读不到按空上下文处理
		o.logger.Warn("failed to load agent context",
			zap.String("session_id", msg.ContextID),
			zap.String("agent", a.Name()),
			zap.Error(err),
		)
		history = nil
	}

	start := time.Now()
	resp, err := a.ProcessMessage(ctx, msg.Content, history)
	elapsed := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		switch {
		case err != nil:
			status = "error"
		case resp.NeedsRerouting:
			status = "reroute"
		}
		o.metrics.RecordAgentInvocation(a.Name(), status, elapsed, resp.Confidence)
	}
	return resp, err
}

// appendAgentTurn 把 Agent 响应作为代理回合落入会话上下文。
// system 伪响应不落库。
func (o *Orchestrator) appendAgentTurn(ctx context.Context, sessionID string, resp types.RouteResult) {
	if resp.Agent == types.SystemAgent {
		return
	}

	conf := resp.Confidence
	turn := types.MessageContext{
		Content:    resp.Content,
		Timestamp:  time.Now().UTC(),
		SenderID:   resp.Agent,
		AgentID:    resp.Agent,
		Confidence: &conf,
	}
	if err := o.sessions.AddMessage(ctx, sessionID, turn); err != nil {
		o.logger.Error("failed to append agent turn",
			zap.String("session_id", sessionID),
			zap.String("agent", resp.Agent),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) recordRouting(path, outcome string, elapsed time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordRouting(path, outcome, elapsed)
	}
}

func (o *Orchestrator) recordHops(hops int) {
	if o.metrics != nil {
		o.metrics.RecordRerouteHops(hops)
	}
}

// outcomeLabel 把聚合结果归类为指标 label。
func outcomeLabel(r types.RouteResult) string {
	switch {
	case r.Agent == types.SystemAgent:
		return "system"
	case strings.HasPrefix(r.Agent, "multiple("):
		return "multiple"
	default:
		return "agent"
	}
}
