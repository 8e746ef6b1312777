package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🎯 Profile 驱动的 Agent 实现
// =============================================================================
// 所有内置 Agent 共享同一套评分与应答逻辑，差异全部收敛到 Profile 配置：
// 关键词表、能力短语、权重常量、阈值和应答规则。无需继承体系。
// =============================================================================

// Rule 是一条模式应答规则：消息包含 Match 中任一子串时命中，返回 Reply。
// 规则按声明顺序匹配，第一条命中的规则生效。
type Rule struct {
	Match []string
	Reply string
}

// Profile 是单个 Agent 的静态配置，启动时构建一次，之后不再修改。
type Profile struct {
	// 名称（注册表唯一键，即 @mention 目标）
	Name string
	// 描述
	Description string
	// 能力短语（参与能力评分，也用于元信息展示）
	Capabilities []string
	// 关键词表（参与关键词评分）
	Keywords []string

	// MinConfidence 自报不可处理下限
	MinConfidence float64

	// 评分权重：score = keyword*KeywordWeight + capability*CapabilityWeight + BaseRelevance
	KeywordWeight    float64
	CapabilityWeight float64
	// BaseRelevance 兜底 Agent 的基础相关度（通常为 0）
	BaseRelevance float64
	// KeywordDivisor 关键词命中数的归一化除数（<=0 时取 2）
	KeywordDivisor float64

	// Rules 模式应答规则，按顺序匹配
	Rules []Rule
	// Fallback 无规则命中时的默认应答
	Fallback string
	// ContextFallback 无规则命中且会话已有历史时优先于 Fallback（可选）
	ContextFallback string
	// ContextTemplate 无规则命中但历史中出现过本 Agent 关键词时的应答模板，
	// %s 替换为命中的关键词列表（可选）
	ContextTemplate string

	// DeflectReply 置信度不足时的让路应答（NeedsRerouting=true）
	DeflectReply string
	// NeverReroutes 兜底 Agent 即使低于阈值也不请求重路由
	NeverReroutes bool
}

// ProfileAgent 按 Profile 配置评分和应答。
type ProfileAgent struct {
	p Profile
}

// 编译期断言：ProfileAgent 满足 Agent 契约。
var _ Agent = (*ProfileAgent)(nil)

const defaultDeflectReply = "This query might be better handled by another specialist."

// New 校验配置并构建 ProfileAgent。
func New(p Profile) (*ProfileAgent, error) {
	if p.Name == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "agent profile requires a name")
	}
	if p.MinConfidence < 0 || p.MinConfidence > 1 {
		return nil, types.NewError(types.ErrInvalidRequest,
			fmt.Sprintf("agent %s: min_confidence %v out of range [0,1]", p.Name, p.MinConfidence))
	}
	if p.KeywordWeight < 0 || p.CapabilityWeight < 0 || p.BaseRelevance < 0 {
		return nil, types.NewError(types.ErrInvalidRequest,
			fmt.Sprintf("agent %s: scoring weights must be non-negative", p.Name))
	}
	if p.KeywordDivisor <= 0 {
		p.KeywordDivisor = 2
	}
	if p.DeflectReply == "" {
		p.DeflectReply = defaultDeflectReply
	}
	if p.Fallback == "" {
		return nil, types.NewError(types.ErrInvalidRequest,
			fmt.Sprintf("agent %s: fallback reply is required", p.Name))
	}
	return &ProfileAgent{p: p}, nil
}

// MustNew 构建 ProfileAgent，配置非法时 panic。仅用于内置 roster。
func MustNew(p Profile) *ProfileAgent {
	a, err := New(p)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *ProfileAgent) Name() string           { return a.p.Name }
func (a *ProfileAgent) Description() string    { return a.p.Description }
func (a *ProfileAgent) Capabilities() []string { return a.p.Capabilities }
func (a *ProfileAgent) MinConfidence() float64 { return a.p.MinConfidence }

// CalculateRelevance 计算 [0,1] 相关度：
//
//	keywordScore    = min(1, 关键词命中数 / KeywordDivisor)
//	capabilityScore = min(1, 任一词出现在消息中的能力短语数 / 能力短语总数)
//	score           = clamp(keyword*Wk + capability*Wc + BaseRelevance)
//
// 纯函数，无副作用。
func (a *ProfileAgent) CalculateRelevance(message string) float64 {
	msg := strings.ToLower(message)

	keywordScore := 0.0
	if len(a.p.Keywords) > 0 {
		hits := 0
		for _, kw := range a.p.Keywords {
			if strings.Contains(msg, kw) {
				hits++
			}
		}
		keywordScore = min(1.0, float64(hits)/a.p.KeywordDivisor)
	}

	capabilityScore := a.capabilityMatch(msg)

	score := keywordScore*a.p.KeywordWeight + capabilityScore*a.p.CapabilityWeight + a.p.BaseRelevance
	return max(0.0, min(1.0, score))
}

// capabilityMatch 返回构成词至少有一个出现在消息中的能力短语占比。
func (a *ProfileAgent) capabilityMatch(msg string) float64 {
	if len(a.p.Capabilities) == 0 {
		return 0
	}
	matched := 0
	for _, cap := range a.p.Capabilities {
		for _, word := range strings.Fields(strings.ToLower(cap)) {
			if strings.Contains(msg, word) {
				matched++
				break
			}
		}
	}
	return min(1.0, float64(matched)/float64(len(a.p.Capabilities)))
}

// ProcessMessage 重新评分后按规则应答。置信度低于 MinConfidence 时返回
// 让路响应（NeedsRerouting=true），置信度原样携带。
func (a *ProfileAgent) ProcessMessage(ctx context.Context, message string, history []types.MessageContext) (types.AgentResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.AgentResponse{}, types.NewError(types.ErrTimeout, "agent invocation canceled").WithCause(err)
	}

	confidence := a.CalculateRelevance(message)

	if confidence < a.p.MinConfidence && !a.p.NeverReroutes {
		return types.NewAgentResponse(a.p.DeflectReply, confidence, true)
	}

	return types.NewAgentResponse(a.reply(strings.ToLower(message), history), confidence, false)
}

// reply 按声明顺序扫描规则，第一条命中的生效；否则走上下文相关兜底。
func (a *ProfileAgent) reply(msg string, history []types.MessageContext) string {
	for _, rule := range a.p.Rules {
		for _, pattern := range rule.Match {
			if strings.Contains(msg, pattern) {
				return rule.Reply
			}
		}
	}

	if a.p.ContextTemplate != "" {
		if hits := a.historyKeywords(history); len(hits) > 0 {
			return fmt.Sprintf(a.p.ContextTemplate, strings.Join(hits, ", "))
		}
	}
	if a.p.ContextFallback != "" && len(history) > 0 {
		return a.p.ContextFallback
	}
	return a.p.Fallback
}

// historyKeywords 返回出现在历史回合文本中的本 Agent 关键词（去重，表序）。
func (a *ProfileAgent) historyKeywords(history []types.MessageContext) []string {
	if len(history) == 0 {
		return nil
	}
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(strings.ToLower(turn.Content))
		b.WriteByte(' ')
	}
	text := b.String()

	var hits []string
	for _, kw := range a.p.Keywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
