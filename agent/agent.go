package agent

import (
	"context"

	"github.com/BaSui01/agentchat/types"
)

// Agent 定义路由单元的能力契约。
// 实现必须满足两条不变式：
//   - CalculateRelevance 是纯函数（只依赖消息文本和 Agent 的静态配置），
//     返回值落在 [0,1]
//   - ProcessMessage 不产生副作用，上下文的写入由 Router 负责
type Agent interface {
	// 身份标识
	Name() string
	Description() string
	Capabilities() []string

	// MinConfidence 返回该 Agent 的自报不可处理下限：
	// 低于该值时 ProcessMessage 返回 NeedsRerouting=true。
	MinConfidence() float64

	// CalculateRelevance 计算 Agent 对消息的相关度，返回 [0,1] 置信度。
	CalculateRelevance(message string) float64

	// ProcessMessage 处理消息并返回响应。history 是该 Agent 视角的会话
	// 回合（自己的回复 + 用户回合），可以为空。
	ProcessMessage(ctx context.Context, message string, history []types.MessageContext) (types.AgentResponse, error)
}

// Metadata 是 Agent 的只读元信息，用于 API 列表接口。
type Metadata struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Capabilities  []string `json:"capabilities"`
	MinConfidence float64  `json:"min_confidence"`
}

// Describe 提取 Agent 元信息。
func Describe(a Agent) Metadata {
	return Metadata{
		Name:          a.Name(),
		Description:   a.Description(),
		Capabilities:  a.Capabilities(),
		MinConfidence: a.MinConfidence(),
	}
}
