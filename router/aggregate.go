package router

import (
	"fmt"
	"strings"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 🧩 响应聚合
// =============================================================================

// Aggregate 把一次路由收集到的全部终态响应合并为单个结果：
//
//   - 空集：system 响应，置信度 0.0
//   - 单响应：原样返回，不做任何重新标注
//   - 多响应：agent 字段为 "multiple(a, b)" 复合标签，content 为
//     "[name]: content" 块以空行连接，confidence 取贡献者最大值
func Aggregate(responses []types.RouteResult) types.RouteResult {
	switch len(responses) {
	case 0:
		return types.SystemResult(msgNoAgentHandled)
	case 1:
		return responses[0]
	}

	names := make([]string, 0, len(responses))
	blocks := make([]string, 0, len(responses))
	maxConfidence := responses[0].Confidence

	for _, r := range responses {
		names = append(names, r.Agent)
		blocks = append(blocks, fmt.Sprintf("[%s]: %s", r.Agent, r.Content))
		if r.Confidence > maxConfidence {
			maxConfidence = r.Confidence
		}
	}

	return types.RouteResult{
		Agent:      fmt.Sprintf("multiple(%s)", strings.Join(names, ", ")),
		Content:    strings.Join(blocks, "\n\n"),
		Confidence: maxConfidence,
	}
}
