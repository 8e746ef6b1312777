// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package agent 提供路由单元的能力契约、Profile 驱动的实现、内置 roster、
名称注册表和 @mention 解析。

评分模型（CalculateRelevance）：

	keywordScore    = min(1, 命中关键词数 / divisor)
	capabilityScore = min(1, 命中能力短语数 / 能力短语总数)
	score           = clamp(keywordScore*Wk + capabilityScore*Wc + base, 0, 1)

权重常量随 Agent 类型调优（专家型 0.6/0.4，兜底型 0.4/0.3 + 0.2 基础
相关度），全部收敛在 Profile 配置里，评分逻辑只有一份。
*/
package agent
