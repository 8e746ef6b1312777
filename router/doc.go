// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package router 实现消息路由编排器，是整个服务的控制核心。

每条消息的处理流水线：

	入站 → 落上下文 → mention 解析 → {mention 调度 | 相关度调度}
	     → (转派?) → 聚合 → TTL 刷新 → 返回

mention 路径逐个目标调度，未注册的名字产生 system 伪响应；相关度
路径对全部注册 Agent 评分、按门限过滤、降序调度，调度后复核门限。
任何被调 Agent 都可以要求转派，编排器带着已访问集合循环转给最高分
的剩余候选，候选耗尽时转派响应原样返回。

故障语义：路由过程中的内部故障（存储不可用、Agent 失败、panic）
一律转换为 agent="system"、置信度 0.0 的响应，绝不向调用方抛出。
*/
package router
