// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package types 提供 AgentChat 服务的全局共享类型定义。

# 概述

types 是服务最底层的公共包，不依赖任何内部包，为 agent、router、session、
ws、api 等上层模块提供统一的类型契约。所有跨包共享的结构体、枚举和错误码
均定义于此，以避免循环依赖。

# 核心类型

  - Message           — 入站聊天消息（内容、发送者、显式 @mention、会话键、路由阈值）
  - AgentResponse     — 单次 Agent 调用结果（内容、[0,1] 置信度、是否请求重路由）
  - RouteResult       — 聚合后的最终回复（agent 标签、内容、置信度）
  - MessageContext    — 会话中的单个存储回合
  - SessionContext    — 会话上下文（有序消息日志、活跃 Agent 集合、元数据）
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码与 Retryable 标记

# 不变式

  - AgentResponse 的 confidence 必须落在 [0,1]，越界在构造时失败而非静默截断
  - SessionContext.Messages 的插入顺序即时间顺序，追加由调用方按会话串行化
  - 未来时间戳的回合视为非法，不得入库
*/
package types
