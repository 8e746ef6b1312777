// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
HTTP、路由、Agent、会话存储与 WebSocket 五大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 路由指标：消息路由总数与端到端耗时（按 mention/relevance 路径
    和最终结果分组）、每次调度的转派跳数分布。
  - Agent 指标：调用总数、调用耗时、置信度分布，按 agent 分组。
  - 会话存储指标：命中与未命中计数，按 store 分组。
  - WebSocket 指标：在线连接数、活跃房间数 Gauge、事件计数。
*/
package metrics
