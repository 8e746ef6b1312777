// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package main 提供 AgentChat 服务端程序入口。

# 概述

cmd/agentchat 是多代理聊天编排服务的可执行入口，提供 HTTP API、
WebSocket 实时通道、健康检查和版本查询等子命令。程序支持 YAML
配置文件加载、结构化日志（zap）、Prometheus 指标采集与 OpenTelemetry
链路追踪。

# 核心类型

  - Server           — 主服务器，管理 API、Metrics 双端口及优雅关闭
  - Middleware        — HTTP 中间件函数签名 func(http.Handler) http.Handler
  - responseWriter    — 包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 子命令：serve（启动服务）、version、health
  - 中间件链：Recovery、RequestID、SecurityHeaders、RequestLogger、
    MetricsMiddleware、CORS、RateLimiter（租户/IP）、JWTAuth（Bearer）
  - WebSocket：/ws/{client_id} 端点，关闭时主动断开全部连接
  - Metrics 服务器：独立端口暴露 /metrics（Prometheus）
  - 优雅关闭：信号监听 → 关闭 API → 关闭 Metrics → 归档 → Redis → 遥测
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
