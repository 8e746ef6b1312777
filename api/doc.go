// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package api 定义 REST 接口的线上类型。

接口一览：

	POST   /api/v1/message        路由一条消息并返回聚合结果
	GET    /api/v1/agents         列出全部注册 Agent 的元信息
	GET    /api/v1/sessions/{id}  读取会话快照
	DELETE /api/v1/sessions/{id}  删除会话
	GET    /health /healthz       存活探针
	GET    /ready /readyz         就绪探针（含存储连通性和 roster 检查）

处理器实现在 api/handlers 子包。
*/
package api
