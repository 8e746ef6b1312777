// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package handlers 实现 REST 接口的 HTTP 处理器：消息路由、Agent 列表、
会话读写和健康检查。所有处理器共享统一的 Response 信封和错误码到
HTTP 状态码的映射。
*/
package handlers
