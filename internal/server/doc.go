// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
包 server 提供 HTTP/HTTPS 服务器生命周期管理：非阻塞启动、
优雅关闭与系统信号监听。

Manager 封装 net/http.Server，统一处理监听、服务、关闭与错误
传播。AgentChat 进程内运行两个实例：一个承载 API 与 WebSocket
端点，一个承载 Prometheus /metrics。

WebSocket 升级后的连接不受 http.Server.Shutdown 管辖，通过
RegisterOnShutdown 注册回调在关闭时主动断开它们。
*/
package server
