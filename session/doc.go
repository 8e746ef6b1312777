// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package session 提供会话上下文存储：有序对话日志、活跃代理集合、
容量淘汰和 TTL 过期。

存储分两层：Redis 仓库持有热会话（单个 JSON 块，Redis 原生 TTL），
MongoDB 归档保留每会话最近若干条消息的长期副本。归档写入是异步
尽力而为的，失败不影响路由路径。

仓库按整块读写会话，所以 Manager 用按会话键的互斥锁串行化同一会话
的读改写，保证追加顺序与调用顺序一致。
*/
package session
