// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package ws 提供 WebSocket 传输层：连接/房间注册表（Hub）、带写锁的
连接封装（Client）和事件分发处理器（Handler）。

事件协议（JSON 信封 {event, data, room?}）：

	客户端 → 服务端：chat_message、join_room、leave_room、typing_status
	服务端 → 客户端：system（欢迎）、chat_response、room_join、
	                 room_leave、typing_status、client_disconnect、error

chat_message 经编排器路由后推回：带 room 时广播给房间全员，带
broadcast 标志时扇出给全部在线客户端，否则只回发送者。join/leave
和 typing 是纯扇出，不经过编排器。
*/
package ws
