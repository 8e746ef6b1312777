// Copyright (c) AgentChat Authors.
// Licensed under the MIT License.

/*
Package config 提供 AgentChat 的统一配置管理。

配置优先级为：默认值 → YAML 文件 → 环境变量。环境变量名由前缀
（默认 AGENTCHAT）与结构体 env 标签逐级拼接而成，例如
AGENTCHAT_SERVER_HTTP_PORT 覆盖 Server.HTTPPort。

	cfg, err := config.NewLoader().
	    WithConfigPath("config.yaml").
	    WithValidator((*config.Config).Validate).
	    Load()
*/
package config
