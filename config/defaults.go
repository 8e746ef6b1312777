// =============================================================================
// 📋 AgentChat 默认配置
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			MetricsPort:     9090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPS:    20,
			RateLimitBurst:  40,
			AllowedOrigins:  []string{"*"},
		},
		Redis: RedisConfig{
			Addr:                "localhost:6379",
			Password:            "",
			DB:                  0,
			MaxRetries:          3,
			PoolSize:            10,
			MinIdleConns:        2,
			HealthCheckInterval: 30 * time.Second,
		},
		Mongo: MongoConfig{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "agentchat",
			Collection: "chat_history",
			MaxHistory: 100,
		},
		Session: SessionConfig{
			TTL:          time.Hour,
			MaxMessages:  50,
			RecentWindow: 10,
		},
		Routing: RoutingConfig{
			ConfidenceThreshold: 0.3,
		},
		Auth: AuthConfig{
			Enabled:   false,
			Algorithm: "HS256",
		},
		Log: LogConfig{
			Level:            "info",
			Format:           "json",
			OutputPaths:      []string{"stdout"},
			EnableCaller:     true,
			EnableStacktrace: false,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "agentchat",
			SampleRate:   1.0,
		},
	}
}
