package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BaSui01/agentchat/agent"
	"github.com/BaSui01/agentchat/api/handlers"
	"github.com/BaSui01/agentchat/config"
	"github.com/BaSui01/agentchat/internal/kv"
	"github.com/BaSui01/agentchat/internal/metrics"
	"github.com/BaSui01/agentchat/internal/server"
	"github.com/BaSui01/agentchat/internal/telemetry"
	"github.com/BaSui01/agentchat/router"
	"github.com/BaSui01/agentchat/session"
	"github.com/BaSui01/agentchat/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 AgentChat 的主服务器，持有全部组件的生命周期
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 服务器管理器
	apiManager     *server.Manager
	metricsManager *server.Manager

	// 核心组件
	kvManager    *kv.Manager
	archive      *session.MongoArchive
	sessions     *session.Manager
	registry     *agent.Registry
	orchestrator *router.Orchestrator
	hub          *ws.Hub

	// Handlers
	messageHandler *handlers.MessageHandler
	agentHandler   *handlers.AgentHandler
	sessionHandler *handlers.SessionHandler
	healthHandler  *handlers.HealthHandler
	wsHandler      *ws.Handler

	// 指标收集器
	metricsCollector *metrics.Collector

	// 遥测
	otelProviders *telemetry.Providers

	// Rate limiter 清理 goroutine 生命周期
	rateLimiterCancel context.CancelFunc
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	s.metricsCollector = metrics.NewCollector("agentchat", s.logger)

	if err := s.initComponents(); err != nil {
		return fmt.Errorf("failed to init components: %w", err)
	}

	s.initHandlers()

	if err := s.startAPIServer(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("mongo_archive", s.cfg.Mongo.Enabled),
		zap.Bool("auth", s.cfg.Auth.Enabled),
	)

	return nil
}

// =============================================================================
// 🔧 组件初始化
// =============================================================================

// initComponents 按依赖顺序组装存储、会话、代理与路由组件
func (s *Server) initComponents() error {
	// Redis 会话仓库
	kvManager, err := kv.NewManager(kv.Config{
		Addr:                s.cfg.Redis.Addr,
		Password:            s.cfg.Redis.Password,
		DB:                  s.cfg.Redis.DB,
		MaxRetries:          s.cfg.Redis.MaxRetries,
		PoolSize:            s.cfg.Redis.PoolSize,
		MinIdleConns:        s.cfg.Redis.MinIdleConns,
		HealthCheckInterval: s.cfg.Redis.HealthCheckInterval,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	s.kvManager = kvManager

	// MongoDB 历史归档（可选）
	var archiver session.Archiver
	if s.cfg.Mongo.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		archive, err := session.NewMongoArchive(ctx, session.ArchiveConfig{
			URI:        s.cfg.Mongo.URI,
			Database:   s.cfg.Mongo.Database,
			Collection: s.cfg.Mongo.Collection,
			MaxHistory: s.cfg.Mongo.MaxHistory,
		}, s.logger)
		if err != nil {
			return fmt.Errorf("failed to connect mongo archive: %w", err)
		}
		s.archive = archive
		archiver = archive
	}

	// 会话管理器
	repo := session.NewRedisRepository(kvManager, s.metricsCollector, s.logger)
	s.sessions = session.NewManager(repo, archiver, session.Config{
		TTL:          s.cfg.Session.TTL,
		MaxMessages:  s.cfg.Session.MaxMessages,
		RecentWindow: s.cfg.Session.RecentWindow,
	}, s.logger)

	// 代理注册表，装入内置团队
	s.registry = agent.NewRegistry(s.logger)
	for _, a := range agent.Builtin() {
		s.registry.Register(a)
	}

	// 编排器与 WebSocket hub
	s.orchestrator = router.NewOrchestrator(s.registry, s.sessions, s.metricsCollector, s.logger)
	s.hub = ws.NewHub(s.metricsCollector, s.logger)

	return nil
}

// initHandlers 初始化所有 HTTP handlers
func (s *Server) initHandlers() {
	s.messageHandler = handlers.NewMessageHandler(s.orchestrator, s.logger)
	s.agentHandler = handlers.NewAgentHandler(s.registry, s.logger)
	s.sessionHandler = handlers.NewSessionHandler(s.sessions, s.logger)
	s.wsHandler = ws.NewHandler(s.hub, s.orchestrator, s.metricsCollector, s.cfg.Server.AllowedOrigins, s.logger)

	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("redis", s.kvManager.Ping))
	s.healthHandler.RegisterCheck(handlers.NewRosterHealthCheck(len(agent.BuiltinProfiles()), s.registry.Len))
}

// =============================================================================
// 🌐 API 服务器
// =============================================================================

// startAPIServer 启动 API + WebSocket 服务器
func (s *Server) startAPIServer() error {
	mux := http.NewServeMux()

	// 健康检查与版本
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// REST API
	mux.HandleFunc("/api/v1/message", s.messageHandler.HandleMessage)
	mux.HandleFunc("/api/v1/agents", s.agentHandler.HandleListAgents)
	mux.HandleFunc("/api/v1/sessions/{id}", s.sessionHandler.HandleSession)
	mux.HandleFunc("/api/v1/sessions/{id}/history", s.sessionHandler.HandleHistory)

	// WebSocket
	mux.Handle("/ws/{client_id}", s.wsHandler)

	// 中间件链
	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version"}
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		CORS(s.cfg.Server.AllowedOrigins),
	}
	if s.cfg.Telemetry.Enabled {
		middlewares = append(middlewares, OTelTracing())
	}
	// JWT 在限流之前，限流器才能按租户分桶
	if s.cfg.Auth.Enabled {
		jwtMW, err := JWTAuth(s.cfg.Auth, skipAuthPaths, s.logger)
		if err != nil {
			return fmt.Errorf("failed to init JWT middleware: %w", err)
		}
		middlewares = append(middlewares, jwtMW)
	}
	middlewares = append(middlewares,
		RateLimiter(rateLimiterCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger))
	handler := Chain(mux, middlewares...)

	// WebSocket 连接是长连接，API 服务器不设置写超时
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     0,
		WriteTimeout:    0,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.apiManager = server.NewManager("api", handler, serverConfig, s.logger)

	// Shutdown 不等待升级后的 WebSocket 连接，在回调里主动断开
	s.apiManager.RegisterOnShutdown(s.hub.CloseAll)

	if err := s.apiManager.Start(); err != nil {
		return err
	}

	s.logger.Info("API server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Prometheus metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager("metrics", mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.apiManager != nil {
		s.apiManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown 按依赖逆序关闭所有组件
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	if s.apiManager != nil {
		if err := s.apiManager.Shutdown(ctx); err != nil {
			s.logger.Error("API server shutdown error", zap.Error(err))
		}
	}

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	if s.archive != nil {
		if err := s.archive.Close(ctx); err != nil {
			s.logger.Error("Mongo archive shutdown error", zap.Error(err))
		}
	}

	if s.kvManager != nil {
		if err := s.kvManager.Close(); err != nil {
			s.logger.Error("Redis shutdown error", zap.Error(err))
		}
	}

	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
