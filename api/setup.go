package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	authhandler "backend/api/handlers/auth"
	automationhandler "backend/api/handlers/automation"
	sophandler "backend/api/handlers/sop"
	"backend/internal/auth"
	"backend/internal/automation"
	"backend/internal/config"
	"backend/internal/infra"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/sop"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter 组装依赖并注册全部路由
// ctx 控制后台任务（会话清理）的生命周期，取消后退出
func SetupRouter(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(Recovery())
	router.Use(RequestLogger())
	router.Use(CORS())
	router.Use(metrics.PrometheusMiddleware())

	// Redis 可选：连不上时会话只走数据库
	sessionCache := initSessionCache(&cfg.Redis)

	// 服务层
	userService := models.NewUserService(db)
	sopService := models.NewSOPService(db)
	automationStore := models.NewAutomationService(db)
	sessionService := auth.NewSessionService(db, sessionCache, time.Duration(cfg.Session.TTLHours)*time.Hour)

	// 过期会话定期清理，随 ctx 取消退出
	go sessionService.RunCleanup(ctx, time.Hour)

	generator := sop.NewGenerator(&cfg.AI.OpenAI)

	provider, err := automation.NewProvider(&cfg.Automation)
	if err != nil {
		return nil, fmt.Errorf("初始化自动化平台客户端失败: %w", err)
	}
	automationService := automation.NewService(sopService, automationStore, provider)

	// 处理器
	authHandler := authhandler.NewAuthHandler(userService, sessionService, &cfg.Session)
	sopHandler := sophandler.NewSOPHandler(generator, sopService)
	automationHandler := automationhandler.NewAutomationHandler(automationService, provider.Name())

	// 健康检查与监控
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := infra.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 业务路由
	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// 以下路由需要会话认证
		protected := apiGroup.Group("")
		protected.Use(auth.SessionMiddleware(sessionService, cfg.Session.CookieName))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.POST("/sops/generate", sopHandler.Generate)
			protected.GET("/sops", sopHandler.List)
			protected.GET("/sops/:id", sopHandler.Get)

			protected.GET("/automations/suggest/:sopId", automationHandler.Suggest)
			protected.POST("/automations", automationHandler.Create)
			protected.GET("/automations", automationHandler.List)
		}
	}

	return router, nil
}

// initSessionCache 初始化 Redis 会话缓存，失败时降级为 nil
func initSessionCache(cfg *config.RedisConfig) *auth.RedisSessionCache {
	if cfg.Host == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis 连接失败，会话缓存降级为仅数据库", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis 会话缓存已启用", zap.String("addr", client.Options().Addr))
	return auth.NewRedisSessionCache(client)
}
