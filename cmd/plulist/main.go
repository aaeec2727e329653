package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/plulist/internal/config"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/handler"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/bitfantasy/plulist/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting plulist service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Version{},
		&entity.Item{},
		&entity.CustomProduct{},
		&entity.HiddenItem{},
		&entity.NamingRule{},
		&entity.Category{},
		&entity.ListSettings{},
		&entity.User{},
		&entity.Notification{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// AutoMigrate 不会创建部分索引和 CHECK 约束，用原始 SQL 兜底
	migrationSQL := []string{
		// 每个列表至多一个 active / 一个 draft 版本，数据库层兜底
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_versions_one_active_per_kind ON versions(list_kind) WHERE status = 'active'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_versions_one_draft_per_kind ON versions(list_kind) WHERE status = 'draft'`,

		`ALTER TABLE versions DROP CONSTRAINT IF EXISTS ck_versions_status`,
		`ALTER TABLE versions ADD CONSTRAINT ck_versions_status CHECK (status IN ('draft', 'active', 'frozen'))`,
		`ALTER TABLE versions DROP CONSTRAINT IF EXISTS ck_versions_week`,
		`ALTER TABLE versions ADD CONSTRAINT ck_versions_week CHECK (week_number BETWEEN 1 AND 53)`,

		`ALTER TABLE items DROP CONSTRAINT IF EXISTS ck_items_status`,
		`ALTER TABLE items ADD CONSTRAINT ck_items_status CHECK (status IN ('UNCHANGED', 'NEW_PRODUCT_YELLOW', 'PLU_CHANGED_RED'))`,
		`ALTER TABLE items DROP CONSTRAINT IF EXISTS ck_items_item_type`,
		`ALTER TABLE items ADD CONSTRAINT ck_items_item_type CHECK (item_type IN ('PIECE', 'WEIGHT'))`,

		`ALTER TABLE naming_rules DROP CONSTRAINT IF EXISTS ck_naming_rules_position`,
		`ALTER TABLE naming_rules ADD CONSTRAINT ck_naming_rules_position CHECK (position IN ('PREFIX', 'SUFFIX'))`,

		`ALTER TABLE list_settings DROP CONSTRAINT IF EXISTS ck_list_settings_sort_mode`,
		`ALTER TABLE list_settings ADD CONSTRAINT ck_list_settings_sort_mode CHECK (sort_mode IN ('ALPHABETICAL', 'BY_CATEGORY'))`,
		`ALTER TABLE list_settings DROP CONSTRAINT IF EXISTS ck_list_settings_yellow_weeks`,
		`ALTER TABLE list_settings ADD CONSTRAINT ck_list_settings_yellow_weeks CHECK (mark_yellow_weeks >= 0)`,

		`CREATE INDEX IF NOT EXISTS idx_versions_delete_after ON versions(delete_after) WHERE status = 'frozen'`,
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, zapLogger)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// SSE 实时推送（需要认证，支持 query param token）
		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 按列表类型划分的资源
			lists := authorized.Group("/lists/:kind")
			{
				// 上传比对与发布（编辑角色）
				lists.POST("/compare", middleware.RequireRole("editor"), h.Compare.Compare)
				lists.POST("/publish", middleware.RequireRole("editor"), h.Compare.Publish)

				// 组合显示与导出
				lists.GET("/display", h.Display.Get)
				lists.GET("/export", h.Display.Export)

				// 版本历史
				lists.GET("/versions", h.Version.List)

				// 命名规则
				lists.GET("/rules", h.NamingRule.List)
				lists.POST("/rules", middleware.RequireRole("editor"), h.NamingRule.Create)
				lists.POST("/rules/preview", h.NamingRule.Preview)

				// 显示分组
				lists.GET("/categories", h.Category.List)
				lists.POST("/categories", middleware.RequireRole("editor"), h.Category.Create)
				lists.POST("/categories/auto-assign", middleware.RequireRole("editor"), h.Category.AutoAssign)

				// 自建商品
				lists.GET("/custom-products", h.CustomProduct.List)
				lists.POST("/custom-products", middleware.RequireRole("editor"), h.CustomProduct.Create)

				// 隐藏 PLU
				lists.GET("/hidden", h.HiddenItem.List)
				lists.POST("/hidden", middleware.RequireRole("editor"), h.HiddenItem.Hide)
				lists.DELETE("/hidden/:plu", middleware.RequireRole("editor"), h.HiddenItem.Unhide)

				// 显示设置
				lists.GET("/settings", h.Settings.Get)
				lists.PUT("/settings", middleware.RequireRole("editor"), h.Settings.Update)
			}

			// 版本详情与发布后条目维护
			authorized.GET("/versions/:id", h.Version.Get)
			authorized.PUT("/items/:id/display", middleware.RequireRole("editor"), h.Version.RenameItem)

			// 按 ID 的资源操作
			authorized.PUT("/rules/:id", middleware.RequireRole("editor"), h.NamingRule.Update)
			authorized.DELETE("/rules/:id", middleware.RequireRole("editor"), h.NamingRule.Delete)
			authorized.PUT("/categories/:id", middleware.RequireRole("editor"), h.Category.Update)
			authorized.DELETE("/categories/:id", middleware.RequireRole("editor"), h.Category.Delete)
			authorized.PUT("/custom-products/:id", middleware.RequireRole("editor"), h.CustomProduct.Update)
			authorized.DELETE("/custom-products/:id", middleware.RequireRole("editor"), h.CustomProduct.Delete)

			// 通知
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 维护接口：保留期清理（外部保留任务触发）
			authorized.POST("/maintenance/purge", middleware.RequireRole("admin"), h.Version.Purge)
		}
	}
}
