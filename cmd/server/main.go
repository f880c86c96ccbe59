// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minutes-qa-go/internal/config"
	"minutes-qa-go/internal/handler"
	"minutes-qa-go/internal/middleware"
	"minutes-qa-go/internal/service"
	"minutes-qa-go/internal/session"
	"minutes-qa-go/pkg/database"
	"minutes-qa-go/pkg/datastore"
	"minutes-qa-go/pkg/llm"
	"minutes-qa-go/pkg/log"
	"minutes-qa-go/pkg/storage"
	"minutes-qa-go/pkg/tika"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化外部依赖：对象存储可选，Redis 仅在会话后端选择 redis 时连接
	storage.InitMinIO(cfg.MinIO)

	generalSessions, transcriptSessions := newSessionStores(cfg.Session)

	// 4. 初始化客户端与 Service (依赖注入)
	tikaClient := tika.NewClient(cfg.Tika)
	llmClient := llm.NewClient(cfg.LLM)
	dataStoreClient := datastore.NewClient(cfg.DataStore)

	searchService := service.NewSearchService(tikaClient)
	reportService := service.NewReportService(dataStoreClient)
	chatService := service.NewChatService(dataStoreClient, llmClient, tikaClient, generalSessions, transcriptSessions)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 6. 注册路由：单一入口，action 参数分发；共享口令门禁（未配置则关闭）
	execHandler := handler.NewExecHandler(chatService, searchService, reportService)
	api := r.Group("/api", middleware.BasicAuthGate(cfg.Auth.Password))
	{
		api.GET("/exec", execHandler.Handle)
		api.POST("/exec", execHandler.Handle)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// newSessionStores 依据配置为两个会话域构建存储后端。
// 默认为进程内存：会话状态随重启丢失，与显式 clear 之外无其他生命周期。
func newSessionStores(cfg config.SessionConfig) (session.Store, session.Store) {
	if cfg.Backend == "redis" {
		database.InitRedis(cfg.Redis)
		return session.NewRedisStore(database.RDB, "general"), session.NewRedisStore(database.RDB, "transcript")
	}
	return session.NewMemoryStore(), session.NewMemoryStore()
}
