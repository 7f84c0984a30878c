package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lingua_meet_server/internal/config"
	dao "lingua_meet_server/internal/dao/mysql"
	myredis "lingua_meet_server/internal/dao/redis"
	"lingua_meet_server/internal/handler"
	"lingua_meet_server/internal/https_server"
	"lingua_meet_server/internal/infrastructure/logger"
	"lingua_meet_server/internal/infrastructure/mq"
	"lingua_meet_server/internal/infrastructure/rtc"
	"lingua_meet_server/internal/service"
	"lingua_meet_server/pkg/util/jwt"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化会议事件发布器
	var publisher mq.EventPublisher
	if conf.KafkaConfig.Enabled {
		publisher = mq.NewKafkaPublisher(&conf.KafkaConfig)
		zap.L().Info("Kafka 事件发布器初始化成功")
	} else {
		publisher = mq.NopPublisher{}
		zap.L().Info("Kafka 未启用，事件发布降级为空实现")
	}

	// 7. 初始化 Service 层（依赖注入）
	services := service.NewServices(repos, myredis.GetCacheService(), publisher, &conf.MeetingConfig)
	zap.L().Info("Service 层初始化成功")

	// 8. 启动空闲会议回收器
	services.MeetingReaper.Start()

	// 9. 初始化 Handler 与 HTTP 服务器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("validator 翻译器初始化失败", zap.Error(err))
	}
	rtcProvider := rtc.NewTokenProvider(&conf.RtcConfig)
	handlers := handler.NewHandlers(services, rtcProvider)
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	// 10. 启动服务
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动", zap.String("addr", srv.Addr))

	// 设置信号监听，优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	services.MeetingReaper.Stop()
	publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
