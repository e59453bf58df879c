package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Motolog/Motolog/internal/common/config"
	"github.com/Motolog/Motolog/internal/common/discovery"
	"github.com/Motolog/Motolog/internal/common/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HTTPRegisterFunc 用于注册业务路由（各 internal 包的 RegisterRoutes）。
type HTTPRegisterFunc func(r *gin.Engine) error

type RunHTTPOptions struct {
	ShutdownTimeout time.Duration
	Middlewares     []gin.HandlerFunc
}

func defaultRunHTTPOptions() RunHTTPOptions {
	return RunHTTPOptions{
		ShutdownTimeout: 5 * time.Second,
	}
}

// WithMiddlewares 追加全局中间件（在内置中间件之后执行）。
func WithMiddlewares(mws ...gin.HandlerFunc) func(*RunHTTPOptions) {
	return func(o *RunHTTPOptions) {
		o.Middlewares = append(o.Middlewares, mws...)
	}
}

// RunHTTPServer 统一的 HTTP 服务启动模板：
// - 初始化 gin engine（含恢复 / 访问日志 / 追踪中间件）
// - 注册健康检查 /healthz
// - 注册业务路由
// - 注册到 Consul（HTTP check）
// - 优雅退出
func RunHTTPServer(cfg *config.Config, log logger.Logger, register HTTPRegisterFunc, opts ...func(*RunHTTPOptions)) error {
	if cfg == nil {
		return fmt.Errorf("cfg is nil")
	}
	if log == nil {
		return fmt.Errorf("log is nil")
	}

	o := defaultRunHTTPOptions()
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}

	// 初始化 Consul 客户端（失败不阻塞服务启动）
	consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
	if err != nil {
		log.Warnf("failed to connect to Consul: %v", err)
		consulClient = nil
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		Recovery(log),                  // 异常恢复，避免服务崩溃
		Tracing(cfg.Server.Name),       // 链路追踪
		AccessLog(log),                 // 访问日志
	)
	r.Use(o.Middlewares...)

	// 健康检查（供 Consul 的 HTTP check 探测）
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if register != nil {
		if err := register(r); err != nil {
			return fmt.Errorf("failed to register http routes: %w", err)
		}
	}

	// 注册到 Consul（成功才 defer 注销）
	if consulClient != nil {
		serviceID := fmt.Sprintf("%s-%s", cfg.Server.Name, uuid.New().String())
		registry := discovery.NewServiceRegistry(consulClient, serviceID)
		if err := registry.Register(cfg.Server.Name, cfg.Server.Host, cfg.Server.HTTPPort); err != nil {
			log.Warnf("failed to register service to consul: %v", err)
		} else {
			defer func() {
				if err := registry.Deregister(); err != nil {
					log.Warnf("failed to deregister service: %v", err)
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s", cfg.Server.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
