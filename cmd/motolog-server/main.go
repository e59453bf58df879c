package main

import (
	"flag"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/Motolog/Motolog/internal/common/auth"
	"github.com/Motolog/Motolog/internal/common/config"
	"github.com/Motolog/Motolog/internal/common/db"
	"github.com/Motolog/Motolog/internal/common/logger"
	"github.com/Motolog/Motolog/internal/common/middleware"
	"github.com/Motolog/Motolog/internal/common/server"
	"github.com/Motolog/Motolog/internal/common/tracing"
	"github.com/Motolog/Motolog/internal/fuellog"
	"github.com/Motolog/Motolog/internal/geo"
	"github.com/Motolog/Motolog/internal/rideboard"
	"github.com/Motolog/Motolog/internal/trip"
	"github.com/Motolog/Motolog/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/motolog-server.json", "config file path")
	consulKey  = flag.String("consul-config-key", "", "load config from consul KV instead of file")
	rateCap    = flag.Int64("rate-capacity", 200, "token bucket capacity for global rate limit")
	rateRefill = flag.Int64("rate-refill", 100, "tokens refilled per second")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// InitTracer 内部会把 tracer 注册为全局，这里只管生命周期
	if _, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler); err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	gormDB, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// redis 仅用于地理编码结果缓存，连不上就退化为不缓存
	redisClient := newRedisClient(cfg, log)

	geocoder := geo.NewNominatimClient(cfg.Geocoding, redisClient, log)
	distanceSvc := geo.NewDistanceService(geocoder)

	tripSvc := trip.NewService(trip.NewRepo(gormDB), distanceSvc)
	fuelSvc := fuellog.NewService(fuellog.NewRepo(gormDB))
	boardSvc := rideboard.NewService(rideboard.NewRepo(gormDB))
	vehicleSvc := vehicle.NewService(vehicle.NewRepo(gormDB))

	limiter := middleware.NewTokenBucket(*rateCap, *rateRefill)

	err = server.RunHTTPServer(cfg, log,
		func(r *gin.Engine) error {
			vehicle.RegisterRoutes(r, vehicleSvc)
			trip.RegisterRoutes(r, tripSvc)
			fuellog.RegisterRoutes(r, fuelSvc)
			rideboard.RegisterRoutes(r, boardSvc)
			return nil
		},
		server.WithMiddlewares(
			middleware.RateLimit(limiter),
			auth.Middleware(cfg.Auth),
		),
	)
	if err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	if *consulKey == "" {
		return config.LoadConfig(*configPath)
	}
	// 先用文件/默认配置拿到 consul 地址，再去 KV 拉完整配置
	base, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	return config.LoadConfigFromConsulKV(base.Consul.Host, base.Consul.Port, *consulKey)
}

func migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&vehicle.Vehicle{},
		&trip.Trip{},
		&fuellog.FuelLog{},
		&rideboard.Reaction{},
		&rideboard.Comment{},
	)
}

func newRedisClient(cfg *config.Config, log logger.Logger) *redis.Client {
	if cfg.Redis.Host == "" {
		log.Infof("redis not configured, geocoding cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}
