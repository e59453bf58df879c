package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Consul    ConsulConfig    `json:"consul"`
	Jaeger    JaegerConfig    `json:"jaeger"`
	Geocoding GeocodingConfig `json:"geocoding"`
	Auth      AuthConfig      `json:"auth"`
	Log       LogConfig       `json:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name     string `json:"name"`      // 服务名称
	Host     string `json:"host"`      // 服务地址
	HTTPPort int    `json:"http_port"` // HTTP端口
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `json:"driver"`   // 数据库驱动
	Host     string `json:"host"`     // 数据库地址
	Port     int    `json:"port"`     // 数据库端口
	User     string `json:"user"`     // 用户名
	Password string `json:"password"` // 密码
	Database string `json:"database"` // 数据库名
	MaxIdle  int    `json:"max_idle"` // 最大空闲连接
	MaxOpen  int    `json:"max_open"` // 最大打开连接
}

// RedisConfig Redis配置（地理编码结果缓存，可选）
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// ConsulConfig Consul配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig Jaeger配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// GeocodingConfig 地理编码（外部地名解析）配置
type GeocodingConfig struct {
	BaseURL        string `json:"base_url"`         // 查询接口地址
	UserAgent      string `json:"user_agent"`       // 按提供方要求必须携带的客户端标识
	TimeoutSeconds int    `json:"timeout_seconds"`  // 单次查询超时（秒）
	CacheTTLHours  int    `json:"cache_ttl_hours"`  // 坐标缓存有效期（小时），0 表示不缓存
	BreakerMaxFail int    `json:"breaker_max_fail"` // 熔断阈值（连续失败次数）
	BreakerResetMS int    `json:"breaker_reset_ms"` // 熔断重置时间（毫秒）
}

// Timeout 返回单次地理编码查询的超时时间。
func (g GeocodingConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheTTL 返回坐标缓存有效期。
func (g GeocodingConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLHours) * time.Hour
}

// BreakerReset 返回熔断器重置时间。
func (g GeocodingConfig) BreakerReset() time.Duration {
	if g.BreakerResetMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.BreakerResetMS) * time.Millisecond
}

// AuthConfig 身份令牌配置（身份由外部 IdP 签发，这里只做解析）
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"` // HS256 共享密钥
	Issuer    string `json:"issuer"`
	Audience  string `json:"audience"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		// 如果配置文件不存在，使用默认配置
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "motolog-server",
			Host:     "0.0.0.0",
			HTTPPort: 5000,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "motolog",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
			PoolSize: 10,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Geocoding: GeocodingConfig{
			BaseURL:        "https://nominatim.openstreetmap.org/search",
			UserAgent:      "Motolog/1.0",
			TimeoutSeconds: 5,
			CacheTTLHours:  24,
			BreakerMaxFail: 5,
			BreakerResetMS: 30000,
		},
		Auth: AuthConfig{
			JWTSecret: "",
			Issuer:    "motolog",
			Audience:  "motolog-api",
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
