package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Motolog/Motolog/internal/common/config"
	"github.com/Motolog/Motolog/internal/common/logger"
	"github.com/Motolog/Motolog/internal/common/middleware"
	"github.com/redis/go-redis/v9"
)

// Coord 经纬度坐标
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder 把自由文本地名解析为坐标的外部能力。
// 解析不到（查无此地 / 网络失败 / 服务不可用）返回 ok=false，
// 对调用方来说这是预期结果而不是错误。
type Geocoder interface {
	Resolve(ctx context.Context, query string) (Coord, bool)
}

// NominatimClient 基于 Nominatim 搜索接口的 Geocoder 实现。
// 单次尝试、有限超时；可选 redis 旁路缓存与熔断器。
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *redis.Client // 可为 nil
	cacheTTL  time.Duration
	breaker   *middleware.CircuitBreaker // 可为 nil
	log       logger.Logger
}

// NewNominatimClient 创建 Nominatim 客户端。cache 传 nil 则不缓存。
func NewNominatimClient(cfg config.GeocodingConfig, cache *redis.Client, log logger.Logger) *NominatimClient {
	var breaker *middleware.CircuitBreaker
	if cfg.BreakerMaxFail > 0 {
		breaker = middleware.NewCircuitBreaker("geocoding", cfg.BreakerMaxFail, cfg.BreakerReset())
	}
	return &NominatimClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout()},
		cache:     cache,
		cacheTTL:  cfg.CacheTTL(),
		breaker:   breaker,
		log:       log,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve 解析地名，返回最佳匹配坐标。
func (n *NominatimClient) Resolve(ctx context.Context, query string) (Coord, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Coord{}, false
	}

	cacheKey := "geocode:" + strings.ToLower(query)
	if c, ok := n.fromCache(ctx, cacheKey); ok {
		return c, true
	}

	var coord Coord
	var found bool
	lookup := func() error {
		c, f, err := n.lookup(ctx, query)
		if err != nil {
			return err
		}
		coord, found = c, f
		return nil
	}

	var err error
	if n.breaker != nil {
		err = n.breaker.Call(ctx, lookup)
	} else {
		err = lookup()
	}
	if err != nil {
		if n.log != nil {
			n.log.Warnf("geocoding lookup failed for %q: %v", query, err)
		}
		return Coord{}, false
	}
	if !found {
		if n.log != nil {
			n.log.Warnf("no coordinates found for location: %s", query)
		}
		return Coord{}, false
	}

	n.toCache(ctx, cacheKey, coord)
	return coord, true
}

// lookup 调一次 Nominatim。err != nil 表示服务不可用（计入熔断），
// found=false 表示服务正常但查无此地。
func (n *NominatimClient) lookup(ctx context.Context, query string) (Coord, bool, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coord{}, false, err
	}
	// 提供方要求每次查询携带可识别的客户端标识
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Coord{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coord{}, false, fmt.Errorf("geocoding api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coord{}, false, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return Coord{}, false, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if len(places) == 0 {
		return Coord{}, false, nil
	}

	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(places[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Coord{}, false, fmt.Errorf("bad coordinates in response: lat=%q lon=%q", places[0].Lat, places[0].Lon)
	}
	return Coord{Lat: lat, Lon: lon}, true, nil
}

func (n *NominatimClient) fromCache(ctx context.Context, key string) (Coord, bool) {
	if n.cache == nil || n.cacheTTL <= 0 {
		return Coord{}, false
	}
	raw, err := n.cache.Get(ctx, key).Result()
	if err != nil {
		return Coord{}, false
	}
	var c Coord
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Coord{}, false
	}
	return c, true
}

func (n *NominatimClient) toCache(ctx context.Context, key string, c Coord) {
	if n.cache == nil || n.cacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := n.cache.Set(ctx, key, b, n.cacheTTL).Err(); err != nil && n.log != nil {
		n.log.Warnf("failed to cache geocode result: %v", err)
	}
}
