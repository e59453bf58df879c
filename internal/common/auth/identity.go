package auth

import (
	"fmt"
	"strings"

	"github.com/Motolog/Motolog/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Identity 外部身份提供方（Clerk/Firebase 等）签发的用户身份。
// 本服务不做认证，只解析 IdP 令牌拿到稳定的用户 ID 和展示名。
type Identity struct {
	UserID      string
	DisplayName string
}

// Claims IdP access token 中与本服务相关的声明。
type Claims struct {
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// ParseIdentity 解析 HS256 签名的身份令牌。
func ParseIdentity(cfg config.AuthConfig, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("token is empty")
	}
	if cfg.JWTSecret == "" {
		return Identity{}, fmt.Errorf("jwt_secret is empty")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse identity token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, fmt.Errorf("identity token invalid")
	}

	name := strings.TrimSpace(claims.DisplayName)
	if name == "" {
		name = claims.Subject
	}
	return Identity{UserID: claims.Subject, DisplayName: name}, nil
}

const identityKey = "motolog.identity"

// Middleware 尝试从 Authorization 头解析身份并放入请求上下文。
// 解析失败不拒绝请求：调用方仍可在请求体里显式携带 userId / displayName。
func Middleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if id, err := ParseIdentity(cfg, token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// FromContext 取出中间件解析到的身份。
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
