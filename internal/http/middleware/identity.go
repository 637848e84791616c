package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/palearn-backend/internal/http/response"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const headerUserID = "X-User-ID"

// IdentityMiddleware resolves the caller. With a secret it accepts only an
// HS256 bearer token carrying "sub" or "user_id"; without one it trusts the
// X-User-ID header set by an upstream gateway.
type IdentityMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewIdentityMiddleware(log *logger.Logger, secret string) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware"), secret: []byte(secret)}
}

func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.resolve(c)
		if err != nil || userID == "" {
			if err != nil {
				m.log.Debug("identity rejected", "error", err)
			}
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid identity")
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (m *IdentityMiddleware) resolve(c *gin.Context) (string, error) {
	if len(m.secret) == 0 {
		return strings.TrimSpace(c.GetHeader(headerUserID)), nil
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	return m.parse(authHeader[7:])
}

func (m *IdentityMiddleware) parse(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	return sub, nil
}
