package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/apierror"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	PrincipalKey = "principal"
)

// JWTClaims are the custom claims embedded in every access token. The role is
// informational; JWTAuth re-resolves the user on each request.
type JWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// PrincipalResolver is satisfied by service.AuthService.
type PrincipalResolver interface {
	Resolve(ctx context.Context, username string) (service.Principal, error)
}

// IssueToken signs an HS256 access token for p.
func IssueToken(secret string, ttl time.Duration, p service.Principal) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Username: p.Username(),
		Role:     string(p.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// JWTAuth validates the Bearer token on every protected route and stores the
// resolved Principal in the context.
func JWTAuth(secret string, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.CodeUnauthorized, "authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.CodeUnauthorized, "invalid or expired token"))
			return
		}

		p, err := resolver.Resolve(c.Request.Context(), claims.Username)
		if err != nil {
			var storeErr *service.StoreError
			if errors.As(err, &storeErr) {
				log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("auth: resolve failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New(apierror.CodeUnavailable, "store unavailable"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.CodeUnauthorized, "invalid or expired token"))
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RequireRole rejects requests whose principal role is not in the allowed list.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[GetPrincipal(c).Role()] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apierror.CodeForbidden, "insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or the zero Principal on
// routes JWTAuth did not guard.
func GetPrincipal(c *gin.Context) service.Principal {
	p, _ := c.Get(PrincipalKey)
	principal, _ := p.(service.Principal)
	return principal
}
