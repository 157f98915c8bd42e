package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/auth"
)

// Context keys set by the auth middleware.
const (
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"
)

// AuthMiddleware validates Bearer tokens. Parsed claims are cached briefly so
// a burst of requests from the same session does not re-verify the signature
// every time.
type AuthMiddleware struct {
	auth   *auth.Service
	claims *cache.Cache
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   authSvc,
		claims: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		var claims *auth.Claims
		if cached, ok := m.claims.Get(tokenString); ok {
			claims = cached.(*auth.Claims)
		} else {
			parsed, err := m.auth.ParseToken(tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			claims = parsed
			m.claims.Set(tokenString, claims, cache.DefaultExpiration)
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			m.claims.Delete(tokenString)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			return
		}

		c.Set(ContextUserKey, claims.Username)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireSite checks that the authenticated user may operate on the site named
// by the ambulatorio query parameter, header, or body-derived context value.
func RequireSite() gin.HandlerFunc {
	return func(c *gin.Context) {
		site := model.Ambulatorio(c.Query("ambulatorio"))
		if site == "" {
			site = model.Ambulatorio(c.GetHeader("X-Ambulatorio"))
		}
		if site == "" {
			c.Next()
			return
		}
		if !site.Valid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
			return
		}
		claims, ok := c.Get(ContextClaimsKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !claims.(*auth.Claims).HasAmbulatorio(site) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access to this ambulatorio is not allowed"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated username from the gin context.
func CurrentUser(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

// CurrentClaims returns the authenticated claims, or nil outside the auth
// middleware.
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	return v.(*auth.Claims)
}
