package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// SessionAuth resolves the caller's identity and stores it in the request
// context. It tries the session cookie first and falls back to a Bearer API
// token. It never aborts: routes that need a login chain RequireAuth after it,
// so public routes can share the same resolver.
func SessionAuth(cfg *config.Config, services *portssvc.ServiceContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		user := resolveFromCookie(c, cfg, services)
		authMethod := "session_cookie"
		if user == nil {
			user = resolveFromBearer(c, services)
			authMethod = "api_token"
		}

		if user == nil {
			c.Next()
			return
		}

		c.Set(string(userIDKey), user.UserID)
		c.Set(string(currentUserKey), user)
		c.Set("authMethod", authMethod)

		// Mirror into the standard context with an enriched logger so service
		// code sees the same identity.
		enrichedLogger := logger.With(slog.Int64("user_id", user.UserID))
		ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
		ctx = context.WithValue(ctx, currentUserKey, user)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveFromCookie(c *gin.Context, cfg *config.Config, services *portssvc.ServiceContainer) *domain.PublicUser {
	token, err := c.Cookie(cfg.SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	user, err := services.Session.CurrentUser(c.Request.Context(), token)
	if err != nil {
		// Stale or forged cookie. Not worth logging per request.
		return nil
	}
	return user
}

func resolveFromBearer(c *gin.Context, services *portssvc.ServiceContainer) *domain.PublicUser {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil
	}

	userID, err := services.APIToken.ValidateAPIToken(c.Request.Context(), parts[1])
	if err != nil {
		GetLoggerFromCtx(c.Request.Context()).Warn("Invalid bearer token", slog.String("error", err.Error()))
		return nil
	}
	user, err := services.User.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// RequireAuth aborts with 401 when SessionAuth resolved no identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUserFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the current user holds one of the given
// roles. It implies RequireAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
