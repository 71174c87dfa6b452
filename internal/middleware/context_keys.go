package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// currentUserKey holds the resolved, credential-free user for the request.
const currentUserKey = contextKey("currentUser")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if v := c.Request.Context().Value(userIDKey); v != nil {
			if id, ok := v.(int64); ok {
				return id, true
			}
		}
		return 0, false
	}

	userID, ok := userIDVal.(int64)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return 0, false
	}

	return userID, true
}

// GetCurrentUserFromContext retrieves the resolved user set by SessionAuth.
func GetCurrentUserFromContext(c *gin.Context) (*domain.PublicUser, bool) {
	val, exists := c.Get(string(currentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := val.(*domain.PublicUser)
	if !ok {
		return nil, false
	}
	return user, true
}
