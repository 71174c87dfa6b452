package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
)

// setUser mimics SessionAuth's context writes for a resolved identity.
func setUser(user *domain.PublicUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(userIDKey), user.UserID)
		c.Set(string(currentUserKey), user)
		c.Next()
	}
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(), okHandler)

	w := serve(r, "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestRequireAuthPassesResolvedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := &domain.PublicUser{UserID: 5, Username: "alice", Role: domain.RoleUser}
	r.GET("/protected", setUser(user), RequireAuth(), okHandler)

	w := serve(r, "/protected")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRole(domain.RoleAdmin), okHandler)

	w := serve(r, "/admin")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := &domain.PublicUser{UserID: 5, Username: "alice", Role: domain.RoleUser}
	r.GET("/admin", setUser(user), RequireRole(domain.RoleAdmin), okHandler)

	w := serve(r, "/admin")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequireRolePassesMatchingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := &domain.PublicUser{UserID: 1, Username: "root", Role: domain.RoleAdmin}
	r.GET("/admin", setUser(user), RequireRole(domain.RoleAdmin), okHandler)

	w := serve(r, "/admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAcceptsAnyListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := &domain.PublicUser{UserID: 2, Username: "teach", Role: domain.RoleEducator}
	r.GET("/staff", setUser(user), RequireRole(domain.RoleAdmin, domain.RoleEducator), okHandler)

	w := serve(r, "/staff")
	assert.Equal(t, http.StatusOK, w.Code)
}
