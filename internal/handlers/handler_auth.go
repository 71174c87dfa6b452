package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/dto"
	"github.com/echoverse/echoverse_backend/internal/middleware"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// AuthHandler handles registration, login and session lifecycle requests.
type AuthHandler struct {
	services *portssvc.ServiceContainer
	cfg      *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{services: services, cfg: cfg}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// setSessionCookie attaches the opaque session token as an HttpOnly cookie.
// SameSite=Lax keeps the cookie on top-level navigations, which the OAuth
// callback redirect relies on.
func (h *AuthHandler) setSessionCookie(c *gin.Context, session *domain.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, session.Token, int(h.cfg.SessionDuration.Seconds()), "/", "", h.cfg.IsProduction, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, "", -1, "/", "", h.cfg.IsProduction, true)
}

// establishSession creates a session for the user and sets the cookie.
func (h *AuthHandler) establishSession(c *gin.Context, userID int64) error {
	session, err := h.services.Session.Establish(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session)
	return nil
}

// Register godoc
// @Summary Register new user
// @Description Creates a local account, sends the verification email and logs the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} domain.PublicUser
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.services.Identity.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			msg := "Account already exists"
			var dup *apperrors.DuplicateError
			if errors.As(err, &dup) {
				switch dup.Field {
				case "username":
					msg = "Username already exists"
				case "email":
					msg = "Email already exists"
				}
			}
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register user"})
		return
	}

	if err := h.establishSession(c, user.UserID); err != nil {
		logger.Error("Failed to establish session after registration", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to establish session"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticates a username/password pair and establishes a session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} domain.PublicUser
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.services.Identity.ResolveLocal(c.Request.Context(), domain.LocalCredential{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	if err := h.establishSession(c, user.UserID); err != nil {
		logger.Error("Failed to establish session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to establish session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary Log out
// @Description Destroys the server-side session and clears the cookie. Succeeds even without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.SessionCookieName)
	if err == nil && token != "" {
		// Destroy already tolerates unknown tokens; an error here is a real
		// store failure and the session may still be live.
		if err := h.services.Session.Destroy(c.Request.Context(), token); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to destroy session", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log out"})
			return
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// CurrentUser godoc
// @Summary Current user
// @Description Returns the authenticated user's profile.
// @Tags user
// @Produce json
// @Success 200 {object} domain.PublicUser
// @Failure 401 {object} ErrorResponse
// @Router /user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Description Verifies the current password before storing the new one.
// @Tags auth
// @Accept json
// @Produce json
// @Param change body dto.ChangePasswordRequest true "Password Change"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	err := h.services.Token.ChangePassword(c.Request.Context(), user.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Current password is incorrect"})
		case errors.Is(err, apperrors.ErrNoPassword):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "This account has no password; it uses social login"})
		default:
			logger.Error("Failed to change password", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed"})
}

// IssueAPIToken godoc
// @Summary Issue API token
// @Description Mints a short-lived bearer token for programmatic access, bound to the current session's user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APITokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueAPIToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	token, expiresAt, err := h.services.APIToken.IssueAPIToken(c.Request.Context(), user.UserID)
	if err != nil {
		logger.Error("Failed to issue API token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, dto.APITokenResponse{Token: token, ExpiresAt: expiresAt})
}
