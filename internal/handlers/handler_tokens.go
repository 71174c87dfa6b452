package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/dto"
	"github.com/echoverse/echoverse_backend/internal/middleware"
)

// TokenHandler handles the email verification and password reset workflows.
type TokenHandler struct {
	services *portssvc.ServiceContainer
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(services *portssvc.ServiceContainer) *TokenHandler {
	return &TokenHandler{services: services}
}

// VerifyEmail godoc
// @Summary Verify email
// @Description Consumes an email verification token from the mailed link.
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /verify-email [get]
func (h *TokenHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Verification token is required"})
		return
	}

	err := h.services.Token.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Verification link has expired. Please request a new one."})
		case errors.Is(err, apperrors.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid verification token"})
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to verify email", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify email"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified"})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Sends a reset link when the email belongs to a user. Always responds with success so addresses cannot be probed.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgot body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /forgot-password [post]
func (h *TokenHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A valid email address is required"})
		return
	}

	if err := h.services.Token.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		// Deliberately not surfaced: the response is identical whether or not
		// the address is known.
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Password reset request failed", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the email address is registered, a reset link has been sent"})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Consumes a reset token and stores the new password.
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /reset-password [post]
func (h *TokenHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	err := h.services.Token.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Reset link has expired. Please request a new one."})
		case errors.Is(err, apperrors.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid reset token"})
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to reset password", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}
