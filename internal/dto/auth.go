package dto

import "time"

// RegisterRequest is the payload for POST /api/register. The optional role may
// not name a privileged role; self-registration as admin is rejected by the
// oneof list.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=32,alphanum"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Role            string `json:"role" binding:"omitempty,oneof=user business educator creator"`
	FullName        string `json:"fullName" binding:"omitempty,max=120"`
}

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest is the payload for POST /api/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the payload for POST /api/reset-password.
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// ChangePasswordRequest is the payload for POST /api/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// MessageResponse is the generic success envelope for operations without a
// resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// APITokenResponse carries a freshly minted bearer token for programmatic
// clients.
type APITokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
