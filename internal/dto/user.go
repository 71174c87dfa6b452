package dto

import "time"

// LinkedAccountResponse is the client-safe view of an external provider link.
// Provider tokens never leave the server.
type LinkedAccountResponse struct {
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileRequest defines the fields accepted by PATCH /api/user.
// Pointers distinguish omitted fields from zero values.
type UpdateProfileRequest struct {
	FullName            *string        `json:"fullName" binding:"omitempty"`
	FirstName           *string        `json:"firstName" binding:"omitempty"`
	LastName            *string        `json:"lastName" binding:"omitempty"`
	AvatarURL           *string        `json:"avatarUrl" binding:"omitempty,url"`
	Bio                 *string        `json:"bio" binding:"omitempty,max=500"`
	Role                *string        `json:"role" binding:"omitempty,oneof=user admin business educator creator"`
	OnboardingStep      *int           `json:"onboardingStep" binding:"omitempty,min=0"`
	OnboardingCompleted *bool          `json:"onboardingCompleted"`
	Preferences         map[string]any `json:"preferences"`
}
