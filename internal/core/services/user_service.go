package services

import (
	"context"
	"fmt"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/dto"
)

// userService implements UserSvcFacade for profile reads and updates.
type userService struct {
	users    portsrepo.UserRepository
	accounts portsrepo.AccountRepository
}

// NewUserService creates the user profile service.
func NewUserService(users portsrepo.UserRepository, accounts portsrepo.AccountRepository) portssvc.UserSvcFacade {
	return &userService{users: users, accounts: accounts}
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest, actorRole domain.Role) (*domain.PublicUser, error) {
	patch := domain.UserPatch{
		FullName:            req.FullName,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		AvatarURL:           req.AvatarURL,
		Bio:                 req.Bio,
		OnboardingStep:      req.OnboardingStep,
		OnboardingCompleted: req.OnboardingCompleted,
		Preferences:         req.Preferences,
	}

	if req.Role != nil {
		if !domain.ValidRole(*req.Role) {
			return nil, fmt.Errorf("unknown role %q: %w", *req.Role, apperrors.ErrValidation)
		}
		role := domain.Role(*req.Role)
		// Only an admin may grant a privileged role.
		if role.Privileged() && !actorRole.Privileged() {
			return nil, apperrors.ErrForbidden
		}
		patch.Role = &role
	}

	updated, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	pub := updated.Public()
	return &pub, nil
}

func (s *userService) ListLinkedAccounts(ctx context.Context, userID int64) ([]dto.LinkedAccountResponse, error) {
	accounts, err := s.accounts.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	linked := make([]dto.LinkedAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		linked = append(linked, dto.LinkedAccountResponse{
			Provider:  string(account.Provider),
			CreatedAt: account.CreatedAt,
		})
	}
	return linked, nil
}
