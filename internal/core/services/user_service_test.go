package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/echoverse/echoverse_backend/internal/core/services"
	"github.com/echoverse/echoverse_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileAppliesPatch(t *testing.T) {
	var gotPatch domain.UserPatch
	users := &MockUserRepository{
		UpdateUserFn: func(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
			gotPatch = patch
			return &domain.User{UserID: userID, Username: "alice", FullName: *patch.FullName}, nil
		},
	}
	svc := services.NewUserService(users, &MockAccountRepository{})

	fullName := "Alice Example"
	step := 2
	pub, err := svc.UpdateProfile(context.Background(), 5, dto.UpdateProfileRequest{
		FullName:       &fullName,
		OnboardingStep: &step,
	}, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", pub.FullName)
	require.NotNil(t, gotPatch.OnboardingStep)
	assert.Equal(t, 2, *gotPatch.OnboardingStep)
	assert.Nil(t, gotPatch.Role)
}

func TestUpdateProfileRejectsUnknownRole(t *testing.T) {
	svc := services.NewUserService(&MockUserRepository{}, &MockAccountRepository{})

	role := "superuser"
	_, err := svc.UpdateProfile(context.Background(), 5, dto.UpdateProfileRequest{Role: &role}, domain.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateProfilePrivilegedRoleRequiresAdminActor(t *testing.T) {
	svc := services.NewUserService(&MockUserRepository{}, &MockAccountRepository{})

	role := "admin"
	_, err := svc.UpdateProfile(context.Background(), 5, dto.UpdateProfileRequest{Role: &role}, domain.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateProfileAdminMayGrantPrivilegedRole(t *testing.T) {
	users := &MockUserRepository{
		UpdateUserFn: func(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
			require.NotNil(t, patch.Role)
			return &domain.User{UserID: userID, Role: *patch.Role}, nil
		},
	}
	svc := services.NewUserService(users, &MockAccountRepository{})

	role := "admin"
	pub, err := svc.UpdateProfile(context.Background(), 5, dto.UpdateProfileRequest{Role: &role}, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, pub.Role)
}

func TestUpdateProfileNonPrivilegedRoleAllowed(t *testing.T) {
	users := &MockUserRepository{
		UpdateUserFn: func(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
			require.NotNil(t, patch.Role)
			return &domain.User{UserID: userID, Role: *patch.Role}, nil
		},
	}
	svc := services.NewUserService(users, &MockAccountRepository{})

	role := "creator"
	pub, err := svc.UpdateProfile(context.Background(), 5, dto.UpdateProfileRequest{Role: &role}, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCreator, pub.Role)
}

func TestListLinkedAccountsExposesProviderOnly(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	accounts := &MockAccountRepository{
		ListAccountsByUserFn: func(ctx context.Context, userID int64) ([]domain.Account, error) {
			assert.Equal(t, int64(5), userID)
			return []domain.Account{
				{
					AccountID:         1,
					UserID:            5,
					Provider:          domain.ProviderGoogle,
					ProviderAccountID: "g-123",
					AccessToken:       "super-secret-access-token",
					RefreshToken:      "super-secret-refresh-token",
					CreatedAt:         created,
				},
				{AccountID: 2, UserID: 5, Provider: domain.ProviderGitHub, CreatedAt: created.Add(time.Hour)},
			}, nil
		},
	}
	svc := services.NewUserService(&MockUserRepository{}, accounts)

	linked, err := svc.ListLinkedAccounts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "google", linked[0].Provider)
	assert.Equal(t, created, linked[0].CreatedAt)
	assert.Equal(t, "github", linked[1].Provider)

	payload, err := json.Marshal(linked)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
	assert.NotContains(t, string(payload), "g-123")
}

func TestListLinkedAccountsEmptyIsNotNil(t *testing.T) {
	accounts := &MockAccountRepository{
		ListAccountsByUserFn: func(ctx context.Context, userID int64) ([]domain.Account, error) {
			return []domain.Account{}, nil
		},
	}
	svc := services.NewUserService(&MockUserRepository{}, accounts)

	linked, err := svc.ListLinkedAccounts(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, linked)
	assert.Empty(t, linked)
}
