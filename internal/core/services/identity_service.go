package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/dto"
	"github.com/echoverse/echoverse_backend/internal/utils"
)

// mailTimeout bounds the detached delivery goroutines spawned for
// registration and reset mails.
const mailTimeout = 30 * time.Second

// identityService implements IdentityResolverSvc over the persistence gateway.
type identityService struct {
	users    portsrepo.UserRepository
	accounts portsrepo.AccountRepository
	mailer   portssvc.MailerSvc
	logger   *slog.Logger

	verificationTTL time.Duration
	// allowUnverifiedLink re-enables the source behavior of silently linking a
	// provider identity to any user sharing the email, even before that email
	// was verified. Off by default; see the linking policy note in DESIGN.md.
	allowUnverifiedLink bool
}

// NewIdentityService creates the identity resolver.
func NewIdentityService(
	users portsrepo.UserRepository,
	accounts portsrepo.AccountRepository,
	mailer portssvc.MailerSvc,
	logger *slog.Logger,
	verificationTTL time.Duration,
	allowUnverifiedLink bool,
) portssvc.IdentityResolverSvc {
	return &identityService{
		users:               users,
		accounts:            accounts,
		mailer:              mailer,
		logger:              logger,
		verificationTTL:     verificationTTL,
		allowUnverifiedLink: allowUnverifiedLink,
	}
}

// Register creates a local-credential user. Username and email duplicates are
// checked up front; the storage-layer unique constraints remain the authority
// and a concurrent insert still surfaces a DuplicateError naming the field.
func (s *identityService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.PublicUser, error) {
	if _, err := s.users.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, &apperrors.DuplicateError{Field: "username"}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if _, err := s.users.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, &apperrors.DuplicateError{Field: "email"}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	now := time.Now()
	verificationExpiry := now.Add(s.verificationTTL)
	user := domain.User{
		Username:                   req.Username,
		Email:                      req.Email,
		PasswordHash:               &passwordHash,
		EmailVerified:              false,
		VerificationToken:          &verificationToken,
		VerificationTokenExpiresAt: &verificationExpiry,
		FullName:                   req.FullName,
		Role:                       role,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.dispatchMail(ctx, created.UserID, func(ctx context.Context) error {
		return s.mailer.SendVerificationEmail(ctx, created.Email, verificationToken)
	})

	pub := created.Public()
	return &pub, nil
}

// ResolveLocal authenticates a username/password pair. The three failure modes
// share apperrors.ErrInvalidCredentials so responses never reveal whether the
// username exists.
func (s *identityService) ResolveLocal(ctx context.Context, cred domain.LocalCredential) (*domain.PublicUser, error) {
	user, err := s.users.FindUserByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}
	if !user.HasPassword() {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(cred.Password, *user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.touchLastLogin(ctx, user.UserID)

	pub := user.Public()
	return &pub, nil
}

// ResolveOAuth applies the provider precedence: existing account link, then
// email-based linking, then a fresh user.
func (s *identityService) ResolveOAuth(ctx context.Context, profile domain.OAuthProfile) (*domain.PublicUser, bool, error) {
	if profile.Email == "" {
		return nil, false, apperrors.ErrEmailNotProvided
	}

	account, err := s.accounts.FindAccountByProvider(ctx, profile.Provider, profile.ProviderAccountID)
	switch {
	case err == nil:
		user, err := s.refreshLinkedAccount(ctx, account, profile)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	case errors.Is(err, apperrors.ErrNotFound):
		// fall through to email match / creation
	default:
		return nil, false, fmt.Errorf("failed to look up provider account: %w", err)
	}

	existing, err := s.users.FindUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		user, err := s.linkAccountToUser(ctx, existing, profile)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	case errors.Is(err, apperrors.ErrNotFound):
		user, err := s.createOAuthUser(ctx, profile)
		if err != nil {
			return nil, false, err
		}
		return user, true, nil
	default:
		return nil, false, fmt.Errorf("failed to look up user by provider email: %w", err)
	}
}

// refreshLinkedAccount handles a repeat login through an already linked
// provider identity.
func (s *identityService) refreshLinkedAccount(ctx context.Context, account *domain.Account, profile domain.OAuthProfile) (*domain.PublicUser, error) {
	user, err := s.users.FindUserByID(ctx, account.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner of provider account %d: %w", account.AccountID, err)
	}

	if err := s.accounts.UpdateAccountTokens(ctx, account.AccountID, profile.AccessToken, profile.RefreshToken, profile.IDToken, profile.TokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to refresh provider tokens: %w", err)
	}
	s.touchLastLogin(ctx, user.UserID)

	pub := user.Public()
	return &pub, nil
}

// linkAccountToUser attaches a new provider identity to an existing user that
// shares the profile email. Linking into an unverified email is refused unless
// explicitly allowed by configuration.
func (s *identityService) linkAccountToUser(ctx context.Context, user *domain.User, profile domain.OAuthProfile) (*domain.PublicUser, error) {
	if !user.EmailVerified && !s.allowUnverifiedLink {
		s.logger.WarnContext(ctx, "Refusing provider link to unverified email",
			slog.Int64("user_id", user.UserID),
			slog.String("provider", string(profile.Provider)))
		return nil, apperrors.ErrLinkNotAllowed
	}

	_, err := s.accounts.CreateAccount(ctx, domain.Account{
		UserID:            user.UserID,
		Provider:          profile.Provider,
		ProviderAccountID: profile.ProviderAccountID,
		AccessToken:       profile.AccessToken,
		RefreshToken:      profile.RefreshToken,
		IDToken:           profile.IDToken,
		TokenExpiresAt:    profile.TokenExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to link provider account: %w", err)
	}
	s.touchLastLogin(ctx, user.UserID)

	pub := user.Public()
	return &pub, nil
}

// createOAuthUser provisions a brand new user from a provider profile. The
// provider already verified the email, so the user starts verified and without
// a password.
func (s *identityService) createOAuthUser(ctx context.Context, profile domain.OAuthProfile) (*domain.PublicUser, error) {
	user := domain.User{
		Username:      fmt.Sprintf("%s_%s", profile.Provider, profile.ProviderAccountID),
		Email:         profile.Email,
		EmailVerified: true,
		FullName:      profile.DisplayName,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		AvatarURL:     profile.AvatarURL,
		Role:          domain.RoleUser,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user from provider profile: %w", err)
	}

	if _, err := s.accounts.CreateAccount(ctx, domain.Account{
		UserID:            created.UserID,
		Provider:          profile.Provider,
		ProviderAccountID: profile.ProviderAccountID,
		AccessToken:       profile.AccessToken,
		RefreshToken:      profile.RefreshToken,
		IDToken:           profile.IDToken,
		TokenExpiresAt:    profile.TokenExpiry,
	}); err != nil {
		return nil, fmt.Errorf("failed to create provider account link: %w", err)
	}
	s.touchLastLogin(ctx, created.UserID)

	pub := created.Public()
	return &pub, nil
}

// touchLastLogin records the login timestamp. Advisory only; failures are
// logged and never fail the authentication that triggered them.
func (s *identityService) touchLastLogin(ctx context.Context, userID int64) {
	if err := s.users.TouchLastLogin(ctx, userID, time.Now()); err != nil {
		s.logger.WarnContext(ctx, "Failed to update last login timestamp",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
	}
}

// dispatchMail runs the send in a detached goroutine so delivery never blocks
// or fails the HTTP response.
func (s *identityService) dispatchMail(ctx context.Context, userID int64, send func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		mailCtx, cancel := context.WithTimeout(detached, mailTimeout)
		defer cancel()
		if err := send(mailCtx); err != nil {
			s.logger.ErrorContext(mailCtx, "Failed to send mail",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}
	}()
}
