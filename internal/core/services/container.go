package services

import (
	"log/slog"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// NewServiceContainer wires every service against the given repositories and
// mailer. OAuth providers are registered only when their client id/secret pair
// is present in the configuration.
func NewServiceContainer(
	cfg *config.Config,
	users portsrepo.UserRepository,
	accounts portsrepo.AccountRepository,
	sessions portsrepo.SessionRepository,
	mailer portssvc.MailerSvc,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{
		Identity:       NewIdentityService(users, accounts, mailer, logger, cfg.VerificationTokenTTL, cfg.OAuthLinkAllowUnverifiedEmail),
		Session:        NewSessionService(sessions, users, logger, cfg.SessionDuration),
		Token:          NewTokenWorkflowService(users, mailer, logger, cfg.ResetTokenTTL),
		APIToken:       NewAPITokenService(cfg.SessionSecret, cfg.APITokenIssuer, cfg.APITokenExpiryDuration),
		User:           NewUserService(users, accounts),
		Mailer:         mailer,
		OAuthProviders: map[domain.Provider]portssvc.OAuthProviderSvc{},
	}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		container.OAuthProviders[domain.ProviderGoogle] = NewGoogleOAuthService(cfg)
	}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		container.OAuthProviders[domain.ProviderGitHub] = NewGitHubOAuthService(cfg)
	}

	return container
}
