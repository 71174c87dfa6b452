package services

import "github.com/echoverse/echoverse_backend/internal/core/domain"

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is what the
// handlers are wired against.
type ServiceContainer struct {
	Identity IdentityResolverSvc
	Session  SessionSvcFacade
	Token    TokenWorkflowSvc
	APIToken APITokenSvc
	User     UserSvcFacade
	Mailer   MailerSvc

	// OAuthProviders maps each configured provider to its flow service.
	// Providers without a configured client id/secret pair are absent.
	OAuthProviders map[domain.Provider]OAuthProviderSvc
}
