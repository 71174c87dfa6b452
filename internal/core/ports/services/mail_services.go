package services

import "context"

// MailerSvc delivers the token-bearing emails. Callers treat delivery as
// fire-and-forget: failures are logged, never propagated into the request that
// triggered them.
type MailerSvc interface {
	SendVerificationEmail(ctx context.Context, toEmail, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}
