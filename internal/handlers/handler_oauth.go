package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/middleware"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// oauthStateCookie carries the CSRF state across the provider round-trip.
const oauthStateCookie = "ev_oauth_state"

// oauthStateMaxAge bounds how long a started flow stays valid, in seconds.
const oauthStateMaxAge = 600

// OAuthHandler drives the browser redirect flow for all configured providers.
type OAuthHandler struct {
	services *portssvc.ServiceContainer
	cfg      *config.Config
	auth     *AuthHandler
}

// NewOAuthHandler creates a new OAuthHandler. It shares the AuthHandler's
// session cookie logic so cookie attributes stay in one place.
func NewOAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config, auth *AuthHandler) *OAuthHandler {
	return &OAuthHandler{services: services, cfg: cfg, auth: auth}
}

func (h *OAuthHandler) provider(c *gin.Context) (portssvc.OAuthProviderSvc, bool) {
	name := domain.Provider(strings.ToLower(c.Param("provider")))
	svc, ok := h.services.OAuthProviders[name]
	return svc, ok
}

// failureRedirect sends the browser back to the frontend login page with an
// error hint. OAuth failures happen mid-navigation, so JSON is useless here.
func (h *OAuthHandler) failureRedirect(c *gin.Context, reason string) {
	target := strings.TrimRight(h.cfg.FrontendBaseURL, "/") + "/auth?error=" + url.QueryEscape(reason)
	c.Redirect(http.StatusFound, target)
}

// Start godoc
// @Summary Begin OAuth login
// @Description Redirects the browser to the provider's consent screen with a CSRF state cookie.
// @Tags oauth
// @Param provider path string true "Provider name (google, github)"
// @Success 302
// @Failure 404 {object} ErrorResponse
// @Router /auth/{provider} [get]
func (h *OAuthHandler) Start(c *gin.Context) {
	svc, ok := h.provider(c)
	if !ok {
		appErr := apperrors.NewNotFoundError("Unknown or unconfigured provider")
		c.JSON(appErr.Code, appErr)
		return
	}

	state, err := svc.GenerateStateString(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		h.failureRedirect(c, "oauth_unavailable")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusFound, svc.AuthCodeURL(state))
}

// Callback godoc
// @Summary OAuth provider callback
// @Description Validates state, exchanges the code, resolves the user and establishes a session, then redirects to the frontend.
// @Tags oauth
// @Param provider path string true "Provider name (google, github)"
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 302
// @Router /auth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	svc, ok := h.provider(c)
	if !ok {
		h.failureRedirect(c, "unknown_provider")
		return
	}

	wantState, err := c.Cookie(oauthStateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cfg.IsProduction, true)
	if err != nil || wantState == "" || c.Query("state") != wantState {
		logger.Warn("OAuth state mismatch", slog.String("provider", string(svc.Provider())))
		h.failureRedirect(c, "state_mismatch")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.failureRedirect(c, "access_denied")
		return
	}

	token, err := svc.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.Error("OAuth code exchange failed", slog.String("provider", string(svc.Provider())), slog.String("error", err.Error()))
		h.failureRedirect(c, "exchange_failed")
		return
	}

	profile, err := svc.FetchProfile(c.Request.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch OAuth profile", slog.String("provider", string(svc.Provider())), slog.String("error", err.Error()))
		h.failureRedirect(c, "profile_unavailable")
		return
	}

	user, created, err := h.services.Identity.ResolveOAuth(c.Request.Context(), *profile)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmailNotProvided):
			h.failureRedirect(c, "email_required")
		case errors.Is(err, apperrors.ErrLinkNotAllowed):
			h.failureRedirect(c, "link_not_allowed")
		default:
			logger.Error("Failed to resolve OAuth identity", slog.String("provider", string(svc.Provider())), slog.String("error", err.Error()))
			h.failureRedirect(c, "login_failed")
		}
		return
	}

	if err := h.auth.establishSession(c, user.UserID); err != nil {
		logger.Error("Failed to establish session after OAuth login", slog.String("error", err.Error()))
		h.failureRedirect(c, "session_failed")
		return
	}

	base := strings.TrimRight(h.cfg.FrontendBaseURL, "/")
	if created {
		c.Redirect(http.StatusFound, base+"/onboarding")
		return
	}
	c.Redirect(http.StatusFound, base+"/")
}
