package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
	"github.com/echoverse/echoverse_backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// oauthStateBytes is the entropy of the CSRF state string (16 bytes -> 32 char hex).
const oauthStateBytes = 16

// --- Google ---

// googleOAuthService implements OAuthProviderSvc for Google. The profile is
// taken from the validated ID token when Google returns one, with the v2
// userinfo endpoint as fallback.
type googleOAuthService struct {
	clientID     string
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates the Google flow service from configuration.
func NewGoogleOAuthService(cfg *config.Config) portssvc.OAuthProviderSvc {
	return &googleOAuthService{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *googleOAuthService) Provider() domain.Provider {
	return domain.ProviderGoogle
}

func (s *googleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(oauthStateBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

func (s *googleOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

func (s *googleOAuthService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

func (s *googleOAuthService) FetchProfile(ctx context.Context, token *oauth2.Token) (*domain.OAuthProfile, error) {
	profile := &domain.OAuthProfile{
		Provider:     domain.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		profile.TokenExpiry = &expiry
	}

	if idTokenString, ok := token.Extra("id_token").(string); ok && idTokenString != "" {
		payload, err := s.validateIDToken(ctx, idTokenString)
		if err != nil {
			return nil, err
		}
		profile.IDToken = idTokenString
		profile.ProviderAccountID = payload.Subject
		profile.Email, _ = payload.Claims["email"].(string)
		profile.EmailVerified, _ = payload.Claims["email_verified"].(bool)
		profile.DisplayName, _ = payload.Claims["name"].(string)
		profile.FirstName, _ = payload.Claims["given_name"].(string)
		profile.LastName, _ = payload.Claims["family_name"].(string)
		profile.AvatarURL, _ = payload.Claims["picture"].(string)
		return profile, nil
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	profile.ProviderAccountID = info.ID
	profile.Email = info.Email
	profile.EmailVerified = info.VerifiedEmail
	profile.DisplayName = info.Name
	profile.FirstName = info.GivenName
	profile.LastName = info.FamilyName
	profile.AvatarURL = info.Picture
	return profile, nil
}

func (s *googleOAuthService) validateIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}
	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}

// googleUserInfo mirrors the v2 userinfo payload.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (s *googleOAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info from google: %w", err)
	}
	return &info, nil
}

// --- GitHub ---

// githubOAuthService implements OAuthProviderSvc for GitHub. GitHub omits the
// email from /user when it is private, so a second call to /user/emails picks
// the primary verified address.
type githubOAuthService struct {
	oauth2Config *oauth2.Config
}

// NewGitHubOAuthService creates the GitHub flow service from configuration.
func NewGitHubOAuthService(cfg *config.Config) portssvc.OAuthProviderSvc {
	return &githubOAuthService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (s *githubOAuthService) Provider() domain.Provider {
	return domain.ProviderGitHub
}

func (s *githubOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(oauthStateBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

func (s *githubOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

func (s *githubOAuthService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// githubUser mirrors the fields of GET /user that we consume.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// githubEmail mirrors one entry of GET /user/emails.
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (s *githubOAuthService) FetchProfile(ctx context.Context, token *oauth2.Token) (*domain.OAuthProfile, error) {
	client := s.oauth2Config.Client(ctx, token)

	var user githubUser
	if err := getJSON(ctx, client, "https://api.github.com/user", &user); err != nil {
		return nil, fmt.Errorf("failed to get user from github: %w", err)
	}

	email := user.Email
	emailVerified := email != ""
	if email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, fmt.Errorf("failed to get user emails from github: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				emailVerified = true
				break
			}
		}
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}
	firstName, lastName := splitDisplayName(user.Name)

	profile := &domain.OAuthProfile{
		Provider:          domain.ProviderGitHub,
		ProviderAccountID: strconv.FormatInt(user.ID, 10),
		Email:             email,
		EmailVerified:     emailVerified,
		DisplayName:       displayName,
		FirstName:         firstName,
		LastName:          lastName,
		AvatarURL:         user.AvatarURL,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		profile.TokenExpiry = &expiry
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned non-200 status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// splitDisplayName derives first/last parts from a free-form name. Best
// effort; anything beyond the first space lands in the last name.
func splitDisplayName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	first, rest, found := strings.Cut(name, " ")
	if !found {
		return first, ""
	}
	return first, rest
}
