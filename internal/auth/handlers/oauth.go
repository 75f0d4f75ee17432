package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/auth/providers"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

const providerTimeout = 30 * time.Second

// loginFailure is reported to the frontend as ?error=<kind>.
type loginFailure struct {
	kind string
	err  error
}

func (f *loginFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.kind, f.err)
}

func fail(kind string, err error) *loginFailure {
	return &loginFailure{kind: kind, err: err}
}

// OAuthHandler drives the login flow for one provider.
type OAuthHandler struct {
	provider     providers.OAuthProvider
	isConfigured bool
}

func NewOAuthHandler(provider providers.OAuthProvider, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		isConfigured: isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", "oauth_start", "provider", name)

	if !h.isConfigured {
		response.Error(w, r, logger, errors.External(name+" login is not configured"))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))
	state, err := auth.GenerateOAuthState(name, r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to start login", err))
		return
	}

	logger.Debug("Redirecting to provider", "redirect_uri", redirectURI)
	http.Redirect(w, r, h.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback checks the state before anything else the provider sent.
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	query := r.URL.Query()
	logger := slog.With("handler", "oauth_callback", "provider", name, "remote_addr", r.RemoteAddr)

	entry, err := auth.ValidateOAuthState(query.Get("state"), name, r.UserAgent())
	if err != nil {
		logger.Warn("Rejected OAuth callback", "error", err)
		redirectWithError(w, r, "", "invalid_state")
		return
	}

	user, err := h.authenticate(r.Context(), query.Get("code"), query.Get("error"))
	if err != nil {
		f, _ := err.(*loginFailure)
		logger.Warn("OAuth login failed", "kind", f.kind, "error", f.err,
			"error_description", query.Get("error_description"))
		redirectWithError(w, r, entry.RedirectURI, f.kind)
		return
	}

	role := auth.RoleFor(user.Email)
	token, err := auth.GenerateJWT(name+":"+user.ID, user.Name, user.Email, role)
	if err != nil {
		logger.Error("Failed to sign session token", "error", err)
		redirectWithError(w, r, entry.RedirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, token)
	logger.Info("User signed in", "email", user.Email, "role", role)
	http.Redirect(w, r, entry.RedirectURI+"/auth/callback?success=true", http.StatusTemporaryRedirect)
}

// authenticate turns the callback parameters into a user with a verified
// email. Every error it returns is a *loginFailure.
func (h *OAuthHandler) authenticate(ctx context.Context, code, providerError string) (*providers.OAuthUser, error) {
	if providerError != "" {
		return nil, fail("oauth_denied", fmt.Errorf("provider returned %q", providerError))
	}
	if code == "" {
		return nil, fail("oauth_error", fmt.Errorf("missing authorization code"))
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fail("oauth_error", err)
	}
	user, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fail("oauth_error", err)
	}
	if user.Email == "" || !user.EmailVerified {
		return nil, fail("email_unverified", fmt.Errorf("account %s has no verified email", user.ID))
	}
	return user, nil
}
