package handlers

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// ServeHTTP clears the session cookie. Tokens are stateless, so a copied
// token stays valid until it expires.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	cookies.ClearAuthCookie(w)
	logger.Info("Session cookie cleared")
	response.Success(w, http.StatusOK, LogoutResponse{LoggedOut: true})
}
