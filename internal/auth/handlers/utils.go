package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"galaxy-server/internal/shared/config"
)

// resolveRedirectURI accepts a client-supplied redirect only when it points
// at the configured frontend; anything else falls back to the frontend root.
func resolveRedirectURI(requested string) string {
	frontend := strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	if requested == "" {
		return frontend
	}

	want, err := url.Parse(frontend)
	if err != nil {
		return frontend
	}
	got, err := url.Parse(requested)
	if err != nil || got.Scheme != want.Scheme || got.Host != want.Host {
		return frontend
	}
	return strings.TrimRight(requested, "/")
}

// redirectWithError sends the browser back to the frontend with an error code.
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	}
	query := url.Values{"error": {errorType}}
	http.Redirect(w, r, redirectURI+"/auth/error?"+query.Encode(), http.StatusTemporaryRedirect)
}
