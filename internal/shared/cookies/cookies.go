package cookies

import (
	"net/http"
	"net/url"
	"strings"

	"galaxy-server/internal/shared/config"
)

const AuthCookieName = "auth_token"

func SetAuthCookie(w http.ResponseWriter, token string) {
	cookie := authCookie(config.GlobalConfig)
	cookie.Value = token
	cookie.MaxAge = int(config.GlobalConfig.Auth.TokenExpiration.Seconds())
	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	cookie := authCookie(config.GlobalConfig)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func authCookie(cfg *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Path:     "/",
		Domain:   cookieDomain(cfg.Frontend.URL),
		HttpOnly: true,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
	}
}

// cookieDomain is empty for local hosts so browsers accept the cookie.
func cookieDomain(frontendURL string) string {
	parsed, err := url.Parse(frontendURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := parsed.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}
	return host
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
