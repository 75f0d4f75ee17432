package auth

import (
	"log/slog"

	"galaxy-server/internal/auth/providers"
	"galaxy-server/internal/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type OAuthConfig struct {
	GitHubProvider   *providers.GitHubProvider
	GitHubConfigured bool
}

func InitOAuth() *OAuthConfig {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")
	logger.Debug("Initializing OAuth configuration")

	githubConfig := &oauth2.Config{
		ClientID:     cfg.OAuth.GitHub.ClientID,
		ClientSecret: cfg.OAuth.GitHub.ClientSecret,
		RedirectURL:  cfg.OAuth.GitHub.RedirectURL,
		Scopes:       cfg.OAuth.GitHub.Scopes,
		Endpoint:     github.Endpoint,
	}

	githubConfigured := cfg.GitHubOAuthConfigured()

	logger.Info("OAuth configuration completed",
		"server_url", cfg.Server.URL,
		"github_configured", githubConfigured,
		"github_redirect", githubConfig.RedirectURL,
		"admin_emails", len(cfg.Admin.Emails),
	)

	if !githubConfigured {
		logger.Warn("GitHub OAuth not configured - preset curation will be unavailable")
	}

	return &OAuthConfig{
		GitHubProvider:   providers.NewGitHubProvider(githubConfig),
		GitHubConfigured: githubConfigured,
	}
}
