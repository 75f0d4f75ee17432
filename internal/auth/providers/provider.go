package providers

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthUser is the identity a provider vouches for. Only EmailVerified
// addresses are used to derive roles.
type OAuthUser struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	AvatarURL     string
}

type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}

var _ OAuthProvider = (*GitHubProvider)(nil)
