package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
)

// Provider runs the OAuth dance with an identity provider.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (user.GoogleProfile, error)
}

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds the provider from config. It returns nil when
// Google sign-in is not configured.
func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	if !cfg.Enabled() {
		return nil
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"openid",
				googleoauth.UserinfoEmailScope,
				googleoauth.UserinfoProfileScope,
			},
		},
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for the signed-in user's profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (user.GoogleProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return user.GoogleProfile{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return user.GoogleProfile{}, fmt.Errorf("failed to create oauth2 client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return user.GoogleProfile{}, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return user.GoogleProfile{}, ErrEmailNotVerified
	}

	return user.GoogleProfile{
		Subject:   info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}
