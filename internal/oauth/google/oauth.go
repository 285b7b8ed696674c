// Package google implements the Google sign-in gateway over the plain OAuth
// 2.0 code flow: the code is exchanged at the token endpoint, then the
// OpenID userinfo endpoint supplies a flat {sub, name, email} profile.
package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dropDatabas3/moim/internal/oauth"
)

const (
	defaultAuthEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenEndpoint    = "https://oauth2.googleapis.com/token"
	defaultUserInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// OAuth is the Google gateway. Endpoint fields default to production URLs
// and are overridable for tests.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthEndpoint     string
	TokenEndpoint    string
	UserInfoEndpoint string

	http *http.Client
}

// New creates a Google gateway with the default endpoints and timeout.
func New(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		RedirectURL:      redirectURL,
		AuthEndpoint:     defaultAuthEndpoint,
		TokenEndpoint:    defaultTokenEndpoint,
		UserInfoEndpoint: defaultUserInfoEndpoint,
		http:             &http.Client{Timeout: oauth.DefaultTimeout},
	}
}

// Name implements oauth.Provider.
func (g *OAuth) Name() string { return "google" }

// AuthURL builds the Google authorization URL with email+profile scope.
func (g *OAuth) AuthURL(state string) string {
	u, _ := url.Parse(g.AuthEndpoint)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", g.ClientID)
	q.Set("redirect_uri", g.RedirectURL)
	q.Set("scope", "email profile")
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String()
}

// ExchangeCode exchanges an authorization code for an access token.
func (g *OAuth) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("redirect_uri", g.RedirectURL)
	form.Set("code", code)
	return oauth.PostTokenForm(ctx, g.http, g.TokenEndpoint, form)
}

// Profile is the subset of the OpenID userinfo payload this service reads.
type Profile struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FetchProfile fetches the raw typed profile.
func (g *OAuth) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var p Profile
	if err := oauth.GetUserInfo(ctx, g.http, g.UserInfoEndpoint, accessToken, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchClaims implements oauth.Provider. Google mandates sub and email; the
// display name is best-effort.
func (g *OAuth) FetchClaims(ctx context.Context, accessToken string) (*oauth.Claims, error) {
	p, err := g.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if p.Sub == "" {
		return nil, fmt.Errorf("%w: sub", oauth.ErrSubjectMissing)
	}
	if p.Email == "" {
		return nil, fmt.Errorf("%w: email", oauth.ErrEmailMissing)
	}
	return &oauth.Claims{
		Subject:     p.Sub,
		DisplayName: p.Name,
		Email:       p.Email,
	}, nil
}

// SetTimeout adjusts the per-call timeout (tests use a short one).
func (g *OAuth) SetTimeout(d time.Duration) { g.http.Timeout = d }
