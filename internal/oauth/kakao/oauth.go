// Package kakao implements the Kakao Login gateway. Kakao uses plain OAuth
// 2.0 (no ID token): the authorization code is exchanged at kauth, then the
// profile is fetched from the kapi userinfo endpoint.
package kakao

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dropDatabas3/moim/internal/oauth"
)

const (
	defaultAuthEndpoint     = "https://kauth.kakao.com/oauth/authorize"
	defaultTokenEndpoint    = "https://kauth.kakao.com/oauth/token"
	defaultUserInfoEndpoint = "https://kapi.kakao.com/v2/user/me"
)

// OAuth is the Kakao gateway. Endpoint fields default to production URLs and
// are overridable for tests.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthEndpoint     string
	TokenEndpoint    string
	UserInfoEndpoint string

	http *http.Client
}

// New creates a Kakao gateway with the default endpoints and timeout.
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
func (k *OAuth) Name() string { return "kakao" }

// AuthURL builds the kauth authorization URL.
func (k *OAuth) AuthURL(state string) string {
	u, _ := url.Parse(k.AuthEndpoint)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", k.ClientID)
	q.Set("redirect_uri", k.RedirectURL)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String()
}

// ExchangeCode exchanges an authorization code for an access token.
func (k *OAuth) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", k.ClientID)
	form.Set("client_secret", k.ClientSecret)
	form.Set("redirect_uri", k.RedirectURL)
	form.Set("code", code)
	return oauth.PostTokenForm(ctx, k.http, k.TokenEndpoint, form)
}

// Profile is the subset of the kapi userinfo payload this service reads.
// Decoding is strict-by-shape: a missing field stays at its zero value and
// is rejected during extraction, never cast at runtime.
type Profile struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
	KakaoAccount struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
}

// FetchProfile fetches the raw typed profile.
func (k *OAuth) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var p Profile
	if err := oauth.GetUserInfo(ctx, k.http, k.UserInfoEndpoint, accessToken, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchClaims implements oauth.Provider. Kakao mandates an email under
// kakao_account; the nickname under properties is optional.
func (k *OAuth) FetchClaims(ctx context.Context, accessToken string) (*oauth.Claims, error) {
	p, err := k.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, fmt.Errorf("%w: kakao id", oauth.ErrSubjectMissing)
	}
	if p.KakaoAccount.Email == "" {
		return nil, fmt.Errorf("%w: kakao_account.email", oauth.ErrEmailMissing)
	}
	return &oauth.Claims{
		Subject:     strconv.FormatInt(p.ID, 10),
		DisplayName: p.Properties.Nickname,
		Email:       p.KakaoAccount.Email,
	}, nil
}

// SetTimeout adjusts the per-call timeout (tests use a short one).
func (k *OAuth) SetTimeout(d time.Duration) { k.http.Timeout = d }
