// Package oauth holds the pieces shared by the provider gateways: the
// canonical claims triple, the provider contract consumed by the
// reconciliation flow, and the upstream error taxonomy.
//
// Gateways are stateless per call and make exactly one attempt; retry
// policy, if any, belongs to the caller.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each upstream round-trip.
const DefaultTimeout = 5 * time.Second

var (
	// ErrUpstreamRejected indicates the provider answered with a non-2xx
	// status. The provider's error body is preserved in the wrap for
	// diagnostics.
	ErrUpstreamRejected = errors.New("provider rejected request")

	// ErrMalformedResponse indicates the provider answered 2xx but the body
	// was absent, unparsable, or missing an expected field.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrUnavailable indicates a timeout or transport-level failure before
	// a response was received.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrSubjectMissing indicates the profile payload carried no stable
	// subject identifier.
	ErrSubjectMissing = errors.New("subject missing in profile")

	// ErrEmailMissing indicates the provider mandates an email and the
	// profile payload carried none.
	ErrEmailMissing = errors.New("email missing in profile")
)

// Claims is the canonical profile triple extracted from a provider payload.
// DisplayName may be empty; the caller assigns a fallback.
type Claims struct {
	Subject     string
	DisplayName string
	Email       string
}

// Provider is the gateway contract: authorization-code exchange plus profile
// fetch, normalized into Claims.
type Provider interface {
	// Name is the provider tag persisted on records it creates.
	Name() string

	// AuthURL builds the provider's authorization URL for the given state.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchClaims fetches the userinfo payload and extracts the canonical
	// triple. Fails with ErrSubjectMissing / ErrEmailMissing when mandated
	// fields are absent.
	FetchClaims(ctx context.Context, accessToken string) (*Claims, error)
}

// PostTokenForm performs the form-encoded authorization_code POST against a
// token endpoint and returns the access_token field of the JSON response.
func PostTokenForm(ctx context.Context, c *http.Client, endpoint string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: token http %d: %s", ErrUpstreamRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrMalformedResponse, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response", ErrMalformedResponse)
	}
	return tr.AccessToken, nil
}

// GetUserInfo performs the bearer-authorized GET against a userinfo endpoint
// and decodes the JSON payload into out.
func GetUserInfo(ctx context.Context, c *http.Client, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: userinfo http %d: %s", ErrUpstreamRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode userinfo: %v", ErrMalformedResponse, err)
	}
	return nil
}
