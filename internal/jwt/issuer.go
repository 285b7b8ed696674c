// Package jwt is the token-issuer capability: stateless, EdDSA-signed bearer
// tokens that encode the subject's stable id and an expiry. There is no
// server-side session and no revocation list; a token is valid iff its
// signature verifies and it has not expired.
package jwt

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates the token failed signature or structural
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token's expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer indicates the iss claim does not match this service.
	ErrInvalidIssuer = errors.New("invalid issuer")
)

// Issuer signs and verifies bearer tokens with a single static ed25519 key.
type Issuer struct {
	Iss       string        // "iss" claim
	AccessTTL time.Duration // token lifetime

	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer builds an Issuer from a base64-encoded 32-byte ed25519 seed.
func NewIssuer(iss, seedB64 string, ttl time.Duration) (*Issuer, error) {
	seed, err := base64.StdEncoding.DecodeString(seedB64)
	if err != nil {
		return nil, fmt.Errorf("jwt: decode seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("jwt: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Issuer{
		Iss:       iss,
		AccessTTL: ttl,
		priv:      priv,
		pub:       priv.Public().(ed25519.PublicKey),
	}, nil
}

// Issue mints a bearer token for the subject's stable id.
func (i *Issuer) Issue(sub string) (string, time.Time, error) {
	if sub == "" {
		return "", time.Time{}, fmt.Errorf("jwt: empty subject")
	}
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": sub,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates signature, issuer, and exp/nbf (30s leeway) and returns
// the subject's stable id.
func (i *Issuer) Verify(token string) (string, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) { return i.pub, nil }

	tok, err := jwtv5.Parse(token, keyfunc,
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrInvalidToken
	}
	if i.Iss != "" {
		if iss, _ := claims["iss"].(string); iss != i.Iss {
			return "", ErrInvalidIssuer
		}
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
