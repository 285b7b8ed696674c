package social

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/moim/internal/domain/repository"
	jwtx "github.com/dropDatabas3/moim/internal/jwt"
	"github.com/dropDatabas3/moim/internal/namegen"
	"github.com/dropDatabas3/moim/internal/oauth"
	"github.com/dropDatabas3/moim/internal/observability/logger"
	"github.com/dropDatabas3/moim/internal/security/password"
)

// handleAttempts bounds how many generated handles we try before giving up
// on a storage-layer collision.
const handleAttempts = 5

// placeholderSecrets are the fixed per-provider secrets whose hash fills the
// password slot of federated-only accounts.
var placeholderSecrets = map[string]string{
	"kakao":  "oauth2user",
	"google": "OAuth2_User_Password",
}

// LoginDeps contains dependencies for the login service.
type LoginDeps struct {
	Providers map[string]oauth.Provider
	Users     repository.UserRepository
	Hasher    *password.Hasher
	Issuer    *jwtx.Issuer
	Names     *namegen.Generator
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService creates a LoginService.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, provider, code string) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.login"),
		logger.Provider(provider),
	)

	p, ok := s.deps.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, provider)
	}

	// Phase 1: code -> access token. Gateway failures propagate unchanged
	// apart from flow context; no retry here.
	accessToken, err := p.ExchangeCode(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return nil, fmt.Errorf("%s: exchange code: %w", provider, err)
	}

	// Phase 2: access token -> canonical claims.
	claims, err := p.FetchClaims(ctx, accessToken)
	if err != nil {
		log.Warn("profile fetch failed", logger.Err(err))
		return nil, fmt.Errorf("%s: fetch profile: %w", provider, err)
	}

	// Namespace the subject so ids can never collide across providers.
	stableID := provider + ":" + claims.Subject

	displayName := claims.DisplayName
	if displayName == "" {
		displayName = s.deps.Names.Name()
	}

	user, err := s.reconcile(ctx, p.Name(), stableID, displayName, claims.Email)
	if err != nil {
		log.Error("reconciliation failed", logger.Err(err))
		return nil, err
	}

	token, exp, err := s.deps.Issuer.Issue(user.StableID)
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		return nil, fmt.Errorf("%s: issue token: %w", provider, err)
	}

	log.Info("federated login succeeded", logger.UserID(user.StableID))
	return &LoginResult{Token: token, ExpiresAt: exp, User: *user}, nil
}

// reconcile maps the canonical triple onto a persisted record: insert on
// first login, refresh display name and email on returning logins. The
// chosen handle is never overwritten; only an empty handle is back-filled.
func (s *loginService) reconcile(ctx context.Context, provider, stableID, displayName, email string) (*repository.User, error) {
	existing, err := s.deps.Users.GetByStableID(ctx, stableID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, displayName, email)
	case repository.IsNotFound(err):
		return s.provision(ctx, provider, stableID, displayName, email)
	default:
		return nil, fmt.Errorf("%s: lookup user: %w", provider, err)
	}
}

func (s *loginService) provision(ctx context.Context, provider, stableID, displayName, email string) (*repository.User, error) {
	hash, err := s.deps.Hasher.Hash(placeholderSecrets[provider])
	if err != nil {
		return nil, fmt.Errorf("%s: placeholder hash: %w", provider, err)
	}

	u := repository.User{
		StableID:     stableID,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
		Provider:     repository.Provider(provider),
	}

	// The generated handle can collide with an existing one; the store is
	// the authority, so retry with fresh names on conflict.
	for i := 0; i < handleAttempts; i++ {
		u.Handle = s.deps.Names.Name()
		created, err := s.deps.Users.Create(ctx, u)
		if err == nil {
			return created, nil
		}
		if !repository.IsConflict(err) {
			return nil, fmt.Errorf("%s: create user: %w", provider, err)
		}
		// A stable-id conflict means a concurrent first login won; treat
		// this attempt as a returning login.
		if existing, gerr := s.deps.Users.GetByStableID(ctx, stableID); gerr == nil {
			return s.refresh(ctx, existing, displayName, email)
		}
	}
	return nil, fmt.Errorf("%s: %w", provider, ErrHandleExhausted)
}

func (s *loginService) refresh(ctx context.Context, existing *repository.User, displayName, email string) (*repository.User, error) {
	patch := repository.UpdateUserInput{
		DisplayName: &displayName,
		Email:       &email,
	}
	if existing.Handle != "" {
		updated, err := s.deps.Users.Update(ctx, existing.StableID, patch)
		if err != nil {
			return nil, fmt.Errorf("refresh user: %w", err)
		}
		return updated, nil
	}

	// Back-fill a missing handle, retrying on collisions.
	for i := 0; i < handleAttempts; i++ {
		h := s.deps.Names.Name()
		patch.Handle = &h
		updated, err := s.deps.Users.Update(ctx, existing.StableID, patch)
		if err == nil {
			return updated, nil
		}
		if !repository.IsConflict(err) {
			return nil, fmt.Errorf("refresh user: %w", err)
		}
	}
	return nil, ErrHandleExhausted
}
