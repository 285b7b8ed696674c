package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/moim/internal/cache"
	"github.com/dropDatabas3/moim/internal/oauth"
	"github.com/dropDatabas3/moim/internal/observability/logger"
)

// StartDeps contains dependencies for the start service.
type StartDeps struct {
	Providers map[string]oauth.Provider
	States    cache.Cache
	StateTTL  time.Duration
}

type startService struct {
	deps StartDeps
}

// NewStartService creates a StartService.
func NewStartService(deps StartDeps) StartService {
	return &startService{deps: deps}
}

func stateKey(provider, state string) string {
	return "social:state:" + provider + ":" + state
}

func (s *startService) Start(ctx context.Context, provider string) (*StartResult, error) {
	p, ok := s.deps.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, provider)
	}

	state := uuid.NewString()
	s.deps.States.Set(stateKey(provider, state), []byte("1"), s.deps.StateTTL)

	logger.From(ctx).Debug("issued login state",
		logger.Layer("service"),
		logger.Component("social.start"),
		logger.Provider(provider),
	)
	return &StartResult{RedirectURL: p.AuthURL(state), State: state}, nil
}

func (s *startService) Consume(ctx context.Context, provider, state string) error {
	if _, ok := s.deps.Providers[provider]; !ok {
		return fmt.Errorf("%w: %s", ErrProviderUnknown, provider)
	}
	key := stateKey(provider, state)
	if _, ok := s.deps.States.Get(key); !ok {
		return ErrInvalidState
	}
	// One-time use: drop the nonce before reporting success.
	s.deps.States.Delete(key)
	return nil
}
