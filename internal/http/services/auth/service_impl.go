package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/moim/internal/domain/repository"
	jwtx "github.com/dropDatabas3/moim/internal/jwt"
	"github.com/dropDatabas3/moim/internal/observability/logger"
	"github.com/dropDatabas3/moim/internal/security/password"
)

// Deps contains dependencies for the local auth service.
type Deps struct {
	Users    repository.UserRepository
	Buckets  repository.BucketRepository
	Messages repository.MessageRepository
	Hasher   *password.Hasher
	Issuer   *jwtx.Issuer
}

type service struct {
	deps Deps
}

// NewService creates a Service.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*repository.User, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"))

	handle := strings.TrimSpace(in.Handle)
	if handle == "" || in.Secret == "" {
		return nil, fmt.Errorf("%w: handle and secret are required", ErrInvalidInput)
	}

	// Fast path only. The insert below is what actually guarantees
	// uniqueness; two racing registrations both pass this check and the
	// store rejects the loser.
	taken, err := s.deps.Users.ExistsByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("check handle: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateHandle, handle)
	}

	hash, err := s.deps.Hasher.Hash(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	u := repository.User{
		StableID:     "local:" + uuid.NewString(),
		Handle:       handle,
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: hash,
		Provider:     repository.ProviderLocal,
	}
	created, err := s.deps.Users.Create(ctx, u)
	if err != nil {
		if repository.IsConflict(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandle, handle)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("account registered", logger.UserID(created.StableID), logger.Handle(created.Handle))
	return created, nil
}

func (s *service) Login(ctx context.Context, handle, secret string) (*LoginResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"))

	u, err := s.deps.Users.GetByHandle(ctx, handle)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, handle)
		}
		return nil, fmt.Errorf("lookup handle: %w", err)
	}

	if !s.deps.Hasher.Verify(secret, u.PasswordHash) {
		log.Warn("login rejected", logger.Handle(handle))
		return nil, ErrCredentialMismatch
	}

	token, exp, err := s.deps.Issuer.Issue(u.StableID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Info("local login succeeded", logger.UserID(u.StableID))
	return &LoginResult{Token: token, ExpiresAt: exp, User: *u}, nil
}

func (s *service) GetUser(ctx context.Context, stableID string) (*repository.User, error) {
	u, err := s.deps.Users.GetByStableID(ctx, stableID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *service) HandleAvailable(ctx context.Context, handle string) (bool, error) {
	taken, err := s.deps.Users.ExistsByHandle(ctx, handle)
	if err != nil {
		return false, fmt.Errorf("check handle: %w", err)
	}
	return !taken, nil
}

func (s *service) UpdateProfile(ctx context.Context, stableID, requester string, patch ProfilePatch) (*repository.User, error) {
	if requester != stableID {
		return nil, ErrUnauthorized
	}

	input := repository.UpdateUserInput{
		DisplayName: patch.DisplayName,
		Email:       patch.Email,
	}
	if patch.Secret != nil {
		hash, err := s.deps.Hasher.Hash(*patch.Secret)
		if err != nil {
			return nil, fmt.Errorf("hash secret: %w", err)
		}
		input.PasswordHash = &hash
	}

	updated, err := s.deps.Users.Update(ctx, stableID, input)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *service) UpdateHandle(ctx context.Context, stableID, requester, handle string) (*repository.User, error) {
	if requester != stableID {
		return nil, ErrUnauthorized
	}
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: handle is required", ErrInvalidInput)
	}

	updated, err := s.deps.Users.Update(ctx, stableID, repository.UpdateUserInput{Handle: &handle})
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrRecordNotFound
		case repository.IsConflict(err):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandle, handle)
		default:
			return nil, fmt.Errorf("update handle: %w", err)
		}
	}
	return updated, nil
}

func (s *service) DeleteAccount(ctx context.Context, stableID, requester string) (*repository.User, error) {
	if requester != stableID {
		return nil, ErrUnauthorized
	}
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"))

	u, err := s.deps.Users.GetByStableID(ctx, stableID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Owned records go first so a crash mid-cascade leaves the account
	// intact and the delete retryable.
	buckets, err := s.deps.Buckets.DeleteByOwner(ctx, stableID)
	if err != nil {
		return nil, fmt.Errorf("cascade buckets: %w", err)
	}
	sent, err := s.deps.Messages.DeleteBySender(ctx, stableID)
	if err != nil {
		return nil, fmt.Errorf("cascade sent messages: %w", err)
	}
	received, err := s.deps.Messages.DeleteByReceiver(ctx, stableID)
	if err != nil {
		return nil, fmt.Errorf("cascade received messages: %w", err)
	}

	if err := s.deps.Users.Delete(ctx, stableID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}

	log.Info("account deleted",
		logger.UserID(stableID),
		logger.Int("buckets", buckets),
		logger.Int("messages_sent", sent),
		logger.Int("messages_received", received),
	)
	return u, nil
}
