package service

import (
	"context"
	"errors"
	"time"

	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/pkg/identity"
)

// LoginResponse carries the provider's token pair plus the resolved role
// so the client can gate its UI without a second round-trip
type LoginResponse struct {
	User         identity.User       `json:"user"`
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresIn    int                 `json:"expires_in"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

// AuthService fronts the external identity provider. Credentials never
// touch this service beyond pass-through; the provider owns them.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context, accessToken string, untilExpiry time.Duration) error
}

type authService struct {
	provider *identity.Client
	roles    RoleService
	denylist TokenDenylist
}

// NewAuthService creates a new AuthService. denylist may be nil when no
// redis is configured; sign-out then relies on the provider alone.
func NewAuthService(provider *identity.Client, roles RoleService, denylist TokenDenylist) AuthService {
	return &authService{provider: provider, roles: roles, denylist: denylist}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	tokens, user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	role := s.roles.Resolve(ctx, user.ID)

	return &LoginResponse{
		User:         *user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		Capabilities: role.Capabilities(),
	}, nil
}

// Logout revokes the provider session and denylists the local token for its
// remaining lifetime so it stops authenticating immediately
func (s *authService) Logout(ctx context.Context, accessToken string, untilExpiry time.Duration) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return err
	}
	if s.denylist != nil && untilExpiry > 0 {
		if err := s.denylist.Deny(ctx, accessToken, untilExpiry); err != nil {
			return err
		}
	}
	return nil
}
