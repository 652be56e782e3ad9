package app

import (
	"context"
	"fmt"
	"strings"

	"restaurant_backoffice/internal/domain/user"
	idb "restaurant_backoffice/internal/infra/database"
	"restaurant_backoffice/internal/infra/supabase"

	"github.com/sirupsen/logrus"
)

var ErrAccountDisabled = fmt.Errorf("this account has been disabled")

// AuthProvider is the slice of the identity provider the auth service
// needs. The Supabase client satisfies it.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	VerifyOTP(ctx context.Context, email, token, otpType string) (*supabase.Session, error)
}

// AuthService fronts the identity provider and keeps the local profile
// table in step with it.
type AuthService struct {
	provider AuthProvider
	users    user.Repository
	log      *logrus.Logger
}

func NewAuthService(provider AuthProvider, users user.Repository, log *logrus.Logger) *AuthService {
	return &AuthService{provider: provider, users: users, log: log}
}

// Login exchanges credentials for a session and makes sure a profile row
// exists for the account. Disabled profiles can not log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*supabase.Session, *user.User, error) {
	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.ensureProfile(ctx, session.User.ID, session.User.Email)
	if err != nil {
		return nil, nil, err
	}
	if !profile.Active {
		// Best effort: the provider session is already issued, revoke it.
		if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
			s.log.WithError(err).Warn("Failed to revoke session of disabled account")
		}
		return nil, nil, ErrAccountDisabled
	}
	return session, profile, nil
}

// Refresh trades a refresh token for a fresh session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error) {
	return s.provider.RefreshToken(ctx, refreshToken)
}

// Logout revokes the session behind the given access token.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.provider.SignOut(ctx, accessToken)
}

// VerifyInvite confirms an invitation or recovery token and returns the
// resulting session, creating the profile row on first use.
func (s *AuthService) VerifyInvite(ctx context.Context, email, token, otpType string) (*supabase.Session, error) {
	session, err := s.provider.VerifyOTP(ctx, email, token, otpType)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureProfile(ctx, session.User.ID, session.User.Email); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AuthService) ensureProfile(ctx context.Context, id, email string) (*user.User, error) {
	profile, err := s.users.GetByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if err != idb.ErrUserNotFound {
		return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
	}

	profile = &user.User{
		ID:     id,
		Email:  email,
		Name:   strings.Split(email, "@")[0],
		Role:   user.RoleUser,
		Active: true,
	}
	if err := s.users.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile for %s: %w", email, err)
	}
	s.log.WithField("email", email).Info("Created profile on first login")
	return profile, nil
}
