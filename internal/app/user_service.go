package app

import (
	"context"
	"fmt"
	"strings"

	"restaurant_backoffice/internal/domain/user"
	"restaurant_backoffice/internal/infra/supabase"

	"github.com/sirupsen/logrus"
)

var ErrLastAdmin = fmt.Errorf("the last active admin can not be demoted or disabled")

// Inviter is the slice of the identity provider used for inviting new
// back-office users by email.
type Inviter interface {
	InviteUserByEmail(ctx context.Context, email string) (*supabase.AuthUser, error)
}

// UserService handles back-office account administration.
type UserService struct {
	users   user.Repository
	inviter Inviter
	log     *logrus.Logger
}

func NewUserService(users user.Repository, inviter Inviter, log *logrus.Logger) *UserService {
	return &UserService{users: users, inviter: inviter, log: log}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.users.ListAll(ctx)
}

// Invite sends an invitation email through the identity provider and
// creates the matching profile row up front.
func (s *UserService) Invite(ctx context.Context, email string, role user.Role) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email must not be blank")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	invited, err := s.inviter.InviteUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to invite %s: %w", email, err)
	}

	profile := &user.User{
		ID:     invited.ID,
		Email:  email,
		Name:   strings.Split(email, "@")[0],
		Role:   role,
		Active: true,
	}
	if err := s.users.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile for invited user %s: %w", email, err)
	}

	s.log.WithFields(logrus.Fields{"email": email, "role": role}).Info("User invited")
	return profile, nil
}

// SetRole changes a user's role, refusing to demote the last active admin.
func (s *UserService) SetRole(ctx context.Context, id string, role user.Role) (*user.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == user.RoleAdmin && role != user.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to change role of %s: %w", id, err)
	}
	return u, nil
}

// SetActive enables or disables an account, refusing to disable the last
// active admin.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active && u.Role == user.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	u.Active = active
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to change active state of %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) ensureNotLastAdmin(ctx context.Context, exceptID string) error {
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range all {
		if u.ID != exceptID && u.Role == user.RoleAdmin && u.Active {
			return nil
		}
	}
	return ErrLastAdmin
}
