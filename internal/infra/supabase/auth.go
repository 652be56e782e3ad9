package supabase

import (
	"context"
	"net/http"
)

// AuthUser is the identity provider's view of an account.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Session is an issued access/refresh token pair.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	session := &Session{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, "", session); err != nil {
		return nil, err
	}
	return session, nil
}

// RefreshToken trades a refresh token for a new session.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	session := &Session{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body, "", session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes the session behind an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil)
}

// GetUser fetches the account behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	u := &AuthUser{}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, u); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyOTP confirms an emailed token (invite, recovery, magiclink) and
// returns the resulting session.
func (c *Client) VerifyOTP(ctx context.Context, email, token, otpType string) (*Session, error) {
	body := map[string]string{"email": email, "token": token, "type": otpType}
	session := &Session{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/verify", body, "", session); err != nil {
		return nil, err
	}
	return session, nil
}

// InviteUserByEmail sends an invitation email. This is an admin endpoint
// and requires the service key.
func (c *Client) InviteUserByEmail(ctx context.Context, email string) (*AuthUser, error) {
	body := map[string]string{"email": email}
	u := &AuthUser{}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/invite", body, c.serviceKey, u); err != nil {
		return nil, err
	}
	return u, nil
}
