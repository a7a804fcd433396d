// ABOUTME: Authentication endpoints: login, registration, profile and password reset
// ABOUTME: Token persistence is the session holder's job, not this service's

package client

import "context"

// AuthService handles /auth/ endpoints
type AuthService service

// Tokens is the login response
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// RegisterInput is the payload for a new account
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserUpdate carries the editable account fields
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// MessageResponse is the {"message": "..."} shape used by action endpoints
type MessageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Text returns whichever of message or detail is set
func (m *MessageResponse) Text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Detail
}

// Login calls POST /auth/login/
func (s *AuthService) Login(ctx context.Context, username, password string) (*Tokens, error) {
	var t Tokens
	body := map[string]string{"username": username, "password": password}
	if err := s.c.post(ctx, "/auth/login/", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Register calls POST /auth/register/
func (s *AuthService) Register(ctx context.Context, in *RegisterInput) (*User, error) {
	var u User
	if err := s.c.post(ctx, "/auth/register/", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentUser calls GET /auth/user/
func (s *AuthService) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := s.c.get(ctx, "/auth/user/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser calls PATCH /auth/user/
func (s *AuthService) UpdateUser(ctx context.Context, in *UserUpdate) (*User, error) {
	var u User
	if err := s.c.patch(ctx, "/auth/user/", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RequestPasswordReset calls POST /auth/password-reset/request/
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*MessageResponse, error) {
	var m MessageResponse
	if err := s.c.post(ctx, "/auth/password-reset/request/", map[string]string{"email": email}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// VerifyPasswordReset calls POST /auth/password-reset/verify/
func (s *AuthService) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) (*MessageResponse, error) {
	var m MessageResponse
	body := map[string]string{
		"email":             email,
		"verification_code": code,
		"new_password":      newPassword,
	}
	if err := s.c.post(ctx, "/auth/password-reset/verify/", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
