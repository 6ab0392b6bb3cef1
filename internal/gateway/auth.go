package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// LoginRequest accepts either a username or an email as identifier.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// NewLoginRequest routes identifier to the email field when it looks like
// an address and to username otherwise.
func NewLoginRequest(identifier, password string) LoginRequest {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return LoginRequest{Email: strings.ToLower(identifier), Password: password}
	}
	return LoginRequest{Username: identifier, Password: password}
}

type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the answer of login and register.  Register may omit both
// fields when the backend does not log new accounts in.
type AuthResult struct {
	Token string          `json:"token"`
	User  *model.Identity `json:"user"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	var out AuthResult
	err := c.call(ctx, http.MethodPost, "/auth/login", "", req, "", &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	var out AuthResult
	err := c.call(ctx, http.MethodPost, "/auth/register", "", req, "", &out)
	return out, err
}

// Me returns the identity behind token.
func (c *Client) Me(ctx context.Context, token string) (model.Identity, error) {
	var out model.Identity
	err := c.call(ctx, http.MethodGet, "/auth/me", token, nil, "user", &out)
	return out, err
}

// ProfileUpdate is the body of PUT /member/profile.
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (model.Identity, error) {
	var out model.Identity
	err := c.call(ctx, http.MethodPut, "/member/profile", token, in, "user", &out)
	return out, err
}
