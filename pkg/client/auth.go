package client

import (
	"context"
	"net/http"

	"github.com/mesh-intelligence/mealtracker/pkg/types"
)

// Signup registers a user. The client must carry the API secret.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", types.Credentials{Email: email, Password: password}, nil)
}

// Login exchanges credentials for a session token. The client must carry the
// API secret.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out types.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", types.Credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// WhoAmI returns the email of the session token's owner.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	var out types.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
