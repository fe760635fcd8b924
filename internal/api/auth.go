package api

import (
	"context"

	"github.com/ledgerline/tally/internal/model"
)

// loginRequest is the login endpoint payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signupRequest is the registration endpoint payload.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the shape of a successful login or signup response.
type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, model.User, error) {
	var resp authResponse
	err := c.Post(ctx, "/api/users/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", model.User{}, err
	}
	return resp.Token, resp.User, nil
}

// Signup registers a new account and returns its token and profile.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, model.User, error) {
	var resp authResponse
	err := c.Post(ctx, "/api/users", signupRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", model.User{}, err
	}
	return resp.Token, resp.User, nil
}
