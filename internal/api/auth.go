// Authentication endpoints.
//
// The backend issues JWT pairs from /auth/jwt/create/; all other auth
// endpoints are djoser-style user management routes.
package api

import (
	"context"
	"net/http"

	"github.com/tapelist/tlx/internal/models"
)

// Login exchanges credentials for a token pair.
// The login field accepts either an email address or a username.
func (c *Client) Login(ctx context.Context, login, password string) (*models.TokenPair, error) {
	payload := map[string]string{"login": login, "password": password}

	var tokens models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/jwt/create/", payload, &tokens); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// Register creates a new account. When input carries a profile picture
// path the request is sent as multipart form data.
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	var user models.User

	if input.ProfilePicture != "" {
		fields := map[string]string{
			"username":    input.Username,
			"email":       input.Email,
			"first_name":  input.FirstName,
			"last_name":   input.LastName,
			"password":    input.Password,
			"re_password": input.RePassword,
		}
		if err := c.doMultipart(ctx, http.MethodPost, "/auth/users/", fields, "profile_picture", input.ProfilePicture, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}

	if err := c.do(ctx, http.MethodPost, "/auth/users/", input, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Activate confirms an account with the uid/token pair from the
// activation email.
func (c *Client) Activate(ctx context.Context, uid, token string) error {
	payload := map[string]string{"uid": uid, "token": token}
	return c.do(ctx, http.MethodPost, "/auth/users/activation/", payload, nil)
}

// ResetPassword requests a password reset email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/users/reset_password/", payload, nil)
}

// ConfirmResetPassword completes a password reset with the uid/token pair
// from the reset email.
func (c *Client) ConfirmResetPassword(ctx context.Context, uid, token, newPassword string) error {
	payload := map[string]string{
		"uid":             uid,
		"token":           token,
		"new_password":    newPassword,
		"re_new_password": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/auth/users/reset_password_confirm/", payload, nil)
}

// UpdateProfile patches the authenticated user's profile. When input
// carries a profile picture path the request is sent as multipart form
// data.
func (c *Client) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.User, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var user models.User

	if input.ProfilePicture != "" {
		fields := map[string]string{
			"email":      input.Email,
			"first_name": input.FirstName,
			"last_name":  input.LastName,
		}
		if err := c.doMultipart(ctx, http.MethodPatch, "/auth/users/me/", fields, "profile_picture", input.ProfilePicture, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}

	if err := c.do(ctx, http.MethodPatch, "/auth/users/me/", input, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/users/me/", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
