package backend

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/session"
)

var (
	_ session.ProfileFetcher = (*Client)(nil)
	_ account.Backend        = (*Client)(nil)
)

// FetchProfile returns the profile of the admin owning the session cookie.
func (c *Client) FetchProfile(ctx context.Context) (session.Profile, error) {
	resp, err := c.do(ctx, request{method: rest.Get, path: "/profile"})
	if err != nil {
		return session.Profile{}, err
	}
	var prof session.Profile
	if err := decode(resp, &prof); err != nil {
		return session.Profile{}, errors.Wrap(err, "GET /profile")
	}
	if prof.ID == "" {
		return session.Profile{}, errors.New("GET /profile: empty profile")
	}
	return prof, nil
}

func (c *Client) Login(ctx context.Context, req account.SignIn) error {
	_, err := c.do(ctx, request{method: rest.Post, path: "/login", body: JSON(req)})
	return err
}

func (c *Client) Register(ctx context.Context, req account.SignUp) error {
	_, err := c.do(ctx, request{method: rest.Post, path: "/register", body: JSON(req)})
	return err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{method: rest.Post, path: "/logout"})
	return err
}

func (c *Client) postText(ctx context.Context, path string, v interface{}) (string, error) {
	resp, err := c.do(ctx, request{method: rest.Post, path: path, body: JSON(v)})
	if err != nil {
		return "", err
	}
	return text(resp), nil
}

func (c *Client) ForgotPasswordOTP(ctx context.Context, req account.ForgotPassword) (string, error) {
	return c.postText(ctx, "/forgot-password-otp", req)
}

func (c *Client) ResetPassword(ctx context.Context, req account.ResetPassword) (string, error) {
	return c.postText(ctx, "/reset-password", req)
}

func (c *Client) VerifyEmail(ctx context.Context, req account.VerifyEmail) (string, error) {
	return c.postText(ctx, "/verify-email", req)
}

func (c *Client) SendVerifyOTP(ctx context.Context, req account.ResendOTP) (string, error) {
	return c.postText(ctx, "/verify-email-otp", req)
}
