package client

import (
	"context"
	"fmt"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// ValidateSession asks the backend who the session cookie belongs to. The
// backend answers 200 with success=false when there is no valid session.
func (c *Client) ValidateSession(ctx context.Context) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.get(ctx, "/auth/validate-session", &resp); err != nil {
		return nil, fmt.Errorf("client.ValidateSession: %w", err)
	}
	return &resp, nil
}

// Login authenticates against the role's login endpoint. On success the
// backend sets the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/"+role.LoginSegment(), creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Register creates a patient account. It does not sign the patient in.
func (c *Client) Register(ctx context.Context, profile domain.PatientProfile) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/register", profile, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}
