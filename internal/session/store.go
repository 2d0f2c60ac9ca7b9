// Package session owns the client's single Session: who is signed in, with
// which role, and whether that is still being checked.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// Fallback messages when the backend does not explain a failure.
const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
	msgRegistered         = "Registration successful! You can now log in."
)

// API is the part of the backend client the store needs.
type API interface {
	ValidateSession(ctx context.Context) (*domain.AuthResponse, error)
	Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.AuthResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, profile domain.PatientProfile) (*domain.AuthResponse, error)
	SessionCookie() string
	SetSessionCookie(value string)
	ExpireSessionCookie()
}

// State is a point-in-time copy of the store.
type State struct {
	Loading bool
	Session domain.Session
}

// Authenticated reports a signed-in session.
func (s State) Authenticated() bool {
	return s.Session.Authenticated
}

// Error is a login or registration failure. Its text is exactly what the
// user should see.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Store is the single writer of the Session.
type Store struct {
	api     API
	cookies *CookieFile
	log     zerolog.Logger

	mu    sync.RWMutex
	state State
	// epoch counts sign-ins and sign-outs. A validation that started in an
	// earlier epoch must not overwrite the session.
	epoch uint64
}

// Option configures a Store.
type Option func(*Store)

// WithCookieFile persists the session cookie across runs.
func WithCookieFile(f *CookieFile) Option {
	return func(s *Store) { s.cookies = f }
}

// WithLogger sets the store's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns a store in the loading state. If a cookie file is
// configured, its saved cookie is handed to the API so the first Validate
// can pick the old session back up.
func NewStore(api API, opts ...Option) *Store {
	s := &Store{
		api:   api,
		log:   zerolog.Nop(),
		state: State{Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cookies != nil {
		value, err := s.cookies.Load()
		if err != nil {
			s.log.Warn().Err(err).Msg("read saved session")
		}
		api.SetSessionCookie(value)
	}
	return s
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// set replaces the state and starts a new epoch.
func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = st
	s.epoch++
	s.mu.Unlock()
}

// Validate asks the backend whether the session cookie is still good. Any
// failure leaves the store signed out; loading always ends. If a login or
// logout finished while the check was in flight, its answer is stale and
// only loading is cleared.
func (s *Store) Validate(ctx context.Context) State {
	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	resp, err := s.api.ValidateSession(ctx)
	sess, reason := sessionFrom(resp, err)

	s.mu.Lock()
	if s.epoch != epoch {
		s.state.Loading = false
		st := s.state
		s.mu.Unlock()
		s.log.Debug().Msg("session changed during validation; result dropped")
		return st
	}
	st := State{Session: sess}
	s.state = st
	s.mu.Unlock()

	if sess.Authenticated {
		s.log.Info().Str("username", sess.Username).Str("role", string(sess.Role)).Msg("session validated")
	} else {
		s.log.Debug().Err(err).Str("reason", reason).Msg("no valid session")
	}
	return st
}

// sessionFrom turns a validation response into a Session, or explains why
// it could not.
func sessionFrom(resp *domain.AuthResponse, err error) (domain.Session, string) {
	switch {
	case err != nil:
		return domain.Session{}, "request failed"
	case resp == nil || !resp.Success:
		return domain.Session{}, "not signed in"
	}
	role, perr := domain.ParseRole(resp.UserType)
	if perr != nil {
		return domain.Session{}, perr.Error()
	}
	return domain.Session{
		ID:            resp.UserID,
		Username:      resp.Username,
		Role:          role,
		Authenticated: true,
	}, ""
}

// Login signs in as role. On success the session is populated and the
// resolved role returned; on failure the session is left as it was and the
// error's text is the server's explanation.
func (s *Store) Login(ctx context.Context, role domain.Role, creds domain.Credentials) (domain.Role, error) {
	resp, err := s.api.Login(ctx, role, creds)
	if err != nil {
		s.log.Warn().Err(err).Str("username", creds.Username).Str("role", string(role)).Msg("login failed")
		return "", &Error{Op: "login", Message: failureMessage(err, msgLoginFailed), Err: err}
	}
	if !resp.Success {
		s.log.Warn().Str("username", creds.Username).Str("role", string(role)).Msg("login rejected")
		return "", &Error{Op: "login", Message: orDefault(resp.Message, msgLoginFailed)}
	}

	resolved, perr := domain.ParseRole(resp.UserType)
	if perr != nil {
		resolved = role
	}
	username := orDefault(resp.Username, creds.Username)
	s.set(State{Session: domain.Session{
		ID:            resp.UserID,
		Username:      username,
		Role:          resolved,
		Authenticated: true,
	}})

	if s.cookies != nil {
		if err := s.cookies.Save(s.api.SessionCookie()); err != nil {
			s.log.Warn().Err(err).Msg("save session cookie")
		}
	}
	s.log.Info().Str("username", username).Str("role", string(resolved)).Msg("logged in")
	return resolved, nil
}

// Logout ends the session. Local state, the cookie and the saved cookie
// file are cleared whether or not the backend call succeeds; the returned
// error only reports the backend call.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.api.ExpireSessionCookie()
	if s.cookies != nil {
		if rmErr := s.cookies.Remove(); rmErr != nil {
			s.log.Warn().Err(rmErr).Msg("remove session cookie")
		}
	}
	s.set(State{})

	if err != nil {
		s.log.Warn().Err(err).Msg("logout request failed; session cleared locally")
		return fmt.Errorf("session.Logout: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}

// Register creates a patient account and returns the server's confirmation.
// It never changes the session.
func (s *Store) Register(ctx context.Context, profile domain.PatientProfile) (string, error) {
	resp, err := s.api.Register(ctx, profile)
	if err != nil {
		s.log.Warn().Err(err).Str("username", profile.Username).Msg("registration failed")
		return "", &Error{Op: "register", Message: failureMessage(err, msgRegistrationFailed), Err: err}
	}
	if !resp.Success {
		return "", &Error{Op: "register", Message: orDefault(resp.Message, msgRegistrationFailed)}
	}
	s.log.Info().Str("username", profile.Username).Msg("registered")
	return orDefault(resp.Message, msgRegistered), nil
}

// failureMessage prefers the server's own message, then the fallback.
// Transport failures keep their error text.
func failureMessage(err error, fallback string) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return orDefault(httpErr.Message, fallback)
	}
	if client.IsMalformed(err) {
		return fallback
	}
	return err.Error()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
