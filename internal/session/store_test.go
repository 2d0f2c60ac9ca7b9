package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

type account struct {
	id       int
	password string
	role     domain.Role
}

// fakeBackend mimics the auth endpoints: cookie "ROLE_username" marks a
// session, validate-session always answers 200.
type fakeBackend struct {
	mu          sync.Mutex
	accounts    map[string]account
	nextID      int
	failLogout  bool
	rejectValid bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{accounts: map[string]account{
		"drwho": {id: 3, password: "tardis", role: domain.RoleDoctor},
	}, nextID: 100}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/validate-session":
		ck, err := r.Cookie(client.SessionCookieName)
		if err != nil || b.rejectValid {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No valid session"})
			return
		}
		role, username, _ := strings.Cut(ck.Value, "_")
		acct, ok := b.accounts[username]
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "userType": role, "username": username, "userId": acct.id})

	case r.URL.Path == "/auth/logout":
		if b.failLogout {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logout successful"})

	case r.URL.Path == "/auth/register":
		var p domain.PatientProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Registration failed: bad body"})
			return
		}
		if _, taken := b.accounts[p.Username]; taken {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Registration failed: Username already exists"})
			return
		}
		b.nextID++
		b.accounts[p.Username] = account{id: b.nextID, password: p.Password, role: domain.RolePatient}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Registration successful! You can now log in."})

	case strings.HasPrefix(r.URL.Path, "/auth/"):
		role := domain.Role(strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/auth/")))
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck
		acct, ok := b.accounts[creds.Username]
		if !ok || acct.password != creds.Password || acct.role != role {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookieName, Value: string(role) + "_" + creds.Username, Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "userType": role, "username": creds.Username, "userId": acct.id})

	default:
		http.NotFound(w, r)
	}
}

func TestNewStoreStartsLoading(t *testing.T) {
	s := NewStore(client.New("http://127.0.0.1:1"))
	if !s.State().Loading {
		t.Error("new store should be loading")
	}
	if s.State().Authenticated() {
		t.Error("new store should not be authenticated")
	}
}

func TestLoginThenFailedValidateSignsOut(t *testing.T) {
	b, srv := newFakeBackend(t)
	s := NewStore(client.New(srv.URL))
	ctx := context.Background()

	role, err := s.Login(ctx, domain.RoleDoctor, domain.Credentials{Username: "drwho", Password: "tardis"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if role != domain.RoleDoctor {
		t.Errorf("role = %q, want DOCTOR", role)
	}
	st := s.State()
	if !st.Authenticated() || st.Session.Username != "drwho" || !st.Session.ID.Equal("3") {
		t.Fatalf("state after login = %+v", st)
	}

	b.mu.Lock()
	b.rejectValid = true
	b.mu.Unlock()

	st = s.Validate(ctx)
	if st.Authenticated() || st.Loading {
		t.Errorf("state after failed validate = %+v, want signed out and not loading", st)
	}
	if s.State().Session != (domain.Session{}) {
		t.Errorf("stale identity survived: %+v", s.State().Session)
	}
}

func TestLateValidateKeepsFreshLogin(t *testing.T) {
	b := &fakeBackend{accounts: map[string]account{
		"drwho": {id: 3, password: "tardis", role: domain.RoleDoctor},
	}}
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/validate-session" {
			close(started)
			<-release
		}
		b.ServeHTTP(w, r)
	}))
	defer srv.Close()

	s := NewStore(client.New(srv.URL))
	ctx := context.Background()

	done := make(chan State)
	go func() { done <- s.Validate(ctx) }()
	<-started

	if _, err := s.Login(ctx, domain.RoleDoctor, domain.Credentials{Username: "drwho", Password: "tardis"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	close(release)
	got := <-done

	if !got.Authenticated() || got.Loading {
		t.Errorf("Validate() = %+v, want the login's session and not loading", got)
	}
	if st := s.State(); !st.Authenticated() || st.Session.Username != "drwho" || st.Loading {
		t.Errorf("state = %+v, want drwho still signed in", st)
	}
}

func TestValidateTransportFailureSignsOut(t *testing.T) {
	s := NewStore(client.New("http://127.0.0.1:1"))
	st := s.Validate(context.Background())
	if st.Loading || st.Authenticated() {
		t.Errorf("state = %+v, want not loading, not authenticated", st)
	}
}

func TestValidateUnknownRoleSignsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "userType": "NURSE", "username": "x"})
	}))
	defer srv.Close()

	st := NewStore(client.New(srv.URL)).Validate(context.Background())
	if st.Authenticated() {
		t.Errorf("unknown role accepted: %+v", st)
	}
}

func TestDoctorLoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	s := NewStore(client.New(srv.URL))
	_, err := s.Login(context.Background(), domain.RoleDoctor, domain.Credentials{Username: "baduser", Password: "x"})
	if err == nil {
		t.Fatal("expected login error")
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("error = %q, want exactly %q", err.Error(), "Invalid credentials")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Op != "login" {
		t.Errorf("error type = %T, want *session.Error with Op login", err)
	}
	if s.State().Authenticated() {
		t.Error("session set after failed login")
	}
}

func TestLoginFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewStore(client.New(srv.URL)).Login(context.Background(), domain.RoleAdmin, domain.Credentials{Username: "a", Password: "b"})
	if err == nil || err.Error() != "Login failed" {
		t.Errorf("error = %v, want Login failed", err)
	}
}

func TestLogoutClearsEvenWhenRequestFails(t *testing.T) {
	b, srv := newFakeBackend(t)
	file := NewCookieFile(filepath.Join(t.TempDir(), "session"))
	c := client.New(srv.URL)
	s := NewStore(c, WithCookieFile(file))
	ctx := context.Background()

	if _, err := s.Login(ctx, domain.RoleDoctor, domain.Credentials{Username: "drwho", Password: "tardis"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !file.Exists() {
		t.Fatal("cookie file not written after login")
	}

	b.mu.Lock()
	b.failLogout = true
	b.mu.Unlock()

	if err := s.Logout(ctx); err == nil {
		t.Error("expected Logout to report the failed request")
	}
	if s.State().Authenticated() {
		t.Error("session survived logout")
	}
	if c.SessionCookie() != "" {
		t.Error("session cookie survived logout")
	}
	if file.Exists() {
		t.Error("cookie file survived logout")
	}
	if st := s.Validate(ctx); st.Authenticated() {
		t.Error("backend still sees a session after logout")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	_, srv := newFakeBackend(t)
	s := NewStore(client.New(srv.URL))
	ctx := context.Background()

	form := domain.RegistrationForm{IDNumber: "1234", Name: "Ann", Email: "ann@example.com", Username: "ann", Password: "secret1"}
	msg, err := s.Register(ctx, form.Profile())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if msg != "Registration successful! You can now log in." {
		t.Errorf("message = %q", msg)
	}
	if s.State().Authenticated() {
		t.Error("Register must not sign in")
	}

	role, err := s.Login(ctx, domain.RolePatient, domain.Credentials{Username: "ann", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if role != domain.RolePatient || s.State().Session.Role != domain.RolePatient {
		t.Errorf("role = %q, session = %+v", role, s.State().Session)
	}

	_, err = s.Register(ctx, form.Profile())
	if err == nil || err.Error() != "Registration failed: Username already exists" {
		t.Errorf("duplicate Register() error = %v", err)
	}
}

func TestNewStoreRestoresSavedCookie(t *testing.T) {
	_, srv := newFakeBackend(t)
	file := NewCookieFile(filepath.Join(t.TempDir(), "session"))
	if err := file.Save("DOCTOR_drwho"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	s := NewStore(client.New(srv.URL), WithCookieFile(file))
	st := s.Validate(context.Background())
	if !st.Authenticated() || st.Session.Role != domain.RoleDoctor {
		t.Errorf("restored state = %+v", st)
	}
}

func TestFromContext(t *testing.T) {
	s := NewStore(client.New(""))
	ctx := NewContext(context.Background(), s)
	if FromContext(ctx) != s {
		t.Error("FromContext returned a different store")
	}

	defer func() {
		if recover() == nil {
			t.Error("FromContext outside scope did not panic")
		}
	}()
	FromContext(context.Background())
}

func TestCookieFile(t *testing.T) {
	f := NewCookieFile(filepath.Join(t.TempDir(), "dir", "session"))
	if v, err := f.Load(); err != nil || v != "" {
		t.Errorf("Load() on missing file = %q, %v", v, err)
	}
	if err := f.Save("abc\n"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if v, _ := f.Load(); v != "abc" {
		t.Errorf("Load() = %q, want abc", v)
	}
	if err := f.Save(""); err != nil {
		t.Fatalf("Save(empty) error: %v", err)
	}
	if f.Exists() {
		t.Error("Save(empty) should remove the file")
	}
	if err := f.Remove(); err != nil {
		t.Errorf("Remove() on missing file error: %v", err)
	}
}
