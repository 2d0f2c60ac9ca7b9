package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/internal/session"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

type testAccount struct {
	id       int
	password string
	role     domain.Role
}

// testBackend serves the auth endpoints and a JSON array per collection.
// A session cookie reads "ROLE_username".
type testBackend struct {
	mu          sync.Mutex
	accounts    map[string]testAccount
	collections map[string]string
	// records answers GET on a single-record path, e.g. "/doctors/3".
	records     map[string]string
	requests    []string
	bodies      map[string]string
	failLogout  bool
}

func newTestBackend(t *testing.T) (*testBackend, *httptest.Server) {
	t.Helper()
	b := &testBackend{
		accounts: map[string]testAccount{
			"alice":   {id: 7, password: "secret1", role: domain.RolePatient},
			"drhouse": {id: 3, password: "vicodin", role: domain.RoleDoctor},
			"root":    {id: 1, password: "admin1", role: domain.RoleAdmin},
		},
		collections: map[string]string{
			"doctors":         `[{"id":3,"name":"Gregory House","username":"drhouse","specializations":"Diagnostics","pic":"https://example.com/house.png"},{"id":4,"name":"Lisa Cuddy","username":"cuddy","specializations":"Endocrinology"}]`,
			"patients":        `[{"id":7,"name":"Alice Smith","username":"alice","age":34},{"id":8,"firstName":"Bob","username":"bob"}]`,
			"appointments":    `[]`,
			"prescriptions":   `[]`,
			"specializations": `[{"id":1,"name":"Diagnostics"}]`,
		},
		records: map[string]string{},
		bodies:  map[string]string{},
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *testBackend) set(collection, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collections[collection] = body
}

func (b *testBackend) record(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[path] = body
}

func (b *testBackend) seen(req string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r == req {
			return true
		}
	}
	return false
}

func (b *testBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *testBackend) body(req string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[req]
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := r.Method + " " + r.URL.Path
	b.requests = append(b.requests, req)
	raw, _ := io.ReadAll(r.Body)
	b.bodies[req] = string(raw)

	path := r.URL.Path
	switch {
	case path == "/auth/validate-session":
		ck, err := r.Cookie(client.SessionCookieName)
		if err != nil {
			reply(w, http.StatusOK, map[string]any{"success": false, "message": "No active session"})
			return
		}
		role, username, _ := strings.Cut(ck.Value, "_")
		acct, ok := b.accounts[username]
		if !ok {
			reply(w, http.StatusOK, map[string]any{"success": false})
			return
		}
		reply(w, http.StatusOK, map[string]any{"success": true, "userType": role, "username": username, "userId": acct.id})

	case path == "/auth/logout":
		if b.failLogout {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		reply(w, http.StatusOK, map[string]any{"success": true})

	case path == "/auth/register":
		var p domain.PatientProfile
		json.Unmarshal(raw, &p) //nolint:errcheck
		if _, taken := b.accounts[p.Username]; taken {
			reply(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Username already exists"})
			return
		}
		b.accounts[p.Username] = testAccount{id: 99, password: p.Password, role: domain.RolePatient}
		reply(w, http.StatusCreated, map[string]any{"success": true, "message": "Registration successful! You can now log in."})

	case strings.HasPrefix(path, "/auth/"):
		role := domain.Role(strings.ToUpper(strings.TrimPrefix(path, "/auth/")))
		var creds domain.Credentials
		json.Unmarshal(raw, &creds) //nolint:errcheck
		acct, ok := b.accounts[creds.Username]
		if !ok || acct.password != creds.Password || acct.role != role {
			reply(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookieName, Value: string(role) + "_" + creds.Username, Path: "/"})
		reply(w, http.StatusOK, map[string]any{"success": true, "userType": role, "username": creds.Username, "userId": acct.id})

	case r.Method == http.MethodGet && b.records[path] != "":
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, b.records[path]) //nolint:errcheck

	default:
		parts := strings.Split(strings.Trim(path, "/"), "/")
		list, ok := b.collections[parts[0]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if len(parts) == 2 {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, list) //nolint:errcheck
		case http.MethodPost, http.MethodPut:
			w.Header().Set("Content-Type", "application/json")
			w.Write(raw) //nolint:errcheck
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// harness is an App wired to a test backend.
type harness struct {
	t       *testing.T
	backend *testBackend
	client  *client.Client
	store   *session.Store
	ctx     context.Context
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b, srv := newTestBackend(t)
	c := client.New(srv.URL, client.WithTimeout(5*time.Second))
	store := session.NewStore(c)
	return &harness{
		t:       t,
		backend: b,
		client:  c,
		store:   store,
		ctx:     session.NewContext(context.Background(), store),
		now:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local),
	}
}

// signIn gives the client a session cookie and validates it.
func (h *harness) signIn(role domain.Role, username string) {
	h.t.Helper()
	h.client.SetSessionCookie(string(role) + "_" + username)
	if st := h.store.Validate(context.Background()); !st.Authenticated() {
		h.t.Fatalf("validate %s: not authenticated", username)
	}
}

func (h *harness) app(path string) App {
	a := NewApp(h.ctx, h.client, path)
	a.now = func() time.Time { return h.now }
	a.width, a.height = 120, 40
	return a
}

// mount returns the page for path with a test clock, run through Init.
func (h *harness) mount(path string) page {
	h.t.Helper()
	route, ok := guard.Lookup(path)
	if !ok {
		h.t.Fatalf("no route %s", path)
	}
	p := newPage(pageEnv{
		ctx:     h.ctx,
		client:  h.client,
		session: h.store.State().Session,
		route:   route,
		now:     func() time.Time { return h.now },
		width:   120,
		height:  40,
	})
	return drivePage(p, p.Init())
}

// drive runs cmd and feeds every resulting message into the model until
// nothing is left. Shimmer ticks and timers are not followed.
func drive(m tea.Model, cmd tea.Cmd) tea.Model {
	for _, msg := range collect(cmd, 0) {
		var next tea.Cmd
		m, next = m.Update(msg)
		m = drive(m, next)
	}
	return m
}

func drivePage(p page, cmd tea.Cmd) page {
	for _, msg := range collect(cmd, 0) {
		var next tea.Cmd
		p, next = p.Update(msg)
		p = drivePage(p, next)
	}
	return p
}

func collect(cmd tea.Cmd, depth int) []tea.Msg {
	if cmd == nil || depth > 8 {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c, depth+1)...)
		}
		return out
	case shimmerTickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s as one paste.
func typeText(p page, s string) page {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func press(p page, keys ...string) (page, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		p, cmd = p.Update(key(k))
	}
	return p, cmd
}
