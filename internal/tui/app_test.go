package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

func TestAppWaitsBeforeValidation(t *testing.T) {
	h := newHarness(t)
	a := h.app("/doctor")

	if !a.waiting || a.page != nil {
		t.Fatalf("expected waiting with no page mounted, got waiting=%v page=%T", a.waiting, a.page)
	}
	if !strings.Contains(a.View(), "Checking authentication...") {
		t.Errorf("view should show the waiting message, got:\n%s", a.View())
	}
	if h.backend.count() != 0 {
		t.Errorf("no request should be sent before Init, saw %d", h.backend.count())
	}
}

func TestAppWaitThenRedirectWhenAnonymous(t *testing.T) {
	h := newHarness(t)
	a := h.app("/patient/prescriptions")

	m := drive(a, a.validate())
	a = m.(App)
	if a.waiting {
		t.Fatal("still waiting after validation")
	}
	if a.route.Path != guard.DefaultPath {
		t.Errorf("route = %s, want %s", a.route.Path, guard.DefaultPath)
	}
	if h.backend.seen("GET /prescriptions/patient/7") {
		t.Error("protected data was requested for an anonymous visitor")
	}
}

func TestAppRoleMatrix(t *testing.T) {
	users := map[domain.Role]string{
		domain.RolePatient: "alice",
		domain.RoleDoctor:  "drhouse",
		domain.RoleAdmin:   "root",
	}
	for _, role := range domain.Roles {
		for _, target := range domain.Roles {
			t.Run(string(role)+"->"+string(target), func(t *testing.T) {
				h := newHarness(t)
				h.client.SetSessionCookie(string(role) + "_" + users[role])
				a := h.app(target.Home())
				a = drive(a, a.validate()).(App)

				want := guard.DefaultPath
				if role == target {
					want = target.Home()
				}
				if a.route.Path != want {
					t.Errorf("route = %s, want %s", a.route.Path, want)
				}
			})
		}
	}
}

func TestAppUnmatchedPathShowsPatientLogin(t *testing.T) {
	h := newHarness(t)
	a := h.app("/no/such/page")
	if a.route.Path != guard.DefaultPath || a.route.Page != guard.PageLogin {
		t.Fatalf("route = %+v, want patient login", a.route)
	}
	if !strings.Contains(a.View(), "Patient sign in") {
		t.Errorf("view:\n%s", a.View())
	}
}

func TestAppValidSessionOnLoginPageGoesHome(t *testing.T) {
	h := newHarness(t)
	h.client.SetSessionCookie("DOCTOR_drhouse")
	a := h.app("/doctor-login")
	a = drive(a, a.validate()).(App)
	if a.route.Path != "/doctor" {
		t.Errorf("route = %s, want /doctor", a.route.Path)
	}
}

func TestAppLoginFlow(t *testing.T) {
	h := newHarness(t)
	a := h.app("/")
	a = drive(a, a.validate()).(App)

	var m tea.Model = a
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("alice")})
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret1")})
	m, cmd := m.Update(key("enter"))
	a = drive(m, cmd).(App)

	if a.route.Path != "/patient" {
		t.Fatalf("route = %s, want /patient", a.route.Path)
	}
	st := h.store.State()
	if !st.Authenticated() || st.Session.Role != domain.RolePatient {
		t.Errorf("session = %+v", st)
	}
	if a.greeting != "Alice Smith" {
		t.Errorf("greeting = %q, want Alice Smith", a.greeting)
	}
	if !strings.Contains(a.View(), "Welcome, Alice Smith") {
		t.Errorf("header missing greeting:\n%s", a.View())
	}
}

func TestAppLogoutClearsEvenWhenBackendFails(t *testing.T) {
	h := newHarness(t)
	h.backend.failLogout = true
	h.signIn(domain.RoleDoctor, "drhouse")
	a := h.app("/doctor")

	var m tea.Model = a
	m, cmd := m.Update(key("ctrl+l"))
	a = drive(m, cmd).(App)

	if h.store.State().Authenticated() {
		t.Error("session survived logout")
	}
	if a.route.Path != guard.DefaultPath {
		t.Errorf("route = %s, want %s", a.route.Path, guard.DefaultPath)
	}
	if h.client.SessionCookie() != "" {
		t.Error("cookie survived logout")
	}
}

func TestAppEscReturnsToDashboard(t *testing.T) {
	h := newHarness(t)
	h.signIn(domain.RoleAdmin, "root")
	a := h.app("/admin-dashboard/doctors")

	m, cmd := a.Update(key("esc"))
	a = drive(m, cmd).(App)
	if a.route.Path != "/admin-dashboard" {
		t.Errorf("route = %s, want /admin-dashboard", a.route.Path)
	}
}

func TestAppDashboardMenuNavigates(t *testing.T) {
	h := newHarness(t)
	h.signIn(domain.RolePatient, "alice")
	a := h.app("/patient")

	m, cmd := a.Update(key("3"))
	a = drive(m, cmd).(App)
	if a.route.Path != "/patient/prescriptions" {
		t.Errorf("route = %s, want /patient/prescriptions", a.route.Path)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.signIn(domain.RoleAdmin, "root")
	a := h.app("/admin-dashboard")

	m, _ := a.Update(key("?"))
	a = m.(App)
	if !a.helpOpen || !strings.Contains(a.View(), h.client.BaseURL()) {
		t.Fatalf("help overlay not shown:\n%s", a.View())
	}
	m, _ = a.Update(key("esc"))
	if m.(App).helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppQuitIgnoredWhileTyping(t *testing.T) {
	h := newHarness(t)
	a := h.app("/")
	_, cmd := a.Update(key("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Error("q quit while typing on the login form")
		}
	}
}
