package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mediconnect/mediconnect/internal/config"
)

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "mediconnect dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"help"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"mediconnect logout", "MEDICONNECT_API_URL", "MEDICONNECT_METRICS_ADDR"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"frobnicate"}, &out)
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("err = %v, want unknown command", err)
	}
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIURL:         apiURL,
		RequestTimeout: 5 * time.Second,
		StateDir:       t.TempDir(),
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/api")
	var out bytes.Buffer
	if err := runLogout(context.Background(), cfg, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Already logged out") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLogoutSendsCookieAndRemovesFile(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/logout" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if c, err := r.Cookie("userSession"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL+"/api")
	if err := os.WriteFile(cfg.SessionFile(), []byte("abc123"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runLogout(context.Background(), cfg, &out); err != nil {
		t.Fatal(err)
	}
	if gotCookie != "abc123" {
		t.Errorf("backend saw cookie %q, want abc123", gotCookie)
	}
	if _, err := os.Stat(cfg.SessionFile()); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLogoutBackendDownStillClears(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/api")
	path := filepath.Join(cfg.StateDir, "session")
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := runLogout(context.Background(), cfg, &out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
	if !strings.Contains(out.String(), "cleared the local session only") {
		t.Errorf("output = %q", out.String())
	}
}
