package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// SessionCookieName is the cookie the backend uses for its session.
const SessionCookieName = "userSession"

// sessionJar is a cookie jar that can be emptied while requests are in
// flight.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() *sessionJar {
	jar, _ := cookiejar.New(nil) //nolint:errcheck // nil options never fail
	return &sessionJar{jar: jar}
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

func (j *sessionJar) reset() {
	jar, _ := cookiejar.New(nil) //nolint:errcheck // nil options never fail
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
}

// SessionCookie returns the current session cookie value, or "" if the
// backend has not set one.
func (c *Client) SessionCookie() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionCookie installs a previously saved session cookie so the next
// request is sent as that session.
func (c *Client) SetSessionCookie(value string) {
	if value == "" {
		return
	}
	c.jar.SetCookies(c.base, []*http.Cookie{{
		Name:  SessionCookieName,
		Value: value,
		Path:  "/",
	}})
}

// ExpireSessionCookie drops every cookie the backend has set.
func (c *Client) ExpireSessionCookie() {
	c.jar.reset()
}
