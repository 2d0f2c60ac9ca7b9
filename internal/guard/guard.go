// Package guard decides whether a route may be shown for the current
// session.
package guard

import (
	"slices"

	"github.com/mediconnect/mediconnect/internal/session"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Wait means the session is still being validated; show a waiting view.
	Wait Decision = iota
	// Redirect means send the user to the default route.
	Redirect
	// Render means show the requested view.
	Render
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decide is the authorization check for a protected view. An empty allowed
// set admits any authenticated role.
func Decide(loading, authenticated bool, role domain.Role, allowed []domain.Role) Decision {
	if loading {
		return Wait
	}
	if !authenticated {
		return Redirect
	}
	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		return Redirect
	}
	return Render
}

// Check applies Decide to a store snapshot. Public routes always render.
func Check(st session.State, r Route) Decision {
	if r.Public {
		return Render
	}
	return Decide(st.Loading, st.Session.Authenticated, st.Session.Role, r.Roles)
}
