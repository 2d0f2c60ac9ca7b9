package domain

import (
	"fmt"
	"strings"
)

// Role is the kind of account a session belongs to.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// Roles lists every role in login-menu order.
var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// ParseRole maps a backend userType onto a Role. Matching ignores case and
// surrounding whitespace.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// LoginSegment is the lower-case path segment of the role's login endpoint.
func (r Role) LoginSegment() string {
	return strings.ToLower(string(r))
}

// Home is the dashboard route for the role.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin-dashboard"
	case RoleDoctor:
		return "/doctor"
	case RolePatient:
		return "/patient"
	}
	return "/"
}

// LoginRoute is the login page route for the role.
func (r Role) LoginRoute() string {
	if r == "" {
		return "/"
	}
	return "/" + r.LoginSegment() + "-login"
}

// Title is the role name for headings, e.g. "Doctor".
func (r Role) Title() string {
	s := r.LoginSegment()
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
