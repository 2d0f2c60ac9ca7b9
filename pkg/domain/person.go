package domain

import "strings"

// PersonRef is a doctor or patient embedded inside another record. Only the
// fields the backend happened to include are set.
type PersonRef struct {
	ID        ID     `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

// DisplayName resolves the best available label, in order: name, first and
// last name, username, then fallback.
func (p *PersonRef) DisplayName(fallback string) string {
	if p == nil {
		return fallback
	}
	return firstNonEmpty(p.Name, fullName(p.FirstName, p.LastName), p.Username, fallback)
}

// GreetingName is the name used for "Welcome, X": name, first name,
// username, then "User".
func GreetingName(name, firstName, username string) string {
	return firstNonEmpty(name, firstName, username, "User")
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
