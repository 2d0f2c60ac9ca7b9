package domain

import (
	"strconv"
	"strings"
)

// Session is the authenticated identity of the current user. The zero value
// is the signed-out state.
type Session struct {
	ID            ID
	Username      string
	Role          Role
	Authenticated bool
}

// Credentials are what a user types into a login form. They are sent once
// and never stored.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body of every /auth endpoint.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	UserType string `json:"userType,omitempty"`
	Username string `json:"username,omitempty"`
	UserID   ID     `json:"userId,omitempty"`
}

// RegistrationForm is the raw text of the patient registration form.
// Validation tags are checked by internal/form before anything is sent.
type RegistrationForm struct {
	IDNumber string `validate:"required,len=4,number"`
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
	Phone    string `validate:"omitempty,phone"`
	Age      string `validate:"omitempty,agerange"`
	Gender   string `validate:"omitempty,oneof=Male Female"`
	Address  string
	Pic      string `validate:"omitempty,imageurl"`
}

// Genders are the choices offered by the registration form.
var Genders = []string{"", "Male", "Female"}

// PatientProfile is the registration payload. Optional fields left blank on
// the form are sent as null.
type PatientProfile struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
	Address  *string `json:"address"`
	Pic      *string `json:"pic"`
}

// Profile converts the validated form into the wire record.
func (f RegistrationForm) Profile() PatientProfile {
	p := PatientProfile{
		ID:       ParseID(f.IDNumber),
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
		Phone:    optional(f.Phone),
		Gender:   optional(f.Gender),
		Address:  optional(f.Address),
		Pic:      optional(f.Pic),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.Age)); err == nil {
		p.Age = &n
	}
	return p
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
