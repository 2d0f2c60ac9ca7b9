package domain

import (
	"strings"
)

// Doctor is a practitioner record from /doctors.
type Doctor struct {
	ID              ID     `json:"id"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password,omitempty"`
	Specializations string `json:"specializations,omitempty"`
	VisitingDays    string `json:"visitingDays,omitempty"`
	Pic             string `json:"pic,omitempty"`
}

// DisplayName is the doctor's name, falling back to the username.
func (d Doctor) DisplayName() string {
	return firstNonEmpty(d.Name, d.Username, "Unknown Doctor")
}

// Matches reports whether the doctor matches a free-text search over name,
// email and specialization.
func (d Doctor) Matches(query string) bool {
	return Contains(query, d.Name, d.Email, d.Specializations)
}

// HasSpecialization reports whether the doctor's specialization equals name,
// ignoring case. An empty name matches every doctor.
func (d Doctor) HasSpecialization(name string) bool {
	return name == "" || strings.EqualFold(strings.TrimSpace(d.Specializations), strings.TrimSpace(name))
}

// DoctorForm is the admin create/edit form for a doctor.
type DoctorForm struct {
	ID              string `validate:"required,number"`
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Phone           string `validate:"omitempty,phone"`
	Username        string `validate:"required,min=3"`
	Password        string `validate:"required"`
	Specializations string `validate:"required"`
	VisitingDays    string
	Pic             string `validate:"omitempty,imageurl"`
}

// Doctor converts the form into the wire record.
func (f DoctorForm) Doctor() Doctor {
	return Doctor{
		ID:              ParseID(f.ID),
		Name:            strings.TrimSpace(f.Name),
		Email:           strings.TrimSpace(f.Email),
		Phone:           strings.TrimSpace(f.Phone),
		Username:        strings.TrimSpace(f.Username),
		Password:        f.Password,
		Specializations: strings.TrimSpace(f.Specializations),
		VisitingDays:    strings.TrimSpace(f.VisitingDays),
		Pic:             strings.TrimSpace(f.Pic),
	}
}

// DoctorFormFrom fills an edit form from an existing record.
func DoctorFormFrom(d Doctor) DoctorForm {
	return DoctorForm{
		ID:              d.ID.String(),
		Name:            d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
		Username:        d.Username,
		Password:        d.Password,
		Specializations: d.Specializations,
		VisitingDays:    d.VisitingDays,
		Pic:             d.Pic,
	}
}
