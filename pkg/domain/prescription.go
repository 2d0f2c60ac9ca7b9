package domain

import (
	"fmt"
	"strings"
	"time"
)

// Prescription statuses.
const (
	PrescriptionActive    = "ACTIVE"
	PrescriptionCompleted = "COMPLETED"
	PrescriptionExpired   = "EXPIRED"
	PrescriptionCanceled  = "CANCELED"
)

// PrescriptionStatuses lists every prescription status.
var PrescriptionStatuses = []string{PrescriptionActive, PrescriptionCompleted, PrescriptionExpired, PrescriptionCanceled}

// Prescription is a record from /prescriptions.
type Prescription struct {
	ID               ID         `json:"id,omitempty"`
	PrescriptionDate Date       `json:"prescriptionDate,omitzero"`
	CreatedDate      Date       `json:"createdDate,omitzero"`
	PatientID        ID         `json:"patientId,omitempty"`
	PatientName      string     `json:"patientName,omitempty"`
	Patient          *PersonRef `json:"patient,omitempty"`
	DoctorID         ID         `json:"doctorId,omitempty"`
	DoctorName       string     `json:"doctorName,omitempty"`
	Doctor           *PersonRef `json:"doctor,omitempty"`
	Problem          string     `json:"problem,omitempty"`
	Tests            []string   `json:"tests,omitempty"`
	Tablets          []string   `json:"tablets,omitempty"`
	Capsules         []string   `json:"capsules,omitempty"`
	Vaccines         []string   `json:"vaccines,omitempty"`
	Advice           string     `json:"advice,omitempty"`
	Other            string     `json:"other,omitempty"`
	FollowUpDate     Date       `json:"followUpDate,omitzero"`
	Status           string     `json:"status,omitempty"`
}

// PatientRef is the flat patient id, or the nested patient's id.
func (p Prescription) PatientRef() ID {
	if !p.PatientID.IsZero() {
		return p.PatientID
	}
	if p.Patient != nil {
		return p.Patient.ID
	}
	return ""
}

// DoctorRef is the flat doctor id, or the nested doctor's id.
func (p Prescription) DoctorRef() ID {
	if !p.DoctorID.IsZero() {
		return p.DoctorID
	}
	if p.Doctor != nil {
		return p.Doctor.ID
	}
	return ""
}

// PatientLabel resolves the nested patient's name, patientName, then
// "Unknown Patient".
func (p Prescription) PatientLabel() string {
	return p.Patient.DisplayName(firstNonEmpty(p.PatientName, "Unknown Patient"))
}

// DoctorLabel resolves the nested doctor's name, doctorName, then
// "Unknown Doctor".
func (p Prescription) DoctorLabel() string {
	return p.Doctor.DisplayName(firstNonEmpty(p.DoctorName, "Unknown Doctor"))
}

// IssuedOn is createdDate, falling back to prescriptionDate.
func (p Prescription) IssuedOn() Date {
	if !p.CreatedDate.IsZero() {
		return p.CreatedDate
	}
	return p.PrescriptionDate
}

// IsActive reports an ACTIVE prescription.
func (p Prescription) IsActive() bool {
	return strings.EqualFold(p.Status, PrescriptionActive)
}

// Matches reports whether the prescription matches a free-text search.
func (p Prescription) Matches(query string) bool {
	return Contains(query, p.PatientLabel(), p.DoctorLabel(), p.Problem, p.Advice,
		strings.Join(p.Tablets, " "), strings.Join(p.Capsules, " "))
}

// Text renders the prescription as plain text for the clipboard.
func (p Prescription) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prescription #%s (%s)\n", p.ID, p.IssuedOn())
	fmt.Fprintf(&b, "Doctor:  %s\n", p.DoctorLabel())
	fmt.Fprintf(&b, "Patient: %s\n", p.PatientLabel())
	if p.Problem != "" {
		fmt.Fprintf(&b, "Problem: %s\n", p.Problem)
	}
	writeList(&b, "Tests", p.Tests)
	writeList(&b, "Tablets", p.Tablets)
	writeList(&b, "Capsules", p.Capsules)
	writeList(&b, "Vaccines", p.Vaccines)
	if p.Advice != "" {
		fmt.Fprintf(&b, "Advice: %s\n", p.Advice)
	}
	if p.Other != "" {
		fmt.Fprintf(&b, "Other: %s\n", p.Other)
	}
	if !p.FollowUpDate.IsZero() {
		fmt.Fprintf(&b, "Follow-up: %s\n", p.FollowUpDate)
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, ", "))
}

// PrescriptionsFor returns the prescriptions that belong to the given
// patient or doctor. Admins see everything.
func PrescriptionsFor(list []Prescription, role Role, id ID) []Prescription {
	switch role {
	case RolePatient:
		return Filter(list, func(p Prescription) bool { return p.PatientRef().Equal(id) })
	case RoleDoctor:
		return Filter(list, func(p Prescription) bool { return p.DoctorRef().Equal(id) })
	}
	return list
}

// IssuedSince keeps prescriptions issued on or after t.
func IssuedSince(list []Prescription, t time.Time) []Prescription {
	return Filter(list, func(p Prescription) bool {
		d := p.IssuedOn()
		return !d.IsZero() && !d.Before(t)
	})
}

// PrescriptionForm is the doctor's new-prescription form. List fields are
// comma separated.
type PrescriptionForm struct {
	PatientID    string `validate:"required,number"`
	Problem      string `validate:"required"`
	Tests        string
	Tablets      string
	Capsules     string
	Vaccines     string
	Advice       string
	Other        string
	FollowUpDate string `validate:"omitempty,datetime=2006-01-02"`
}

// Prescription converts the form into a new ACTIVE prescription issued by
// doctorID today.
func (f PrescriptionForm) Prescription(doctorID ID, today time.Time) Prescription {
	p := Prescription{
		PrescriptionDate: NewDate(today),
		PatientID:        ParseID(f.PatientID),
		DoctorID:         doctorID,
		Problem:          strings.TrimSpace(f.Problem),
		Tests:            splitList(f.Tests),
		Tablets:          splitList(f.Tablets),
		Capsules:         splitList(f.Capsules),
		Vaccines:         splitList(f.Vaccines),
		Advice:           strings.TrimSpace(f.Advice),
		Other:            strings.TrimSpace(f.Other),
		Status:           PrescriptionActive,
	}
	if d, err := ParseDate(strings.TrimSpace(f.FollowUpDate)); err == nil {
		p.FollowUpDate = d
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
