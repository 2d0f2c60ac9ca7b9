package domain

import (
	"strings"
	"time"
)

// Appointment statuses. Pending, Confirmed and Cancelled appear in older
// records and are accepted on read.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCanceled  = "CANCELED"
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// AppointmentStatuses are the statuses a doctor or admin can set.
var AppointmentStatuses = []string{StatusScheduled, StatusCompleted, StatusCanceled}

// Appointment is a booking from /appointments.
type Appointment struct {
	ID                   ID         `json:"id,omitempty"`
	DoctorID             ID         `json:"doctorId,omitempty"`
	DoctorName           string     `json:"doctorName,omitempty"`
	Doctor               *PersonRef `json:"doctor,omitempty"`
	PatientID            ID         `json:"patientId,omitempty"`
	PatientName          string     `json:"patientName,omitempty"`
	Patient              *PersonRef `json:"patient,omitempty"`
	BookingDate          Date       `json:"bookingDate,omitzero"`
	VisitingDate         Date       `json:"visitingDate,omitzero"`
	AppointmentDate      Date       `json:"appointmentDate,omitzero"`
	VisitingSerialNumber int        `json:"visitingSerialNumber,omitempty"`
	Status               string     `json:"status,omitempty"`
	ProblemDescription   string     `json:"problemDescription,omitempty"`
}

// BookingRequest is the body a patient sends to book a visit.
type BookingRequest struct {
	DoctorID           ID     `json:"doctorId"`
	PatientID          ID     `json:"patientId"`
	VisitingDate       Date   `json:"visitingDate"`
	ProblemDescription string `json:"problemDescription"`
}

// PatientRef is the flat patient id, or the nested patient's id.
func (a Appointment) PatientRef() ID {
	if !a.PatientID.IsZero() {
		return a.PatientID
	}
	if a.Patient != nil {
		return a.Patient.ID
	}
	return ""
}

// DoctorRef is the flat doctor id, or the nested doctor's id.
func (a Appointment) DoctorRef() ID {
	if !a.DoctorID.IsZero() {
		return a.DoctorID
	}
	if a.Doctor != nil {
		return a.Doctor.ID
	}
	return ""
}

// PatientLabel resolves the nested patient's name, the flat patientName,
// then "Unknown Patient".
func (a Appointment) PatientLabel() string {
	return a.Patient.DisplayName(firstNonEmpty(a.PatientName, "Unknown Patient"))
}

// DoctorLabel resolves the nested doctor's name, the flat doctorName, then
// "Unknown Doctor".
func (a Appointment) DoctorLabel() string {
	return a.Doctor.DisplayName(firstNonEmpty(a.DoctorName, "Unknown Doctor"))
}

// When is the visit date, falling back to appointmentDate.
func (a Appointment) When() Date {
	if !a.VisitingDate.IsZero() {
		return a.VisitingDate
	}
	return a.AppointmentDate
}

// HasStatus compares statuses ignoring case.
func (a Appointment) HasStatus(status string) bool {
	return strings.EqualFold(a.Status, status)
}

// IsUpcoming reports a scheduled visit dated after now.
func (a Appointment) IsUpcoming(now time.Time) bool {
	when := a.When()
	return a.HasStatus(StatusScheduled) && !when.IsZero() && when.After(now)
}

// IsCanceled accepts both spellings.
func (a Appointment) IsCanceled() bool {
	return a.HasStatus(StatusCanceled) || a.HasStatus(StatusCancelled)
}

// Matches reports whether the appointment matches a free-text search over
// both parties, the problem and the status.
func (a Appointment) Matches(query string) bool {
	return Contains(query, a.PatientLabel(), a.DoctorLabel(), a.ProblemDescription, a.Status)
}

// Upcoming returns the scheduled appointments dated after now.
func Upcoming(list []Appointment, now time.Time) []Appointment {
	return Filter(list, func(a Appointment) bool { return a.IsUpcoming(now) })
}

// IsPast reports a visit dated on or before now, an undated visit, or a
// completed one. Future visits in any other status are neither past nor
// upcoming.
func (a Appointment) IsPast(now time.Time) bool {
	when := a.When()
	return when.IsZero() || !when.After(now) || a.HasStatus(StatusCompleted)
}

// Past returns the appointments that are past.
func Past(list []Appointment, now time.Time) []Appointment {
	return Filter(list, func(a Appointment) bool { return a.IsPast(now) })
}

// AppointmentsFor returns the appointments that belong to the given
// patient or doctor. Admins see everything.
func AppointmentsFor(list []Appointment, role Role, id ID) []Appointment {
	switch role {
	case RolePatient:
		return Filter(list, func(a Appointment) bool { return a.PatientRef().Equal(id) })
	case RoleDoctor:
		return Filter(list, func(a Appointment) bool { return a.DoctorRef().Equal(id) })
	}
	return list
}

// WithStatus keeps appointments whose status equals status, ignoring case.
// An empty status keeps everything.
func WithStatus(list []Appointment, status string) []Appointment {
	if status == "" {
		return list
	}
	return Filter(list, func(a Appointment) bool { return a.HasStatus(status) })
}

// Statuses returns the distinct statuses present, in first-seen order.
func Statuses(list []Appointment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range list {
		s := strings.ToUpper(a.Status)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
