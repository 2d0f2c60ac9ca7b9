package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// appointmentRow renders one appointment as seen by viewer: patients see
// the doctor, doctors see the patient, admins see both.
func appointmentRow(a domain.Appointment, viewer domain.Role, now time.Time, width int, selected bool) string {
	var who string
	switch viewer {
	case domain.RolePatient:
		who = pad("Dr. "+a.DoctorLabel(), 24)
	case domain.RoleDoctor:
		who = pad(a.PatientLabel(), 24)
	default:
		who = pad(a.PatientLabel(), 20) + " " + dimStyle.Render("→") + " " + pad(a.DoctorLabel(), 20)
	}
	when := pad(a.When().String(), 11)
	if a.When().SameDay(now) {
		when = accentStyle.Render(when)
	} else {
		when = metaStyle.Render(when)
	}
	status := StatusBadge(a.Status)
	used := 2 + 11 + 1 + 24 + 1 + 10 + 2
	if viewer == domain.RoleAdmin {
		used += 19
	}
	problem := dimStyle.Render(truncStr(oneLine(a.ProblemDescription), max(width-used, 8)))
	name := normalStyle.Render(who)
	if selected {
		name = selectedStyle.Render(who)
	}
	return cursorMark(selected) + when + " " + name + " " + status + "  " + problem
}

func appointmentDetail(a domain.Appointment, now time.Time) string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Appointment #"+orNA(a.ID.String())) + "  " + StatusBadge(a.Status) + "\n\n")
	b.WriteString(detailLine("Patient", a.PatientLabel()))
	b.WriteString(detailLine("Doctor", a.DoctorLabel()))
	b.WriteString(detailLine("Visit", formatDate(a.When(), now)))
	b.WriteString(detailLine("Booked", formatDate(a.BookingDate, now)))
	if a.VisitingSerialNumber > 0 {
		b.WriteString(detailLine("Serial", strconv.Itoa(a.VisitingSerialNumber)))
	}
	b.WriteString(detailLine("Problem", oneLine(a.ProblemDescription)))
	return b.String()
}

func prescriptionRow(p domain.Prescription, viewer domain.Role, width int, selected bool) string {
	var who string
	switch viewer {
	case domain.RolePatient:
		who = pad("Dr. "+p.DoctorLabel(), 24)
	case domain.RoleDoctor:
		who = pad(p.PatientLabel(), 24)
	default:
		who = pad(p.PatientLabel(), 20) + " " + dimStyle.Render("←") + " " + pad(p.DoctorLabel(), 20)
	}
	name := normalStyle.Render(who)
	if selected {
		name = selectedStyle.Render(who)
	}
	problem := truncStr(oneLine(p.Problem), max(width-50, 8))
	return cursorMark(selected) + metaStyle.Render(pad(p.IssuedOn().String(), 11)) + " " + name + " " +
		StatusBadge(p.Status) + "  " + dimStyle.Render(problem)
}

func prescriptionDetail(p domain.Prescription, now time.Time) string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Prescription #"+orNA(p.ID.String())) + "  " + StatusBadge(p.Status) + "\n\n")
	b.WriteString(detailLine("Patient", p.PatientLabel()))
	b.WriteString(detailLine("Doctor", p.DoctorLabel()))
	b.WriteString(detailLine("Issued", formatDate(p.IssuedOn(), now)))
	b.WriteString(detailLine("Problem", p.Problem))
	b.WriteString(detailLine("Tests", strings.Join(p.Tests, ", ")))
	b.WriteString(detailLine("Tablets", strings.Join(p.Tablets, ", ")))
	b.WriteString(detailLine("Capsules", strings.Join(p.Capsules, ", ")))
	b.WriteString(detailLine("Vaccines", strings.Join(p.Vaccines, ", ")))
	b.WriteString(detailLine("Advice", p.Advice))
	if p.Other != "" {
		b.WriteString(detailLine("Other", p.Other))
	}
	if !p.FollowUpDate.IsZero() {
		b.WriteString(detailLine("Follow-up", formatDate(p.FollowUpDate, now)))
	}
	return b.String()
}

func doctorRow(d domain.Doctor, width int, selected bool) string {
	name := pad("Dr. "+d.DisplayName(), 26)
	if selected {
		name = selectedStyle.Render(name)
	} else {
		name = normalStyle.Render(name)
	}
	return cursorMark(selected) + name + " " + accentStyle.Render(pad(orNA(d.Specializations), 20)) + " " +
		dimStyle.Render(truncStr(d.VisitingDays, max(width-52, 8)))
}

func doctorDetail(d domain.Doctor) string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Dr. "+d.DisplayName()) + "\n\n")
	b.WriteString(detailLine("ID", d.ID.String()))
	b.WriteString(detailLine("Specialization", d.Specializations))
	b.WriteString(detailLine("Visiting days", d.VisitingDays))
	b.WriteString(detailLine("Email", d.Email))
	b.WriteString(detailLine("Phone", d.Phone))
	b.WriteString(detailLine("Username", d.Username))
	b.WriteString(detailLine("Picture", d.Pic))
	return b.String()
}

func patientRow(p domain.Patient, width int, selected bool) string {
	name := pad(p.DisplayName(), 26)
	if selected {
		name = selectedStyle.Render(name)
	} else {
		name = normalStyle.Render(name)
	}
	info := fmt.Sprintf("age %s", p.AgeText())
	if p.Gender != "" {
		info += ", " + strings.ToLower(p.Gender)
	}
	return cursorMark(selected) + name + " " + metaStyle.Render(pad(info, 16)) + " " +
		dimStyle.Render(truncStr(p.Email, max(width-48, 8)))
}

func patientDetail(p domain.Patient) string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render(p.DisplayName()) + "\n\n")
	b.WriteString(detailLine("ID", p.ID.String()))
	b.WriteString(detailLine("Email", p.Email))
	b.WriteString(detailLine("Phone", p.Phone))
	b.WriteString(detailLine("Age", p.AgeText()))
	b.WriteString(detailLine("Gender", p.Gender))
	b.WriteString(detailLine("Address", p.Address))
	b.WriteString(detailLine("Username", p.Username))
	return b.String()
}
