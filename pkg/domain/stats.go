package domain

import "time"

// Stats are the dashboard counters for one patient or doctor.
type Stats struct {
	Today               int
	Upcoming            int
	Completed           int
	Counterparts        int
	RecentPrescriptions int
	ActivePrescriptions int
}

// recentWindow is how far back a prescription still counts as recent.
const recentWindow = 30 * 24 * time.Hour

// ComputeStats derives dashboard counters from the user's own appointments
// and prescriptions. Counterparts are distinct doctors for a patient and
// distinct patients for a doctor.
func ComputeStats(role Role, appts []Appointment, rx []Prescription, now time.Time) Stats {
	var s Stats
	seen := make(map[ID]bool)
	for _, a := range appts {
		if a.HasStatus(StatusScheduled) && a.When().SameDay(now) {
			s.Today++
		}
		if a.IsUpcoming(now) {
			s.Upcoming++
		}
		if a.HasStatus(StatusCompleted) {
			s.Completed++
		}
		other := a.DoctorRef()
		if role == RoleDoctor {
			other = a.PatientRef()
		}
		if !other.IsZero() {
			seen[ParseID(other.String())] = true
		}
	}
	s.Counterparts = len(seen)
	s.RecentPrescriptions = len(IssuedSince(rx, now.Add(-recentWindow)))
	for _, p := range rx {
		if p.IsActive() {
			s.ActivePrescriptions++
		}
	}
	return s
}
