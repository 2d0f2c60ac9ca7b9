package guard

import (
	"strings"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// DefaultPath is where unmatched paths and rejected visitors land: the
// patient login page.
const DefaultPath = "/"

// Page identifies which view a route shows.
type Page int

const (
	PageLogin Page = iota
	PageRegister
	PagePatientDashboard
	PagePatientDoctors
	PagePatientAppointments
	PagePatientPrescriptions
	PageDoctorDashboard
	PageDoctorAppointments
	PageDoctorPatients
	PageDoctorPrescriptions
	PageAdminDashboard
	PageAdminDoctors
	PageAdminPatients
	PageAdminAppointments
	PageAdminSpecializations
	PageAdminPrescriptions
)

// Route is one navigable path.
type Route struct {
	Path   string
	Page   Page
	Title  string
	Public bool
	// Roles that may see the route. Empty means any signed-in role.
	Roles []domain.Role
	// LoginRole is the role a login page signs in as.
	LoginRole domain.Role
}

var (
	patientOnly = []domain.Role{domain.RolePatient}
	doctorOnly  = []domain.Role{domain.RoleDoctor}
	adminOnly   = []domain.Role{domain.RoleAdmin}
)

// Routes is the full route table.
var Routes = []Route{
	{Path: "/", Page: PageLogin, Title: "Patient Login", Public: true, LoginRole: domain.RolePatient},
	{Path: "/patient-login", Page: PageLogin, Title: "Patient Login", Public: true, LoginRole: domain.RolePatient},
	{Path: "/doctor-login", Page: PageLogin, Title: "Doctor Login", Public: true, LoginRole: domain.RoleDoctor},
	{Path: "/admin-login", Page: PageLogin, Title: "Admin Login", Public: true, LoginRole: domain.RoleAdmin},
	{Path: "/register", Page: PageRegister, Title: "Patient Registration", Public: true},

	{Path: "/patient", Page: PagePatientDashboard, Title: "Patient Dashboard", Roles: patientOnly},
	{Path: "/patient/doctors", Page: PagePatientDoctors, Title: "Find Doctors", Roles: patientOnly},
	{Path: "/patient/appointments", Page: PagePatientAppointments, Title: "My Appointments", Roles: patientOnly},
	{Path: "/patient/prescriptions", Page: PagePatientPrescriptions, Title: "My Prescriptions", Roles: patientOnly},

	{Path: "/doctor", Page: PageDoctorDashboard, Title: "Doctor Dashboard", Roles: doctorOnly},
	{Path: "/doctor/appointments", Page: PageDoctorAppointments, Title: "My Appointments", Roles: doctorOnly},
	{Path: "/doctor/patients", Page: PageDoctorPatients, Title: "My Patients", Roles: doctorOnly},
	{Path: "/doctor/prescriptions", Page: PageDoctorPrescriptions, Title: "Prescriptions", Roles: doctorOnly},

	{Path: "/admin", Page: PageAdminDashboard, Title: "Admin Dashboard", Roles: adminOnly},
	{Path: "/admin-dashboard", Page: PageAdminDashboard, Title: "Admin Dashboard", Roles: adminOnly},
	{Path: "/admin-dashboard/doctors", Page: PageAdminDoctors, Title: "Doctors", Roles: adminOnly},
	{Path: "/admin-dashboard/patients", Page: PageAdminPatients, Title: "Patients", Roles: adminOnly},
	{Path: "/admin-dashboard/appointments", Page: PageAdminAppointments, Title: "Appointments", Roles: adminOnly},
	{Path: "/admin-dashboard/specializations", Page: PageAdminSpecializations, Title: "Specializations", Roles: adminOnly},
	{Path: "/admin-dashboard/prescriptions", Page: PageAdminPrescriptions, Title: "Prescriptions", Roles: adminOnly},
}

// Lookup finds the route for path. Trailing slashes are ignored and an
// unmatched path yields the default route with ok=false.
func Lookup(path string) (Route, bool) {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	def, _ := Lookup(DefaultPath)
	return def, false
}

// Parent is the route one level up, e.g. "/doctor" for
// "/doctor/patients". Top-level routes return themselves.
func Parent(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return path
	}
	return path[:i]
}
