package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/fetch"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

const dashboardRows = 5

type menuItem struct {
	key   string
	label string
	path  string
}

var dashboardMenus = map[domain.Role][]menuItem{
	domain.RolePatient: {
		{"1", "Find doctors and book", "/patient/doctors"},
		{"2", "My appointments", "/patient/appointments"},
		{"3", "My prescriptions", "/patient/prescriptions"},
	},
	domain.RoleDoctor: {
		{"1", "My appointments", "/doctor/appointments"},
		{"2", "My patients", "/doctor/patients"},
		{"3", "Prescriptions", "/doctor/prescriptions"},
	},
	domain.RoleAdmin: {
		{"1", "Doctors", "/admin-dashboard/doctors"},
		{"2", "Patients", "/admin-dashboard/patients"},
		{"3", "Appointments", "/admin-dashboard/appointments"},
		{"4", "Specializations", "/admin-dashboard/specializations"},
		{"5", "Prescriptions", "/admin-dashboard/prescriptions"},
	},
}

// menuKey maps a number key to its menu destination.
func menuKey(role domain.Role, key string) (string, bool) {
	for _, it := range dashboardMenus[role] {
		if it.key == key {
			return it.path, true
		}
	}
	return "", false
}

func renderMenu(role domain.Role) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Go to") + "\n")
	for _, it := range dashboardMenus[role] {
		b.WriteString("   " + accentStyle.Render(it.key) + " " + normalStyle.Render(it.label) + "\n")
	}
	return b.String()
}

// userDashboard is the patient and doctor home: counters, the next
// appointments and recent prescriptions.
type userDashboard struct {
	env  pageEnv
	role domain.Role
	res  fetch.Resource[overview]
}

func newPatientDashboard(env pageEnv) *userDashboard {
	return newUserDashboard(env, domain.RolePatient)
}

func newDoctorDashboard(env pageEnv) *userDashboard {
	return newUserDashboard(env, domain.RoleDoctor)
}

func newUserDashboard(env pageEnv, role domain.Role) *userDashboard {
	return &userDashboard{
		env:  env,
		role: role,
		res:  fetch.New[overview](env.ctx, "dashboard", loadOverview(env.client, env.session)),
	}
}

func (p *userDashboard) Init() tea.Cmd { return p.res.Fetch() }

func (p *userDashboard) Editing() bool { return false }

func (p *userDashboard) Close() { p.res.Close() }

func (p *userDashboard) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.res.Update(msg) {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if path, ok := menuKey(p.role, msg.String()); ok {
			return p, navigate(path)
		}
		if msg.String() == "r" {
			return p, p.res.Refetch()
		}
	}
	return p, nil
}

func (p *userDashboard) overview() overview {
	if data := p.res.Data(); len(data) > 0 {
		return data[0]
	}
	return overview{}
}

func (p *userDashboard) View() string {
	now := p.env.now()
	ov := p.overview()
	var b strings.Builder

	if s := loadStatus(p.res.Loading(), p.res.Err(), "your data"); s != "" {
		b.WriteString(s + "\n")
	}
	if ov.me.Name != "" {
		title := ov.me.Name
		if p.role == domain.RoleDoctor {
			title = "Dr. " + title
		}
		b.WriteString(" " + selectedStyle.Render("Welcome back, "+title) + "\n\n")
	}

	st := domain.ComputeStats(p.role, ov.appointments, ov.prescriptions, now)
	if p.role == domain.RoleDoctor {
		b.WriteString(statLine("today", st.Today, "upcoming", st.Upcoming, "patients", st.Counterparts,
			"completed", st.Completed, "prescriptions (30d)", st.RecentPrescriptions) + "\n\n")
	} else {
		b.WriteString(statLine("upcoming", st.Upcoming, "completed", st.Completed, "doctors", st.Counterparts,
			"active prescriptions", st.ActivePrescriptions) + "\n\n")
	}

	var appts []domain.Appointment
	if p.role == domain.RoleDoctor {
		b.WriteString(sectionTitle("Today's appointments") + "\n")
		appts = domain.Filter(ov.appointments, func(a domain.Appointment) bool {
			return a.When().SameDay(now) && !a.IsCanceled()
		})
	} else {
		b.WriteString(sectionTitle("Upcoming appointments") + "\n")
		appts = domain.Upcoming(ov.appointments, now)
	}
	slices.SortFunc(appts, func(x, y domain.Appointment) int { return x.When().Compare(y.When().Time) })
	if len(appts) == 0 {
		b.WriteString("   " + dimStyle.Render("Nothing scheduled") + "\n")
	}
	for _, a := range appts[:min(len(appts), dashboardRows)] {
		b.WriteString(appointmentRow(a, p.role, now, p.env.width, false) + "\n")
	}

	b.WriteString("\n" + sectionTitle("Recent prescriptions") + "\n")
	rx := slices.Clone(ov.prescriptions)
	slices.SortFunc(rx, func(x, y domain.Prescription) int { return y.IssuedOn().Compare(x.IssuedOn().Time) })
	if len(rx) == 0 {
		b.WriteString("   " + dimStyle.Render("No prescriptions yet") + "\n")
	}
	for _, x := range rx[:min(len(rx), dashboardRows)] {
		b.WriteString(prescriptionRow(x, p.role, p.env.width, false) + "\n")
	}

	b.WriteString("\n" + renderMenu(p.role))
	return b.String()
}

func (p *userDashboard) Help() string {
	return helpBar(helpEntry("1-3", "go to"), helpEntry("r", "refresh"))
}
