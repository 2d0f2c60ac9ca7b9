package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/browser"
	"github.com/mediconnect/mediconnect/internal/fetch"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// Swapped in tests.
var (
	openURL  = browser.Open
	copyText = clipboard.WriteAll
)

// bookingDays is how far ahead a visit can be booked.
const bookingDays = 30

// bookingDates lists the next bookingDays days after today.
func bookingDates(now time.Time) []string {
	out := make([]string, 0, bookingDays+1)
	out = append(out, "")
	for i := 1; i <= bookingDays; i++ {
		out = append(out, now.AddDate(0, 0, i).Format(domain.DateLayout))
	}
	return out
}

// patientDoctorsPage lets a patient browse doctors and book a visit.
type patientDoctorsPage struct {
	env     pageEnv
	doctors collection[domain.Doctor]
	spec    string
	booking *formModel
	bookFor domain.Doctor
	notice  notice
	// profile is the selected doctor reloaded when its detail opens.
	profile fetch.Resource[domain.Doctor]
}

func newPatientDoctorsPage(env pageEnv) *patientDoctorsPage {
	p := &patientDoctorsPage{
		env:     env,
		doctors: collection[domain.Doctor]{res: fetch.New[domain.Doctor](env.ctx, "doctors", env.client.Doctors().List)},
	}
	p.doctors.keep = func(d domain.Doctor) bool { return d.HasSpecialization(p.spec) }
	return p
}

// specializations lists the distinct specializations of loaded doctors.
func (p *patientDoctorsPage) specializations() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range p.doctors.res.Data() {
		s := strings.TrimSpace(d.Specializations)
		if s != "" && !seen[strings.ToLower(s)] {
			seen[strings.ToLower(s)] = true
			out = append(out, s)
		}
	}
	return out
}

func (p *patientDoctorsPage) Init() tea.Cmd { return p.doctors.res.Fetch() }

func (p *patientDoctorsPage) Editing() bool {
	return p.booking != nil || p.doctors.list.searching
}

func (p *patientDoctorsPage) Close() {
	p.doctors.res.Close()
	p.profile.Close()
}

// openProfile reloads the selected doctor for the detail view.
func (p *patientDoctorsPage) openProfile() tea.Cmd {
	d, ok := p.doctors.selected()
	if !ok {
		return nil
	}
	p.profile.Close()
	c := p.env.client
	p.profile = fetch.New[domain.Doctor](p.env.ctx, "doctor", fetch.One(func(ctx context.Context) (*domain.Doctor, error) {
		return c.Doctors().Get(ctx, d.ID)
	}))
	return p.profile.Fetch()
}

// detail prefers the reloaded record over the list's copy.
func (p *patientDoctorsPage) detail(d domain.Doctor) string {
	if fresh := p.profile.Data(); len(fresh) == 1 && fresh[0].ID.Equal(d.ID) {
		d = fresh[0]
	}
	return doctorDetail(d)
}

func (p *patientDoctorsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.doctors.update(msg) || p.profile.Update(msg) {
		return p, nil
	}
	switch msg := msg.(type) {
	case mutationMsg:
		if p.booking != nil {
			if msg.err != nil {
				p.booking.fail(errorText(msg.err, "Failed to book appointment"))
				return p, nil
			}
			p.booking = nil
		}
		p.notice.report(msg.done, msg.err)
		return p, nil

	case tea.KeyMsg:
		if p.booking != nil {
			return p, p.updateBooking(msg)
		}
		p.notice.clear()
		wasDetail := p.doctors.list.detail
		if p.doctors.handleKey(msg) {
			if !wasDetail && p.doctors.list.detail {
				return p, p.openProfile()
			}
			return p, nil
		}
		switch msg.String() {
		case "s":
			p.spec = cycle(withAll(p.specializations()), p.spec)
			p.doctors.list.clamp(len(p.doctors.items()))
		case "b":
			if d, ok := p.doctors.selected(); ok {
				p.openBooking(d)
			}
		case "o":
			if d, ok := p.doctors.selected(); ok {
				p.notice.report("Opened picture", openPicture(d.Pic))
			}
		case "r":
			return p, p.doctors.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

// errorText is the message for a failed action: the server's message when
// it sent one, else fallback.
func errorText(err error, fallback string) string {
	var he *client.HTTPError
	if err == nil || (errors.As(err, &he) && he.Message == "") {
		return fallback
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return fallback
}

func openPicture(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if raw == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("this doctor has no picture")
	}
	return openURL(u.String())
}

func (p *patientDoctorsPage) openBooking(d domain.Doctor) {
	f := newFormModel("Book an appointment with Dr. "+d.DisplayName(),
		formField{key: "VisitingDate", label: "Visiting date", options: bookingDates(p.env.now())},
		formField{key: "ProblemDescription", label: "Problem", hint: "describe your symptoms"},
	)
	p.booking = &f
	p.bookFor = d
}

func (p *patientDoctorsPage) updateBooking(msg tea.KeyMsg) tea.Cmd {
	switch p.booking.handleKey(msg) {
	case formCancel:
		p.booking = nil
	case formSubmit:
		date := p.booking.value("VisitingDate")
		problem := p.booking.value("ProblemDescription")
		if date == "" || problem == "" {
			p.booking.fail("Please fill in all fields")
			return nil
		}
		visit, err := domain.ParseDate(date)
		if err != nil {
			p.booking.fail(err.Error())
			return nil
		}
		p.booking.busy = true
		c, sess, doctor := p.env.client, p.env.session, p.bookFor
		return mutate(p.env.ctx, "Appointment booked successfully!", func(ctx context.Context) error {
			patientID := sess.ID
			if patientID.IsZero() {
				me, err := lookupSelf(ctx, c, sess)
				if err != nil {
					return err
				}
				patientID = me.ID
			}
			_, err := c.BookAppointment(ctx, domain.BookingRequest{
				DoctorID:           doctor.ID,
				PatientID:          patientID,
				VisitingDate:       visit,
				ProblemDescription: problem,
			})
			return err
		})
	}
	return nil
}

func (p *patientDoctorsPage) View() string {
	if p.booking != nil {
		return "\n" + p.booking.View()
	}
	var b strings.Builder
	b.WriteString(p.notice.view())
	b.WriteString(" " + dimStyle.Render("specialization: ") + accentStyle.Render(filterLabel(p.spec)) + "\n")
	b.WriteString(p.doctors.render(p.env.height-1, func(d domain.Doctor, sel bool) string {
		return doctorRow(d, p.env.width, sel)
	}, p.detail))
	return b.String()
}

func (p *patientDoctorsPage) Help() string {
	if p.booking != nil {
		return formHelp()
	}
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("s", "specialization"),
		helpEntry("b", "book"), helpEntry("o", "picture"), helpEntry("enter", "details"), helpEntry("r", "refresh"),
		helpEntry("esc", "back"))
}

// patientAppointmentsPage lists the patient's own appointments, split into
// upcoming and past.
type patientAppointmentsPage struct {
	env    pageEnv
	appts  collection[domain.Appointment]
	status string
}

func newPatientAppointmentsPage(env pageEnv) *patientAppointmentsPage {
	p := &patientAppointmentsPage{
		env:   env,
		appts: collection[domain.Appointment]{res: fetch.New[domain.Appointment](env.ctx, "appointments", myAppointments(env.client, env.session))},
	}
	p.appts.keep = func(a domain.Appointment) bool { return p.status == "" || a.HasStatus(p.status) }
	return p
}

func (p *patientAppointmentsPage) Init() tea.Cmd { return p.appts.res.Fetch() }

func (p *patientAppointmentsPage) Editing() bool { return p.appts.list.searching }

func (p *patientAppointmentsPage) Close() { p.appts.res.Close() }

// ordered puts upcoming visits first, soonest first, then past visits,
// most recent first. The cursor indexes this order.
func (p *patientAppointmentsPage) ordered() (upcoming, past []domain.Appointment) {
	now := p.env.now()
	items := p.appts.items()
	upcoming = sortByWhen(domain.Upcoming(items, now), false)
	past = sortByWhen(domain.Past(items, now), true)
	return upcoming, past
}

func (p *patientAppointmentsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.appts.update(msg) {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.appts.handleKey(msg) {
			return p, nil
		}
		switch msg.String() {
		case "s":
			p.status = cycle(withAll(domain.Statuses(p.appts.res.Data())), p.status)
			p.appts.list.clamp(len(p.appts.items()))
		case "r":
			return p, p.appts.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

func (p *patientAppointmentsPage) View() string {
	now := p.env.now()
	var b strings.Builder
	if s := p.appts.status(); s != "" {
		b.WriteString(s + "\n")
	}
	upcoming, past := p.ordered()
	all := append(append([]domain.Appointment{}, upcoming...), past...)
	cur := p.appts.list.cursor

	if p.appts.list.detail && cur < len(all) {
		b.WriteString(appointmentDetail(all[cur], now))
		return b.String()
	}

	b.WriteString(" " + dimStyle.Render("status: ") + accentStyle.Render(filterLabel(p.status)) + "\n")
	b.WriteString(renderSearch(p.appts.list.query, p.appts.list.searching) + "\n\n")

	b.WriteString(sectionTitle(fmt.Sprintf("Upcoming (%d)", len(upcoming))) + "\n")
	if len(upcoming) == 0 {
		b.WriteString("   " + dimStyle.Render("No upcoming appointments") + "\n")
	}
	for i, a := range upcoming {
		b.WriteString(appointmentRow(a, domain.RolePatient, now, p.env.width, i == cur) + "\n")
	}
	b.WriteString("\n" + sectionTitle(fmt.Sprintf("Past (%d)", len(past))) + "\n")
	if len(past) == 0 {
		b.WriteString("   " + dimStyle.Render("No past appointments") + "\n")
	}
	for i, a := range past {
		b.WriteString(appointmentRow(a, domain.RolePatient, now, p.env.width, len(upcoming)+i == cur) + "\n")
	}
	return b.String()
}

func (p *patientAppointmentsPage) Help() string {
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("s", "status"),
		helpEntry("enter", "details"), helpEntry("r", "refresh"), helpEntry("esc", "back"))
}

// patientPrescriptionsPage lists the patient's prescriptions.
type patientPrescriptionsPage struct {
	env    pageEnv
	rx     collection[domain.Prescription]
	notice notice
}

func newPatientPrescriptionsPage(env pageEnv) *patientPrescriptionsPage {
	return &patientPrescriptionsPage{
		env: env,
		rx:  collection[domain.Prescription]{res: fetch.New[domain.Prescription](env.ctx, "prescriptions", myPrescriptions(env.client, env.session))},
	}
}

func (p *patientPrescriptionsPage) Init() tea.Cmd { return p.rx.res.Fetch() }

func (p *patientPrescriptionsPage) Editing() bool { return p.rx.list.searching }

func (p *patientPrescriptionsPage) Close() { p.rx.res.Close() }

type copiedMsg struct {
	err error
}

func (p *patientPrescriptionsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.rx.update(msg) {
		return p, nil
	}
	switch msg := msg.(type) {
	case copiedMsg:
		p.notice.report("Copied to clipboard", msg.err)
	case tea.KeyMsg:
		p.notice.clear()
		if p.rx.handleKey(msg) {
			return p, nil
		}
		switch msg.String() {
		case "c":
			if rx, ok := p.rx.selected(); ok {
				text := rx.Text()
				return p, func() tea.Msg {
					return copiedMsg{err: copyText(text)}
				}
			}
		case "r":
			return p, p.rx.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

func (p *patientPrescriptionsPage) View() string {
	now := p.env.now()
	data := p.rx.res.Data()
	active := 0
	for _, x := range data {
		if x.IsActive() {
			active++
		}
	}
	recent := len(domain.IssuedSince(data, now.AddDate(0, 0, -30)))
	return p.notice.view() + statLine("total", len(data), "active", active, "last 30 days", recent) + "\n" +
		p.rx.render(p.env.height-2, func(x domain.Prescription, sel bool) string {
			return prescriptionRow(x, domain.RolePatient, p.env.width, sel)
		}, func(x domain.Prescription) string { return prescriptionDetail(x, now) })
}

func (p *patientPrescriptionsPage) Help() string {
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("enter", "details"),
		helpEntry("c", "copy"), helpEntry("r", "refresh"), helpEntry("esc", "back"))
}

// sortByWhen orders appointments by visit date; newest first when desc.
func sortByWhen(list []domain.Appointment, desc bool) []domain.Appointment {
	out := slices.Clone(list)
	slices.SortFunc(out, func(x, y domain.Appointment) int {
		if desc {
			return y.When().Compare(x.When().Time)
		}
		return x.When().Compare(y.When().Time)
	})
	return out
}
