package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/fetch"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// doctorAppointmentsPage lists the doctor's appointments and lets them
// close a visit out as completed or cancelled.
type doctorAppointmentsPage struct {
	env     pageEnv
	appts   collection[domain.Appointment]
	status  string
	confirm confirmState
	notice  notice
}

func newDoctorAppointmentsPage(env pageEnv) *doctorAppointmentsPage {
	p := &doctorAppointmentsPage{
		env:   env,
		appts: collection[domain.Appointment]{res: fetch.New[domain.Appointment](env.ctx, "appointments", myAppointments(env.client, env.session))},
	}
	p.appts.keep = func(a domain.Appointment) bool { return p.status == "" || a.HasStatus(p.status) }
	return p
}

func (p *doctorAppointmentsPage) Init() tea.Cmd { return p.appts.res.Fetch() }

func (p *doctorAppointmentsPage) Editing() bool {
	return p.appts.list.searching || p.confirm.active()
}

func (p *doctorAppointmentsPage) Close() { p.appts.res.Close() }

// setStatus saves a with a new status.
func (p *doctorAppointmentsPage) setStatus(a domain.Appointment, status string) tea.Cmd {
	c := p.env.client
	a.Status = status
	done := fmt.Sprintf("Appointment marked %s", strings.ToLower(status))
	return mutate(p.env.ctx, done, func(ctx context.Context) error {
		_, err := c.Appointments().Update(ctx, a.ID, a)
		return err
	})
}

func (p *doctorAppointmentsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.appts.update(msg) {
		return p, nil
	}
	switch msg := msg.(type) {
	case mutationMsg:
		p.notice.report(msg.done, msg.err)
		if msg.err != nil {
			return p, nil
		}
		return p, p.appts.res.Refetch()

	case tea.KeyMsg:
		if p.confirm.active() {
			return p, p.confirm.answer(msg.String())
		}
		p.notice.clear()
		if p.appts.handleKey(msg) {
			return p, nil
		}
		switch msg.String() {
		case "s":
			p.status = cycle(withAll(domain.Statuses(p.appts.res.Data())), p.status)
			p.appts.list.clamp(len(p.appts.items()))
		case "c":
			if a, ok := p.appts.selected(); ok && !a.HasStatus(domain.StatusCompleted) {
				p.confirm.ask("Mark this appointment completed?", p.setStatus(a, domain.StatusCompleted))
			}
		case "x":
			if a, ok := p.appts.selected(); ok && !a.IsCanceled() {
				p.confirm.ask("Cancel this appointment?", p.setStatus(a, domain.StatusCanceled))
			}
		case "r":
			return p, p.appts.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

func (p *doctorAppointmentsPage) View() string {
	now := p.env.now()
	data := p.appts.res.Data()
	var b strings.Builder
	b.WriteString(p.notice.view())
	if p.confirm.active() {
		b.WriteString(p.confirm.view() + "\n")
	}
	scheduled := len(domain.Filter(data, func(a domain.Appointment) bool {
		return a.HasStatus(domain.StatusScheduled) || a.HasStatus(domain.StatusPending) || a.HasStatus(domain.StatusConfirmed)
	}))
	b.WriteString(statLine("scheduled", scheduled,
		"completed", len(domain.WithStatus(data, domain.StatusCompleted)),
		"cancelled", len(domain.Filter(data, domain.Appointment.IsCanceled))) + "\n")
	b.WriteString(" " + dimStyle.Render("status: ") + accentStyle.Render(filterLabel(p.status)) + "\n")
	b.WriteString(p.appts.render(p.env.height-3, func(a domain.Appointment, sel bool) string {
		return appointmentRow(a, domain.RoleDoctor, now, p.env.width, sel)
	}, func(a domain.Appointment) string { return appointmentDetail(a, now) }))
	return b.String()
}

func (p *doctorAppointmentsPage) Help() string {
	if p.confirm.active() {
		return helpBar(helpEntry("y", "confirm"), helpEntry("n", "cancel"))
	}
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("s", "status"),
		helpEntry("c", "complete"), helpEntry("x", "cancel visit"), helpEntry("enter", "details"),
		helpEntry("r", "refresh"), helpEntry("esc", "back"))
}

// patientVisits is a patient of the doctor with their visit counts.
type patientVisits struct {
	domain.Patient
	visits    int
	completed int
}

// myPatients loads the patients who have appointments with the doctor.
// Patients missing from /patients still show, named from the appointment.
func myPatients(load func(ctx context.Context) ([]domain.Appointment, error), patients func(ctx context.Context) ([]domain.Patient, error)) fetch.Func[patientVisits] {
	return func(ctx context.Context) ([]patientVisits, error) {
		appts, err := load(ctx)
		if err != nil {
			return nil, err
		}
		all, err := patients(ctx)
		if err != nil {
			return nil, err
		}
		return patientsFromAppointments(appts, all), nil
	}
}

func patientsFromAppointments(appts []domain.Appointment, all []domain.Patient) []patientVisits {
	var out []patientVisits
	index := map[domain.ID]int{}
	for _, a := range appts {
		id := domain.ParseID(a.PatientRef().String())
		if id.IsZero() {
			continue
		}
		i, ok := index[id]
		if !ok {
			pv := patientVisits{Patient: domain.Patient{ID: id, Name: a.PatientLabel()}}
			for _, p := range all {
				if p.ID.Equal(id) {
					pv.Patient = p
					break
				}
			}
			out = append(out, pv)
			i = len(out) - 1
			index[id] = i
		}
		out[i].visits++
		if a.HasStatus(domain.StatusCompleted) {
			out[i].completed++
		}
	}
	return out
}

// doctorPatientsPage lists the doctor's patients.
type doctorPatientsPage struct {
	env      pageEnv
	patients collection[patientVisits]
}

func newDoctorPatientsPage(env pageEnv) *doctorPatientsPage {
	load := myPatients(myAppointments(env.client, env.session), env.client.Patients().List)
	return &doctorPatientsPage{
		env:      env,
		patients: collection[patientVisits]{res: fetch.New[patientVisits](env.ctx, "patients", load)},
	}
}

func (p *doctorPatientsPage) Init() tea.Cmd { return p.patients.res.Fetch() }

func (p *doctorPatientsPage) Editing() bool { return p.patients.list.searching }

func (p *doctorPatientsPage) Close() { p.patients.res.Close() }

func (p *doctorPatientsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.patients.update(msg) {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.patients.handleKey(msg) {
			return p, nil
		}
		switch msg.String() {
		case "r":
			return p, p.patients.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

func (p *doctorPatientsPage) View() string {
	data := p.patients.res.Data()
	visits, completed := 0, 0
	for _, pv := range data {
		visits += pv.visits
		completed += pv.completed
	}
	head := statLine("patients", len(data), "visits", visits, "completed", completed) + "\n"
	return head + p.patients.render(p.env.height-1, func(pv patientVisits, sel bool) string {
		return patientRow(pv.Patient, p.env.width-14, sel) + " " + metaStyle.Render(fmt.Sprintf("%d visits", pv.visits))
	}, func(pv patientVisits) string {
		return patientDetail(pv.Patient) + detailLine("Visits", fmt.Sprintf("%d (%d completed)", pv.visits, pv.completed))
	})
}

func (p *doctorPatientsPage) Help() string {
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("enter", "details"),
		helpEntry("r", "refresh"), helpEntry("esc", "back"))
}

// doctorPrescriptionsPage lists the doctor's prescriptions and writes new
// ones.
type doctorPrescriptionsPage struct {
	env    pageEnv
	rx     collection[domain.Prescription]
	create *formModel
	notice notice
}

func newDoctorPrescriptionsPage(env pageEnv) *doctorPrescriptionsPage {
	return &doctorPrescriptionsPage{
		env: env,
		rx:  collection[domain.Prescription]{res: fetch.New[domain.Prescription](env.ctx, "prescriptions", myPrescriptions(env.client, env.session))},
	}
}

func (p *doctorPrescriptionsPage) Init() tea.Cmd { return p.rx.res.Fetch() }

func (p *doctorPrescriptionsPage) Editing() bool {
	return p.rx.list.searching || p.create != nil
}

func (p *doctorPrescriptionsPage) Close() { p.rx.res.Close() }

func newPrescriptionForm() formModel {
	return newFormModel("New prescription",
		formField{key: "PatientID", label: "Patient ID"},
		formField{key: "Problem", label: "Problem"},
		formField{key: "Tests", label: "Tests", hint: "comma separated"},
		formField{key: "Tablets", label: "Tablets", hint: "comma separated"},
		formField{key: "Capsules", label: "Capsules", hint: "comma separated"},
		formField{key: "Vaccines", label: "Vaccines", hint: "comma separated"},
		formField{key: "Advice", label: "Advice"},
		formField{key: "Other", label: "Other"},
		formField{key: "FollowUpDate", label: "Follow-up date", hint: "YYYY-MM-DD"},
	)
}

func (p *doctorPrescriptionsPage) prescriptionForm() domain.PrescriptionForm {
	f := p.create
	return domain.PrescriptionForm{
		PatientID:    f.value("PatientID"),
		Problem:      f.value("Problem"),
		Tests:        f.value("Tests"),
		Tablets:      f.value("Tablets"),
		Capsules:     f.value("Capsules"),
		Vaccines:     f.value("Vaccines"),
		Advice:       f.value("Advice"),
		Other:        f.value("Other"),
		FollowUpDate: f.value("FollowUpDate"),
	}
}

func (p *doctorPrescriptionsPage) submit() tea.Cmd {
	pf := p.prescriptionForm()
	if !p.create.check(pf) {
		return nil
	}
	p.create.busy = true
	c, sess, today := p.env.client, p.env.session, p.env.now()
	return mutate(p.env.ctx, "Prescription created", func(ctx context.Context) error {
		me, err := lookupSelf(ctx, c, sess)
		if err != nil {
			return err
		}
		_, err = c.Prescriptions().Create(ctx, pf.Prescription(me.ID, today))
		return err
	})
}

func (p *doctorPrescriptionsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.rx.update(msg) {
		return p, nil
	}
	switch msg := msg.(type) {
	case mutationMsg:
		if p.create != nil {
			if msg.err != nil {
				p.create.fail(errorText(msg.err, "Failed to create prescription"))
				return p, nil
			}
			p.create = nil
		}
		p.notice.report(msg.done, msg.err)
		return p, p.rx.res.Refetch()

	case tea.KeyMsg:
		if p.create != nil {
			switch p.create.handleKey(msg) {
			case formSubmit:
				return p, p.submit()
			case formCancel:
				p.create = nil
			}
			return p, nil
		}
		p.notice.clear()
		if p.rx.handleKey(msg) {
			return p, nil
		}
		switch msg.String() {
		case "n":
			f := newPrescriptionForm()
			if a, ok := p.rx.selected(); ok {
				f.set("PatientID", a.PatientRef().String())
			}
			p.create = &f
		case "r":
			return p, p.rx.res.Refetch()
		case "esc":
			return p, p.env.back()
		}
	}
	return p, nil
}

func (p *doctorPrescriptionsPage) View() string {
	if p.create != nil {
		return "\n" + p.create.View()
	}
	now := p.env.now()
	data := p.rx.res.Data()
	patients := map[domain.ID]bool{}
	active := 0
	for _, x := range data {
		if x.IsActive() {
			active++
		}
		if id := x.PatientRef(); !id.IsZero() {
			patients[domain.ParseID(id.String())] = true
		}
	}
	head := p.notice.view() + statLine("total", len(data), "active", active,
		"this month", len(domain.IssuedSince(data, now.AddDate(0, 0, -30))), "patients", len(patients)) + "\n"
	return head + p.rx.render(p.env.height-2, func(x domain.Prescription, sel bool) string {
		return prescriptionRow(x, domain.RoleDoctor, p.env.width, sel)
	}, func(x domain.Prescription) string { return prescriptionDetail(x, now) })
}

func (p *doctorPrescriptionsPage) Help() string {
	if p.create != nil {
		return formHelp()
	}
	return helpBar(helpEntry("j/k", "nav"), helpEntry("/", "search"), helpEntry("n", "new"),
		helpEntry("enter", "details"), helpEntry("r", "refresh"), helpEntry("esc", "back"))
}
