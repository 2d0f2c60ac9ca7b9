package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/fetch"
	"github.com/mediconnect/mediconnect/pkg/client"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// adminDashboard shows a count per resource. Each count loads on its own.
type adminDashboard struct {
	env             pageEnv
	doctors         fetch.Resource[domain.Doctor]
	patients        fetch.Resource[domain.Patient]
	appointments    fetch.Resource[domain.Appointment]
	specializations fetch.Resource[domain.Specialization]
	prescriptions   fetch.Resource[domain.Prescription]
}

func newAdminDashboard(env pageEnv) *adminDashboard {
	c := env.client
	return &adminDashboard{
		env:             env,
		doctors:         fetch.New[domain.Doctor](env.ctx, "doctors", c.Doctors().List),
		patients:        fetch.New[domain.Patient](env.ctx, "patients", c.Patients().List),
		appointments:    fetch.New[domain.Appointment](env.ctx, "appointments", c.Appointments().List),
		specializations: fetch.New[domain.Specialization](env.ctx, "specializations", c.Specializations().List),
		prescriptions:   fetch.New[domain.Prescription](env.ctx, "prescriptions", c.Prescriptions().List),
	}
}

func (p *adminDashboard) Init() tea.Cmd {
	return tea.Batch(p.doctors.Fetch(), p.patients.Fetch(), p.appointments.Fetch(),
		p.specializations.Fetch(), p.prescriptions.Fetch())
}

func (p *adminDashboard) Editing() bool { return false }

func (p *adminDashboard) Close() {
	p.doctors.Close()
	p.patients.Close()
	p.appointments.Close()
	p.specializations.Close()
	p.prescriptions.Close()
}

func (p *adminDashboard) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.doctors.Update(msg) || p.patients.Update(msg) || p.appointments.Update(msg) ||
		p.specializations.Update(msg) || p.prescriptions.Update(msg) {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if path, ok := menuKey(domain.RoleAdmin, msg.String()); ok {
			return p, navigate(path)
		}
		if msg.String() == "r" {
			return p, p.Init()
		}
	}
	return p, nil
}

// countCard renders one resource count, "..." while it loads.
func countCard(label string, n int, loading bool, err error) string {
	val := statValueStyle.Render(fmt.Sprintf("%d", n))
	switch {
	case err != nil:
		val = errorStyle.Render("error: " + client.Message(err))
	case loading:
		val = dimStyle.Render("...")
	}
	return "   " + dimStyle.Render(pad(label, 22)) + val + "\n"
}

func (p *adminDashboard) View() string {
	now := p.env.now()
	var b strings.Builder
	b.WriteString(sectionTitle("Overview") + "\n")
	b.WriteString(countCard("Total doctors", len(p.doctors.Data()), p.doctors.Loading(), p.doctors.Err()))
	b.WriteString(countCard("Total patients", len(p.patients.Data()), p.patients.Loading(), p.patients.Err()))
	b.WriteString(countCard("Total appointments", len(p.appointments.Data()), p.appointments.Loading(), p.appointments.Err()))
	b.WriteString(countCard("Specializations", len(p.specializations.Data()), p.specializations.Loading(), p.specializations.Err()))
	b.WriteString(countCard("Prescriptions", len(p.prescriptions.Data()), p.prescriptions.Loading(), p.prescriptions.Err()))

	appts := p.appointments.Data()
	today := domain.Filter(appts, func(a domain.Appointment) bool { return a.When().SameDay(now) })
	b.WriteString("\n" + statLine("today", len(today), "upcoming", len(domain.Upcoming(appts, now)),
		"completed", len(domain.WithStatus(appts, domain.StatusCompleted))) + "\n\n")

	b.WriteString(renderMenu(domain.RoleAdmin))
	return b.String()
}

func (p *adminDashboard) Help() string {
	return helpBar(helpEntry("1-5", "go to"), helpEntry("r", "refresh"))
}

// adminList is a searchable admin table with optional status filter,
// create/edit form and delete. Unset hooks switch the feature off.
type adminList[T interface{ Matches(string) bool }] struct {
	env     pageEnv
	items   collection[T]
	confirm confirmState
	notice  notice

	row    func(item T, width int, selected bool) string
	detail func(item T) string

	// statuses lists the filter values for s; statusOf reads one item's.
	statuses func(data []T) []string
	statusOf func(item T) string
	status   string

	// remove describes and performs a delete.
	remove func(item T) (prompt, done string, del func(ctx context.Context) error)

	// newForm, editForm and save drive the create/edit form. save returns
	// nil when the form does not validate.
	newForm    func() formModel
	editForm   func(item T) (domain.ID, formModel)
	save       func(f *formModel, id domain.ID) tea.Cmd
	saveFailed string
	editor     *formModel
	editID     domain.ID
}

func (p *adminList[T]) init() {
	p.items.keep = func(item T) bool {
		return p.status == "" || p.statusOf == nil || strings.EqualFold(p.statusOf(item), p.status)
	}
}

func (p *adminList[T]) Init() tea.Cmd { return p.items.res.Fetch() }

func (p *adminList[T]) Editing() bool {
	return p.items.list.searching || p.confirm.active() || p.editor != nil
}

func (p *adminList[T]) Close() { p.items.res.Close() }

func (p *adminList[T]) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	if p.items.update(msg) {
		return p, nil
	}
	switch msg := msg.(type) {
	case mutationMsg:
		if p.editor != nil {
			if msg.err != nil {
				p.editor.fail(errorText(msg.err, p.saveFailed))
				return p, nil
			}
			p.editor = nil
		}
		p.notice.report(msg.done, msg.err)
		return p, p.items.res.Refetch()

	case tea.KeyMsg:
		if p.editor != nil {
			switch p.editor.handleKey(msg) {
			case formSubmit:
				return p, p.submit()
			case formCancel:
				p.editor = nil
			}
			return p, nil
		}
		if p.confirm.active() {
			return p, p.confirm.answer(msg.String())
		}
		p.notice.clear()
		if p.items.handleKey(msg) {
			return p, nil
		}
		return p, p.actionKey(msg.String())
	}
	return p, nil
}

func (p *adminList[T]) actionKey(key string) tea.Cmd {
	switch key {
	case "s":
		if p.statuses != nil {
			p.status = cycle(withAll(p.statuses(p.items.res.Data())), p.status)
			p.items.list.clamp(len(p.items.items()))
		}
	case "n":
		if p.newForm != nil {
			f := p.newForm()
			p.editor, p.editID = &f, ""
		}
	case "e":
		if item, ok := p.items.selected(); ok && p.editForm != nil {
			id, f := p.editForm(item)
			p.editor, p.editID = &f, id
		}
	case "d":
		if item, ok := p.items.selected(); ok && p.remove != nil {
			prompt, done, del := p.remove(item)
			p.confirm.ask(prompt, mutate(p.env.ctx, done, del))
		}
	case "r":
		return p.items.res.Refetch()
	case "esc":
		return p.env.back()
	}
	return nil
}

func (p *adminList[T]) submit() tea.Cmd {
	if p.save == nil {
		return nil
	}
	cmd := p.save(p.editor, p.editID)
	if cmd != nil {
		p.editor.busy = true
	}
	return cmd
}

func (p *adminList[T]) View() string {
	if p.editor != nil {
		return "\n" + p.editor.View()
	}
	var b strings.Builder
	b.WriteString(p.notice.view())
	if p.confirm.active() {
		b.WriteString(p.confirm.view() + "\n")
	}
	used := 0
	if p.statuses != nil {
		b.WriteString(" " + dimStyle.Render("status: ") + accentStyle.Render(filterLabel(p.status)) + "\n")
		used++
	}
	b.WriteString(p.items.render(p.env.height-used, func(item T, sel bool) string {
		return p.row(item, p.env.width, sel)
	}, p.detail))
	return b.String()
}

func (p *adminList[T]) Help() string {
	if p.editor != nil {
		return formHelp()
	}
	if p.confirm.active() {
		return helpBar(helpEntry("y", "confirm"), helpEntry("n", "cancel"))
	}
	entries := []string{helpEntry("j/k", "nav"), helpEntry("/", "search")}
	if p.statuses != nil {
		entries = append(entries, helpEntry("s", "status"))
	}
	if p.newForm != nil {
		entries = append(entries, helpEntry("n", "new"))
	}
	if p.editForm != nil {
		entries = append(entries, helpEntry("e", "edit"))
	}
	if p.remove != nil {
		entries = append(entries, helpEntry("d", "delete"))
	}
	entries = append(entries, helpEntry("enter", "details"), helpEntry("r", "refresh"), helpEntry("esc", "back"))
	return helpBar(entries...)
}

func doctorFormModel(title string, f domain.DoctorForm, editing bool) formModel {
	id := formField{key: "ID", label: "ID", value: f.ID, hint: "number"}
	if editing {
		id.hint = "cannot change"
	}
	return newFormModel(title,
		id,
		formField{key: "Name", label: "Name", value: f.Name},
		formField{key: "Email", label: "Email", value: f.Email},
		formField{key: "Phone", label: "Phone", value: f.Phone, hint: "optional"},
		formField{key: "Username", label: "Username", value: f.Username},
		formField{key: "Password", label: "Password", value: f.Password, secret: true},
		formField{key: "Specializations", label: "Specialization", value: f.Specializations},
		formField{key: "VisitingDays", label: "Visiting days", value: f.VisitingDays, hint: "e.g. Mon, Wed"},
		formField{key: "Pic", label: "Picture URL", value: f.Pic, hint: "optional"},
	)
}

func newAdminDoctorsPage(env pageEnv) *adminList[domain.Doctor] {
	c := env.client
	p := &adminList[domain.Doctor]{
		env:    env,
		items:  collection[domain.Doctor]{res: fetch.New[domain.Doctor](env.ctx, "doctors", c.Doctors().List)},
		row:    doctorRow,
		detail: doctorDetail,
		remove: func(d domain.Doctor) (string, string, func(context.Context) error) {
			return "Delete Dr. " + d.DisplayName() + "?", "Doctor deleted", func(ctx context.Context) error {
				return c.Doctors().Delete(ctx, d.ID)
			}
		},
		newForm: func() formModel {
			return doctorFormModel("Add doctor", domain.DoctorForm{}, false)
		},
		editForm: func(d domain.Doctor) (domain.ID, formModel) {
			return d.ID, doctorFormModel("Edit Dr. "+d.DisplayName(), domain.DoctorFormFrom(d), true)
		},
		saveFailed: "Failed to save doctor. Please check if ID, email, or username already exists.",
	}
	p.save = func(f *formModel, id domain.ID) tea.Cmd {
		df := domain.DoctorForm{
			ID:              f.value("ID"),
			Name:            f.value("Name"),
			Email:           f.value("Email"),
			Phone:           f.value("Phone"),
			Username:        f.value("Username"),
			Password:        f.value("Password"),
			Specializations: f.value("Specializations"),
			VisitingDays:    f.value("VisitingDays"),
			Pic:             f.value("Pic"),
		}
		if !id.IsZero() {
			df.ID = id.String()
		}
		if !f.check(df) {
			return nil
		}
		doc := df.Doctor()
		if id.IsZero() {
			return mutate(env.ctx, "Doctor added successfully!", func(ctx context.Context) error {
				_, err := c.Doctors().Create(ctx, doc)
				return err
			})
		}
		return mutate(env.ctx, "Doctor updated", func(ctx context.Context) error {
			_, err := c.Doctors().Update(ctx, id, doc)
			return err
		})
	}
	p.init()
	return p
}

func newAdminPatientsPage(env pageEnv) *adminList[domain.Patient] {
	c := env.client
	p := &adminList[domain.Patient]{
		env:    env,
		items:  collection[domain.Patient]{res: fetch.New[domain.Patient](env.ctx, "patients", c.Patients().List)},
		row:    patientRow,
		detail: patientDetail,
		remove: func(pt domain.Patient) (string, string, func(context.Context) error) {
			return "Delete patient " + pt.DisplayName() + "?", "Patient deleted", func(ctx context.Context) error {
				return c.Patients().Delete(ctx, pt.ID)
			}
		},
	}
	p.init()
	return p
}

func newAdminAppointmentsPage(env pageEnv) *adminList[domain.Appointment] {
	c := env.client
	p := &adminList[domain.Appointment]{
		env:   env,
		items: collection[domain.Appointment]{res: fetch.New[domain.Appointment](env.ctx, "appointments", c.Appointments().List)},
		row: func(a domain.Appointment, width int, sel bool) string {
			return appointmentRow(a, domain.RoleAdmin, env.now(), width, sel)
		},
		detail: func(a domain.Appointment) string {
			return appointmentDetail(a, env.now())
		},
		statuses: domain.Statuses,
		statusOf: func(a domain.Appointment) string { return a.Status },
		remove: func(a domain.Appointment) (string, string, func(context.Context) error) {
			prompt := fmt.Sprintf("Delete appointment #%s (%s with Dr. %s)?", a.ID, a.PatientLabel(), a.DoctorLabel())
			return prompt, "Appointment deleted", func(ctx context.Context) error {
				return c.Appointments().Delete(ctx, a.ID)
			}
		},
	}
	p.init()
	return p
}

func specializationFormModel(title string, f domain.SpecializationForm) formModel {
	return newFormModel(title,
		formField{key: "Name", label: "Name", value: f.Name},
		formField{key: "Description", label: "Description", value: f.Description, hint: "optional"},
	)
}

func specializationRow(s domain.Specialization, width int, selected bool) string {
	name := pad(s.Name, 24)
	if selected {
		name = selectedStyle.Render(name)
	} else {
		name = normalStyle.Render(name)
	}
	return cursorMark(selected) + name + " " + dimStyle.Render(truncStr(oneLine(s.Description), max(width-30, 8)))
}

func specializationDetail(s domain.Specialization) string {
	return "\n " + titleStyle.Render(s.Name) + "\n\n" + detailLine("ID", s.ID.String()) + detailLine("Description", s.Description)
}

func newAdminSpecializationsPage(env pageEnv) *adminList[domain.Specialization] {
	c := env.client
	p := &adminList[domain.Specialization]{
		env:    env,
		items:  collection[domain.Specialization]{res: fetch.New[domain.Specialization](env.ctx, "specializations", c.Specializations().List)},
		row:    specializationRow,
		detail: specializationDetail,
		remove: func(s domain.Specialization) (string, string, func(context.Context) error) {
			return "Delete specialization " + s.Name + "?", "Specialization deleted", func(ctx context.Context) error {
				return c.Specializations().Delete(ctx, s.ID)
			}
		},
		newForm: func() formModel {
			return specializationFormModel("Add specialization", domain.SpecializationForm{})
		},
		editForm: func(s domain.Specialization) (domain.ID, formModel) {
			return s.ID, specializationFormModel("Edit "+s.Name, domain.SpecializationForm{Name: s.Name, Description: s.Description})
		},
		saveFailed: "Failed to save specialization",
	}
	p.save = func(f *formModel, id domain.ID) tea.Cmd {
		sf := domain.SpecializationForm{Name: f.value("Name"), Description: f.value("Description")}
		if !f.check(sf) {
			return nil
		}
		spec := sf.Specialization(id)
		if id.IsZero() {
			return mutate(env.ctx, "Specialization added", func(ctx context.Context) error {
				_, err := c.Specializations().Create(ctx, spec)
				return err
			})
		}
		return mutate(env.ctx, "Specialization updated", func(ctx context.Context) error {
			_, err := c.Specializations().Update(ctx, id, spec)
			return err
		})
	}
	p.init()
	return p
}

func newAdminPrescriptionsPage(env pageEnv) *adminList[domain.Prescription] {
	c := env.client
	p := &adminList[domain.Prescription]{
		env:   env,
		items: collection[domain.Prescription]{res: fetch.New[domain.Prescription](env.ctx, "prescriptions", c.Prescriptions().List)},
		row: func(x domain.Prescription, width int, sel bool) string {
			return prescriptionRow(x, domain.RoleAdmin, width, sel)
		},
		detail: func(x domain.Prescription) string {
			return prescriptionDetail(x, env.now())
		},
		statuses: func([]domain.Prescription) []string { return domain.PrescriptionStatuses },
		statusOf: func(x domain.Prescription) string { return x.Status },
	}
	p.init()
	return p
}
