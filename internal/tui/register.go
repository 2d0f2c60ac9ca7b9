package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/internal/guard"
	"github.com/mediconnect/mediconnect/pkg/domain"
)

// registeredReturnDelay is how long the success message stays before the
// page returns to the login page.
const registeredReturnDelay = 2 * time.Second

type registerResultMsg struct {
	message string
	err     error
}

// registerPage creates a patient account.
type registerPage struct {
	env  pageEnv
	form formModel
	done bool
}

func newRegisterPage(env pageEnv) *registerPage {
	return &registerPage{
		env: env,
		form: newFormModel("Create a patient account",
			formField{key: "IDNumber", label: "ID Number", hint: "4 digits"},
			formField{key: "Name", label: "Full name"},
			formField{key: "Email", label: "Email"},
			formField{key: "Username", label: "Username"},
			formField{key: "Password", label: "Password", secret: true, hint: "at least 6 characters"},
			formField{key: "Phone", label: "Phone", hint: "optional"},
			formField{key: "Age", label: "Age", hint: "optional"},
			formField{key: "Gender", label: "Gender", options: domain.Genders},
			formField{key: "Address", label: "Address", hint: "optional"},
			formField{key: "Pic", label: "Picture URL", hint: "optional, https://...jpg"},
		),
	}
}

func (p *registerPage) registration() domain.RegistrationForm {
	f := &p.form
	return domain.RegistrationForm{
		IDNumber: f.value("IDNumber"),
		Name:     f.value("Name"),
		Email:    f.value("Email"),
		Username: f.value("Username"),
		Password: f.value("Password"),
		Phone:    f.value("Phone"),
		Age:      f.value("Age"),
		Gender:   f.value("Gender"),
		Address:  f.value("Address"),
		Pic:      f.value("Pic"),
	}
}

func (p *registerPage) Init() tea.Cmd { return nil }

func (p *registerPage) Editing() bool { return !p.done }

func (p *registerPage) Close() {}

func (p *registerPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	switch msg := msg.(type) {
	case registerResultMsg:
		if msg.err != nil {
			p.form.fail(msg.err.Error())
			return p, nil
		}
		p.done = true
		p.form.succeed(msg.message)
		return p, navigateAfter(p.env.ctx, registeredReturnDelay, guard.DefaultPath)

	case tea.KeyMsg:
		if p.done {
			if msg.String() == "enter" || msg.String() == "esc" {
				return p, navigate(guard.DefaultPath)
			}
			return p, nil
		}
		switch p.form.handleKey(msg) {
		case formSubmit:
			return p, p.submit()
		case formCancel:
			return p, navigate(guard.DefaultPath)
		}
	}
	return p, nil
}

// submit validates locally and only then calls the backend.
func (p *registerPage) submit() tea.Cmd {
	reg := p.registration()
	if !p.form.check(reg) {
		return nil
	}
	p.form.busy = true
	store, ctx := p.env.store(), p.env.ctx
	profile := reg.Profile()
	return func() tea.Msg {
		message, err := store.Register(ctx, profile)
		if ctx.Err() != nil {
			return nil
		}
		return registerResultMsg{message: message, err: err}
	}
}

func (p *registerPage) View() string {
	v := "\n" + p.form.View()
	if p.done {
		v += " " + dimStyle.Render("Returning to sign in...") + "\n"
	}
	return v
}

func (p *registerPage) Help() string {
	if p.done {
		return helpBar(helpEntry("enter", "sign in now"))
	}
	return formHelp()
}
