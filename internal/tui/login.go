package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediconnect/mediconnect/pkg/domain"
)

// loginResultMsg is the outcome of a login attempt.
type loginResultMsg struct {
	role domain.Role
	err  error
}

// loginPage signs in as the route's role.
type loginPage struct {
	env  pageEnv
	role domain.Role
	form formModel
}

func newLoginPage(env pageEnv) *loginPage {
	role := env.route.LoginRole
	if !role.Valid() {
		role = domain.RolePatient
	}
	return &loginPage{
		env:  env,
		role: role,
		form: newFormModel(role.Title()+" sign in",
			formField{key: "Username", label: "Username", hint: "your username"},
			formField{key: "Password", label: "Password", secret: true},
		),
	}
}

func (p *loginPage) Init() tea.Cmd { return nil }

func (p *loginPage) Editing() bool { return true }

func (p *loginPage) Close() {}

func (p *loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	p.env.resize(msg)
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.err != nil {
			p.form.fail(msg.err.Error())
			p.form.set("Password", "")
			return p, nil
		}
		p.form.succeed("Signed in")
		return p, navigate(msg.role.Home())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			if p.role == domain.RolePatient {
				return p, navigate("/register")
			}
			return p, nil
		case "ctrl+p":
			return p, navigate(domain.RolePatient.LoginRoute())
		case "ctrl+d":
			return p, navigate(domain.RoleDoctor.LoginRoute())
		case "ctrl+a":
			return p, navigate(domain.RoleAdmin.LoginRoute())
		}
		switch p.form.handleKey(msg) {
		case formSubmit:
			return p, p.submit()
		case formCancel:
			p.form.set("Username", "")
			p.form.set("Password", "")
			p.form.focus = 0
			p.form.status = ""
		}
	}
	return p, nil
}

func (p *loginPage) submit() tea.Cmd {
	creds := domain.Credentials{
		Username: p.form.value("Username"),
		Password: p.form.value("Password"),
	}
	if creds.Username == "" || creds.Password == "" {
		p.form.fail("Please fill in all fields")
		return nil
	}
	p.form.busy = true
	p.form.status = ""
	store, ctx, role := p.env.store(), p.env.ctx, p.role
	return func() tea.Msg {
		got, err := store.Login(ctx, role, creds)
		if ctx.Err() != nil {
			return nil
		}
		return loginResultMsg{role: got, err: err}
	}
}

func (p *loginPage) View() string {
	v := "\n" + p.form.View()
	if p.role == domain.RolePatient {
		v += "\n " + dimStyle.Render("New here? ") + helpEntry("ctrl+r", "register") + "\n"
	}
	return v
}

func (p *loginPage) Help() string {
	return helpBar(
		helpEntry("tab", "next"),
		helpEntry("enter", "sign in"),
		helpEntry("ctrl+p/d/a", "patient/doctor/admin"),
		helpEntry("ctrl+c", "quit"),
	)
}
